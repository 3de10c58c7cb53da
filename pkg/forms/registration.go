package forms

import (
	"regexp"

	"github.com/aretw0/setlist/pkg/decode"
	"github.com/aretw0/setlist/pkg/schema"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Registration is the sign-up form.
type Registration struct {
	Username string `json:"username"`
}

// RegistrationSchema checks username: non-empty, 3 to 30 characters, then
// letters, digits, '_' and '-' only.
var RegistrationSchema = schema.Object(
	schema.Req("username", schema.Constrained(schema.String(),
		schema.NonEmpty(KeyUsernameRequired),
		schema.MinLength(3, KeyUsernameTooShort),
		schema.MaxLength(30, KeyUsernameTooLong),
		schema.Pattern(usernamePattern, KeyUsernameInvalid),
	)).WithRequiredKey(KeyUsernameRequired),
)

// DecodeRegistration validates and decodes a registration form.
func DecodeRegistration(v any) (Registration, error) {
	return decode.UnknownSync[Registration](RegistrationSchema, v)
}
