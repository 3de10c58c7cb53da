package forms

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/aretw0/setlist/pkg/decode"
	"github.com/aretw0/setlist/pkg/schema"
	"github.com/google/uuid"
)

// Providers accepted in app_metadata.provider.
var Providers = []string{"google", "github", "spotify"}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// OAuthUser is the user record handed back after an OAuth sign-in.
type OAuthUser struct {
	ID           uuid.UUID     `json:"id"`
	Email        string        `json:"email"`
	UserMetadata *UserMetadata `json:"user_metadata,omitempty"`
	AppMetadata  *AppMetadata  `json:"app_metadata,omitempty"`
}

// UserMetadata holds the profile fields the provider shares.
type UserMetadata struct {
	FullName          string `json:"full_name,omitempty"`
	Name              string `json:"name,omitempty"`
	AvatarURL         string `json:"avatar_url,omitempty"`
	PreferredUsername string `json:"preferred_username,omitempty"`
}

// AppMetadata records which provider authenticated the user.
type AppMetadata struct {
	Provider string `json:"provider"`
}

// OAuthUserSchema describes OAuthUser. Unknown provider fields are ignored.
var OAuthUserSchema = schema.Object(
	schema.Req("id", schema.Constrained(schema.String(),
		schema.Refine(KeyUserIDInvalid, validUUID),
	)).WithRequiredKey(KeyUserIDInvalid),
	schema.Req("email", schema.Constrained(schema.String(),
		schema.NonEmpty(KeyEmailRequired),
		schema.Pattern(emailPattern, KeyEmailInvalid),
	)).WithRequiredKey(KeyEmailRequired),
	schema.Opt("user_metadata", schema.Object(
		schema.Opt("full_name", schema.String()),
		schema.Opt("name", schema.String()),
		schema.Opt("avatar_url", schema.Constrained(schema.String(),
			schema.Refine(KeyAvatarURLInvalid, validHTTPURL),
		)),
		schema.Opt("preferred_username", schema.String()),
	)),
	schema.Opt("app_metadata", schema.Object(
		schema.Req("provider", schema.Constrained(schema.String(),
			schema.OneOf(KeyProviderUnsupported, Providers...),
		)).WithRequiredKey(KeyProviderUnsupported),
	)),
)

// DecodeOAuthUser validates and decodes an OAuth user record.
func DecodeOAuthUser(v any) (OAuthUser, error) {
	return decode.UnknownSync[OAuthUser](OAuthUserSchema, v)
}

// DisplayName picks the best available name: full name, name, preferred
// username, then the local part of the email address.
func (u OAuthUser) DisplayName() string {
	if m := u.UserMetadata; m != nil {
		for _, name := range []string{m.FullName, m.Name, m.PreferredUsername} {
			if name = strings.TrimSpace(name); name != "" {
				return name
			}
		}
	}
	local, _, _ := strings.Cut(u.Email, "@")
	return local
}

func validUUID(v any) error {
	s, _ := v.(string)
	return schema.UUID().Validate(s)
}

func validHTTPURL(v any) error {
	s, _ := v.(string)
	u, err := url.Parse(s)
	if err != nil {
		return err
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%q is not an http(s) URL", s)
	}
	return nil
}
