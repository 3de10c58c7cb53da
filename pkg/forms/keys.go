package forms

// Message keys reported by the domain schemas. Clients translate them; the
// text behind a key is not part of this package.
const (
	KeyUsernameRequired = "usernameRequired"
	KeyUsernameTooShort = "usernameTooShort"
	KeyUsernameTooLong  = "usernameTooLong"
	KeyUsernameInvalid  = "usernameInvalid"

	KeyUserIDInvalid       = "oauthUserIdInvalid"
	KeyEmailRequired       = "emailRequired"
	KeyEmailInvalid        = "emailInvalid"
	KeyAvatarURLInvalid    = "avatarUrlInvalid"
	KeyProviderUnsupported = "providerUnsupported"

	KeyIDInvalid       = "idInvalid"
	KeyTitleRequired   = "titleRequired"
	KeyTitleTooLong    = "titleTooLong"
	KeyArtistRequired  = "artistRequired"
	KeyArtistTooLong   = "artistTooLong"
	KeyKeyInvalid      = "musicalKeyInvalid"
	KeyTempoOutOfRange = "tempoOutOfRange"
	KeyTagInvalid      = "tagInvalid"
	KeyNameRequired    = "nameRequired"
	KeyNameTooLong     = "nameTooLong"
	KeyVenueTooLong    = "venueTooLong"
	KeyStartsAtInvalid = "startsAtInvalid"
)
