/*
Package forms declares the domain schemas of the song library: the
registration form, the OAuth user record, and the song, playlist and event
rows.

Each schema lists its field constraints in evaluation order and attaches a
message key to every constraint. Decoding stops at the first violated
constraint, and that constraint's key is what the client localizes.

	reg, err := forms.DecodeRegistration(map[string]any{"username": "ab"})
	if de, ok := decode.AsError(err); ok {
	    v, _ := de.First() // v.MessageKey == forms.KeyUsernameTooShort
	}

Forms are also registered by name (Lookup, All) so transports can decode a
payload without knowing its Go type.
*/
package forms
