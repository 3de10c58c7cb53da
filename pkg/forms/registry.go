package forms

import (
	"sort"

	"github.com/aretw0/setlist/pkg/schema"
)

// Form binds a schema to its decoder under a stable name.
type Form struct {
	Name        string
	Description string
	Schema      schema.Type
	Decode      func(any) (any, error)
}

func erase[T any](fn func(any) (T, error)) func(any) (any, error) {
	return func(v any) (any, error) {
		out, err := fn(v)
		if err != nil {
			return nil, err
		}
		return out, nil
	}
}

var registry = map[string]Form{
	"registration": {
		Name:        "registration",
		Description: "Sign-up form",
		Schema:      RegistrationSchema,
		Decode:      erase(DecodeRegistration),
	},
	"oauth_user": {
		Name:        "oauth_user",
		Description: "User record returned after an OAuth sign-in",
		Schema:      OAuthUserSchema,
		Decode:      erase(DecodeOAuthUser),
	},
	"song": {
		Name:        "song",
		Description: "Song library row",
		Schema:      SongSchema,
		Decode:      erase(DecodeSong),
	},
	"playlist": {
		Name:        "playlist",
		Description: "Ordered list of songs",
		Schema:      PlaylistSchema,
		Decode:      erase(DecodePlaylist),
	},
	"event": {
		Name:        "event",
		Description: "Performance with an optional playlist",
		Schema:      EventSchema,
		Decode:      erase(DecodeEvent),
	},
}

// Lookup returns the form registered under name.
func Lookup(name string) (Form, bool) {
	f, ok := registry[name]
	return f, ok
}

// All returns every registered form sorted by name.
func All() []Form {
	out := make([]Form, 0, len(registry))
	for _, f := range registry {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
