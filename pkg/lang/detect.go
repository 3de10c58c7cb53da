// Package lang picks the response language for a request.
//
// The preference cookie wins when it holds a supported language, then the
// Accept-Language header, then the first supported language.
package lang

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aretw0/setlist/pkg/guard"
	"golang.org/x/text/language"
)

// DefaultCookie is the name of the preference cookie.
const DefaultCookie = "lang"

const cookieMaxAge = 365 * 24 * time.Hour

// Detector resolves request languages against a fixed set of supported tags.
type Detector struct {
	Supported  []language.Tag
	Fallback   language.Tag
	CookieName string

	matcher language.Matcher
}

// NewDetector parses the supported languages. The first one is the fallback.
func NewDetector(cookieName string, supported ...string) (*Detector, error) {
	if len(supported) == 0 {
		return nil, errors.New("lang: at least one supported language is required")
	}
	if cookieName == "" {
		cookieName = DefaultCookie
	}

	tags := make([]language.Tag, 0, len(supported))
	for _, s := range supported {
		tag, err := language.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("lang: invalid language %q: %w", s, err)
		}
		tags = append(tags, tag)
	}

	return &Detector{
		Supported:  tags,
		Fallback:   tags[0],
		CookieName: cookieName,
		matcher:    language.NewMatcher(tags),
	}, nil
}

// FromCookie interprets an untrusted cookie value. It reports false unless
// the value is a string naming a supported language.
func (d *Detector) FromCookie(value any) (language.Tag, bool) {
	s, ok := guard.AsString(value)
	if !ok || s == "" {
		return language.Und, false
	}
	tag, err := language.Parse(s)
	if err != nil {
		return language.Und, false
	}

	base, _ := tag.Base()
	for _, sup := range d.Supported {
		if sup == tag {
			return sup, true
		}
	}
	for _, sup := range d.Supported {
		if b, _ := sup.Base(); b == base {
			return sup, true
		}
	}
	return language.Und, false
}

// Detect returns the language to answer r in.
func (d *Detector) Detect(r *http.Request) language.Tag {
	if c, err := r.Cookie(d.CookieName); err == nil {
		if tag, ok := d.FromCookie(c.Value); ok {
			return tag
		}
	}

	if header := r.Header.Get("Accept-Language"); header != "" {
		prefs, _, err := language.ParseAcceptLanguage(header)
		if err == nil && len(prefs) > 0 {
			_, idx, conf := d.matcher.Match(prefs...)
			if conf != language.No {
				return d.Supported[idx]
			}
		}
	}

	return d.Fallback
}

// SetCookie stores tag as the preference of the client.
func (d *Detector) SetCookie(w http.ResponseWriter, tag language.Tag) {
	http.SetCookie(w, &http.Cookie{
		Name:     d.CookieName,
		Value:    tag.String(),
		Path:     "/",
		MaxAge:   int(cookieMaxAge.Seconds()),
		SameSite: http.SameSiteLaxMode,
		HttpOnly: true,
	})
}

type ctxKey struct{}

// NewContext returns a copy of ctx carrying tag.
func NewContext(ctx context.Context, tag language.Tag) context.Context {
	return context.WithValue(ctx, ctxKey{}, tag)
}

// FromContext returns the tag stored by NewContext.
func FromContext(ctx context.Context) (language.Tag, bool) {
	tag, ok := ctx.Value(ctxKey{}).(language.Tag)
	return tag, ok
}
