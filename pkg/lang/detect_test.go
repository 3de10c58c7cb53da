package lang_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aretw0/setlist/pkg/lang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func newDetector(t *testing.T) *lang.Detector {
	t.Helper()
	d, err := lang.NewDetector("", "en", "pt-BR", "es")
	require.NoError(t, err)
	return d
}

func TestNewDetector(t *testing.T) {
	d := newDetector(t)
	assert.Equal(t, lang.DefaultCookie, d.CookieName)
	assert.Equal(t, language.English, d.Fallback)

	_, err := lang.NewDetector("lang")
	assert.Error(t, err)

	_, err = lang.NewDetector("lang", "en", "not a tag!")
	assert.Error(t, err)
}

func TestFromCookie(t *testing.T) {
	d := newDetector(t)

	tests := []struct {
		value  any
		want   language.Tag
		wantOK bool
	}{
		{"pt-BR", language.BrazilianPortuguese, true},
		{"pt", language.BrazilianPortuguese, true},
		{"es", language.Spanish, true},
		{"de", language.Und, false},
		{"", language.Und, false},
		{"%%%", language.Und, false},
		{42, language.Und, false},
		{nil, language.Und, false},
		{[]string{"en"}, language.Und, false},
	}

	for _, tt := range tests {
		got, ok := d.FromCookie(tt.value)
		assert.Equal(t, tt.wantOK, ok, "FromCookie(%v)", tt.value)
		assert.Equal(t, tt.want, got, "FromCookie(%v)", tt.value)
	}
}

func TestDetect(t *testing.T) {
	d := newDetector(t)

	tests := []struct {
		desc   string
		cookie string
		accept string
		want   language.Tag
	}{
		{"cookie wins", "es", "pt-BR", language.Spanish},
		{"unsupported cookie falls through", "de", "pt-BR,pt;q=0.9", language.BrazilianPortuguese},
		{"header only", "", "es-MX,es;q=0.8", language.Spanish},
		{"nothing matches", "", "ja", language.English},
		{"nothing sent", "", "", language.English},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie != "" {
				r.AddCookie(&http.Cookie{Name: d.CookieName, Value: tt.cookie})
			}
			if tt.accept != "" {
				r.Header.Set("Accept-Language", tt.accept)
			}
			got := d.Detect(r)
			base, _ := got.Base()
			wantBase, _ := tt.want.Base()
			assert.Equal(t, wantBase, base)
		})
	}
}

func TestSetCookie(t *testing.T) {
	d := newDetector(t)
	w := httptest.NewRecorder()

	d.SetCookie(w, language.Spanish)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, lang.DefaultCookie, cookies[0].Name)
	assert.Equal(t, "es", cookies[0].Value)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
	assert.Positive(t, cookies[0].MaxAge)
}

func TestContext(t *testing.T) {
	_, ok := lang.FromContext(context.Background())
	assert.False(t, ok)

	ctx := lang.NewContext(context.Background(), language.Spanish)
	tag, ok := lang.FromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, language.Spanish, tag)
}
