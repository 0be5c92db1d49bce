package i18n

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocalesShareKeys(t *testing.T) {
	en := translations["en"]
	for _, lang := range GetAvailableLangs() {
		for key := range en {
			_, ok := translations[lang][key]
			assert.True(t, ok, "%s is missing %q", lang, key)
		}
	}
}

func TestT(t *testing.T) {
	assert.Equal(t, "Téma", T("hu", "form.topic"))
	assert.Equal(t, "Topic", T("de", "form.topic"), "unknown languages fall back to English")
	assert.Equal(t, "no.such.key", T("hu", "no.such.key"))
	assert.Contains(t, T("en", "error.missing_key"), "GROQ_API_KEY")
}

func TestGetLang(t *testing.T) {
	cases := []struct {
		name   string
		target string
		cookie string
		accept string
		want   string
	}{
		{"query wins", "/?lang=hu", "en", "en", "hu"},
		{"cookie", "/", "hu", "en", "hu"},
		{"bad cookie", "/", "xx", "", "en"},
		{"accept language", "/", "", "de-DE,hu;q=0.8", "hu"},
		{"fallback", "/", "", "fr", "en"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, c.target, nil)
			if c.cookie != "" {
				r.AddCookie(&http.Cookie{Name: "lang", Value: c.cookie})
			}
			if c.accept != "" {
				r.Header.Set("Accept-Language", c.accept)
			}
			assert.Equal(t, c.want, GetLang(r, "en"))
		})
	}
	assert.Equal(t, "hu", GetLang(httptest.NewRequest(http.MethodGet, "/", nil), "hu"))
}

func TestGetAvailableLangs(t *testing.T) {
	assert.Equal(t, []string{"en", "hu"}, GetAvailableLangs())
}
