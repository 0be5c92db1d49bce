package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"net/http"
	"path"
	"sort"
	"strings"
)

//go:embed locales/*.json
var locales embed.FS

const DefaultLang = "en"

var translations = mustLoad()

func mustLoad() map[string]map[string]string {
	out := make(map[string]map[string]string)
	files, err := locales.ReadDir("locales")
	if err != nil {
		panic(err)
	}
	for _, f := range files {
		if path.Ext(f.Name()) != ".json" {
			continue
		}
		data, err := locales.ReadFile("locales/" + f.Name())
		if err != nil {
			panic(err)
		}
		var t map[string]string
		if err := json.Unmarshal(data, &t); err != nil {
			panic(fmt.Sprintf("i18n: %s: %v", f.Name(), err))
		}
		out[strings.TrimSuffix(f.Name(), ".json")] = t
	}
	return out
}

// T looks key up in lang, then in English. Unknown keys come back unchanged.
func T(lang, key string) string {
	if t, ok := translations[lang]; ok {
		if val, ok := t[key]; ok {
			return val
		}
	}
	// Fallback to en
	if t, ok := translations[DefaultLang]; ok {
		if val, ok := t[key]; ok {
			return val
		}
	}
	return key
}

// GetLang picks the UI language: ?lang= first, then the lang cookie, then
// Accept-Language, then fallback.
func GetLang(r *http.Request, fallback string) string {
	if l := r.URL.Query().Get("lang"); Supported(l) {
		return l
	}
	if cookie, err := r.Cookie("lang"); err == nil && Supported(cookie.Value) {
		return cookie.Value
	}
	for _, part := range strings.Split(r.Header.Get("Accept-Language"), ",") {
		tag, _, _ := strings.Cut(strings.TrimSpace(part), ";")
		base, _, _ := strings.Cut(strings.ToLower(tag), "-")
		if Supported(base) {
			return base
		}
	}
	if Supported(fallback) {
		return fallback
	}
	return DefaultLang
}

func Supported(lang string) bool {
	_, ok := translations[lang]
	return ok
}

func GetAvailableLangs() []string {
	langs := make([]string, 0, len(translations))
	for l := range translations {
		langs = append(langs, l)
	}
	sort.Strings(langs)
	return langs
}
