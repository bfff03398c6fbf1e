package i18n

import (
	"strings"

	"classifieds-bot-backend/internal/common/logger"
)

// catalogs is the two-level mapping {lang: {dotted-key: template}}, loaded
// once at package init. Templates substitute {name} placeholders.
var catalogs = map[string]map[string]string{
	"uk": catalogUK,
	"ru": catalogRU,
}

const fallbackLang = "uk"

// T renders a translation for the user's language. Unknown languages fall
// back to Ukrainian; a missing key is logged and returned verbatim so the
// gap is visible instead of silent.
func T(lang, key string, params map[string]string) string {
	catalog, ok := catalogs[lang]
	if !ok {
		catalog = catalogs[fallbackLang]
	}

	tpl, ok := catalog[key]
	if !ok {
		if tpl, ok = catalogs[fallbackLang][key]; !ok {
			logger.Warn().Str("key", key).Str("lang", lang).Msg("Missing translation key")
			return key
		}
	}

	if len(params) == 0 {
		return tpl
	}
	pairs := make([]string, 0, len(params)*2)
	for k, v := range params {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tpl)
}

// Has reports whether the key exists for at least the fallback language.
func Has(key string) bool {
	_, ok := catalogs[fallbackLang][key]
	return ok
}
