package domain

import "strings"

// Language selects labels and the displayed currency. It never changes computed amounts.
type Language string

const (
	LanguageVI Language = "vi"
	LanguageEN Language = "en"
)

// DefaultLanguage is used when the client sends nothing recognisable.
const DefaultLanguage = LanguageVI

// ParseLanguage accepts codes such as "en", "EN", "en-US" or "vi-VN".
func ParseLanguage(raw string) (Language, bool) {
	code := strings.ToLower(strings.TrimSpace(raw))
	if i := strings.IndexAny(code, "-_"); i > 0 {
		code = code[:i]
	}
	switch Language(code) {
	case LanguageVI:
		return LanguageVI, true
	case LanguageEN:
		return LanguageEN, true
	default:
		return DefaultLanguage, false
	}
}
