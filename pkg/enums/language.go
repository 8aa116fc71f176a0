package enums

import "fmt"

// Language lists the guide languages offered on tours.
type Language string

const (
	LanguageDutch   Language = "nl"
	LanguageEnglish Language = "en"
	LanguageFrench  Language = "fr"
	LanguageGerman  Language = "de"
)

var validLanguages = []Language{
	LanguageDutch,
	LanguageEnglish,
	LanguageFrench,
	LanguageGerman,
}

// String implements fmt.Stringer.
func (l Language) String() string {
	return string(l)
}

// IsValid reports whether the language is recognized.
func (l Language) IsValid() bool {
	for _, candidate := range validLanguages {
		if candidate == l {
			return true
		}
	}
	return false
}

// ParseLanguage converts a raw string into a Language.
func ParseLanguage(value string) (Language, error) {
	for _, candidate := range validLanguages {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid language %q", value)
}
