package language

import (
	"fmt"
	"strings"

	xlanguage "golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Undetermined is the ISO 639-2 code used when a stream carries no language tag.
const Undetermined = "und"

// Normalize lowercases and trims a language tag, returning Undetermined for
// empty input.
func Normalize(code string) string {
	code = strings.ToLower(strings.TrimSpace(strings.ReplaceAll(code, "\u0000", "")))
	if code == "" {
		return Undetermined
	}
	return code
}

// ExtractFromTags extracts and normalizes the language from stream metadata tags.
// Returns empty string when no language key carries a value.
func ExtractFromTags(tags map[string]string) string {
	if len(tags) == 0 {
		return ""
	}
	for _, key := range []string{"language", "LANGUAGE", "Language"} {
		if value, ok := tags[key]; ok {
			value = strings.TrimSpace(strings.ReplaceAll(value, "\u0000", ""))
			if value != "" {
				return strings.ToLower(value)
			}
		}
	}
	return ""
}

// Matches reports whether a track language equals the target code exactly,
// ignoring case.
func Matches(lang, target string) bool {
	lang = strings.TrimSpace(lang)
	target = strings.TrimSpace(target)
	if lang == "" || target == "" {
		return false
	}
	return strings.EqualFold(lang, target)
}

// Validate checks that code is a recognized ISO 639 language code usable as a
// target. The undetermined code is rejected.
func Validate(code string) error {
	trimmed := strings.ToLower(strings.TrimSpace(code))
	if trimmed == "" {
		return fmt.Errorf("language code is empty")
	}
	if trimmed == Undetermined {
		return fmt.Errorf("language code %q is not a concrete language", code)
	}
	if _, err := xlanguage.ParseBase(trimmed); err != nil {
		return fmt.Errorf("language code %q: %w", code, err)
	}
	return nil
}

// DisplayName returns the English name of a language code ("eng" -> "English").
// Returns "Unknown" for empty input, or the uppercased code when unrecognized.
func DisplayName(code string) string {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return "Unknown"
	}
	base, err := xlanguage.ParseBase(strings.ToLower(trimmed))
	if err != nil {
		return strings.ToUpper(trimmed)
	}
	tag, err := xlanguage.Compose(base)
	if err != nil {
		return strings.ToUpper(trimmed)
	}
	if name := display.Languages(xlanguage.English).Name(tag); name != "" {
		return name
	}
	return strings.ToUpper(trimmed)
}
