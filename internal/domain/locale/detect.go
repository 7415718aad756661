package locale

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// languageVariables are consulted in POSIX precedence order.
//
//nolint:gochecknoglobals // Read-only list.
var languageVariables = []string{"LC_ALL", "LC_MESSAGES", "LANGUAGE", "LANG"}

// Detect returns the ISO 639-1 code of the UI language configured in the environment.
// lookupEnv is usually os.LookupEnv.
func Detect(lookupEnv func(string) (string, bool)) (string, error) {
	for _, name := range languageVariables {
		value, ok := lookupEnv(name)
		if !ok {
			continue
		}

		value = normalize(value)
		if value == "" {
			continue
		}

		// "C" and "POSIX" carry no language and stop the search like a real setlocale would.
		if value == "C" || value == "POSIX" {
			return "", fmt.Errorf("%s=%s: %w", name, value, ErrUnsupportedLocale)
		}

		tag, err := language.Parse(value)
		if err != nil {
			return "", fmt.Errorf("%s=%s: %w", name, value, ErrUnsupportedLocale)
		}

		base, _ := tag.Base()

		return base.String(), nil
	}

	return "", fmt.Errorf("no language in environment: %w", ErrUnsupportedLocale)
}

// normalize strips the codeset and modifier and keeps the first LANGUAGE list item.
func normalize(value string) string {
	value, _, _ = strings.Cut(value, ":")
	value, _, _ = strings.Cut(value, ".")
	value, _, _ = strings.Cut(value, "@")

	return strings.TrimSpace(value)
}
