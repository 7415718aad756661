package locale

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// ErrUnsupportedLocale is returned for language codes without a language pack.
var ErrUnsupportedLocale = errors.New("unsupported locale")

// Entry is the language tag written to argv.json and the extension providing it.
type Entry struct {
	// LanguageTag is the value of the "locale" runtime argument.
	LanguageTag string
	// ExtensionID is the marketplace identifier of the language pack.
	ExtensionID string
}

// entries is keyed by ISO 639-1 code.
//
//nolint:gochecknoglobals // Read-only lookup table.
var entries = map[string]Entry{
	"fr": {LanguageTag: "fr", ExtensionID: "ms-ceintl.vscode-language-pack-fr"},
	"it": {LanguageTag: "it", ExtensionID: "ms-ceintl.vscode-language-pack-it"},
	"de": {LanguageTag: "de", ExtensionID: "ms-ceintl.vscode-language-pack-de"},
	"es": {LanguageTag: "es", ExtensionID: "ms-ceintl.vscode-language-pack-es"},
	"ru": {LanguageTag: "ru", ExtensionID: "ms-ceintl.vscode-language-pack-ru"},
	"zh": {LanguageTag: "zh-cn", ExtensionID: "ms-ceintl.vscode-language-pack-zh-hans"},
	"ja": {LanguageTag: "ja", ExtensionID: "ms-ceintl.vscode-language-pack-ja"},
	"ko": {LanguageTag: "ko", ExtensionID: "ms-ceintl.vscode-language-pack-ko"},
	"cs": {LanguageTag: "cs", ExtensionID: "ms-ceintl.vscode-language-pack-cs"},
	"pt": {LanguageTag: "pt-br", ExtensionID: "ms-ceintl.vscode-language-pack-pt-br"},
	"tr": {LanguageTag: "tr", ExtensionID: "ms-ceintl.vscode-language-pack-tr"},
	"pl": {LanguageTag: "pl", ExtensionID: "ms-ceintl.vscode-language-pack-pl"},
}

// Resolve returns the entry for a two-letter language code.
func Resolve(code string) (Entry, error) {
	entry, ok := entries[strings.ToLower(strings.TrimSpace(code))]
	if !ok {
		return Entry{}, fmt.Errorf("%q: %w (supported: %s)", code, ErrUnsupportedLocale, strings.Join(Supported(), ", "))
	}

	return entry, nil
}

// Supported returns the sorted list of accepted language codes.
func Supported() []string {
	return slices.Sorted(maps.Keys(entries))
}
