// Package locale maps a two-letter UI language code to the language tag and
// language pack extension used to localize the editor.
//
// The mapping is a fixed table; codes outside of it are rejected with
// ErrUnsupportedLocale and there is no fallback language.
package locale
