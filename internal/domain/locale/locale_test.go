package locale

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestResolve_Table checks every supported code against the literal table.
func TestResolve_Table(t *testing.T) {
	t.Parallel()

	want := map[string]Entry{
		"fr": {"fr", "ms-ceintl.vscode-language-pack-fr"},
		"it": {"it", "ms-ceintl.vscode-language-pack-it"},
		"de": {"de", "ms-ceintl.vscode-language-pack-de"},
		"es": {"es", "ms-ceintl.vscode-language-pack-es"},
		"ru": {"ru", "ms-ceintl.vscode-language-pack-ru"},
		"zh": {"zh-cn", "ms-ceintl.vscode-language-pack-zh-hans"},
		"ja": {"ja", "ms-ceintl.vscode-language-pack-ja"},
		"ko": {"ko", "ms-ceintl.vscode-language-pack-ko"},
		"cs": {"cs", "ms-ceintl.vscode-language-pack-cs"},
		"pt": {"pt-br", "ms-ceintl.vscode-language-pack-pt-br"},
		"tr": {"tr", "ms-ceintl.vscode-language-pack-tr"},
		"pl": {"pl", "ms-ceintl.vscode-language-pack-pl"},
	}

	for code, entry := range want {
		got, err := Resolve(code)
		require.NoError(t, err, code)
		require.Equal(t, entry, got, code)
	}

	require.Len(t, Supported(), len(want))
}

// TestResolve_CaseInsensitive accepts upper-case codes.
func TestResolve_CaseInsensitive(t *testing.T) {
	t.Parallel()

	got, err := Resolve("ZH")
	require.NoError(t, err)
	require.Equal(t, "zh-cn", got.LanguageTag)
}

// TestResolve_Unsupported rejects codes outside the table, including English.
func TestResolve_Unsupported(t *testing.T) {
	t.Parallel()

	for _, code := range []string{"xx", "en", "", "zh-cn"} {
		_, err := Resolve(code)
		require.ErrorIs(t, err, ErrUnsupportedLocale, code)
	}

	// The message lists the accepted codes.
	_, err := Resolve("xx")
	require.ErrorContains(t, err, "cs, de, es, fr, it, ja, ko, pl, pt, ru, tr, zh")
}

// TestDetect covers precedence, normalization and failures of environment detection.
func TestDetect(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"lang with codeset", map[string]string{"LANG": "de_DE.UTF-8"}, "de"},
		{"modifier", map[string]string{"LANG": "fr_FR@euro"}, "fr"},
		{"lc_all wins", map[string]string{"LC_ALL": "ja_JP.UTF-8", "LANG": "ru_RU.UTF-8"}, "ja"},
		{"language list", map[string]string{"LANGUAGE": "pt_BR:en_US", "LANG": "en_US.UTF-8"}, "pt"},
		{"empty values skipped", map[string]string{"LC_ALL": "", "LANG": "ko_KR.UTF-8"}, "ko"},
		{"script subtag", map[string]string{"LANG": "zh-Hans-CN"}, "zh"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := Detect(mapLookup(tc.env))
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

// TestDetect_Failures rejects environments without a usable language.
func TestDetect_Failures(t *testing.T) {
	t.Parallel()

	for _, env := range []map[string]string{
		{},
		{"LANG": "C"},
		{"LC_ALL": "POSIX.UTF-8", "LANG": "de_DE"},
		{"LANG": "x!"},
	} {
		_, err := Detect(mapLookup(env))
		require.ErrorIs(t, err, ErrUnsupportedLocale)
	}
}

func mapLookup(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}
