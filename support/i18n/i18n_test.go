package i18n

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFallbackToRussian(t *testing.T) {
	require.Equal(t, T(LangRU), T("de"))
	require.Equal(t, T(LangRU), T(""))
	require.NotEqual(t, T(LangRU).Created, T(LangEN).Created)
}

func TestLangValid(t *testing.T) {
	require.True(t, LangRU.Valid())
	require.True(t, LangEN.Valid())
	require.False(t, Lang("de").Valid())
	require.False(t, Lang("").Valid())
}

func TestStatusOpen(t *testing.T) {
	p := T(LangEN)
	require.Equal(t, "ℹ️ Status: OPEN\nCategory: pay", p.StatusOpen("pay"))
	require.Equal(t, "ℹ️ Status: OPEN\nCategory: —", p.StatusOpen(""))
}

func TestCategories(t *testing.T) {
	require.Equal(t, []string{"bug", "pay", "biz", "other"}, Categories())
	for _, name := range Categories() {
		require.True(t, KnownCategory(name))
		for _, lang := range []Lang{LangRU, LangEN} {
			require.NotEqual(t, name, T(lang).Category(name), "category %s must have a label in %s", name, lang)
		}
	}
	require.False(t, KnownCategory("spam"))
	require.Equal(t, "spam", T(LangRU).Category("spam"))
}
