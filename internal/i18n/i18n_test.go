package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromDir(t *testing.T) {
	m, err := LoadFromDir(".", "en")
	require.NoError(t, err)

	langs := m.Languages()
	assert.Contains(t, langs, "en")
	assert.Contains(t, langs, "ru")
	assert.Contains(t, langs, "uz")
}

func TestTranslatorFallsBackToDefault(t *testing.T) {
	m, err := LoadFromDir(".", "en")
	require.NoError(t, err)

	t.Run("unknown language uses default catalog", func(t *testing.T) {
		tr := m.Translator("fr")
		assert.Equal(t, "en", tr.Lang())
		assert.Equal(t, "All", tr.T("filter.all"))
	})

	t.Run("missing key falls back to default language", func(t *testing.T) {
		tr := m.Translator("uz")
		assert.NotEqual(t, "", tr.T("filter.unpaid"))
	})

	t.Run("unknown key returns the key itself", func(t *testing.T) {
		tr := m.Translator("en")
		assert.Equal(t, "no.such.key", tr.T("no.such.key"))
	})
}

func TestLoadFromDirRejectsMissingDefault(t *testing.T) {
	_, err := LoadFromDir(".", "de")
	require.Error(t, err)
}
