package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultCatalog(t *testing.T) {
	m, err := Load("fa")
	require.NoError(t, err)
	assert.Contains(t, m.Languages(), "fa")
}

func TestLoadRejectsMissingDefault(t *testing.T) {
	_, err := Load("xx")
	assert.Error(t, err)
}

func TestTranslatorResolvesNestedKeys(t *testing.T) {
	m, err := Load("fa")
	require.NoError(t, err)

	tr := m.Translator("fa")
	assert.Equal(t, "fa", tr.Lang())
	assert.NotEqual(t, "commands.back", tr.T("commands.back"))
	assert.NotEqual(t, "advice.recommendation.hold", tr.T("advice.recommendation.hold"))
}

func TestTranslatorFallsBackToKey(t *testing.T) {
	m, err := Load("fa")
	require.NoError(t, err)

	tr := m.Translator("fa")
	assert.Equal(t, "no.such.key", tr.T("no.such.key"))
	assert.Equal(t, "", tr.T("  "))
}

func TestUnknownLanguageFallsBackToDefault(t *testing.T) {
	m, err := Load("fa")
	require.NoError(t, err)

	tr := m.Translator("de")
	assert.Equal(t, "fa", tr.Lang())
}

func TestTfFormatsArguments(t *testing.T) {
	m, err := Load("fa")
	require.NoError(t, err)

	tr := m.Translator("fa")
	got := tr.Tf("start.welcome", "آرش")
	assert.Contains(t, got, "آرش")
}
