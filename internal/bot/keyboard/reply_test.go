package keyboard_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/talarad/goldrad-bot/internal/bot/keyboard"
	"github.com/talarad/goldrad-bot/internal/dialog"
)

type mockTranslator struct {
	translations map[string]string
}

func (m *mockTranslator) T(key string) string {
	if text, ok := m.translations[key]; ok {
		return text
	}
	return key
}

func (m *mockTranslator) Tf(key string, args ...any) string {
	return fmt.Sprintf(m.T(key), args...)
}

func (m *mockTranslator) Lang() string { return "fa" }

func newTranslator() *mockTranslator {
	return &mockTranslator{
		translations: map[string]string{
			"commands.consultation": "Consultation",
			"commands.calculate":    "Calculate",
			"commands.show_prices":  "Prices",
			"commands.back":         "Back",
			"commands.buy":          "Buy",
			"commands.sell":         "Sell",
		},
	}
}

func TestMainMenu(t *testing.T) {
	markup := keyboard.MainMenu(newTranslator())

	assert.True(t, markup.ResizeKeyboard)

	expectedRows := [][]string{
		{"Consultation"},
		{"Calculate", "Prices"},
	}

	assert.Len(t, markup.ReplyKeyboard, len(expectedRows))
	for i, row := range expectedRows {
		assert.Len(t, markup.ReplyKeyboard[i], len(row))
		for j, text := range row {
			assert.Equal(t, text, markup.ReplyKeyboard[i][j].Text)
		}
	}
}

func TestBackOnly(t *testing.T) {
	markup := keyboard.BackOnly(newTranslator())

	assert.Len(t, markup.ReplyKeyboard, 1)
	assert.Equal(t, "Back", markup.ReplyKeyboard[0][0].Text)
}

func TestBuySellChoice(t *testing.T) {
	markup := keyboard.BuySellChoice(newTranslator())

	assert.Len(t, markup.ReplyKeyboard, 2)
	assert.Equal(t, "Buy", markup.ReplyKeyboard[0][0].Text)
	assert.Equal(t, "Sell", markup.ReplyKeyboard[0][1].Text)
	assert.Equal(t, "Back", markup.ReplyKeyboard[1][0].Text)
}

func TestForMenu(t *testing.T) {
	translator := newTranslator()

	tests := []struct {
		menu     dialog.Menu
		firstBtn string
	}{
		{dialog.MenuMain, "Consultation"},
		{dialog.MenuBack, "Back"},
		{dialog.MenuBuySell, "Buy"},
		{dialog.Menu("bogus"), "Consultation"},
	}

	for _, tt := range tests {
		markup := keyboard.ForMenu(tt.menu, translator)
		assert.Equal(t, tt.firstBtn, markup.ReplyKeyboard[0][0].Text)
	}
}
