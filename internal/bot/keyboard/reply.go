// Package keyboard builds the localized reply keyboards shown to users.
package keyboard

import (
	telebot "gopkg.in/telebot.v3"

	"github.com/talarad/goldrad-bot/internal/dialog"
	"github.com/talarad/goldrad-bot/internal/i18n"
)

func lookup(t i18n.Translator, key string) string {
	if t == nil {
		return key
	}
	return t.T(key)
}

// MainMenu builds the three-action main menu keyboard.
func MainMenu(t i18n.Translator) *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{
		ResizeKeyboard:  true,
		OneTimeKeyboard: false,
	}

	consultBtn := markup.Text(lookup(t, "commands.consultation"))
	calcBtn := markup.Text(lookup(t, "commands.calculate"))
	pricesBtn := markup.Text(lookup(t, "commands.show_prices"))

	markup.Reply(
		markup.Row(consultBtn),
		markup.Row(calcBtn, pricesBtn),
	)

	return markup
}

// BackOnly builds a keyboard with just the back button.
func BackOnly(t i18n.Translator) *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{
		ResizeKeyboard:  true,
		OneTimeKeyboard: false,
	}

	markup.Reply(markup.Row(markup.Text(lookup(t, "commands.back"))))

	return markup
}

// BuySellChoice builds the transaction-type keyboard with a back escape.
func BuySellChoice(t i18n.Translator) *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{
		ResizeKeyboard:  true,
		OneTimeKeyboard: false,
	}

	buyBtn := markup.Text(lookup(t, "commands.buy"))
	sellBtn := markup.Text(lookup(t, "commands.sell"))
	backBtn := markup.Text(lookup(t, "commands.back"))

	markup.Reply(
		markup.Row(buyBtn, sellBtn),
		markup.Row(backBtn),
	)

	return markup
}

// ForMenu maps a dialog menu descriptor to its reply markup.
func ForMenu(menu dialog.Menu, t i18n.Translator) *telebot.ReplyMarkup {
	switch menu {
	case dialog.MenuBack:
		return BackOnly(t)
	case dialog.MenuBuySell:
		return BuySellChoice(t)
	default:
		return MainMenu(t)
	}
}
