package dialog

import (
	"strings"

	"github.com/talarad/goldrad-bot/internal/i18n"
)

// Command is the logical identity of a reserved menu selection. The literal
// rendering of each command is presentation-layer text owned by the i18n
// catalog; the controller only ever sees these values.
type Command string

const (
	// CommandNone means the text matched no reserved command.
	CommandNone Command = ""
	// CommandBack returns to the main menu from anywhere.
	CommandBack Command = "back"
	// CommandConsultation asks for investment advice.
	CommandConsultation Command = "consultation"
	// CommandCalculate starts the price calculator flow.
	CommandCalculate Command = "calculate"
	// CommandShowPrices asks for the raw price snapshot.
	CommandShowPrices Command = "show_prices"
	// CommandBuy selects the buy flow inside the calculator.
	CommandBuy Command = "buy"
	// CommandSell selects the sell flow inside the calculator.
	CommandSell Command = "sell"
)

// Lexicon maps rendered button labels back to logical commands. Matching is
// exact after whitespace trimming; no prefix or fuzzy matching.
type Lexicon struct {
	labels map[string]Command
}

// NewLexicon builds the reverse lookup from the translator's catalog.
func NewLexicon(t i18n.Translator) Lexicon {
	labels := map[string]Command{
		t.T("commands.back"):         CommandBack,
		t.T("commands.consultation"): CommandConsultation,
		t.T("commands.calculate"):    CommandCalculate,
		t.T("commands.show_prices"):  CommandShowPrices,
		t.T("commands.buy"):          CommandBuy,
		t.T("commands.sell"):         CommandSell,
	}

	return Lexicon{labels: labels}
}

// Command resolves trimmed text to its logical command, if any.
func (l Lexicon) Command(text string) Command {
	if cmd, ok := l.labels[strings.TrimSpace(text)]; ok {
		return cmd
	}

	return CommandNone
}
