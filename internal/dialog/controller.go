// Package dialog implements the conversation state machine that turns a
// stream of free-text messages into structured calculator transactions and
// advisory requests.
package dialog

import (
	"context"
	"log/slog"
	"sync"

	"github.com/talarad/goldrad-bot/internal/advisory"
	"github.com/talarad/goldrad-bot/internal/i18n"
	"github.com/talarad/goldrad-bot/internal/pricing"
	"github.com/talarad/goldrad-bot/internal/quote"
	"github.com/talarad/goldrad-bot/internal/state"
)

// Menu selects which reply keyboard accompanies an outbound message.
type Menu string

const (
	// MenuMain shows the three main-menu actions.
	MenuMain Menu = "main_menu"
	// MenuBack shows only the back button.
	MenuBack Menu = "back_only"
	// MenuBuySell shows the buy/sell choice plus back.
	MenuBuySell Menu = "buy_sell_choice"
)

// Reply is one outbound message plus its keyboard descriptor.
type Reply struct {
	Text string
	Menu Menu
}

// Controller drives the per-conversation finite-state machine.
//
// Messages for the same chat are serialized through a per-chat mutex;
// messages for distinct chats never contend, so quote fetches for different
// conversations run in parallel while fetches within one conversation stay
// sequential.
type Controller struct {
	store   state.Store
	quotes  quote.Source
	t       i18n.Translator
	lexicon Lexicon
	log     *slog.Logger

	onTransition func(from, to state.Step)
	onAdvice     func(rec advisory.Recommendation)

	mu        sync.Mutex
	chatLocks map[int64]*sync.Mutex
}

// NewController wires the state machine with its collaborators.
func NewController(store state.Store, quotes quote.Source, t i18n.Translator, lexicon Lexicon, log *slog.Logger) *Controller {
	if log == nil {
		log = slog.Default()
	}

	return &Controller{
		store:        store,
		quotes:       quotes,
		t:            t,
		lexicon:      lexicon,
		log:          log,
		onTransition: func(state.Step, state.Step) {},
		onAdvice:     func(advisory.Recommendation) {},
		chatLocks:    make(map[int64]*sync.Mutex),
	}
}

// SetTransitionObserver registers a hook invoked on every step change,
// used for metrics. A nil observer disables the hook.
func (c *Controller) SetTransitionObserver(fn func(from, to state.Step)) {
	if fn == nil {
		fn = func(state.Step, state.Step) {}
	}

	c.onTransition = fn
}

// SetAdviceObserver registers a hook invoked on every successful
// consultation, used for metrics. A nil observer disables the hook.
func (c *Controller) SetAdviceObserver(fn func(rec advisory.Recommendation)) {
	if fn == nil {
		fn = func(advisory.Recommendation) {}
	}

	c.onAdvice = fn
}

// Start resets the conversation and produces the welcome message.
func (c *Controller) Start(ctx context.Context, chatID int64, firstName string) Reply {
	lock := c.chatLock(chatID)
	lock.Lock()
	defer lock.Unlock()

	c.store.Reset(chatID)

	return Reply{Text: c.t.Tf("start.welcome", firstName), Menu: MenuMain}
}

// HandleMessage consumes one inbound text message and returns the replies
// to send. Every failure resolves to a user-visible message; state only
// advances on successful computation.
func (c *Controller) HandleMessage(ctx context.Context, chatID int64, text string) []Reply {
	lock := c.chatLock(chatID)
	lock.Lock()
	defer lock.Unlock()

	cmd := c.lexicon.Command(text)

	// Back short-circuits every step.
	if cmd == CommandBack {
		conv := c.store.Get(chatID)
		c.transition(chatID, conv.Step, state.StepMain, state.Pending{})
		return []Reply{{Text: c.t.T("menu.back_ack"), Menu: MenuMain}}
	}

	conv := c.store.Get(chatID)

	switch conv.Step {
	case state.StepMain:
		return c.handleMain(ctx, chatID, cmd)
	case state.StepAwaitingTransactionType:
		return c.handleTransactionType(chatID, conv, cmd)
	case state.StepAwaitingWeight:
		return c.handleWeight(ctx, chatID, conv, text)
	case state.StepAwaitingWage:
		return c.handleWage(ctx, chatID, conv, text)
	default:
		c.log.Warn("conversation in unknown step, resetting",
			slog.Int64("chat_id", chatID), slog.String("step", string(conv.Step)))
		c.transition(chatID, conv.Step, state.StepMain, state.Pending{})
		return []Reply{{Text: c.t.T("menu.unknown_main"), Menu: MenuMain}}
	}
}

func (c *Controller) handleMain(ctx context.Context, chatID int64, cmd Command) []Reply {
	switch cmd {
	case CommandConsultation:
		return []Reply{c.consult(ctx)}
	case CommandCalculate:
		c.transition(chatID, state.StepMain, state.StepAwaitingTransactionType, state.Pending{})
		return []Reply{{Text: c.t.T("calc.choose_type"), Menu: MenuBuySell}}
	case CommandShowPrices:
		return []Reply{c.priceSnapshot(ctx)}
	default:
		return []Reply{{Text: c.t.T("menu.unknown_main"), Menu: MenuMain}}
	}
}

func (c *Controller) handleTransactionType(chatID int64, conv state.Conversation, cmd Command) []Reply {
	var txType state.TransactionType
	switch cmd {
	case CommandBuy:
		txType = state.TransactionBuy
	case CommandSell:
		txType = state.TransactionSell
	default:
		return []Reply{{Text: c.t.T("menu.unknown_choice"), Menu: MenuBuySell}}
	}

	c.transition(chatID, conv.Step, state.StepAwaitingWeight, state.Pending{TransactionType: txType})

	return []Reply{{Text: c.t.T("calc.ask_weight"), Menu: MenuBack}}
}

func (c *Controller) handleWeight(ctx context.Context, chatID int64, conv state.Conversation, text string) []Reply {
	weight, ok := parseNumber(text)
	if !ok || weight <= 0 {
		return []Reply{{Text: c.t.T("calc.invalid_weight"), Menu: MenuBack}}
	}

	// Pending must already carry the transaction type; a missing one means
	// the entry was corrupted, so start over instead of guessing.
	switch conv.Pending.TransactionType {
	case state.TransactionBuy:
		pending := conv.Pending
		pending.Weight = weight
		c.transition(chatID, conv.Step, state.StepAwaitingWage, pending)
		return []Reply{{Text: c.t.T("calc.ask_wage"), Menu: MenuBack}}

	case state.TransactionSell:
		unitPrice, err := c.quotes.Fetch(ctx, quote.InstrumentAU)
		if err != nil {
			c.log.Warn("gold price unavailable for sell calculation",
				slog.Int64("chat_id", chatID), slog.Any("error", err))
			return []Reply{{Text: c.t.T("errors.quote_unavailable"), Menu: MenuBack}}
		}

		sellPrice := pricing.ComputeSell(unitPrice, weight)
		c.transition(chatID, conv.Step, state.StepMain, state.Pending{})

		return []Reply{{Text: c.t.Tf("calc.sell_result", formatToman(sellPrice)), Menu: MenuBack}}

	default:
		c.transition(chatID, conv.Step, state.StepMain, state.Pending{})
		return []Reply{{Text: c.t.T("menu.unknown_main"), Menu: MenuMain}}
	}
}

func (c *Controller) handleWage(ctx context.Context, chatID int64, conv state.Conversation, text string) []Reply {
	wagePercent, ok := parseNumber(text)
	if !ok {
		return []Reply{{Text: c.t.T("calc.invalid_wage"), Menu: MenuBack}}
	}

	unitPrice, err := c.quotes.Fetch(ctx, quote.InstrumentAU)
	if err != nil {
		c.log.Warn("gold price unavailable for buy calculation",
			slog.Int64("chat_id", chatID), slog.Any("error", err))
		return []Reply{{Text: c.t.T("errors.quote_unavailable"), Menu: MenuBack}}
	}

	breakdown := pricing.ComputeBuy(unitPrice, conv.Pending.Weight, wagePercent)
	c.transition(chatID, conv.Step, state.StepMain, state.Pending{})

	text = c.t.Tf("calc.buy_result",
		formatToman(breakdown.GoldValue),
		formatPercent(wagePercent),
		formatToman(breakdown.WageValue),
		formatToman(breakdown.Profit),
		formatToman(breakdown.Tax),
		formatToman(breakdown.FinalPrice),
	)

	return []Reply{{Text: text, Menu: MenuBack}}
}

// consult fetches the four instruments and renders the advisory result.
// State is never touched: a consultation is a read-only operation.
func (c *Controller) consult(ctx context.Context) Reply {
	results := quote.FetchAll(ctx, c.quotes,
		quote.InstrumentGCHEMM, quote.InstrumentAU, quote.InstrumentUSD, quote.InstrumentXAU)

	advice, err := advisory.Compute(results[0], results[1], results[2], results[3])
	if err != nil {
		return Reply{Text: c.t.T("errors.quote_unavailable"), Menu: MenuMain}
	}

	c.onAdvice(advice.Recommendation)

	body := c.t.Tf("advice.body",
		groupDigits(advice.CoinPrice),
		groupDigits(advice.GoldPrice),
		groupDigits(advice.USDPrice),
		groupDigits(advice.XAUPrice),
		formatToman(advice.InternationalPrice),
		formatToman(advice.PriceGap),
		c.t.T("advice.recommendation."+string(advice.Recommendation)),
		c.t.Tf("advice.reason."+string(advice.Band), advice.Ratio),
	)

	return Reply{Text: body, Menu: MenuMain}
}

// priceSnapshot renders the raw price report, failing as a whole when any
// instrument errors.
func (c *Controller) priceSnapshot(ctx context.Context) Reply {
	results := quote.FetchAll(ctx, c.quotes,
		quote.InstrumentUSD, quote.InstrumentXAU, quote.InstrumentAU, quote.InstrumentGCHEMM)

	for _, r := range results {
		if !r.OK() {
			return Reply{Text: c.t.T("errors.prices_unavailable"), Menu: MenuMain}
		}
	}

	body := c.t.Tf("prices.body",
		groupDigits(results[0].Price),
		groupDigits(results[1].Price),
		groupDigits(results[2].Price),
		groupDigits(results[3].Price),
	)

	return Reply{Text: body, Menu: MenuMain}
}

func (c *Controller) transition(chatID int64, from, to state.Step, pending state.Pending) {
	c.store.Set(chatID, to, pending)
	c.onTransition(from, to)
}

func (c *Controller) chatLock(chatID int64) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()

	lock, ok := c.chatLocks[chatID]
	if !ok {
		lock = &sync.Mutex{}
		c.chatLocks[chatID] = lock
	}

	return lock
}
