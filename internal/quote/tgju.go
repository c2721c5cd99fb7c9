package quote

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

const (
	defaultBaseURL = "https://www.tgju.org"
	defaultTimeout = 15 * time.Second

	// priceSelector targets the last-trade value cell on tgju profile pages.
	priceSelector = `span[data-col="info.last_trade.PDrCotVal"]`
)

// profilePaths maps instruments to their tgju profile pages.
var profilePaths = map[Instrument]string{
	InstrumentUSD:    "/profile/price_dollar_rl",
	InstrumentAU:     "/profile/geram18",
	InstrumentGCHEMM: "/profile/sekee",
	InstrumentXAU:    "/profile/ons",
}

// rialInstruments are quoted upstream in rials and converted to tomans.
var rialInstruments = map[Instrument]bool{
	InstrumentUSD:    true,
	InstrumentAU:     true,
	InstrumentGCHEMM: true,
}

// TGJUClient scrapes instrument prices from tgju.org profile pages.
type TGJUClient struct {
	client *resty.Client
	log    *slog.Logger
}

// TGJUOption customizes a TGJUClient.
type TGJUOption func(*TGJUClient)

// WithBaseURL points the client at an alternative upstream, used in tests.
func WithBaseURL(baseURL string) TGJUOption {
	return func(c *TGJUClient) {
		c.client.SetBaseURL(strings.TrimRight(baseURL, "/"))
	}
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(timeout time.Duration) TGJUOption {
	return func(c *TGJUClient) {
		c.client.SetTimeout(timeout)
	}
}

// NewTGJUClient builds a scraper client with sane HTTP defaults.
func NewTGJUClient(log *slog.Logger, opts ...TGJUOption) *TGJUClient {
	if log == nil {
		log = slog.Default()
	}

	client := resty.New()
	client.SetBaseURL(defaultBaseURL)
	client.SetTimeout(defaultTimeout)
	client.SetHeader("User-Agent", "Mozilla/5.0 (compatible; GoldradBot/1.0)")

	c := &TGJUClient{
		client: client,
		log:    log,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Fetch retrieves and parses the current price for the instrument.
func (c *TGJUClient) Fetch(ctx context.Context, instrument Instrument) (int64, error) {
	path, ok := profilePaths[instrument]
	if !ok {
		return 0, NewError(instrument, ErrorKindUnsupported, fmt.Errorf("no profile page for %q", instrument))
	}

	resp, err := c.client.R().SetContext(ctx).Get(path)
	if err != nil {
		c.log.Error("quote fetch failed", slog.String("instrument", string(instrument)), slog.Any("error", err))
		return 0, NewError(instrument, ErrorKindFetch, err)
	}

	if resp.StatusCode() != 200 {
		c.log.Warn("quote fetch returned non-200",
			slog.String("instrument", string(instrument)),
			slog.Int("status", resp.StatusCode()))
		return 0, NewError(instrument, ErrorKindFetch, fmt.Errorf("status %d", resp.StatusCode()))
	}

	price, err := parsePrice(instrument, resp.String())
	if err != nil {
		c.log.Warn("quote parse failed", slog.String("instrument", string(instrument)), slog.Any("error", err))
		return 0, err
	}

	return price, nil
}

func parsePrice(instrument Instrument, html string) (int64, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return 0, NewError(instrument, ErrorKindParse, err)
	}

	text := strings.TrimSpace(doc.Find(priceSelector).First().Text())
	if text == "" {
		return 0, NewError(instrument, ErrorKindParse, fmt.Errorf("price element not found"))
	}

	raw, err := strconv.ParseFloat(strings.ReplaceAll(text, ",", ""), 64)
	if err != nil {
		return 0, NewError(instrument, ErrorKindParse, err)
	}

	if raw < 0 {
		return 0, NewError(instrument, ErrorKindParse, fmt.Errorf("negative price %v", raw))
	}

	// Domestic feeds are published in rials; the bot works in tomans.
	if rialInstruments[instrument] {
		return int64(raw) / 10, nil
	}

	return int64(raw), nil
}
