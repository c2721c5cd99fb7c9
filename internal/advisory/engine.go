// Package advisory turns a market snapshot into a buy/hold recommendation
// based on the coin-to-gold price ratio.
package advisory

import (
	"errors"

	"github.com/talarad/goldrad-bot/internal/quote"
)

// ErrQuoteUnavailable indicates that at least one required instrument could
// not be fetched. Advice is all-or-nothing; no partial result is produced.
var ErrQuoteUnavailable = errors.New("advisory: quote unavailable")

// Recommendation is the ternary investment call.
type Recommendation string

const (
	// RecommendBuyCoin suggests buying the Emami coin.
	RecommendBuyCoin Recommendation = "buy_coin"
	// RecommendHold suggests waiting.
	RecommendHold Recommendation = "hold"
	// RecommendBuyGold suggests buying gram gold.
	RecommendBuyGold Recommendation = "buy_gold"
)

// Band names the ratio interval that produced the recommendation. The two
// hold outcomes are distinct bands on purpose: equilibrium is a market
// reading, unknown means the ratio fell outside every known interval.
type Band string

const (
	// BandCoinDip: the coin premium has deflated, coins are cheap.
	BandCoinDip Band = "coin_dip"
	// BandEquilibrium: the market is balanced.
	BandEquilibrium Band = "equilibrium"
	// BandCoinPremium: the coin premium has inflated, gram gold is the buy.
	BandCoinPremium Band = "coin_premium"
	// BandUnknown: the ratio is outside every known interval.
	BandUnknown Band = "unknown"
)

// tolerance widens the outermost band edges by a fixed margin.
const tolerance = 0.1

// ounceToGramDivisor converts ounce price times dollar rate into a per-gram
// 18-karat price in tomans. Domain constant, not configurable.
const ounceToGramDivisor = 41.4562

// Advice is the complete advisory result. All fields are populated together.
type Advice struct {
	CoinPrice int64
	GoldPrice int64
	USDPrice  int64
	XAUPrice  int64

	Ratio          float64
	Recommendation Recommendation
	Band           Band

	InternationalPrice float64
	PriceGap           float64
}

// Compute derives advice from the four instrument results. It fails fast on
// the first errored input and never returns partial advice.
func Compute(coin, gold, usd, xau quote.Result) (*Advice, error) {
	for _, r := range []quote.Result{coin, gold, usd, xau} {
		if !r.OK() {
			return nil, ErrQuoteUnavailable
		}
	}

	// A zero gold price is absorbed into ratio 0 rather than propagated;
	// it lands in the unknown band below.
	var ratio float64
	if gold.Price != 0 {
		ratio = float64(coin.Price) / float64(gold.Price)
	}

	recommendation, band := classify(ratio)

	international := float64(xau.Price) * float64(usd.Price) / ounceToGramDivisor

	return &Advice{
		CoinPrice:          coin.Price,
		GoldPrice:          gold.Price,
		USDPrice:           usd.Price,
		XAUPrice:           xau.Price,
		Ratio:              ratio,
		Recommendation:     recommendation,
		Band:               band,
		InternationalPrice: international,
		PriceGap:           float64(gold.Price) - international,
	}, nil
}

// classify runs the ordered band table; the first match wins.
func classify(ratio float64) (Recommendation, Band) {
	switch {
	case ratio >= 11.3-tolerance && ratio < 11.8:
		return RecommendBuyCoin, BandCoinDip
	case ratio >= 11.8 && ratio < 12.3:
		return RecommendHold, BandEquilibrium
	case ratio >= 12.3 && ratio < 12.8+tolerance:
		return RecommendBuyGold, BandCoinPremium
	default:
		return RecommendHold, BandUnknown
	}
}
