// Package pricing computes final buy and sell prices for gold transactions.
package pricing

const (
	// profitRate is the dealer margin applied on gold value plus wage.
	profitRate = 0.07
	// taxRate is applied on profit plus wage.
	taxRate = 0.09
	// Sell-side purity adjustment. 18-karat scrap is bought back at 740/750
	// of its nominal fineness; this is a trade convention, not a tunable.
	purityNumerator   = 740
	purityDenominator = 750
)

// Breakdown itemizes the cost of a buy transaction.
type Breakdown struct {
	GoldValue  float64
	WageValue  float64
	Profit     float64
	Tax        float64
	FinalPrice float64
}

// ComputeBuy calculates the itemized buy price for the given weight in grams
// at the given per-gram unit price. wagePercent is a plain number (2 means
// 2%); its business plausibility is the caller's concern, only numeric parse
// is enforced upstream. The caller guarantees weight > 0.
func ComputeBuy(unitPrice int64, weight, wagePercent float64) Breakdown {
	goldValue := weight * float64(unitPrice)
	wageValue := wagePercent / 100 * goldValue
	profit := profitRate * (wageValue + goldValue)
	tax := taxRate * (profit + wageValue)

	return Breakdown{
		GoldValue:  goldValue,
		WageValue:  wageValue,
		Profit:     profit,
		Tax:        tax,
		FinalPrice: goldValue + wageValue + profit + tax,
	}
}

// ComputeSell calculates the sell price with the fixed purity adjustment.
// The caller guarantees weight > 0.
func ComputeSell(unitPrice int64, weight float64) float64 {
	return weight * float64(unitPrice) * purityNumerator / purityDenominator
}
