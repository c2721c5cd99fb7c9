package pricing

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestComputeBuy(t *testing.T) {
	testCases := []struct {
		name        string
		unitPrice   int64
		weight      float64
		wagePercent float64
		expected    Breakdown
	}{
		{
			name:        "typical purchase",
			unitPrice:   3_000_000,
			weight:      10.5,
			wagePercent: 2,
			expected: Breakdown{
				GoldValue:  31_500_000,
				WageValue:  630_000,
				Profit:     2_249_100,
				Tax:        259_119,
				FinalPrice: 34_638_219,
			},
		},
		{
			name:        "zero wage",
			unitPrice:   1_000_000,
			weight:      1,
			wagePercent: 0,
			expected: Breakdown{
				GoldValue:  1_000_000,
				WageValue:  0,
				Profit:     70_000,
				Tax:        6_300,
				FinalPrice: 1_076_300,
			},
		},
		{
			name:        "zero unit price",
			unitPrice:   0,
			weight:      3.3,
			wagePercent: 5,
			expected:    Breakdown{},
		},
		{
			name:        "negative wage is not validated here",
			unitPrice:   1_000_000,
			weight:      1,
			wagePercent: -10,
			expected: Breakdown{
				GoldValue:  1_000_000,
				WageValue:  -100_000,
				Profit:     63_000,
				Tax:        -3_330,
				FinalPrice: 959_670,
			},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeBuy(tc.unitPrice, tc.weight, tc.wagePercent)

			if !almostEqual(got.GoldValue, tc.expected.GoldValue) {
				t.Fatalf("gold value: expected %v, got %v", tc.expected.GoldValue, got.GoldValue)
			}
			if !almostEqual(got.WageValue, tc.expected.WageValue) {
				t.Fatalf("wage value: expected %v, got %v", tc.expected.WageValue, got.WageValue)
			}
			if !almostEqual(got.Profit, tc.expected.Profit) {
				t.Fatalf("profit: expected %v, got %v", tc.expected.Profit, got.Profit)
			}
			if !almostEqual(got.Tax, tc.expected.Tax) {
				t.Fatalf("tax: expected %v, got %v", tc.expected.Tax, got.Tax)
			}
			if !almostEqual(got.FinalPrice, tc.expected.FinalPrice) {
				t.Fatalf("final price: expected %v, got %v", tc.expected.FinalPrice, got.FinalPrice)
			}
		})
	}
}

func TestComputeBuyFinalPriceIsSumOfParts(t *testing.T) {
	prices := []int64{0, 1, 999_999, 3_250_000}
	weights := []float64{0.1, 1, 7.77, 100}
	wages := []float64{-5, 0, 2, 13.5}

	for _, p := range prices {
		for _, w := range weights {
			for _, wage := range wages {
				got := ComputeBuy(p, w, wage)

				sum := got.GoldValue + got.WageValue + got.Profit + got.Tax
				if got.FinalPrice != sum {
					t.Fatalf("final price %v is not the exact sum of parts %v (p=%d w=%v wage=%v)",
						got.FinalPrice, sum, p, w, wage)
				}
				if !almostEqual(got.GoldValue, w*float64(p)) {
					t.Fatalf("gold value %v != weight*unit price %v", got.GoldValue, w*float64(p))
				}
			}
		}
	}
}

func TestComputeSell(t *testing.T) {
	testCases := []struct {
		name      string
		unitPrice int64
		weight    float64
		expected  float64
	}{
		{name: "one gram", unitPrice: 3_000_000, weight: 1, expected: 2_960_000},
		{name: "fractional weight", unitPrice: 750, weight: 2, expected: 1_480},
		{name: "zero price", unitPrice: 0, weight: 5, expected: 0},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeSell(tc.unitPrice, tc.weight)
			if !almostEqual(got, tc.expected) {
				t.Fatalf("expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestComputeSellMatchesPurityFormula(t *testing.T) {
	for _, p := range []int64{1, 1000, 2_987_654} {
		for _, w := range []float64{0.5, 1, 12.25} {
			expected := w * float64(p) * 740 / 750
			if got := ComputeSell(p, w); !almostEqual(got, expected) {
				t.Fatalf("expected %v, got %v (p=%d w=%v)", expected, got, p, w)
			}
		}
	}
}
