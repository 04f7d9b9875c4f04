package compare

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/fordscott/portfolio-builder/internal/domain"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestDelta(t *testing.T) {
	tests := []struct {
		current, baseline string
		want              Direction
	}{
		{"50.02", "50", Up},
		{"50.0", "50.02", Down},
		{"50", "50", Flat},
		{"50.005", "50", Flat},
		{"50.01", "50", Flat},
		{"49.99", "50", Flat},
		{"49.98", "50", Down},
	}

	for _, tt := range tests {
		got := Delta(d(tt.current), d(tt.baseline), DefaultThreshold)
		if got.Direction != tt.want {
			t.Errorf("Delta(%s, %s) = %s, want %s", tt.current, tt.baseline, got.Direction, tt.want)
		}
		if want := d(tt.current).Sub(d(tt.baseline)); !got.Value.Equal(want) {
			t.Errorf("Delta(%s, %s) value = %s, want %s", tt.current, tt.baseline, got.Value, want)
		}
	}
}

func TestDeltaCustomThreshold(t *testing.T) {
	if got := Delta(d("105"), d("100"), d("10")); got.Direction != Flat {
		t.Errorf("direction = %s, want flat", got.Direction)
	}
	if got := Delta(d("111"), d("100"), d("10")); got.Direction != Up {
		t.Errorf("direction = %s, want up", got.Direction)
	}
}

func TestPercentChange(t *testing.T) {
	tests := []struct {
		current, baseline, want string
	}{
		{"110", "100", "10"},
		{"50", "100", "-50"},
		{"100", "0", "0"},
		{"0", "0", "0"},
	}

	for _, tt := range tests {
		got := PercentChange(d(tt.current), d(tt.baseline))
		if !got.Equal(d(tt.want)) {
			t.Errorf("PercentChange(%s, %s) = %s, want %s", tt.current, tt.baseline, got, tt.want)
		}
	}
}

func TestSummarizeComparesMERInPoints(t *testing.T) {
	baseline := domain.AccountTotals{WeightedMER: d("0.0100"), TotalFees: d("1000")}
	current := domain.AccountTotals{WeightedMER: d("0.0105"), TotalFees: d("1050")}

	got := Summarize(current, baseline)

	// 0.05 percentage points is outside the 0.01 band even though the fraction delta is 0.0005.
	if got.MER.Direction != Up {
		t.Errorf("MER direction = %s, want up", got.MER.Direction)
	}
	if !got.MER.Value.Equal(d("0.05")) {
		t.Errorf("MER value = %s, want 0.05", got.MER.Value)
	}
	if !got.FeesPercent.Equal(d("5")) {
		t.Errorf("FeesPercent = %s, want 5", got.FeesPercent)
	}
	if got.Allocation.Direction != Flat {
		t.Errorf("Allocation direction = %s, want flat", got.Allocation.Direction)
	}
}

func TestSummarizeCombined(t *testing.T) {
	baseline := domain.CombinedTotals{TotalBalance: d("500000"), WeightedMER: d("0.012"), AnnualFees: d("6000"), GrowthPercent: d("70"), DefensivePercent: d("30")}
	current := domain.CombinedTotals{TotalBalance: d("500000"), WeightedMER: d("0.010"), AnnualFees: d("5000"), GrowthPercent: d("70"), DefensivePercent: d("30")}

	got := SummarizeCombined(current, baseline)

	if got.MER.Direction != Down || got.Fees.Direction != Down {
		t.Errorf("MER/Fees = %s/%s, want down/down", got.MER.Direction, got.Fees.Direction)
	}
	if got.Growth.Direction != Flat || got.Allocation.Direction != Flat {
		t.Errorf("Growth/Allocation = %s/%s, want flat/flat", got.Growth.Direction, got.Allocation.Direction)
	}
	if !got.Changed() {
		t.Error("Changed() = false, want true")
	}
	if SummarizeCombined(current, current).Changed() {
		t.Error("identical totals reported as changed")
	}
}
