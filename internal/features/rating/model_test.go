package rating

import "testing"

func TestAggregateDelta(t *testing.T) {
	cases := []struct {
		name           string
		previous       int
		next           int
		wantSumDelta   int64
		wantCountDelta int
	}{
		{"first rating", 0, 4, 4, 1},
		{"raise rating", 3, 5, 2, 0},
		{"lower rating", 5, 1, -4, 0},
		{"unchanged rating", 4, 4, 0, 0},
	}

	for _, tc := range cases {
		sumDelta, countDelta := AggregateDelta(tc.previous, tc.next)
		if sumDelta != tc.wantSumDelta || countDelta != tc.wantCountDelta {
			t.Errorf("%s: AggregateDelta(%d, %d) = (%d, %d), want (%d, %d)",
				tc.name, tc.previous, tc.next, sumDelta, countDelta,
				tc.wantSumDelta, tc.wantCountDelta)
		}
	}
}
