// ABOUTME: Invariant checks over computed summaries and aggregate rows
// ABOUTME: Reports negative totals, double-counted POCs and bucket mismatches
package analytics

import (
	"errors"
	"fmt"
)

// ErrInvariant marks a violated engine invariant.
var ErrInvariant = errors.New("analytics invariant violated")

// Verify checks the internal consistency of a summary and its aggregate
// rows. A nil result means every invariant holds.
func Verify(s Summary, rows []AggregateRow) error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvariant}, args...)...))
	}

	if s.TotalValue < 0 || s.OpenValue < 0 || s.InReviewValue < 0 || s.ClosedValue < 0 {
		fail("negative summary value")
	}
	if s.OpenValue+s.InReviewValue+s.ClosedValue != s.TotalValue {
		fail("lifecycle values %d+%d+%d do not add up to total %d",
			s.OpenValue, s.InReviewValue, s.ClosedValue, s.TotalValue)
	}
	if s.OpenCount+s.InReviewCount+s.ClosedCount != s.FilteredCount {
		fail("lifecycle counts do not add up to %d filtered POCs", s.FilteredCount)
	}
	if s.ImpactedValue != nil && (*s.ImpactedValue < 0 || *s.ImpactedValue > s.OpenValue) {
		fail("impacted value %d outside open value %d", *s.ImpactedValue, s.OpenValue)
	}

	for i, row := range rows {
		if row.TotalValue < 0 {
			fail("feature request %s has negative total", row.FeatureRequestID)
		}
		if row.WonValue+row.AtRiskValue != row.TotalValue {
			fail("feature request %s won/at-risk split does not add up", row.FeatureRequestID)
		}
		if i > 0 && rows[i-1].TotalValue < row.TotalValue {
			fail("rows not ranked by total at position %d", i)
		}

		seen := make(map[string]bool, len(row.POCs))
		var sum int64
		for _, c := range row.POCs {
			if seen[c.POCID] {
				fail("POC %s counted twice for feature request %s", c.POCID, row.FeatureRequestID)
			}
			seen[c.POCID] = true
			sum += int64(c.Value)
		}
		if sum != int64(row.TotalValue) {
			fail("feature request %s total %d does not match contributions %d", row.FeatureRequestID, row.TotalValue, sum)
		}
	}

	return errors.Join(errs...)
}
