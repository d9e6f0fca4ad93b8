// ABOUTME: Filter state for the executive dashboard
// ABOUTME: Defines selections, saved views, partial patches and normalization
package filters

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// DealBreakerMode controls whether aggregation keeps every feature request link
// or only the deal-breaking ones.
type DealBreakerMode string

const (
	DealBreakerAll  DealBreakerMode = "all"
	DealBreakerOnly DealBreakerMode = "only"
)

// Top-N toggle values.
const (
	TopFive = 5
	TopTen  = 10
)

// DateRange restricts POCs to those whose run overlaps [From, To]. A nil bound
// is open.
type DateRange struct {
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`
}

// IsZero reports whether the range imposes no restriction.
func (r DateRange) IsZero() bool {
	return r.From == nil && r.To == nil
}

// DayLayout is the date format accepted for range bounds.
const DayLayout = "2006-01-02"

// ParseRange parses YYYY-MM-DD bounds. From is the start of its day and To
// the last instant of its day, both UTC. An empty bound is open.
func ParseRange(from, to string) (DateRange, error) {
	return DateRange{}.WithBounds(from, to, true, true)
}

// WithBounds returns r with the flagged bounds replaced by the parsed values;
// unflagged bounds are kept and an empty value opens the bound.
func (r DateRange) WithBounds(from, to string, setFrom, setTo bool) (DateRange, error) {
	if setFrom {
		t, err := parseBound(from, false)
		if err != nil {
			return DateRange{}, err
		}
		r.From = t
	}
	if setTo {
		t, err := parseBound(to, true)
		if err != nil {
			return DateRange{}, err
		}
		r.To = t
	}
	return r, nil
}

func parseBound(value string, endOfDay bool) (*time.Time, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(DayLayout, v)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", v)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

// Selection is the part of the state that a saved view captures.
type Selection struct {
	Regions         []string        `json:"regions,omitempty"`
	Products        []string        `json:"products,omitempty"`
	SEs             []string        `json:"ses,omitempty"`
	DateRange       DateRange       `json:"date_range"`
	DealBreakerMode DealBreakerMode `json:"deal_breaker_mode"`
	FeatureRequests []string        `json:"feature_requests,omitempty"`
	TopN            int             `json:"top_n"`
}

type SavedView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	Filters   Selection `json:"filters"`
}

type FilterState struct {
	Selection
	SavedViews []SavedView `json:"saved_views,omitempty"`
	ActiveView string      `json:"active_view,omitempty"`
}

// Patch is a partial update. Nil fields are left untouched; a pointer to an
// empty slice clears that dimension.
type Patch struct {
	Regions         *[]string
	Products        *[]string
	SEs             *[]string
	DateRange       *DateRange
	DealBreakerMode *DealBreakerMode
	FeatureRequests *[]string
	TopN            *int
}

// DefaultSelection is the unrestricted selection.
func DefaultSelection() Selection {
	return Selection{
		DealBreakerMode: DealBreakerAll,
		TopN:            TopTen,
	}
}

// DefaultState returns an unrestricted state with no saved views.
func DefaultState() FilterState {
	return FilterState{Selection: DefaultSelection()}
}

// HasFeatureRequests reports whether any feature request is explicitly selected.
func (s Selection) HasFeatureRequests() bool {
	return len(s.FeatureRequests) > 0
}

// Normalize dedupes and sorts set dimensions and coerces enumerations to
// valid values.
func (s Selection) Normalize() Selection {
	s.Regions = normalizeSet(s.Regions)
	s.Products = normalizeSet(s.Products)
	s.SEs = normalizeSet(s.SEs)
	s.FeatureRequests = normalizeSet(s.FeatureRequests)
	if s.DealBreakerMode != DealBreakerOnly {
		s.DealBreakerMode = DealBreakerAll
	}
	if s.TopN != TopFive {
		s.TopN = TopTen
	}
	s.DateRange = cloneRange(s.DateRange)
	if s.DateRange.From != nil && s.DateRange.To != nil && s.DateRange.To.Before(*s.DateRange.From) {
		s.DateRange.From, s.DateRange.To = s.DateRange.To, s.DateRange.From
	}
	return s
}

// Apply returns a copy of the selection with the patch applied.
func (s Selection) Apply(p Patch) Selection {
	if p.Regions != nil {
		s.Regions = *p.Regions
	}
	if p.Products != nil {
		s.Products = *p.Products
	}
	if p.SEs != nil {
		s.SEs = *p.SEs
	}
	if p.DateRange != nil {
		s.DateRange = *p.DateRange
	}
	if p.DealBreakerMode != nil {
		s.DealBreakerMode = *p.DealBreakerMode
	}
	if p.FeatureRequests != nil {
		s.FeatureRequests = *p.FeatureRequests
	}
	if p.TopN != nil {
		s.TopN = *p.TopN
	}
	return s.Normalize()
}

// Clone returns a deep copy of the state.
func (s FilterState) Clone() FilterState {
	out := s
	out.Selection = s.Selection.clone()
	if s.SavedViews != nil {
		out.SavedViews = make([]SavedView, len(s.SavedViews))
		for i, v := range s.SavedViews {
			v.Filters = v.Filters.clone()
			out.SavedViews[i] = v
		}
	}
	return out
}

// View returns the saved view with the given name.
func (s FilterState) View(name string) (SavedView, bool) {
	for _, v := range s.SavedViews {
		if v.Name == name {
			return v, true
		}
	}
	return SavedView{}, false
}

func (s Selection) clone() Selection {
	s.Regions = cloneSlice(s.Regions)
	s.Products = cloneSlice(s.Products)
	s.SEs = cloneSlice(s.SEs)
	s.FeatureRequests = cloneSlice(s.FeatureRequests)
	s.DateRange = cloneRange(s.DateRange)
	return s
}

func normalizeSet(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func cloneSlice(values []string) []string {
	if values == nil {
		return nil
	}
	return append([]string(nil), values...)
}

func cloneRange(r DateRange) DateRange {
	var out DateRange
	if r.From != nil {
		from := *r.From
		out.From = &from
	}
	if r.To != nil {
		to := *r.To
		out.To = &to
	}
	return out
}
