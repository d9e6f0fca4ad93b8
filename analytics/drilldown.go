// ABOUTME: Drill-down from summary metrics and aggregate rows to POC detail
// ABOUTME: Rebuilds the exact POC set behind every displayed total
package analytics

import (
	"errors"
	"fmt"
	"time"

	"github.com/sabixx/poc-portal-sub001/filters"
	"github.com/sabixx/poc-portal-sub001/models"
	"github.com/sabixx/poc-portal-sub001/money"
)

// Metric names a summary figure that can be drilled into.
type Metric string

const (
	MetricTotal    Metric = "total"
	MetricOpen     Metric = "open"
	MetricInReview Metric = "in_review"
	MetricClosed   Metric = "closed"
	MetricImpacted Metric = "impacted"
)

var (
	ErrUnknownMetric         = errors.New("unknown metric")
	ErrUnknownFeatureRequest = errors.New("feature request not in scope")
)

// Metrics lists every drillable metric in display order.
var Metrics = []Metric{MetricTotal, MetricOpen, MetricInReview, MetricClosed, MetricImpacted}

// ParseMetric validates a metric key.
func ParseMetric(s string) (Metric, error) {
	for _, m := range Metrics {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMetric, s)
}

func (m Metric) title() string {
	switch m {
	case MetricOpen:
		return "Open POCs"
	case MetricInReview:
		return "POCs in review"
	case MetricClosed:
		return "Closed POCs"
	case MetricImpacted:
		return "Open POCs impacted by selected feature requests"
	}
	return "All POCs in scope"
}

// Target is either a summary metric or an aggregate row.
type Target struct {
	Metric           Metric `json:"metric,omitempty"`
	FeatureRequestID string `json:"feature_request_id,omitempty"`
}

func MetricTarget(m Metric) Target { return Target{Metric: m} }
func RowTarget(featureRequestID string) Target { return Target{FeatureRequestID: featureRequestID} }

type LinkDetail struct {
	FeatureRequestID string `json:"feature_request_id"`
	Title            string `json:"title"`
	Product          string `json:"product,omitempty"`
	Importance       string `json:"importance"`
	DealBreaker      bool   `json:"deal_breaker"`
}

type PocDetail struct {
	POC             models.POC   `json:"poc"`
	SEName          string       `json:"se_name,omitempty"`
	Region          string       `json:"region"`
	Lifecycle       Lifecycle    `json:"lifecycle"`
	Value           money.Cents  `json:"value"`
	Outcome         string       `json:"outcome"`
	Won             bool         `json:"won"`
	FeatureRequests []LinkDetail `json:"feature_requests"`
}

type Drill struct {
	Title            string      `json:"title"`
	Metric           Metric      `json:"metric,omitempty"`
	FeatureRequestID string      `json:"feature_request_id,omitempty"`
	TotalValue       money.Cents `json:"total_value"`
	POCs             []PocDetail `json:"pocs"`
}

// membership records which metrics a POC counts toward. Summary and
// drill-down both go through it so their totals cannot diverge.
type membership struct {
	lifecycle Lifecycle
	impacted  bool
}

func (m membership) in(metric Metric) bool {
	switch metric {
	case MetricTotal:
		return true
	case MetricOpen:
		return m.lifecycle.IsOpen()
	case MetricInReview:
		return m.lifecycle.State == StateInReview
	case MetricClosed:
		return m.lifecycle.IsClosed()
	case MetricImpacted:
		return m.lifecycle.IsOpen() && m.impacted
	}
	return false
}

func classifyMembership(poc models.POC, idx *Index, sel filters.Selection, selected map[string]bool, asOf time.Time) membership {
	lc := Classify(poc, idx.Completions[poc.ID], asOf)
	m := membership{lifecycle: lc}
	if lc.IsOpen() {
		m.impacted = isImpacted(poc, idx, sel, selected)
	}
	return m
}

// DrillDown returns the POCs behind a summary metric or an aggregate row.
// Their values always sum to the figure being drilled into.
func DrillDown(target Target, filtered []models.POC, idx *Index, sel filters.Selection, asOf time.Time) (Drill, error) {
	if asOf.IsZero() {
		return Drill{}, ErrInvalidAsOf
	}
	if target.FeatureRequestID != "" {
		return drillRow(target.FeatureRequestID, filtered, idx, sel, asOf)
	}

	metric, err := ParseMetric(string(target.Metric))
	if err != nil {
		return Drill{}, err
	}

	d := Drill{Title: metric.title(), Metric: metric, POCs: []PocDetail{}}
	selected := toSet(sel.FeatureRequests)
	for _, poc := range filtered {
		m := classifyMembership(poc, idx, sel, selected, asOf)
		if !m.in(metric) {
			continue
		}
		detail := newPocDetail(poc, idx, sel, m.lifecycle)
		d.POCs = append(d.POCs, detail)
		d.TotalValue += detail.Value
	}
	return d, nil
}

func drillRow(featureRequestID string, filtered []models.POC, idx *Index, sel filters.Selection, asOf time.Time) (Drill, error) {
	rows, err := AggregateByFeatureRequest(filtered, idx, sel, asOf)
	if err != nil {
		return Drill{}, err
	}

	var row *AggregateRow
	for i := range rows {
		if rows[i].FeatureRequestID == featureRequestID {
			row = &rows[i]
			break
		}
	}
	if row == nil {
		return Drill{}, fmt.Errorf("%w: %s", ErrUnknownFeatureRequest, featureRequestID)
	}

	byID := make(map[string]models.POC, len(filtered))
	for _, p := range filtered {
		byID[p.ID] = p
	}

	d := Drill{
		Title:            "POCs waiting on " + row.Title,
		FeatureRequestID: featureRequestID,
		POCs:             make([]PocDetail, 0, len(row.POCs)),
	}
	for _, c := range row.POCs {
		detail := newPocDetail(byID[c.POCID], idx, sel, c.Lifecycle)
		d.POCs = append(d.POCs, detail)
		d.TotalValue += detail.Value
	}
	return d, nil
}

func newPocDetail(poc models.POC, idx *Index, sel filters.Selection, lc Lifecycle) PocDetail {
	detail := PocDetail{
		POC:             poc,
		Region:          idx.Regions.Of(poc),
		Lifecycle:       lc,
		Value:           money.Parse(poc.AEB),
		Outcome:         poc.Outcome(),
		Won:             isWon(poc),
		FeatureRequests: []LinkDetail{},
	}
	if se, ok := idx.Users[poc.SEID]; ok {
		detail.SEName = se.Name()
	}
	for _, l := range survivingLinks(idx.Links[poc.ID], sel.DealBreakerMode) {
		detail.FeatureRequests = append(detail.FeatureRequests, LinkDetail{
			FeatureRequestID: l.FeatureRequest.ID,
			Title:            l.FeatureRequest.Title,
			Product:          l.FeatureRequest.Product,
			Importance:       models.NormalizeImportance(l.Importance),
			DealBreaker:      l.IsDealBreaker,
		})
	}
	return detail
}
