// ABOUTME: Revenue aggregation across linked feature requests
// ABOUTME: Groups deal value per feature request, splits won vs at risk and ranks rows
package analytics

import (
	"sort"
	"time"

	"github.com/sabixx/poc-portal-sub001/filters"
	"github.com/sabixx/poc-portal-sub001/models"
	"github.com/sabixx/poc-portal-sub001/money"
)

// RowStatus is the display classification of an aggregate row.
type RowStatus string

const (
	RowWon    RowStatus = "won"
	RowAtRisk RowStatus = "at_risk"
)

// Contribution is one POC's share of a feature request row.
type Contribution struct {
	POCID        string      `json:"poc_id"`
	CustomerName string      `json:"customer_name"`
	Product      string      `json:"product,omitempty"`
	SEID         string      `json:"se,omitempty"`
	AEB          string      `json:"aeb,omitempty"`
	Value        money.Cents `json:"value"`
	Region       string      `json:"region"`
	Lifecycle    Lifecycle   `json:"lifecycle"`
	DealBreaker  bool        `json:"deal_breaker"`
	Importance   string      `json:"importance"`
	Outcome      string      `json:"outcome"`
	Won          bool        `json:"won"`
}

type AggregateRow struct {
	FeatureRequestID string         `json:"feature_request_id"`
	Title            string         `json:"title"`
	Source           string         `json:"source,omitempty"`
	Products         []string       `json:"products"`
	TotalValue       money.Cents    `json:"total_value"`
	WonValue         money.Cents    `json:"won_value"`
	AtRiskValue      money.Cents    `json:"at_risk_value"`
	Status           RowStatus      `json:"status"`
	DealBreakers     int            `json:"deal_breakers"`
	POCs             []Contribution `json:"pocs"`
}

// Bucket summarizes the rows that fell outside the Top-N.
type Bucket struct {
	Count      int         `json:"count"`
	TotalValue money.Cents `json:"total_value"`
}

type Ranking struct {
	Top  []AggregateRow `json:"top"`
	Rest Bucket         `json:"rest"`
}

// survivingLinks applies the deal-breaker mode to a POC's links.
func survivingLinks(links []models.FeatureRequestLink, mode filters.DealBreakerMode) []models.FeatureRequestLink {
	if mode != filters.DealBreakerOnly {
		return links
	}
	out := make([]models.FeatureRequestLink, 0, len(links))
	for _, l := range links {
		if l.IsDealBreaker {
			out = append(out, l)
		}
	}
	return out
}

func isWon(poc models.POC) bool {
	return poc.CommercialResult == models.OutcomeCustomer
}

type rowBuilder struct {
	row      AggregateRow
	pocIndex map[string]int
	products map[string]bool
}

func (b *rowBuilder) addProduct(product string) {
	if product == "" || b.products[product] {
		return
	}
	b.products[product] = true
	b.row.Products = append(b.row.Products, product)
}

// AggregateByFeatureRequest groups the filtered POCs' surviving links by
// feature request and ranks the groups by total deal value, descending. Ties
// keep discovery order. A POC counts once per feature request however many
// links it has to it.
func AggregateByFeatureRequest(filtered []models.POC, idx *Index, sel filters.Selection, asOf time.Time) ([]AggregateRow, error) {
	if asOf.IsZero() {
		return nil, ErrInvalidAsOf
	}

	var order []*rowBuilder
	byID := make(map[string]*rowBuilder)

	for _, poc := range filtered {
		links := survivingLinks(idx.Links[poc.ID], sel.DealBreakerMode)
		if len(links) == 0 {
			continue
		}
		lc := Classify(poc, idx.Completions[poc.ID], asOf)
		value := money.Parse(poc.AEB)
		won := isWon(poc)
		region := idx.Regions.Of(poc)

		for _, link := range links {
			fr := link.FeatureRequest
			b, ok := byID[fr.ID]
			if !ok {
				b = &rowBuilder{
					row: AggregateRow{
						FeatureRequestID: fr.ID,
						Title:            fr.Title,
						Source:           fr.Source,
					},
					pocIndex: make(map[string]int),
					products: make(map[string]bool),
				}
				byID[fr.ID] = b
				order = append(order, b)
			}
			b.addProduct(fr.Product)
			b.addProduct(poc.Product)

			importance := models.NormalizeImportance(link.Importance)
			if i, seen := b.pocIndex[poc.ID]; seen {
				c := &b.row.POCs[i]
				c.DealBreaker = c.DealBreaker || link.IsDealBreaker
				if models.ImportanceRank(importance) < models.ImportanceRank(c.Importance) {
					c.Importance = importance
				}
				continue
			}

			b.pocIndex[poc.ID] = len(b.row.POCs)
			b.row.POCs = append(b.row.POCs, Contribution{
				POCID:        poc.ID,
				CustomerName: poc.CustomerName,
				Product:      poc.Product,
				SEID:         poc.SEID,
				AEB:          poc.AEB,
				Value:        value,
				Region:       region,
				Lifecycle:    lc,
				DealBreaker:  link.IsDealBreaker,
				Importance:   importance,
				Outcome:      poc.Outcome(),
				Won:          won,
			})
			b.row.TotalValue += value
			if won {
				b.row.WonValue += value
			} else {
				b.row.AtRiskValue += value
			}
		}
	}

	rows := make([]AggregateRow, 0, len(order))
	for _, b := range order {
		row := b.row
		row.Status = RowWon
		for _, c := range row.POCs {
			if !c.Won {
				row.Status = RowAtRisk
			}
			if c.DealBreaker {
				row.DealBreakers++
			}
		}
		if row.Products == nil {
			row.Products = []string{}
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].TotalValue > rows[j].TotalValue
	})
	return rows, nil
}

// Rank splits ranked rows into the first n and a bucket for the remainder.
func Rank(rows []AggregateRow, n int) Ranking {
	if n <= 0 || n > len(rows) {
		n = len(rows)
	}
	r := Ranking{Top: rows[:n:n]}
	for _, row := range rows[n:] {
		r.Rest.Count++
		r.Rest.TotalValue += row.TotalValue
	}
	return r
}
