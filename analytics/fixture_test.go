// ABOUTME: Shared fixtures for analytics tests
// ABOUTME: Builds a small portfolio of POCs, users, use cases and feature request links
package analytics

import (
	"testing"
	"time"

	"github.com/sabixx/poc-portal-sub001/filters"
	"github.com/sabixx/poc-portal-sub001/models"
	"github.com/stretchr/testify/require"
)

var asOf = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func fr(id, title, product string) *models.FeatureRequest {
	return &models.FeatureRequest{ID: id, Title: title, Product: product, Source: "aha"}
}

func link(pocID string, f *models.FeatureRequest, dealBreaker bool) models.FeatureRequestLink {
	return models.FeatureRequestLink{
		ID:               pocID + "-" + f.ID,
		POCID:            pocID,
		FeatureRequestID: f.ID,
		Importance:       models.ImportanceNiceToHave,
		IsDealBreaker:    dealBreaker,
		FeatureRequest:   f,
	}
}

// portfolio is a mixed dataset:
//
//	p1 open     EMEA  TLSPC  $100,000  FR1 FR2(deal breaker)
//	p2 closed   EMEA  TLSPC  $50,000   FR1, won
//	p3 review   AMER  NGTS   $75,000   FR2, all use cases done
//	p4 open     none  TLSPC  no aeb    FR3
//	p5 open     AMER  NGTS   1.5m      no links
func portfolio() Dataset {
	fr1 := fr("fr1", "SAML login", "TLSPC")
	fr2 := fr("fr2", "Terraform provider", "NGTS")
	fr3 := fr("fr3", "Audit export", "TLSPC")

	return Dataset{
		POCs: []models.POC{
			{ID: "p1", CustomerName: "Acme", Product: "TLSPC", SEID: "se-a", AEB: "$100,000",
				StartDate: day(2025, 3, 1), EndDatePlan: day(2025, 7, 1)},
			{ID: "p2", CustomerName: "Globex", Product: "TLSPC", SEID: "se-a", AEB: "$50,000",
				StartDate: day(2025, 1, 1), EndDateActual: day(2025, 3, 15), CommercialResult: models.OutcomeCustomer},
			{ID: "p3", CustomerName: "Initech", Product: "NGTS", SEID: "se-b", AEB: "$75,000",
				StartDate: day(2025, 4, 1), EndDatePlan: day(2025, 8, 1)},
			{ID: "p4", CustomerName: "Umbrella", Product: "TLSPC", SEID: "se-x",
				StartDate: day(2025, 5, 1)},
			{ID: "p5", CustomerName: "Hooli", Product: "NGTS", SEID: "se-b", AEB: "1.5m",
				PrepStartDate: day(2024, 11, 1)},
		},
		Users: []models.User{
			{ID: "se-a", Email: "a@example.com", DisplayName: "Ann", Role: models.RoleSE, Region: "EMEA"},
			{ID: "se-b", Email: "b@example.com", DisplayName: "Bo", Role: models.RoleSE, Region: "AMER"},
			{ID: "mgr", Email: "m@example.com", DisplayName: "Max", Role: models.RoleManager, Region: "AMER"},
		},
		Completions: []models.UseCaseCompletion{
			{ID: "u1", POCID: "p3", UseCaseID: "uc1", State: models.UseCaseCompleted, IsActive: true, CompletedAt: day(2025, 5, 1)},
			{ID: "u2", POCID: "p3", UseCaseID: "uc2", State: models.UseCaseCompleted, IsActive: true},
			{ID: "u3", POCID: "p1", UseCaseID: "uc1", State: models.UseCaseOpen, IsActive: true},
		},
		Links: []models.FeatureRequestLink{
			link("p1", fr1, false),
			link("p1", fr2, true),
			link("p2", fr1, false),
			link("p3", fr2, false),
			link("p4", fr3, false),
			{ID: "orphan", POCID: "p5", FeatureRequestID: "gone"},
		},
		Teams: []models.ManagerSEMap{
			{ManagerID: "mgr", SEID: "se-b"},
		},
	}
}

func newEngine(t *testing.T, d Dataset) *Engine {
	t.Helper()
	e, err := NewEngine(d, asOf)
	require.NoError(t, err)
	return e
}

func selection(modify func(*filters.Selection)) filters.Selection {
	sel := filters.DefaultSelection()
	if modify != nil {
		modify(&sel)
	}
	return sel.Normalize()
}

func pocIDs(pocs []models.POC) []string {
	ids := make([]string, 0, len(pocs))
	for _, p := range pocs {
		ids = append(ids, p.ID)
	}
	return ids
}
