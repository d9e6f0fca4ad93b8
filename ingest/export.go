// ABOUTME: PocketBase-style JSON export format and its normalization
// ABOUTME: Coerces loose field encodings into the analytics dataset shape
package ingest

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sabixx/poc-portal-sub001/analytics"
	"github.com/sabixx/poc-portal-sub001/models"
	"github.com/sabixx/poc-portal-sub001/money"
)

// Export is a dump of the portal collections as returned by the record API,
// one array per collection.
type Export struct {
	Users           []UserRecord           `json:"users"`
	POCs            []POCRecord            `json:"pocs"`
	UseCases        []UseCaseRecord        `json:"poc_use_cases"`
	FeatureRequests []FeatureRequestRecord `json:"feature_requests"`
	Links           []LinkRecord           `json:"poc_feature_requests"`
	Teams           []TeamRecord           `json:"manager_se_map"`
}

type UserRecord struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Role        string `json:"role"`
	Region      string `json:"region"`
}

// POCRecord keeps dates as the API's strings and aeb as whatever JSON type
// the collection happened to hold.
type POCRecord struct {
	ID                 string `json:"id"`
	UID                string `json:"poc_uid"`
	Name               string `json:"name"`
	CustomerName       string `json:"customer_name"`
	Product            string `json:"product"`
	SE                 string `json:"se"`
	Partner            string `json:"partner"`
	AEB                any    `json:"aeb"`
	PrepStartDate      string `json:"prep_start_date"`
	StartDate          string `json:"poc_start_date"`
	EndDatePlan        string `json:"poc_end_date_plan"`
	EndDateActual      string `json:"poc_end_date_actual"`
	CompletionDateAuto string `json:"completion_date_auto"`
	DeregisteredAt     string `json:"deregistered_at"`
	RiskStatus         string `json:"risk_status"`
	TechnicalResult    string `json:"technical_result"`
	CommercialResult   string `json:"commercial_result"`
	IsActive           bool   `json:"is_active"`
	IsCompleted        bool   `json:"is_completed"`
}

type UseCaseRecord struct {
	ID          string `json:"id"`
	POC         string `json:"poc"`
	UseCase     string `json:"use_case"`
	IsActive    bool   `json:"is_active"`
	IsCompleted bool   `json:"is_completed"`
	CompletedAt string `json:"completed_at"`
	Rating      int    `json:"rating"`
}

type FeatureRequestRecord struct {
	ID         string `json:"id"`
	Source     string `json:"source"`
	ExternalID string `json:"external_id"`
	Title      string `json:"title"`
	Product    string `json:"product"`
	Status     string `json:"status"`
	Priority   string `json:"priority"`
}

type LinkRecord struct {
	ID             string `json:"id"`
	POC            string `json:"poc"`
	FeatureRequest string `json:"feature_request"`
	Importance     string `json:"importance"`
	IsDealBreaker  any    `json:"is_deal_breaker"`
	CustomerImpact string `json:"customer_impact"`
	Expand         struct {
		FeatureRequest *FeatureRequestRecord `json:"feature_request"`
	} `json:"expand"`
}

type TeamRecord struct {
	Manager string `json:"manager"`
	SE      string `json:"se"`
}

// Report counts what normalization had to drop or repair.
type Report struct {
	SkippedPOCs     int
	SkippedUseCases int
	SkippedLinks    int
	UnresolvedLinks int
	BadDates        int
}

func (r Report) Skipped() int {
	return r.SkippedPOCs + r.SkippedUseCases + r.SkippedLinks
}

// ReadExport decodes an export document.
func ReadExport(r io.Reader) (*Export, error) {
	var exp Export
	if err := json.NewDecoder(r).Decode(&exp); err != nil {
		return nil, fmt.Errorf("failed to decode export: %w", err)
	}
	return &exp, nil
}

// NormalizeDealBreaker treats boolean true and the string "true" as set.
// Every other value is false.
func NormalizeDealBreaker(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return b == "true"
	}
	return false
}

// NormalizeAEB keeps text as entered and renders numbers as plain dollars.
func NormalizeAEB(v any) string {
	switch a := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(a)
	case float64:
		return money.ParseAny(a).String()
	case json.Number:
		return money.ParseAny(a).String()
	}
	return ""
}

var dateLayouts = []string{
	"2006-01-02 15:04:05.000Z",
	"2006-01-02 15:04:05Z",
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate accepts the record API's date encodings. Empty input is a
// missing date, not an error.
func ParseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("unrecognized date %q", s)
}

// Normalize converts the export into the engine's dataset. Malformed records
// are skipped or repaired, never fatal.
func (e *Export) Normalize() (analytics.Dataset, Report) {
	var (
		d   analytics.Dataset
		rep Report
	)
	date := func(kind, id, value string) *time.Time {
		t, err := ParseDate(value)
		if err != nil {
			rep.BadDates++
			log.Debug("ignoring bad date", "record", kind, "id", id, "err", err)
		}
		return t
	}

	for _, u := range e.Users {
		if u.ID == "" {
			continue
		}
		d.Users = append(d.Users, models.User{
			ID: u.ID, Email: u.Email, DisplayName: u.DisplayName, Role: u.Role, Region: u.Region,
		})
	}

	pocs := make(map[string]bool, len(e.POCs))
	for _, p := range e.POCs {
		if p.ID == "" || pocs[p.ID] {
			rep.SkippedPOCs++
			continue
		}
		pocs[p.ID] = true
		customer := p.CustomerName
		if customer == "" {
			customer = p.Name
		}
		d.POCs = append(d.POCs, models.POC{
			ID:                 p.ID,
			UID:                p.UID,
			Name:               p.Name,
			CustomerName:       customer,
			Product:            p.Product,
			SEID:               p.SE,
			Partner:            p.Partner,
			AEB:                NormalizeAEB(p.AEB),
			PrepStartDate:      date("poc", p.ID, p.PrepStartDate),
			StartDate:          date("poc", p.ID, p.StartDate),
			EndDatePlan:        date("poc", p.ID, p.EndDatePlan),
			EndDateActual:      date("poc", p.ID, p.EndDateActual),
			CompletionDateAuto: date("poc", p.ID, p.CompletionDateAuto),
			DeregisteredAt:     date("poc", p.ID, p.DeregisteredAt),
			RiskStatus:         p.RiskStatus,
			TechnicalResult:    p.TechnicalResult,
			CommercialResult:   p.CommercialResult,
			IsActive:           p.IsActive,
			IsCompleted:        p.IsCompleted,
		})
	}

	for _, u := range e.UseCases {
		if u.ID == "" || !pocs[u.POC] {
			rep.SkippedUseCases++
			continue
		}
		state := models.UseCaseOpen
		if u.IsCompleted {
			state = models.UseCaseCompleted
		}
		d.Completions = append(d.Completions, models.UseCaseCompletion{
			ID:          u.ID,
			POCID:       u.POC,
			UseCaseID:   u.UseCase,
			State:       state,
			IsActive:    u.IsActive,
			CompletedAt: date("poc_use_case", u.ID, u.CompletedAt),
			Rating:      u.Rating,
		})
	}

	features := make(map[string]FeatureRequestRecord, len(e.FeatureRequests))
	for _, f := range e.FeatureRequests {
		features[f.ID] = f
	}
	for _, l := range e.Links {
		if l.ID == "" || !pocs[l.POC] {
			rep.SkippedLinks++
			continue
		}
		link := models.FeatureRequestLink{
			ID:               l.ID,
			POCID:            l.POC,
			FeatureRequestID: l.FeatureRequest,
			Importance:       models.NormalizeImportance(l.Importance),
			IsDealBreaker:    NormalizeDealBreaker(l.IsDealBreaker),
			CustomerImpact:   l.CustomerImpact,
		}
		fr := l.Expand.FeatureRequest
		if fr == nil {
			if f, ok := features[l.FeatureRequest]; ok {
				fr = &f
			}
		}
		if fr != nil {
			link.FeatureRequest = fr.model()
			if link.FeatureRequestID == "" {
				link.FeatureRequestID = fr.ID
			}
		} else {
			rep.UnresolvedLinks++
		}
		d.Links = append(d.Links, link)
	}

	for _, t := range e.Teams {
		if t.Manager == "" || t.SE == "" {
			continue
		}
		d.Teams = append(d.Teams, models.ManagerSEMap{ManagerID: t.Manager, SEID: t.SE})
	}

	return d, rep
}

func (f FeatureRequestRecord) model() *models.FeatureRequest {
	return &models.FeatureRequest{
		ID:         f.ID,
		Source:     f.Source,
		ExternalID: f.ExternalID,
		Title:      f.Title,
		Product:    f.Product,
		Status:     f.Status,
		Priority:   f.Priority,
	}
}

// formatDate renders a date the way the record API does.
func formatDate(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05.000Z")
}

// formatBool renders b the way an older client stored it, as text.
func formatBool(b bool) string {
	return strconv.FormatBool(b)
}
