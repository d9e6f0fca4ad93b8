// ABOUTME: In-memory dataset and lookup indexes for the analytics engine
// ABOUTME: Builds POC to link, completion, region and team lookups once per load
package analytics

import (
	"github.com/charmbracelet/log"
	"github.com/sabixx/poc-portal-sub001/models"
)

// RegionUnassigned labels POCs whose SE has no region (or is unknown).
const RegionUnassigned = "unassigned"

// Dataset is the already-normalized record set the engine operates on.
type Dataset struct {
	POCs        []models.POC                `json:"pocs"`
	Users       []models.User               `json:"users"`
	Completions []models.UseCaseCompletion  `json:"use_cases"`
	Links       []models.FeatureRequestLink `json:"feature_request_links"`
	Teams       []models.ManagerSEMap       `json:"teams"`
}

// LinkIndex maps a POC ID to its aggregatable feature request links in
// original order.
type LinkIndex map[string][]models.FeatureRequestLink

// CompletionIndex maps a POC ID to its use case completions.
type CompletionIndex map[string][]models.UseCaseCompletion

// RegionIndex resolves a POC's region through its owning SE.
type RegionIndex map[string]string

// Of returns the POC's region or RegionUnassigned.
func (r RegionIndex) Of(poc models.POC) string {
	if region := r[poc.SEID]; region != "" {
		return region
	}
	return RegionUnassigned
}

// TeamIndex maps a manager ID to the set of SE IDs on their team.
type TeamIndex map[string]map[string]bool

// Matches reports whether seID is selected directly or through a selected
// manager's team.
func (t TeamIndex) Matches(selected map[string]bool, seID string) bool {
	if selected[seID] {
		return true
	}
	for id := range selected {
		if t[id][seID] {
			return true
		}
	}
	return false
}

// Index bundles every lookup derived from a Dataset.
type Index struct {
	Links       LinkIndex
	Completions CompletionIndex
	Regions     RegionIndex
	Teams       TeamIndex
	Users       map[string]models.User
	Features    map[string]models.FeatureRequest
}

// BuildIndex derives lookups from a dataset. Links without a resolvable
// feature request are dropped here so no aggregate can see them.
func BuildIndex(d Dataset) *Index {
	idx := &Index{
		Links:       make(LinkIndex),
		Completions: make(CompletionIndex),
		Regions:     make(RegionIndex),
		Teams:       make(TeamIndex),
		Users:       make(map[string]models.User, len(d.Users)),
		Features:    make(map[string]models.FeatureRequest),
	}

	for _, u := range d.Users {
		idx.Users[u.ID] = u
		if u.Region != "" {
			idx.Regions[u.ID] = u.Region
		}
	}

	for _, c := range d.Completions {
		idx.Completions[c.POCID] = append(idx.Completions[c.POCID], c)
	}

	dropped := 0
	for _, l := range d.Links {
		if l.FeatureRequest == nil {
			dropped++
			continue
		}
		fr := *l.FeatureRequest
		if fr.ID == "" {
			fr.ID = l.FeatureRequestID
		}
		if fr.ID == "" {
			dropped++
			continue
		}
		l.FeatureRequest = &fr
		l.FeatureRequestID = fr.ID
		idx.Links[l.POCID] = append(idx.Links[l.POCID], l)
		if _, ok := idx.Features[fr.ID]; !ok {
			idx.Features[fr.ID] = fr
		}
	}
	if dropped > 0 {
		log.Debug("dropped feature request links without a resolvable feature request", "count", dropped)
	}

	for _, m := range d.Teams {
		if idx.Teams[m.ManagerID] == nil {
			idx.Teams[m.ManagerID] = make(map[string]bool)
		}
		idx.Teams[m.ManagerID][m.SEID] = true
	}

	return idx
}

func toSet(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
