// ABOUTME: Charm KV persister for the dashboard filter state
// ABOUTME: Stores the whole state, saved views included, as one JSON blob

package charm

import (
	"errors"
	"fmt"

	"github.com/sabixx/poc-portal-sub001/filters"
)

// FilterStateKey is the KV key holding the persisted filter state.
const FilterStateKey = "filters/state"

// FilterRepository satisfies filters.Persister on top of charm KV, so saved
// views follow the user across linked devices.
type FilterRepository struct {
	client *Client
}

func NewFilterRepository(client *Client) *FilterRepository {
	return &FilterRepository{client: client}
}

// Load returns nil when nothing has been stored yet.
func (r *FilterRepository) Load() (*filters.FilterState, error) {
	var st filters.FilterState
	if err := r.client.GetJSON(FilterStateKey, &st); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load filter state: %w", err)
	}
	return &st, nil
}

func (r *FilterRepository) Save(st filters.FilterState) error {
	if err := r.client.SetJSON(FilterStateKey, st); err != nil {
		return fmt.Errorf("failed to save filter state: %w", err)
	}
	return nil
}

// Clear removes the stored state.
func (r *FilterRepository) Clear() error {
	if err := r.client.Delete([]byte(FilterStateKey)); err != nil {
		return fmt.Errorf("failed to clear filter state: %w", err)
	}
	return nil
}
