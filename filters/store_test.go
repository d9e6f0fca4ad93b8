// ABOUTME: Tests for the filter state store
// ABOUTME: Covers patching, notification, saved views and persistence
package filters

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryPersister struct {
	state   *FilterState
	saves   int
	loadErr error
	saveErr error
}

func (m *memoryPersister) Load() (*FilterState, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.state == nil {
		return nil, nil
	}
	st := m.state.Clone()
	return &st, nil
}

func (m *memoryPersister) Save(st FilterState) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.state = &st
	return nil
}

func strs(values ...string) *[]string {
	return &values
}

func TestNewStoreDefaults(t *testing.T) {
	s := NewStore(nil)
	st := s.Get()

	assert.Equal(t, DealBreakerAll, st.DealBreakerMode)
	assert.Equal(t, TopTen, st.TopN)
	assert.Empty(t, st.Regions)
	assert.Empty(t, st.SavedViews)
}

func TestNewStoreLoadsPersistedState(t *testing.T) {
	persisted := DefaultState()
	persisted.Regions = []string{"EMEA", "AMER", "EMEA"}
	persisted.TopN = TopFive

	s := NewStore(&memoryPersister{state: &persisted})
	st := s.Get()

	assert.Equal(t, []string{"AMER", "EMEA"}, st.Regions)
	assert.Equal(t, TopFive, st.TopN)
}

func TestNewStoreFallsBackOnLoadError(t *testing.T) {
	s := NewStore(&memoryPersister{loadErr: errors.New("corrupt")})
	assert.Equal(t, DefaultState().Selection, s.Get().Selection)
}

func TestSetAppliesPartialPatch(t *testing.T) {
	s := NewStore(nil)
	s.Set(Patch{Regions: strs("EMEA")})
	mode := DealBreakerOnly
	st := s.Set(Patch{DealBreakerMode: &mode})

	assert.Equal(t, []string{"EMEA"}, st.Regions)
	assert.Equal(t, DealBreakerOnly, st.DealBreakerMode)

	st = s.Set(Patch{Regions: strs()})
	assert.Empty(t, st.Regions)
	assert.Equal(t, DealBreakerOnly, st.DealBreakerMode)
}

func TestSetNormalizesValues(t *testing.T) {
	s := NewStore(nil)
	topN := 7
	mode := DealBreakerMode("sometimes")
	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	st := s.Set(Patch{
		TopN:            &topN,
		DealBreakerMode: &mode,
		SEs:             strs("b", "a", "b"),
		DateRange:       &DateRange{From: &from, To: &to},
	})

	assert.Equal(t, TopTen, st.TopN)
	assert.Equal(t, DealBreakerAll, st.DealBreakerMode)
	assert.Equal(t, []string{"a", "b"}, st.SEs)
	assert.True(t, st.DateRange.From.Equal(to))
	assert.True(t, st.DateRange.To.Equal(from))
}

func TestSubscribersReceiveEverySnapshotInOrder(t *testing.T) {
	s := NewStore(nil)

	var seen [][]string
	unsubscribe, err := s.Subscribe(func(st FilterState) {
		seen = append(seen, st.Products)
	})
	require.NoError(t, err)

	s.Set(Patch{Products: strs("Certificate Manager")})
	s.Set(Patch{Products: strs("Secrets Hub")})

	require.Len(t, seen, 2)
	assert.Equal(t, []string{"Certificate Manager"}, seen[0])
	assert.Equal(t, []string{"Secrets Hub"}, seen[1])

	unsubscribe()
	s.Reset()
	assert.Len(t, seen, 2)
}

func TestSnapshotsAreImmutable(t *testing.T) {
	s := NewStore(nil)

	var captured FilterState
	_, err := s.Subscribe(func(st FilterState) {
		captured = st
	})
	require.NoError(t, err)

	s.Set(Patch{Regions: strs("EMEA")})
	captured.Regions[0] = "tampered"

	assert.Equal(t, []string{"EMEA"}, s.Get().Regions)
}

func TestSubscribeIsBounded(t *testing.T) {
	s := NewStore(nil)
	for i := 0; i < MaxSubscribers; i++ {
		_, err := s.Subscribe(func(FilterState) {})
		require.NoError(t, err)
	}

	_, err := s.Subscribe(func(FilterState) {})
	assert.ErrorIs(t, err, ErrTooManySubscribers)
}

func TestListenerMayReadStore(t *testing.T) {
	s := NewStore(nil)
	var regions []string
	_, err := s.Subscribe(func(FilterState) {
		regions = s.Get().Regions
	})
	require.NoError(t, err)

	s.Set(Patch{Regions: strs("APJ")})
	assert.Equal(t, []string{"APJ"}, regions)
}

func TestSavedViews(t *testing.T) {
	s := NewStore(nil)
	s.Set(Patch{Regions: strs("EMEA"), Products: strs("Secrets Hub")})

	view, err := s.SaveView("emea secrets")
	require.NoError(t, err)
	assert.NotEmpty(t, view.ID)
	assert.Equal(t, "emea secrets", s.Get().ActiveView)

	s.Reset()
	assert.Empty(t, s.Get().Regions)
	assert.Empty(t, s.Get().ActiveView)

	st, err := s.ApplyView("emea secrets")
	require.NoError(t, err)
	assert.Equal(t, []string{"EMEA"}, st.Regions)
	assert.Equal(t, []string{"Secrets Hub"}, st.Products)
	assert.Equal(t, "emea secrets", st.ActiveView)

	s.Set(Patch{Regions: strs("AMER")})
	resaved, err := s.SaveView("emea secrets")
	require.NoError(t, err)
	assert.Equal(t, view.ID, resaved.ID)
	assert.Len(t, s.Get().SavedViews, 1)
	assert.Equal(t, []string{"AMER"}, s.Get().SavedViews[0].Filters.Regions)

	require.NoError(t, s.DeleteView("emea secrets"))
	assert.Empty(t, s.Get().SavedViews)
	assert.Empty(t, s.Get().ActiveView)
}

func TestSavedViewErrors(t *testing.T) {
	s := NewStore(nil)
	notified := 0
	_, err := s.Subscribe(func(FilterState) { notified++ })
	require.NoError(t, err)

	_, err = s.SaveView("  ")
	assert.ErrorIs(t, err, ErrInvalidViewName)

	_, err = s.ApplyView("missing")
	assert.ErrorIs(t, err, ErrUnknownView)

	assert.ErrorIs(t, s.DeleteView("missing"), ErrUnknownView)
	assert.Equal(t, 0, notified)
}

func TestStorePersistsEveryMutation(t *testing.T) {
	p := &memoryPersister{}
	s := NewStore(p)

	s.Set(Patch{Regions: strs("EMEA")})
	_, err := s.SaveView("mine")
	require.NoError(t, err)

	assert.Equal(t, 2, p.saves)
	require.NotNil(t, p.state)
	assert.Equal(t, []string{"EMEA"}, p.state.Regions)
	assert.Len(t, p.state.SavedViews, 1)
}

func TestStoreSurvivesSaveFailure(t *testing.T) {
	s := NewStore(&memoryPersister{saveErr: errors.New("disk full")})
	st := s.Set(Patch{Regions: strs("EMEA")})
	assert.Equal(t, []string{"EMEA"}, st.Regions)
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)
	fs := NewFileStore(path)

	loaded, err := fs.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded)

	s := NewStore(fs)
	s.Set(Patch{Products: strs("Secrets Hub")})
	_, err = s.SaveView("secrets")
	require.NoError(t, err)

	reopened := NewStore(NewFileStore(path))
	st := reopened.Get()
	assert.Equal(t, []string{"Secrets Hub"}, st.Products)
	require.Len(t, st.SavedViews, 1)
	assert.Equal(t, "secrets", st.SavedViews[0].Name)
}

func TestParseRange(t *testing.T) {
	r, err := ParseRange("2025-01-01", "")
	require.NoError(t, err)
	require.NotNil(t, r.From)
	assert.Nil(t, r.To)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), *r.From)

	r, err = ParseRange("", "")
	require.NoError(t, err)
	assert.True(t, r.IsZero())

	_, err = ParseRange("2025-01-01", "01/02/2025")
	assert.Error(t, err)
}

func TestParseRangeToCoversWholeDay(t *testing.T) {
	r, err := ParseRange("2025-06-01", "2025-06-01")
	require.NoError(t, err)
	require.NotNil(t, r.To)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), *r.From)
	assert.Equal(t, time.Date(2025, 6, 1, 23, 59, 59, 999999999, time.UTC), *r.To)
	assert.Equal(t, "2025-06-01", r.To.Format(DayLayout))
}

func TestDateRangeWithBoundsKeepsOtherBound(t *testing.T) {
	current, err := ParseRange("2025-01-01", "2025-06-30")
	require.NoError(t, err)

	r, err := current.WithBounds("2025-03-01", "", true, false)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-01", r.From.Format(DayLayout))
	require.NotNil(t, r.To)
	assert.Equal(t, "2025-06-30", r.To.Format(DayLayout))

	r, err = current.WithBounds("", "", false, true)
	require.NoError(t, err)
	assert.Nil(t, r.To)
	assert.Equal(t, "2025-01-01", r.From.Format(DayLayout))

	_, err = current.WithBounds("soon", "", true, false)
	assert.Error(t, err)
}
