package availabilityRepo

import (
	"context"
	"sort"
	"sync"

	"courtconnect/models"
)

type memoryWindowRepo struct {
	mu    sync.RWMutex
	items []models.AvailabilityWindow
}

// NewMemoryWindowRepo returns an in-memory WindowRepository seeded with windows.
func NewMemoryWindowRepo(seed ...models.AvailabilityWindow) WindowRepository {
	r := &memoryWindowRepo{}
	r.items = append(r.items, seed...)
	return r
}

func (r *memoryWindowRepo) ListByFacilityDate(_ context.Context, facilityID, date string) ([]models.AvailabilityWindow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.AvailabilityWindow
	for _, w := range r.items {
		if w.FacilityID == facilityID && w.Date == date {
			out = append(out, w)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out, nil
}

func (r *memoryWindowRepo) EnsureIndexes(context.Context) error { return nil }
