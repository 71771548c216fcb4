package reservationRepo

import (
	"context"
	"sort"
	"sync"

	"courtconnect/models"
)

// memoryReservationRepo keeps reservations in process. Used for local runs
// without MongoDB and as a test double.
type memoryReservationRepo struct {
	mu    sync.Mutex
	items []models.Reservation
}

// NewMemoryReservationRepo returns an empty in-memory repository.
func NewMemoryReservationRepo(seed ...models.Reservation) ReservationRepository {
	r := &memoryReservationRepo{}
	r.items = append(r.items, seed...)
	return r
}

func sortReservations(out []models.Reservation) {
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Start < out[j].Start
	})
}

func (r *memoryReservationRepo) filter(keep func(models.Reservation) bool) []models.Reservation {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Reservation
	for _, res := range r.items {
		if keep(res) {
			out = append(out, res)
		}
	}
	sortReservations(out)
	return out
}

func (r *memoryReservationRepo) ListActiveByFacilityDate(_ context.Context, facilityID, date string) ([]models.Reservation, error) {
	return r.filter(func(res models.Reservation) bool {
		return res.FacilityID == facilityID && res.Date == date && res.Status.Active()
	}), nil
}

func (r *memoryReservationRepo) ListUpcomingByUser(_ context.Context, userID, fromDate string) ([]models.Reservation, error) {
	return r.filter(func(res models.Reservation) bool {
		return res.UserID == userID && res.Date >= fromDate && res.Status.Active()
	}), nil
}

func (r *memoryReservationRepo) ListByStatus(_ context.Context, status models.ReservationStatus) ([]models.Reservation, error) {
	return r.filter(func(res models.Reservation) bool {
		return res.Status == status
	}), nil
}

func (r *memoryReservationRepo) GetByID(_ context.Context, id string) (*models.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, res := range r.items {
		if res.ID == id {
			cp := res
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryReservationRepo) CreateIfFree(_ context.Context, reservation *models.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	want := models.TimeRange{Start: reservation.Start, End: reservation.End}
	for _, res := range r.items {
		if res.FacilityID != reservation.FacilityID || res.Date != reservation.Date || !res.Status.Active() {
			continue
		}
		if want.Overlaps(models.TimeRange{Start: res.Start, End: res.End}) {
			return ErrSlotTaken
		}
	}
	r.items = append(r.items, *reservation)
	return nil
}

func (r *memoryReservationRepo) UpdateStatus(_ context.Context, id string, status models.ReservationStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.items {
		if r.items[i].ID == id {
			r.items[i].Status = status
			return nil
		}
	}
	return ErrNotFound
}

func (r *memoryReservationRepo) ListContacts(context.Context) ([]models.Caller, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	byUser := make(map[string]models.Caller)
	for _, res := range r.items {
		if res.UserEmail == "" {
			continue
		}
		byUser[res.UserID] = models.Caller{ID: res.UserID, Username: res.UserName, Email: res.UserEmail}
	}
	out := make([]models.Caller, 0, len(byUser))
	for _, c := range byUser {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memoryReservationRepo) EnsureIndexes(context.Context) error { return nil }
