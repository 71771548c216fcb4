package booking

import "courtconnect/models"

// eveningStart is the hour from which lighting fees apply and admin approval is needed.
const eveningStart = 18

var bikePrices = map[string]map[string]float64{
	"normal": {"2h": 20, "daily": 50, "3d": 130, "weekly": 200},
	"pro":    {"2h": 40, "daily": 80, "3d": 170, "weekly": 400},
}

// lastStartHour returns the latest allowed start for a facility type, or -1.
func lastStartHour(t models.FacilityType) int {
	switch {
	case t == models.FacilityFutsal || t.IsHalfField():
		return 20
	case t == models.FacilityBicycles:
		return 17
	}
	return -1
}

// lightingFee is charged for evening slots.
func lightingFee(t models.FacilityType, startHour int) float64 {
	if startHour < eveningStart {
		return 0
	}
	switch {
	case t.IsHalfField():
		return 40
	case t == models.FacilityFutsal, t == models.FacilityTennis, t == models.FacilityPadel, t == models.FacilityBasketball:
		return 30
	}
	return 0
}

// CalculatePrice returns the total for a booking. ok is false for an unknown
// bike type or rental plan.
func CalculatePrice(t models.FacilityType, startHour int, bikeType, rentalPlan string) (float64, bool) {
	if t == models.FacilityBicycles {
		plans, ok := bikePrices[bikeType]
		if !ok {
			return 0, false
		}
		price, ok := plans[rentalPlan]
		return price, ok
	}
	return lightingFee(t, startHour), true
}

// InitialStatus is PENDING when an admin has to approve payment.
func InitialStatus(t models.FacilityType, startHour int) models.ReservationStatus {
	if t == models.FacilityBicycles || startHour >= eveningStart {
		return models.StatusPending
	}
	return models.StatusConfirmed
}
