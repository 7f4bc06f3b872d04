package agronomy

import (
	"time"

	"cane-field-api/internal/domain"
)

// DelayKind tags which fertilization application is behind schedule
type DelayKind string

const (
	DelayBasal DelayKind = "basal"
	DelayMain  DelayKind = "main"
	DelayBoth  DelayKind = "both"
)

// FertilizationDelay is the result of a fertilization timeliness check
type FertilizationDelay struct {
	Delayed bool      `json:"delayed"`
	Days    int       `json:"days"`
	Kind    DelayKind `json:"kind,omitempty"`
}

// CheckFertilizationDelay evaluates fertilization timeliness at a given DAP.
// Basal fertilization is due by DAP 30, main fertilization by DAP 60. When
// both applications are behind, the reported day count is the larger of the
// two overruns. Pure; the caller persists the result.
func CheckFertilizationDelay(dap int, basalDone, mainDone bool) FertilizationDelay {
	basalDelay := 0
	if !basalDone && dap > BasalFertilizationDueDAP {
		basalDelay = dap - BasalFertilizationDueDAP
	}
	mainDelay := 0
	if !mainDone && dap > MainFertilizationDueDAP {
		mainDelay = dap - MainFertilizationDueDAP
	}

	switch {
	case basalDelay > 0 && mainDelay > 0:
		return FertilizationDelay{Delayed: true, Days: max(basalDelay, mainDelay), Kind: DelayBoth}
	case basalDelay > 0:
		return FertilizationDelay{Delayed: true, Days: basalDelay, Kind: DelayBasal}
	case mainDelay > 0:
		return FertilizationDelay{Delayed: true, Days: mainDelay, Kind: DelayMain}
	default:
		return FertilizationDelay{}
	}
}

// HarvestOverdue is the result of a harvest timeliness check
type HarvestOverdue struct {
	Overdue  bool `json:"overdue"`
	DaysPast int  `json:"daysPast"`
}

// CheckHarvestOverdue compares the current date against the expected harvest
// date plus the grace period. DaysPast counts days beyond the grace boundary.
func CheckHarvestOverdue(expectedHarvest, asOf time.Time) HarvestOverdue {
	deadline := expectedHarvest.AddDate(0, 0, HarvestGraceDays)
	if !asOf.After(deadline) {
		return HarvestOverdue{}
	}
	return HarvestOverdue{
		Overdue:  true,
		DaysPast: int(asOf.Sub(deadline).Hours() / 24),
	}
}

// ClassifyHarvestTiming compares an actual harvest date to the expected date
// with a ±OnTimeBandDays band. The returned days value is the signed offset
// from the expected date (negative = early).
func ClassifyHarvestTiming(actual, expected time.Time) (domain.HarvestTiming, int) {
	days := int(actual.Sub(expected).Hours() / 24)
	switch {
	case days < -OnTimeBandDays:
		return domain.HarvestTimingEarly, days
	case days > OnTimeBandDays:
		return domain.HarvestTimingLate, days
	default:
		return domain.HarvestTimingOnTime, days
	}
}
