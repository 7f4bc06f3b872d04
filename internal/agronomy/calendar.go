package agronomy

import (
	"fmt"
	"math"
	"time"

	"cane-field-api/internal/domain"
)

const (
	// BasalFertilizationDueDAP is the DAP by which basal fertilization is due
	BasalFertilizationDueDAP = 30
	// MainFertilizationDueDAP is the DAP by which main fertilization is due
	MainFertilizationDueDAP = 60
	// HarvestGraceDays is the grace period past the predicted window before
	// a harvest counts as overdue
	HarvestGraceDays = 30
	// OnTimeBandDays is the ± band around the expected harvest date within
	// which an actual harvest still classifies as on time
	OnTimeBandDays = 7
)

// DaysAfterPlanting returns the whole days elapsed since planting, floored
// and clamped to zero. It is the primary time axis for all stage and
// task-window logic.
func DaysAfterPlanting(plantingDate, asOf time.Time) int {
	days := int(math.Floor(asOf.Sub(plantingDate).Hours() / 24))
	if days < 0 {
		return 0
	}
	return days
}

// ClassifyStage maps a DAP onto the variety's stage bands. Varieties without
// bands of their own use DefaultStageBands. Callers must handle the
// never-planted case themselves (there is no DAP without a planting date).
func ClassifyStage(dap int, profile VarietyProfile) domain.GrowthStage {
	bands := profile.Stages
	if bands.IsZero() {
		bands = DefaultStageBands
	}
	switch {
	case dap < bands.Germination.End:
		return domain.StageGermination
	case dap < bands.Tillering.End:
		return domain.StageTillering
	case dap < bands.GrandGrowth.End:
		return domain.StageGrandGrowth
	case dap < bands.Maturity.End:
		return domain.StageMaturity
	default:
		return domain.StageHarvestReady
	}
}

// HarvestWindow is the predicted [Earliest, Latest] harvest date range
type HarvestWindow struct {
	Earliest time.Time `json:"earliest"`
	Latest   time.Time `json:"latest"`
}

// PredictHarvestWindow computes the harvest window from an anchor date and a
// variety month range. The anchor is the planting date for an initial cycle
// and the previous harvest date for a ratoon cycle (regrowth starts from the
// root stock on harvest day). Month arithmetic is calendar-based: adding 12
// months to 01/01 lands on 01/01 next year, and a day that does not exist in
// the target month clamps to that month's last day instead of rolling over.
func PredictHarvestWindow(anchor time.Time, months MonthRange) HarvestWindow {
	return HarvestWindow{
		Earliest: addMonthsClamped(anchor, months.Min),
		Latest:   addMonthsClamped(anchor, months.Max),
	}
}

// Format renders the window as "DD/MM/YYYY – DD/MM/YYYY", collapsing to a
// single date when earliest and latest coincide.
func (w HarvestWindow) Format() string {
	const layout = "02/01/2006"
	if w.Earliest.Equal(w.Latest) {
		return w.Earliest.Format(layout)
	}
	return fmt.Sprintf("%s – %s", w.Earliest.Format(layout), w.Latest.Format(layout))
}

// DaysRemaining returns the whole days until the expected harvest date,
// rounded up; negative when the date has already passed.
func DaysRemaining(expected, asOf time.Time) int {
	return int(math.Ceil(expected.Sub(asOf).Hours() / 24))
}

// HarvestDayEstimate is the legacy single-day view of a month range: the
// midpoint of the range converted at 30.5 days per month. The month-based
// window is authoritative; this exists only for code paths that still expect
// one day count.
func HarvestDayEstimate(months MonthRange) int {
	avg := float64(months.Min+months.Max) / 2
	return int(math.Round(avg * 30.5))
}

// addMonthsClamped adds whole calendar months, clamping the day of month to
// the target month's length (31 Jan + 1 month = 28/29 Feb, not 2/3 Mar).
func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	m := int(month) + months
	year += (m - 1) / 12
	m = (m-1)%12 + 1
	if last := daysInMonth(year, time.Month(m)); day > last {
		day = last
	}
	return time.Date(year, time.Month(m), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
