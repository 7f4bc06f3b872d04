package agronomy

import (
	"cane-field-api/internal/domain"
)

// TaskTemplate is one entry of the standard crop-cycle calendar: an activity
// with its DAP window, the stage it belongs to and a default priority.
// CriticalStart marks the DAP within the window where the activity becomes
// urgent; past it the recommendation engine grades the activity critical.
// Optional templates are suggestions, not calendar entries; they surface only
// through the recommendation engine.
type TaskTemplate struct {
	Type          domain.TaskType
	Title         string
	Description   string
	Stage         domain.GrowthStage
	Priority      domain.TaskPriority
	WindowStart   int
	WindowEnd     int
	CriticalStart int
	Optional      bool
}

// StandardCalendar builds the activity calendar for one crop cycle of the
// given variety. Ratoon cycles regrow from the root stock, so land
// preparation and planting are omitted. Harvest-adjacent windows are placed
// relative to the variety's day estimate rather than fixed DAPs, since
// harvest maturity varies by several months across varieties.
func StandardCalendar(profile VarietyProfile, isRatoon bool) []TaskTemplate {
	months := profile.InitialHarvest
	if isRatoon {
		months = profile.RatoonHarvest
	}
	harvestDay := HarvestDayEstimate(months)

	var templates []TaskTemplate
	if !isRatoon {
		templates = append(templates,
			TaskTemplate{
				Type:          domain.TaskTypeLandPrep,
				Title:         "Land Preparation",
				Description:   "Plow, harrow and furrow the field before planting.",
				Stage:         domain.StageGermination,
				Priority:      domain.PriorityHigh,
				WindowStart:   0,
				WindowEnd:     7,
				CriticalStart: 5,
			},
			TaskTemplate{
				Type:          domain.TaskTypePlanting,
				Title:         "Planting",
				Description:   "Plant the seed cane setts.",
				Stage:         domain.StageGermination,
				Priority:      domain.PriorityHigh,
				WindowStart:   0,
				WindowEnd:     7,
				CriticalStart: 5,
			},
		)
	}

	templates = append(templates,
		TaskTemplate{
			Type:          domain.TaskTypeBasalFertilizer,
			Title:         "Basal Fertilization",
			Description:   "Apply the basal fertilizer dose.",
			Stage:         domain.StageGermination,
			Priority:      domain.PriorityHigh,
			WindowStart:   20,
			WindowEnd:     BasalFertilizationDueDAP,
			CriticalStart: 25,
		},
		TaskTemplate{
			Type:          domain.TaskTypeWeeding,
			Title:         "Weeding",
			Description:   "Remove weeds between the cane rows.",
			Stage:         domain.StageTillering,
			Priority:      domain.PriorityMedium,
			WindowStart:   30,
			WindowEnd:     100,
			CriticalStart: 90,
			Optional:      true,
		},
		TaskTemplate{
			Type:          domain.TaskTypeMainFertilizer,
			Title:         "Main Fertilization",
			Description:   "Apply the main fertilizer dose before grand growth.",
			Stage:         domain.StageTillering,
			Priority:      domain.PriorityHigh,
			WindowStart:   45,
			WindowEnd:     MainFertilizationDueDAP,
			CriticalStart: 50,
		},
		TaskTemplate{
			Type:          domain.TaskTypePestControl,
			Title:         "Pest and Disease Control",
			Description:   "Scout for borers and smut, treat as needed.",
			Stage:         domain.StageGrandGrowth,
			Priority:      domain.PriorityMedium,
			WindowStart:   60,
			WindowEnd:     180,
			CriticalStart: 150,
		},
		TaskTemplate{
			Type:          domain.TaskTypeIrrigationCheck,
			Title:         "Irrigation Check",
			Description:   "Verify water supply through the grand growth phase.",
			Stage:         domain.StageGrandGrowth,
			Priority:      domain.PriorityMedium,
			WindowStart:   100,
			WindowEnd:     240,
			CriticalStart: 210,
		},
		TaskTemplate{
			Type:          domain.TaskTypeGrowthMonitoring,
			Title:         "Growth Monitoring",
			Description:   "Measure stalk height and internode development.",
			Stage:         domain.StageGrandGrowth,
			Priority:      domain.PriorityMedium,
			WindowStart:   120,
			WindowEnd:     270,
			CriticalStart: 240,
		},
		TaskTemplate{
			Type:          domain.TaskTypePreHarvestCheck,
			Title:         "Pre-Harvest Check",
			Description:   "Check brix readings and confirm harvest readiness.",
			Stage:         domain.StageMaturity,
			Priority:      domain.PriorityHigh,
			WindowStart:   harvestDay - 30,
			WindowEnd:     harvestDay - 7,
			CriticalStart: harvestDay - 14,
		},
		TaskTemplate{
			Type:          domain.TaskTypeHarvest,
			Title:         "Harvest",
			Description:   "Cut, haul and weigh the cane.",
			Stage:         domain.StageHarvestReady,
			Priority:      domain.PriorityCritical,
			WindowStart:   harvestDay - 15,
			WindowEnd:     harvestDay + 15,
			CriticalStart: harvestDay,
		},
	)

	return templates
}
