package agronomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cane-field-api/internal/domain"
)

func TestBuildRecommendations_MidTillering(t *testing.T) {
	catalog := NewCatalog(nil)
	profile, ok := catalog.Resolve("PS 1")
	require.True(t, ok)

	completed := map[domain.TaskType]bool{
		domain.TaskTypeLandPrep: true,
		domain.TaskTypePlanting: true,
	}

	recs := BuildRecommendations(50, profile, false, completed)
	require.Len(t, recs, 3)

	// The in-window mandatory activity is the single next step
	assert.Equal(t, domain.TaskTypeMainFertilizer, recs[0].Type)
	assert.Equal(t, GroupNext, recs[0].Group)
	assert.Equal(t, UrgencyCritical, recs[0].Urgency)

	// Missed basal fertilization surfaces as skipped, then the optional extra
	assert.Equal(t, domain.TaskTypeBasalFertilizer, recs[1].Type)
	assert.Equal(t, GroupSkipped, recs[1].Group)
	assert.Equal(t, UrgencyHigh, recs[1].Urgency)

	assert.Equal(t, domain.TaskTypeWeeding, recs[2].Type)
	assert.Equal(t, GroupOptional, recs[2].Group)
	assert.Equal(t, UrgencyMedium, recs[2].Urgency)
}

func TestBuildRecommendations_UpcomingActivitiesStayHidden(t *testing.T) {
	profile := DefaultProfile

	completed := map[domain.TaskType]bool{
		domain.TaskTypeLandPrep: true,
		domain.TaskTypePlanting: true,
	}

	// At DAP 50 nothing past main fertilization is relevant yet
	recs := BuildRecommendations(50, profile, false, completed)
	for _, rec := range recs {
		assert.NotContains(t, []domain.TaskType{
			domain.TaskTypePestControl,
			domain.TaskTypeIrrigationCheck,
			domain.TaskTypeGrowthMonitoring,
			domain.TaskTypePreHarvestCheck,
			domain.TaskTypeHarvest,
		}, rec.Type)
	}
}

func TestBuildRecommendations_ConcurrentWindowIsOptionalNotNext(t *testing.T) {
	profile := DefaultProfile

	completed := map[domain.TaskType]bool{
		domain.TaskTypeLandPrep:        true,
		domain.TaskTypePlanting:        true,
		domain.TaskTypeBasalFertilizer: true,
	}

	// At DAP 60 main fertilization and pest control windows overlap; only
	// the earlier sequence entry is next, the other opens as optional
	recs := BuildRecommendations(60, profile, false, completed)
	require.Len(t, recs, 3)

	assert.Equal(t, domain.TaskTypeMainFertilizer, recs[0].Type)
	assert.Equal(t, GroupNext, recs[0].Group)
	assert.Equal(t, UrgencyCritical, recs[0].Urgency)

	assert.Equal(t, domain.TaskTypeWeeding, recs[1].Type)
	assert.Equal(t, GroupOptional, recs[1].Group)

	assert.Equal(t, domain.TaskTypePestControl, recs[2].Type)
	assert.Equal(t, GroupOptional, recs[2].Group)
	assert.Equal(t, UrgencyMedium, recs[2].Urgency)
}

func TestBuildRecommendations_NextUrgencyLadder(t *testing.T) {
	profile := DefaultProfile

	completed := map[domain.TaskType]bool{
		domain.TaskTypeLandPrep: true,
		domain.TaskTypePlanting: true,
	}

	next := func(t *testing.T, dap int) Recommendation {
		recs := BuildRecommendations(dap, profile, false, completed)
		require.NotEmpty(t, recs)
		require.Equal(t, GroupNext, recs[0].Group)
		return recs[0]
	}

	// Basal fertilization (window 20-30, critical from 25) walks the ladder
	ahead := next(t, 10)
	assert.Equal(t, domain.TaskTypeBasalFertilizer, ahead.Type)
	assert.Equal(t, UrgencyMedium, ahead.Urgency)

	open := next(t, 22)
	assert.Equal(t, domain.TaskTypeBasalFertilizer, open.Type)
	assert.Equal(t, UrgencyHigh, open.Urgency)

	closing := next(t, 28)
	assert.Equal(t, domain.TaskTypeBasalFertilizer, closing.Type)
	assert.Equal(t, UrgencyCritical, closing.Urgency)
}

func TestBuildRecommendations_CompletedActivitiesDropOut(t *testing.T) {
	profile := DefaultProfile

	completed := map[domain.TaskType]bool{
		domain.TaskTypeLandPrep:        true,
		domain.TaskTypePlanting:        true,
		domain.TaskTypeBasalFertilizer: true,
		domain.TaskTypeMainFertilizer:  true,
	}

	recs := BuildRecommendations(70, profile, false, completed)
	require.NotEmpty(t, recs)

	// Pest control takes over as next once all fertilization is done
	assert.Equal(t, domain.TaskTypePestControl, recs[0].Type)
	assert.Equal(t, GroupNext, recs[0].Group)
	assert.Equal(t, UrgencyHigh, recs[0].Urgency)

	for _, rec := range recs {
		assert.NotContains(t, []domain.TaskType{
			domain.TaskTypeBasalFertilizer,
			domain.TaskTypeMainFertilizer,
		}, rec.Type)
		assert.NotEqual(t, GroupSkipped, rec.Group)
	}
}

func TestBuildRecommendations_OptionalOnlyInsideWindow(t *testing.T) {
	profile := DefaultProfile

	hasWeeding := func(recs []Recommendation) bool {
		for _, rec := range recs {
			if rec.Type == domain.TaskTypeWeeding {
				return true
			}
		}
		return false
	}

	assert.False(t, hasWeeding(BuildRecommendations(25, profile, false, nil)))
	assert.True(t, hasWeeding(BuildRecommendations(30, profile, false, nil)))
	assert.True(t, hasWeeding(BuildRecommendations(100, profile, false, nil)))
	// A closed optional window never shows up as skipped
	assert.False(t, hasWeeding(BuildRecommendations(101, profile, false, nil)))
}

func TestStandardCalendar_RatoonOmitsEstablishment(t *testing.T) {
	catalog := NewCatalog(nil)
	profile, ok := catalog.Resolve("PS 1")
	require.True(t, ok)

	for _, tmpl := range StandardCalendar(profile, true) {
		assert.NotEqual(t, domain.TaskTypeLandPrep, tmpl.Type)
		assert.NotEqual(t, domain.TaskTypePlanting, tmpl.Type)
	}
}

func TestStandardCalendar_HarvestWindowTracksVariety(t *testing.T) {
	catalog := NewCatalog(nil)
	profile, ok := catalog.Resolve("PS 1")
	require.True(t, ok)

	var initial, ratoon TaskTemplate
	for _, tmpl := range StandardCalendar(profile, false) {
		if tmpl.Type == domain.TaskTypeHarvest {
			initial = tmpl
		}
	}
	for _, tmpl := range StandardCalendar(profile, true) {
		if tmpl.Type == domain.TaskTypeHarvest {
			ratoon = tmpl
		}
	}

	// PS 1 matures at 11-12 months initially, 10-11 on ratoon
	assert.Equal(t, HarvestDayEstimate(MonthRange{Min: 11, Max: 12})-15, initial.WindowStart)
	assert.Equal(t, HarvestDayEstimate(MonthRange{Min: 10, Max: 11})-15, ratoon.WindowStart)
	assert.Less(t, ratoon.WindowStart, initial.WindowStart)
	// The harvest window turns critical at the estimated harvest day itself
	assert.Equal(t, HarvestDayEstimate(MonthRange{Min: 11, Max: 12}), initial.CriticalStart)
}
