package agronomy

import (
	"sort"

	"cane-field-api/internal/domain"
)

// RecommendationGroup orders recommendations by how actionable they are:
// what to do next, what was skipped and should be caught up on, and
// optional extras for the current growth phase.
type RecommendationGroup string

const (
	GroupNext     RecommendationGroup = "next"
	GroupSkipped  RecommendationGroup = "skipped"
	GroupOptional RecommendationGroup = "optional"
)

// Urgency grades how soon a recommended activity needs attention
type Urgency string

const (
	UrgencyCritical Urgency = "critical"
	UrgencyHigh     Urgency = "high"
	UrgencyMedium   Urgency = "medium"
)

// Recommendation is one recommended activity at a given DAP
type Recommendation struct {
	TaskTemplate
	Group   RecommendationGroup
	Urgency Urgency
}

// BuildRecommendations evaluates the standard calendar at a DAP and returns
// the activities still worth doing, grouped and ordered. Pure: completion
// state comes in as a set, nothing is read or written.
//
// Grouping: the first uncompleted activity whose window has not closed is
// "next"; further uncompleted activities surface as "optional" only while
// their window contains the DAP, and stay hidden until then. An uncompleted
// activity whose window already closed lands in "skipped". Optional
// calendar entries never become "next" and never show up as skipped.
// Urgency applies to the "next" activity: critical past its critical DAP,
// high once inside the window, medium while the window is still ahead.
func BuildRecommendations(dap int, profile VarietyProfile, isRatoon bool, completed map[domain.TaskType]bool) []Recommendation {
	var recs []Recommendation
	nextTaken := false
	for _, tmpl := range StandardCalendar(profile, isRatoon) {
		if completed[tmpl.Type] {
			continue
		}

		inWindow := dap >= tmpl.WindowStart && dap <= tmpl.WindowEnd

		if tmpl.Optional {
			if inWindow {
				recs = append(recs, Recommendation{TaskTemplate: tmpl, Group: GroupOptional, Urgency: UrgencyMedium})
			}
			continue
		}

		if dap > tmpl.WindowEnd {
			recs = append(recs, Recommendation{TaskTemplate: tmpl, Group: GroupSkipped, Urgency: UrgencyHigh})
			continue
		}

		if !nextTaken {
			nextTaken = true
			urgency := UrgencyMedium
			switch {
			case dap >= tmpl.CriticalStart:
				urgency = UrgencyCritical
			case inWindow:
				urgency = UrgencyHigh
			}
			recs = append(recs, Recommendation{TaskTemplate: tmpl, Group: GroupNext, Urgency: urgency})
			continue
		}

		// Beyond the next step, only concurrently open windows are worth showing
		if inWindow {
			recs = append(recs, Recommendation{TaskTemplate: tmpl, Group: GroupOptional, Urgency: UrgencyMedium})
		}
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return groupRank(recs[i].Group) < groupRank(recs[j].Group)
	})

	return recs
}

func groupRank(g RecommendationGroup) int {
	switch g {
	case GroupNext:
		return 0
	case GroupSkipped:
		return 1
	default:
		return 2
	}
}
