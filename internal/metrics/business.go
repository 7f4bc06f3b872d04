package metrics

// IncrementTasksGenerated adds n generated tasks to the counter
func (m *Metrics) IncrementTasksGenerated(n int) {
	m.safeExecute("IncrementTasksGenerated", func() {
		m.TasksGeneratedTotal.Add(float64(n))
	})
}

// IncrementTaskCompleted increments the task completion counter
func (m *Metrics) IncrementTaskCompleted() {
	m.safeExecute("IncrementTaskCompleted", func() {
		m.TasksCompletedTotal.Inc()
	})
}

// IncrementCycleTransition increments the cycle transition counter for a kind
// (harvest, ratoon, replant)
func (m *Metrics) IncrementCycleTransition(kind string) {
	m.safeExecute("IncrementCycleTransition", func() {
		m.CycleTransitionsTotal.WithLabelValues(kind).Inc()
	})
}

// IncrementRecommendationRequest increments the recommendation query counter
func (m *Metrics) IncrementRecommendationRequest() {
	m.safeExecute("IncrementRecommendationRequest", func() {
		m.RecommendationRequests.Inc()
	})
}

// SetFieldsTotal sets the registered fields gauge
func (m *Metrics) SetFieldsTotal(count int64) {
	m.safeExecute("SetFieldsTotal", func() {
		m.FieldsTotal.Set(float64(count))
	})
}

// SetActiveFieldsTotal sets the active fields gauge
func (m *Metrics) SetActiveFieldsTotal(count int64) {
	m.safeExecute("SetActiveFieldsTotal", func() {
		m.ActiveFieldsTotal.Set(float64(count))
	})
}
