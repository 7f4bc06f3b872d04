package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cane-field-api/internal/client"
	"cane-field-api/internal/domain"
	"cane-field-api/internal/dto"
	"cane-field-api/internal/metrics"
	"cane-field-api/internal/response"
)

func newTaskServiceForTest(taskRepo *MockTaskRepository, fieldRepo *MockFieldRepository, growth *MockGrowthService, cycle *MockCycleService, notifier *MockNotificationClient) TaskService {
	if growth == nil {
		growth = &MockGrowthService{}
	}
	if cycle == nil {
		cycle = &MockCycleService{}
	}
	if notifier == nil {
		notifier = &MockNotificationClient{}
	}
	m := metrics.NewWithRegistry(prometheus.NewRegistry(), zap.NewNop())
	return NewTaskService(taskRepo, fieldRepo, &MockAssignmentRepository{}, growth, cycle, notifier, m, zap.NewNop())
}

func TestResolveTaskEffect(t *testing.T) {
	tests := []struct {
		name string
		task domain.Task
		want domain.TaskType
	}{
		{"typed basal task", domain.Task{Type: domain.TaskTypeBasalFertilizer, Title: "whatever"}, domain.TaskTypeBasalFertilizer},
		{"typed harvest task", domain.Task{Type: domain.TaskTypeHarvest, Title: "Cut the cane"}, domain.TaskTypeHarvest},
		{"type tag wins over title", domain.Task{Type: domain.TaskTypeWeeding, Title: "Harvest prep"}, domain.TaskTypeWeeding},
		{"legacy basal by title", domain.Task{Type: domain.TaskTypeGeneral, Title: "Apply Basal fertilizer"}, domain.TaskTypeBasalFertilizer},
		{"legacy main by title", domain.Task{Type: domain.TaskTypeGeneral, Title: "Main fertilization round"}, domain.TaskTypeMainFertilizer},
		{"legacy underscored title", domain.Task{Type: domain.TaskTypeGeneral, Title: "Main_Fertilization"}, domain.TaskTypeMainFertilizer},
		{"legacy underscored basal", domain.Task{Type: "", Title: "BASAL_FERTILIZER_APPLICATION"}, domain.TaskTypeBasalFertilizer},
		{"legacy planting by title", domain.Task{Type: "", Title: "Planting - east block"}, domain.TaskTypePlanting},
		{"legacy harvest by title", domain.Task{Type: domain.TaskTypeGeneral, Title: "HARVEST day"}, domain.TaskTypeHarvest},
		{"basal beats harvest in a mixed title", domain.Task{Type: domain.TaskTypeGeneral, Title: "Basal dose before harvest"}, domain.TaskTypeBasalFertilizer},
		{"plain title stays general", domain.Task{Type: domain.TaskTypeGeneral, Title: "Fix the fence"}, domain.TaskTypeGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := tt.task
			assert.Equal(t, tt.want, resolveTaskEffect(&task))
		})
	}
}

func TestCreateTask_Defaults(t *testing.T) {
	fieldID := uuid.New()
	ownerID := uuid.New()

	field := testField(fieldID, ownerID)
	field.Status = domain.FieldStatusActive
	field.PlantingCycle = 2
	field.RatoonNumber = 1

	var created *domain.Task
	mockTaskRepo := &MockTaskRepository{
		CreateFunc: func(ctx context.Context, task *domain.Task) error {
			task.ID = uuid.New()
			created = task
			return nil
		},
	}
	mockFieldRepo := &MockFieldRepository{
		FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Field, error) {
			return field, nil
		},
	}

	svc := newTaskServiceForTest(mockTaskRepo, mockFieldRepo, nil, nil, nil)

	resp, err := svc.CreateTask(context.Background(), &dto.CreateTaskRequest{
		FieldID: fieldID,
		Title:   "Check the drainage",
	}, ownerID)
	require.NoError(t, err)

	require.NotNil(t, created)
	assert.Equal(t, domain.TaskTypeGeneral, created.Type)
	assert.Equal(t, domain.PriorityMedium, created.Priority)
	assert.Equal(t, domain.TaskStatusPending, created.Status)
	// Tasks are stamped with the cycle they belong to
	assert.Equal(t, "PS 1", created.Variety)
	assert.Equal(t, 2, created.PlantingCycle)
	assert.Equal(t, 1, created.RatoonNumber)

	// Without explicit assignees the owner is assigned
	var assignees []uuid.UUID
	require.NoError(t, json.Unmarshal(created.AssigneeIDs, &assignees))
	assert.Equal(t, []uuid.UUID{ownerID}, assignees)

	assert.Equal(t, []uuid.UUID{ownerID}, resp.AssigneeIDs)
}

func TestCreateTask_NotifiesAssigneesExceptCreator(t *testing.T) {
	fieldID := uuid.New()
	ownerID := uuid.New()
	worker := uuid.New()

	mockTaskRepo := &MockTaskRepository{}
	mockFieldRepo := &MockFieldRepository{
		FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Field, error) {
			return testField(fieldID, ownerID), nil
		},
	}
	var sent []client.NotificationEvent
	mockNotifier := &MockNotificationClient{
		NotifyBulkFunc: func(ctx context.Context, events []client.NotificationEvent) error {
			sent = events
			return nil
		},
	}

	svc := newTaskServiceForTest(mockTaskRepo, mockFieldRepo, nil, nil, mockNotifier)

	_, err := svc.CreateTask(context.Background(), &dto.CreateTaskRequest{
		FieldID:     fieldID,
		Title:       "Weeding round",
		AssigneeIDs: []uuid.UUID{ownerID, worker},
	}, ownerID)
	require.NoError(t, err)

	require.Len(t, sent, 1)
	assert.Equal(t, client.NotificationTaskAssigned, sent[0].Type)
	assert.Equal(t, worker, sent[0].TargetUserID)
}

func TestCompleteTask_DispatchesFertilizationEffect(t *testing.T) {
	fieldID := uuid.New()
	ownerID := uuid.New()
	taskID := uuid.New()

	field := testField(fieldID, ownerID)
	field.Status = domain.FieldStatusActive

	task := &domain.Task{
		BaseModel: domain.BaseModel{ID: taskID},
		FieldID:   fieldID,
		CreatorID: ownerID,
		Type:      domain.TaskTypeBasalFertilizer,
		Title:     "Basal Fertilization",
		Status:    domain.TaskStatusPending,
	}

	var updated *domain.Task
	mockTaskRepo := &MockTaskRepository{
		FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
			return task, nil
		},
		UpdateFunc: func(ctx context.Context, t *domain.Task) error {
			updated = t
			return nil
		},
	}
	mockFieldRepo := &MockFieldRepository{
		FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Field, error) {
			return field, nil
		},
	}

	var recordedAt time.Time
	var recordedAs uuid.UUID
	mockGrowth := &MockGrowthService{
		RecordBasalFertilizationFunc: func(ctx context.Context, fID, uID uuid.UUID, appliedAt time.Time) (*dto.FieldResponse, error) {
			recordedAs = uID
			recordedAt = appliedAt
			return nil, nil
		},
	}

	svc := newTaskServiceForTest(mockTaskRepo, mockFieldRepo, mockGrowth, nil, nil)

	completedAt := time.Date(2024, time.February, 10, 8, 0, 0, 0, time.UTC)
	resp, err := svc.CompleteTask(context.Background(), taskID, ownerID, &dto.CompleteTaskRequest{CompletedAt: &completedAt})
	require.NoError(t, err)

	require.NotNil(t, updated)
	assert.Equal(t, domain.TaskStatusCompleted, updated.Status)
	require.NotNil(t, updated.CompletedAt)
	assert.Equal(t, completedAt, *updated.CompletedAt)

	// The growth update runs on behalf of the field owner with the completion date
	assert.Equal(t, ownerID, recordedAs)
	assert.Equal(t, completedAt, recordedAt)

	assert.Equal(t, domain.TaskStatusCompleted, resp.Status)
}

func TestCompleteTask_HarvestEffect(t *testing.T) {
	fieldID := uuid.New()
	ownerID := uuid.New()
	taskID := uuid.New()

	field := testField(fieldID, ownerID)
	field.Status = domain.FieldStatusActive

	task := &domain.Task{
		BaseModel: domain.BaseModel{ID: taskID},
		FieldID:   fieldID,
		CreatorID: ownerID,
		Type:      domain.TaskTypeGeneral,
		Title:     "Harvest the east block",
		Status:    domain.TaskStatusInProgress,
	}

	mockTaskRepo := &MockTaskRepository{
		FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
			return task, nil
		},
	}
	mockFieldRepo := &MockFieldRepository{
		FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Field, error) {
			return field, nil
		},
	}

	var harvestReq *dto.HarvestRequest
	var harvestAs uuid.UUID
	mockCycle := &MockCycleService{
		RecordHarvestFunc: func(ctx context.Context, fID, uID uuid.UUID, req *dto.HarvestRequest) (*dto.FieldResponse, error) {
			harvestAs = uID
			harvestReq = req
			return nil, nil
		},
	}

	svc := newTaskServiceForTest(mockTaskRepo, mockFieldRepo, nil, mockCycle, nil)

	completedAt := time.Date(2024, time.December, 5, 0, 0, 0, 0, time.UTC)
	_, err := svc.CompleteTask(context.Background(), taskID, ownerID, &dto.CompleteTaskRequest{CompletedAt: &completedAt})
	require.NoError(t, err)

	require.NotNil(t, harvestReq)
	assert.Equal(t, ownerID, harvestAs)
	assert.Equal(t, completedAt, harvestReq.HarvestDate)
}

func TestCompleteTask_GrowthFailureDoesNotRollBack(t *testing.T) {
	fieldID := uuid.New()
	ownerID := uuid.New()
	taskID := uuid.New()

	field := testField(fieldID, ownerID)
	field.Status = domain.FieldStatusHarvested

	task := &domain.Task{
		BaseModel: domain.BaseModel{ID: taskID},
		FieldID:   fieldID,
		CreatorID: ownerID,
		Type:      domain.TaskTypeMainFertilizer,
		Title:     "Main Fertilization",
		Status:    domain.TaskStatusPending,
	}

	mockTaskRepo := &MockTaskRepository{
		FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
			return task, nil
		},
	}
	mockFieldRepo := &MockFieldRepository{
		FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Field, error) {
			return field, nil
		},
	}
	mockGrowth := &MockGrowthService{
		RecordMainFertilizationFunc: func(ctx context.Context, fID, uID uuid.UUID, appliedAt time.Time) (*dto.FieldResponse, error) {
			return nil, response.NewAppError(response.ErrCodeInvalidState, "Cannot record fertilization: field is HARVESTED, expected ACTIVE", "")
		},
	}

	svc := newTaskServiceForTest(mockTaskRepo, mockFieldRepo, mockGrowth, nil, nil)

	resp, err := svc.CompleteTask(context.Background(), taskID, ownerID, nil)
	require.NoError(t, err, "task completion is authoritative even when the growth update fails")
	assert.Equal(t, domain.TaskStatusCompleted, resp.Status)
}

func TestCompleteTask_PlantingWithoutVarietySkipsGrowthUpdate(t *testing.T) {
	fieldID := uuid.New()
	ownerID := uuid.New()
	taskID := uuid.New()

	field := testField(fieldID, ownerID)
	field.Variety = ""

	task := &domain.Task{
		BaseModel: domain.BaseModel{ID: taskID},
		FieldID:   fieldID,
		CreatorID: ownerID,
		Type:      domain.TaskTypePlanting,
		Title:     "Planting",
		Status:    domain.TaskStatusPending,
	}

	mockTaskRepo := &MockTaskRepository{
		FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
			return task, nil
		},
	}
	mockFieldRepo := &MockFieldRepository{
		FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Field, error) {
			return field, nil
		},
	}

	plantingCalled := false
	mockGrowth := &MockGrowthService{
		RecordPlantingFunc: func(ctx context.Context, fID, uID uuid.UUID, req *dto.RecordPlantingRequest) (*dto.FieldResponse, error) {
			plantingCalled = true
			return nil, nil
		},
	}

	svc := newTaskServiceForTest(mockTaskRepo, mockFieldRepo, mockGrowth, nil, nil)

	_, err := svc.CompleteTask(context.Background(), taskID, ownerID, nil)
	require.NoError(t, err)
	assert.False(t, plantingCalled)
}

func TestCompleteTask_AlreadyCompleted(t *testing.T) {
	fieldID := uuid.New()
	ownerID := uuid.New()
	taskID := uuid.New()

	now := time.Now().UTC()
	task := &domain.Task{
		BaseModel:   domain.BaseModel{ID: taskID},
		FieldID:     fieldID,
		CreatorID:   ownerID,
		Type:        domain.TaskTypeGeneral,
		Title:       "Weeding",
		Status:      domain.TaskStatusCompleted,
		CompletedAt: &now,
	}

	mockTaskRepo := &MockTaskRepository{
		FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
			return task, nil
		},
	}
	mockFieldRepo := &MockFieldRepository{
		FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Field, error) {
			return testField(fieldID, ownerID), nil
		},
	}

	svc := newTaskServiceForTest(mockTaskRepo, mockFieldRepo, nil, nil, nil)

	_, err := svc.CompleteTask(context.Background(), taskID, ownerID, nil)
	assertAppError(t, err, response.ErrCodeInvalidState)
}

func TestCancelTask_CreatorOrOwnerOnly(t *testing.T) {
	fieldID := uuid.New()
	ownerID := uuid.New()
	creatorID := uuid.New()
	taskID := uuid.New()

	task := &domain.Task{
		BaseModel: domain.BaseModel{ID: taskID},
		FieldID:   fieldID,
		CreatorID: creatorID,
		Type:      domain.TaskTypeGeneral,
		Title:     "Weeding",
		Status:    domain.TaskStatusPending,
	}

	mockTaskRepo := &MockTaskRepository{
		FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
			return task, nil
		},
		UpdateFunc: func(ctx context.Context, t *domain.Task) error {
			return nil
		},
	}
	mockFieldRepo := &MockFieldRepository{
		FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Field, error) {
			return testField(fieldID, ownerID), nil
		},
	}
	assignedWorker := uuid.New()
	mockAssignRepo := &MockAssignmentRepository{
		ExistsByFieldAndUserFunc: func(ctx context.Context, fID, uID uuid.UUID) (bool, error) {
			return uID == assignedWorker || uID == creatorID, nil
		},
	}

	m := metrics.NewWithRegistry(prometheus.NewRegistry(), zap.NewNop())
	svc := NewTaskService(mockTaskRepo, mockFieldRepo, mockAssignRepo, &MockGrowthService{}, &MockCycleService{}, &MockNotificationClient{}, m, zap.NewNop())

	// An assigned worker who is neither creator nor owner cannot cancel
	_, err := svc.CancelTask(context.Background(), taskID, assignedWorker)
	assertAppError(t, err, response.ErrCodeForbidden)

	resp, err := svc.CancelTask(context.Background(), taskID, creatorID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusCancelled, resp.Status)
}
