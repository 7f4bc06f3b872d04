package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"cane-field-api/internal/client"
	"cane-field-api/internal/domain"
	"cane-field-api/internal/dto"
)

// MockFieldRepository is a mock implementation of repository.FieldRepository
type MockFieldRepository struct {
	CreateFunc       func(ctx context.Context, field *domain.Field) error
	FindByIDFunc     func(ctx context.Context, id uuid.UUID) (*domain.Field, error)
	FindByOwnerFunc  func(ctx context.Context, ownerID uuid.UUID) ([]*domain.Field, error)
	FindByStatusFunc func(ctx context.Context, status domain.FieldStatus) ([]*domain.Field, error)
	UpdateGrowthFunc func(ctx context.Context, id uuid.UUID, attrs map[string]interface{}) error
	DeleteFunc       func(ctx context.Context, id uuid.UUID) error
}

func (m *MockFieldRepository) Create(ctx context.Context, field *domain.Field) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, field)
	}
	return nil
}

func (m *MockFieldRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Field, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockFieldRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Field, error) {
	if m.FindByOwnerFunc != nil {
		return m.FindByOwnerFunc(ctx, ownerID)
	}
	return nil, nil
}

func (m *MockFieldRepository) FindByStatus(ctx context.Context, status domain.FieldStatus) ([]*domain.Field, error) {
	if m.FindByStatusFunc != nil {
		return m.FindByStatusFunc(ctx, status)
	}
	return nil, nil
}

func (m *MockFieldRepository) UpdateGrowth(ctx context.Context, id uuid.UUID, attrs map[string]interface{}) error {
	if m.UpdateGrowthFunc != nil {
		return m.UpdateGrowthFunc(ctx, id, attrs)
	}
	return nil
}

func (m *MockFieldRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockTaskRepository is a mock implementation of repository.TaskRepository
type MockTaskRepository struct {
	CreateFunc         func(ctx context.Context, task *domain.Task) error
	CreateBatchFunc    func(ctx context.Context, tasks []*domain.Task) error
	FindByIDFunc       func(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	FindByFieldFunc    func(ctx context.Context, fieldID uuid.UUID) ([]*domain.Task, error)
	UpdateFunc         func(ctx context.Context, task *domain.Task) error
	CompletedTypesFunc func(ctx context.Context, fieldID uuid.UUID, plantingCycle, ratoonNumber int) ([]domain.TaskType, error)
	DeleteFunc         func(ctx context.Context, id uuid.UUID) error
}

func (m *MockTaskRepository) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, task)
	}
	return nil
}

func (m *MockTaskRepository) CreateBatch(ctx context.Context, tasks []*domain.Task) error {
	if m.CreateBatchFunc != nil {
		return m.CreateBatchFunc(ctx, tasks)
	}
	return nil
}

func (m *MockTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockTaskRepository) FindByField(ctx context.Context, fieldID uuid.UUID) ([]*domain.Task, error) {
	if m.FindByFieldFunc != nil {
		return m.FindByFieldFunc(ctx, fieldID)
	}
	return nil, nil
}

func (m *MockTaskRepository) Update(ctx context.Context, task *domain.Task) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, task)
	}
	return nil
}

func (m *MockTaskRepository) CompletedTypes(ctx context.Context, fieldID uuid.UUID, plantingCycle, ratoonNumber int) ([]domain.TaskType, error) {
	if m.CompletedTypesFunc != nil {
		return m.CompletedTypesFunc(ctx, fieldID, plantingCycle, ratoonNumber)
	}
	return nil, nil
}

func (m *MockTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockAssignmentRepository is a mock implementation of repository.AssignmentRepository
type MockAssignmentRepository struct {
	CreateFunc               func(ctx context.Context, assignment *domain.FieldAssignment) error
	FindByIDFunc             func(ctx context.Context, id uuid.UUID) (*domain.FieldAssignment, error)
	FindByFieldFunc          func(ctx context.Context, fieldID uuid.UUID) ([]*domain.FieldAssignment, error)
	FindApprovedWorkersFunc  func(ctx context.Context, fieldID uuid.UUID) ([]uuid.UUID, error)
	ExistsByFieldAndUserFunc func(ctx context.Context, fieldID, userID uuid.UUID) (bool, error)
	UpdateStatusFunc         func(ctx context.Context, id uuid.UUID, status domain.AssignmentStatus) error
}

func (m *MockAssignmentRepository) Create(ctx context.Context, assignment *domain.FieldAssignment) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, assignment)
	}
	return nil
}

func (m *MockAssignmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.FieldAssignment, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockAssignmentRepository) FindByField(ctx context.Context, fieldID uuid.UUID) ([]*domain.FieldAssignment, error) {
	if m.FindByFieldFunc != nil {
		return m.FindByFieldFunc(ctx, fieldID)
	}
	return nil, nil
}

func (m *MockAssignmentRepository) FindApprovedWorkers(ctx context.Context, fieldID uuid.UUID) ([]uuid.UUID, error) {
	if m.FindApprovedWorkersFunc != nil {
		return m.FindApprovedWorkersFunc(ctx, fieldID)
	}
	return nil, nil
}

func (m *MockAssignmentRepository) ExistsByFieldAndUser(ctx context.Context, fieldID, userID uuid.UUID) (bool, error) {
	if m.ExistsByFieldAndUserFunc != nil {
		return m.ExistsByFieldAndUserFunc(ctx, fieldID, userID)
	}
	return false, nil
}

func (m *MockAssignmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.AssignmentStatus) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, status)
	}
	return nil
}

// MockCycleArchiveRepository is a mock implementation of repository.CycleArchiveRepository
type MockCycleArchiveRepository struct {
	AppendFunc       func(ctx context.Context, archive *domain.CycleArchive) error
	ExistsFunc       func(ctx context.Context, fieldID uuid.UUID, plantingCycle, ratoonNumber int) (bool, error)
	ListByFieldFunc  func(ctx context.Context, fieldID uuid.UUID) ([]*domain.CycleArchive, error)
	CountByFieldFunc func(ctx context.Context, fieldID uuid.UUID) (int64, error)
}

func (m *MockCycleArchiveRepository) Append(ctx context.Context, archive *domain.CycleArchive) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, archive)
	}
	return nil
}

func (m *MockCycleArchiveRepository) Exists(ctx context.Context, fieldID uuid.UUID, plantingCycle, ratoonNumber int) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, fieldID, plantingCycle, ratoonNumber)
	}
	return false, nil
}

func (m *MockCycleArchiveRepository) ListByField(ctx context.Context, fieldID uuid.UUID) ([]*domain.CycleArchive, error) {
	if m.ListByFieldFunc != nil {
		return m.ListByFieldFunc(ctx, fieldID)
	}
	return nil, nil
}

func (m *MockCycleArchiveRepository) CountByField(ctx context.Context, fieldID uuid.UUID) (int64, error) {
	if m.CountByFieldFunc != nil {
		return m.CountByFieldFunc(ctx, fieldID)
	}
	return 0, nil
}

// MockWorkLogRepository is a mock implementation of repository.WorkLogRepository
type MockWorkLogRepository struct {
	CreateFunc      func(ctx context.Context, log *domain.WorkLog) error
	FindByIDFunc    func(ctx context.Context, id uuid.UUID) (*domain.WorkLog, error)
	FindByFieldFunc func(ctx context.Context, fieldID uuid.UUID) ([]*domain.WorkLog, error)
	DeleteFunc      func(ctx context.Context, id uuid.UUID) error
}

func (m *MockWorkLogRepository) Create(ctx context.Context, log *domain.WorkLog) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, log)
	}
	return nil
}

func (m *MockWorkLogRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.WorkLog, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockWorkLogRepository) FindByField(ctx context.Context, fieldID uuid.UUID) ([]*domain.WorkLog, error) {
	if m.FindByFieldFunc != nil {
		return m.FindByFieldFunc(ctx, fieldID)
	}
	return nil, nil
}

func (m *MockWorkLogRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockLegacyGrowthRepository is a mock implementation of repository.LegacyGrowthRepository
type MockLegacyGrowthRepository struct {
	UpsertFunc      func(ctx context.Context, record *domain.LegacyGrowthRecord) error
	FindByFieldFunc func(ctx context.Context, fieldID uuid.UUID) (*domain.LegacyGrowthRecord, error)
}

func (m *MockLegacyGrowthRepository) Upsert(ctx context.Context, record *domain.LegacyGrowthRecord) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, record)
	}
	return nil
}

func (m *MockLegacyGrowthRepository) FindByField(ctx context.Context, fieldID uuid.UUID) (*domain.LegacyGrowthRecord, error) {
	if m.FindByFieldFunc != nil {
		return m.FindByFieldFunc(ctx, fieldID)
	}
	return nil, nil
}

// MockGrowthService is a mock implementation of GrowthService
type MockGrowthService struct {
	RecordPlantingFunc           func(ctx context.Context, fieldID, userID uuid.UUID, req *dto.RecordPlantingRequest) (*dto.FieldResponse, error)
	RecordBasalFertilizationFunc func(ctx context.Context, fieldID, userID uuid.UUID, appliedAt time.Time) (*dto.FieldResponse, error)
	RecordMainFertilizationFunc  func(ctx context.Context, fieldID, userID uuid.UUID, appliedAt time.Time) (*dto.FieldResponse, error)
	GetSnapshotFunc              func(ctx context.Context, fieldID, userID uuid.UUID, asOf time.Time) (*dto.GrowthSnapshotResponse, error)
}

func (m *MockGrowthService) RecordPlanting(ctx context.Context, fieldID, userID uuid.UUID, req *dto.RecordPlantingRequest) (*dto.FieldResponse, error) {
	if m.RecordPlantingFunc != nil {
		return m.RecordPlantingFunc(ctx, fieldID, userID, req)
	}
	return nil, nil
}

func (m *MockGrowthService) RecordBasalFertilization(ctx context.Context, fieldID, userID uuid.UUID, appliedAt time.Time) (*dto.FieldResponse, error) {
	if m.RecordBasalFertilizationFunc != nil {
		return m.RecordBasalFertilizationFunc(ctx, fieldID, userID, appliedAt)
	}
	return nil, nil
}

func (m *MockGrowthService) RecordMainFertilization(ctx context.Context, fieldID, userID uuid.UUID, appliedAt time.Time) (*dto.FieldResponse, error) {
	if m.RecordMainFertilizationFunc != nil {
		return m.RecordMainFertilizationFunc(ctx, fieldID, userID, appliedAt)
	}
	return nil, nil
}

func (m *MockGrowthService) GetSnapshot(ctx context.Context, fieldID, userID uuid.UUID, asOf time.Time) (*dto.GrowthSnapshotResponse, error) {
	if m.GetSnapshotFunc != nil {
		return m.GetSnapshotFunc(ctx, fieldID, userID, asOf)
	}
	return nil, nil
}

// MockCycleService is a mock implementation of CycleService
type MockCycleService struct {
	RecordHarvestFunc func(ctx context.Context, fieldID, userID uuid.UUID, req *dto.HarvestRequest) (*dto.FieldResponse, error)
	StartRatoonFunc   func(ctx context.Context, fieldID, userID uuid.UUID, req *dto.RatoonRequest) (*dto.FieldResponse, error)
	ReplantFunc       func(ctx context.Context, fieldID, userID uuid.UUID, req *dto.ReplantRequest) (*dto.FieldResponse, error)
}

func (m *MockCycleService) RecordHarvest(ctx context.Context, fieldID, userID uuid.UUID, req *dto.HarvestRequest) (*dto.FieldResponse, error) {
	if m.RecordHarvestFunc != nil {
		return m.RecordHarvestFunc(ctx, fieldID, userID, req)
	}
	return nil, nil
}

func (m *MockCycleService) StartRatoon(ctx context.Context, fieldID, userID uuid.UUID, req *dto.RatoonRequest) (*dto.FieldResponse, error) {
	if m.StartRatoonFunc != nil {
		return m.StartRatoonFunc(ctx, fieldID, userID, req)
	}
	return nil, nil
}

func (m *MockCycleService) Replant(ctx context.Context, fieldID, userID uuid.UUID, req *dto.ReplantRequest) (*dto.FieldResponse, error) {
	if m.ReplantFunc != nil {
		return m.ReplantFunc(ctx, fieldID, userID, req)
	}
	return nil, nil
}

// MockNotificationClient is a mock implementation of client.NotificationClient
type MockNotificationClient struct {
	NotifyFunc     func(ctx context.Context, event client.NotificationEvent) error
	NotifyBulkFunc func(ctx context.Context, events []client.NotificationEvent) error
}

func (m *MockNotificationClient) Notify(ctx context.Context, event client.NotificationEvent) error {
	if m.NotifyFunc != nil {
		return m.NotifyFunc(ctx, event)
	}
	return nil
}

func (m *MockNotificationClient) NotifyBulk(ctx context.Context, events []client.NotificationEvent) error {
	if m.NotifyBulkFunc != nil {
		return m.NotifyBulkFunc(ctx, events)
	}
	return nil
}
