package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"cane-field-api/internal/domain"
)

func setupTaskTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	// Create tasks table for SQLite compatibility
	db.Exec(`CREATE TABLE tasks (
		id TEXT PRIMARY KEY,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		deleted_at DATETIME,
		field_id TEXT NOT NULL,
		creator_id TEXT NOT NULL,
		type TEXT NOT NULL DEFAULT 'GENERAL',
		title TEXT NOT NULL,
		description TEXT,
		priority TEXT NOT NULL DEFAULT 'MEDIUM',
		status TEXT NOT NULL DEFAULT 'PENDING',
		growth_stage TEXT,
		dap_window TEXT,
		deadline DATETIME,
		assignee_ids TEXT,
		variety TEXT,
		planting_cycle INTEGER NOT NULL DEFAULT 1,
		ratoon_number INTEGER NOT NULL DEFAULT 0,
		completed_at DATETIME,
		completed_by TEXT
	)`)

	return db
}

func storedTask(fieldID uuid.UUID, taskType domain.TaskType, status domain.TaskStatus, plantingCycle, ratoonNumber int) *domain.Task {
	return &domain.Task{
		BaseModel:     domain.BaseModel{ID: uuid.New()},
		FieldID:       fieldID,
		CreatorID:     uuid.New(),
		Type:          taskType,
		Title:         string(taskType),
		Priority:      domain.PriorityMedium,
		Status:        status,
		PlantingCycle: plantingCycle,
		RatoonNumber:  ratoonNumber,
	}
}

func TestTaskRepository_CreateBatchAndFindByField(t *testing.T) {
	db := setupTaskTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	fieldID := uuid.New()
	tasks := []*domain.Task{
		storedTask(fieldID, domain.TaskTypeLandPrep, domain.TaskStatusPending, 1, 0),
		storedTask(fieldID, domain.TaskTypePlanting, domain.TaskStatusPending, 1, 0),
		storedTask(fieldID, domain.TaskTypeBasalFertilizer, domain.TaskStatusPending, 1, 0),
	}
	require.NoError(t, repo.CreateBatch(ctx, tasks))

	// A task on a different field stays invisible
	require.NoError(t, repo.Create(ctx, storedTask(uuid.New(), domain.TaskTypeHarvest, domain.TaskStatusPending, 1, 0)))

	found, err := repo.FindByField(ctx, fieldID)
	require.NoError(t, err)
	assert.Len(t, found, 3)

	// Empty batch is a no-op
	assert.NoError(t, repo.CreateBatch(ctx, nil))
}

func TestTaskRepository_CompletedTypes(t *testing.T) {
	db := setupTaskTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	fieldID := uuid.New()
	seed := []*domain.Task{
		storedTask(fieldID, domain.TaskTypeLandPrep, domain.TaskStatusCompleted, 1, 0),
		storedTask(fieldID, domain.TaskTypePlanting, domain.TaskStatusCompleted, 1, 0),
		// Duplicate completed type collapses to one entry
		storedTask(fieldID, domain.TaskTypePlanting, domain.TaskStatusCompleted, 1, 0),
		// Pending work does not count
		storedTask(fieldID, domain.TaskTypeBasalFertilizer, domain.TaskStatusPending, 1, 0),
		// Completed in a different cycle does not count
		storedTask(fieldID, domain.TaskTypeHarvest, domain.TaskStatusCompleted, 1, 1),
		storedTask(fieldID, domain.TaskTypeMainFertilizer, domain.TaskStatusCompleted, 2, 0),
	}
	require.NoError(t, repo.CreateBatch(ctx, seed))

	types, err := repo.CompletedTypes(ctx, fieldID, 1, 0)
	require.NoError(t, err)
	assert.ElementsMatch(t, []domain.TaskType{domain.TaskTypeLandPrep, domain.TaskTypePlanting}, types)
}

func TestTaskRepository_Update(t *testing.T) {
	db := setupTaskTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	task := storedTask(uuid.New(), domain.TaskTypeWeeding, domain.TaskStatusPending, 1, 0)
	require.NoError(t, repo.Create(ctx, task))

	completedAt := time.Now().UTC()
	completedBy := uuid.New()
	task.Status = domain.TaskStatusCompleted
	task.CompletedAt = &completedAt
	task.CompletedBy = &completedBy
	require.NoError(t, repo.Update(ctx, task))

	found, err := repo.FindByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusCompleted, found.Status)
	require.NotNil(t, found.CompletedAt)
	assert.Equal(t, completedAt.Unix(), found.CompletedAt.Unix())
	require.NotNil(t, found.CompletedBy)
	assert.Equal(t, completedBy, *found.CompletedBy)
}
