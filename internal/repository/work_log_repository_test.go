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

func setupWorkLogTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	// Create work_logs table for SQLite compatibility
	db.Exec(`CREATE TABLE work_logs (
		id TEXT PRIMARY KEY,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		deleted_at DATETIME,
		field_id TEXT NOT NULL,
		task_id TEXT,
		worker_id TEXT NOT NULL,
		notes TEXT,
		photo_key TEXT,
		photo_url TEXT,
		logged_at DATETIME NOT NULL
	)`)

	return db
}

func TestWorkLogRepository_FindByFieldNewestFirst(t *testing.T) {
	db := setupWorkLogTestDB(t)
	repo := NewWorkLogRepository(db)
	ctx := context.Background()

	fieldID := uuid.New()
	base := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)

	older := &domain.WorkLog{
		BaseModel: domain.BaseModel{ID: uuid.New()},
		FieldID:   fieldID,
		WorkerID:  uuid.New(),
		Notes:     "weeded rows 1-4",
		LoggedAt:  base,
	}
	newer := &domain.WorkLog{
		BaseModel: domain.BaseModel{ID: uuid.New()},
		FieldID:   fieldID,
		WorkerID:  uuid.New(),
		Notes:     "applied basal fertilizer",
		PhotoKey:  "work-logs/2024/03/basal.jpg",
		LoggedAt:  base.AddDate(0, 0, 2),
	}
	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, repo.Create(ctx, newer))
	require.NoError(t, repo.Create(ctx, &domain.WorkLog{
		BaseModel: domain.BaseModel{ID: uuid.New()},
		FieldID:   uuid.New(),
		WorkerID:  uuid.New(),
		LoggedAt:  base,
	}))

	logs, err := repo.FindByField(ctx, fieldID)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, newer.ID, logs[0].ID)
	assert.Equal(t, older.ID, logs[1].ID)
	assert.Equal(t, "work-logs/2024/03/basal.jpg", logs[0].PhotoKey)
}

func TestWorkLogRepository_Delete(t *testing.T) {
	db := setupWorkLogTestDB(t)
	repo := NewWorkLogRepository(db)
	ctx := context.Background()

	log := &domain.WorkLog{
		BaseModel: domain.BaseModel{ID: uuid.New()},
		FieldID:   uuid.New(),
		WorkerID:  uuid.New(),
		LoggedAt:  time.Now().UTC(),
	}
	require.NoError(t, repo.Create(ctx, log))
	require.NoError(t, repo.Delete(ctx, log.ID))

	_, err := repo.FindByID(ctx, log.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
