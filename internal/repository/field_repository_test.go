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

func setupFieldTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	// Create fields table for SQLite compatibility
	db.Exec(`CREATE TABLE fields (
		id TEXT PRIMARY KEY,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		deleted_at DATETIME,
		owner_id TEXT NOT NULL,
		name TEXT NOT NULL,
		location TEXT,
		area_ha REAL,
		variety TEXT,
		planting_date DATETIME,
		expected_harvest_start DATETIME,
		expected_harvest_end DATETIME,
		basal_fertilization_at DATETIME,
		main_fertilization_at DATETIME,
		current_growth_stage TEXT NOT NULL DEFAULT 'NOT_PLANTED',
		delay_days INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'NOT_PLANTED',
		actual_harvest_date DATETIME,
		final_dap INTEGER,
		actual_yield REAL,
		harvest_timing TEXT,
		harvest_timing_days INTEGER,
		ratoon_number INTEGER NOT NULL DEFAULT 0,
		planting_cycle INTEGER NOT NULL DEFAULT 1,
		is_ratoon INTEGER NOT NULL DEFAULT 0
	)`)

	return db
}

func newStoredField(ownerID uuid.UUID) *domain.Field {
	return &domain.Field{
		BaseModel:          domain.BaseModel{ID: uuid.New()},
		OwnerID:            ownerID,
		Name:               "East Block",
		Variety:            "PS 1",
		CurrentGrowthStage: domain.StageNotPlanted,
		Status:             domain.FieldStatusNotPlanted,
		PlantingCycle:      1,
	}
}

func TestFieldRepository_CreateAndFind(t *testing.T) {
	db := setupFieldTestDB(t)
	repo := NewFieldRepository(db)
	ctx := context.Background()

	ownerID := uuid.New()
	field := newStoredField(ownerID)
	require.NoError(t, repo.Create(ctx, field))

	found, err := repo.FindByID(ctx, field.ID)
	require.NoError(t, err)
	assert.Equal(t, field.ID, found.ID)
	assert.Equal(t, ownerID, found.OwnerID)
	assert.Equal(t, domain.FieldStatusNotPlanted, found.Status)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestFieldRepository_FindByStatus(t *testing.T) {
	db := setupFieldTestDB(t)
	repo := NewFieldRepository(db)
	ctx := context.Background()

	active := newStoredField(uuid.New())
	active.Status = domain.FieldStatusActive
	require.NoError(t, repo.Create(ctx, active))

	idle := newStoredField(uuid.New())
	require.NoError(t, repo.Create(ctx, idle))

	fields, err := repo.FindByStatus(ctx, domain.FieldStatusActive)
	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.Equal(t, active.ID, fields[0].ID)
}

func TestFieldRepository_UpdateGrowth(t *testing.T) {
	db := setupFieldTestDB(t)
	repo := NewFieldRepository(db)
	ctx := context.Background()

	field := newStoredField(uuid.New())
	require.NoError(t, repo.Create(ctx, field))

	plantingDate := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	err := repo.UpdateGrowth(ctx, field.ID, map[string]interface{}{
		"planting_date":        plantingDate,
		"status":               domain.FieldStatusActive,
		"current_growth_stage": domain.StageGermination,
		"actual_yield":         nil, // nil attributes are stripped, not written
	})
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, field.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.FieldStatusActive, found.Status)
	assert.Equal(t, domain.StageGermination, found.CurrentGrowthStage)
	require.NotNil(t, found.PlantingDate)
	assert.Equal(t, plantingDate.Unix(), found.PlantingDate.Unix())
	// Other columns untouched by the partial update
	assert.Equal(t, "PS 1", found.Variety)
}

func TestFieldRepository_UpdateGrowthClearsColumnsWithSQLNull(t *testing.T) {
	db := setupFieldTestDB(t)
	repo := NewFieldRepository(db)
	ctx := context.Background()

	basalAt := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
	field := newStoredField(uuid.New())
	field.Status = domain.FieldStatusHarvested
	field.BasalFertilizationAt = &basalAt
	require.NoError(t, repo.Create(ctx, field))

	err := repo.UpdateGrowth(ctx, field.ID, map[string]interface{}{
		"basal_fertilization_at": gorm.Expr("NULL"),
		"status":                 domain.FieldStatusActive,
	})
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, field.ID)
	require.NoError(t, err)
	assert.Nil(t, found.BasalFertilizationAt)
	assert.Equal(t, domain.FieldStatusActive, found.Status)
}

func TestFieldRepository_Delete(t *testing.T) {
	db := setupFieldTestDB(t)
	repo := NewFieldRepository(db)
	ctx := context.Background()

	field := newStoredField(uuid.New())
	require.NoError(t, repo.Create(ctx, field))

	require.NoError(t, repo.Delete(ctx, field.ID))

	_, err := repo.FindByID(ctx, field.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
