package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/marketops/backend/internal/domain/labeling"
	"github.com/marketops/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/marketops/backend/internal/infrastructure/persistence/models"
)

func setupLabelingTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.LabelTemplateModel{},
		&models.LabelSettingsModel{},
		&models.LabelJobModel{},
	)
	require.NoError(t, err)

	return db
}

func newTestTemplate(t *testing.T, tenantID uuid.UUID, name string) *labeling.LabelTemplate {
	cfg := labeling.PaperConfig{
		PaperSize:   labeling.PaperSizeA4,
		Orientation: labeling.OrientationPortrait,
		Margins:     labeling.DefaultMargins(),
		DefaultFont: labeling.DefaultFont(),
	}
	template, err := labeling.NewLabelTemplate(tenantID, name, cfg)
	require.NoError(t, err)
	return template
}

func TestLabelTemplateRepository_Save(t *testing.T) {
	db := setupLabelingTestDB(t)
	repo := NewGormLabelTemplateRepository(db)
	ctx := context.Background()

	t.Run("inserts a new template", func(t *testing.T) {
		tenantID := uuid.New()
		template := newTestTemplate(t, tenantID, "Shipping label")

		require.NoError(t, repo.Save(ctx, template))

		found, err := repo.FindByID(ctx, tenantID, template.ID)
		require.NoError(t, err)
		assert.Equal(t, "Shipping label", found.Name)
		assert.Equal(t, labeling.PaperSizeA4, found.Config.PaperSize)
		assert.Equal(t, 1, found.GetVersion())
		assert.Empty(t, found.Elements)
	})

	t.Run("persists elements as part of the document", func(t *testing.T) {
		tenantID := uuid.New()
		template := newTestTemplate(t, tenantID, "With elements")
		el, err := labeling.NewElement(
			labeling.TextSpec{Path: "order.number"},
			labeling.Position{X: 5, Y: 5},
			labeling.Size{Width: 60, Height: 10},
		)
		require.NoError(t, err)
		template.AddElement(el)

		require.NoError(t, repo.Save(ctx, template))

		found, err := repo.FindByID(ctx, tenantID, template.ID)
		require.NoError(t, err)
		require.Len(t, found.Elements, 1)
		assert.Equal(t, el.ID, found.Elements[0].ID)
		assert.Equal(t, labeling.ElementTypeText, found.Elements[0].Type())
	})

	t.Run("update advances the version token", func(t *testing.T) {
		tenantID := uuid.New()
		template := newTestTemplate(t, tenantID, "Versioned")
		require.NoError(t, repo.Save(ctx, template))

		require.NoError(t, template.Rename("Versioned v2"))
		require.NoError(t, repo.Save(ctx, template))
		assert.Equal(t, 2, template.GetVersion())

		found, err := repo.FindByID(ctx, tenantID, template.ID)
		require.NoError(t, err)
		assert.Equal(t, "Versioned v2", found.Name)
		assert.Equal(t, 2, found.GetVersion())
	})

	t.Run("stale save fails with concurrency conflict", func(t *testing.T) {
		tenantID := uuid.New()
		template := newTestTemplate(t, tenantID, "Contended")
		require.NoError(t, repo.Save(ctx, template))

		first, err := repo.FindByID(ctx, tenantID, template.ID)
		require.NoError(t, err)
		second, err := repo.FindByID(ctx, tenantID, template.ID)
		require.NoError(t, err)

		require.NoError(t, first.Rename("First writer"))
		require.NoError(t, repo.Save(ctx, first))

		require.NoError(t, second.Rename("Second writer"))
		err = repo.Save(ctx, second)
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)

		found, err := repo.FindByID(ctx, tenantID, template.ID)
		require.NoError(t, err)
		assert.Equal(t, "First writer", found.Name)
	})
}

func TestLabelTemplateRepository_Find(t *testing.T) {
	db := setupLabelingTestDB(t)
	repo := NewGormLabelTemplateRepository(db)
	ctx := context.Background()

	t.Run("find by id is tenant scoped", func(t *testing.T) {
		tenantID := uuid.New()
		template := newTestTemplate(t, tenantID, "Mine")
		require.NoError(t, repo.Save(ctx, template))

		_, err := repo.FindByID(ctx, uuid.New(), template.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("lists with pagination and name sort", func(t *testing.T) {
		tenantID := uuid.New()
		for _, name := range []string{"Charlie", "Alpha", "Bravo"} {
			require.NoError(t, repo.Save(ctx, newTestTemplate(t, tenantID, name)))
		}

		templates, total, err := repo.FindByTenant(ctx, tenantID, shared.Filter{
			Page:     1,
			PageSize: 2,
			OrderBy:  "name",
			OrderDir: "asc",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, templates, 2)
		assert.Equal(t, "Alpha", templates[0].Name)
		assert.Equal(t, "Bravo", templates[1].Name)
	})

	t.Run("find all keeps creation order for the resolver fallback", func(t *testing.T) {
		tenantID := uuid.New()
		first := newTestTemplate(t, tenantID, "Oldest")
		require.NoError(t, repo.Save(ctx, first))
		require.NoError(t, repo.Save(ctx, newTestTemplate(t, tenantID, "Newer")))

		all, err := repo.FindAllByTenant(ctx, tenantID)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, first.ID, all[0].ID)
	})
}

func TestLabelTemplateRepository_Delete(t *testing.T) {
	db := setupLabelingTestDB(t)
	repo := NewGormLabelTemplateRepository(db)
	settingsRepo := NewGormLabelSettingsRepository(db)
	ctx := context.Background()

	t.Run("delete of unknown template fails", func(t *testing.T) {
		err := repo.Delete(ctx, uuid.New(), uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("delete clears the default pointer in the same transaction", func(t *testing.T) {
		tenantID := uuid.New()
		template := newTestTemplate(t, tenantID, "Default one")
		require.NoError(t, repo.Save(ctx, template))
		require.NoError(t, settingsRepo.SetDefaultTemplateID(ctx, tenantID, &template.ID))

		require.NoError(t, repo.Delete(ctx, tenantID, template.ID))

		settings, err := settingsRepo.Get(ctx, tenantID)
		require.NoError(t, err)
		assert.Nil(t, settings.DefaultTemplateID)
	})

	t.Run("delete leaves an unrelated default pointer alone", func(t *testing.T) {
		tenantID := uuid.New()
		keeper := newTestTemplate(t, tenantID, "Keeper")
		victim := newTestTemplate(t, tenantID, "Victim")
		require.NoError(t, repo.Save(ctx, keeper))
		require.NoError(t, repo.Save(ctx, victim))
		require.NoError(t, settingsRepo.SetDefaultTemplateID(ctx, tenantID, &keeper.ID))

		require.NoError(t, repo.Delete(ctx, tenantID, victim.ID))

		settings, err := settingsRepo.Get(ctx, tenantID)
		require.NoError(t, err)
		require.NotNil(t, settings.DefaultTemplateID)
		assert.Equal(t, keeper.ID, *settings.DefaultTemplateID)
	})
}

func TestLabelTemplateRepository_ExistsByName(t *testing.T) {
	db := setupLabelingTestDB(t)
	repo := NewGormLabelTemplateRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	template := newTestTemplate(t, tenantID, "Unique name")
	require.NoError(t, repo.Save(ctx, template))

	t.Run("detects a taken name within the tenant", func(t *testing.T) {
		exists, err := repo.ExistsByName(ctx, tenantID, "Unique name", nil)
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("excludes the template itself", func(t *testing.T) {
		exists, err := repo.ExistsByName(ctx, tenantID, "Unique name", &template.ID)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("names do not collide across tenants", func(t *testing.T) {
		exists, err := repo.ExistsByName(ctx, uuid.New(), "Unique name", nil)
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestLabelSettingsRepository(t *testing.T) {
	db := setupLabelingTestDB(t)
	repo := NewGormLabelSettingsRepository(db)
	templateRepo := NewGormLabelTemplateRepository(db)
	ctx := context.Background()

	t.Run("get creates an empty row on first use", func(t *testing.T) {
		tenantID := uuid.New()

		settings, err := repo.Get(ctx, tenantID)
		require.NoError(t, err)
		assert.Equal(t, tenantID, settings.TenantID)
		assert.Nil(t, settings.DefaultTemplateID)

		var count int64
		require.NoError(t, db.Model(&models.LabelSettingsModel{}).
			Where("tenant_id = ?", tenantID).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("set default requires an existing template", func(t *testing.T) {
		tenantID := uuid.New()
		unknown := uuid.New()

		err := repo.SetDefaultTemplateID(ctx, tenantID, &unknown)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("set and clear round trip", func(t *testing.T) {
		tenantID := uuid.New()
		template := newTestTemplate(t, tenantID, "Default candidate")
		require.NoError(t, templateRepo.Save(ctx, template))

		require.NoError(t, repo.SetDefaultTemplateID(ctx, tenantID, &template.ID))
		settings, err := repo.Get(ctx, tenantID)
		require.NoError(t, err)
		require.NotNil(t, settings.DefaultTemplateID)
		assert.Equal(t, template.ID, *settings.DefaultTemplateID)

		require.NoError(t, repo.SetDefaultTemplateID(ctx, tenantID, nil))
		settings, err = repo.Get(ctx, tenantID)
		require.NoError(t, err)
		assert.Nil(t, settings.DefaultTemplateID)
	})

	t.Run("dangling default reads as nil", func(t *testing.T) {
		tenantID := uuid.New()
		template := newTestTemplate(t, tenantID, "Soon gone")
		require.NoError(t, templateRepo.Save(ctx, template))
		require.NoError(t, repo.SetDefaultTemplateID(ctx, tenantID, &template.ID))

		// Remove the template behind the repository's back so the pointer
		// dangles without the transactional cleanup running.
		require.NoError(t, db.Where("id = ?", template.ID).
			Delete(&models.LabelTemplateModel{}).Error)

		settings, err := repo.Get(ctx, tenantID)
		require.NoError(t, err)
		assert.Nil(t, settings.DefaultTemplateID)
	})
}

func TestLabelJobRepository(t *testing.T) {
	db := setupLabelingTestDB(t)
	repo := NewGormLabelJobRepository(db)
	ctx := context.Background()

	newJob := func(t *testing.T, tenantID, orderID uuid.UUID, orderNumber string) *labeling.LabelJob {
		job, err := labeling.NewLabelJob(tenantID, uuid.New(), orderID, orderNumber)
		require.NoError(t, err)
		return job
	}

	t.Run("saves and reloads the job lifecycle", func(t *testing.T) {
		tenantID := uuid.New()
		orderID := uuid.New()
		job := newJob(t, tenantID, orderID, "SO-2026-0042")
		require.NoError(t, repo.Save(ctx, job))

		require.NoError(t, job.StartRendering())
		require.NoError(t, job.Complete("tenant/2026/08/job.pdf", "/api/v1/labels/files/tenant/2026/08/job.pdf"))
		require.NoError(t, repo.Save(ctx, job))

		found, err := repo.FindByID(ctx, tenantID, job.ID)
		require.NoError(t, err)
		assert.Equal(t, labeling.JobStatusCompleted, found.Status)
		assert.True(t, found.HasArtifact())
		require.NotNil(t, found.RenderedAt)
	})

	t.Run("find by id is tenant scoped", func(t *testing.T) {
		tenantID := uuid.New()
		job := newJob(t, tenantID, uuid.New(), "SO-2026-0001")
		require.NoError(t, repo.Save(ctx, job))

		_, err := repo.FindByID(ctx, uuid.New(), job.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("lists jobs of one order newest first", func(t *testing.T) {
		tenantID := uuid.New()
		orderID := uuid.New()
		older := newJob(t, tenantID, orderID, "SO-2026-0100")
		older.CreatedAt = older.CreatedAt.Add(-time.Hour)
		require.NoError(t, repo.Save(ctx, older))
		newer := newJob(t, tenantID, orderID, "SO-2026-0100")
		require.NoError(t, repo.Save(ctx, newer))
		require.NoError(t, repo.Save(ctx, newJob(t, tenantID, uuid.New(), "SO-2026-0101")))

		jobs, err := repo.FindByOrder(ctx, tenantID, orderID)
		require.NoError(t, err)
		require.Len(t, jobs, 2)
		assert.Equal(t, newer.ID, jobs[0].ID)
		assert.Equal(t, older.ID, jobs[1].ID)
	})

	t.Run("lists by tenant with status filter", func(t *testing.T) {
		tenantID := uuid.New()
		pending := newJob(t, tenantID, uuid.New(), "SO-2026-0200")
		require.NoError(t, repo.Save(ctx, pending))
		failed := newJob(t, tenantID, uuid.New(), "SO-2026-0201")
		require.NoError(t, failed.StartRendering())
		require.NoError(t, failed.Fail("font file missing"))
		require.NoError(t, repo.Save(ctx, failed))

		jobs, total, err := repo.FindByTenant(ctx, tenantID, shared.Filter{
			Filters: map[string]any{"status": string(labeling.JobStatusFailed)},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, jobs, 1)
		assert.Equal(t, failed.ID, jobs[0].ID)
		assert.Equal(t, "font file missing", jobs[0].ErrorMessage)
	})
}
