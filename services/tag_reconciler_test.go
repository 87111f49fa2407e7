package services

import (
	"path/filepath"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mvaldes/portfolio-backend/database"
	"github.com/mvaldes/portfolio-backend/models"
)

type reconcilerFixture struct {
	db         *gorm.DB
	repo       *database.ProjectRepo
	reconciler *TagReconciler
}

func newReconcilerFixture(t *testing.T) reconcilerFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	repos := database.New(db)
	return reconcilerFixture{
		db:         db,
		repo:       repos.ProjectRepo(),
		reconciler: NewTagReconciler(repos.TechnologyRepo(), repos.ProjectTechnologyRepo()),
	}
}

func (f reconcilerFixture) newProject(t *testing.T) uuid.UUID {
	t.Helper()
	project := models.Project{Title: "p", Description: "d"}
	require.NoError(t, f.repo.Add(&project))
	return project.ID
}

func (f reconcilerFixture) technologyNames(t *testing.T, projectID uuid.UUID) []string {
	t.Helper()
	got, err := f.repo.FindByIDWithTechnologies(projectID)
	require.NoError(t, err)

	names := make([]string, 0, len(got.Technologies))
	for _, technology := range got.Technologies {
		names = append(names, technology.Name)
	}
	sort.Strings(names)
	return names
}

func TestReconcileCreatesMissingTechnologies(t *testing.T) {
	f := newReconcilerFixture(t)
	projectID := f.newProject(t)

	require.NoError(t, f.reconciler.Reconcile(projectID, []string{"Go", "React"}))

	assert.Equal(t, []string{"Go", "React"}, f.technologyNames(t, projectID))
}

func TestReconcileIsIdempotent(t *testing.T) {
	f := newReconcilerFixture(t)
	projectID := f.newProject(t)

	require.NoError(t, f.reconciler.Reconcile(projectID, []string{"Go", "React"}))
	require.NoError(t, f.reconciler.Reconcile(projectID, []string{"Go", "React"}))

	assert.Equal(t, []string{"Go", "React"}, f.technologyNames(t, projectID))

	var linkCount int64
	require.NoError(t, f.db.Model(&models.ProjectTechnology{}).Count(&linkCount).Error)
	assert.EqualValues(t, 2, linkCount)
}

func TestReconcileDeduplicatesDesiredNames(t *testing.T) {
	f := newReconcilerFixture(t)
	projectID := f.newProject(t)

	require.NoError(t, f.reconciler.Reconcile(projectID, []string{"React", "React", "Go"}))

	assert.Equal(t, []string{"Go", "React"}, f.technologyNames(t, projectID))

	var technologyCount int64
	require.NoError(t, f.db.Model(&models.Technology{}).Count(&technologyCount).Error)
	assert.EqualValues(t, 2, technologyCount)
}

func TestReconcileSharesTechnologyRowsAcrossProjects(t *testing.T) {
	f := newReconcilerFixture(t)
	first := f.newProject(t)
	second := f.newProject(t)

	require.NoError(t, f.reconciler.Reconcile(first, []string{"React"}))
	require.NoError(t, f.reconciler.Reconcile(second, []string{"React"}))

	var technologyCount int64
	require.NoError(t, f.db.Model(&models.Technology{}).Where("name = ?", "React").Count(&technologyCount).Error)
	assert.EqualValues(t, 1, technologyCount)

	var linkCount int64
	require.NoError(t, f.db.Model(&models.ProjectTechnology{}).Count(&linkCount).Error)
	assert.EqualValues(t, 2, linkCount)
}

func TestReconcileReplacesExistingSet(t *testing.T) {
	f := newReconcilerFixture(t)
	projectID := f.newProject(t)

	require.NoError(t, f.reconciler.Reconcile(projectID, []string{"Go", "React"}))
	require.NoError(t, f.reconciler.Reconcile(projectID, []string{"React", "Rust"}))

	assert.Equal(t, []string{"React", "Rust"}, f.technologyNames(t, projectID))
}

func TestReconcileEmptySetClearsLinks(t *testing.T) {
	f := newReconcilerFixture(t)
	projectID := f.newProject(t)

	require.NoError(t, f.reconciler.Reconcile(projectID, []string{"Go"}))
	require.NoError(t, f.reconciler.Reconcile(projectID, nil))

	assert.Empty(t, f.technologyNames(t, projectID))

	// Orphaned technologies are shared taxonomy and stay around
	var technologyCount int64
	require.NoError(t, f.db.Model(&models.Technology{}).Count(&technologyCount).Error)
	assert.EqualValues(t, 1, technologyCount)
}

func TestReconcileIgnoresEmptyNames(t *testing.T) {
	f := newReconcilerFixture(t)
	projectID := f.newProject(t)

	require.NoError(t, f.reconciler.Reconcile(projectID, []string{"", "Go", ""}))

	assert.Equal(t, []string{"Go"}, f.technologyNames(t, projectID))
}

func TestReconcileIsCaseSensitive(t *testing.T) {
	f := newReconcilerFixture(t)
	projectID := f.newProject(t)

	require.NoError(t, f.reconciler.Reconcile(projectID, []string{"react", "React"}))

	assert.Equal(t, []string{"React", "react"}, f.technologyNames(t, projectID))
}
