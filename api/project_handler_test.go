package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mvaldes/portfolio-backend/database"
	"github.com/mvaldes/portfolio-backend/models"
)

func newTestRouter(t *testing.T) *chi.Mux {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	return newRouter(database.New(db), nil)
}

func doJSON(t *testing.T, router *chi.Mux, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&reqBody).Encode(body))
	}

	req := httptest.NewRequest(method, path, &reqBody)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeProject(t *testing.T, rec *httptest.ResponseRecorder) models.ProjectWithTechnologies {
	t.Helper()
	var project models.ProjectWithTechnologies
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &project))
	return project
}

func TestCreateAndGetProject(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/project", map[string]any{
		"title":        "My Project",
		"description":  "A thing I built",
		"image_url":    "http://x/project-images/a.png",
		"technologies": []string{"Go", "React"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	created := decodeProject(t, rec)
	assert.Equal(t, "My Project", created.Title)
	assert.Len(t, created.Technologies, 2)

	rec = doJSON(t, router, http.MethodGet, "/project/"+created.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	got := decodeProject(t, rec)
	assert.Equal(t, "My Project", got.Title)
	assert.Equal(t, "A thing I built", got.Description)
	assert.Len(t, got.Technologies, 2)
}

func TestCreateProjectRequiresTitle(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/project", map[string]any{
		"description": "no title here",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetProjectInvalidID(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/project/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetProjectNotFound(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/project/6f1a2e61-7f0c-4a8c-9a43-111111111111", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListProjects(t *testing.T) {
	router := newTestRouter(t)

	for i := 0; i < 3; i++ {
		rec := doJSON(t, router, http.MethodPost, "/project", map[string]any{
			"title":       fmt.Sprintf("project %d", i),
			"description": "d",
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doJSON(t, router, http.MethodGet, "/projects", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var collection ProjectCollection
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &collection))
	assert.Equal(t, 3, collection.Total)
	assert.Len(t, collection.Projects, 3)
}

func TestUpdateProjectPartialFields(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/project", map[string]any{
		"title":       "before",
		"description": "keep me",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeProject(t, rec)

	rec = doJSON(t, router, http.MethodPut, "/project/"+created.ID.String(), map[string]any{
		"title": "after",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	updated := decodeProject(t, rec)
	assert.Equal(t, "after", updated.Title)
	assert.Equal(t, "keep me", updated.Description)
}

func TestUpdateProjectNotFound(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPut, "/project/6f1a2e61-7f0c-4a8c-9a43-111111111111", map[string]any{
		"title": "x",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateProjectTechnologiesReconciles(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/project", map[string]any{
		"title":        "p",
		"description":  "d",
		"technologies": []string{"Go", "React"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeProject(t, rec)

	rec = doJSON(t, router, http.MethodPut, "/project/"+created.ID.String()+"/technologies", map[string]any{
		"technologies": []string{"React", "Rust"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	updated := decodeProject(t, rec)
	names := make([]string, 0, len(updated.Technologies))
	for _, technology := range updated.Technologies {
		names = append(names, technology.Name)
	}
	assert.ElementsMatch(t, []string{"React", "Rust"}, names)
}

func TestListTechnologies(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/technologies", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var empty struct {
		Technologies []models.Technology `json:"technologies"`
		Total        int                 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &empty))
	assert.Equal(t, 0, empty.Total)
	assert.NotNil(t, empty.Technologies)

	rec = doJSON(t, router, http.MethodPost, "/project", map[string]any{
		"title":        "p",
		"description":  "d",
		"technologies": []string{"Go", "React"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/technologies", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var listed struct {
		Technologies []models.Technology `json:"technologies"`
		Total        int                 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	assert.Equal(t, 2, listed.Total)

	names := make([]string, 0, len(listed.Technologies))
	for _, technology := range listed.Technologies {
		names = append(names, technology.Name)
	}
	assert.ElementsMatch(t, []string{"Go", "React"}, names)
}

func TestDeleteProject(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/project", map[string]any{
		"title":        "doomed",
		"description":  "d",
		"technologies": []string{"Go"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeProject(t, rec)

	rec = doJSON(t, router, http.MethodDelete, "/project/"+created.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/project/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteProjectNotFound(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodDelete, "/project/6f1a2e61-7f0c-4a8c-9a43-111111111111", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
