package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-plantshelf/models"
)

// fakeSearcher 返回预置的候选列表
type fakeSearcher struct {
	plants []models.Plant
	err    error
	lastQ  string
}

func (f *fakeSearcher) Search(_ context.Context, query string) ([]models.Plant, error) {
	f.lastQ = query
	return f.plants, f.err
}

type fakeCareFetcher struct {
	guide *models.CareGuide
	err   error
}

func (f *fakeCareFetcher) FetchCareGuide(_ context.Context, _ int) (*models.CareGuide, error) {
	return f.guide, f.err
}

func strp(s string) *string { return &s }

func setupCompareRouter(trefle, perenual *fakeSearcher, care *fakeCareFetcher) *gin.Engine {
	gin.SetMode(gin.TestMode)
	c := NewCompareController(trefle, perenual, care)

	r := gin.New()
	r.POST("/api/compare", c.Compare)
	return r
}

func compare(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/compare", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCompareInvalidTarget(t *testing.T) {
	r := setupCompareRouter(&fakeSearcher{}, &fakeSearcher{}, &fakeCareFetcher{})

	w := compare(r, `{"plant": {"scientific_name": "Ficus lyrata"}, "target": "gbif"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "target must be trefle or perenual")
}

func TestCompareMissingName(t *testing.T) {
	r := setupCompareRouter(&fakeSearcher{}, &fakeSearcher{}, &fakeCareFetcher{})

	w := compare(r, `{"plant": {"scientific_name": "  "}, "target": "trefle"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCompareNoMatch(t *testing.T) {
	trefle := &fakeSearcher{plants: nil}
	r := setupCompareRouter(trefle, &fakeSearcher{}, &fakeCareFetcher{})

	w := compare(r, `{"plant": {"scientific_name": "Ficus lyrata"}, "target": "trefle"}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Matching plant not found")
}

func TestCompareUpstreamFailureNoLeak(t *testing.T) {
	trefle := &fakeSearcher{err: errors.New("trefle: status 500 token=secret")}
	r := setupCompareRouter(trefle, &fakeSearcher{}, &fakeCareFetcher{})

	w := compare(r, `{"plant": {"scientific_name": "Ficus lyrata"}, "target": "trefle"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	// 上游错误细节不能出现在响应里
	assert.NotContains(t, w.Body.String(), "secret")
	assert.Contains(t, w.Body.String(), "An error occurred")
}

func TestCompareMergesTrefleMatch(t *testing.T) {
	matched := models.Plant{
		ID:             101,
		Source:         models.SourceTrefle,
		ScientificName: "Monstera deliciosa",
		ImageURL:       strp("https://img.example/monstera.jpg"),
	}
	trefle := &fakeSearcher{plants: []models.Plant{matched}}
	r := setupCompareRouter(trefle, &fakeSearcher{}, &fakeCareFetcher{})

	w := compare(r, `{
		"plant": {"scientific_name": "Monstera deliciosa Liebm.", "source": "perenual"},
		"target": "trefle"
	}`)

	require.Equal(t, http.StatusOK, w.Code)

	var result models.ComparisonResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.NotNil(t, result.Matched)
	assert.Equal(t, 101, result.Matched.ID)
	// 合并结果带上 B 侧的图片
	require.NotNil(t, result.Merged.ImageURL)
	assert.Equal(t, "https://img.example/monstera.jpg", *result.Merged.ImageURL)
}

func TestComparePerenualAttachesCareGuide(t *testing.T) {
	matched := models.Plant{
		ID:             55,
		Source:         models.SourcePerenual,
		ScientificName: "Ficus lyrata",
	}
	perenual := &fakeSearcher{plants: []models.Plant{matched}}
	care := &fakeCareFetcher{guide: &models.CareGuide{Watering: strp("Average")}}
	r := setupCompareRouter(&fakeSearcher{}, perenual, care)

	w := compare(r, `{"plant": {"scientific_name": "Ficus lyrata"}, "target": "perenual"}`)

	require.Equal(t, http.StatusOK, w.Code)

	var result models.ComparisonResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.NotNil(t, result.Merged.CareGuide)
	assert.Equal(t, "Average", *result.Merged.CareGuide.Watering)
}

// 养护指南拉取失败只记日志，对比照常返回
func TestComparePerenualCareFailureIgnored(t *testing.T) {
	matched := models.Plant{ID: 55, Source: models.SourcePerenual, ScientificName: "Ficus lyrata"}
	perenual := &fakeSearcher{plants: []models.Plant{matched}}
	care := &fakeCareFetcher{err: errors.New("perenual: status 500")}
	r := setupCompareRouter(&fakeSearcher{}, perenual, care)

	w := compare(r, `{"plant": {"scientific_name": "Ficus lyrata"}, "target": "perenual"}`)

	assert.Equal(t, http.StatusOK, w.Code)
}
