package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"estaty_sync/estaty"
	"estaty_sync/models"
	"estaty_sync/sync"
)

type stubClient struct{}

func (stubClient) GetFilters(ctx context.Context) (*estaty.Filters, error) {
	return &estaty.Filters{}, nil
}
func (stubClient) FilterProperties(ctx context.Context, criteria estaty.FilterCriteria) ([]estaty.Property, error) {
	return nil, nil
}
func (stubClient) GetProperty(ctx context.Context, id int64) (*estaty.Property, error) {
	return nil, nil
}
func (stubClient) LatestCreated(ctx context.Context) ([]estaty.Property, error) { return nil, nil }
func (stubClient) LatestUpdated(ctx context.Context) ([]estaty.Property, error) { return nil, nil }

type stubStore struct{}

func (stubStore) UpsertDeveloper(ctx context.Context, d *models.Developer) error { return nil }
func (stubStore) GetDeveloperByExternalID(ctx context.Context, id int64) (*models.Developer, error) {
	return nil, nil
}
func (stubStore) GetDeveloperBySlug(ctx context.Context, slug string) (*models.Developer, error) {
	return nil, nil
}
func (stubStore) UpsertCity(ctx context.Context, c *models.City) error { return nil }
func (stubStore) GetCityByExternalID(ctx context.Context, id int64) (*models.City, error) {
	return nil, nil
}
func (stubStore) GetCityBySlug(ctx context.Context, slug string) (*models.City, error) {
	return nil, nil
}
func (stubStore) UpsertDistrict(ctx context.Context, d *models.District) error { return nil }
func (stubStore) GetDistrictByExternalID(ctx context.Context, id int64) (*models.District, error) {
	return nil, nil
}
func (stubStore) GetDistrictBySlug(ctx context.Context, slug string) (*models.District, error) {
	return nil, nil
}
func (stubStore) UpsertProperty(ctx context.Context, p *models.Property) error { return nil }
func (stubStore) GetPropertyByExternalID(ctx context.Context, id int64) (*models.Property, error) {
	return nil, nil
}
func (stubStore) GetPropertyBySlug(ctx context.Context, slug string) (*models.Property, error) {
	return nil, nil
}
func (stubStore) ReplaceUnits(ctx context.Context, id uuid.UUID, units []models.Unit) error {
	return nil
}
func (stubStore) ReplaceImages(ctx context.Context, id uuid.UUID, images []models.PropertyImage) error {
	return nil
}
func (stubStore) ReplaceFloorPlans(ctx context.Context, id uuid.UUID, plans []models.FloorPlan) error {
	return nil
}
func (stubStore) CreateSyncRun(ctx context.Context, run *models.SyncRun) error { return nil }
func (stubStore) UpdateSyncRun(ctx context.Context, run *models.SyncRun) error { return nil }
func (stubStore) GetRecentSyncRuns(ctx context.Context, limit int) ([]models.SyncRun, error) {
	return []models.SyncRun{{ID: 1, Mode: "incremental", Status: models.RunStatusCompleted}}, nil
}

func newTestServer(cooldown time.Duration) *Server {
	store := stubStore{}
	return New(stubClient{}, store, store, sync.Options{BatchDelay: 1}, sync.NewLock(cooldown))
}

func doRequest(s *Server, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	s.Engine().ServeHTTP(w, req)
	return w
}

func TestHealthcheck(t *testing.T) {
	s := newTestServer(time.Minute)
	w := doRequest(s, "GET", "/healthcheck", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestTriggerSync_InvalidType(t *testing.T) {
	s := newTestServer(time.Minute)
	w := doRequest(s, "POST", "/api/sync", `{"type":"partial"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestTriggerSync_InvalidBody(t *testing.T) {
	s := newTestServer(time.Minute)
	w := doRequest(s, "POST", "/api/sync", `{not json`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestTriggerSync_AcceptedThenCooledDown(t *testing.T) {
	s := newTestServer(time.Minute)

	w := doRequest(s, "POST", "/api/sync", `{"type":"incremental"}`)
	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", w.Code, w.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["mode"] != "incremental" {
		t.Fatalf("unexpected mode %v", resp["mode"])
	}

	// The cooldown refuses a second trigger even after the first sync
	// finishes.
	w = doRequest(s, "POST", "/api/sync", `{"type":"full"}`)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 inside cooldown, got %d", w.Code)
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode refusal: %v", err)
	}
	if _, ok := resp["retry_after_ms"]; !ok {
		t.Fatal("expected retry_after_ms in refusal")
	}

	// The status endpoint reports the same window, so a caller can tell
	// the trigger path is closed even once the sync has finished.
	w = doRequest(s, "GET", "/api/sync", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	ms, ok := resp["cooldown_remaining_ms"].(float64)
	if !ok || ms <= 0 {
		t.Fatalf("expected a positive cooldown_remaining_ms, got %v", resp["cooldown_remaining_ms"])
	}
}

func TestTriggerSync_EmptyBodyDefaultsIncremental(t *testing.T) {
	s := newTestServer(time.Minute)
	w := doRequest(s, "POST", "/api/sync", "")
	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", w.Code, w.Body.String())
	}
}

func TestSyncStatus(t *testing.T) {
	s := newTestServer(time.Minute)
	w := doRequest(s, "GET", "/api/sync", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		Running    bool             `json:"running"`
		RecentRuns []models.SyncRun `json:"recent_runs"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if resp.Running {
		t.Fatal("expected not running")
	}
	if len(resp.RecentRuns) != 1 {
		t.Fatalf("expected 1 recent run, got %d", len(resp.RecentRuns))
	}
}
