package router

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/driverdesk/internal/domain/model"
	"github.com/polkiloo/driverdesk/internal/server/http/handlers"
	"github.com/polkiloo/driverdesk/internal/server/http/middleware"
	testhelpers "github.com/polkiloo/driverdesk/internal/test"
	"github.com/polkiloo/driverdesk/internal/usecase"
)

func newEngine(t *testing.T, facade testhelpers.DispatchFacadeStub) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return Setup(facade, slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

func TestSetupRoutes(t *testing.T) {
	engine := newEngine(t, testhelpers.DispatchFacadeStub{})

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/healthz", http.StatusOK},
		{http.MethodGet, "/drivers/d1", http.StatusOK},
		{http.MethodPost, "/drivers/d1/orders/7/accept", http.StatusSeeOther},
		{http.MethodPost, "/drivers/d1/orders/7/reject", http.StatusSeeOther},
		{http.MethodGet, "/api/drivers/d1/orders", http.StatusOK},
		{http.MethodPost, "/api/drivers/d1/orders/7/accept", http.StatusNoContent},
		{http.MethodPost, "/api/drivers/d1/orders/7/reject", http.StatusNoContent},
		{http.MethodGet, "/api/drivers/d1/unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		resp := httptest.NewRecorder()
		engine.ServeHTTP(resp, httptest.NewRequest(tt.method, tt.path, nil))
		if resp.Code != tt.status {
			t.Fatalf("%s %s: expected %d, got %d", tt.method, tt.path, tt.status, resp.Code)
		}
		if resp.Header().Get(middleware.RequestIDHeader) == "" {
			t.Fatalf("%s %s: expected request id header", tt.method, tt.path)
		}
	}
}

func TestSetupCompressesJSON(t *testing.T) {
	engine := newEngine(t, testhelpers.DispatchFacadeStub{SnapshotFn: func(_ context.Context, id string, _ *model.Tab) (usecase.Snapshot, error) {
		return usecase.Snapshot{DriverID: id, Driver: &model.Driver{ID: id, Name: "Dana"}, ActiveTab: model.TabPending}, nil
	}})

	req := httptest.NewRequest(http.MethodGet, "/api/drivers/d1/orders", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)

	if resp.Header().Get("Content-Encoding") != "gzip" {
		t.Fatalf("expected gzip response")
	}
	zr, err := gzip.NewReader(resp.Body)
	if err != nil {
		t.Fatalf("gzip reader: %v", err)
	}
	var body map[string]any
	if err := json.NewDecoder(zr).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["active_tab"] != "pending" {
		t.Fatalf("unexpected body %v", body)
	}
}

type streamRecorder struct {
	*httptest.ResponseRecorder
	closed chan bool
}

func (r *streamRecorder) CloseNotify() <-chan bool {
	return r.closed
}

func TestSetupDoesNotCompressEvents(t *testing.T) {
	engine := newEngine(t, testhelpers.DispatchFacadeStub{})

	req := httptest.NewRequest(http.MethodGet, "/api/drivers/d1/events", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	resp := &streamRecorder{ResponseRecorder: httptest.NewRecorder(), closed: make(chan bool, 1)}
	engine.ServeHTTP(resp, req)

	if resp.Header().Get("Content-Encoding") == "gzip" {
		t.Fatalf("event stream must not be compressed")
	}
	if !strings.Contains(resp.Body.String(), "event:snapshot") {
		t.Fatalf("expected plain snapshot event, got %q", resp.Body.String())
	}
}

var _ handlers.DispatchFacade = testhelpers.DispatchFacadeStub{}
