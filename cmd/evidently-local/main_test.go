package main

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/TimurManjosov/goevidently/internal/config"
	"github.com/TimurManjosov/goevidently/internal/store"
	"github.com/TimurManjosov/goevidently/internal/telemetry"
)

func setEnv(t *testing.T, storeType string) {
	t.Helper()
	t.Setenv("APP_ENV", "dev")
	t.Setenv("STORE_TYPE", storeType)
	t.Setenv("DATA_DIR", filepath.Join("..", "..", "data"))
	t.Setenv("DB_DSN", "")
	t.Setenv("ROLLOUT_SALT", "test-salt")
	t.Setenv("RATE_LIMIT_PER_IP", "0")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("EVIDENTLY_LOCAL_ADDR", "127.0.0.1:0")
	t.Setenv("METRICS_ADDR", "127.0.0.1:0")
}

func TestNewServers_ServeBundledData(t *testing.T) {
	setEnv(t, "memory")
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	st, err := store.NewStore(context.Background(), cfg.StoreType, cfg.DataDir, cfg.DatabaseDSN)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	defer st.Close()

	telemetry.Init()
	srv, metricsSrv := newServers(cfg, st, zerolog.Nop())
	if srv.Addr != "127.0.0.1:0" || metricsSrv.Addr != "127.0.0.1:0" {
		t.Errorf("Expected configured addresses, got %s and %s", srv.Addr, metricsSrv.Addr)
	}

	rr := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/projects/food/evaluations/sushi", strings.NewReader(`{"entityId":"user-salmon"}`))
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), `"reason":"OVERRIDE_RULE (local)"`) {
		t.Errorf("Expected override for user-salmon, got %s", rr.Body.String())
	}

	rr = httptest.NewRecorder()
	metricsSrv.Handler.ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", nil))
	if !strings.Contains(rr.Body.String(), "evidently_evaluations_total") {
		t.Error("Expected evaluation counter in metrics output")
	}
}

func TestRun_StopsWhenContextDone(t *testing.T) {
	setEnv(t, "file")
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- run(ctx, io.Discard) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Expected clean shutdown, got %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("run did not return after cancel")
	}
}

func TestRun_ListenError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	setEnv(t, "file")
	t.Setenv("EVIDENTLY_LOCAL_ADDR", ln.Addr().String())

	done := make(chan error, 1)
	go func() { done <- run(context.Background(), io.Discard) }()

	select {
	case err := <-done:
		if err == nil || !strings.Contains(err.Error(), "api server") {
			t.Errorf("Expected api server listen error, got %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("run did not return on listen error")
	}
}

func TestRun_InvalidConfig(t *testing.T) {
	setEnv(t, "bogus")

	err := run(context.Background(), io.Discard)
	var ve config.ValidationError
	if !errors.As(err, &ve) || ve.Field != "STORE_TYPE" {
		t.Errorf("Expected STORE_TYPE validation error, got %v", err)
	}
}
