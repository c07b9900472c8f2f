package testutil

import (
	"context"
	"net/http"
	"testing"

	"github.com/TimurManjosov/goevidently/internal/api"
)

func TestNewTestServer(t *testing.T) {
	server, memStore := NewTestServer(t)

	if server == nil {
		t.Fatal("Expected non-nil server")
	}
	if memStore == nil {
		t.Fatal("Expected non-nil store")
	}

	if err := SeedFeatures(context.Background(), memStore, SampleFeature()); err != nil {
		t.Fatalf("Store should be functional: %v", err)
	}
}

func TestNewTestServer_Options(t *testing.T) {
	server, _ := NewTestServer(t, func(o *api.Options) { o.RateLimitPerIP = 1 })
	handler := server.Router()

	req := &HTTPRequest{Method: "GET", Path: "/healthz"}
	if rr := req.Do(t, handler); rr.Code != http.StatusOK {
		t.Fatalf("Expected first request to pass, got %d", rr.Code)
	}
	if rr := req.Do(t, handler); rr.Code != http.StatusTooManyRequests {
		t.Errorf("Expected second request to be throttled, got %d", rr.Code)
	}
}

func TestHTTPRequest_Do(t *testing.T) {
	server, _ := NewTestServer(t)
	handler := server.Router()

	req := &HTTPRequest{
		Method: "GET",
		Path:   "/healthz",
	}

	rr := req.Do(t, handler)

	if rr.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rr.Code)
	}
	if rr.Body.String() != "ok" {
		t.Errorf("Expected body 'ok', got '%s'", rr.Body.String())
	}
}

func TestHTTPRequest_DoWithBody(t *testing.T) {
	server, memStore := NewTestServer(t)
	if err := SeedFeatures(context.Background(), memStore, SampleFeature()); err != nil {
		t.Fatal(err)
	}

	req := &HTTPRequest{
		Method: "POST",
		Path:   "/projects/food/evaluations/sushi",
		Body:   `{"entityId":"user-1"}`,
	}
	rr := req.Do(t, server.Router())

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp map[string]any
	DecodeJSON(t, rr, &resp)
	if resp["variation"] != "v1" {
		t.Errorf("Expected variation 'v1', got %v", resp["variation"])
	}
}
