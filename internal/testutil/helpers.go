package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/TimurManjosov/goevidently/internal/api"
	"github.com/TimurManjosov/goevidently/internal/store"
)

// TestSalt is the rollout salt used by NewTestServer.
const TestSalt = "test-salt"

// NewTestServer creates a test server with in-memory store for testing.
// Rate limiting is disabled unless opts sets it.
func NewTestServer(t *testing.T, opts ...func(*api.Options)) (*api.Server, *store.MemoryStore) {
	t.Helper()
	memStore := store.NewMemoryStore()
	o := api.Options{RolloutSalt: TestSalt}
	for _, fn := range opts {
		fn(&o)
	}
	return api.NewServer(memStore, o), memStore
}

// HTTPRequest is a helper for making test HTTP requests.
type HTTPRequest struct {
	Method  string
	Path    string
	Body    string
	Headers map[string]string
}

// Do executes the HTTP request and returns the response recorder.
func (r *HTTPRequest) Do(t *testing.T, handler http.Handler) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if r.Body != "" {
		body = bytes.NewBufferString(r.Body)
	}
	req := httptest.NewRequest(r.Method, r.Path, body)
	if r.Body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

// DecodeJSON unmarshals a recorded response body into v.
func DecodeJSON(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("Failed to decode response %q: %v", rr.Body.String(), err)
	}
}

// SampleFeature returns the food/sushi feature used across tests:
// STRING values maguro (v1, default) and salmon (v2).
func SampleFeature() store.Feature {
	return store.Feature{
		Name:             "sushi",
		Project:          "food",
		Status:           "AVAILABLE",
		ValueType:        store.ValueTypeString,
		DefaultVariation: "v1",
		Variations: []store.Variation{
			{Name: "v1", Value: store.VariableValue{"stringValue": "maguro"}},
			{Name: "v2", Value: store.VariableValue{"stringValue": "salmon"}},
		},
	}
}

// SeedFeatures populates the store with test features.
func SeedFeatures(ctx context.Context, st store.Store, features ...store.Feature) error {
	for _, f := range features {
		if err := st.UpsertFeature(ctx, f); err != nil {
			return err
		}
	}
	return nil
}
