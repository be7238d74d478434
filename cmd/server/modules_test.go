package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/JaimeStill/facturas/pkg/lifecycle"
)

func probe(t *testing.T, router http.Handler, path string) (int, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", path, nil))

	var body status
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return rec.Code, body.Status
}

func TestHealthProbes(t *testing.T) {
	lc := lifecycle.New()
	router := buildRouter(lc)

	if code, s := probe(t, router, "/healthz"); code != http.StatusOK || s != "ok" {
		t.Errorf("healthz: got %d %s", code, s)
	}
	if code, s := probe(t, router, "/readyz"); code != http.StatusServiceUnavailable || s != "not ready" {
		t.Errorf("readyz before startup: got %d %s", code, s)
	}

	lc.WaitForStartup()
	if code, s := probe(t, router, "/readyz"); code != http.StatusOK || s != "ready" {
		t.Errorf("readyz after startup: got %d %s", code, s)
	}

	if err := lc.Shutdown(time.Second); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if code, _ := probe(t, router, "/readyz"); code != http.StatusServiceUnavailable {
		t.Errorf("readyz after shutdown: got %d", code)
	}
	if code, _ := probe(t, router, "/healthz"); code != http.StatusOK {
		t.Errorf("healthz after shutdown: got %d", code)
	}
}
