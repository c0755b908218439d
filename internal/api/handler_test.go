package api

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rpattn/neoql/internal/domain"
	"github.com/rpattn/neoql/internal/export"
	"github.com/rpattn/neoql/internal/repository"
)

func testHandler() *Handler {
	neos := []*domain.NearEarthObject{
		domain.NewNearEarthObject("433", "Eros", 16.84, false),
		domain.NewNearEarthObject("99942", "Apophis", 0.34, true),
		domain.NewNearEarthObject("2020 AB", "", math.NaN(), false),
	}
	base := time.Date(2029, 4, 13, 21, 46, 0, 0, time.UTC)
	approaches := []*domain.CloseApproach{
		domain.NewCloseApproach("99942", base, 0.00025, 7.42),
		domain.NewCloseApproach("433", base.AddDate(-2, 0, 0), 0.15, 5.26),
		domain.NewCloseApproach("2020 AB", base.AddDate(1, 0, 0), 0.3, 12.1),
	}
	db := repository.NewNeoDatabase(neos, approaches)
	return NewHandler(db, export.NewService())
}

type queryResponse struct {
	Count   int               `json:"count"`
	Results []ApproachPayload `json:"results"`
}

func doRequest(t *testing.T, h *Handler, method, target string, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)
	return rec
}

func TestNeoByDesignation(t *testing.T) {
	h := testHandler()

	rec := doRequest(t, h, http.MethodGet, "/api/neo/433", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var payload NeoPayload
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Name != "Eros" {
		t.Fatalf("expected Eros, got %q", payload.Name)
	}
	if payload.DiameterKm == nil || *payload.DiameterKm != 16.84 {
		t.Fatalf("unexpected diameter: %v", payload.DiameterKm)
	}
	if len(payload.Approaches) != 1 {
		t.Fatalf("expected 1 approach, got %d", len(payload.Approaches))
	}
}

func TestNeoByDesignationNotFound(t *testing.T) {
	h := testHandler()

	rec := doRequest(t, h, http.MethodGet, "/api/neo/77777", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "77777") {
		t.Fatalf("error body must name the designation: %s", rec.Body.String())
	}
}

func TestNeoByName(t *testing.T) {
	h := testHandler()

	rec := doRequest(t, h, http.MethodGet, "/api/neo?name=Apophis", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var payload NeoPayload
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Designation != "99942" {
		t.Fatalf("expected 99942, got %q", payload.Designation)
	}

	if rec := doRequest(t, h, http.MethodGet, "/api/neo?name=", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("missing name must be rejected, got %d", rec.Code)
	}
}

func TestApproachesQuery(t *testing.T) {
	h := testHandler()

	rec := doRequest(t, h, http.MethodGet, "/api/approaches?distance_max=0.2&limit=1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp queryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Count != 1 {
		t.Fatalf("expected 1 result, got %d", resp.Count)
	}
	if resp.Results[0].Designation != "99942" {
		t.Fatalf("expected first matching approach, got %q", resp.Results[0].Designation)
	}
}

func TestApproachesQueryEmptyCriteria(t *testing.T) {
	h := testHandler()

	rec := doRequest(t, h, http.MethodGet, "/api/approaches", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp queryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Count != 3 {
		t.Fatalf("no criteria must return everything, got %d", resp.Count)
	}
}

func TestApproachesQueryInvalidParams(t *testing.T) {
	h := testHandler()

	cases := []string{
		"/api/approaches?distance_max=abc",
		"/api/approaches?date=13-04-2029",
		"/api/approaches?hazardous=maybe",
		"/api/approaches?limit=-1",
		"/api/approaches?sort=designation",
		"/api/approaches?distance_min=0.5&distance_max=0.1",
	}
	for _, target := range cases {
		if rec := doRequest(t, h, http.MethodGet, target, ""); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", target, rec.Code)
		}
	}
}

func TestQueryBodyHazardousTriState(t *testing.T) {
	h := testHandler()

	rec := doRequest(t, h, http.MethodPost, "/api/query", `{"hazardous": false}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp queryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Count != 2 {
		t.Fatalf("hazardous=false must keep only non-hazardous approaches, got %d", resp.Count)
	}
	for _, result := range resp.Results {
		if result.Hazardous {
			t.Fatalf("hazardous approach %q leaked through", result.Designation)
		}
	}

	rec = doRequest(t, h, http.MethodPost, "/api/query", `{}`)
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Count != 3 {
		t.Fatalf("absent hazardous must match everything, got %d", resp.Count)
	}
}

func TestQueryBodySortDescending(t *testing.T) {
	h := testHandler()

	rec := doRequest(t, h, http.MethodPost, "/api/query", `{"sort": "velocity", "order": "desc"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp queryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	for i := 1; i < len(resp.Results); i++ {
		if resp.Results[i].VelocityKmS > resp.Results[i-1].VelocityKmS {
			t.Fatalf("results not in descending velocity order")
		}
	}
}

func TestExportCSV(t *testing.T) {
	h := testHandler()

	rec := doRequest(t, h, http.MethodGet, "/api/query/export?format=csv&hazardous=true", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != "text/csv" {
		t.Fatalf("unexpected content type %q", got)
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "approaches.csv") {
		t.Fatalf("unexpected content disposition %q", got)
	}

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus 1 row, got %d lines", len(lines))
	}
	if !strings.Contains(lines[1], "99942") {
		t.Fatalf("expected the Apophis approach, got %q", lines[1])
	}
}

func TestExportUnknownFormat(t *testing.T) {
	h := testHandler()

	rec := doRequest(t, h, http.MethodGet, "/api/query/export?format=pdf", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	h := testHandler()

	rec := doRequest(t, h, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Fatalf("unexpected health body: %s", rec.Body.String())
	}
}
