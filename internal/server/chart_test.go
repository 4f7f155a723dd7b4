package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/disintegration/imaging"
)

func TestChart_UnknownStock(t *testing.T) {
	s := newTestServer(t, "", nil)

	req := httptest.NewRequest(http.MethodGet, "/stocks/NOPE/chart.png", nil)
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
}

func TestChart_RendersPNG(t *testing.T) {
	s := newTestServer(t, "", nil)
	doDeal(t, s, testKey, []any{"buy", "TEST", "25"})

	req := httptest.NewRequest(http.MethodGet, "/stocks/TEST/chart.png", nil)
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Expected image/png, got %q", ct)
	}

	img, err := imaging.Decode(rec.Body)
	if err != nil {
		t.Fatalf("Body is not a decodable image: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != chartWidth || bounds.Dy() != chartHeight {
		t.Errorf("Expected %dx%d, got %dx%d", chartWidth, chartHeight, bounds.Dx(), bounds.Dy())
	}
}

func TestChart_AllZeroWeek(t *testing.T) {
	s := newTestServer(t, "", nil)
	doDeal(t, s, testKey, []any{"get", "FLAT"})

	req := httptest.NewRequest(http.MethodGet, "/stocks/FLAT/chart.png", nil)
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 for an all-zero week, got %d", rec.Code)
	}
	if _, err := imaging.Decode(rec.Body); err != nil {
		t.Errorf("Flat chart must still decode: %v", err)
	}
}
