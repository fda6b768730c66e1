package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/quietnest/noise-event-service/internal/models"
	"github.com/quietnest/noise-event-service/internal/store"
)

func TestExport_EmptyCSVIsHeaderOnly(t *testing.T) {
	st := store.NewMemoryStore()
	r := newTestRouter(st, nil)

	w := doJSON(t, r, http.MethodGet, "/api/ExportHistory?format=csv", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	if got := w.Body.String(); got != "id,deviceId,decibels,timestamp,createdAt\n" {
		t.Fatalf("expected header-only CSV, got %q", got)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("unexpected content type %q", ct)
	}
}

func TestExport_EmptyJSONIsEmptyArray(t *testing.T) {
	st := store.NewMemoryStore()
	r := newTestRouter(st, nil)

	w := doJSON(t, r, http.MethodGet, "/api/ExportHistory?format=json", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	if got := strings.TrimSpace(w.Body.String()); got != "[]" {
		t.Fatalf("expected [], got %q", got)
	}
}

func TestExport_CSVEscapesEmbeddedDelimiters(t *testing.T) {
	rows := []models.Reading{{
		ID:        "dev,1_123_abc",
		DeviceID:  `dev "one"`,
		Decibels:  55.5,
		Timestamp: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		CreatedAt: time.Date(2026, 8, 1, 12, 0, 1, 0, time.UTC),
	}}

	out, err := exportCSV(rows)
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 row, got %d lines", len(lines))
	}
	if !strings.Contains(lines[1], `"dev,1_123_abc"`) {
		t.Fatalf("comma not quoted: %q", lines[1])
	}
	if !strings.Contains(lines[1], `"dev ""one"""`) {
		t.Fatalf("quotes not escaped: %q", lines[1])
	}
}

func TestExport_JSONRoundTripsAscending(t *testing.T) {
	st := store.NewMemoryStore()
	r := newTestRouter(st, nil)

	seed(t, st, "dev-a", 40, 2*time.Hour)
	seed(t, st, "dev-a", 60, time.Hour)
	seed(t, st, "dev-b", 90, time.Hour)

	w := doJSON(t, r, http.MethodGet, "/api/ExportHistory?format=json&deviceId=dev-a", nil)

	var rows []models.Reading
	if err := json.Unmarshal(w.Body.Bytes(), &rows); err != nil {
		t.Fatalf("invalid export JSON: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("device filter failed: %d rows", len(rows))
	}
	if !rows[0].Timestamp.Before(rows[1].Timestamp) {
		t.Fatal("export not ascending by timestamp")
	}
	if rows[0].Decibels != 40 || rows[1].Decibels != 60 {
		t.Fatalf("unexpected values: %+v", rows)
	}
}

func TestExport_DeviceFilterTrimsWhitespace(t *testing.T) {
	st := store.NewMemoryStore()
	r := newTestRouter(st, nil)

	seed(t, st, "dev-a", 55, time.Hour)

	w := doJSON(t, r, http.MethodGet, "/api/ExportHistory?format=json&deviceId=%20dev-a%20", nil)

	var rows []models.Reading
	if err := json.Unmarshal(w.Body.Bytes(), &rows); err != nil {
		t.Fatalf("invalid export JSON: %v", err)
	}
	if len(rows) != 1 || rows[0].DeviceID != "dev-a" {
		t.Fatalf("padded deviceId did not match: %+v", rows)
	}
}

func TestExport_UnknownFormat(t *testing.T) {
	st := store.NewMemoryStore()
	r := newTestRouter(st, nil)

	for _, format := range []string{"", "xml", "CSV"} {
		w := doJSON(t, r, http.MethodGet, "/api/ExportHistory?format="+format, nil)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("format=%q expected 400 got %d", format, w.Code)
		}
	}
}

func TestExport_SaveToStorageReturnsMetadata(t *testing.T) {
	st := store.NewMemoryStore()
	up := &fakeUploader{}
	r := newTestRouter(st, up)

	seed(t, st, "dev-a", 62, time.Hour)

	w := doJSON(t, r, http.MethodGet, "/api/ExportHistory?format=csv&deviceId=dev-a&saveToStorage=true", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", w.Code, w.Body.String())
	}

	resp := decode[models.ExportStoredResponse](t, w)
	if !resp.Success || resp.RecordCount != 1 {
		t.Fatalf("unexpected metadata: %+v", resp)
	}
	if !strings.HasPrefix(resp.BlobName, "noise-export-dev-a-") || !strings.HasSuffix(resp.BlobName, ".csv") {
		t.Fatalf("artifact name missing device scope: %q", resp.BlobName)
	}
	if resp.DownloadURL == "" {
		t.Fatal("expected a download URL")
	}
	if up.contentType != "text/csv" || len(up.body) == 0 {
		t.Fatalf("uploader received %q with %d bytes", up.contentType, len(up.body))
	}
}

func TestExport_SaveToStorageUnconfigured(t *testing.T) {
	st := store.NewMemoryStore()
	r := newTestRouter(st, nil)

	w := doJSON(t, r, http.MethodGet, "/api/ExportHistory?format=json&saveToStorage=true", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", w.Code)
	}
}
