package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/quietnest/noise-event-service/internal/blob"
	"github.com/quietnest/noise-event-service/internal/models"
	"github.com/quietnest/noise-event-service/internal/store"
)

// fakeUploader records the last upload and returns a canned URL.
type fakeUploader struct {
	name        string
	contentType string
	body        []byte
}

func (f *fakeUploader) Upload(_ context.Context, name, contentType string, body []byte) (string, error) {
	f.name = name
	f.contentType = contentType
	f.body = body
	return "https://storage.example.com/" + name, nil
}

// newTestRouter wires every API route against the given store.
func newTestRouter(st store.Store, up blob.Uploader) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := zerolog.Nop()

	r := gin.New()
	api := r.Group("/api")
	RegisterIngest(api, st, log)
	RegisterHistory(api, st, log)
	RegisterStats(api, st, log)
	RegisterRetention(api, st, log)
	RegisterExport(api, st, up, log)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(b)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid response JSON %q: %v", w.Body.String(), err)
	}
	return out
}

// seed inserts a reading measured at the given offset from now.
func seed(t *testing.T, st store.Store, deviceID string, decibels float64, age time.Duration) models.Reading {
	t.Helper()

	now := time.Now().UTC()
	r := models.Reading{
		ID:        newReadingID(deviceID, now),
		DeviceID:  deviceID,
		Decibels:  decibels,
		Timestamp: now.Add(-age),
		CreatedAt: now,
	}
	if err := st.Insert(context.Background(), r); err != nil {
		t.Fatalf("seed insert: %v", err)
	}
	return r
}
