package handlers

import (
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/quietnest/noise-event-service/internal/models"
	"github.com/quietnest/noise-event-service/internal/store"
)

// newReadingID builds a collision-resistant record id. Device id and
// millisecond timestamp alone collide under rapid writes from the same
// device, so a random suffix is appended.
func newReadingID(deviceID string, now time.Time) string {
	return fmt.Sprintf("%s_%d_%s", deviceID, now.UnixMilli(), uuid.NewString()[:8])
}

// parseTimestamp parses a caller-supplied RFC3339 instant and normalizes it
// to UTC.
func parseTimestamp(ts string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// RegisterIngest registers the write path.
//
// POST /api/ReceiveNoiseData
// - Validates before any store interaction
// - Durable: 201 only after the store insert completes
// - decibels = 0 is a valid reading; only a missing or non-finite number is
//   rejected
func RegisterIngest(r gin.IRoutes, st store.Store, log zerolog.Logger) {
	r.POST("/ReceiveNoiseData", func(c *gin.Context) {
		var req models.IngestRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, log, models.Invalid("invalid JSON payload"))
			return
		}

		deviceID := strings.TrimSpace(req.DeviceID)
		if deviceID == "" {
			fail(c, log, models.Invalid("deviceId is required"))
			return
		}
		if req.Decibels == nil {
			fail(c, log, models.Invalid("decibels is required"))
			return
		}
		if math.IsNaN(*req.Decibels) || math.IsInf(*req.Decibels, 0) {
			fail(c, log, models.Invalid("decibels must be a finite number"))
			return
		}

		now := time.Now().UTC()

		ts := now
		if req.Timestamp != "" {
			parsed, err := parseTimestamp(req.Timestamp)
			if err != nil {
				fail(c, log, models.Invalid("timestamp must be RFC3339"))
				return
			}
			ts = parsed
		}

		reading := models.Reading{
			ID:        newReadingID(deviceID, now),
			DeviceID:  deviceID,
			Decibels:  *req.Decibels,
			Timestamp: ts,
			CreatedAt: now,
		}

		if err := st.Insert(c.Request.Context(), reading); err != nil {
			fail(c, log, models.StoreFailure("failed to save reading", err))
			return
		}

		log.Debug().Str("deviceId", deviceID).Str("id", reading.ID).Msg("reading ingested")

		c.JSON(http.StatusCreated, models.IngestResponse{
			Success: true,
			Data:    reading,
		})
	})
}
