package handlers

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/quietnest/noise-event-service/internal/models"
	"github.com/quietnest/noise-event-service/internal/store"
)

// previewDeletion counts the readings a filter would remove without
// touching them.
func previewDeletion(ctx context.Context, st store.Store, f store.Filter) (int64, error) {
	return st.Count(ctx, f)
}

// executeDeletion removes the readings matching the filter. Candidates are
// collected by id from a single read and deleted by that id list, so
// readings that arrive between the read and the delete are never affected
// even though the age cutoff is computed from "now". Irreversible.
func executeDeletion(ctx context.Context, st store.Store, f store.Filter) (int64, error) {
	rows, err := st.Query(ctx, f, 0)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}

	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	return st.DeleteByID(ctx, ids)
}

// runDeletion dispatches to preview or execute based on the dryRun toggle
// and writes the matching response shape.
func runDeletion(c *gin.Context, st store.Store, log zerolog.Logger, f store.Filter, failMsg string) {
	ctx := c.Request.Context()

	if c.Query("dryRun") == "true" {
		count, err := previewDeletion(ctx, st, f)
		if err != nil {
			fail(c, log, models.StoreFailure(failMsg, err))
			return
		}
		c.JSON(http.StatusOK, models.DeletePreviewResponse{Success: true, WouldDelete: count})
		return
	}

	deleted, err := executeDeletion(ctx, st, f)
	if err != nil {
		fail(c, log, models.StoreFailure(failMsg, err))
		return
	}

	log.Info().Int64("deleted", deleted).Str("deviceId", f.DeviceID).Msg("readings pruned")

	c.JSON(http.StatusOK, models.DeleteResponse{Success: true, Deleted: deleted})
}

// RegisterRetention registers both destructive paths. Each supports a
// dry-run preview; obtaining one before a live run is a documented client
// responsibility, not enforced server-side.
//
// DELETE /api/DeleteOldData?days=&dryRun=
// DELETE /api/DeleteDeviceData?deviceId=&dryRun=
func RegisterRetention(r gin.IRoutes, st store.Store, log zerolog.Logger) {
	// Age-based: removes readings older than now - days across all devices.
	r.DELETE("/DeleteOldData", func(c *gin.Context) {
		days, err := strconv.ParseFloat(c.Query("days"), 64)
		if err != nil || math.IsNaN(days) || math.IsInf(days, 0) || days <= 0 {
			fail(c, log, models.Invalid("days must be a positive number"))
			return
		}

		cutoff := time.Now().UTC().Add(-time.Duration(days * 86400 * float64(time.Second)))
		runDeletion(c, st, log, store.Filter{Before: cutoff}, "failed to delete old readings")
	})

	// Device-scoped: removes every reading for one device, regardless of age.
	r.DELETE("/DeleteDeviceData", func(c *gin.Context) {
		deviceID := strings.TrimSpace(c.Query("deviceId"))
		if deviceID == "" {
			fail(c, log, models.Invalid("deviceId is required"))
			return
		}

		runDeletion(c, st, log, store.Filter{DeviceID: deviceID}, "failed to delete device readings")
	})
}
