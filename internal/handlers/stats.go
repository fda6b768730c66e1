package handlers

import (
	"math"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/quietnest/noise-event-service/internal/models"
	"github.com/quietnest/noise-event-service/internal/store"
)

// computeStats aggregates a device's readings. rows must be ordered
// descending by timestamp (the store's canonical order), so the latest
// reading is rows[0]. Aggregation always runs over the entire set; a
// result-size cap here would silently corrupt min/max/average.
func computeStats(rows []models.Reading) models.DeviceStats {
	if len(rows) == 0 {
		return models.DeviceStats{}
	}

	latest := rows[0]
	min, max := rows[0].Decibels, rows[0].Decibels
	var sum float64
	for _, r := range rows {
		sum += r.Decibels
		if r.Decibels < min {
			min = r.Decibels
		}
		if r.Decibels > max {
			max = r.Decibels
		}
	}

	return models.DeviceStats{
		Count:   len(rows),
		Average: math.Round(sum/float64(len(rows))*100) / 100,
		Max:     max,
		Min:     min,
		Latest:  &latest,
	}
}

// RegisterStats registers the aggregation path.
//
// GET /api/GetDeviceStats?deviceId=
// A device with no readings yields a zero-count success, not an error.
func RegisterStats(r gin.IRoutes, st store.Store, log zerolog.Logger) {
	r.GET("/GetDeviceStats", func(c *gin.Context) {
		deviceID := strings.TrimSpace(c.Query("deviceId"))
		if deviceID == "" {
			fail(c, log, models.Invalid("deviceId is required"))
			return
		}

		// Unbounded query: stats must cover the full matching set.
		rows, err := st.Query(c.Request.Context(), store.Filter{DeviceID: deviceID}, 0)
		if err != nil {
			fail(c, log, models.StoreFailure("failed to query readings", err))
			return
		}

		c.JSON(http.StatusOK, models.StatsResponse{
			Success: true,
			Stats:   computeStats(rows),
		})
	})
}
