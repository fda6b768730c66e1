package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/quietnest/noise-event-service/internal/models"
	"github.com/quietnest/noise-event-service/internal/store"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 1000
)

// ascending reverses a descending-by-timestamp result into oldest-first
// order for timeline consumers. The store's canonical order stays
// descending; this transform happens only at the response boundary.
func ascending(rows []models.Reading) []models.Reading {
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	return rows
}

// queryAscending fetches the limit most recent readings for the filter and
// returns them oldest first. limit <= 0 retrieves the full matching set.
func queryAscending(ctx context.Context, st store.Store, f store.Filter, limit int) ([]models.Reading, error) {
	rows, err := st.Query(ctx, f, limit)
	if err != nil {
		return nil, err
	}
	return ascending(rows), nil
}

// RegisterHistory registers the read path.
//
// GET /api/GetNoiseHistory?deviceId=&limit=
// Returns the limit most recent readings, re-ordered ascending by
// timestamp. An empty result is a success with data=[].
func RegisterHistory(r gin.IRoutes, st store.Store, log zerolog.Logger) {
	r.GET("/GetNoiseHistory", func(c *gin.Context) {
		limit := defaultHistoryLimit
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 || n > maxHistoryLimit {
				fail(c, log, models.Invalid("limit must be an integer between 1 and %d", maxHistoryLimit))
				return
			}
			limit = n
		}

		f := store.Filter{DeviceID: strings.TrimSpace(c.Query("deviceId"))}

		rows, err := queryAscending(c.Request.Context(), st, f, limit)
		if err != nil {
			fail(c, log, models.StoreFailure("failed to query readings", err))
			return
		}
		if rows == nil {
			rows = []models.Reading{}
		}

		c.JSON(http.StatusOK, models.HistoryResponse{
			Success: true,
			Count:   len(rows),
			Data:    rows,
		})
	})
}
