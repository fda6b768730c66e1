package handlers

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/quietnest/noise-event-service/internal/blob"
	"github.com/quietnest/noise-event-service/internal/models"
	"github.com/quietnest/noise-event-service/internal/store"
)

// exportCSV serializes readings with the fixed header row. Field values are
// quoted per RFC 4180 by encoding/csv. An empty set yields the header only.
func exportCSV(rows []models.Reading) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"id", "deviceId", "decibels", "timestamp", "createdAt"}); err != nil {
		return nil, err
	}
	for _, r := range rows {
		record := []string{
			r.ID,
			r.DeviceID,
			strconv.FormatFloat(r.Decibels, 'f', -1, 64),
			r.Timestamp.UTC().Format(time.RFC3339Nano),
			r.CreatedAt.UTC().Format(time.RFC3339Nano),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

// exportJSON serializes readings as a JSON array with exact field names.
// An empty set yields [] rather than null.
func exportJSON(rows []models.Reading) ([]byte, error) {
	if rows == nil {
		rows = []models.Reading{}
	}
	return json.Marshal(rows)
}

// exportName embeds the device filter (or "all") and a timestamp so stored
// artifacts never overwrite each other.
func exportName(deviceID, ext string, now time.Time) string {
	scope := deviceID
	if scope == "" {
		scope = "all"
	}
	return fmt.Sprintf("noise-export-%s-%s.%s", scope, now.UTC().Format("20060102T150405Z"), ext)
}

// RegisterExport registers the bulk export path.
//
// GET /api/ExportHistory?format=csv|json&deviceId=&saveToStorage=
// Exports the full matching set ascending by timestamp, unbounded by the
// dashboard's display limit. With saveToStorage the artifact is persisted
// to blob storage and JSON metadata is returned instead of the raw file.
func RegisterExport(r gin.IRoutes, st store.Store, up blob.Uploader, log zerolog.Logger) {
	r.GET("/ExportHistory", func(c *gin.Context) {
		format := c.Query("format")

		var contentType, ext string
		switch format {
		case "csv":
			contentType, ext = "text/csv", "csv"
		case "json":
			contentType, ext = "application/json", "json"
		default:
			fail(c, log, models.Invalid(`format must be "csv" or "json"`))
			return
		}

		deviceID := strings.TrimSpace(c.Query("deviceId"))

		rows, err := queryAscending(c.Request.Context(), st, store.Filter{DeviceID: deviceID}, 0)
		if err != nil {
			fail(c, log, models.StoreFailure("failed to query readings", err))
			return
		}

		var payload []byte
		if ext == "csv" {
			payload, err = exportCSV(rows)
		} else {
			payload, err = exportJSON(rows)
		}
		if err != nil {
			fail(c, log, models.StoreFailure("failed to serialize export", err))
			return
		}

		name := exportName(deviceID, ext, time.Now())

		if c.Query("saveToStorage") == "true" {
			if up == nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "export storage is not configured"})
				return
			}

			url, err := up.Upload(c.Request.Context(), name, contentType, payload)
			if err != nil {
				fail(c, log, models.StoreFailure("failed to store export", err))
				return
			}

			log.Info().Str("blob", name).Int("records", len(rows)).Msg("export stored")

			c.JSON(http.StatusOK, models.ExportStoredResponse{
				Success:     true,
				RecordCount: len(rows),
				BlobName:    name,
				DownloadURL: url,
			})
			return
		}

		c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
		c.Data(http.StatusOK, contentType, payload)
	})
}
