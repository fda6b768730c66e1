package models

import "time"

// Reading is one ingested noise-level measurement. Records are immutable
// once written: there is no update path, only insertion and deletion.
//
// JSON field names are part of the wire contract consumed by the dashboard
// client and must not change.
type Reading struct {
	ID        string    `json:"id" bson:"_id"`
	DeviceID  string    `json:"deviceId" bson:"deviceId"`
	Decibels  float64   `json:"decibels" bson:"decibels"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// IngestRequest is the POST /api/ReceiveNoiseData payload.
// Decibels is a pointer so a missing field can be told apart from a valid
// zero reading. Timestamp is optional and defaults to ingestion time.
type IngestRequest struct {
	DeviceID  string   `json:"deviceId"`
	Decibels  *float64 `json:"decibels"`
	Timestamp string   `json:"timestamp,omitempty"`
}

// IngestResponse is returned by POST /api/ReceiveNoiseData on success.
type IngestResponse struct {
	Success bool    `json:"success"`
	Data    Reading `json:"data"`
}

// HistoryResponse is returned by GET /api/GetNoiseHistory. Data is ordered
// ascending by timestamp (oldest first) so clients can plot a left-to-right
// timeline without re-sorting. Count is len(Data), not the store size.
type HistoryResponse struct {
	Success bool      `json:"success"`
	Count   int       `json:"count"`
	Data    []Reading `json:"data"`
}

// DeviceStats aggregates every stored reading for one device.
// Average is the arithmetic mean of decibels rounded to 2 decimal places.
// Latest is the reading with the greatest timestamp, nil when Count is 0.
type DeviceStats struct {
	Count   int      `json:"count"`
	Average float64  `json:"average"`
	Max     float64  `json:"max"`
	Min     float64  `json:"min"`
	Latest  *Reading `json:"latest,omitempty"`
}

// StatsResponse is returned by GET /api/GetDeviceStats. A device with no
// readings yields Success=true and Stats.Count=0, not an error.
type StatsResponse struct {
	Success bool        `json:"success"`
	Stats   DeviceStats `json:"stats"`
}

// DeletePreviewResponse is the dry-run result of a deletion: the number of
// readings that would be removed, with nothing actually deleted.
type DeletePreviewResponse struct {
	Success     bool  `json:"success"`
	WouldDelete int64 `json:"wouldDelete"`
}

// DeleteResponse is the result of a live deletion.
type DeleteResponse struct {
	Success bool  `json:"success"`
	Deleted int64 `json:"deleted"`
}

// ExportStoredResponse is returned by GET /api/ExportHistory when
// saveToStorage is set: metadata about the persisted artifact instead of
// the raw file bytes.
type ExportStoredResponse struct {
	Success     bool   `json:"success"`
	RecordCount int    `json:"recordCount"`
	BlobName    string `json:"blobName"`
	DownloadURL string `json:"downloadUrl"`
}
