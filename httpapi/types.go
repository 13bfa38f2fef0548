package httpapi

import "encoding/json"

// SyncItem is one queued record on the wire. The payload is the flat record
// object (domain fields beside id and ts) exactly as it was snapshotted at
// save time.
type SyncItem struct {
	ID      string          `json:"id"`
	Store   string          `json:"store"`
	Payload json.RawMessage `json:"payload"`
	TS      int64           `json:"ts"`
}

// SyncBatch is the body of POST /api/sync/batch.
type SyncBatch struct {
	Items []SyncItem `json:"items"`
}

// SyncResult is the server's acknowledgement of a batch.
type SyncResult struct {
	OK    bool `json:"ok"`
	Count int  `json:"count"`
}

// PingResponse reports server liveness and per-collection row counts.
type PingResponse struct {
	OK      bool           `json:"ok"`
	Service string         `json:"service"`
	Version string         `json:"version"`
	DB      string         `json:"db"`
	Time    string         `json:"time"`
	Counts  map[string]int `json:"counts"`
}

// ExportRequest is the body of POST /api/export/xlsx. Rows are maps keyed by
// the header names; missing cells render empty.
type ExportRequest struct {
	Headers  []string            `json:"headers"`
	Rows     []map[string]string `json:"rows"`
	Filename string              `json:"filename"`
	Sheet    string              `json:"sheet"`
	RTL      bool                `json:"rtl"`
}
