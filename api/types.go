package api

// LiveState is the remote monitor's lifecycle state. The value is owned by
// the service; the client mirrors the last fetched value and never assigns
// one locally.
type LiveState string

const (
	StateIdle      LiveState = "idle"
	StatePolling   LiveState = "polling"
	StateIngesting LiveState = "ingesting"
	StateError     LiveState = "error"
)

// LiveStatus is a snapshot of the remote monitor as returned by
// GET /live/status. Nullable fields are pointers; they are absent unless the
// service reports them. Unknown field combinations are forwarded as-is, the
// service is authoritative.
type LiveStatus struct {
	State               LiveState `json:"state"`
	Streamer            *string   `json:"streamer"`
	IsLive              *bool     `json:"is_live"`
	StartedAt           *string   `json:"started_at"`
	LastCheckAt         *string   `json:"last_check_at"`
	LastError           *string   `json:"last_error"`
	CurrentVideoID      *int64    `json:"current_video_id"`
	CurrentVODURL       *string   `json:"current_vod_url,omitempty"`
	IngestCursorSeconds *int64    `json:"ingest_cursor_seconds,omitempty"`
	LagSeconds          *int64    `json:"lag_seconds,omitempty"`
}

// SessionItem is one completed or in-progress monitoring session from
// GET /live/sessions. video_id is the unique key within a listing.
type SessionItem struct {
	VideoID     int64  `json:"video_id"`
	CreatorName string `json:"creator_name"`
	URL         string `json:"url"`
	Title       string `json:"title"`
	Processed   bool   `json:"processed"`
}

// SearchResponse is the structured result of POST /search/clip.
type SearchResponse struct {
	Found            bool     `json:"found"`
	Streamer         *string  `json:"streamer,omitempty"`
	VideoID          *int64   `json:"video_id,omitempty"`
	VideoURL         *string  `json:"video_url,omitempty"`
	Title            *string  `json:"title,omitempty"`
	TimestampSeconds *int64   `json:"timestamp_seconds,omitempty"`
	Score            *float64 `json:"score,omitempty"`
	Reason           *string  `json:"reason,omitempty"`
}

type startRequest struct {
	Streamer string `json:"streamer"`
}

type startResponse struct {
	Status LiveStatus `json:"status"`
}

type stopResponse struct {
	Stopped bool       `json:"stopped"`
	Status  LiveStatus `json:"status"`
}

type healthResponse struct {
	OK bool `json:"ok"`
}
