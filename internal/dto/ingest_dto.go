package dto

import (
	"time"

	"github.com/google/uuid"
)

// ManifestEntry is one video row in the playlist manifest file.
type ManifestEntry struct {
	VideoId  string `json:"video_id"`
	VideoUrl string `json:"video_url"`
	Title    string `json:"title"`
}

// EmbedTranscriptMessage is the payload published when a transcript is
// stored and its chunks need (re)embedding.
type EmbedTranscriptMessage struct {
	TranscriptId uuid.UUID `json:"transcript_id"`
}

type ScanRequest struct {
	ManifestPath string `json:"manifest_path,omitempty"`
}

type ScanResult struct {
	Discovered int      `json:"discovered"`
	Queued     int      `json:"queued"`
	Skipped    int      `json:"skipped"`
	Missing    []string `json:"missing,omitempty"` // video ids without a transcript file
}

type IngestStatusResponse struct {
	Transcripts int64 `json:"transcripts"`
	Chunks      int64 `json:"chunks"`
}

// ProgressEvent is broadcast over the websocket hub while ingestion runs.
type ProgressEvent struct {
	Stage     string    `json:"stage"` // "scan" | "embed" | "done" | "error"
	VideoId   string    `json:"video_id,omitempty"`
	Title     string    `json:"title,omitempty"`
	Chunks    int       `json:"chunks,omitempty"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
