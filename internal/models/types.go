package models

import "time"

type Verdict string

const (
	VerdictMisinformation Verdict = "MISINFORMATION"
	VerdictVerified       Verdict = "VERIFIED"
	VerdictUncertain      Verdict = "UNCERTAIN"
)

type Evidence struct {
	URL     string `json:"url,omitempty"`
	Title   string `json:"title,omitempty"`
	Snippet string `json:"snippet,omitempty"`
}

type ClaimAnalysis struct {
	Claim       string     `json:"claim"`
	Verdict     Verdict    `json:"verdict,omitempty"`
	Confidence  float64    `json:"confidence"`
	Explanation string     `json:"explanation"`
	Evidence    []Evidence `json:"evidence,omitempty"`
	AnalyzedAt  *time.Time `json:"analyzed_at,omitempty"`
	Cached      bool       `json:"cached,omitempty"`
}

type AnalysisRequest struct {
	Topic string `json:"topic"`
}

type AnalysisResponse struct {
	Claims         []ClaimAnalysis `json:"claims"`
	Topic          string          `json:"topic,omitempty"`
	AnalyzedAt     *time.Time      `json:"analyzed_at,omitempty"`
	ProcessingTime float64         `json:"processing_time"`
	Cached         bool            `json:"cached"`
}

// ScanMetadata is derived from the response body plus the X-Trace-ID header.
type ScanMetadata struct {
	Cached         bool    `json:"cached"`
	ProcessingTime float64 `json:"processingTime"`
	TraceID        string  `json:"traceId,omitempty"`
	RequestID      string  `json:"requestId,omitempty"`
}

type Health struct {
	Status  string            `json:"status"`
	Version string            `json:"version,omitempty"`
	Agents  map[string]string `json:"agents,omitempty"`
}
