package scan

import "misinfoguard/internal/models"

const (
	MsgEmptyTopic   = "Please enter a topic to scan"
	MsgNoClaims     = "No misinformation found for this topic"
	MsgGenericError = "Something went wrong while analyzing the topic"
)

// ErrorKind classifies a Failed view.
type ErrorKind string

const (
	ValidationError ErrorKind = "validation"
	HTTPError       ErrorKind = "http"
	TransportError  ErrorKind = "transport"
)

// View is the controller's render state. Exactly one of Idle, Loading,
// Results, Empty or Failed.
type View interface {
	State() string
	isView()
}

type Idle struct{}

type Loading struct {
	Topic string
}

type Results struct {
	Topic  string
	Claims []models.ClaimAnalysis
	Meta   models.ScanMetadata
}

// Empty is informational: the call succeeded but reported no claims.
type Empty struct {
	Topic   string
	Message string
}

type Failed struct {
	Kind    ErrorKind
	Message string
}

func (Idle) State() string    { return "idle" }
func (Loading) State() string { return "loading" }
func (Results) State() string { return "results" }
func (Empty) State() string   { return "empty" }
func (Failed) State() string  { return "error" }

func (Idle) isView()    {}
func (Loading) isView() {}
func (Results) isView() {}
func (Empty) isView()   {}
func (Failed) isView()  {}

// Snapshot is the JSON form of a View.
type Snapshot struct {
	State   string                 `json:"state"`
	Topic   string                 `json:"topic,omitempty"`
	Message string                 `json:"message,omitempty"`
	Kind    ErrorKind              `json:"kind,omitempty"`
	Claims  []models.ClaimAnalysis `json:"claims,omitempty"`
	Meta    *models.ScanMetadata   `json:"meta,omitempty"`
}

func SnapshotOf(v View) Snapshot {
	s := Snapshot{State: v.State()}
	switch v := v.(type) {
	case Loading:
		s.Topic = v.Topic
	case Results:
		s.Topic = v.Topic
		s.Claims = v.Claims
		meta := v.Meta
		s.Meta = &meta
	case Empty:
		s.Topic = v.Topic
		s.Message = v.Message
	case Failed:
		s.Kind = v.Kind
		s.Message = v.Message
	}
	return s
}
