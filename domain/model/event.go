package model

// EventType names the messages a running batch publishes.
type EventType string

const (
	EventProgress EventType = "progress"
	EventLog      EventType = "log"
	EventQuota    EventType = "quota"
	EventComplete EventType = "complete"
	EventError    EventType = "error"
)

// Event is a {type, payload} message drained by whichever surface owns the display.
type Event struct {
	Type    EventType   `json:"type"`
	Payload interface{} `json:"payload"`
}

// ProgressPayload is published after every item.
type ProgressPayload struct {
	BatchID   string `json:"batchId"`
	Operation string `json:"operation"`
	ItemID    string `json:"itemId"`
	Done      int    `json:"done"`
	Index     int    `json:"index"`
	Total     int    `json:"total"`
	Remaining int    `json:"remainingQuota"`
	OK        bool   `json:"ok"`
}

// LogPayload carries one result-log line.
type LogPayload struct {
	BatchID string `json:"batchId"`
	Line    string `json:"line"`
}

// CompletePayload closes a batch.
type CompletePayload struct {
	BatchID   string   `json:"batchId"`
	Operation string   `json:"operation"`
	Succeeded int      `json:"succeeded"`
	Failed    int      `json:"failed"`
	Aborted   bool     `json:"aborted"`
	Lines     []string `json:"lines"`
}

// ErrorPayload reports a batch-level failure.
type ErrorPayload struct {
	BatchID string `json:"batchId"`
	Message string `json:"message"`
}
