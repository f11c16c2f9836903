package models

import "time"

type Event struct {
	ID         string                 `json:"id"`
	Name       string                 `json:"name"`
	Timestamp  time.Time              `json:"timestamp"`
	Properties map[string]interface{} `json:"properties"` // Business data
	Metadata   Metadata               `json:"metadata"`   // Pipeline metadata (trace_id)
}

type Metadata struct {
	TraceID string `json:"trace_id,omitempty"`
}
