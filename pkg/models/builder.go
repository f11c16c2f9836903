package models

import "time"

type EventBuilder struct {
	event *Event
}

func NewEventBuilder() *EventBuilder {
	return &EventBuilder{
		event: &Event{
			Properties: make(map[string]interface{}),
			Metadata:   Metadata{},
		},
	}
}

func (b *EventBuilder) WithID(id string) *EventBuilder {
	b.event.ID = id
	return b
}

func (b *EventBuilder) WithName(name string) *EventBuilder {
	b.event.Name = name
	return b
}

func (b *EventBuilder) WithTimestamp(timestamp time.Time) *EventBuilder {
	b.event.Timestamp = timestamp
	return b
}

func (b *EventBuilder) WithProperty(key string, value interface{}) *EventBuilder {
	b.event.Properties[key] = value
	return b
}

func (b *EventBuilder) WithProperties(properties map[string]interface{}) *EventBuilder {
	b.event.Properties = properties
	return b
}

func (b *EventBuilder) WithTraceID(traceID string) *EventBuilder {
	b.event.Metadata.TraceID = traceID
	return b
}

func (b *EventBuilder) Build() *Event {
	if b.event.Timestamp.IsZero() {
		b.event.Timestamp = time.Now().UTC()
	}
	return b.event
}
