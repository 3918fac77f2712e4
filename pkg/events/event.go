package events

import "time"

const (
	TypeDocumentIndexed = "document.indexed"
	TypeClassCreated    = "class.created"
	TypeIndexRebuilt    = "index.rebuilt"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the subject suffix for this event, e.g. "class.created".
	EventType() string

	Payload() map[string]interface{}

	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

func DocumentIndexed(filename string, chunksAdded int) BaseEvent {
	now := time.Now()
	return BaseEvent{
		Type: TypeDocumentIndexed,
		Data: map[string]interface{}{
			"filename":     filename,
			"chunks_added": chunksAdded,
			"occurred_at":  now,
		},
		OccurredAt: now,
	}
}

func ClassCreated(classId int, instructorName, className, startTime string) BaseEvent {
	now := time.Now()
	return BaseEvent{
		Type: TypeClassCreated,
		Data: map[string]interface{}{
			"class_id":        classId,
			"instructor_name": instructorName,
			"class_name":      className,
			"start_time":      startTime,
			"occurred_at":     now,
		},
		OccurredAt: now,
	}
}

func IndexRebuilt(jobId string, chunks int) BaseEvent {
	now := time.Now()
	return BaseEvent{
		Type: TypeIndexRebuilt,
		Data: map[string]interface{}{
			"job_id":      jobId,
			"chunks":      chunks,
			"occurred_at": now,
		},
		OccurredAt: now,
	}
}
