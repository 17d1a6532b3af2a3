package domain

import "time"

// Event types published after a committed mutation.
const (
	EventCreated = "application.created"
	EventUpdated = "application.updated"
	EventDeleted = "application.deleted"
)

// ApplicationEvent is the message body sent to the event queue.
type ApplicationEvent struct {
	Type          string    `json:"type"`
	ApplicationID uint      `json:"application_id"`
	Company       string    `json:"company,omitempty"`
	Role          string    `json:"role,omitempty"`
	Status        Status    `json:"status,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

func NewApplicationEvent(eventType string, a *Application, at time.Time) ApplicationEvent {
	return ApplicationEvent{
		Type:          eventType,
		ApplicationID: a.ID,
		Company:       a.Company,
		Role:          a.Role,
		Status:        a.Status,
		OccurredAt:    at,
	}
}
