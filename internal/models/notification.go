package models

// Notification is an activity log entry surfaced in the notification panel.
// Only IsRead ever changes, and only through mark-read calls.
type Notification struct {
	ID         int64          `json:"id"`
	ActionType string         `json:"action_type"`
	Message    string         `json:"message"`
	Username   *string        `json:"username"`
	UserID     *int64         `json:"user_id"`
	Details    map[string]any `json:"details,omitempty"`
	Timestamp  Timestamp      `json:"timestamp"`
	IsRead     bool           `json:"is_read"`
}

// Ack is the acknowledgement returned by mark-read endpoints.
type Ack struct {
	Message string `json:"message"`
}
