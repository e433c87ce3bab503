// Package queue defines message payloads exchanged over the message broker.
package queue

// EnrollmentChangedEvent is published when a user joins or drops a
// seminar. It carries enough information for downstream consumers to
// log or notify without querying the primary database.
type EnrollmentChangedEvent struct {
	Action      string `json:"action"` // "joined" or "dropped"
	UserID      uint64 `json:"user_id"`
	Username    string `json:"username"`
	SeminarID   uint64 `json:"seminar_id"`
	SeminarName string `json:"seminar_name"`
	Role        string `json:"role"` // "participant" or "instructor"
	OccurredAt  string `json:"occurred_at"`
}
