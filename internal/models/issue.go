// Package models defines the wire types exchanged with the tracker backend
// and client-side validation for outbound payloads. The backend owns the
// schemas; these types mirror them and add nothing.
package models

import "time"

type Severity string

const (
	SeverityLow    Severity = "LOW"
	SeverityMedium Severity = "MEDIUM"
	SeverityHigh   Severity = "HIGH"
)

type Status string

const (
	StatusOpen       Status = "OPEN"
	StatusTriaged    Status = "TRIAGED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
)

type Priority string

const (
	PriorityBlocker  Priority = "BLOCKER"
	PriorityCritical Priority = "CRITICAL"
	PriorityMinor    Priority = "MINOR"
	PriorityTrivial  Priority = "TRIVIAL"
)

// Issue is a single tracked issue as the backend reports it. Issues are
// only ever replaced wholesale from a server response, never patched
// together on the client.
type Issue struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Severity    Severity  `json:"severity"`
	Status      Status    `json:"status"`
	Priority    Priority  `json:"priority,omitempty"`
	FilePath    string    `json:"file_path,omitempty"`
	ReporterID  int64     `json:"reporter_id"`
	CreatedAt   time.Time `json:"created_at"`
	Tags        []string  `json:"tags"`
}

// IssueUpdate is the PATCH body for status/priority changes. Zero-valued
// fields are omitted so the backend treats them as "unchanged".
type IssueUpdate struct {
	Status   Status   `json:"status,omitempty" validate:"omitempty,oneof=OPEN TRIAGED IN_PROGRESS DONE"`
	Priority Priority `json:"priority,omitempty" validate:"omitempty,oneof=BLOCKER CRITICAL MINOR TRIVIAL"`
}
