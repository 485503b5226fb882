package domain

// Status is a task's lifecycle state. The value is the label persisted in
// snapshots.
type Status string

const (
	StatusNotStarted Status = "Not Started"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
)

// Statuses lists the known statuses in lifecycle order.
var Statuses = []Status{StatusNotStarted, StatusInProgress, StatusCompleted}

var statusAliases = map[string]Status{
	"Not Started": StatusNotStarted,
	"NotStarted":  StatusNotStarted,
	"In Progress": StatusInProgress,
	"InProgress":  StatusInProgress,
	"Completed":   StatusCompleted,
}

// ParseStatus maps a stored label or compact identifier to its Status.
// Matching is case-sensitive.
func ParseStatus(s string) (Status, bool) {
	status, ok := statusAliases[s]
	return status, ok
}

// StatusFromLabel canonicalizes a known spelling and keeps any other label
// verbatim, so stored custom statuses survive load and remain searchable.
func StatusFromLabel(s string) Status {
	if status, ok := ParseStatus(s); ok {
		return status
	}
	return Status(s)
}

func (s Status) String() string {
	return string(s)
}
