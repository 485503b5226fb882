package domain

import "strings"

// RawTask holds task fields exactly as submitted, before validation.
type RawTask struct {
	Name      string
	EndDate   string
	Status    string
	Priority  string
	Progress  string
	Assignees []string
}

// SplitAssignees splits comma-separated input into trimmed entries, dropping
// empty ones. Duplicates are kept so validation can see them.
func SplitAssignees(s string) []string {
	assignees := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			assignees = append(assignees, part)
		}
	}
	return assignees
}

// NormalizeAssignees trims entries, drops empty ones and removes duplicates,
// keeping the first occurrence and the original order.
func NormalizeAssignees(assignees []string) []string {
	normalized := make([]string, 0, len(assignees))
	seen := make(map[string]struct{}, len(assignees))
	for _, assignee := range assignees {
		assignee = strings.TrimSpace(assignee)
		if assignee == "" {
			continue
		}
		if _, dup := seen[assignee]; dup {
			continue
		}
		seen[assignee] = struct{}{}
		normalized = append(normalized, assignee)
	}
	return normalized
}
