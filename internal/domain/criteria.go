package domain

import "strings"

// Criteria holds independently optional filter constraints. Empty fields are
// absent. Numeric and date fields stay raw so an unparseable value can match
// nothing instead of failing the query.
type Criteria struct {
	EndDateOnOrBefore   string
	StatusEquals        string
	MaxPriority         string
	MinProgress         string
	AssigneeContainsAny []string
}

// IsEmpty reports whether no constraint is set
func (c Criteria) IsEmpty() bool {
	return c.EndDateOnOrBefore == "" &&
		c.StatusEquals == "" &&
		c.MaxPriority == "" &&
		c.MinProgress == "" &&
		len(c.AssigneeContainsAny) == 0
}

// ParseAssigneeTokens splits a comma-separated search string into lowercased
// tokens, dropping empty ones.
func ParseAssigneeTokens(s string) []string {
	tokens := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
			tokens = append(tokens, part)
		}
	}
	return tokens
}
