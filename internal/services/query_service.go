package services

import (
	"context"
	"strconv"
	"strings"
	"time"

	"task-calendar/internal/domain"
)

// queryServiceImpl implements the QueryService interface
type queryServiceImpl struct {
	taskService TaskService
}

// NewQueryService creates a new QueryService instance
func NewQueryService(taskService TaskService) QueryService {
	return &queryServiceImpl{
		taskService: taskService,
	}
}

// SortByPriority returns a new slice ordered by ascending priority. Equal
// priorities keep their input order. Insertion sort is linear on the
// nearly-sorted lists this usually sees.
func (q *queryServiceImpl) SortByPriority(tasks []domain.Task) []domain.Task {
	sorted := make([]domain.Task, len(tasks))
	copy(sorted, tasks)
	for i := 1; i < len(sorted); i++ {
		current := sorted[i]
		j := i - 1
		for j >= 0 && sorted[j].Priority > current.Priority {
			sorted[j+1] = sorted[j]
			j--
		}
		sorted[j+1] = current
	}
	return sorted
}

// matcher is a Criteria with its fields parsed once
type matcher struct {
	cutoff      *time.Time
	status      *domain.Status
	maxPriority *int
	minProgress *int
	tokens      []string
	// impossible is set when a present constraint cannot be parsed
	impossible bool
}

func compileCriteria(criteria domain.Criteria) matcher {
	var m matcher

	if s := strings.TrimSpace(criteria.EndDateOnOrBefore); s != "" {
		if cutoff, err := domain.ParseDate(s); err == nil {
			m.cutoff = &cutoff
		} else {
			m.impossible = true
		}
	}
	if s := strings.TrimSpace(criteria.StatusEquals); s != "" {
		status := domain.StatusFromLabel(s)
		m.status = &status
	}
	if s := strings.TrimSpace(criteria.MaxPriority); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			m.maxPriority = &n
		} else {
			m.impossible = true
		}
	}
	if s := strings.TrimSpace(criteria.MinProgress); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			m.minProgress = &n
		} else {
			m.impossible = true
		}
	}
	for _, token := range criteria.AssigneeContainsAny {
		if token = strings.ToLower(strings.TrimSpace(token)); token != "" {
			m.tokens = append(m.tokens, token)
		}
	}
	return m
}

// matches checks the integer and status constraints before parsing dates or
// scanning assignees
func (m matcher) matches(task domain.Task) bool {
	if m.status != nil && task.Status != *m.status {
		return false
	}
	if m.maxPriority != nil && task.Priority > *m.maxPriority {
		return false
	}
	if m.minProgress != nil && task.Progress < *m.minProgress {
		return false
	}
	if m.cutoff != nil {
		due, err := task.Due()
		if err != nil || due.After(*m.cutoff) {
			return false
		}
	}
	if len(m.tokens) > 0 && !anyAssigneeContains(task.Assignees, m.tokens) {
		return false
	}
	return true
}

func anyAssigneeContains(assignees, tokens []string) bool {
	for _, assignee := range assignees {
		lowered := strings.ToLower(assignee)
		for _, token := range tokens {
			if strings.Contains(lowered, token) {
				return true
			}
		}
	}
	return false
}

// Filter keeps the tasks satisfying every present constraint, in input
// order. The result is never nil.
func (q *queryServiceImpl) Filter(tasks []domain.Task, criteria domain.Criteria) []domain.Task {
	filtered := []domain.Task{}
	if criteria.IsEmpty() {
		return append(filtered, tasks...)
	}
	m := compileCriteria(criteria)
	if m.impossible {
		return filtered
	}
	for _, task := range tasks {
		if m.matches(task) {
			filtered = append(filtered, task)
		}
	}
	return filtered
}

// Query filters the session's tasks and sorts the matches by priority
func (q *queryServiceImpl) Query(ctx context.Context, session domain.Session, criteria domain.Criteria) (*QueryResult, error) {
	tasks, err := q.taskService.ListTasks(ctx, session)
	if err != nil {
		return nil, err
	}

	matched := q.SortByPriority(q.Filter(tasks, criteria))
	return &QueryResult{
		Tasks:     matched,
		Criteria:  criteria,
		NoResults: len(matched) == 0,
	}, nil
}
