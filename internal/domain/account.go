package domain

import "strings"

// Account is a registered user and the tasks they own, in creation order.
type Account struct {
	Email    string
	Password string
	Tasks    []Task
}

// EmailKey returns the case-folded form of an email used for uniqueness and
// lookup.
func EmailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Key returns the account's case-folded email
func (a *Account) Key() string {
	return EmailKey(a.Email)
}

// TaskIndex returns the position of the task with the given ID, or -1.
func (a *Account) TaskIndex(id string) int {
	for i := range a.Tasks {
		if a.Tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (a *Account) Clone() *Account {
	return &Account{
		Email:    a.Email,
		Password: a.Password,
		Tasks:    CloneTasks(a.Tasks),
	}
}
