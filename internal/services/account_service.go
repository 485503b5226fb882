package services

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"task-calendar/internal/credentials"
	"task-calendar/internal/domain"
	"task-calendar/internal/errors"
	"task-calendar/internal/validation"
)

// accountServiceImpl implements the AccountService interface
type accountServiceImpl struct {
	directory *DirectoryStore
	validator *validation.AccountValidator
	hasher    credentials.Hasher
	logger    logrus.FieldLogger
}

// NewAccountService creates a new AccountService instance
func NewAccountService(directory *DirectoryStore, validator *validation.AccountValidator, hasher credentials.Hasher, logger logrus.FieldLogger) AccountService {
	return &accountServiceImpl{
		directory: directory,
		validator: validator,
		hasher:    hasher,
		logger:    logger,
	}
}

// Signup registers a new account with an empty task list. Errors are
// ErrInvalidEmail, ErrWeakPassword, ErrEmailTaken or a persistence error.
func (a *accountServiceImpl) Signup(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if err := a.validator.ValidateSignup(email, password); err != nil {
		return err
	}

	stored, err := a.hasher.Hash(password)
	if err != nil {
		return err
	}

	err = a.directory.Update(ctx, func(directory *domain.Directory) error {
		if directory.Find(email) != nil {
			return errors.NewAuthError(errors.ErrEmailTaken, email)
		}
		directory.Add(&domain.Account{Email: email, Password: stored, Tasks: []domain.Task{}})
		return nil
	})
	if err != nil {
		return err
	}

	a.logger.WithField("email", email).Debug("account created")
	return nil
}

// Login checks credentials and returns a session for the account
func (a *accountServiceImpl) Login(ctx context.Context, email, password string) (domain.Session, error) {
	email = strings.TrimSpace(email)
	var session domain.Session
	err := a.directory.Read(func(directory *domain.Directory) error {
		account := directory.Find(email)
		if account == nil {
			return errors.NewAuthError(errors.ErrEmailNotFound, email)
		}
		if !a.hasher.Compare(account.Password, password) {
			return errors.NewAuthError(errors.ErrWrongPassword, email)
		}
		session = domain.NewSession(account.Email)
		return nil
	})
	if err != nil {
		a.logger.WithField("email", email).WithError(err).Debug("login rejected")
		return domain.Session{}, err
	}
	return session, nil
}
