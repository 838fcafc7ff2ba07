// Package auth keeps local user records and the signed-in user. It exists so
// chat-created reminders can carry the current user's email; there is no real
// identity provider behind it.
package auth

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/notexe/cli-assistant/internal/store"
)

// Login methods.
const (
	MethodEmail  = "email"
	MethodGoogle = "google"
)

// ErrInvalidCredentials is returned when sign-in fails.
var ErrInvalidCredentials = errors.New("invalid email or password")

// User is the signed-in identity exposed to the rest of the app.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	LoginMethod string `json:"loginMethod"`
}

// userRecord is the stored account, including the (plaintext, mock) password.
type userRecord struct {
	User
	Password string `json:"password,omitempty"`
}

// Service is the local auth collaborator.
type Service struct {
	store *store.Store
	mu    sync.Mutex
}

// NewService creates an auth service backed by the given store.
func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

// CurrentUser returns the signed-in user, or nil when nobody is signed in.
func (s *Service) CurrentUser() *User {
	s.mu.Lock()
	defer s.mu.Unlock()

	var u User
	found, err := s.store.Load(store.PartitionUser, &u)
	if err != nil || !found {
		return nil
	}
	return &u
}

// SignUp registers a new account and signs it in.
func (s *Service) SignUp(email, password, name string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers()
	if err != nil {
		return nil, err
	}
	for _, rec := range users {
		if rec.Email == email {
			return nil, fmt.Errorf("email %s already exists", email)
		}
	}

	u := User{
		ID:          uuid.NewString(),
		Email:       email,
		Name:        name,
		LoginMethod: MethodEmail,
	}
	users = append(users, userRecord{User: u, Password: password})
	if err := s.store.Save(store.PartitionUsers, users); err != nil {
		return nil, err
	}
	if err := s.store.Save(store.PartitionUser, u); err != nil {
		return nil, err
	}
	return &u, nil
}

// SignIn signs an existing account in.
func (s *Service) SignIn(email, password string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers()
	if err != nil {
		return nil, err
	}
	for _, rec := range users {
		if rec.Email == email && rec.Password == password {
			u := rec.User
			if err := s.store.Save(store.PartitionUser, u); err != nil {
				return nil, err
			}
			return &u, nil
		}
	}
	return nil, ErrInvalidCredentials
}

// SignInWithGoogle performs the mock federated sign-in: any email/name pair
// is accepted and becomes the current user.
func (s *Service) SignInWithGoogle(email, name string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := User{
		ID:          uuid.NewString(),
		Email:       email,
		Name:        name,
		LoginMethod: MethodGoogle,
	}
	if err := s.store.Save(store.PartitionUser, u); err != nil {
		return nil, err
	}
	return &u, nil
}

// SignOut clears the current user.
func (s *Service) SignOut() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Clear(store.PartitionUser)
}

func (s *Service) loadUsers() ([]userRecord, error) {
	var users []userRecord
	if _, err := s.store.Load(store.PartitionUsers, &users); err != nil {
		return nil, err
	}
	return users, nil
}
