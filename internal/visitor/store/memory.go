package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"gatekeeper/internal/visitor/models"
	"gatekeeper/pkg/domain"
)

// tokenOwner is one entry of the unified token index: the value is the key,
// so a token can only ever belong to one record in one column.
type tokenOwner struct {
	id   domain.VisitorID
	kind models.TokenKind
}

// InMemory keeps the identity table behind a single mutex. It favors clarity
// over performance and backs local development and unit tests.
type InMemory struct {
	mu      sync.RWMutex
	nextID  domain.VisitorID
	byID    map[domain.VisitorID]*models.Visitor
	byEmail map[string]domain.VisitorID
	tokens  map[string]tokenOwner
}

// NewInMemory constructs an empty in-memory identity store.
func NewInMemory() *InMemory {
	return &InMemory{
		byID:    make(map[domain.VisitorID]*models.Visitor),
		byEmail: make(map[string]domain.VisitorID),
		tokens:  make(map[string]tokenOwner),
	}
}

func (s *InMemory) Create(_ context.Context, visitor *models.Visitor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(visitor.Email)
	if _, exists := s.byEmail[email]; exists {
		return ErrDuplicateEmail
	}
	// Check every pre-set token before touching any state, so a failed
	// create leaves nothing behind.
	for _, kind := range []models.TokenKind{models.TokenKindDevice, models.TokenKindCard} {
		if token := visitor.Token(kind); token != "" {
			if _, taken := s.tokens[token]; taken {
				return ErrTokenAlreadyBound
			}
		}
	}

	s.nextID++
	visitor.ID = s.nextID
	visitor.Email = email

	record := visitor.Clone()
	s.byID[record.ID] = record
	s.byEmail[email] = record.ID
	for _, kind := range []models.TokenKind{models.TokenKindDevice, models.TokenKindCard} {
		if token := record.Token(kind); token != "" {
			s.tokens[token] = tokenOwner{id: record.ID, kind: kind}
		}
	}
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id domain.VisitorID) (*models.Visitor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if record, ok := s.byID[id]; ok {
		return record.Clone(), nil
	}
	return nil, ErrNotFound
}

func (s *InMemory) FindByEmail(_ context.Context, email string) (*models.Visitor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if id, ok := s.byEmail[strings.ToLower(email)]; ok {
		return s.byID[id].Clone(), nil
	}
	return nil, ErrNotFound
}

func (s *InMemory) FindByToken(_ context.Context, token string) (*models.Visitor, models.TokenKind, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	owner, ok := s.tokens[token]
	if !ok {
		return nil, "", ErrNotFound
	}
	return s.byID[owner.id].Clone(), owner.kind, nil
}

func (s *InMemory) BindToken(_ context.Context, id domain.VisitorID, kind models.TokenKind, token string) (*models.Visitor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}

	switch record.CheckBind(kind, token) {
	case models.BindNoop:
		return record.Clone(), nil
	case models.BindConflict:
		return nil, ErrTokenConflict
	}

	// The column is free, so any existing owner of the value is a
	// different binding.
	if _, taken := s.tokens[token]; taken {
		return nil, ErrTokenAlreadyBound
	}

	record.SetToken(kind, token)
	s.tokens[token] = tokenOwner{id: id, kind: kind}
	return record.Clone(), nil
}

func (s *InMemory) UpdateProfile(_ context.Context, id domain.VisitorID, name, gender string) (*models.Visitor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	record.Name = strings.TrimSpace(name)
	record.Gender = strings.TrimSpace(gender)
	return record.Clone(), nil
}

func (s *InMemory) List(_ context.Context) ([]*models.Visitor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Visitor, 0, len(s.byID))
	for _, record := range s.byID {
		out = append(out, record.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
