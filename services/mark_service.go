package services

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/djdreamfix/Code-Companion/models"

	"github.com/google/uuid"
)

const (
	// MarkTTL is how long a mark stays on the board. Fixed, not
	// configurable per mark.
	MarkTTL = 30 * time.Minute

	// StreetPlaceholder is used until a real label is resolved by the
	// client-side geocoder.
	StreetPlaceholder = "Location"
)

// Broadcaster fans mark lifecycle events out to connected clients.
// Implemented by RealtimeHub.
type Broadcaster interface {
	MarkCreated(m *models.Mark)
	MarkExpired(id string)
}

// Dispatcher delivers push notifications for a freshly created mark.
// Implemented by PushService.
type Dispatcher interface {
	Dispatch(m *models.Mark)
}

type MarkService struct {
	store  *MarkStore
	events Broadcaster
	push   Dispatcher
}

func NewMarkService(store *MarkStore, events Broadcaster, push Dispatcher) *MarkService {
	return &MarkService{store: store, events: events, push: push}
}

type CreateMarkInput struct {
	Lat   float64
	Lng   float64
	Color string
	Note  string
}

// CreateMark validates the input, persists the mark, then signals the
// broadcaster and the push dispatcher. The persisted mark is returned as
// soon as the insert commits; fan-out happens after (and, for push, off the
// request goroutine) and can never fail the creation.
func (s *MarkService) CreateMark(ctx context.Context, in CreateMarkInput) (*models.Mark, error) {
	if !models.ValidColor(in.Color) {
		return nil, &ValidationError{Msg: "color must be one of blue, green, split"}
	}

	now := time.Now().UTC()
	street := StreetPlaceholder
	m := &models.Mark{
		ID:        uuid.NewString(),
		Lat:       in.Lat,
		Lng:       in.Lng,
		Color:     in.Color,
		Street:    &street,
		Note:      normalizeNote(in.Note),
		CreatedAt: now,
		ExpiresAt: now.Add(MarkTTL),
	}

	if err := s.store.Insert(ctx, m); err != nil {
		return nil, err
	}

	s.announce(m)
	go s.dispatch(m)

	return m, nil
}

// announce and dispatch are the best-effort half of create: the mark is
// already committed, so a broken broadcaster or dispatcher is logged and
// contained, never unwound into the caller.
func (s *MarkService) announce(m *models.Mark) {
	defer logSignalPanic("broadcast mark.created", m.ID)
	s.events.MarkCreated(m)
}

func (s *MarkService) dispatch(m *models.Mark) {
	defer logSignalPanic("push dispatch", m.ID)
	s.push.Dispatch(m)
}

func logSignalPanic(op, id string) {
	if r := recover(); r != nil {
		log.Printf("%s for mark %s: %v", op, id, r)
	}
}

// normalizeNote trims the note and stores nothing at all when nothing is
// left, so an all-whitespace note never shows up as a present-but-empty one.
func normalizeNote(note string) *string {
	trimmed := strings.TrimSpace(note)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
