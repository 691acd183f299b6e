// Package testutil holds fakes shared by usecase and handler tests.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/vanchez121994/foodgram-project-react/internal/apperr"
	"github.com/vanchez121994/foodgram-project-react/internal/domain"
)

// PNGDataURI is a valid data URI accepted by ImageStore
const PNGDataURI = "data:image/png;base64,iVBORw0KGgo="

// ImageStore records saved and removed images without touching the disk
type ImageStore struct {
	mu      sync.Mutex
	n       int
	Saved   []string
	Removed []string
}

// Save accepts any image data URI and returns a fresh reference
func (s *ImageStore) Save(_ context.Context, dataURI string) (string, error) {
	if !strings.HasPrefix(dataURI, "data:image/") {
		return "", apperr.FieldValidation("image", "must be a base64 data URI")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	ref := fmt.Sprintf("/media/recipes/images/%d.png", s.n)
	s.Saved = append(s.Saved, ref)
	return ref, nil
}

// Remove records the reference
func (s *ImageStore) Remove(_ context.Context, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Removed = append(s.Removed, ref)
	return nil
}

// EventRecorder collects published events. Set Err to make Publish fail.
type EventRecorder struct {
	mu     sync.Mutex
	Err    error
	events []domain.Event
}

// Publish records the event
func (r *EventRecorder) Publish(_ context.Context, event domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.events = append(r.events, event)
	return nil
}

// Types returns the recorded event types in order
func (r *EventRecorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]string, 0, len(r.events))
	for _, e := range r.events {
		types = append(types, e.Type)
	}
	return types
}

// Events returns a copy of the recorded events
func (r *EventRecorder) Events() []domain.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Event(nil), r.events...)
}

// ErrBrokerDown is a publish failure for tests
var ErrBrokerDown = errors.New("broker down")
