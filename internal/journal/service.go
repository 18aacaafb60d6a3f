// Package journal implements the save and edit flows and binds every
// action kind to the display engine.
package journal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dreamlog/internal/autocomplete"
	"dreamlog/internal/display"
	"dreamlog/internal/dream"
	"dreamlog/internal/logging"
)

// Store is the writable dream collection.
type Store interface {
	Get(ctx context.Context, id string) (dream.Dream, error)
	Add(ctx context.Context, d dream.Dream) error
	Update(ctx context.Context, d dream.Dream) error
}

type Learner interface {
	Learn(ctx context.Context, items []string, category string) error
}

type Service struct {
	store    Store
	learner  Learner
	engine   *display.Engine
	notifier display.Notifier
	log      logging.Logger

	// Now and NewID are replaceable in tests.
	Now   func() time.Time
	NewID func() string
}

func NewService(store Store, learner Learner, engine *display.Engine, notifier display.Notifier, log logging.Logger) *Service {
	if notifier == nil {
		notifier = display.NopNotifier{}
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Service{
		store:    store,
		learner:  learner,
		engine:   engine,
		notifier: notifier,
		log:      log,
		Now:      time.Now,
	}
}

// Save validates and stores a new dream, then shows the first page.
func (s *Service) Save(ctx context.Context, d dream.Draft) (dream.Dream, error) {
	rec, err := dream.New(d, s.Now(), s.NewID)
	if err != nil {
		s.reject(ctx, err)
		return dream.Dream{}, err
	}
	if err := s.store.Add(ctx, rec); err != nil {
		s.log.Error(ctx, "saving dream failed", "id", rec.ID, "err", err)
		s.notifier.Notify(ctx, display.Notice{Kind: display.NoticeError, Text: "Failed to save dream. Please try again."})
		return dream.Dream{}, fmt.Errorf("save dream: %w", err)
	}
	s.learn(ctx, rec)
	s.log.Info(ctx, "dream saved", "id", rec.ID)
	s.notifier.Notify(ctx, display.Notice{Kind: display.NoticeSuccess, Text: "Dream saved successfully!"})

	if _, err := s.engine.ResetAndRefresh(ctx); err != nil {
		return rec, err
	}
	return rec, nil
}

// SaveEdit replaces the editable fields of dream id and leaves edit mode.
func (s *Service) SaveEdit(ctx context.Context, id string, d dream.Draft) (dream.Dream, error) {
	if err := d.Validate(); err != nil {
		s.reject(ctx, err)
		return dream.Dream{}, err
	}
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		s.log.Error(ctx, "loading dream for edit failed", "id", id, "err", err)
		s.notifier.Notify(ctx, display.Notice{Kind: display.NoticeError, Text: "Could not find the dream to update."})
		return dream.Dream{}, err
	}
	if err := rec.Apply(d, s.Now()); err != nil {
		s.reject(ctx, err)
		return dream.Dream{}, err
	}
	if err := s.store.Update(ctx, rec); err != nil {
		s.log.Error(ctx, "updating dream failed", "id", id, "err", err)
		s.notifier.Notify(ctx, display.Notice{Kind: display.NoticeError, Text: "Failed to update dream. Please try again."})
		return dream.Dream{}, fmt.Errorf("update dream: %w", err)
	}
	s.learn(ctx, rec)
	s.engine.StopEditing(id)
	s.notifier.Notify(ctx, display.Notice{Kind: display.NoticeSuccess, Text: "Dream updated successfully!"})

	if _, err := s.engine.Refresh(ctx); err != nil {
		return rec, err
	}
	return rec, nil
}

func (s *Service) reject(ctx context.Context, err error) {
	if errors.Is(err, dream.ErrEmptyContent) {
		s.notifier.Notify(ctx, display.Notice{Kind: display.NoticeWarning, Text: "Please describe your dream before saving."})
		return
	}
	s.notifier.Notify(ctx, display.Notice{Kind: display.NoticeError, Text: err.Error()})
}

// learn feeds tags and dream signs to the suggestion learner. Failures only
// cost future suggestions, so they are logged and dropped.
func (s *Service) learn(ctx context.Context, rec dream.Dream) {
	if s.learner == nil {
		return
	}
	if err := s.learner.Learn(ctx, rec.Tags, autocomplete.CategoryTags); err != nil {
		s.log.Warn(ctx, "learning tags failed", "err", err)
	}
	if err := s.learner.Learn(ctx, rec.DreamSigns, autocomplete.CategoryDreamSigns); err != nil {
		s.log.Warn(ctx, "learning dream signs failed", "err", err)
	}
}
