package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/popcatalog/popcatalog-go/internal/cache"
	"github.com/popcatalog/popcatalog-go/internal/model"
	"github.com/popcatalog/popcatalog-go/internal/notify"
	"github.com/popcatalog/popcatalog-go/internal/repository"
)

var (
	ErrNameRequired = errors.New("funko name is required")
	ErrInvalidPrice = errors.New("funko price must not be negative")
)

// FunkoStore is the persistence interface the service orchestrates against.
type FunkoStore interface {
	FindAll(ctx context.Context) ([]model.Funko, error)
	FindByID(ctx context.Context, id int) (model.Funko, error)
	FindByUUID(ctx context.Context, id uuid.UUID) (model.Funko, error)
	Save(ctx context.Context, f *model.Funko) error
	Update(ctx context.Context, f *model.Funko) error
	DeleteByID(ctx context.Context, id int) error
	DeleteAll(ctx context.Context) error
}

// FunkoService mediates between the cache, the store and the notification
// hub for every catalog operation.
type FunkoService struct {
	store FunkoStore
	cache *cache.Cache
	hub   *notify.Hub
	seq   *model.SequenceGenerator
}

// NewFunkoService creates a new FunkoService.
func NewFunkoService(store FunkoStore, c *cache.Cache, hub *notify.Hub, seq *model.SequenceGenerator) *FunkoService {
	return &FunkoService{store: store, cache: c, hub: hub, seq: seq}
}

// FindAll returns the whole catalog, bypassing the cache.
func (s *FunkoService) FindAll(ctx context.Context) ([]model.Funko, error) {
	return s.store.FindAll(ctx)
}

// FindByID resolves a funko cache-aside: a cache hit returns immediately,
// a miss queries the store and populates the cache.
func (s *FunkoService) FindByID(ctx context.Context, id int) (model.Funko, error) {
	if f, ok := s.cache.Get(id); ok {
		return f, nil
	}

	f, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrFunkoNotFound) {
			return model.Funko{}, fmt.Errorf("funko with id %d not found", id)
		}
		return model.Funko{}, err
	}

	s.cache.Put(f.ID, f)
	return f, nil
}

// FindByCategory filters the whole catalog in memory by category. The
// category name matches case-insensitively.
func (s *FunkoService) FindByCategory(ctx context.Context, category string) ([]model.Funko, error) {
	cat, err := model.ParseCategory(category)
	if err != nil {
		return nil, err
	}

	all, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	var funkos []model.Funko
	for _, f := range all {
		if f.Category == cat {
			funkos = append(funkos, f)
		}
	}
	return funkos, nil
}

// FindByYear filters the whole catalog in memory by release year.
func (s *FunkoService) FindByYear(ctx context.Context, year int) ([]model.Funko, error) {
	all, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	var funkos []model.Funko
	for _, f := range all {
		if f.ReleaseDate.Year() == year {
			funkos = append(funkos, f)
		}
	}
	return funkos, nil
}

// Create assigns a fresh sequence id, persists the funko and re-reads it by
// external id to pick up storage-generated fields. The CREATED notification
// fires only after persistence succeeds.
func (s *FunkoService) Create(ctx context.Context, f model.Funko) (model.Funko, error) {
	if err := validate(f); err != nil {
		return model.Funko{}, err
	}
	if f.UUID == uuid.Nil {
		f.UUID = uuid.New()
	}
	f.SeqID = s.seq.Next()

	if err := s.store.Save(ctx, &f); err != nil {
		return model.Funko{}, err
	}

	saved, err := s.store.FindByUUID(ctx, f.UUID)
	if err != nil {
		return model.Funko{}, err
	}

	s.hub.Publish(model.Notification{Kind: model.NotificationCreated, Funko: saved})
	return saved, nil
}

// Update persists changes to an existing funko, refreshes the cache through
// the cache-aside read, then notifies.
func (s *FunkoService) Update(ctx context.Context, f model.Funko) (model.Funko, error) {
	if err := validate(f); err != nil {
		return model.Funko{}, err
	}

	f.UpdatedAt = time.Now()
	if err := s.store.Update(ctx, &f); err != nil {
		if errors.Is(err, repository.ErrFunkoNotFound) {
			return model.Funko{}, fmt.Errorf("funko with id %d not found", f.ID)
		}
		return model.Funko{}, err
	}

	// Invalidate before re-resolving so the cache-aside read repopulates
	// from storage instead of returning the stale entry.
	s.cache.Remove(f.ID)
	updated, err := s.FindByID(ctx, f.ID)
	if err != nil {
		return model.Funko{}, err
	}

	s.hub.Publish(model.Notification{Kind: model.NotificationUpdated, Funko: updated})
	return updated, nil
}

// Delete removes a funko by id, evicting it from the cache first. The
// deleted funko is returned and carried in the DELETED notification.
func (s *FunkoService) Delete(ctx context.Context, id int) (model.Funko, error) {
	f, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrFunkoNotFound) {
			return model.Funko{}, fmt.Errorf("funko with id %d not found", id)
		}
		return model.Funko{}, err
	}

	s.cache.Remove(id)
	if err := s.store.DeleteByID(ctx, id); err != nil {
		return model.Funko{}, err
	}

	s.hub.Publish(model.Notification{Kind: model.NotificationDeleted, Funko: f})
	return f, nil
}

// DeleteAll clears the cache and wipes the store. No per-funko
// notifications are emitted.
func (s *FunkoService) DeleteAll(ctx context.Context) error {
	s.cache.Clear()
	return s.store.DeleteAll(ctx)
}

// Import creates every funko in the slice, logging and skipping rows that
// fail rather than aborting the load.
func (s *FunkoService) Import(ctx context.Context, funkos []model.Funko) int {
	loaded := 0
	for _, f := range funkos {
		if _, err := s.Create(ctx, f); err != nil {
			slog.Warn("skipping funko during import", "name", f.Name, "error", err)
			continue
		}
		loaded++
	}
	return loaded
}

func validate(f model.Funko) error {
	if f.Name == "" {
		return ErrNameRequired
	}
	if f.Price < 0 {
		return ErrInvalidPrice
	}
	return nil
}
