package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"carrental/internal/model"
	"carrental/internal/repository"
)

type CatalogService struct {
	cars     CarStore
	cache    CarCache
	seedLock SeedLocker
	seedMu   sync.Mutex
}

// NewCatalogService accepts a nil cache or seed lock; the service then reads
// straight from the store and relies on primary keys alone for seeding.
func NewCatalogService(cars CarStore, cache CarCache, seedLock SeedLocker) *CatalogService {
	return &CatalogService{
		cars:     cars,
		cache:    cache,
		seedLock: seedLock,
	}
}

// SeedIfEmpty inserts the initial catalog when no car exists and returns how
// many cars it inserted. Concurrent callers, in this process or in other
// instances sharing Redis, produce at most one effective seed.
func (s *CatalogService) SeedIfEmpty(ctx context.Context) (int, error) {
	s.seedMu.Lock()
	defer s.seedMu.Unlock()

	count, err := s.cars.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	if s.seedLock != nil {
		release, ok, err := s.seedLock.Acquire(ctx)
		switch {
		case err != nil:
			slog.Warn("seed lock unavailable, relying on primary keys", "error", err)
		case !ok:
			slog.Info("catalog seeding held by another instance")
			return 0, nil
		}
		if release != nil {
			defer release()
		}

		// Another instance may have finished between the count and the lock.
		count, err = s.cars.Count(ctx)
		if err != nil {
			return 0, err
		}
		if count > 0 {
			return 0, nil
		}
	}

	cars := initialCars()
	if err := s.cars.CreateBatch(ctx, cars); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return 0, nil
		}
		return 0, err
	}
	s.invalidate(ctx)
	return len(cars), nil
}

func (s *CatalogService) ListCars(ctx context.Context) ([]model.Car, error) {
	if s.cache != nil {
		cars, hit, err := s.cache.GetCars(ctx)
		if err != nil {
			slog.Warn("read catalog cache failed", "error", err)
		} else if hit {
			return cars, nil
		}
	}

	cars, err := s.cars.List(ctx)
	if err != nil {
		return nil, err
	}
	if cars == nil {
		cars = []model.Car{}
	}
	if s.cache != nil {
		if err := s.cache.SetCars(ctx, cars); err != nil {
			slog.Warn("write catalog cache failed", "error", err)
		}
	}
	return cars, nil
}

func (s *CatalogService) SetAvailability(ctx context.Context, carID uint, available bool) error {
	if carID == 0 {
		return ErrCarNotFound
	}
	if err := s.cars.SetAvailability(ctx, carID, available); err != nil {
		if errors.Is(err, repository.ErrCarNotFound) {
			return ErrCarNotFound
		}
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CatalogService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		slog.Warn("invalidate catalog cache failed", "error", err)
	}
}
