package app

import (
	"context"
	"errors"
	"sync"
	"testing"

	"carrental/internal/app/memstore"
	"carrental/internal/model"
)

type fakeCarCache struct {
	mu          sync.Mutex
	cars        []model.Car
	hit         bool
	getErr      error
	sets        int
	invalidated int
}

func (c *fakeCarCache) GetCars(context.Context) ([]model.Car, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	return c.cars, c.hit, nil
}

func (c *fakeCarCache) SetCars(_ context.Context, cars []model.Car) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cars = cars
	c.hit = true
	c.sets++
	return nil
}

func (c *fakeCarCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cars = nil
	c.hit = false
	c.invalidated++
	return nil
}

type fakeSeedLock struct {
	ok  bool
	err error
}

func (l fakeSeedLock) Acquire(context.Context) (func(), bool, error) {
	return func() {}, l.ok, l.err
}

func TestSeedIfEmptyIsIdempotent(t *testing.T) {
	ctx := context.Background()
	cars := memstore.NewCarStore()
	svc := NewCatalogService(cars, nil, nil)

	inserted, err := svc.SeedIfEmpty(ctx)
	if err != nil || inserted != 4 {
		t.Fatalf("first SeedIfEmpty() = %d, %v; want 4", inserted, err)
	}
	inserted, err = svc.SeedIfEmpty(ctx)
	if err != nil || inserted != 0 {
		t.Fatalf("second SeedIfEmpty() = %d, %v; want 0", inserted, err)
	}
	if n, _ := cars.Count(ctx); n != 4 {
		t.Fatalf("car count = %d, want 4", n)
	}
}

func TestSeedIfEmptyConcurrentServices(t *testing.T) {
	ctx := context.Background()
	cars := memstore.NewCarStore()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// separate services share only the store, like separate instances
			if _, err := NewCatalogService(cars, nil, nil).SeedIfEmpty(ctx); err != nil {
				t.Errorf("SeedIfEmpty() unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if n, _ := cars.Count(ctx); n != 4 {
		t.Fatalf("car count = %d, want 4", n)
	}
}

func TestSeedIfEmptyLockHeldElsewhere(t *testing.T) {
	cars := memstore.NewCarStore()
	svc := NewCatalogService(cars, nil, fakeSeedLock{ok: false})

	inserted, err := svc.SeedIfEmpty(context.Background())
	if err != nil || inserted != 0 {
		t.Fatalf("SeedIfEmpty() = %d, %v; want 0", inserted, err)
	}
}

func TestSeedIfEmptyLockErrorFallsBack(t *testing.T) {
	cars := memstore.NewCarStore()
	svc := NewCatalogService(cars, nil, fakeSeedLock{err: errors.New("redis down")})

	inserted, err := svc.SeedIfEmpty(context.Background())
	if err != nil || inserted != 4 {
		t.Fatalf("SeedIfEmpty() = %d, %v; want 4", inserted, err)
	}
}

func TestListCarsUsesCache(t *testing.T) {
	ctx := context.Background()
	cars := memstore.NewCarStore(initialCars()...)
	cache := &fakeCarCache{}
	svc := NewCatalogService(cars, cache, nil)

	list, err := svc.ListCars(ctx)
	if err != nil || len(list) != 4 {
		t.Fatalf("ListCars() = %d cars, %v", len(list), err)
	}
	if cache.sets != 1 {
		t.Fatalf("cache sets = %d, want 1", cache.sets)
	}
	for i, car := range list {
		if car.ID != uint(i+1) {
			t.Errorf("list[%d].ID = %d, want ascending ids", i, car.ID)
		}
	}

	cache.cars = []model.Car{{ID: 42, Brand: "Cached"}}
	list, _ = svc.ListCars(ctx)
	if len(list) != 1 || list[0].ID != 42 {
		t.Fatalf("ListCars() ignored cache hit: %+v", list)
	}
}

func TestListCarsCacheFailureFallsBack(t *testing.T) {
	cars := memstore.NewCarStore(initialCars()...)
	cache := &fakeCarCache{getErr: errors.New("redis down")}
	svc := NewCatalogService(cars, cache, nil)

	list, err := svc.ListCars(context.Background())
	if err != nil || len(list) != 4 {
		t.Fatalf("ListCars() = %d cars, %v", len(list), err)
	}
}

func TestListCarsEmpty(t *testing.T) {
	svc := NewCatalogService(memstore.NewCarStore(), nil, nil)
	list, err := svc.ListCars(context.Background())
	if err != nil {
		t.Fatalf("ListCars() unexpected error: %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Fatalf("ListCars() = %#v, want empty slice", list)
	}
}

func TestSetAvailability(t *testing.T) {
	ctx := context.Background()
	cars := memstore.NewCarStore(initialCars()...)
	cache := &fakeCarCache{}
	svc := NewCatalogService(cars, cache, nil)

	if err := svc.SetAvailability(ctx, 2, false); err != nil {
		t.Fatalf("SetAvailability() unexpected error: %v", err)
	}
	car, _ := cars.GetByID(ctx, 2)
	if car.Available {
		t.Error("car 2 still available")
	}
	if cache.invalidated != 1 {
		t.Errorf("cache invalidated %d times, want 1", cache.invalidated)
	}

	if err := svc.SetAvailability(ctx, 99, true); !errors.Is(err, ErrCarNotFound) {
		t.Fatalf("SetAvailability(99) error = %v, want %v", err, ErrCarNotFound)
	}
}
