package application

import (
	"context"
	"sync"

	"eshop/internal/service/order/domain"
)

type fakeBaskets struct {
	baskets map[int64]*domain.Basket
	err     error
}

func (f *fakeBaskets) GetWithItems(_ context.Context, id int64) (*domain.Basket, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.baskets[id], nil
}

type fakeCatalog struct {
	mu    sync.Mutex
	facts []domain.CatalogFact
	err   error
	calls [][]int64
}

func (f *fakeCatalog) ListByIDs(_ context.Context, ids []int64) ([]domain.CatalogFact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, append([]int64(nil), ids...))
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.CatalogFact
	for _, fact := range f.facts {
		for _, id := range ids {
			if fact.ID == id {
				out = append(out, fact)
			}
		}
	}
	return out, nil
}

type fakeOrderRepo struct {
	mu     sync.Mutex
	nextID int64
	saved  []*domain.Order
	err    error
}

func (f *fakeOrderRepo) Add(_ context.Context, order *domain.Order) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	f.nextID++
	f.saved = append(f.saved, order.WithID(f.nextID))
	return f.nextID, nil
}

func (f *fakeOrderRepo) FindByID(_ context.Context, id int64) (*domain.Order, error) {
	for _, o := range f.saved {
		if o.ID() == id {
			return o, nil
		}
	}
	return nil, &domain.NotFoundError{Entity: "order", IDs: []int64{id}}
}

type fakePublisher struct {
	published []*domain.Order
	fail      error
}

func (f *fakePublisher) Publish(_ context.Context, order *domain.Order) domain.DeliveryAttempt {
	f.published = append(f.published, order)
	if f.fail != nil {
		return domain.DeliveryAttempt{
			OrderID:  order.ID(),
			Channel:  "orders",
			Attempts: 3,
			State:    domain.DeliveryExhausted,
			Err:      &domain.DeliveryExhaustedError{Channel: "orders", Attempts: 3, Err: f.fail},
		}
	}
	return domain.DeliveryAttempt{OrderID: order.ID(), Channel: "orders", Attempts: 1, State: domain.DeliverySent}
}

type fakeLocker struct {
	locked   []int64
	released int
	err      error
}

func (f *fakeLocker) Lock(_ context.Context, basketID int64) (func() error, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.locked = append(f.locked, basketID)
	return func() error { f.released++; return nil }, nil
}

type identityComposer struct{}

func (identityComposer) ComposePicURI(uri string) string { return uri }

type syncPublisher struct {
	mu    sync.Mutex
	count int
}

func (p *syncPublisher) Publish(_ context.Context, order *domain.Order) domain.DeliveryAttempt {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.count++
	return domain.DeliveryAttempt{OrderID: order.ID(), State: domain.DeliverySent, Attempts: 1}
}
