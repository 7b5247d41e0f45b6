package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"server/internal/domain"
	"server/internal/events"
)

// memStore is an in-memory stand-in for the Postgres repositories, keeping
// fundraisers and contributions consistent the way the real store does.
type memStore struct {
	mu            sync.Mutex
	fundraisers   map[string]domain.Fundraiser
	contributions []domain.Contribution
	failWrites    bool
}

func newMemStore() *memStore {
	return &memStore{fundraisers: make(map[string]domain.Fundraiser)}
}

type memFundraisers struct{ store *memStore }

func (m *memFundraisers) Create(_ context.Context, f *domain.Fundraiser) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	for _, existing := range m.store.fundraisers {
		if existing.UserID == f.UserID {
			return domain.ErrFundraiserExists
		}
	}
	m.store.fundraisers[f.ID] = *f
	return nil
}

func (m *memFundraisers) GetByID(_ context.Context, id string) (*domain.Fundraiser, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	f, ok := m.store.fundraisers[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &f, nil
}

func (m *memFundraisers) ActiveForUser(_ context.Context, userID string) (*domain.Fundraiser, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	for _, f := range m.store.fundraisers {
		if f.UserID == userID {
			clone := f
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *memFundraisers) FundsRaised(_ context.Context, fundraiserID string) (decimal.Decimal, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	total := decimal.Zero
	for _, c := range m.store.contributions {
		if c.FundraiserID == fundraiserID {
			total = total.Add(c.Amount)
		}
	}
	return total, nil
}

func (m *memFundraisers) Delete(_ context.Context, id string) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	if _, ok := m.store.fundraisers[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.store.fundraisers, id)
	kept := m.store.contributions[:0]
	for _, c := range m.store.contributions {
		if c.FundraiserID != id {
			kept = append(kept, c)
		}
	}
	m.store.contributions = kept
	return nil
}

type memContributions struct{ store *memStore }

func (m *memContributions) Create(_ context.Context, c *domain.Contribution) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	if m.store.failWrites {
		return fmt.Errorf("%w: relation unavailable", domain.ErrPersistence)
	}
	m.store.contributions = append(m.store.contributions, *c)
	return nil
}

func (m *memContributions) Count(_ context.Context, fundraiserID string) (int64, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	var total int64
	for _, c := range m.store.contributions {
		if c.FundraiserID == fundraiserID {
			total++
		}
	}
	return total, nil
}

func (m *memContributions) ListPage(_ context.Context, fundraiserID string, limit, offset int) ([]domain.Contribution, error) {
	all, err := m.ListAll(context.Background(), fundraiserID)
	if err != nil {
		return nil, err
	}
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (m *memContributions) ListAll(_ context.Context, fundraiserID string) ([]domain.Contribution, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	var items []domain.Contribution
	for _, c := range m.store.contributions {
		if c.FundraiserID == fundraiserID {
			items = append(items, c)
		}
	}
	return items, nil
}

type capturedEvents struct {
	mu     sync.Mutex
	events []events.ContributionRecorded
}

func (c *capturedEvents) PublishContributionRecorded(_ context.Context, ev events.ContributionRecorded) error {
	c.mu.Lock()
	c.events = append(c.events, ev)
	c.mu.Unlock()
	return nil
}

func (c *capturedEvents) Close() error { return nil }

var (
	_ domain.FundraiserRepository   = (*memFundraisers)(nil)
	_ domain.ContributionRepository = (*memContributions)(nil)
	_ events.Publisher              = (*capturedEvents)(nil)
)
