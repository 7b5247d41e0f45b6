package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"server/internal/domain"
	"server/internal/events"
	"server/internal/middleware"
	"server/internal/service"
	"server/internal/session"
)

// memRepos is a shared in-memory backing store implementing the three
// repository interfaces with the semantics the SQL layer provides.
type memRepos struct {
	mu            sync.Mutex
	users         map[string]*domain.User
	fundraisers   map[string]*domain.Fundraiser
	contributions []domain.Contribution
}

func newMemRepos() *memRepos {
	return &memRepos{
		users:       make(map[string]*domain.User),
		fundraisers: make(map[string]*domain.Fundraiser),
	}
}

type memUsers struct{ s *memRepos }

func (m memUsers) Create(_ context.Context, user *domain.User) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, u := range m.s.users {
		if u.Username == user.Username {
			return domain.ErrUserExists
		}
	}
	cp := *user
	m.s.users[user.ID] = &cp
	return nil
}

func (m memUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	u, ok := m.s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m memUsers) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, u := range m.s.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

type memFundraisers struct{ s *memRepos }

func (m memFundraisers) Create(_ context.Context, f *domain.Fundraiser) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, existing := range m.s.fundraisers {
		if existing.UserID == f.UserID {
			return domain.ErrFundraiserExists
		}
	}
	cp := *f
	m.s.fundraisers[f.ID] = &cp
	return nil
}

func (m memFundraisers) GetByID(_ context.Context, id string) (*domain.Fundraiser, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	f, ok := m.s.fundraisers[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *f
	return &cp, nil
}

func (m memFundraisers) ActiveForUser(_ context.Context, userID string) (*domain.Fundraiser, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, f := range m.s.fundraisers {
		if f.UserID == userID {
			cp := *f
			return &cp, nil
		}
	}
	return nil, nil
}

func (m memFundraisers) FundsRaised(_ context.Context, fundraiserID string) (decimal.Decimal, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	sum := decimal.Zero
	for i := range m.s.contributions {
		if m.s.contributions[i].FundraiserID == fundraiserID {
			sum = sum.Add(m.s.contributions[i].Amount)
		}
	}
	return sum, nil
}

func (m memFundraisers) Delete(_ context.Context, id string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.fundraisers[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.s.fundraisers, id)
	kept := m.s.contributions[:0]
	for i := range m.s.contributions {
		if m.s.contributions[i].FundraiserID != id {
			kept = append(kept, m.s.contributions[i])
		}
	}
	m.s.contributions = kept
	return nil
}

type memContributions struct{ s *memRepos }

func (m memContributions) Create(_ context.Context, c *domain.Contribution) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.contributions = append(m.s.contributions, *c)
	return nil
}

func (m memContributions) Count(_ context.Context, fundraiserID string) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var n int64
	for i := range m.s.contributions {
		if m.s.contributions[i].FundraiserID == fundraiserID {
			n++
		}
	}
	return n, nil
}

func (m memContributions) ListPage(_ context.Context, fundraiserID string, limit, offset int) ([]domain.Contribution, error) {
	all, _ := m.ListAll(context.Background(), fundraiserID)
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (m memContributions) ListAll(_ context.Context, fundraiserID string) ([]domain.Contribution, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []domain.Contribution
	for i := range m.s.contributions {
		if m.s.contributions[i].FundraiserID == fundraiserID {
			out = append(out, m.s.contributions[i])
		}
	}
	return out, nil
}

// testApp wires an App onto the in-memory repositories.
func testApp(t *testing.T) (*App, *memRepos) {
	t.Helper()
	repos := newMemRepos()
	logger := zerolog.Nop()
	fundraisers := service.NewFundraiserService(memFundraisers{s: repos}, logger)
	contributions := service.NewContributionService(
		memFundraisers{s: repos},
		memContributions{s: repos},
		events.NoopPublisher{},
		logger,
	)
	return &App{
		Logger:        logger,
		Users:         memUsers{s: repos},
		Fundraisers:   fundraisers,
		Contributions: contributions,
		Sessions:      session.NewMemoryStore(),
		JWTSecret:     "test-secret",
		SessionTTL:    time.Hour,
		PublicBaseURL: "https://harambee.example.com",
	}, repos
}

// authedRequest builds a request carrying the user id and a chi route "id"
// param, matching what the router and auth middleware provide.
func authedRequest(t *testing.T, method, target, userID, routeID string, body string) *http.Request {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	ctx := middleware.ContextWithUser(req.Context(), userID)
	if routeID != "" {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", routeID)
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	return req.WithContext(ctx)
}

func seedUser(t *testing.T, repos *memRepos, id, username string) {
	t.Helper()
	if err := (memUsers{s: repos}).Create(context.Background(), &domain.User{
		ID:       id,
		Username: username,
	}); err != nil {
		t.Fatalf("seed user: %v", err)
	}
}

func seedFundraiser(t *testing.T, repos *memRepos, id, userID string) {
	t.Helper()
	if err := (memFundraisers{s: repos}).Create(context.Background(), &domain.Fundraiser{
		ID:          id,
		UserID:      userID,
		Name:        "Hospital Bill",
		EndDate:     time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
		TargetFunds: decimal.RequireFromString("100000"),
	}); err != nil {
		t.Fatalf("seed fundraiser: %v", err)
	}
}
