package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/LavaJover/shvark-country-service/internal/domain"
)

type fakeCountrySource struct {
	countries []domain.RawCountry
	err       error
	delay     time.Duration
	calls     atomic.Int32
}

func (f *fakeCountrySource) FetchCountries(ctx context.Context) ([]domain.RawCountry, error) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.calls.Add(1)
	return f.countries, f.err
}

type fakeRateSource struct {
	table *domain.RateTable
	err   error
	calls atomic.Int32
}

func (f *fakeRateSource) FetchRates(ctx context.Context) (*domain.RateTable, error) {
	f.calls.Add(1)
	return f.table, f.err
}

// fakeCountryRepo stores by name, mimicking the upsert semantics of the real
// repository. It also detects overlapping SaveRefresh calls.
type fakeCountryRepo struct {
	mu        sync.Mutex
	rows      map[string]*domain.Country
	status    domain.RefreshStatus
	saveErr   error
	saveCalls int
	saveDelay time.Duration

	inFlight   atomic.Int32
	overlapped atomic.Bool
}

func newFakeCountryRepo() *fakeCountryRepo {
	return &fakeCountryRepo{rows: make(map[string]*domain.Country)}
}

func (f *fakeCountryRepo) SaveRefresh(countries []*domain.Country, refreshedAt time.Time) (int64, error) {
	if f.inFlight.Add(1) > 1 {
		f.overlapped.Store(true)
	}
	defer f.inFlight.Add(-1)
	if f.saveDelay > 0 {
		time.Sleep(f.saveDelay)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.saveCalls++
	if f.saveErr != nil {
		return 0, f.saveErr
	}
	for _, country := range countries {
		copied := *country
		copied.LastRefreshedAt = refreshedAt
		f.rows[country.Name] = &copied
	}
	f.status = domain.RefreshStatus{
		TotalCountries:  int64(len(countries)),
		LastRefreshedAt: &refreshedAt,
	}
	return int64(len(countries)), nil
}

func (f *fakeCountryRepo) List(filter domain.CountryFilter) ([]*domain.Country, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Country
	for _, c := range f.rows {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCountryRepo) GetByName(name string) (*domain.Country, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.rows[name]
	if !ok {
		return nil, domain.ErrCountryNotFound
	}
	return c, nil
}

func (f *fakeCountryRepo) DeleteByName(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[name]; !ok {
		return domain.ErrCountryNotFound
	}
	delete(f.rows, name)
	return nil
}

func (f *fakeCountryRepo) GetStatus() (*domain.RefreshStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	status := f.status
	return &status, nil
}

func (f *fakeCountryRepo) TopByGDP(limit int) ([]*domain.Country, error) {
	return f.List(domain.CountryFilter{})
}

type fakeRenderer struct {
	calls atomic.Int32
	err   error
}

func (f *fakeRenderer) Render(top []*domain.Country, totalCountries int64, refreshedAt time.Time) error {
	f.calls.Add(1)
	return f.err
}

type fakePublisher struct {
	mu     sync.Mutex
	events []domain.RefreshResult
	err    error
}

func (f *fakePublisher) PublishRefresh(ctx context.Context, result domain.RefreshResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, result)
	return f.err
}

func testlandDirectory() []domain.RawCountry {
	return []domain.RawCountry{
		{
			Name:       "Testland",
			Capital:    "Testville",
			Region:     "Testing",
			Population: 1000000,
			Flag:       "https://flags.example/testland.png",
			Currencies: []domain.RawCurrency{{Code: "XYZ"}},
		},
	}
}

func newTestRefreshUsecase(
	countrySource domain.CountrySource,
	rateSource domain.RateSource,
	repo domain.CountryRepository,
	renderer domain.SummaryRenderer,
	publisher domain.RefreshEventPublisher,
) *DefaultRefreshUsecase {
	return NewDefaultRefreshUsecase(countrySource, rateSource, repo, renderer, publisher, nil, nil)
}

func TestRefreshSuccess(t *testing.T) {
	repo := newFakeCountryRepo()
	renderer := &fakeRenderer{}
	publisher := &fakePublisher{}
	uc := newTestRefreshUsecase(
		&fakeCountrySource{countries: testlandDirectory()},
		&fakeRateSource{table: &domain.RateTable{Base: "USD", Rates: map[string]float64{"XYZ": 2.0}}},
		repo,
		renderer,
		publisher,
	)

	start := time.Now()
	result, err := uc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh() err = %v", err)
	}
	if result.TotalCountries != 1 {
		t.Fatalf("total=%d want 1", result.TotalCountries)
	}
	if result.CycleID == "" {
		t.Fatal("cycle ID is empty")
	}
	if result.RefreshedAt.Before(start.Add(-time.Second)) {
		t.Fatalf("refreshed_at=%v earlier than request start %v", result.RefreshedAt, start)
	}

	saved, err := repo.GetByName("Testland")
	if err != nil {
		t.Fatalf("GetByName() err = %v", err)
	}
	if saved.CurrencyCode == nil || *saved.CurrencyCode != "XYZ" {
		t.Fatalf("currency_code=%v want XYZ", saved.CurrencyCode)
	}
	if saved.ExchangeRate == nil || *saved.ExchangeRate != 2.0 {
		t.Fatalf("exchange_rate=%v want 2.0", saved.ExchangeRate)
	}
	lo, hi := int64(1000000*1000/2.0), int64(1000000*2000/2.0)
	if saved.EstimatedGDP < lo || saved.EstimatedGDP > hi {
		t.Fatalf("estimated_gdp=%d outside [%d, %d]", saved.EstimatedGDP, lo, hi)
	}

	status, _ := repo.GetStatus()
	if status.TotalCountries != 1 {
		t.Fatalf("status total=%d want 1", status.TotalCountries)
	}
	if renderer.calls.Load() != 1 {
		t.Fatalf("renderer calls=%d want 1", renderer.calls.Load())
	}
	if len(publisher.events) != 1 || publisher.events[0].CycleID != result.CycleID {
		t.Fatalf("publisher events=%v want one event for cycle %s", publisher.events, result.CycleID)
	}
}

func TestRefreshDirectorySourceFailure(t *testing.T) {
	repo := newFakeCountryRepo()
	renderer := &fakeRenderer{}
	uc := newTestRefreshUsecase(
		&fakeCountrySource{err: &domain.UpstreamError{Source: "restcountries.com", StatusCode: 500}},
		&fakeRateSource{table: &domain.RateTable{Rates: map[string]float64{"XYZ": 2.0}}},
		repo,
		renderer,
		nil,
	)

	_, err := uc.Refresh(context.Background())
	var ue *domain.UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("err = %v, want *domain.UpstreamError", err)
	}
	if ue.Source != "restcountries.com" {
		t.Fatalf("source=%q want restcountries.com", ue.Source)
	}
	if repo.saveCalls != 0 {
		t.Fatalf("saveCalls=%d, store must stay untouched on upstream failure", repo.saveCalls)
	}
	if renderer.calls.Load() != 0 {
		t.Fatalf("renderer calls=%d want 0", renderer.calls.Load())
	}
}

func TestRefreshRateSourceFailure(t *testing.T) {
	repo := newFakeCountryRepo()
	uc := newTestRefreshUsecase(
		&fakeCountrySource{countries: testlandDirectory()},
		&fakeRateSource{err: &domain.UpstreamError{Source: "open.er-api.com"}},
		repo,
		&fakeRenderer{},
		nil,
	)

	_, err := uc.Refresh(context.Background())
	var ue *domain.UpstreamError
	if !errors.As(err, &ue) || ue.Source != "open.er-api.com" {
		t.Fatalf("err = %v, want upstream error naming open.er-api.com", err)
	}
	if repo.saveCalls != 0 {
		t.Fatalf("saveCalls=%d want 0", repo.saveCalls)
	}
}

func TestRefreshWaitsForBothFetches(t *testing.T) {
	// The rate source fails immediately; the slow directory fetch must still
	// run to completion before the cycle settles.
	slow := &fakeCountrySource{countries: testlandDirectory(), delay: 50 * time.Millisecond}
	uc := newTestRefreshUsecase(
		slow,
		&fakeRateSource{err: &domain.UpstreamError{Source: "open.er-api.com"}},
		newFakeCountryRepo(),
		&fakeRenderer{},
		nil,
	)

	_, err := uc.Refresh(context.Background())
	if err == nil {
		t.Fatal("Refresh() err = nil, want upstream error")
	}
	if slow.calls.Load() != 1 {
		t.Fatalf("directory fetch calls=%d, fetch must settle before the cycle aborts", slow.calls.Load())
	}
}

func TestRefreshPersistenceFailure(t *testing.T) {
	repo := newFakeCountryRepo()
	repo.saveErr = errors.New("connection reset")
	renderer := &fakeRenderer{}
	publisher := &fakePublisher{}
	uc := newTestRefreshUsecase(
		&fakeCountrySource{countries: testlandDirectory()},
		&fakeRateSource{table: &domain.RateTable{Rates: map[string]float64{"XYZ": 2.0}}},
		repo,
		renderer,
		publisher,
	)

	_, err := uc.Refresh(context.Background())
	if err == nil {
		t.Fatal("Refresh() err = nil, want persistence error")
	}
	var ue *domain.UpstreamError
	if errors.As(err, &ue) {
		t.Fatalf("persistence failure must not look like an upstream error: %v", err)
	}
	if renderer.calls.Load() != 0 {
		t.Fatalf("renderer calls=%d want 0", renderer.calls.Load())
	}
	if len(publisher.events) != 0 {
		t.Fatalf("events=%d want 0", len(publisher.events))
	}
}

func TestRefreshRenderFailureDoesNotFailCycle(t *testing.T) {
	repo := newFakeCountryRepo()
	publisher := &fakePublisher{}
	uc := newTestRefreshUsecase(
		&fakeCountrySource{countries: testlandDirectory()},
		&fakeRateSource{table: &domain.RateTable{Rates: map[string]float64{"XYZ": 2.0}}},
		repo,
		&fakeRenderer{err: errors.New("disk full")},
		publisher,
	)

	result, err := uc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh() err = %v, render failure must not fail the cycle", err)
	}
	if result.TotalCountries != 1 {
		t.Fatalf("total=%d want 1", result.TotalCountries)
	}
	if len(publisher.events) != 1 {
		t.Fatalf("events=%d want 1", len(publisher.events))
	}
}

func TestRefreshIsIdempotentOnIdenticalUpstreamData(t *testing.T) {
	repo := newFakeCountryRepo()
	uc := newTestRefreshUsecase(
		&fakeCountrySource{countries: testlandDirectory()},
		&fakeRateSource{table: &domain.RateTable{Rates: map[string]float64{"XYZ": 2.0}}},
		repo,
		&fakeRenderer{},
		nil,
	)

	if _, err := uc.Refresh(context.Background()); err != nil {
		t.Fatalf("first Refresh() err = %v", err)
	}
	first, _ := repo.GetByName("Testland")

	if _, err := uc.Refresh(context.Background()); err != nil {
		t.Fatalf("second Refresh() err = %v", err)
	}
	second, _ := repo.GetByName("Testland")

	if len(repo.rows) != 1 {
		t.Fatalf("rows=%d want 1 after two identical refreshes", len(repo.rows))
	}
	// Same fields, derived random factor aside.
	if first.Name != second.Name || first.Capital != second.Capital ||
		first.Region != second.Region || first.Population != second.Population ||
		*first.CurrencyCode != *second.CurrencyCode || *first.ExchangeRate != *second.ExchangeRate {
		t.Fatalf("rows differ beyond the derived metric: %+v vs %+v", first, second)
	}
}

func TestRefreshCyclesAreSerialized(t *testing.T) {
	repo := newFakeCountryRepo()
	repo.saveDelay = 20 * time.Millisecond
	uc := newTestRefreshUsecase(
		&fakeCountrySource{countries: testlandDirectory()},
		&fakeRateSource{table: &domain.RateTable{Rates: map[string]float64{"XYZ": 2.0}}},
		repo,
		&fakeRenderer{},
		nil,
	)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := uc.Refresh(context.Background()); err != nil {
				t.Errorf("Refresh() err = %v", err)
			}
		}()
	}
	wg.Wait()

	if repo.overlapped.Load() {
		t.Fatal("two refresh cycles mutated storage concurrently")
	}
	if repo.saveCalls != 4 {
		t.Fatalf("saveCalls=%d want 4", repo.saveCalls)
	}
}
