package ledger

import (
	"sort"
	"sync"
	"time"

	"stock_go/internal/domain"
)

// Store is the single in-process source of truth for all stock state.
// Mutation and the synchronous file save happen under one lock, so a
// response is only returned once the document is durable.
type Store struct {
	mu     sync.Mutex
	path   string
	stocks map[string]*domain.Stock
	now    func() time.Time
}

// NewStore loads the persisted document (if any) and wraps it in a store.
// The clock is injected so tests can pin the weekday bucket.
func NewStore(path string, now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	s := &Store{
		path:   path,
		stocks: make(map[string]*domain.Stock),
		now:    now,
	}
	for _, st := range Load(path) {
		clone := st.Clone()
		s.stocks[st.Name] = &clone
	}
	return s
}

// Len returns the number of stocks in the ledger.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.stocks)
}

// Get returns a copy of the named stock without creating it.
func (s *Store) Get(name string) (domain.Stock, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.stocks[name]
	if !ok {
		return domain.Stock{}, false
	}
	return st.Clone(), true
}

// GetOrCreate returns the named stock, creating it with defaults when
// absent. The creation is persisted immediately.
func (s *Store) GetOrCreate(name string) (domain.Stock, error) {
	return s.ApplyTrade(name, domain.ActionGet, nil)
}

// ApplyTrade applies one trade to the named stock, creating it lazily,
// and persists the full ledger before returning. The amount is coerced
// from whatever the caller supplied; unparsable input means 0. The only
// error path is the synchronous save.
func (s *Store) ApplyTrade(name string, action domain.Action, amount any) (domain.Stock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.stocks[name]
	if !ok {
		st = domain.NewStock(name)
		s.stocks[name] = st
	}
	st.Repair()

	st.Apply(action, domain.ParseAmount(amount), s.Today())

	if err := s.saveLocked(); err != nil {
		return domain.Stock{}, err
	}
	return st.Clone(), nil
}

// Snapshot returns a name-sorted copy of the full ledger.
func (s *Store) Snapshot() []domain.Stock {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Stock, 0, len(s.stocks))
	for _, st := range s.stocks {
		out = append(out, st.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Path returns the location of the persisted document.
func (s *Store) Path() string {
	return s.path
}

// Today returns the current weekday record key per the store's clock.
func (s *Store) Today() string {
	return domain.WeekdayKey(s.now())
}

func (s *Store) saveLocked() error {
	stocks := make([]domain.Stock, 0, len(s.stocks))
	for _, st := range s.stocks {
		stocks = append(stocks, *st)
	}
	sort.Slice(stocks, func(i, j int) bool { return stocks[i].Name < stocks[j].Name })
	return Save(s.path, stocks)
}
