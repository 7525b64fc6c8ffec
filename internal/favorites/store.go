package favorites

import (
	"fmt"
	"sync"

	"github.com/MrSnakeDoc/cookbook/internal/domain"
)

// Observer is called after every change with a copy of the entries.
// It must not mutate the Store it is subscribed to.
type Observer func(entries []domain.Recipe)

// Store holds the recipes the user marked as favorite, oldest first.
//
// A Store is created once at startup and passed to whoever needs it.
// Entries are deep copies of the recipes handed in, so callers never share
// state with the store. Observers run synchronously, in mutation order,
// before the mutating call returns.
type Store struct {
	mu      sync.RWMutex
	entries []domain.Recipe

	// notifyMu keeps notifications in mutation order without holding mu
	// while observers run.
	notifyMu sync.Mutex

	obsMu     sync.Mutex
	observers map[int]Observer
	nextObsID int
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{observers: make(map[int]Observer)}
}

// Toggle removes the entry matching recipe.ID, or appends a copy of recipe
// when there is none. It reports whether recipe is a favorite afterwards.
//
// A recipe without an id is a programming error and panics.
func (s *Store) Toggle(recipe domain.Recipe) bool {
	if recipe.ID == "" {
		panic(fmt.Sprintf("favorites: toggle: %v", domain.ErrMissingID))
	}

	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	idx := s.indexLocked(recipe.ID)
	if idx >= 0 {
		s.entries = append(s.entries[:idx:idx], s.entries[idx+1:]...)
	} else {
		s.entries = append(s.entries, recipe.Clone())
	}
	snapshot := domain.CloneRecipes(s.entries)
	s.mu.Unlock()

	s.notify(snapshot)
	return idx < 0
}

// IsFavorite reports whether an entry with recipe.ID exists.
func (s *Store) IsFavorite(recipe domain.Recipe) bool {
	return s.Contains(recipe.ID)
}

// Contains reports whether an entry with id exists.
func (s *Store) Contains(id domain.ID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexLocked(id) >= 0
}

// List returns a copy of the entries in insertion order.
func (s *Store) List() []domain.Recipe {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.CloneRecipes(s.entries)
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Restore replaces all entries, dropping any without an id or repeating an
// earlier id, and notifies observers.
func (s *Store) Restore(entries []domain.Recipe) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	seen := make(map[domain.ID]bool, len(entries))
	clean := make([]domain.Recipe, 0, len(entries))
	for _, e := range entries {
		if e.ID == "" || seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		clean = append(clean, e.Clone())
	}

	s.mu.Lock()
	s.entries = clean
	snapshot := domain.CloneRecipes(s.entries)
	s.mu.Unlock()

	s.notify(snapshot)
}

// Subscribe registers fn and returns a function that unregisters it.
func (s *Store) Subscribe(fn Observer) (unsubscribe func()) {
	s.obsMu.Lock()
	id := s.nextObsID
	s.nextObsID++
	s.observers[id] = fn
	s.obsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.obsMu.Lock()
			delete(s.observers, id)
			s.obsMu.Unlock()
		})
	}
}

func (s *Store) notify(snapshot []domain.Recipe) {
	s.obsMu.Lock()
	observers := make([]Observer, 0, len(s.observers))
	for id := 0; id < s.nextObsID; id++ {
		if fn, ok := s.observers[id]; ok {
			observers = append(observers, fn)
		}
	}
	s.obsMu.Unlock()

	for _, fn := range observers {
		fn(domain.CloneRecipes(snapshot))
	}
}

func (s *Store) indexLocked(id domain.ID) int {
	for i := range s.entries {
		if s.entries[i].ID == id {
			return i
		}
	}
	return -1
}
