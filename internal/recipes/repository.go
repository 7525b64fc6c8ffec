package recipes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/MrSnakeDoc/cookbook/internal/domain"
	"github.com/MrSnakeDoc/cookbook/internal/kv"
	"github.com/MrSnakeDoc/cookbook/internal/logger"
)

// errUnchanged short-circuits a mutation that would rewrite identical data.
var errUnchanged = errors.New("collection unchanged")

// Repository is durable CRUD over the user's own recipes.
//
// The whole collection lives in one JSON array under kv.KeyMyRecipes and
// every mutation rewrites it entirely. Mutations made through one
// Repository run one at a time. When the provider implements kv.Updater
// the cycle is also atomic against other writers of the key.
type Repository struct {
	provider kv.Provider
	logger   logger.Logger
	now      func() time.Time

	mu     sync.Mutex
	lastID int64 // highest id issued by this repository
}

// Option customizes a Repository.
type Option func(*Repository)

// WithClock replaces time.Now for id assignment.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

// NewRepository creates a repository over provider.
func NewRepository(provider kv.Provider, log logger.Logger, opts ...Option) *Repository {
	r := &Repository{
		provider: provider,
		logger:   log,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// List returns every stored recipe in stored order. A missing key yields an
// empty slice; undecodable content yields domain.ErrCorrupt.
func (r *Repository) List(ctx context.Context) ([]domain.Recipe, error) {
	cur, found, err := r.provider.Get(ctx, kv.KeyMyRecipes)
	if err != nil {
		return nil, r.fail("list", err)
	}
	list, err := decode(cur, found)
	if err != nil {
		return nil, r.fail("list", err)
	}
	return list, nil
}

// Count returns the number of stored recipes.
func (r *Repository) Count(ctx context.Context) (int, error) {
	list, err := r.List(ctx)
	if err != nil {
		return 0, err
	}
	return len(list), nil
}

// SaveNew assigns draft a fresh id, appends it and returns the stored copy.
// Any id already present on draft is ignored.
func (r *Repository) SaveNew(ctx context.Context, draft domain.Recipe) (domain.Recipe, error) {
	var saved domain.Recipe
	err := r.mutate(ctx, "save", func(list []domain.Recipe) ([]domain.Recipe, error) {
		id, err := r.nextID(list)
		if err != nil {
			return nil, err
		}
		saved = draft.Clone()
		saved.Normalize()
		saved.ID = id
		return append(list, saved), nil
	})
	if err != nil {
		return domain.Recipe{}, err
	}

	r.logger.Debug("recipe saved",
		logger.String("id", saved.ID.String()),
		logger.String("title", saved.Title))
	return saved.Clone(), nil
}

// UpdateAt replaces the recipe at position with updated, keeping the stored
// id. It fails with domain.ErrOutOfRange when position does not address an
// element of the current collection.
func (r *Repository) UpdateAt(ctx context.Context, position int, updated domain.Recipe) (domain.Recipe, error) {
	var stored domain.Recipe
	err := r.mutate(ctx, "update", func(list []domain.Recipe) ([]domain.Recipe, error) {
		if position < 0 || position >= len(list) {
			return nil, fmt.Errorf("%w: position %d, collection has %d recipes",
				domain.ErrOutOfRange, position, len(list))
		}
		stored = updated.Clone()
		stored.Normalize()
		stored.ID = list[position].ID
		list[position] = stored
		return list, nil
	})
	if err != nil {
		return domain.Recipe{}, err
	}

	r.logger.Debug("recipe updated",
		logger.String("id", stored.ID.String()),
		logger.Int("position", position))
	return stored.Clone(), nil
}

// DeleteByID removes the recipe with the given id. Deleting an id that is
// not stored is not an error and writes nothing.
func (r *Repository) DeleteByID(ctx context.Context, id domain.ID) error {
	err := r.mutate(ctx, "delete", func(list []domain.Recipe) ([]domain.Recipe, error) {
		out := list[:0]
		for _, rec := range list {
			if rec.ID != id {
				out = append(out, rec)
			}
		}
		if len(out) == len(list) {
			return nil, errUnchanged
		}
		return out, nil
	})
	if err != nil {
		return err
	}

	r.logger.Debug("recipe deleted", logger.String("id", id.String()))
	return nil
}

// mutate runs one read-edit-write cycle over the collection.
func (r *Repository) mutate(ctx context.Context, op string, edit func([]domain.Recipe) ([]domain.Recipe, error)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	apply := func(cur string, found bool) (string, error) {
		list, err := decode(cur, found)
		if err != nil {
			return "", err
		}
		next, err := edit(list)
		if err != nil {
			return "", err
		}
		return encode(next)
	}

	var err error
	if u, ok := r.provider.(kv.Updater); ok {
		err = u.Update(ctx, kv.KeyMyRecipes, apply)
	} else {
		err = r.readModifyWrite(ctx, apply)
	}

	if errors.Is(err, errUnchanged) {
		return nil
	}
	if err != nil {
		return r.fail(op, err)
	}
	return nil
}

func (r *Repository) readModifyWrite(ctx context.Context, apply kv.UpdateFunc) error {
	cur, found, err := r.provider.Get(ctx, kv.KeyMyRecipes)
	if err != nil {
		return err
	}
	next, err := apply(cur, found)
	if err != nil {
		return err
	}
	return r.provider.Set(ctx, kv.KeyMyRecipes, next)
}

// fail classifies err into the repository's error taxonomy and logs it.
func (r *Repository) fail(op string, err error) error {
	switch {
	case errors.Is(err, domain.ErrOutOfRange):
		r.logger.Debug("recipe operation rejected",
			logger.String("op", op), logger.Error(err))
		return err
	case errors.Is(err, domain.ErrCorrupt):
		r.logger.Warn("stored recipes are corrupt",
			logger.String("op", op), logger.Error(err))
		return err
	default:
		r.logger.Warn("recipe persistence failed",
			logger.String("op", op), logger.Error(err))
		return fmt.Errorf("%w: %w", domain.ErrPersistenceUnavailable, err)
	}
}

// nextID returns a millisecond timestamp id that no stored recipe uses. It
// is greater than every numeric id in list and every id this repository
// issued before, except that ids at the int64 ceiling cannot be exceeded and
// are only avoided.
func (r *Repository) nextID(list []domain.Recipe) (domain.ID, error) {
	candidate := r.now().UnixMilli()
	if candidate <= r.lastID && r.lastID < math.MaxInt64 {
		candidate = r.lastID + 1
	}

	taken := make(map[int64]bool, len(list))
	for _, rec := range list {
		n, ok := rec.ID.Numeric()
		if !ok {
			continue
		}
		taken[n] = true
		if n >= candidate && n < math.MaxInt64 {
			candidate = n + 1
		}
	}

	for taken[candidate] {
		if candidate == math.MaxInt64 {
			return "", fmt.Errorf("%w: no free id above %d", domain.ErrCorrupt, candidate)
		}
		candidate++
	}

	r.lastID = candidate
	return domain.ID(strconv.FormatInt(candidate, 10)), nil
}

func decode(cur string, found bool) ([]domain.Recipe, error) {
	if !found || strings.TrimSpace(cur) == "" {
		return []domain.Recipe{}, nil
	}
	var list []domain.Recipe
	if err := json.Unmarshal([]byte(cur), &list); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCorrupt, err)
	}
	if list == nil {
		list = []domain.Recipe{}
	}
	for i := range list {
		list[i].Normalize()
	}
	return list, nil
}

func encode(list []domain.Recipe) (string, error) {
	data, err := json.Marshal(list)
	if err != nil {
		return "", fmt.Errorf("failed to marshal recipes: %w", err)
	}
	return string(data), nil
}
