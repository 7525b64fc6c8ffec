package favorites

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/cookbook/internal/domain"
)

func recipe(id string) domain.Recipe {
	return domain.Recipe{
		ID:          domain.ID(id),
		Title:       "recipe " + id,
		Ingredients: []domain.Ingredient{{Name: "Salt", Measure: "pinch"}},
	}
}

func ids(list []domain.Recipe) []domain.ID {
	out := make([]domain.ID, len(list))
	for i, r := range list {
		out[i] = r.ID
	}
	return out
}

func TestToggleAddsThenRemoves(t *testing.T) {
	s := NewStore()

	assert.True(t, s.Toggle(recipe("1")))
	assert.True(t, s.IsFavorite(recipe("1")))
	assert.Equal(t, []domain.ID{"1"}, ids(s.List()))

	assert.False(t, s.Toggle(recipe("1")))
	assert.False(t, s.IsFavorite(recipe("1")))
	assert.Empty(t, s.List())
}

func TestToggleInvolutionKeepsOrder(t *testing.T) {
	s := NewStore()
	for _, id := range []string{"a", "b", "c"} {
		s.Toggle(recipe(id))
	}
	before := s.List()

	s.Toggle(recipe("d"))
	s.Toggle(recipe("d"))
	assert.Equal(t, before, s.List())

	// Removing a middle entry and adding it back moves it to the end only.
	s.Toggle(recipe("b"))
	assert.Equal(t, []domain.ID{"a", "c"}, ids(s.List()))
	s.Toggle(recipe("b"))
	assert.Equal(t, []domain.ID{"a", "c", "b"}, ids(s.List()))
}

func TestMembershipFollowsToggleParity(t *testing.T) {
	s := NewStore()
	r := recipe("x")

	for n := 1; n <= 6; n++ {
		s.Toggle(r)
		assert.Equal(t, n%2 == 1, s.IsFavorite(r), "after %d toggles", n)
	}
}

func TestMatchByIDOnly(t *testing.T) {
	s := NewStore()
	s.Toggle(recipe("1"))

	other := recipe("1")
	other.Title = "a different title"
	assert.True(t, s.IsFavorite(other))

	s.Toggle(other)
	assert.Zero(t, s.Len())
}

func TestToggleMissingIDPanics(t *testing.T) {
	s := NewStore()
	assert.Panics(t, func() { s.Toggle(domain.Recipe{Title: "anonymous"}) })
	assert.Zero(t, s.Len())
}

func TestEntriesAreCopies(t *testing.T) {
	s := NewStore()
	r := recipe("1")
	s.Toggle(r)

	r.Title = "changed"
	r.Ingredients[0].Name = "Pepper"

	got := s.List()
	require.Len(t, got, 1)
	assert.Equal(t, "recipe 1", got[0].Title)
	assert.Equal(t, "Salt", got[0].Ingredients[0].Name)

	got[0].Ingredients[0].Name = "Sugar"
	assert.Equal(t, "Salt", s.List()[0].Ingredients[0].Name)
}

func TestObserversNotifiedSynchronously(t *testing.T) {
	s := NewStore()

	var calls [][]domain.ID
	unsubscribe := s.Subscribe(func(entries []domain.Recipe) {
		calls = append(calls, ids(entries))
	})

	s.Toggle(recipe("1"))
	require.Len(t, calls, 1, "observer must run before Toggle returns")
	s.Toggle(recipe("2"))
	s.Toggle(recipe("1"))

	assert.Equal(t, [][]domain.ID{{"1"}, {"1", "2"}, {"2"}}, calls)

	unsubscribe()
	unsubscribe()
	s.Toggle(recipe("3"))
	assert.Len(t, calls, 3)
}

func TestMultipleObservers(t *testing.T) {
	s := NewStore()
	var first, second int
	s.Subscribe(func([]domain.Recipe) { first++ })
	s.Subscribe(func([]domain.Recipe) { second++ })

	s.Toggle(recipe("1"))
	assert.Equal(t, 1, first)
	assert.Equal(t, 1, second)
}

func TestRestore(t *testing.T) {
	s := NewStore()
	s.Toggle(recipe("old"))

	notified := 0
	s.Subscribe(func([]domain.Recipe) { notified++ })

	s.Restore([]domain.Recipe{recipe("1"), {Title: "no id"}, recipe("2"), recipe("1")})

	assert.Equal(t, []domain.ID{"1", "2"}, ids(s.List()))
	assert.False(t, s.Contains("old"))
	assert.Equal(t, 1, notified)
}

func TestConcurrentToggles(t *testing.T) {
	s := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Toggle(recipe("shared"))
			_ = s.IsFavorite(recipe("shared"))
			_ = s.List()
		}()
	}
	wg.Wait()

	// 50 toggles is an even number.
	assert.False(t, s.Contains("shared"))
}
