package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ID identifies a recipe.
//
// It is always handled as a string. Collections written by the mobile
// client carry millisecond timestamps as JSON numbers, so decoding accepts
// both forms and normalizes numbers to their decimal text.
//
// Encoding always produces a JSON string, so the first rewrite of a
// collection turns every numeric id into its string form. Callers that read
// the stored value directly must accept both.
type ID string

// UnmarshalJSON accepts a JSON string or a JSON number.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("recipe id must be a string or a number: %w", err)
	}
	if i, err := n.Int64(); err == nil {
		*id = ID(strconv.FormatInt(i, 10))
		return nil
	}
	*id = ID(n.String())
	return nil
}

// String implements fmt.Stringer.
func (id ID) String() string { return string(id) }

// Numeric returns the id as an integer when it is one.
func (id ID) Numeric() (int64, bool) {
	n, err := strconv.ParseInt(string(id), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Ingredient is one line of a recipe's ingredient list.
type Ingredient struct {
	Name    string `json:"name"`
	Measure string `json:"measure"`
}

// Recipe is a single recipe document.
//
// The same shape is used for user-authored recipes (persisted by the
// recipes repository), seed recipes from the catalog and favorite entries.
type Recipe struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is assigned once at creation time and never changes.
	ID ID `json:"id"`

	// ─────────────────────────────
	// Content
	// ─────────────────────────────

	Title        string       `json:"title"`
	Image        string       `json:"image,omitempty"`
	Description  string       `json:"description,omitempty"`
	Instructions string       `json:"instructions,omitempty"`
	Ingredients  []Ingredient `json:"ingredients"`

	// Category is only set on catalog recipes.
	Category string `json:"category,omitempty"`
}

// Clone returns a deep copy so the caller never shares the ingredients
// backing array with the receiver.
func (r Recipe) Clone() Recipe {
	out := r
	if r.Ingredients != nil {
		out.Ingredients = make([]Ingredient, len(r.Ingredients))
		copy(out.Ingredients, r.Ingredients)
	}
	return out
}

// Normalize makes sure Ingredients encodes as [] rather than null.
func (r *Recipe) Normalize() {
	if r.Ingredients == nil {
		r.Ingredients = []Ingredient{}
	}
}

// CloneRecipes deep-copies a slice of recipes.
func CloneRecipes(in []Recipe) []Recipe {
	out := make([]Recipe, len(in))
	for i := range in {
		out[i] = in[i].Clone()
	}
	return out
}
