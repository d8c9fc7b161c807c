package values

import "github.com/goliatone/go-formwizard/pkg/question"

// Page maps field ids to values for one question.
type Page map[string]Value

// Clone copies the page. Values are immutable so a shallow copy suffices.
func (p Page) Clone() Page {
	if p == nil {
		return nil
	}
	out := make(Page, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Form maps question ids to their pages. Pages are created on first visit and
// never removed.
type Form map[string]Page

// Get returns the value stored for a field.
func (f Form) Get(pageID, fieldID string) (Value, bool) {
	page, ok := f[pageID]
	if !ok {
		return Value{}, false
	}
	v, ok := page[fieldID]
	return v, ok
}

// Set stores a value, creating the page map when needed.
func (f Form) Set(pageID, fieldID string, v Value) {
	page, ok := f[pageID]
	if !ok || page == nil {
		page = make(Page)
		f[pageID] = page
	}
	page[fieldID] = v
}

// Page returns a copy of a page's values.
func (f Form) Page(pageID string) Page {
	return f[pageID].Clone()
}

// Clone deep copies the form.
func (f Form) Clone() Form {
	if f == nil {
		return nil
	}
	out := make(Form, len(f))
	for id, page := range f {
		out[id] = page.Clone()
	}
	return out
}

// Seed assigns defaults to every field of q that has no value yet and returns
// the ids it filled in. Existing values of the right kind are never
// overwritten, so returning to a visited page keeps its edits.
func (f Form) Seed(q question.Question) []string {
	page, ok := f[q.ID]
	if !ok || page == nil {
		page = make(Page, len(q.Fields))
		f[q.ID] = page
	}

	var seeded []string
	for _, field := range q.Fields {
		if existing, ok := page[field.ID]; ok && existing.IsSet() && existing.Kind() == KindFor(field.Type) {
			continue
		}
		page[field.ID] = Default(field.Type)
		seeded = append(seeded, field.ID)
	}
	return seeded
}

// Conform resets stored values whose kind no longer matches the field type and
// returns the reset ids. Pages that were never visited are left alone.
func (f Form) Conform(q question.Question) []string {
	page, ok := f[q.ID]
	if !ok || page == nil {
		return nil
	}

	var reset []string
	for _, field := range q.Fields {
		v, ok := page[field.ID]
		if !ok || !v.IsSet() || v.Kind() == KindFor(field.Type) {
			continue
		}
		page[field.ID] = Default(field.Type)
		reset = append(reset, field.ID)
	}
	return reset
}
