// Package navigator tracks the ordered question list and the active index, and
// notifies subscribers whenever the active question changes. A Navigator is not
// safe for concurrent use; hosts serialise access to it.
package navigator

import (
	"github.com/goliatone/go-formwizard/pkg/question"
)

// Listener receives the new active question. ok is false when the list is
// empty.
type Listener func(q question.Question, ok bool)

// Navigator owns the question list and the current index.
type Navigator struct {
	questions []question.Question
	index     int
	listeners []*subscription
}

type subscription struct {
	fn     Listener
	active bool
}

// New returns a navigator preloaded with questions. Listeners are not notified
// for the initial list.
func New(questions ...question.Question) *Navigator {
	n := &Navigator{}
	n.questions = cloneQuestions(questions)
	return n
}

// Load replaces the question list, resets the index to the first question and
// notifies listeners.
func (n *Navigator) Load(questions []question.Question) {
	n.questions = cloneQuestions(questions)
	n.index = 0
	n.notify()
}

// Len returns the number of loaded questions.
func (n *Navigator) Len() int {
	return len(n.questions)
}

// Index returns the active index, or -1 when nothing is loaded.
func (n *Navigator) Index() int {
	if len(n.questions) == 0 {
		return -1
	}
	return n.index
}

// Current returns the active question.
func (n *Navigator) Current() (question.Question, bool) {
	if n.index < 0 || n.index >= len(n.questions) {
		return question.Question{}, false
	}
	return n.questions[n.index].Clone(), true
}

// CurrentID returns the active question id or "".
func (n *Navigator) CurrentID() string {
	if n.index < 0 || n.index >= len(n.questions) {
		return ""
	}
	return n.questions[n.index].ID
}

// Questions returns a copy of the loaded list.
func (n *Navigator) Questions() []question.Question {
	return cloneQuestions(n.questions)
}

// Question looks up a loaded question by id.
func (n *Navigator) Question(id string) (question.Question, bool) {
	idx := n.IndexOf(id)
	if idx < 0 {
		return question.Question{}, false
	}
	return n.questions[idx].Clone(), true
}

// IndexOf returns the position of id or -1.
func (n *Navigator) IndexOf(id string) int {
	for i, q := range n.questions {
		if q.ID == id {
			return i
		}
	}
	return -1
}

// GoTo activates the question with the given id. Unknown ids leave the state
// untouched and notify nobody.
func (n *Navigator) GoTo(id string) bool {
	idx := n.IndexOf(id)
	if idx < 0 {
		return false
	}
	n.index = idx
	n.notify()
	return true
}

// Next advances one question. It is a no-op at the last question.
func (n *Navigator) Next() bool {
	if !n.CanGoNext() {
		return false
	}
	n.index++
	n.notify()
	return true
}

// Previous moves back one question. It is a no-op at the first question.
func (n *Navigator) Previous() bool {
	if !n.CanGoPrevious() {
		return false
	}
	n.index--
	n.notify()
	return true
}

func (n *Navigator) CanGoNext() bool {
	return n.index < len(n.questions)-1
}

func (n *Navigator) CanGoPrevious() bool {
	return n.index > 0 && len(n.questions) > 0
}

// IsFirst reports whether the first question is active.
func (n *Navigator) IsFirst() bool {
	return len(n.questions) > 0 && n.index == 0
}

// IsLast reports whether the last question is active.
func (n *Navigator) IsLast() bool {
	return len(n.questions) > 0 && n.index == len(n.questions)-1
}

// Subscribe registers a listener and returns a function that removes it.
// Removal is idempotent and may happen while a notification is being
// dispatched; a removed listener is not called again.
func (n *Navigator) Subscribe(fn Listener) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	sub := &subscription{fn: fn, active: true}
	n.listeners = append(n.listeners, sub)
	return func() {
		if !sub.active {
			return
		}
		sub.active = false
		kept := make([]*subscription, 0, len(n.listeners))
		for _, s := range n.listeners {
			if s != sub {
				kept = append(kept, s)
			}
		}
		n.listeners = kept
	}
}

func (n *Navigator) notify() {
	if len(n.listeners) == 0 {
		return
	}
	current, ok := n.Current()
	snapshot := append([]*subscription(nil), n.listeners...)
	for _, sub := range snapshot {
		if !sub.active {
			continue
		}
		sub.fn(current, ok)
	}
}

func cloneQuestions(in []question.Question) []question.Question {
	if len(in) == 0 {
		return nil
	}
	out := make([]question.Question, len(in))
	for i, q := range in {
		out[i] = q.Clone()
	}
	return out
}
