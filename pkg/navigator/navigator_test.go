package navigator

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formwizard/pkg/question"
)

func questions(ids ...string) []question.Question {
	out := make([]question.Question, len(ids))
	for i, id := range ids {
		out[i] = question.Question{ID: id, Name: id}
	}
	return out
}

type recorder struct {
	ids []string
}

func (r *recorder) listen(q question.Question, ok bool) {
	if !ok {
		r.ids = append(r.ids, "<none>")
		return
	}
	r.ids = append(r.ids, q.ID)
}

func TestNavigator_EmptyState(t *testing.T) {
	n := New()
	if _, ok := n.Current(); ok {
		t.Fatalf("expected no current question")
	}
	if n.Index() != -1 || n.CurrentID() != "" {
		t.Fatalf("unexpected index %d / id %q", n.Index(), n.CurrentID())
	}
	if n.Next() || n.Previous() || n.CanGoNext() || n.CanGoPrevious() {
		t.Fatalf("empty navigator should not move")
	}

	rec := &recorder{}
	n.Subscribe(rec.listen)
	n.Load(nil)
	if diff := cmp.Diff([]string{"<none>"}, rec.ids); diff != "" {
		t.Fatalf("notifications mismatch (-want +got):\n%s", diff)
	}
}

func TestNavigator_LoadResetsAndNotifies(t *testing.T) {
	n := New(questions("a", "b")...)
	n.Next()

	rec := &recorder{}
	n.Subscribe(rec.listen)
	n.Load(questions("x", "y", "z"))

	if n.Index() != 0 || n.CurrentID() != "x" {
		t.Fatalf("Load did not reset: index=%d id=%q", n.Index(), n.CurrentID())
	}
	if diff := cmp.Diff([]string{"x"}, rec.ids); diff != "" {
		t.Fatalf("notifications mismatch (-want +got):\n%s", diff)
	}
}

func TestNavigator_GoToNotifiesExactlyOnce(t *testing.T) {
	n := New(questions("a", "b", "c")...)
	for _, id := range []string{"c", "a", "b", "b"} {
		rec := &recorder{}
		unsubscribe := n.Subscribe(rec.listen)
		if !n.GoTo(id) {
			t.Fatalf("GoTo(%q) returned false", id)
		}
		unsubscribe()

		if n.CurrentID() != id {
			t.Fatalf("GoTo(%q) current = %q", id, n.CurrentID())
		}
		if diff := cmp.Diff([]string{id}, rec.ids); diff != "" {
			t.Fatalf("GoTo(%q) notifications (-want +got):\n%s", id, diff)
		}
	}
}

func TestNavigator_GoToUnknownIsNoop(t *testing.T) {
	n := New(questions("a", "b")...)
	n.Next()
	rec := &recorder{}
	n.Subscribe(rec.listen)

	if n.GoTo("missing") {
		t.Fatalf("GoTo(missing) returned true")
	}
	if n.Index() != 1 || len(rec.ids) != 0 {
		t.Fatalf("unexpected state index=%d notifications=%v", n.Index(), rec.ids)
	}
}

func TestNavigator_Boundaries(t *testing.T) {
	n := New(questions("a", "b", "c")...)
	rec := &recorder{}
	n.Subscribe(rec.listen)

	if n.Previous() {
		t.Fatalf("Previous at first question moved")
	}
	if !n.IsFirst() || n.CanGoPrevious() {
		t.Fatalf("expected first question")
	}
	if !n.Next() || !n.Next() {
		t.Fatalf("Next failed before the end")
	}
	if n.Index() != 2 || n.CanGoNext() || !n.IsLast() {
		t.Fatalf("expected last question, index=%d", n.Index())
	}
	if n.Next() {
		t.Fatalf("Next at last question moved")
	}
	if !n.Previous() || n.CurrentID() != "b" {
		t.Fatalf("Previous did not move back")
	}

	if diff := cmp.Diff([]string{"b", "c", "b"}, rec.ids); diff != "" {
		t.Fatalf("notifications mismatch (-want +got):\n%s", diff)
	}
}

func TestNavigator_UnsubscribeDuringDispatch(t *testing.T) {
	n := New(questions("a", "b")...)

	var calls []string
	var unsubscribeSecond func()
	n.Subscribe(func(q question.Question, _ bool) {
		calls = append(calls, "first:"+q.ID)
		unsubscribeSecond()
	})
	unsubscribeSecond = n.Subscribe(func(q question.Question, _ bool) {
		calls = append(calls, "second:"+q.ID)
	})

	n.Next()
	n.Previous()
	unsubscribeSecond()

	if diff := cmp.Diff([]string{"first:b", "first:a"}, calls); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestNavigator_QuestionsAreCopies(t *testing.T) {
	n := New(questions("a")...)
	list := n.Questions()
	list[0].ID = "mutated"
	if n.CurrentID() != "a" {
		t.Fatalf("navigator state leaked through Questions()")
	}
	if _, ok := n.Question("a"); !ok || n.IndexOf("zzz") != -1 {
		t.Fatalf("lookup mismatch")
	}
}
