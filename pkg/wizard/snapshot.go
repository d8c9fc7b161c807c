package wizard

import (
	"github.com/goliatone/go-formwizard/pkg/question"
	"github.com/goliatone/go-formwizard/pkg/validation"
	"github.com/goliatone/go-formwizard/pkg/values"
)

// Snapshot is a serialisable view of the session for presentation layers.
type Snapshot struct {
	Status        Status             `json:"status"`
	Error         string             `json:"error,omitempty"`
	Question      *question.Question `json:"question,omitempty"`
	Index         int                `json:"index"`
	Total         int                `json:"total"`
	Path          string             `json:"path"`
	CanGoNext     bool               `json:"canGoNext"`
	CanGoPrevious bool               `json:"canGoPrevious"`
	IsLast        bool               `json:"isLast"`
	Values        values.Page        `json:"values,omitempty"`
	Errors        validation.Errors  `json:"errors,omitempty"`
	Submitted     bool               `json:"submitted"`
	SubmissionID  string             `json:"submissionId,omitempty"`
}

// Snapshot captures the current state.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Status:        s.status,
		Error:         s.ErrorMessage(),
		Index:         s.nav.Index(),
		Total:         s.nav.Len(),
		Path:          s.Path(),
		CanGoNext:     s.nav.CanGoNext(),
		CanGoPrevious: s.nav.CanGoPrevious(),
		IsLast:        s.nav.IsLast(),
	}
	if q, ok := s.nav.Current(); ok {
		snap.Question = &q
		snap.Values = s.form.Page(q.ID)
	}
	if len(s.errs) > 0 {
		snap.Errors = s.errs.Clone()
	}
	if s.submission != nil {
		snap.Submitted = true
		snap.SubmissionID = s.submission.ID
	}
	return snap
}
