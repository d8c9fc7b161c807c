package wizard

import "errors"

var (
	// ErrLoadInProgress is returned when Load is called while a fetch is
	// outstanding.
	ErrLoadInProgress = errors.New("wizard: load already in progress")
	// ErrNotReady is returned by operations that need loaded questions.
	ErrNotReady = errors.New("wizard: questions not loaded")
	// ErrNoQuestions is returned when the loaded set is empty.
	ErrNoQuestions = errors.New("wizard: no questions")
	// ErrUnknownQuestion is returned for page ids that are not loaded.
	ErrUnknownQuestion = errors.New("wizard: unknown question")
	// ErrUnknownField is returned for field ids not declared by the page.
	ErrUnknownField = errors.New("wizard: unknown field")
	// ErrKindMismatch is returned when a value's kind does not match the
	// field's declared type.
	ErrKindMismatch = errors.New("wizard: value kind does not match field type")
	// ErrUnknownOption is returned for choice values outside the declared
	// options.
	ErrUnknownOption = errors.New("wizard: value is not one of the field options")
)
