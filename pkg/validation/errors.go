package validation

import (
	"fmt"
	"sort"
	"strings"
)

// Errors maps field ids to messages. Address subfield problems are reported
// under "<fieldID>.<subfield>" keys next to the field-level message.
type Errors map[string]string

// Valid reports whether no errors are recorded.
func (e Errors) Valid() bool {
	return len(e) == 0
}

// Has reports whether a message exists for key.
func (e Errors) Has(key string) bool {
	_, ok := e[key]
	return ok
}

// Keys returns the recorded keys in sorted order.
func (e Errors) Keys() []string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone copies the map.
func (e Errors) Clone() Errors {
	out := make(Errors, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// Sub returns the subfield errors recorded for fieldID keyed by subfield name.
func (e Errors) Sub(fieldID string) map[string]string {
	prefix := fieldID + "."
	var out map[string]string
	for k, v := range e {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		if out == nil {
			out = make(map[string]string)
		}
		out[strings.TrimPrefix(k, prefix)] = v
	}
	return out
}

// clearField drops the field-level message and every subfield message.
func (e Errors) clearField(fieldID string) {
	delete(e, fieldID)
	prefix := fieldID + "."
	for k := range e {
		if strings.HasPrefix(k, prefix) {
			delete(e, k)
		}
	}
}

// PageError is returned when a page fails validation.
type PageError struct {
	PageID string
	Errors Errors
}

func (e *PageError) Error() string {
	count := 0
	for k := range e.Errors {
		if !strings.Contains(k, ".") {
			count++
		}
	}
	return fmt.Sprintf("validation: page %q has %d invalid field(s)", e.PageID, count)
}
