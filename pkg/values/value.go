// Package values holds the per-page answers collected by the wizard. A Value is
// a tagged union whose kind is fixed by the declaring field's type.
package values

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/goliatone/go-formwizard/pkg/question"
)

// Kind tags the variant stored in a Value.
type Kind uint8

const (
	KindNone Kind = iota
	KindText
	KindFlag
	KindAddress
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindFlag:
		return "flag"
	case KindAddress:
		return "address"
	default:
		return "none"
	}
}

// KindFor maps a declared field type onto the value kind it stores.
func KindFor(t question.FieldType) Kind {
	switch t {
	case question.FieldTypeCheckbox:
		return KindFlag
	case question.FieldTypeComplexAddress:
		return KindAddress
	default:
		return KindText
	}
}

// Value is one of Text, Flag, or Address. The zero Value holds nothing.
type Value struct {
	kind    Kind
	text    string
	flag    bool
	address Address
}

// Text wraps a string answer.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Flag wraps a boolean answer.
func Flag(b bool) Value { return Value{kind: KindFlag, flag: b} }

// AddressOf wraps a composite address answer.
func AddressOf(a Address) Value { return Value{kind: KindAddress, address: a} }

// Default returns the initial value for a field type: false for checkboxes, the
// zero address for address fields, and the empty string otherwise.
func Default(t question.FieldType) Value {
	switch KindFor(t) {
	case KindFlag:
		return Flag(false)
	case KindAddress:
		return AddressOf(NewAddress())
	default:
		return Text("")
	}
}

func (v Value) Kind() Kind { return v.kind }

// IsSet reports whether the value holds any variant.
func (v Value) IsSet() bool { return v.kind != KindNone }

func (v Value) AsText() (string, bool) {
	return v.text, v.kind == KindText
}

func (v Value) AsFlag() (bool, bool) {
	return v.flag, v.kind == KindFlag
}

func (v Value) AsAddress() (Address, bool) {
	return v.address, v.kind == KindAddress
}

// IsEmpty reports the "nothing entered" state: unset, or an empty string.
// Flags and addresses are never empty in this sense; their validity is checked
// by the validator.
func (v Value) IsEmpty() bool {
	switch v.kind {
	case KindNone:
		return true
	case KindText:
		return v.text == ""
	default:
		return false
	}
}

// Equal compares kind and payload.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindText:
		return v.text == other.text
	case KindFlag:
		return v.flag == other.flag
	case KindAddress:
		return v.address == other.address
	default:
		return true
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindFlag:
		if v.flag {
			return "true"
		}
		return "false"
	case KindAddress:
		return v.address.String()
	default:
		return ""
	}
}

// MarshalJSON encodes the payload bare: a string, a bool, an address object, or
// null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindText:
		return json.Marshal(v.text)
	case KindFlag:
		return json.Marshal(v.flag)
	case KindAddress:
		return json.Marshal(v.address)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON infers the kind from the JSON token type.
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*v = Value{}
		return nil
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*v = Text(s)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(trimmed, &b); err != nil {
			return err
		}
		*v = Flag(b)
	case '{':
		var a Address
		if err := json.Unmarshal(trimmed, &a); err != nil {
			return err
		}
		*v = AddressOf(a)
	default:
		return fmt.Errorf("values: unsupported JSON value %s", strings.TrimSpace(string(trimmed)))
	}
	return nil
}
