// Package validation checks field values against their declared requirements.
// Only required fields are checked; page validity is the conjunction of every
// required field's validity.
package validation

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/goliatone/go-formwizard/pkg/question"
	"github.com/goliatone/go-formwizard/pkg/values"
)

// ZipCodePattern accepts five digits with an optional four digit extension.
const ZipCodePattern = `^\d{5}(-\d{4})?$`

// ZipCodeMessage is reported for malformed zip codes.
const ZipCodeMessage = "Please enter a valid zip code (e.g., 12345 or 12345-6789)."

var zipCodeRe = regexp.MustCompile(ZipCodePattern)

// RequiredAddressFields are the subfields a required address must fill in.
// Country is prefilled and not checked.
var RequiredAddressFields = []string{
	values.AddressStreet,
	values.AddressCity,
	values.AddressState,
	values.AddressZipCode,
	values.AddressAddressType,
}

// Result is the outcome of checking one field.
type Result struct {
	// Message is the field-level error; empty means valid.
	Message string
	// Sub holds subfield messages for composite values.
	Sub map[string]string
}

// Valid reports whether the field passed.
func (r Result) Valid() bool {
	return r.Message == ""
}

// Rule checks one field value.
type Rule func(field question.Field, v values.Value) Result

// Option configures a Validator.
type Option func(*Validator)

// WithRule overrides the rule used for a field type.
func WithRule(t question.FieldType, rule Rule) Option {
	return func(v *Validator) {
		if rule != nil {
			v.rules[t] = rule
		}
	}
}

// Validator dispatches to per-type rules, falling back to the required check.
type Validator struct {
	rules map[question.FieldType]Rule
}

// New constructs a Validator with the built-in rules.
func New(options ...Option) *Validator {
	v := &Validator{
		rules: map[question.FieldType]Rule{
			question.FieldTypeCheckbox:       CheckboxRule,
			question.FieldTypeComplexAddress: AddressRule,
		},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(v)
	}
	return v
}

// Field checks a single field. Optional fields pass unless they hold a
// malformed value, which today only means an address with a bad zip code.
func (v *Validator) Field(field question.Field, value values.Value) Result {
	if !field.Required {
		if field.Type == question.FieldTypeComplexAddress {
			return OptionalAddressRule(field, value)
		}
		return Result{}
	}
	if v != nil {
		if rule, ok := v.rules[field.Type]; ok {
			return rule(field, value)
		}
	}
	return RequiredRule(field, value)
}

// Page checks every field of q against page and returns the full error set.
func (v *Validator) Page(q question.Question, page values.Page) Errors {
	errs := make(Errors)
	for _, field := range q.Fields {
		v.Apply(errs, field, page[field.ID])
	}
	return errs
}

// Apply re-checks a single field and updates errs in place, replacing any
// messages previously recorded for it.
func (v *Validator) Apply(errs Errors, field question.Field, value values.Value) Result {
	res := v.Field(field, value)
	errs.clearField(field.ID)
	if res.Valid() {
		return res
	}
	errs[field.ID] = res.Message
	for sub, msg := range res.Sub {
		errs[field.ID+"."+sub] = msg
	}
	return res
}

// RequiredMessage formats the message for a missing value.
func RequiredMessage(field question.Field) string {
	return field.DisplayLabel() + " is required"
}

// RequiredRule fails when the value is unset or an empty string.
func RequiredRule(field question.Field, v values.Value) Result {
	if v.IsEmpty() {
		return Result{Message: RequiredMessage(field)}
	}
	return Result{}
}

// CheckboxRule treats a required checkbox as one that must be ticked.
func CheckboxRule(field question.Field, v values.Value) Result {
	if checked, ok := v.AsFlag(); ok && checked {
		return Result{}
	}
	return Result{Message: RequiredMessage(field)}
}

// AddressRule requires every address subfield except country and a well formed
// zip code.
func AddressRule(field question.Field, v values.Value) Result {
	addr, ok := v.AsAddress()
	if !ok {
		return Result{Message: RequiredMessage(field)}
	}

	sub := AddressIssues(addr)
	if len(sub) == 0 {
		return Result{}
	}

	missing := 0
	for _, key := range RequiredAddressFields {
		if _, bad := sub[key]; bad {
			raw, _ := addr.Get(key)
			if strings.TrimSpace(raw) == "" {
				missing++
			}
		}
	}

	switch {
	case missing == len(RequiredAddressFields):
		return Result{Message: RequiredMessage(field), Sub: sub}
	case missing > 0:
		return Result{Message: field.DisplayLabel() + " is incomplete", Sub: sub}
	default:
		return Result{Message: ZipCodeMessage, Sub: sub}
	}
}

// OptionalAddressRule only checks the zip code format, and only once a zip
// code has been entered.
func OptionalAddressRule(_ question.Field, v values.Value) Result {
	addr, ok := v.AsAddress()
	if !ok {
		return Result{}
	}
	if zip := strings.TrimSpace(addr.ZipCode); zip != "" && !ValidZipCode(zip) {
		return Result{Message: ZipCodeMessage, Sub: map[string]string{values.AddressZipCode: ZipCodeMessage}}
	}
	return Result{}
}

// AddressIssues reports subfield problems keyed by subfield name.
func AddressIssues(addr values.Address) map[string]string {
	var out map[string]string
	add := func(key, msg string) {
		if out == nil {
			out = make(map[string]string)
		}
		out[key] = msg
	}

	for _, key := range RequiredAddressFields {
		raw, _ := addr.Get(key)
		if strings.TrimSpace(raw) == "" {
			add(key, SubfieldLabel(key)+" is required.")
		}
	}
	if zip := strings.TrimSpace(addr.ZipCode); zip != "" && !ValidZipCode(zip) {
		add(values.AddressZipCode, ZipCodeMessage)
	}
	return out
}

// ValidZipCode reports whether s matches ZipCodePattern.
func ValidZipCode(s string) bool {
	return zipCodeRe.MatchString(s)
}

// SubfieldLabel turns a camelCase key into a title: zipCode -> Zip Code.
func SubfieldLabel(key string) string {
	if key == "" {
		return ""
	}
	var b strings.Builder
	for i, r := range key {
		if i == 0 {
			b.WriteRune(unicode.ToUpper(r))
			continue
		}
		if unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}
