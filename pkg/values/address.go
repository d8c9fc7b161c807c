package values

import (
	"fmt"
	"strings"
)

// DefaultCountry seeds new addresses.
const DefaultCountry = "USA"

// Address subfield keys, in display order.
const (
	AddressStreet      = "street"
	AddressCity        = "city"
	AddressState       = "state"
	AddressZipCode     = "zipCode"
	AddressCountry     = "country"
	AddressAddressType = "addressType"
)

// AddressFields lists every subfield key in display order.
var AddressFields = []string{
	AddressStreet, AddressCity, AddressState, AddressZipCode, AddressCountry, AddressAddressType,
}

// Address is the composite value of a complex-address field.
type Address struct {
	Street      string `json:"street" yaml:"street"`
	City        string `json:"city" yaml:"city"`
	State       string `json:"state" yaml:"state"`
	ZipCode     string `json:"zipCode" yaml:"zipCode"`
	Country     string `json:"country" yaml:"country"`
	AddressType string `json:"addressType" yaml:"addressType"`
}

// NewAddress returns the blank address used for unvisited fields.
func NewAddress() Address {
	return Address{Country: DefaultCountry}
}

// Get returns a subfield by key.
func (a Address) Get(key string) (string, bool) {
	switch key {
	case AddressStreet:
		return a.Street, true
	case AddressCity:
		return a.City, true
	case AddressState:
		return a.State, true
	case AddressZipCode:
		return a.ZipCode, true
	case AddressCountry:
		return a.Country, true
	case AddressAddressType:
		return a.AddressType, true
	default:
		return "", false
	}
}

// With returns a copy with one subfield replaced.
func (a Address) With(key, value string) (Address, error) {
	switch key {
	case AddressStreet:
		a.Street = value
	case AddressCity:
		a.City = value
	case AddressState:
		a.State = value
	case AddressZipCode:
		a.ZipCode = value
	case AddressCountry:
		a.Country = value
	case AddressAddressType:
		a.AddressType = value
	default:
		return a, fmt.Errorf("values: unknown address field %q", key)
	}
	return a, nil
}

func (a Address) String() string {
	parts := make([]string, 0, 5)
	for _, part := range []string{a.Street, a.City, strings.TrimSpace(a.State + " " + a.ZipCode), a.Country} {
		if p := strings.TrimSpace(part); p != "" {
			parts = append(parts, p)
		}
	}
	out := strings.Join(parts, ", ")
	if t := strings.TrimSpace(a.AddressType); t != "" {
		out += " (" + t + ")"
	}
	return out
}
