// Package pin represents the numeric access code a client uses to open its
// reports.
package pin

import (
	"errors"
	"regexp"
)

// ErrInvalid is returned when a value is not a valid pin.
var ErrInvalid = errors.New("pin must be 4 to 8 digits")

// PIN represents a client access pin.
type PIN struct {
	value string
}

// String returns the value of the pin.
func (p PIN) String() string {
	return p.value
}

// Equal provides support for the go-cmp package and testing.
func (p PIN) Equal(p2 PIN) bool {
	return p.value == p2.value
}

// MarshalText masks the pin so it never reaches the logs.
func (p PIN) MarshalText() ([]byte, error) {
	return []byte("****"), nil
}

// =============================================================================

var pinRegEx = regexp.MustCompile(`^[0-9]{4,8}$`)

// Parse parses the string value and returns a pin if the value complies
// with the rules for a pin.
func Parse(value string) (PIN, error) {
	if !pinRegEx.MatchString(value) {
		return PIN{}, ErrInvalid
	}

	return PIN{value}, nil
}

// MustParse parses the string value and returns a pin. If an error occurs
// the function panics.
func MustParse(value string) PIN {
	p, err := Parse(value)
	if err != nil {
		panic(err)
	}

	return p
}
