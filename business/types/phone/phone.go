// Package phone represents a phone number that can receive text messages.
package phone

import (
	"database/sql"
	"fmt"
	"regexp"
	"strings"
)

// Phone represents an E.164 phone number.
type Phone struct {
	value string
}

// String returns the value of the phone number.
func (p Phone) String() string {
	return p.value
}

// Equal provides support for the go-cmp package and testing.
func (p Phone) Equal(p2 Phone) bool {
	return p.value == p2.value
}

// MarshalText provides support for logging and any marshal needs.
func (p Phone) MarshalText() ([]byte, error) {
	return []byte(p.value), nil
}

// =============================================================================

// e164RegEx is a leading + followed by up to fifteen digits.
var e164RegEx = regexp.MustCompile(`^\+[1-9][0-9]{6,14}$`)

// normalize drops the separators people usually type.
func normalize(value string) string {
	return strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(value)
}

// Parse parses the string value and returns a phone number if the value
// complies with E.164 once spaces, dashes and parentheses are removed.
func Parse(value string) (Phone, error) {
	v := normalize(value)
	if !e164RegEx.MatchString(v) {
		return Phone{}, fmt.Errorf("invalid phone %q", value)
	}

	return Phone{v}, nil
}

// MustParse parses the string value and returns a phone number. If an error
// occurs the function panics.
func MustParse(value string) Phone {
	p, err := Parse(value)
	if err != nil {
		panic(err)
	}

	return p
}

// =============================================================================

// Null represents a phone number in the system that can be empty.
type Null struct {
	value string
	valid bool
}

// ToSQLNullString converts a Null value to a sql NullString.
func ToSQLNullString(n Null) sql.NullString {
	return sql.NullString{
		String: n.value,
		Valid:  n.valid,
	}
}

// Valid reports whether a phone number is present.
func (n Null) Valid() bool {
	return n.valid
}

// String returns the value of the phone number or the empty string.
func (n Null) String() string {
	return n.value
}

// Equal provides support for the go-cmp package and testing.
func (n Null) Equal(n2 Null) bool {
	return n.value == n2.value && n.valid == n2.valid
}

// MarshalText provides support for logging and any marshal needs.
func (n Null) MarshalText() ([]byte, error) {
	return []byte(n.value), nil
}

// =============================================================================

// ParseNull parses the string value and returns a phone number if the value
// complies with the rules for a phone number. The empty string is a valid
// null phone.
func ParseNull(value string) (Null, error) {
	if value == "" {
		return Null{}, nil
	}

	p, err := Parse(value)
	if err != nil {
		return Null{}, err
	}

	return Null{p.value, true}, nil
}

// MustParseNull parses the string value and returns a phone number. If an
// error occurs the function panics.
func MustParseNull(value string) Null {
	n, err := ParseNull(value)
	if err != nil {
		panic(err)
	}

	return n
}
