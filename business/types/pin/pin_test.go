package pin_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/types/pin"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in string
		ok bool
	}{
		{"1234", true},
		{"12345678", true},
		{"123", false},
		{"123456789", false},
		{"12a4", false},
		{"", false},
	}

	for _, tt := range tests {
		p, err := pin.Parse(tt.in)
		if !tt.ok {
			assert.ErrorIs(t, err, pin.ErrInvalid, tt.in)
			continue
		}
		assert.NoError(t, err, tt.in)
		assert.Equal(t, tt.in, p.String())
	}
}

func TestMarshalTextMasks(t *testing.T) {
	b, err := pin.MustParse("9876").MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, "****", string(b))
}
