package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeE164(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		region string
		want   string
	}{
		{"already e164", "+996555123456", "KG", "+996555123456"},
		{"spaces stripped", " +996 555 123 456 ", "KG", "+996555123456"},
		{"empty", "   ", "KG", ""},
		{"unparseable kept", "call me", "KG", "call me"},
		{"invalid number kept trimmed", " 12345 ", "KG", "12345"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeE164(tt.input, tt.region))
		})
	}
}
