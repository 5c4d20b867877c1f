package privacy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskPhoneNumber(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		want  string
	}{
		{"standard number", "5511999887766", "*********7766"},
		{"with plus prefix", "+5511999887766", "+*********7766"},
		{"short number", "123", "***"},
		{"exactly four digits", "1234", "****"},
		{"short with plus", "+123", "+***"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MaskPhoneNumber(tt.phone))
		})
	}
}

func TestMaskJID(t *testing.T) {
	assert.Equal(t, "*********7766@s.whatsapp.net", MaskJID("5511999887766@s.whatsapp.net"))
	assert.Equal(t, "*********7766", MaskJID("5511999887766"))
	assert.Equal(t, "", MaskJID(""))
}
