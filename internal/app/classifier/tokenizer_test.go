package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", []string{}},
		{"lowercases", "Confirm YOUR OTP", []string{"confirm", "your", "otp"}},
		{"splits on punctuation", "bank-account,password!now", []string{"bank", "account", "password", "now"}},
		{"drops single runes", "a b cd I", []string{"cd"}},
		{"keeps digits", "call 911 now", []string{"call", "911", "now"}},
		{"underscore separates", "pin_code", []string{"pin", "code"}},
		{"unicode letters", "Überweisung Jetzt", []string{"überweisung", "jetzt"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.in)
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
