package callbacks

import (
	"testing"

	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		unique  string
		payload string
	}{
		{"unique only", "\flang", "lang", ""},
		{"unique with payload", "\flang|en", "lang", "en"},
		{"escaped prefix", "\\flang|ru", "lang", "ru"},
		{"no prefix", "cat|pay", "cat", "pay"},
		{"payload keeps separators", "\faclose|42|extra", "aclose", "42|extra"},
		{"empty payload after bar", "\fopen|", "open", ""},
		{"empty data", "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unique, payload := Parse(&tele.Callback{Data: tt.data})
			require.Equal(t, tt.unique, unique)
			require.Equal(t, tt.payload, payload)
		})
	}
}

func TestParseNilCallback(t *testing.T) {
	unique, payload := Parse(nil)
	require.Empty(t, unique)
	require.Empty(t, payload)
}
