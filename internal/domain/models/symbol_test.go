package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSymbol(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "tcs", want: "TCS.NS"},
		{in: "  reliance ", want: "RELIANCE.NS"},
		{in: "Tata Steel", want: "TATASTEEL.NS"},
		{in: "infy.ns", want: "INFY.NS"},
		{in: "SBIN.BO", want: "SBIN.BO"},
		{in: "hdfc\t.bo", want: "HDFC.BO"},
		{in: "", want: ".NS"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeSymbol(tt.in))
		})
	}
}

func TestNormalizeSymbolIdempotent(t *testing.T) {
	inputs := []string{"tcs", " x.ns", "ABC.BO", "a b c", "already.NS.NS", "weird.bo ", "ñ"}
	for _, in := range inputs {
		once := NormalizeSymbol(in)
		assert.Equal(t, once, NormalizeSymbol(once), in)
		assert.True(t, strings.HasSuffix(once, SuffixPrimary) || strings.HasSuffix(once, SuffixSecondary), once)
	}
}

func TestSymbolBase(t *testing.T) {
	assert.Equal(t, "TCS", SymbolBase("TCS.NS"))
	assert.Equal(t, "SBIN", SymbolBase("SBIN.BO"))
	assert.Equal(t, "AAPL", SymbolBase("AAPL"))
}
