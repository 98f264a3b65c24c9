package models

import (
	"errors"
	"strings"
	"unicode"
)

// Recognized market suffixes. Symbols without either are routed to the primary exchange.
const (
	SuffixPrimary   = ".NS"
	SuffixSecondary = ".BO"
)

var (
	// ErrInvalidSymbol is returned when a ticker has nothing left after normalization.
	ErrInvalidSymbol = errors.New("invalid ticker")
	// ErrNoMarketData is returned when the pivot snapshot cannot be computed.
	ErrNoMarketData = errors.New("invalid ticker or data unavailable")
)

// NormalizeSymbol uppercases raw, drops all whitespace and appends the primary
// suffix unless one of the recognized suffixes is already present.
// It never fails and NormalizeSymbol(NormalizeSymbol(s)) == NormalizeSymbol(s).
func NormalizeSymbol(raw string) string {
	s := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, strings.ToUpper(raw))
	if strings.HasSuffix(s, SuffixPrimary) || strings.HasSuffix(s, SuffixSecondary) {
		return s
	}
	return s + SuffixPrimary
}

// SymbolBase returns the symbol without its market suffix.
func SymbolBase(symbol string) string {
	if b, ok := strings.CutSuffix(symbol, SuffixPrimary); ok {
		return b
	}
	if b, ok := strings.CutSuffix(symbol, SuffixSecondary); ok {
		return b
	}
	return symbol
}
