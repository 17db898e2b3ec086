package resolver

import (
	"regexp"
	"strings"
)

var (
	delimitedPairPattern = regexp.MustCompile(`^([A-Z]{3})[/\-]([A-Z]{3})$`)
	concatPairPattern    = regexp.MustCompile(`^([A-Z]{3})([A-Z]{3})$`)
	wordToPairPattern    = regexp.MustCompile(`^(.+?)\s+TO\s+(.+)$`)
)

// parsedPair is a currency pair split into its two sides before either
// side has been resolved against currencyDict.
type parsedPair struct {
	Base  string
	Quote string
}

// parseCurrencyPair recognizes four forms: `XXX/YYY`, `XXX-YYY`, `XXXYYY`,
// and `XXX to YYY`/named-form `euro to dollar`. It returns ok=false if
// normalized matches none of them.
func parseCurrencyPair(normalized string) (parsedPair, bool) {
	if m := delimitedPairPattern.FindStringSubmatch(normalized); m != nil {
		return parsedPair{Base: m[1], Quote: m[2]}, true
	}
	if m := wordToPairPattern.FindStringSubmatch(normalized); m != nil {
		base, baseOK := resolveCurrencyToken(strings.TrimSpace(m[1]))
		quote, quoteOK := resolveCurrencyToken(strings.TrimSpace(m[2]))
		if baseOK && quoteOK {
			return parsedPair{Base: base, Quote: quote}, true
		}
		return parsedPair{}, false
	}
	if m := concatPairPattern.FindStringSubmatch(normalized); m != nil {
		// XXXYYY is only a valid pair if both three-letter halves are
		// known currency codes — otherwise it is ambiguous with an
		// unrelated six-letter ticker or identifier.
		if _, ok := lookupCurrencyCode(m[1]); ok {
			if _, ok := lookupCurrencyCode(m[2]); ok {
				return parsedPair{Base: m[1], Quote: m[2]}, true
			}
		}
		return parsedPair{}, false
	}
	return parsedPair{}, false
}

// resolveCurrencyToken maps a currency code or alias ("euro", "dollar",
// "usd") to its canonical 3-letter code.
func resolveCurrencyToken(token string) (string, bool) {
	for _, e := range currencyDict {
		for _, alias := range e.Aliases {
			if alias == token {
				return e.CanonicalID, true
			}
		}
	}
	return "", false
}

func lookupCurrencyCode(code string) (dictEntry, bool) {
	for _, e := range currencyDict {
		if e.CanonicalID == code {
			return e, true
		}
	}
	return dictEntry{}, false
}
