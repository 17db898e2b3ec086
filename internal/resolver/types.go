// Package resolver implements the entity resolver: raw user strings
// tagged with a coarse type (ticker, crypto, currency, currency_pair,
// city/location, timezone, index, commodity) resolve to a canonical id
// against static, hand-maintained dictionaries. Nothing here calls out to
// a network lookup or LLM — resolution is a pure function of the input
// string and the dictionaries below.
package resolver

import "time"

// EntityType is the coarse category a caller tags its raw input with.
type EntityType string

const (
	TypeTicker        EntityType = "ticker"
	TypeCrypto        EntityType = "crypto"
	TypeCurrency      EntityType = "currency"
	TypeCurrencyPair  EntityType = "currency_pair"
	TypeLocation       EntityType = "city"
	TypeTimezone      EntityType = "timezone"
	TypeIndex         EntityType = "index"
	TypeCommodity     EntityType = "commodity"
)

// Status is the outcome of a single resolution attempt.
type Status string

const (
	StatusResolved    Status = "resolved"
	StatusAmbiguous   Status = "ambiguous"
	StatusNotFound    Status = "not_found"
	StatusUnsupported Status = "unsupported"
	StatusInvalid     Status = "invalid"
)

// Category is the downstream domain a resolved entity feeds (distinct from
// EntityType: e.g. both TypeTicker and TypeIndex resolve into CategoryMarket).
type Category string

const (
	CategoryTime   Category = "time"
	CategoryWeather Category = "weather"
	CategoryMarket Category = "market"
	CategoryCrypto Category = "crypto"
	CategoryFX     Category = "fx"
)

// Metadata carries the optional, category-specific attributes a resolved
// entity exposes. Only the fields relevant to the entity's category are
// populated.
type Metadata struct {
	Exchange     string
	Country      string
	TimezoneID   string
	CurrencyCode string
}

// ResolvedEntity is the result of resolving one raw string.
type ResolvedEntity struct {
	OriginalInput string
	Type          EntityType
	Status        Status
	CanonicalID   string
	DisplayName   string
	Category      Category
	Confidence    float64
	Metadata      Metadata
}

// Trace describes one resolveEntities call for observability/debugging.
type Trace struct {
	OriginalQuery     string
	ExtractionTimeMs  int64
	ResolutionTimeMs  int64
	ExtractedCount    int
	ResolvedCount     int
	Method            string
	ResolverVersion   string
}

// AggregateResult is the output of resolveEntities: the full ordered list
// of attempts plus status partitions and a trace.
type AggregateResult struct {
	Entities  []ResolvedEntity
	Resolved  []ResolvedEntity
	Failed    []ResolvedEntity // not_found, unsupported, invalid
	Ambiguous []ResolvedEntity
	Trace     Trace
}

// resolverVersion is reported in every Trace; bump when a dictionary's
// shape or match-order semantics change in a way that affects output.
const resolverVersion = "1.0.0"

func nowMs() func() int64 {
	start := time.Now()
	return func() int64 { return time.Since(start).Milliseconds() }
}
