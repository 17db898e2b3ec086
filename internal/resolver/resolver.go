package resolver

import (
	"regexp"
	"strings"
)

var (
	tickerPattern  = regexp.MustCompile(`^[A-Z]{1,5}$`)
	utcOffsetPattern = regexp.MustCompile(`^(?:UTC|GMT)([+-]\d{1,2})$`)
)

// TaggedInput is one raw string plus the coarse type the caller believes
// it is.
type TaggedInput struct {
	Raw  string
	Type EntityType
}

// Resolver resolves TaggedInput values against the static dictionaries.
// It holds no state and is safe for concurrent use.
type Resolver struct{}

// New constructs a Resolver.
func New() *Resolver {
	return &Resolver{}
}

// Resolve resolves a single raw string tagged with its entity type.
func (r *Resolver) Resolve(raw string, t EntityType) ResolvedEntity {
	base := ResolvedEntity{OriginalInput: raw, Type: t}

	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		base.Status = StatusInvalid
		return base
	}
	normalized := normalize(trimmed)

	if t == TypeCurrencyPair {
		return r.resolvePair(base, normalized)
	}

	entries := dictionaryFor(t)
	if entries == nil {
		base.Status = StatusUnsupported
		return base
	}

	// Exact alias match first (conf 0.95).
	for _, e := range entries {
		for _, alias := range e.Aliases {
			if alias == normalized {
				return fill(base, e, StatusResolved, exactConfidence)
			}
		}
	}

	// Syntactic pattern match for this type (conf 0.8-0.9): the input
	// looks like a well-formed instance of the type (a bare ticker
	// symbol, a UTC/GMT offset) even though it isn't a literal alias.
	if t == TypeTicker && tickerPattern.MatchString(normalized) {
		for _, e := range entries {
			if e.CanonicalID == normalized {
				return fill(base, e, StatusResolved, syntacticConfidence)
			}
		}
	}
	if t == TypeTimezone {
		if m := utcOffsetPattern.FindStringSubmatch(normalized); m != nil {
			base.Status = StatusResolved
			base.CanonicalID = "Etc/GMT" + invertSign(m[1])
			base.DisplayName = "UTC" + m[1]
			base.Category = CategoryTime
			base.Confidence = syntacticConfidence
			base.Metadata = Metadata{TimezoneID: base.CanonicalID}
			return base
		}
	}

	// Partial containment against aliases (conf 0.7-0.9).
	match, conf, found := matchDictionary(entries, normalized)
	if found {
		if candidateCount(entries, normalized, conf) > 1 {
			base.Status = StatusAmbiguous
			base.Confidence = conf
			return base
		}
		return fill(base, match, StatusResolved, conf)
	}

	base.Status = StatusNotFound
	return base
}

// resolvePair resolves a currency_pair input: parse the two sides, then
// look each up in currencyDict.
func (r *Resolver) resolvePair(base ResolvedEntity, normalized string) ResolvedEntity {
	parsed, ok := parseCurrencyPair(normalized)
	if !ok {
		base.Status = StatusNotFound
		return base
	}
	baseEntry, baseOK := lookupCurrencyCode(parsed.Base)
	quoteEntry, quoteOK := lookupCurrencyCode(parsed.Quote)
	if !baseOK || !quoteOK {
		base.Status = StatusNotFound
		return base
	}
	base.Status = StatusResolved
	base.CanonicalID = parsed.Base + "/" + parsed.Quote
	base.DisplayName = baseEntry.DisplayName + " / " + quoteEntry.DisplayName
	base.Category = CategoryFX
	base.Confidence = exactConfidence
	base.Metadata = Metadata{CurrencyCode: parsed.Base}
	return base
}

func fill(base ResolvedEntity, e dictEntry, status Status, conf float64) ResolvedEntity {
	base.Status = status
	base.CanonicalID = e.CanonicalID
	base.DisplayName = e.DisplayName
	base.Category = e.Category
	base.Confidence = conf
	base.Metadata = e.Metadata
	return base
}

// invertSign flips a signed offset so "+5" ("UTC+5", five hours ahead of
// UTC) maps to the POSIX Etc/GMT convention, which names zones with the
// opposite sign of the common usage.
func invertSign(offset string) string {
	if strings.HasPrefix(offset, "+") {
		return "-" + offset[1:]
	}
	if strings.HasPrefix(offset, "-") {
		return "+" + offset[1:]
	}
	return offset
}

// ResolveEntities resolves a batch of tagged inputs and aggregates the
// full ordered list, status partitions, and a trace.
func (r *Resolver) ResolveEntities(originalQuery string, inputs []TaggedInput) AggregateResult {
	elapsed := nowMs()
	extractionMs := elapsed()

	entities := make([]ResolvedEntity, 0, len(inputs))
	var resolved, failed, ambiguous []ResolvedEntity

	for _, in := range inputs {
		re := r.Resolve(in.Raw, in.Type)
		entities = append(entities, re)
		switch re.Status {
		case StatusResolved:
			resolved = append(resolved, re)
		case StatusAmbiguous:
			ambiguous = append(ambiguous, re)
		default:
			failed = append(failed, re)
		}
	}

	resolutionMs := elapsed() - extractionMs

	return AggregateResult{
		Entities:  entities,
		Resolved:  resolved,
		Failed:    failed,
		Ambiguous: ambiguous,
		Trace: Trace{
			OriginalQuery:    originalQuery,
			ExtractionTimeMs: extractionMs,
			ResolutionTimeMs: resolutionMs,
			ExtractedCount:   len(inputs),
			ResolvedCount:    len(resolved),
			Method:           "static_dictionary",
			ResolverVersion:  resolverVersion,
		},
	}
}
