package resolver

import "strings"

const (
	exactConfidence     = 0.95
	syntacticConfidence = 0.85
	minPartialConfidence = 0.7
	maxPartialConfidence = 0.9
)

// normalize applies the dictionary key convention: uppercase, trimmed.
func normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// matchDictionary implements the match order for a single static
// dictionary: exact alias match, then partial containment against
// aliases. Syntactic pattern matching is type-specific and handled by the
// caller before falling back here (currency pairs, timezone offsets).
func matchDictionary(entries []dictEntry, normalized string) (dictEntry, float64, bool) {
	for _, e := range entries {
		for _, alias := range e.Aliases {
			if alias == normalized {
				return e, exactConfidence, true
			}
		}
	}

	var best dictEntry
	bestConf := 0.0
	found := false
	for _, e := range entries {
		for _, alias := range e.Aliases {
			conf, ok := partialContainment(normalized, alias)
			if ok && conf > bestConf {
				best, bestConf, found = e, conf, true
			}
		}
	}
	return best, bestConf, found
}

// partialContainment scores a substring match in either direction,
// scaled by how much of the longer string the shorter one covers, clamped
// to [minPartialConfidence, maxPartialConfidence].
func partialContainment(input, alias string) (float64, bool) {
	if input == "" || alias == "" {
		return 0, false
	}
	var shorter, longer string
	if len(input) <= len(alias) {
		shorter, longer = input, alias
	} else {
		shorter, longer = alias, input
	}
	if len(shorter) < 2 || !strings.Contains(longer, shorter) {
		return 0, false
	}
	ratio := float64(len(shorter)) / float64(len(longer))
	conf := minPartialConfidence + ratio*(maxPartialConfidence-minPartialConfidence)
	if conf > maxPartialConfidence {
		conf = maxPartialConfidence
	}
	if conf < minPartialConfidence {
		conf = minPartialConfidence
	}
	return conf, true
}

// candidateCount returns how many entries an ambiguous partial match had
// to choose among at the winning confidence level, used to decide
// resolved vs. ambiguous.
func candidateCount(entries []dictEntry, normalized string, atConfidence float64) int {
	n := 0
	for _, e := range entries {
		for _, alias := range e.Aliases {
			if conf, ok := partialContainment(normalized, alias); ok && conf == atConfidence {
				n++
				break
			}
		}
	}
	return n
}
