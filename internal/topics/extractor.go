package topics

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// Tokens this short are connectives and acronym noise, never topics.
const minTokenLength = 4

// Topic is one normalized speech keyword with its occurrence count.
type Topic struct {
	Keyword   string `json:"keyword"`
	Frequency int    `json:"frequency"`
}

// Extractor tallies topical keywords out of the free-text tag strings
// attached to speeches, dropping bureaucratic and procedural noise.
type Extractor struct {
	blacklist map[string]struct{}
	limit     int
}

// NewExtractor builds an Extractor from the blacklist table. limit caps the
// topics returned per call.
func NewExtractor(blacklist []string, limit int) *Extractor {
	set := make(map[string]struct{}, len(blacklist))
	for _, term := range blacklist {
		set[strings.ToUpper(strings.TrimSpace(term))] = struct{}{}
	}
	return &Extractor{blacklist: set, limit: limit}
}

// TopTopics splits each raw keyword string on commas and semicolons,
// normalizes tokens (trim, uppercase), filters blacklisted and short tokens,
// and returns the most frequent survivors. Ties keep first-seen order, so the
// result is deterministic for a given input sequence.
func (e *Extractor) TopTopics(raw []string) []Topic {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)

	for _, line := range raw {
		for _, token := range strings.Split(strings.ReplaceAll(line, ";", ","), ",") {
			token = strings.ToUpper(strings.TrimSpace(token))
			if token == "" {
				continue
			}
			if utf8.RuneCountInString(token) < minTokenLength {
				continue
			}
			if _, banned := e.blacklist[token]; banned {
				continue
			}
			if _, seen := counts[token]; !seen {
				firstSeen[token] = len(firstSeen)
			}
			counts[token]++
		}
	}

	topics := make([]Topic, 0, len(counts))
	for keyword, count := range counts {
		topics = append(topics, Topic{Keyword: keyword, Frequency: count})
	}

	sort.Slice(topics, func(i, j int) bool {
		if topics[i].Frequency != topics[j].Frequency {
			return topics[i].Frequency > topics[j].Frequency
		}
		return firstSeen[topics[i].Keyword] < firstSeen[topics[j].Keyword]
	})

	if e.limit > 0 && len(topics) > e.limit {
		topics = topics[:e.limit]
	}
	return topics
}
