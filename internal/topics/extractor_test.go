package topics

import (
	"testing"

	"github.com/parlametro/parlametro/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestTopTopicsSplitsAndNormalizes(t *testing.T) {
	extractor := NewExtractor(nil, 20)

	topics := extractor.TopTopics([]string{
		"saude, educacao; seguranca publica",
		" SAUDE ,educacao",
	})

	assert.Equal(t, []Topic{
		{Keyword: "SAUDE", Frequency: 2},
		{Keyword: "EDUCACAO", Frequency: 2},
		{Keyword: "SEGURANCA PUBLICA", Frequency: 1},
	}, topics)
}

func TestTopTopicsFiltersNoise(t *testing.T) {
	extractor := NewExtractor(config.DefaultPolicy().TopicBlacklist, 20)

	topics := extractor.TopTopics([]string{
		"DISCUSSAO, SAUDE, STF, REQUERIMENTO",
		"SAUDE; , ;PIB",
	})

	// DISCUSSAO and REQUERIMENTO are blacklisted; STF and PIB are too short;
	// empty fragments between delimiters are dropped.
	assert.Equal(t, []Topic{{Keyword: "SAUDE", Frequency: 2}}, topics)
}

func TestTopTopicsOrderAndLimit(t *testing.T) {
	extractor := NewExtractor(nil, 2)

	topics := extractor.TopTopics([]string{
		"AGRICULTURA, SAUDE, SAUDE, EDUCACAO, EDUCACAO, EDUCACAO",
	})

	// Highest frequency first; the limit cuts the tail.
	assert.Equal(t, []Topic{
		{Keyword: "EDUCACAO", Frequency: 3},
		{Keyword: "SAUDE", Frequency: 2},
	}, topics)
}

func TestTopTopicsTieKeepsFirstSeenOrder(t *testing.T) {
	extractor := NewExtractor(nil, 20)

	topics := extractor.TopTopics([]string{"ZEBRA, AGUA", "ZEBRA, AGUA"})

	assert.Equal(t, []Topic{
		{Keyword: "ZEBRA", Frequency: 2},
		{Keyword: "AGUA", Frequency: 2},
	}, topics)
}

func TestTopTopicsEmptyInput(t *testing.T) {
	extractor := NewExtractor(config.DefaultPolicy().TopicBlacklist, 20)

	assert.Empty(t, extractor.TopTopics(nil))
	assert.Empty(t, extractor.TopTopics([]string{"", " ; , "}))
}
