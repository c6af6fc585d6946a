package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlideDeckRoundTrip(t *testing.T) {
	deck := SlideDeck{
		TitleSlide: TitleSlide{Title: "Distributed Systems", Subtitle: "Consensus Without Tears"},
		ContentSlides: []ContentSlide{
			{Title: "Replication", Bullets: []string{"copies of state", "failover"}, SpeakerNotes: "Replication keeps copies in sync."},
			{Title: "Partitioning", Bullets: []string{"split by key"}, SpeakerNotes: ""},
		},
		TotalSlides:     3,
		NarrationScript: "Replication keeps copies in sync. Partitioning. split by key",
	}

	data, err := json.MarshalIndent(deck, "", "  ")
	require.NoError(t, err)

	var loaded SlideDeck
	require.NoError(t, json.Unmarshal(data, &loaded))
	assert.Equal(t, deck, loaded)

	// the wire names renderers and narration rely on
	assert.Contains(t, string(data), `"title_slide"`)
	assert.Contains(t, string(data), `"content_slides"`)
	assert.Contains(t, string(data), `"speaker_notes"`)
	assert.Contains(t, string(data), `"total_slides"`)
	assert.Contains(t, string(data), `"narration_script"`)
}

func TestNarrationText(t *testing.T) {
	withNotes := ContentSlide{Title: "Caching", Bullets: []string{"hot data"}, SpeakerNotes: "Caches keep hot data close."}
	assert.Equal(t, "Caches keep hot data close.", withNotes.NarrationText())

	withoutNotes := ContentSlide{Title: "Caching", Bullets: []string{"hot data", "eviction"}}
	assert.Equal(t, "Caching. hot data eviction", withoutNotes.NarrationText())

	blankNotes := ContentSlide{Title: "Queues", Bullets: []string{"buffering"}, SpeakerNotes: "   "}
	assert.Equal(t, "Queues. buffering", blankNotes.NarrationText())
}
