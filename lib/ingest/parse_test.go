package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const feedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Example Feed</title>
    <link>https://example.com</link>
    <description>news</description>
    <item>
      <title>First</title>
      <link>https://example.com/first</link>
      <description>first summary</description>
    </item>
    <item>
      <title>Second, linkless</title>
      <description>never ingested</description>
    </item>
  </channel>
</rss>`

func TestParseFeed(t *testing.T) {
	items, err := parseFeed([]byte(feedXML))
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "https://example.com/first", items[0].Link)
}

func TestParseFeed_MalformedIsAnError(t *testing.T) {
	_, err := parseFeed([]byte("{{{ this is not a feed"))
	assert.Error(t, err)
}
