package rss

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deusflow/newsviews/internal/news"
)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>City desk</title>
    <link>https://example.com</link>
    <description>Community submissions</description>
    <item>
      <guid>sub-1</guid>
      <title>Park reopens</title>
      <description>&lt;p&gt;The park is open again.&lt;/p&gt;</description>
      <category>Local</category>
      <pubDate>Mon, 02 Jan 2006 15:04:05 GMT</pubDate>
      <enclosure url="https://example.com/park.jpg" type="image/jpeg" length="1"/>
    </item>
    <item>
      <title>No guid here</title>
    </item>
  </channel>
</rss>`

func TestLooksLikeFeed(t *testing.T) {
	assert.True(t, LooksLikeFeed("application/rss+xml; charset=utf-8", nil))
	assert.True(t, LooksLikeFeed("application/atom+xml", nil))
	assert.True(t, LooksLikeFeed("", []byte("  <rss/>")))
	assert.False(t, LooksLikeFeed("application/json", []byte(`[]`)))
}

func TestParseFeed_RecordsNormalize(t *testing.T) {
	records, err := ParseFeed([]byte(sampleRSS))
	require.NoError(t, err)
	require.Len(t, records, 2)

	res, err := news.NewNormalizer("http://localhost:8000").Normalize(records, 10)
	require.NoError(t, err)
	require.Len(t, res.Items, 2)

	first := res.Items[0]
	assert.Equal(t, "sub-1", first.ID)
	assert.Equal(t, "Park reopens", first.Title)
	assert.Equal(t, "Local", first.Category)
	assert.Equal(t, "https://example.com/park.jpg", first.ImageURL)
	assert.Equal(t, "2006-01-02T15:04:05Z", first.SubmittedAt)
	assert.Equal(t, "The park is open again.", first.Excerpt)

	second := res.Items[1]
	assert.True(t, news.IsGeneratedID(second.ID))
	assert.Equal(t, news.PlaceholderImageURL, second.ImageURL)
}

func TestParseFeed_Invalid(t *testing.T) {
	_, err := ParseFeed([]byte("<html><body>not a feed</body></html>"))
	require.Error(t, err)
}
