package feed

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rss2Doc = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:media="http://search.yahoo.com/mrss/" xmlns:dc="http://purl.org/dc/elements/1.1/"
	xmlns:content="http://purl.org/rss/1.0/modules/content/">
<channel>
	<title>港聞</title>
	<link>https://example.com/local</link>
	<docs>https://example.com/docs</docs>
	<description>Local news</description>
	<image><url>https://example.com/logo.png</url><link>https://example.com</link></image>
	<item>
		<title>第一則</title>
		<link>https://example.com/1</link>
		<description>one</description>
		<category>政治</category>
		<category>社會</category>
		<enclosure url="https://example.com/1.jpg" type="image/jpeg" length="1"/>
		<content:encoded><![CDATA[<p>full one</p>]]></content:encoded>
		<pubDate>Mon, 06 May 2024 09:05:09 +0800</pubDate>
	</item>
	<item>
		<title>第二則</title>
		<link>https://example.com/2</link>
		<dc:subject>香港，經濟,股市</dc:subject>
		<enclosure url="https://example.com/2.mp3" type="audio/mpeg" length="1"/>
		<media:content url="https://example.com/2.jpg" type="image/jpeg"/>
	</item>
	<item>
		<title>第三則</title>
		<media:group><media:content url="https://example.com/3.png" type="image/png"/></media:group>
	</item>
	<item>
		<title>第四則</title>
		<media:content url="https://media.example.com/4" />
	</item>
</channel>
</rss>`

const atomDoc = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom" xmlns:media="http://search.yahoo.com/mrss/"
	xmlns:dc="http://purl.org/dc/elements/1.1/">
	<title>BBC 中文</title>
	<subtitle>國際新聞</subtitle>
	<link rel="self" href="https://example.com/atom.xml"/>
	<link rel="alternate" href="https://example.com/"/>
	<logo>https://example.com/logo.png</logo>
	<entry>
		<title>標題一</title>
		<link href="https://example.com/a"/>
		<link rel="enclosure" href="https://example.com/a.mp3" type="audio/mpeg"/>
		<summary>摘要一</summary>
		<published>2024-05-11T17:19:00Z</published>
		<dc:subject>國際,美國</dc:subject>
		<media:thumbnail url="https://example.com/a.jpg"/>
	</entry>
	<entry>
		<title>標題二</title>
		<link href="https://example.com/b"/>
		<link rel="enclosure" href="https://example.com/b.jpg" type="image/jpeg"/>
		<category term="ignored"/>
	</entry>
</feed>`

func TestParse_RSS2(t *testing.T) {
	before := time.Now()
	feed, err := Parse([]byte(rss2Doc))
	require.NoError(t, err)

	assert.Equal(t, "港聞", feed.Title)
	assert.Equal(t, "Local news", feed.Description)
	assert.Equal(t, "https://example.com/local", feed.Link)
	assert.Equal(t, "https://example.com/docs", feed.Docs)
	assert.Equal(t, "https://example.com/logo.png", feed.Image)
	require.Len(t, feed.Items, 4)

	first := feed.Items[0]
	assert.Equal(t, "第一則", first.Title)
	assert.Equal(t, "https://example.com/1", first.Link)
	assert.Equal(t, "one", first.Description)
	assert.Equal(t, []string{"政治", "社會"}, first.Category)
	assert.Equal(t, "https://example.com/1.jpg", first.Image)
	assert.Equal(t, "<p>full one</p>", first.Content)
	require.NotNil(t, first.Published)
	assert.Equal(t, time.Date(2024, 5, 6, 1, 5, 9, 0, time.UTC), first.Published.UTC())

	second := feed.Items[1]
	assert.Equal(t, []string{"香港", "經濟", "股市"}, second.Category)
	assert.Equal(t, "https://example.com/2.jpg", second.Image, "audio enclosure skipped, typed media used")
	require.NotNil(t, second.Published, "rss2 defaults to now")
	assert.False(t, second.Published.Before(before))

	assert.Equal(t, "https://example.com/3.png", feed.Items[2].Image)
	assert.Empty(t, feed.Items[2].Category)

	fourth := feed.Items[3]
	assert.Empty(t, fourth.Image, "untyped media is not an image")
	assert.Equal(t, "https://media.example.com/4", fourth.Media)
}

func TestParse_Atom(t *testing.T) {
	feed, err := Parse([]byte(atomDoc))
	require.NoError(t, err)

	assert.Equal(t, "BBC 中文", feed.Title)
	assert.Equal(t, "國際新聞", feed.Description)
	assert.Equal(t, "https://example.com/", feed.Link)
	assert.Equal(t, "https://example.com/logo.png", feed.Image)
	assert.Empty(t, feed.Docs)
	require.Len(t, feed.Items, 2)

	first := feed.Items[0]
	assert.Equal(t, "https://example.com/a", first.Link)
	assert.Equal(t, "摘要一", first.Description)
	assert.Equal(t, []string{"國際", "美國"}, first.Category)
	assert.Equal(t, "https://example.com/a.jpg", first.Image)
	require.NotNil(t, first.Published)
	assert.Equal(t, time.Date(2024, 5, 11, 17, 19, 0, 0, time.UTC), first.Published.UTC())

	second := feed.Items[1]
	assert.Nil(t, second.Published, "atom has no date default")
	assert.Nil(t, second.Category, "atom categories come from dc:subject only")
	assert.Equal(t, "https://example.com/b.jpg", second.Image)
}

func TestParse_ItemCount(t *testing.T) {
	for _, n := range []int{0, 1, 7} {
		doc := `<rss version="2.0"><channel><title>t</title>`
		for i := 0; i < n; i++ {
			doc += `<item><title>item</title></item>`
		}
		doc += `</channel></rss>`
		feed, err := Parse([]byte(doc))
		require.NoError(t, err)
		assert.Len(t, feed.Items, n)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name        string
		doc         string
		msg         string
		unsupported bool
	}{
		{name: "rss 0.91", doc: `<rss version="0.91"><channel><title>t</title></channel></rss>`,
			msg: "unsupported rss", unsupported: true},
		{name: "not a feed", doc: `<html><body>hi</body></html>`, msg: "unsupported rss", unsupported: true},
		{name: "json", doc: `{"version": "https://jsonfeed.org/version/1"}`, msg: "unsupported rss", unsupported: true},
		{name: "missing feed title", doc: `<rss version="2.0"><channel><link>x</link></channel></rss>`,
			msg: "required feed title not found"},
		{name: "missing item title",
			doc: `<rss version="2.0"><channel><title>t</title><item><link>x</link></item></channel></rss>`,
			msg: "required item title not found"},
		{name: "missing entry title",
			doc: `<feed xmlns="http://www.w3.org/2005/Atom"><title>t</title><entry><id>1</id></entry></feed>`,
			msg: "required item title not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			var perr *ParseError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tt.msg, perr.Error())
			assert.Equal(t, tt.unsupported, errors.Is(err, ErrUnsupported))
		})
	}
}
