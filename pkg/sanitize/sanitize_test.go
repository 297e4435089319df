package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "blank", in: "  ", want: ""},
		{name: "not a url", in: "akla93ekaldasdf", want: ""},
		{name: "non http", in: "ftp://user@host/foo/bar.txt", want: ""},
		{name: "javascript", in: "javascript:alert(1)", want: ""},
		{name: "upgrade to https", in: "http://example.com/", want: "https://example.com/"},
		{name: "keep https", in: "https://example.com/a/b?x=1", want: "https://example.com/a/b?x=1"},
		{name: "utm without slash",
			in:   "https://example.com?utm_source=newsletter&utm_medium=email&utm_campaign=spring_sale&utm_content=cta_button",
			want: "https://example.com"},
		{name: "utm with slash",
			in:   "https://example.com/?utm_source=newsletter&utm_medium=email&utm_campaign=spring_sale&utm_content=cta_button",
			want: "https://example.com/"},
		{name: "utm and http", in: "http://example.com/?utm_source=a&utm_medium=b", want: "https://example.com/"},
		{name: "utm first keeps rest", in: "https://example.com/p?utm_source=a&id=5", want: "https://example.com/p?id=5"},
		{name: "utm middle", in: "https://example.com/p?a=1&UTM_Source=x&b=2", want: "https://example.com/p?a=1&b=2"},
		{name: "fragment kept", in: "https://example.com/p?utm_source=x#top", want: "https://example.com/p#top"},
		{name: "entities decoded", in: "https://example.com/p?a=1&amp;b=2", want: "https://example.com/p?a=1&b=2"},
		{name: "control chars", in: "https://exa\tmple.com/p\n", want: "https://example.com/p"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, URL(tt.in))
		})
	}
}

func TestURL_Idempotent(t *testing.T) {
	links := []string{
		"http://example.com/?utm_source=a&utm_medium=b",
		"https://example.com/news/123?ref=rss&utm_campaign=x#anchor",
		"http://static04.hket.com/res/v3/image/content/3780000/3784491/a_1024.jpg",
		"https://hk.news.yahoo.com/%E6%B8%AF-123.html",
		"https://example.com?",
	}
	for _, link := range links {
		once := URL(link)
		assert.Equal(t, once, URL(once), link)
	}
}

func TestContent(t *testing.T) {
	assert.Equal(t, "", Content(""))
	assert.Equal(t, "abc", Content("a\n\nb\nc"))
	assert.Equal(t, "asdfasfasdfla;sdaslda", Content("asdfasf\r\n\r\nasdfla;sd\raslda"))
	assert.Equal(t, "‘x’", Content("&#x2018;x&#x2019;"))
	assert.Equal(t, "‘The late, great Hannibal Lecter is a wonderful man,’ former US President said",
		Content("&#x2018;The late, great Hannibal Lecter is a wonderful man,&#x2019; former US President said"))
	assert.Equal(t, "&#xZZ; stays", Content("&#xZZ; stays"))
	assert.Equal(t, "&#x110000; stays", Content("&#x110000; stays"))
	assert.Equal(t, "&#xD800;", Content("&#xD800;"))
	assert.Equal(t, "\U0010FFFF", Content("&#x10FFFF;"))
}

func TestStripTags(t *testing.T) {
	assert.Equal(t, "", StripTags(""))
	assert.Equal(t, "香港 & 九龍", StripTags(`<p><a href="https://x"><img src="a.jpg"/></a>香港 &amp; 九龍</p>`))
	assert.Equal(t, "plain", StripTags("plain"))
}
