package source

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"

	"github.com/umputun/pulsefeed/pkg/domain"
)

// loadDocument parses html page, transcoding to utf-8 by meta charset when needed
func loadDocument(raw []byte) (*goquery.Document, error) {
	r, err := charset.NewReader(bytes.NewReader(raw), "text/html")
	if err != nil {
		return nil, fmt.Errorf("detect charset: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

// pageFeed builds feed header from page title and meta description
func pageFeed(doc *goquery.Document, url string) *domain.Feed {
	desc, _ := doc.Find(`meta[name="description"]`).Attr("content")
	return &domain.Feed{Title: strings.TrimSpace(doc.Find("title").First().Text()), Description: desc, Link: url}
}

// nowNewsDecoder scrapes now.com mobile listing. Item time is relative, so now is injectable.
func nowNewsDecoder(base string, now func() time.Time) Decoder {
	return func(raw []byte, category domain.Category, url string) (*domain.Feed, error) {
		doc, err := loadDocument(raw)
		if err != nil {
			return nil, err
		}

		res := pageFeed(doc, url)
		doc.Find("ul.newsList > li.newsWrap").Each(func(_ int, el *goquery.Selection) {
			article := domain.Article{
				Title:    strings.TrimSpace(el.Find(".newsTitle").Text()),
				Category: category,
			}
			article.Image, _ = el.Find(".newsImgWrap img").Attr("src")
			if href, ok := el.Find("a").Attr("href"); ok {
				article.Link = base + href
			}
			if ts, ok := ParseRelativeDate(strings.TrimSpace(el.Find(".newsTime").Text()), now()); ok {
				article.PublishedAt = &ts
			}
			res.Articles = append(res.Articles, article)
		})
		return res, nil
	}
}

// decodeNYTimes scrapes nytimes chinese mobile listing, the listing has no dates
func decodeNYTimes(raw []byte, category domain.Category, url string) (*domain.Feed, error) {
	doc, err := loadDocument(raw)
	if err != nil {
		return nil, err
	}

	res := pageFeed(doc, url)
	doc.Find("ol.article-list > li.regular-item").Each(func(_ int, el *goquery.Selection) {
		article := domain.Article{
			Title:       strings.TrimSpace(el.Find("h2 span").Text()),
			Description: strings.TrimSpace(el.Find(".summary").Text()),
			Category:    category,
		}
		article.Image, _ = el.Find(".thumbnail img").Attr("src")
		article.Link, _ = el.Find("a").Attr("href")
		res.Articles = append(res.Articles, article)
	})
	return res, nil
}
