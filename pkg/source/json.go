package source

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/umputun/pulsefeed/pkg/domain"
)

// hkt is Hong Kong time, publishers without explicit offsets report local time
var hkt = time.FixedZone("HKT", 8*60*60)

type hk01Page struct {
	Meta struct {
		OgTitle      string `json:"ogTitle"`
		OgDesc       string `json:"ogDesc"`
		CanonicalURL string `json:"canonicalUrl"`
	} `json:"meta"`
	Sections []struct {
		Items []struct {
			Data struct {
				Title        string `json:"title"`
				CanonicalURL string `json:"canonicalUrl"`
				Description  string `json:"description"`
				MainImage    *struct {
					CdnURL string `json:"cdnUrl"`
				} `json:"mainImage"`
				PublishTime int64 `json:"publishTime"`
				Tags        []struct {
					TagName string `json:"tagName"`
				} `json:"tags"`
			} `json:"data"`
		} `json:"items"`
	} `json:"sections"`
}

// decodeHK01 converts hk01 page api response, articles are collected across all sections
func decodeHK01(raw []byte, category domain.Category, _ string) (*domain.Feed, error) {
	var page hk01Page
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, fmt.Errorf("unmarshal hk01 page: %w", err)
	}

	res := &domain.Feed{Title: page.Meta.OgTitle, Description: page.Meta.OgDesc, Link: page.Meta.CanonicalURL}
	for _, section := range page.Sections {
		for _, item := range section.Items {
			d := item.Data
			published := time.Unix(d.PublishTime, 0)
			article := domain.Article{
				Title:       d.Title,
				Link:        d.CanonicalURL,
				Category:    category,
				Description: d.Description,
				PublishedAt: &published,
			}
			if d.MainImage != nil {
				article.Image = d.MainImage.CdnURL
			}
			for _, tag := range d.Tags {
				article.Keywords = append(article.Keywords, tag.TagName)
			}
			res.Articles = append(res.Articles, article)
		}
	}
	return res, nil
}

type onccSection struct {
	SectCode  string `json:"sectCode"`
	FocusNews []struct {
		Title     string `json:"title"`
		Link      string `json:"link"`
		Content   string `json:"content"`
		Thumbnail string `json:"thumbnail"`
		PubDate   string `json:"pubDate"`
	} `json:"focusNews"`
}

// onccDecoder converts on.cc section js, relative links and thumbnails are resolved against base
func onccDecoder(base string) Decoder {
	return func(raw []byte, category domain.Category, url string) (*domain.Feed, error) {
		var sections []onccSection
		if err := json.Unmarshal(raw, &sections); err != nil {
			return nil, fmt.Errorf("unmarshal oncc sections: %w", err)
		}
		if len(sections) == 0 {
			return nil, errors.New("no oncc sections in response")
		}

		data := sections[0]
		res := &domain.Feed{Title: data.SectCode, Link: url}
		for _, item := range data.FocusNews {
			article := domain.Article{
				Title:       item.Title,
				Link:        resolve(base, item.Link),
				Category:    category,
				Description: item.Content,
				Image:       resolve(base, item.Thumbnail),
			}
			if ts, err := time.ParseInLocation("2006-01-02 15:04:05", item.PubDate, hkt); err == nil {
				article.PublishedAt = &ts
			}
			res.Articles = append(res.Articles, article)
		}
		return res, nil
	}
}

// resolve prefixes a relative path with base, empty path stays empty
func resolve(base, path string) string {
	if path == "" {
		return ""
	}
	return base + path
}
