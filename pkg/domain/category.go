package domain

import (
	"fmt"
	"strings"
)

// Category of an article as exposed by publishers
type Category string

// enum of all supported categories
const (
	CategoryLocal         Category = "LOCAL"
	CategoryWorld         Category = "WORLD"
	CategoryChina         Category = "CHINA"
	CategoryFinance       Category = "FINANCE"
	CategorySports        Category = "SPORTS"
	CategoryEntertainment Category = "ENTERTAINMENT"
	CategoryLifestyle     Category = "LIFESTYLE"
	CategoryTechnology    Category = "TECHNOLOGY"
	CategoryPolitics      Category = "POLITICS"
	CategoryEducation     Category = "EDUCATION"
	CategoryHealth        Category = "HEALTH"
	CategoryScience       Category = "SCIENCE"
	CategoryCulture       Category = "CULTURE"
	CategoryTravel        Category = "TRAVEL"
	CategoryOpinion       Category = "OPINION"
	CategoryTop           Category = "TOP"
)

// Categories lists every category in a stable order
var Categories = []Category{
	CategoryLocal, CategoryWorld, CategoryChina, CategoryFinance, CategorySports, CategoryEntertainment,
	CategoryLifestyle, CategoryTechnology, CategoryPolitics, CategoryEducation, CategoryHealth,
	CategoryScience, CategoryCulture, CategoryTravel, CategoryOpinion, CategoryTop,
}

// ParseCategory converts a case-insensitive string into a Category
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Categories {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// Key returns cache-friendly lowercase form of the category
func (c Category) Key() string { return strings.ToLower(string(c)) }

// Language is an article language tag
type Language string

// supported languages
const (
	LanguageEnUS Language = "en-us"
	LanguageZhHK Language = "zh-hk"
	LanguageZhTW Language = "zh-tw"
	LanguageZhCN Language = "zh-cn"
)

// Languages lists all supported languages
var Languages = []Language{LanguageEnUS, LanguageZhHK, LanguageZhTW, LanguageZhCN}

// ParseLanguage converts a string into a Language, accepting both dash and underscore forms
func ParseLanguage(s string) (Language, error) {
	l := Language(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-"))
	for _, known := range Languages {
		if l == known {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown language %q", s)
}
