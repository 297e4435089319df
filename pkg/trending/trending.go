// Package trending keeps score-ranked trending keywords per language and category on top of a keyed ttl cache.
package trending

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/umputun/pulsefeed/pkg/domain"
	"github.com/umputun/pulsefeed/pkg/repository"
)

//go:generate moq -out mocks/store.go -pkg mocks -skip-ensure -fmt goimports . Store

// defaults
const (
	DefaultPrefix         = "pf:publish:trending-keywords"
	DefaultTTL            = 6 * time.Hour
	DefaultMinScore       = 2
	DefaultPerCategoryCap = 200
	DefaultSize           = 10
)

// Store is a keyed cache with per-entry ttl
type Store interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Scan(ctx context.Context, prefix string) ([]repository.CacheEntry, error)
	Count(ctx context.Context, prefix string) (int, error)
}

// Params for the service, zero values replaced by defaults
type Params struct {
	Prefix         string
	TTL            time.Duration
	MinScore       int
	PerCategoryCap int
}

// Service increments and ranks trending keywords. Increment is read-modify-write without locking,
// concurrent increments of the same keyword may lose updates.
type Service struct {
	store  Store
	params Params
	now    func() time.Time
}

// NewService makes trending service
func NewService(store Store, params Params) *Service {
	if params.Prefix == "" {
		params.Prefix = DefaultPrefix
	}
	if params.TTL <= 0 {
		params.TTL = DefaultTTL
	}
	if params.MinScore <= 0 {
		params.MinScore = DefaultMinScore
	}
	if params.PerCategoryCap <= 0 {
		params.PerCategoryCap = DefaultPerCategoryCap
	}
	return &Service{store: store, params: params, now: time.Now}
}

// Capacity is the max number of keywords kept per language
func (s *Service) Capacity() int { return len(domain.Categories) * s.params.PerCategoryCap }

// Increment adds one to keyword score in language and category. When the language holds more keywords
// than Capacity, the one with the lowest score is evicted, oldest update wins ties.
func (s *Service) Increment(ctx context.Context, keyword string, lang domain.Language, cat domain.Category) error {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil
	}
	key := s.key(lang, cat, keyword)

	current := domain.TrendingKeyword{Keyword: keyword}
	raw, found, err := s.store.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("get keyword %s: %w", key, err)
	}
	if found {
		if err := json.Unmarshal(raw, &current); err != nil {
			log.Printf("[WARN] can't decode cached keyword %s, reset score: %v", key, err)
			current = domain.TrendingKeyword{Keyword: keyword}
		}
	}

	updated := domain.TrendingKeyword{Keyword: keyword, Score: current.Score + 1, LastUpdated: s.now().UTC()}
	value, err := json.Marshal(updated)
	if err != nil {
		return fmt.Errorf("marshal keyword: %w", err)
	}
	if err := s.store.Set(ctx, key, value, s.params.TTL); err != nil {
		return fmt.Errorf("set keyword %s: %w", key, err)
	}

	langPrefix := s.key(lang, "", "") + ":"
	count, err := s.store.Count(ctx, langPrefix)
	if err != nil {
		return fmt.Errorf("count keywords of %s: %w", lang, err)
	}
	if count <= s.Capacity() {
		return nil
	}
	return s.evict(ctx, langPrefix)
}

// Top returns up to size keywords of the language, and of the category if it is set, with score at
// least MinScore, highest score first. Size <= 0 means DefaultSize.
func (s *Service) Top(ctx context.Context, lang domain.Language, cat domain.Category, size int) ([]domain.TrendingKeyword, error) {
	if size <= 0 {
		size = DefaultSize
	}
	prefix := s.key(lang, cat, "") + ":"
	entries, err := s.store.Scan(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("scan keywords %s: %w", prefix, err)
	}

	res := make([]domain.TrendingKeyword, 0, len(entries))
	for _, kw := range decode(entries) {
		if kw.value.Score >= s.params.MinScore {
			res = append(res, kw.value)
		}
	}
	sort.SliceStable(res, func(i, j int) bool { return res[i].Score > res[j].Score })
	if len(res) > size {
		res = res[:size]
	}
	return res, nil
}

func (s *Service) evict(ctx context.Context, langPrefix string) error {
	entries, err := s.store.Scan(ctx, langPrefix)
	if err != nil {
		return fmt.Errorf("scan keywords %s: %w", langPrefix, err)
	}

	var victim *cached
	items := decode(entries)
	for i := range items {
		it := &items[i]
		if victim == nil || it.value.Score < victim.value.Score ||
			(it.value.Score == victim.value.Score && it.value.LastUpdated.Before(victim.value.LastUpdated)) {
			victim = it
		}
	}
	if victim == nil {
		return nil
	}
	if err := s.store.Delete(ctx, victim.key); err != nil {
		return fmt.Errorf("evict keyword %s: %w", victim.key, err)
	}
	log.Printf("[DEBUG] evicted trending keyword %s, score %d", victim.key, victim.value.Score)
	return nil
}

// key builds prefix:lang[:category[:keyword]]
func (s *Service) key(lang domain.Language, cat domain.Category, keyword string) string {
	parts := []string{s.params.Prefix, string(lang)}
	if cat != "" {
		parts = append(parts, cat.Key())
		if keyword != "" {
			parts = append(parts, keyword)
		}
	}
	return strings.Join(parts, ":")
}

type cached struct {
	key   string
	value domain.TrendingKeyword
}

// decode skips entries which can't be decoded
func decode(entries []repository.CacheEntry) []cached {
	res := make([]cached, 0, len(entries))
	for _, e := range entries {
		var kw domain.TrendingKeyword
		if err := json.Unmarshal(e.Value, &kw); err != nil {
			log.Printf("[WARN] skip undecodable keyword %s: %v", e.Key, err)
			continue
		}
		res = append(res, cached{key: e.Key, value: kw})
	}
	return res
}
