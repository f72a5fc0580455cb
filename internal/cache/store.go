package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/zeromicro/go-zero/core/stores/redis"

	"github.com/nicholasmartin/agents-api/pkg/extract"
)

// Store caches extraction results in Redis, msgpack-encoded.
// A nil *Store is valid and never hits.
type Store struct {
	rds   *redis.Redis
	ttl   TTLSet
	scope string
}

// NewStore returns a store whose keys are suffixed with scope, typically the model id,
// so that switching models does not serve stale answers.
func NewStore(rds *redis.Redis, ttl TTLSet, scope string) *Store {
	if rds == nil {
		return nil
	}
	return &Store{rds: rds, ttl: ttl, scope: scope}
}

type cachedIdeas struct {
	Records [][]string `msgpack:"r"`
}

type cachedSections struct {
	Market    string `msgpack:"m"`
	Technical string `msgpack:"t"`
	Business  string `msgpack:"b"`
}

// Ideas returns the cached ideas for digest.
func (s *Store) Ideas(ctx context.Context, digest string) ([]extract.IdeaRecord, bool, error) {
	if s == nil {
		return nil, false, nil
	}
	var payload cachedIdeas
	ok, err := s.get(ctx, s.ideasKey(digest), &payload)
	if err != nil || !ok {
		return nil, false, err
	}
	ideas := make([]extract.IdeaRecord, 0, len(payload.Records))
	for _, pairs := range payload.Records {
		ideas = append(ideas, extract.NewIdeaRecord(pairs...))
	}
	return ideas, true, nil
}

// SetIdeas stores ideas under digest. Empty results are not cached.
func (s *Store) SetIdeas(ctx context.Context, digest string, ideas []extract.IdeaRecord) error {
	if s == nil || len(ideas) == 0 {
		return nil
	}
	payload := cachedIdeas{Records: make([][]string, 0, len(ideas))}
	for _, idea := range ideas {
		payload.Records = append(payload.Records, idea.Pairs())
	}
	return s.set(ctx, s.ideasKey(digest), payload, IdeasTTL(s.ttl))
}

// Sections returns the cached validation sections for digest.
func (s *Store) Sections(ctx context.Context, digest string) (extract.ValidationSections, bool, error) {
	if s == nil {
		return extract.ValidationSections{}, false, nil
	}
	var payload cachedSections
	ok, err := s.get(ctx, s.validationKey(digest), &payload)
	if err != nil || !ok {
		return extract.ValidationSections{}, false, err
	}
	return extract.ValidationSections{
		MarketAnalysis:      payload.Market,
		TechnicalEvaluation: payload.Technical,
		BusinessPlan:        payload.Business,
	}, true, nil
}

// SetSections stores sections under digest.
func (s *Store) SetSections(ctx context.Context, digest string, sections extract.ValidationSections) error {
	if s == nil {
		return nil
	}
	payload := cachedSections{
		Market:    sections.MarketAnalysis,
		Technical: sections.TechnicalEvaluation,
		Business:  sections.BusinessPlan,
	}
	return s.set(ctx, s.validationKey(digest), payload, ValidationTTL(s.ttl))
}

func (s *Store) ideasKey(digest string) string {
	return BuildKeyWithSuffix(IdeasKey(digest), s.scope)
}

func (s *Store) validationKey(digest string) string {
	return BuildKeyWithSuffix(ValidationKey(digest), s.scope)
}

func (s *Store) get(ctx context.Context, key string, v any) (bool, error) {
	raw, err := s.rds.GetCtx(ctx, key)
	if err != nil {
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}
	if raw == "" {
		return false, nil
	}
	if err := msgpack.Unmarshal([]byte(raw), v); err != nil {
		return false, fmt.Errorf("cache decode %s: %w", key, err)
	}
	return true, nil
}

func (s *Store) set(ctx context.Context, key string, v any, ttl time.Duration) error {
	seconds := int(ttl / time.Second)
	if seconds <= 0 {
		return nil
	}
	data, err := msgpack.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	if err := s.rds.SetexCtx(ctx, key, string(data), seconds); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}
