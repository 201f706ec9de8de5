// backend-go/internal/service/resolver.go
package service

import (
	"context"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/orderdesk/backend-go/internal/domain"
	"github.com/orderdesk/backend-go/internal/repository"
)

// Scorer rates the similarity of two product names in [0, 1]. Pluggable so
// the suggestion ranking is not welded to one algorithm.
type Scorer func(a, b string) float64

// LevenshteinScorer is the default Scorer: 1 - editDistance/maxLen.
func LevenshteinScorer(a, b string) float64 {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	if a == b {
		return 1
	}
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 1
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(maxLen)
}

// SuggestThreshold is the usability cutoff for fuzzy suggestions. Below it the
// UI falls back to the direct-input path instead of showing noise.
const SuggestThreshold = 0.40

const defaultSuggestLimit = 10

// Suggestion pairs a catalog candidate with its similarity score.
type Suggestion struct {
	Product domain.Product `json:"product"`
	Score   float64        `json:"score"`
}

// ResolverService answers "which catalog product is this free-text name?".
// Read-only; the name-to-code maps built from user choices live on the staged
// file, not here.
type ResolverService struct {
	products  repository.ProductRepository
	scorer    Scorer
	threshold float64
}

func NewResolverService(products repository.ProductRepository) *ResolverService {
	return &ResolverService{
		products:  products,
		scorer:    LevenshteinScorer,
		threshold: SuggestThreshold,
	}
}

// WithScorer swaps the similarity function. Used by tests and by deployments
// that want a different ranking.
func (s *ResolverService) WithScorer(scorer Scorer) *ResolverService {
	s.scorer = scorer
	return s
}

// Resolve finds the product whose name exactly matches the trimmed input.
// The vendor hint is advisory: it never changes the match, but a mismatch
// against the matched product's vendor is logged for catalog cleanup.
// Returns nil when nothing matches; the caller falls back to Suggest.
func (s *ResolverService) Resolve(ctx context.Context, actor domain.Actor, name, vendorHint string) (*domain.Product, error) {
	if !actor.Valid() {
		return nil, domain.ErrBadRequest
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrBadRequest
	}

	p, err := s.products.GetByExactName(ctx, actor.CompanyID, name)
	if err != nil || p == nil {
		return p, err
	}
	hint := strings.TrimSpace(vendorHint)
	if hint != "" && p.VendorName != "" && !strings.EqualFold(hint, p.VendorName) {
		log.Debug().
			Str("name", name).
			Str("vendor_hint", hint).
			Str("vendor", p.VendorName).
			Msg("resolved product vendor differs from hint")
	}
	return p, nil
}

// Suggest scores the whole catalog against the input name and returns the
// top candidates in descending similarity, ties broken by catalog insertion
// order. An empty catalog yields an empty slice.
func (s *ResolverService) Suggest(ctx context.Context, actor domain.Actor, name string, limit int) ([]Suggestion, error) {
	if !actor.Valid() {
		return nil, domain.ErrBadRequest
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrBadRequest
	}
	if limit <= 0 {
		limit = defaultSuggestLimit
	}

	catalog, err := s.products.ListAll(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}

	scored := lo.Map(catalog, func(p domain.Product, _ int) Suggestion {
		return Suggestion{Product: p, Score: s.scorer(name, p.Name)}
	})
	scored = lo.Filter(scored, func(sg Suggestion, _ int) bool {
		return sg.Score >= s.threshold
	})

	// Catalog comes back in id order; a stable sort keeps that order for ties.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}
