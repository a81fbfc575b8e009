// Package hashtag assembles platform-sized hashtag sets from the catalog.
package hashtag

import (
	"math/rand/v2"
	"sort"

	"github.com/content-synth/internal/catalog"
)

// Draw quotas per category role
const (
	boosterDraw  = 2
	coreMin      = 2
	coreMax      = 3
	personaMin   = 3
	personaMax   = 4
	campaignDraw = 2
	localeDraw   = 2
	deviceDraw   = 1
	deviceChance = 0.3
)

// Request carries the inputs of one assembly
type Request struct {
	Persona      string
	Platform     catalog.PlatformProfile
	CampaignType string
}

// Assembler builds hashtag sets from a catalog
type Assembler struct {
	catalog *catalog.Catalog
}

// NewAssembler creates an assembler over the given catalog
func NewAssembler(c *catalog.Catalog) *Assembler {
	return &Assembler{catalog: c}
}

// NewSeed draws a fresh seed from the runtime's random source
func NewSeed() uint64 {
	return rand.Uint64()
}

// NewRand returns a generator for seed, or a freshly seeded one when seed is nil
func NewRand(seed *uint64) *rand.Rand {
	s := NewSeed()
	if seed != nil {
		s = *seed
	}
	return rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))
}

// Assemble returns a duplicate-free hashtag list whose length equals the
// platform's target count, unless the whole catalog holds fewer tags.
//
// Every random choice is drawn from rng, so the same rng state and inputs
// always yield the same list.
func (a *Assembler) Assemble(req Request, rng *rand.Rand) []string {
	if rng == nil {
		rng = NewRand(nil)
	}
	s := newSelection()

	if cat, ok := a.catalog.Category(catalog.RoleBooster); ok {
		s.draw(rng, cat.Tags, boosterDraw)
	}

	coreCount := coreMin + rng.IntN(coreMax-coreMin+1)
	if cat, ok := a.catalog.Category(catalog.RoleCore); ok {
		s.draw(rng, cat.Tags, coreCount)
	}

	personaCount := personaMin + rng.IntN(personaMax-personaMin+1)
	if cat, ok := a.catalog.PersonaCategory(req.Persona); ok {
		s.draw(rng, cat.Tags, personaCount)
	}

	if cat, ok := a.catalog.CampaignCategory(req.CampaignType); ok {
		s.draw(rng, cat.Tags, campaignDraw)
	}

	if cat, ok := a.catalog.Category(catalog.RoleLocale); ok {
		s.draw(rng, cat.Tags, localeDraw)
	}

	if rng.Float64() < deviceChance {
		if cat, ok := a.catalog.Category(catalog.RoleDevice); ok {
			s.draw(rng, cat.Tags, deviceDraw)
		}
	}

	target := req.Platform.TargetHashtags()
	if target <= 0 {
		target = catalog.DefaultHashtagCount
	}

	switch {
	case len(s.tags) > target:
		// May drop mandatory boosters; the platform budget wins.
		s.downsample(rng, target)
	case len(s.tags) < target:
		s.draw(rng, a.catalog.AllTags(), target-len(s.tags))
	}

	return s.tags
}

type selection struct {
	tags []string
	seen map[string]struct{}
}

func newSelection() *selection {
	return &selection{seen: make(map[string]struct{})}
}

// draw samples k tags from pool without replacement, skipping tags already
// selected. A pool smaller than k is taken whole.
func (s *selection) draw(rng *rand.Rand, pool []string, k int) {
	if k <= 0 {
		return
	}

	candidates := make([]string, 0, len(pool))
	local := make(map[string]struct{}, len(pool))
	for _, tag := range pool {
		if _, ok := s.seen[tag]; ok {
			continue
		}
		if _, ok := local[tag]; ok {
			continue
		}
		local[tag] = struct{}{}
		candidates = append(candidates, tag)
	}

	if k > len(candidates) {
		k = len(candidates)
	}
	for i := 0; i < k; i++ {
		j := i + rng.IntN(len(candidates)-i)
		candidates[i], candidates[j] = candidates[j], candidates[i]
	}

	for _, tag := range candidates[:k] {
		s.seen[tag] = struct{}{}
		s.tags = append(s.tags, tag)
	}
}

// downsample keeps a uniform random subset of n tags in their original order
func (s *selection) downsample(rng *rand.Rand, n int) {
	keep := rng.Perm(len(s.tags))[:n]
	sort.Ints(keep)

	kept := make([]string, 0, n)
	seen := make(map[string]struct{}, n)
	for _, i := range keep {
		kept = append(kept, s.tags[i])
		seen[s.tags[i]] = struct{}{}
	}
	s.tags = kept
	s.seen = seen
}
