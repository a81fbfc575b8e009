package hashtag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/content-synth/internal/catalog"
)

func seeded(seed uint64) *uint64 { return &seed }

func assertUnique(t *testing.T, tags []string) {
	t.Helper()
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		require.False(t, seen[tag], "duplicate tag %s in %v", tag, tags)
		seen[tag] = true
	}
}

func TestAssembleMatchesPlatformTarget(t *testing.T) {
	c := catalog.Default()
	a := NewAssembler(c)

	platforms := append(c.Platforms(), c.Platform("Unrecognised"))
	for _, platform := range platforms {
		for _, campaign := range append(c.CampaignTypes(), "Blockchain Seminar") {
			for seed := uint64(0); seed < 25; seed++ {
				req := Request{
					Persona:      c.SelectPersona(campaign),
					Platform:     platform,
					CampaignType: campaign,
				}
				tags := a.Assemble(req, NewRand(seeded(seed)))

				require.Len(t, tags, platform.TargetHashtags(), "platform %s campaign %s", platform.Name, campaign)
				assertUnique(t, tags)
			}
		}
	}
}

func TestUnknownPlatformUsesDefaultCount(t *testing.T) {
	c := catalog.Default()
	tags := NewAssembler(c).Assemble(Request{
		Persona:      catalog.PersonaBalancedExplorer,
		Platform:     c.Platform("Bebo"),
		CampaignType: "Summer School",
	}, NewRand(seeded(7)))

	assert.Len(t, tags, catalog.DefaultHashtagCount)
}

func TestZeroTargetFallsBackToDefault(t *testing.T) {
	c := catalog.Default()
	tags := NewAssembler(c).Assemble(Request{
		Persona:  catalog.PersonaBalancedExplorer,
		Platform: catalog.PlatformProfile{Name: "Bare"},
	}, NewRand(seeded(3)))

	assert.Len(t, tags, catalog.DefaultHashtagCount)
}

func TestSeededAssemblyIsDeterministic(t *testing.T) {
	c := catalog.Default()
	a := NewAssembler(c)
	req := Request{
		Persona:      catalog.PersonaCreativePerformer,
		Platform:     c.Platform("Instagram"),
		CampaignType: "Music-Integrated Learning",
	}
	require.Equal(t, 5, req.Platform.TargetHashtags())

	first := a.Assemble(req, NewRand(seeded(42)))
	second := a.Assemble(req, NewRand(seeded(42)))

	assert.Equal(t, first, second)
}

func TestUnseededAssemblyStillHonoursInvariants(t *testing.T) {
	c := catalog.Default()
	a := NewAssembler(c)
	req := Request{
		Persona:      catalog.PersonaCompetitiveAthlete,
		Platform:     c.Platform("TikTok"),
		CampaignType: "Sports Challenge",
	}

	for i := 0; i < 10; i++ {
		tags := a.Assemble(req, NewRand(nil))
		assert.Len(t, tags, 5)
		assertUnique(t, tags)
	}

	tags := a.Assemble(req, nil)
	assert.Len(t, tags, 5)
}

func TestPadsFromAllCategoriesWhenUnderTarget(t *testing.T) {
	c, err := catalog.New(catalog.WithPlatformOverrides(
		catalog.PlatformOverride{Name: "Wide", CharLimit: 500, MinHashtags: 20, MaxHashtags: 20},
	))
	require.NoError(t, err)

	tags := NewAssembler(c).Assemble(Request{
		Persona:      "Unknown Persona",
		Platform:     c.Platform("Wide"),
		CampaignType: "Workshop Event",
	}, NewRand(seeded(11)))

	assert.Len(t, tags, 20)
	assertUnique(t, tags)

	all := map[string]bool{}
	for _, tag := range c.AllTags() {
		all[tag] = true
	}
	for _, tag := range tags {
		assert.True(t, all[tag], "%s is not a catalog tag", tag)
	}
}

func TestPoolExhaustionReturnsWholePool(t *testing.T) {
	c, err := catalog.New(catalog.WithPlatformOverrides(
		catalog.PlatformOverride{Name: "Huge", CharLimit: 500, MinHashtags: 500, MaxHashtags: 500},
	))
	require.NoError(t, err)

	tags := NewAssembler(c).Assemble(Request{
		Persona:      catalog.PersonaBalancedExplorer,
		Platform:     c.Platform("Huge"),
		CampaignType: "Summer School",
	}, NewRand(seeded(5)))

	assert.Len(t, tags, len(c.AllTags()))
	assert.ElementsMatch(t, c.AllTags(), tags)
}

func TestDrawTakesWholePoolWhenSmall(t *testing.T) {
	s := newSelection()
	s.draw(NewRand(seeded(1)), []string{"#a", "#b", "#a"}, 5)

	assert.ElementsMatch(t, []string{"#a", "#b"}, s.tags)
}

func TestDrawSkipsAlreadySelected(t *testing.T) {
	s := newSelection()
	s.draw(NewRand(seeded(1)), []string{"#a"}, 1)
	s.draw(NewRand(seeded(2)), []string{"#a", "#b"}, 2)

	assert.Equal(t, []string{"#a", "#b"}, s.tags)
}

func TestDownsampleKeepsOrderAndSize(t *testing.T) {
	s := newSelection()
	s.draw(NewRand(seeded(9)), []string{"#1", "#2", "#3", "#4", "#5", "#6"}, 6)
	before := append([]string(nil), s.tags...)

	s.downsample(NewRand(seeded(9)), 3)

	require.Len(t, s.tags, 3)
	last := -1
	for _, tag := range s.tags {
		idx := indexOf(before, tag)
		require.Greater(t, idx, last)
		last = idx
	}
	assert.Len(t, s.seen, 3)
}

func indexOf(list []string, v string) int {
	for i, s := range list {
		if s == v {
			return i
		}
	}
	return -1
}
