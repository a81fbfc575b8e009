// Package catalog holds the read-only persona, hashtag, platform and tone tables.
//
// A Catalog is built once at startup and never mutated afterwards, so it can be
// shared by concurrent callers without locking. Accessors hand out copies.
package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by the strict lookups
var ErrNotFound = errors.New("not found")

// ErrInvalid is returned when the tables reference unknown entries
var ErrInvalid = errors.New("invalid catalog")

// Catalog is the immutable registry of static configuration
type Catalog struct {
	personas     []Persona
	personaIndex map[string]int

	rules          map[string]string
	campaignTypes  []string
	defaultPersona string

	categories []HashtagCategory

	platforms       []PlatformProfile
	platformIndex   map[string]int
	defaultPlatform PlatformProfile

	tones     []Tone
	toneIndex map[string]int
}

type options struct {
	overrides    []PlatformOverride
	hashtagCount int
	tolerance    int
}

// Option customises a catalog at build time
type Option func(*options)

// WithPlatformOverrides adjusts built-in platforms or adds new ones
func WithPlatformOverrides(overrides ...PlatformOverride) Option {
	return func(o *options) {
		o.overrides = append(o.overrides, overrides...)
	}
}

// WithDefaultHashtagCount sets the target used for unrecognised platforms
func WithDefaultHashtagCount(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.hashtagCount = n
		}
	}
}

// WithDefaultTolerance sets the length tolerance for platforms that don't define one
func WithDefaultTolerance(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.tolerance = n
		}
	}
}

// New builds a catalog from the built-in tables
func New(opts ...Option) (*Catalog, error) {
	o := options{hashtagCount: DefaultHashtagCount, tolerance: DefaultTolerance}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Catalog{
		personaIndex:   make(map[string]int, len(personaTable)),
		rules:          make(map[string]string, len(selectionTable)),
		defaultPersona: DefaultPersona,
		platformIndex:  make(map[string]int),
		toneIndex:      make(map[string]int, len(toneTable)),
		defaultPlatform: PlatformProfile{
			Name:         "Default",
			CharLimit:    DefaultCharLimit,
			HashtagCount: HashtagRange{Min: o.hashtagCount, Max: o.hashtagCount},
			Tolerance:    o.tolerance,
			Note:         "Fallback for unrecognised platforms",
		},
	}

	for i, p := range personaTable {
		c.personas = append(c.personas, p.clone())
		c.personaIndex[p.Name] = i
	}
	if _, ok := c.personaIndex[c.defaultPersona]; !ok {
		return nil, fmt.Errorf("%w: default persona %q is not defined", ErrInvalid, c.defaultPersona)
	}

	for _, r := range selectionTable {
		if _, ok := c.personaIndex[r.Persona]; !ok {
			return nil, fmt.Errorf("%w: campaign %q maps to unknown persona %q", ErrInvalid, r.CampaignType, r.Persona)
		}
		c.rules[r.CampaignType] = r.Persona
		c.campaignTypes = append(c.campaignTypes, r.CampaignType)
	}

	for _, cat := range hashtagTable {
		if cat.Role == RolePersona {
			if _, ok := c.personaIndex[cat.Owner]; !ok {
				return nil, fmt.Errorf("%w: hashtag category %q belongs to unknown persona %q", ErrInvalid, cat.Key, cat.Owner)
			}
		}
		c.categories = append(c.categories, cat.clone())
	}

	for _, p := range platformTable {
		if p.Tolerance <= 0 {
			p.Tolerance = o.tolerance
		}
		c.addPlatform(p.clone())
	}
	for _, ov := range o.overrides {
		key := normalize(ov.Name)
		if key == "" {
			return nil, fmt.Errorf("%w: platform override without a name", ErrInvalid)
		}
		if i, ok := c.platformIndex[key]; ok {
			c.platforms[i] = ov.apply(c.platforms[i])
			continue
		}
		if ov.CharLimit <= 0 {
			return nil, fmt.Errorf("%w: new platform %q needs a char_limit", ErrInvalid, ov.Name)
		}
		p := ov.apply(PlatformProfile{
			Name:         ov.Name,
			HashtagCount: HashtagRange{Min: o.hashtagCount, Max: o.hashtagCount},
			Tolerance:    o.tolerance,
		})
		c.addPlatform(p)
	}

	for i, t := range toneTable {
		c.tones = append(c.tones, t.clone())
		c.toneIndex[normalize(t.Name)] = i
	}

	return c, nil
}

// Default returns a catalog built from the built-in tables only
func Default() *Catalog {
	c, err := New()
	if err != nil {
		// The built-in tables are fixed at compile time
		panic(err)
	}
	return c
}

func (c *Catalog) addPlatform(p PlatformProfile) {
	c.platforms = append(c.platforms, p)
	i := len(c.platforms) - 1
	c.platformIndex[normalize(p.Name)] = i
	for _, alias := range p.Aliases {
		c.platformIndex[normalize(alias)] = i
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// SelectPersona maps a campaign type to a persona name. It never fails:
// unknown or empty campaign types get the default persona.
func (c *Catalog) SelectPersona(campaignType string) string {
	if name, ok := c.rules[campaignType]; ok {
		return name
	}
	return c.defaultPersona
}

// DefaultPersona returns the fallback persona name
func (c *Catalog) DefaultPersona() string {
	return c.defaultPersona
}

// CampaignTypes lists the campaign types that have a selection rule
func (c *Catalog) CampaignTypes() []string {
	return cloneStrings(c.campaignTypes)
}

// Rules returns the campaign to persona mapping in table order
func (c *Catalog) Rules() []SelectionRule {
	out := make([]SelectionRule, 0, len(c.campaignTypes))
	for _, ct := range c.campaignTypes {
		out = append(out, SelectionRule{CampaignType: ct, Persona: c.rules[ct]})
	}
	return out
}

// Persona returns the named persona, or the default persona when the name is unknown
func (c *Catalog) Persona(name string) Persona {
	if p, err := c.LookupPersona(name); err == nil {
		return p
	}
	return c.personas[c.personaIndex[c.defaultPersona]].clone()
}

// LookupPersona is the strict variant of Persona
func (c *Catalog) LookupPersona(name string) (Persona, error) {
	i, ok := c.personaIndex[name]
	if !ok {
		return Persona{}, fmt.Errorf("persona %q: %w", name, ErrNotFound)
	}
	return c.personas[i].clone(), nil
}

// Personas returns every persona in table order
func (c *Catalog) Personas() []Persona {
	out := make([]Persona, len(c.personas))
	for i, p := range c.personas {
		out[i] = p.clone()
	}
	return out
}

// Platform resolves a platform by name or alias, case-insensitively.
// Unknown names get the default profile carrying the requested name.
func (c *Catalog) Platform(name string) PlatformProfile {
	if p, err := c.LookupPlatform(name); err == nil {
		return p
	}
	p := c.defaultPlatform.clone()
	if strings.TrimSpace(name) != "" {
		p.Name = name
	}
	return p
}

// LookupPlatform is the strict variant of Platform
func (c *Catalog) LookupPlatform(name string) (PlatformProfile, error) {
	i, ok := c.platformIndex[normalize(name)]
	if !ok {
		return PlatformProfile{}, fmt.Errorf("platform %q: %w", name, ErrNotFound)
	}
	return c.platforms[i].clone(), nil
}

// Platforms returns every known platform in table order
func (c *Catalog) Platforms() []PlatformProfile {
	out := make([]PlatformProfile, len(c.platforms))
	for i, p := range c.platforms {
		out[i] = p.clone()
	}
	return out
}

// Categories returns every hashtag category in table order
func (c *Catalog) Categories() []HashtagCategory {
	out := make([]HashtagCategory, len(c.categories))
	for i, cat := range c.categories {
		out[i] = cat.clone()
	}
	return out
}

// Category returns the first category with the given role
func (c *Catalog) Category(role Role) (HashtagCategory, bool) {
	for _, cat := range c.categories {
		if cat.Role == role {
			return cat.clone(), true
		}
	}
	return HashtagCategory{}, false
}

// PersonaCategory returns the persona-aligned category for a persona
func (c *Catalog) PersonaCategory(persona string) (HashtagCategory, bool) {
	return c.ownedCategory(RolePersona, persona)
}

// CampaignCategory returns the campaign-aligned category for a campaign type
func (c *Catalog) CampaignCategory(campaignType string) (HashtagCategory, bool) {
	return c.ownedCategory(RoleCampaign, campaignType)
}

func (c *Catalog) ownedCategory(role Role, owner string) (HashtagCategory, bool) {
	for _, cat := range c.categories {
		if cat.Role == role && cat.Owner == owner {
			return cat.clone(), true
		}
	}
	return HashtagCategory{}, false
}

// AllTags returns the union of all category tags, deduplicated, in table order
func (c *Catalog) AllTags() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, cat := range c.categories {
		for _, tag := range cat.Tags {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			out = append(out, tag)
		}
	}
	return out
}

// Tone returns the named brand tone, matched case-insensitively
func (c *Catalog) Tone(name string) (Tone, bool) {
	i, ok := c.toneIndex[normalize(name)]
	if !ok {
		return Tone{}, false
	}
	return c.tones[i].clone(), true
}

// Tones returns every brand tone in table order
func (c *Catalog) Tones() []Tone {
	out := make([]Tone, len(c.tones))
	for i, t := range c.tones {
		out[i] = t.clone()
	}
	return out
}
