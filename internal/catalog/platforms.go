package catalog

// Defaults applied to platforms the catalog does not know
const (
	DefaultHashtagCount = 8
	DefaultCharLimit    = 150
	DefaultTolerance    = 10
)

// HashtagRange is the recommended hashtag count for a platform.
// A fixed target has Min == Max.
type HashtagRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// PlatformProfile holds the per-platform content constraints
type PlatformProfile struct {
	Name         string       `json:"name"`
	Aliases      []string     `json:"aliases,omitempty"`
	CharLimit    int          `json:"char_limit"`
	HashtagCount HashtagRange `json:"hashtag_count"`
	Tolerance    int          `json:"tolerance"`
	Note         string       `json:"note"`
}

// TargetHashtags is the number of hashtags an assembled set must reach.
// For a range the upper bound is used so the set never exceeds the recommendation.
func (p PlatformProfile) TargetHashtags() int {
	if p.HashtagCount.Max > 0 {
		return p.HashtagCount.Max
	}
	return p.HashtagCount.Min
}

func (p PlatformProfile) clone() PlatformProfile {
	p.Aliases = cloneStrings(p.Aliases)
	return p
}

var platformTable = []PlatformProfile{
	{
		Name:         "Instagram",
		CharLimit:    150,
		HashtagCount: HashtagRange{Min: 5, Max: 5},
		Tolerance:    DefaultTolerance,
		Note:         "Caption truncates at ~125 chars on mobile",
	},
	{
		Name:         "TikTok",
		CharLimit:    150,
		HashtagCount: HashtagRange{Min: 5, Max: 5},
		Tolerance:    DefaultTolerance,
		Note:         "Short hook, hashtags drive discovery",
	},
	{
		Name:         "Facebook",
		CharLimit:    200,
		HashtagCount: HashtagRange{Min: 3, Max: 3},
		Tolerance:    DefaultTolerance,
		Note:         "Fewer hashtags perform better",
	},
	{
		Name:         "Cross-Platform",
		Aliases:      []string{"Cross-Platform (Instagram + TikTok + Facebook)"},
		CharLimit:    150,
		HashtagCount: HashtagRange{Min: 3, Max: 5},
		Tolerance:    DefaultTolerance,
		Note:         "Uses the shortest limit of the combined platforms",
	},
}

// PlatformOverride adjusts or adds a platform profile. Zero fields keep the built-in value.
type PlatformOverride struct {
	Name        string `mapstructure:"name"`
	CharLimit   int    `mapstructure:"char_limit"`
	MinHashtags int    `mapstructure:"min_hashtags"`
	MaxHashtags int    `mapstructure:"max_hashtags"`
	Tolerance   int    `mapstructure:"tolerance"`
}

func (o PlatformOverride) apply(p PlatformProfile) PlatformProfile {
	if o.CharLimit > 0 {
		p.CharLimit = o.CharLimit
	}
	if o.MinHashtags > 0 {
		p.HashtagCount.Min = o.MinHashtags
	}
	if o.MaxHashtags > 0 {
		p.HashtagCount.Max = o.MaxHashtags
	}
	if p.HashtagCount.Max < p.HashtagCount.Min {
		p.HashtagCount.Max = p.HashtagCount.Min
	}
	if o.Tolerance > 0 {
		p.Tolerance = o.Tolerance
	}
	return p
}
