package catalog

// Persona is a named student audience segment used to steer caption generation
type Persona struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Demographics   string   `json:"demographics"`
	Interests      []string `json:"interests"` // ranked, strongest first
	MessagingStyle string   `json:"messaging_style"`
	KeyBenefits    string   `json:"key_benefits"`
	CTAStyle       string   `json:"cta_style"`
	Campaigns      []string `json:"campaigns"`
	VisualKeywords []string `json:"visual_keywords"`
}

func (p Persona) clone() Persona {
	p.Interests = cloneStrings(p.Interests)
	p.Campaigns = cloneStrings(p.Campaigns)
	p.VisualKeywords = cloneStrings(p.VisualKeywords)
	return p
}

// Persona names
const (
	PersonaCreativePerformer  = "Creative Performer"
	PersonaCompetitiveAthlete = "Competitive Athlete"
	PersonaBalancedExplorer   = "Balanced Explorer"
)

// DefaultPersona is used when a campaign type has no selection rule
const DefaultPersona = PersonaBalancedExplorer

var personaTable = []Persona{
	{
		Name:           PersonaCreativePerformer,
		Description:    "Music, dance, and arts-focused students (45% of audience)",
		Demographics:   "70% Female, Age 16-18",
		Interests:      []string{"Music (0.77)", "Dance (0.49)", "Band (0.30)", "Rock (0.25)"},
		MessagingStyle: "Friendly, expressive, energetic",
		KeyBenefits:    "Empowerment, creativity, belonging",
		CTAStyle:       "Share your vibe, Turn up for your dreams, Join the movement",
		Campaigns:      []string{"Your Story. Your Stage.", "Start Your Story Here", "Discover What NZ Can Teach You"},
		VisualKeywords: []string{"music", "dance", "stage", "creative", "perform", "band", "rhythm", "vibe", "story"},
	},
	{
		Name:           PersonaCompetitiveAthlete,
		Description:    "Sports and achievement-driven students (35% of audience)",
		Demographics:   "75% Male, Age 17-20",
		Interests:      []string{"Football (0.45)", "Basketball (0.31)", "Baseball (0.27)", "Sports (0.20)"},
		MessagingStyle: "Motivational, bold, competitive",
		KeyBenefits:    "Achievement, teamwork, consistency",
		CTAStyle:       "Show up strong, Join the challenge, Train hard",
		Campaigns:      []string{"Game On: Every Day Counts", "Snap & Score Challenge", "Summer Drive"},
		VisualKeywords: []string{"challenge", "train", "team", "game", "score", "strong", "win", "sport", "compete"},
	},
	{
		Name:           PersonaBalancedExplorer,
		Description:    "Lifestyle and well-rounded learners (20% of audience)",
		Demographics:   "Mixed gender, Age 16-22",
		Interests:      []string{"Music (0.50)", "Dance (0.34)", "Swimming (0.09)", "Study-life balance"},
		MessagingStyle: "Warm, conversational, inclusive",
		KeyBenefits:    "Discovery, belonging, life-balance",
		CTAStyle:       "Learn. Explore. Belong., Start your story, Discover",
		Campaigns:      []string{"Explore Your Path", "Study + Adventure Diaries", "Inspiring the Future"},
		VisualKeywords: []string{"explore", "discover", "balance", "journey", "belong", "adventure", "learn", "story"},
	},
}

// SelectionRule maps a campaign type label to a persona
type SelectionRule struct {
	CampaignType string `json:"campaign_type"`
	Persona      string `json:"persona"`
}

var selectionTable = []SelectionRule{
	{"Summer School", PersonaBalancedExplorer},
	{"Course Enrollment", PersonaBalancedExplorer},
	{"Tutoring Services", PersonaBalancedExplorer},
	{"Music-Integrated Learning", PersonaCreativePerformer},
	{"Dance/Movement Learning", PersonaCreativePerformer},
	{"Workshop Event", PersonaBalancedExplorer},
	{"Study Tips & Hacks", PersonaBalancedExplorer},
	{"Sports Challenge", PersonaCompetitiveAthlete},
	{"Fitness & Wellness Program", PersonaCompetitiveAthlete},
	{"Achievement Program", PersonaCompetitiveAthlete},
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
