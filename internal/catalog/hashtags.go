package catalog

// Role is the part a hashtag category plays in an assembled set
type Role string

const (
	RoleBooster  Role = "engagement-booster"
	RoleCore     Role = "core-topic"
	RolePersona  Role = "persona-aligned"
	RoleCampaign Role = "campaign-aligned"
	RoleLocale   Role = "locale"
	RoleDevice   Role = "device-context"
)

// HashtagCategory is a named group of tags sharing a role.
// Owner is the persona name for persona-aligned categories and the campaign
// type for campaign-aligned ones; it is empty for every other role.
type HashtagCategory struct {
	Key        string   `json:"key"`
	Role       Role     `json:"role"`
	Owner      string   `json:"owner,omitempty"`
	Tags       []string `json:"tags"`
	Engagement string   `json:"engagement"`
	Note       string   `json:"note"`
}

func (c HashtagCategory) clone() HashtagCategory {
	c.Tags = cloneStrings(c.Tags)
	return c
}

// Order matters: the assembler walks categories in this order when building
// the padding pool, which keeps seeded runs reproducible.
var hashtagTable = []HashtagCategory{
	{
		Key:        "high_engagement_boosters",
		Role:       RoleBooster,
		Tags:       []string{"#viral", "#comedy", "#challenge", "#tech"},
		Engagement: "80-100%",
		Note:       "Algorithmic visibility boosters",
	},
	{
		Key:        "education_core",
		Role:       RoleCore,
		Tags:       []string{"#education", "#study", "#learning", "#studywithme", "#studytips"},
		Engagement: "65%+",
		Note:       "Core discoverability tags",
	},
	{
		Key:        "creative_performer",
		Role:       RolePersona,
		Owner:      PersonaCreativePerformer,
		Tags:       []string{"#music", "#dance", "#band", "#creativelearning", "#performingarts"},
		Engagement: "Medium-High",
		Note:       "Arts and performance audience",
	},
	{
		Key:        "competitive_athlete",
		Role:       RolePersona,
		Owner:      PersonaCompetitiveAthlete,
		Tags:       []string{"#sports", "#fitness", "#motivation", "#teamwork", "#challenge"},
		Engagement: "Medium-High",
		Note:       "Sport and achievement audience",
	},
	{
		Key:        "balanced_explorer",
		Role:       RolePersona,
		Owner:      PersonaBalancedExplorer,
		Tags:       []string{"#studentlife", "#explore", "#studylifebalance", "#learning", "#studytips"},
		Engagement: "Medium",
		Note:       "Lifestyle integration",
	},
	{
		Key:   "campaign_music",
		Role:  RoleCampaign,
		Owner: "Music-Integrated Learning",
		Tags:  []string{"#StudyPlaylist", "#MusicLearning", "#AudioLearning"},
		Note:  "Music-led study content",
	},
	{
		Key:   "campaign_dance",
		Role:  RoleCampaign,
		Owner: "Dance/Movement Learning",
		Tags:  []string{"#DanceLearning", "#MovementStudy", "#KinestheticLearning"},
		Note:  "Movement-based learning",
	},
	{
		Key:   "campaign_sports",
		Role:  RoleCampaign,
		Owner: "Sports Challenge",
		Tags:  []string{"#GameOn", "#SnapAndScore", "#SportsChallenge"},
		Note:  "Challenge-format campaigns",
	},
	{
		Key:   "campaign_fitness",
		Role:  RoleCampaign,
		Owner: "Fitness & Wellness Program",
		Tags:  []string{"#wellness", "#fitlife", "#healthystudents"},
		Note:  "Wellbeing programmes",
	},
	{
		Key:   "campaign_enrollment",
		Role:  RoleCampaign,
		Owner: "Course Enrollment",
		Tags:  []string{"#CourseEnrollment", "#SkillBuilding", "#EnrolNow"},
		Note:  "Enrolment drives",
	},
	{
		Key:   "campaign_summer",
		Role:  RoleCampaign,
		Owner: "Summer School",
		Tags:  []string{"#SummerSchool", "#SummerLearning"},
		Note:  "Seasonal programmes",
	},
	{
		Key:   "campaign_tips",
		Role:  RoleCampaign,
		Owner: "Study Tips & Hacks",
		Tags:  []string{"#studyhacks", "#studygram", "#studysmart"},
		Note:  "Tips and hacks content",
	},
	{
		Key:        "nz_localized",
		Role:       RoleLocale,
		Tags:       []string{"#NZEducation", "#nzhistory", "#KiwiStudents", "#nzstudents"},
		Engagement: "High for NZ",
		Note:       "Regional targeting",
	},
	{
		Key:        "mobile_context",
		Role:       RoleDevice,
		Tags:       []string{"#mobilelearning", "#LearnOnTheGo", "#studenttok"},
		Engagement: "Moderate",
		Note:       "Mobile-first audience",
	},
}
