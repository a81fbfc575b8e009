package catalog

// Tone is a brand voice label with the words that signal it in a caption
type Tone struct {
	Name       string   `json:"name"`
	Indicators []string `json:"indicators"`
}

func (t Tone) clone() Tone {
	t.Indicators = cloneStrings(t.Indicators)
	return t
}

var toneTable = []Tone{
	{
		Name:       "Professional",
		Indicators: []string{"program", "opportunity", "develop", "achieve", "excellence", "enrol", "career", "skills"},
	},
	{
		Name:       "Casual",
		Indicators: []string{"hey", "let's", "vibe", "awesome", "cool", "check it out", "gonna", "no cap"},
	},
	{
		Name:       "Friendly",
		Indicators: []string{"welcome", "together", "join us", "friends", "we'd love", "you're invited", "can't wait"},
	},
}
