package media

import (
	"fmt"
	"strings"

	"github.com/content-synth/internal/catalog"
)

// Size is an image resolution in pixels
type Size struct {
	Width  int
	Height int
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Supported output sizes
var (
	SizeSquare    = Size{Width: 1024, Height: 1024}
	SizeLandscape = Size{Width: 1792, Height: 1024}
	SizePortrait  = Size{Width: 1024, Height: 1792}
)

// SupportedSizes lists the sizes an image request may be resolved to
func SupportedSizes() []Size {
	return []Size{SizeSquare, SizeLandscape, SizePortrait}
}

// ResolveImageSize maps a requested resolution to the supported size with the
// closest aspect ratio. Non-positive dimensions resolve to square.
func ResolveImageSize(width, height int) Size {
	if width <= 0 || height <= 0 {
		return SizeSquare
	}
	ratio := float64(width) / float64(height)

	best := SizeSquare
	bestDiff := -1.0
	for _, s := range SupportedSizes() {
		diff := ratio - float64(s.Width)/float64(s.Height)
		if diff < 0 {
			diff = -diff
		}
		if bestDiff < 0 || diff < bestDiff {
			best, bestDiff = s, diff
		}
	}
	return best
}

// Orientation returns the Unsplash orientation filter for a size
func (s Size) Orientation() string {
	switch {
	case s.Width > s.Height:
		return "landscape"
	case s.Height > s.Width:
		return "portrait"
	default:
		return "squarish"
	}
}

var campaignScenes = map[string]string{
	"Summer School":              "students learning outdoors in summer",
	"Course Enrollment":          "students on a welcoming campus",
	"Tutoring Services":          "tutor helping a student one to one",
	"Music-Integrated Learning":  "students rehearsing music together",
	"Dance/Movement Learning":    "students dancing in a bright studio",
	"Workshop Event":             "students at a hands-on workshop",
	"Study Tips & Hacks":         "student studying with a phone and notebook",
	"Sports Challenge":           "students competing in a team sport",
	"Fitness & Wellness Program": "students training outdoors",
	"Achievement Program":        "students celebrating a graduation",
}

var toneMoods = map[string]string{
	"professional": "clean, polished, natural light",
	"casual":       "candid, vibrant, energetic",
	"friendly":     "warm, inviting, smiling faces",
}

// BuildVisualPrompt describes the image to look for or generate for a campaign
func BuildVisualPrompt(persona catalog.Persona, campaignType, brandTone string) string {
	scene, ok := campaignScenes[campaignType]
	if !ok {
		scene = "students learning together"
	}

	parts := []string{scene}
	if kw := persona.VisualKeywords; len(kw) > 0 {
		n := len(kw)
		if n > 3 {
			n = 3
		}
		parts = append(parts, strings.Join(kw[:n], " "))
	}
	if mood, ok := toneMoods[strings.ToLower(strings.TrimSpace(brandTone))]; ok {
		parts = append(parts, mood)
	}
	parts = append(parts, "New Zealand", "no text")

	return strings.Join(parts, ", ")
}
