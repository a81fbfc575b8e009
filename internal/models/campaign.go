package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/content-synth/internal/caption"
	"github.com/content-synth/internal/catalog"
)

// CampaignInput is what a caller supplies for one generation
type CampaignInput struct {
	Platform     string `json:"platform"`
	CampaignType string `json:"campaign_type"`
	BrandTone    string `json:"brand_tone"`
	CourseTitle  string `json:"course_title"`
	Keywords     string `json:"keywords,omitempty"` // optional audience or keyword description
}

// Validate rejects inputs whose required fields are blank
func (in CampaignInput) Validate() error {
	if strings.TrimSpace(in.Platform) == "" {
		return fmt.Errorf("%w: platform is required", ErrEmptyInput)
	}
	if strings.TrimSpace(in.CourseTitle) == "" {
		return fmt.Errorf("%w: course title is required", ErrEmptyInput)
	}
	return nil
}

// CampaignRequest is the resolved, immutable request of one generation
type CampaignRequest struct {
	Platform     string `json:"platform"`
	CampaignType string `json:"campaign_type"`
	Persona      string `json:"persona"`
	CourseTitle  string `json:"course_title"`
	BrandTone    string `json:"brand_tone"`
	Keywords     string `json:"keywords,omitempty"`
}

// CaptionRequest is the descriptor handed to the text generation service
type CaptionRequest struct {
	Persona      catalog.Persona
	Platform     string
	CharLimit    int
	CampaignType string
	CourseTitle  string
	BrandTone    string
	Keywords     string
}

// ImageResult describes an image picked for a caption
type ImageResult struct {
	URL         string `json:"url"`
	Attribution string `json:"attribution"`
	Prompt      string `json:"prompt"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
}

// GenerationResult is the immutable record of a successful generation
type GenerationResult struct {
	ID             string               `json:"id"`
	Request        CampaignRequest      `json:"request"`
	Caption        string               `json:"caption"`
	Hashtags       []string             `json:"hashtags"`
	LengthStatus   caption.LengthStatus `json:"length_status"`
	CharCount      int                  `json:"char_count"`
	CharLimit      int                  `json:"char_limit"`
	AlignmentScore int                  `json:"alignment_score"`
	Seed           uint64               `json:"seed"`
	Image          *ImageResult         `json:"image,omitempty"`
	Timestamp      time.Time            `json:"timestamp"`
}

// CharCountLabel renders the count as "count/limit"
func (r *GenerationResult) CharCountLabel() string {
	return fmt.Sprintf("%d/%d", r.CharCount, r.CharLimit)
}

// HashtagLine joins the hashtags with spaces
func (r *GenerationResult) HashtagLine() string {
	return strings.Join(r.Hashtags, " ")
}

// PostText is the ready-to-post caption followed by its hashtags
func (r *GenerationResult) PostText() string {
	if len(r.Hashtags) == 0 {
		return r.Caption
	}
	return r.Caption + "\n\n" + r.HashtagLine()
}

// Overflow is the number of characters past the limit, or zero
func (r *GenerationResult) Overflow() int {
	if r.CharCount > r.CharLimit {
		return r.CharCount - r.CharLimit
	}
	return 0
}
