package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/content-synth/internal/models"
)

// BuildCaptionPrompts renders a caption request into the system and user prompts
func BuildCaptionPrompts(req *models.CaptionRequest) (string, string) {
	p := req.Persona

	keywords := ""
	if k := strings.TrimSpace(req.Keywords); k != "" {
		keywords = fmt.Sprintf(CaptionKeywordsLine, k)
	}

	tone := strings.ToLower(strings.TrimSpace(req.BrandTone))
	if tone == "" {
		tone = "on-brand"
	}

	user := fmt.Sprintf(CaptionUserPrompt,
		p.Name,
		p.Description,
		p.Demographics,
		strings.Join(p.Interests, ", "),
		p.MessagingStyle,
		p.KeyBenefits,
		p.CTAStyle,
		req.Platform,
		req.CharLimit,
		req.CampaignType,
		req.CourseTitle,
		req.BrandTone,
		keywords,
		tone,
		strings.ToLower(p.MessagingStyle),
		req.CharLimit,
	)

	return CaptionSystemPrompt, user
}

// GenerateCaption asks Claude for a caption matching the request
func (c *Client) GenerateCaption(ctx context.Context, req *models.CaptionRequest) (string, error) {
	system, user := BuildCaptionPrompts(req)

	response, err := c.Complete(ctx, system, user)
	if err != nil {
		return "", err
	}

	caption := cleanCaption(response)
	if caption == "" {
		return "", fmt.Errorf("claude returned an empty caption")
	}

	c.log.Debug().
		Str("persona", req.Persona.Name).
		Str("platform", req.Platform).
		Int("chars", len([]rune(caption))).
		Msg("Caption generated")

	return caption, nil
}

// cleanCaption strips surrounding whitespace and quotes the model sometimes adds
func cleanCaption(response string) string {
	s := strings.TrimSpace(response)
	for _, q := range []string{`"`, "'", "“", "”"} {
		s = strings.TrimPrefix(s, q)
		s = strings.TrimSuffix(s, q)
	}
	s = strings.TrimPrefix(s, "Caption:")
	return strings.TrimSpace(s)
}
