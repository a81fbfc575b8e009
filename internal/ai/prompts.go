package ai

// Caption generation prompts
const (
	CaptionSystemPrompt = `You are a social media copywriter for an education provider, writing short captions for student audiences.

You write for one research-backed student persona at a time and follow the platform limits exactly.

Guidelines:
- Lead with the benefit or transformation the student gets
- Structure: hook (about 40 chars) + value proposition (about 60 chars) + call-to-action (about 30 chars)
- Use 1-2 relevant emojis at most
- Never include hashtags; they are added separately
- Return only the caption text, ready to post, with no quotes or commentary`

	CaptionUserPrompt = `Write a caption for the following campaign.

TARGET PERSONA: %s
Description: %s
Demographics: %s
Top Interests: %s

MESSAGING GUIDELINES:
- Tone: %s
- Key Benefits to Highlight: %s
- Call-to-Action Style: %s

PLATFORM:
- Platform: %s
- Maximum length: %d characters (hard limit)

CONTENT DETAILS:
Campaign: %s
Course/Event: %s
Brand Voice: %s
%s
Write a %s, %s caption and stay under %d characters:`

	// Appended to the user prompt when the caller described the audience or keywords
	CaptionKeywordsLine = "Audience / Keywords: %s\n"
)
