package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/content-synth/internal/caption"
)

func TestCampaignInputValidate(t *testing.T) {
	valid := CampaignInput{Platform: "Instagram", CampaignType: "Summer School", CourseTitle: "Summer Program 2025"}
	require.NoError(t, valid.Validate())

	missingTitle := valid
	missingTitle.CourseTitle = "   "
	assert.True(t, errors.Is(missingTitle.Validate(), ErrEmptyInput))

	missingPlatform := valid
	missingPlatform.Platform = ""
	assert.ErrorIs(t, missingPlatform.Validate(), ErrEmptyInput)

	// Campaign type and tone are optional; lookups fall back to defaults.
	noCampaign := valid
	noCampaign.CampaignType = ""
	noCampaign.BrandTone = ""
	assert.NoError(t, noCampaign.Validate())
}

func TestResultRendering(t *testing.T) {
	r := &GenerationResult{
		Caption:   "Find your rhythm this summer 🎶",
		Hashtags:  []string{"#music", "#viral"},
		CharCount: 160,
		CharLimit: 150,
	}

	assert.Equal(t, "160/150", r.CharCountLabel())
	assert.Equal(t, "#music #viral", r.HashtagLine())
	assert.Equal(t, "Find your rhythm this summer 🎶\n\n#music #viral", r.PostText())
	assert.Equal(t, 10, r.Overflow())

	r.Hashtags = nil
	r.CharCount = 20
	assert.Equal(t, r.Caption, r.PostText())
	assert.Zero(t, r.Overflow())
}

func TestRecordRoundTrip(t *testing.T) {
	result := &GenerationResult{
		ID: "res-1",
		Request: CampaignRequest{
			Platform:     "TikTok",
			CampaignType: "Sports Challenge",
			Persona:      "Competitive Athlete",
			CourseTitle:  "Game On",
			BrandTone:    "Casual",
			Keywords:     "year 12",
		},
		Caption:        "Show up strong",
		Hashtags:       []string{"#sports", "#viral"},
		LengthStatus:   caption.LengthGood,
		CharCount:      14,
		CharLimit:      150,
		AlignmentScore: 90,
		Seed:           42,
		Image:          &ImageResult{URL: "https://img", Attribution: "Photo by A on Unsplash"},
		Timestamp:      time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	rec := NewRecord("sess-1", result)
	assert.Equal(t, "sess-1", rec.SessionID)
	assert.Equal(t, "good", rec.LengthStatus)

	back := rec.Result()
	assert.Equal(t, result, back)

	result.Seed = 1<<64 - 1
	assert.Equal(t, result.Seed, NewRecord("sess-1", result).Result().Seed)
}

func TestStringSliceScan(t *testing.T) {
	var s StringSlice
	require.NoError(t, s.Scan(`["#a","#b"]`))
	assert.Equal(t, StringSlice{"#a", "#b"}, s)

	require.NoError(t, s.Scan([]byte(`["#c"]`)))
	assert.Equal(t, StringSlice{"#c"}, s)

	require.NoError(t, s.Scan(nil))
	assert.Nil(t, s)

	assert.Error(t, s.Scan(12))

	v, err := StringSlice{"#x"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `["#x"]`, v)
}
