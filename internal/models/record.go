package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/content-synth/internal/caption"
)

// StringSlice is a custom type for storing string arrays in JSON
type StringSlice []string

func (s StringSlice) Value() (driver.Value, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *StringSlice) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*s = nil
		return nil
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("cannot scan %T into StringSlice", value)
	}
}

// GenerationRecord is the persisted form of a GenerationResult
type GenerationRecord struct {
	ID             uint        `gorm:"primaryKey" json:"id"`
	ResultID       string      `gorm:"uniqueIndex;not null" json:"result_id"`
	SessionID      string      `gorm:"index;not null" json:"session_id"`
	Platform       string      `gorm:"index" json:"platform"`
	CampaignType   string      `json:"campaign_type"`
	Persona        string      `gorm:"index" json:"persona"`
	CourseTitle    string      `json:"course_title"`
	BrandTone      string      `json:"brand_tone"`
	Keywords       string      `json:"keywords"`
	Caption        string      `gorm:"type:text;not null" json:"caption"`
	Hashtags       StringSlice `gorm:"type:json" json:"hashtags"`
	LengthStatus   string      `json:"length_status"`
	CharCount      int         `json:"char_count"`
	CharLimit      int         `json:"char_limit"`
	AlignmentScore int         `json:"alignment_score"`
	Seed           int64       `json:"seed"` // bit-cast of the uint64 seed; SQLite integers are signed
	ImageURL       string      `json:"image_url"`
	ImageCredit    string      `json:"image_credit"`
	GeneratedAt    time.Time   `gorm:"index" json:"generated_at"`
	Tracked        bool        `gorm:"index" json:"tracked"` // appended to the Sheets tracker
	CreatedAt      time.Time   `gorm:"autoCreateTime" json:"created_at"`
}

// NewRecord converts a result into its persisted form
func NewRecord(sessionID string, r *GenerationResult) *GenerationRecord {
	rec := &GenerationRecord{
		ResultID:       r.ID,
		SessionID:      sessionID,
		Platform:       r.Request.Platform,
		CampaignType:   r.Request.CampaignType,
		Persona:        r.Request.Persona,
		CourseTitle:    r.Request.CourseTitle,
		BrandTone:      r.Request.BrandTone,
		Keywords:       r.Request.Keywords,
		Caption:        r.Caption,
		Hashtags:       StringSlice(append([]string(nil), r.Hashtags...)),
		LengthStatus:   string(r.LengthStatus),
		CharCount:      r.CharCount,
		CharLimit:      r.CharLimit,
		AlignmentScore: r.AlignmentScore,
		Seed:           int64(r.Seed),
		GeneratedAt:    r.Timestamp,
	}
	if r.Image != nil {
		rec.ImageURL = r.Image.URL
		rec.ImageCredit = r.Image.Attribution
	}
	return rec
}

// Result converts the record back into a GenerationResult
func (rec *GenerationRecord) Result() *GenerationResult {
	r := &GenerationResult{
		ID: rec.ResultID,
		Request: CampaignRequest{
			Platform:     rec.Platform,
			CampaignType: rec.CampaignType,
			Persona:      rec.Persona,
			CourseTitle:  rec.CourseTitle,
			BrandTone:    rec.BrandTone,
			Keywords:     rec.Keywords,
		},
		Caption:        rec.Caption,
		Hashtags:       append([]string(nil), rec.Hashtags...),
		LengthStatus:   caption.LengthStatus(rec.LengthStatus),
		CharCount:      rec.CharCount,
		CharLimit:      rec.CharLimit,
		AlignmentScore: rec.AlignmentScore,
		Seed:           uint64(rec.Seed),
		Timestamp:      rec.GeneratedAt,
	}
	if rec.ImageURL != "" {
		r.Image = &ImageResult{URL: rec.ImageURL, Attribution: rec.ImageCredit}
	}
	return r
}
