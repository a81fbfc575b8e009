package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/content-synth/internal/catalog"
	"github.com/content-synth/internal/models"
)

// TimestampLayout is the timestamp format used in exports
const TimestampLayout = "2006-01-02 15:04:05"

// Header is the CSV column order
var Header = []string{
	"Timestamp",
	"Platform",
	"Persona",
	"Campaign",
	"Caption",
	"Hashtags",
	"Character Count",
	"Brand Tone",
}

// Row renders one result as a CSV row
func Row(r *models.GenerationResult) []string {
	return []string{
		r.Timestamp.Format(TimestampLayout),
		r.Request.Platform,
		orNA(r.Request.Persona),
		orNA(r.Request.CampaignType),
		r.Caption,
		r.HashtagLine(),
		r.CharCountLabel(),
		orNA(r.Request.BrandTone),
	}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func fromNA(s string) string {
	if s == "N/A" {
		return ""
	}
	return s
}

// WriteCSV writes the header and one row per result
func WriteCSV(w io.Writer, results []*models.GenerationResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range results {
		if err := cw.Write(Row(r)); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a file written by WriteCSV. Fields not present in the
// export (IDs, scores, seeds) are left zero.
func ReadCSV(r io.Reader) ([]*models.GenerationResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)

	head, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: export has no header", models.ErrEmptyInput)
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	for i, col := range Header {
		if head[i] != col {
			return nil, fmt.Errorf("unexpected column %q at position %d, want %q", head[i], i, col)
		}
	}

	var results []*models.GenerationResult
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		res, err := parseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		results = append(results, res)
	}
	return results, nil
}

func parseRow(rec []string) (*models.GenerationResult, error) {
	ts, err := time.Parse(TimestampLayout, rec[0])
	if err != nil {
		return nil, fmt.Errorf("invalid timestamp: %w", err)
	}

	count, limit, err := parseCharCount(rec[6])
	if err != nil {
		return nil, err
	}

	return &models.GenerationResult{
		Request: models.CampaignRequest{
			Platform:     rec[1],
			Persona:      fromNA(rec[2]),
			CampaignType: fromNA(rec[3]),
			BrandTone:    fromNA(rec[7]),
		},
		Caption:   rec[4],
		Hashtags:  strings.Fields(rec[5]),
		CharCount: count,
		CharLimit: limit,
		Timestamp: ts,
	}, nil
}

func parseCharCount(s string) (int, int, error) {
	countStr, limitStr, ok := strings.Cut(s, "/")
	if !ok {
		return 0, 0, fmt.Errorf("invalid character count %q", s)
	}
	count, err := strconv.Atoi(countStr)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid character count %q: %w", s, err)
	}
	limit, err := strconv.Atoi(limitStr)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid character limit %q: %w", s, err)
	}
	return count, limit, nil
}

// TextReport renders a single result as a plain-text report with the persona insights used
func TextReport(r *models.GenerationResult, persona catalog.Persona) string {
	var b strings.Builder

	b.WriteString("=== CONTENT SYNTH - GENERATED CAPTION ===\n\n")
	fmt.Fprintf(&b, "Platform: %s\n", r.Request.Platform)
	if r.Request.CampaignType != "" {
		fmt.Fprintf(&b, "Campaign: %s\n", r.Request.CampaignType)
	}
	fmt.Fprintf(&b, "Course/Event: %s\n", r.Request.CourseTitle)
	fmt.Fprintf(&b, "Generated: %s\n", r.Timestamp.Format(TimestampLayout))
	fmt.Fprintf(&b, "Character Count: %s (%s)\n", r.CharCountLabel(), r.LengthStatus)
	if r.AlignmentScore > 0 {
		fmt.Fprintf(&b, "Brand Alignment: %d/100\n", r.AlignmentScore)
	}

	fmt.Fprintf(&b, "\nTARGET PERSONA: %s\n", orNA(persona.Name))
	fmt.Fprintf(&b, "Description: %s\n", persona.Description)
	fmt.Fprintf(&b, "Demographics: %s\n", persona.Demographics)

	fmt.Fprintf(&b, "\nCAPTION:\n%s\n", r.Caption)
	fmt.Fprintf(&b, "\nHASHTAGS:\n%s\n", r.HashtagLine())

	if r.Image != nil {
		fmt.Fprintf(&b, "\nIMAGE:\n%s\n%s\n", r.Image.URL, r.Image.Attribution)
	}

	b.WriteString("\nPERSONA INSIGHTS APPLIED:\n")
	fmt.Fprintf(&b, "- Messaging Style: %s\n", persona.MessagingStyle)
	fmt.Fprintf(&b, "- Key Benefits: %s\n", persona.KeyBenefits)
	fmt.Fprintf(&b, "- CTA Style: %s\n", persona.CTAStyle)

	b.WriteString("\n=========================================\n")
	return b.String()
}
