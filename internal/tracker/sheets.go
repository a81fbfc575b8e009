package tracker

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/content-synth/internal/config"
	"github.com/content-synth/internal/export"
	"github.com/content-synth/internal/models"
	"github.com/content-synth/internal/storage"
	"github.com/content-synth/pkg/logger"
	"github.com/content-synth/pkg/ratelimit"
)

// SheetColumns extends the CSV export columns with the fields a reviewer needs in the sheet
var SheetColumns = append(append([]string{}, export.Header...),
	"Length Status",
	"Brand Alignment",
	"Image URL",
	"Session ID",
	"Result ID",
)

// lastColumn is the sheet column letter of the final header
var lastColumn = string(rune('A' + len(SheetColumns) - 1))

// SheetsTracker appends generated captions to a Google Sheet for review
type SheetsTracker struct {
	service       *sheets.Service
	spreadsheetID string
	sheetName     string
	rateLimiter   *ratelimit.MultiLimiter
	log           *logger.Logger
}

// NewSheetsTracker creates a tracker from configuration. It returns nil when the tracker is disabled.
func NewSheetsTracker(ctx context.Context, cfg config.TrackerConfig, limiter *ratelimit.MultiLimiter, log *logger.Logger) (*SheetsTracker, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	credentials := []byte(cfg.ServiceAccountJSON)
	if len(credentials) == 0 {
		if cfg.CredentialsFile == "" {
			return nil, fmt.Errorf("%w: set tracker.credentials_file or tracker.service_account_json", models.ErrConfigurationMissing)
		}
		data, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read credentials file: %w", err)
		}
		credentials = data
	}

	jwtCfg, err := google.JWTConfigFromJSON(credentials, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("invalid service account credentials: %w", err)
	}

	srv, err := sheets.NewService(ctx, option.WithTokenSource(jwtCfg.TokenSource(ctx)))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return NewWithService(srv, cfg.SpreadsheetID, cfg.SheetName, limiter, log), nil
}

// NewWithService wraps an existing Sheets service
func NewWithService(srv *sheets.Service, spreadsheetID, sheetName string, limiter *ratelimit.MultiLimiter, log *logger.Logger) *SheetsTracker {
	if sheetName == "" {
		sheetName = "Generations"
	}
	if limiter == nil {
		limiter = ratelimit.NewDefaultLimiter()
	}
	return &SheetsTracker{
		service:       srv,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
		rateLimiter:   limiter,
		log:           log.WithComponent("sheets-tracker"),
	}
}

func (t *SheetsTracker) wait(ctx context.Context) error {
	if err := t.rateLimiter.Wait(ctx, ratelimit.LimiterSheets); err != nil {
		return fmt.Errorf("rate limit error: %w", err)
	}
	return nil
}

// InitializeSheet creates the sheet and headers if they don't exist
func (t *SheetsTracker) InitializeSheet(ctx context.Context) error {
	if err := t.ensureSheetExists(ctx); err != nil {
		return err
	}

	if err := t.wait(ctx); err != nil {
		return err
	}
	readRange := fmt.Sprintf("%s!A1:%s1", t.sheetName, lastColumn)
	resp, err := t.service.Spreadsheets.Values.Get(t.spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to read sheet: %w", err)
	}

	if len(resp.Values) == 0 {
		t.log.Info().Msg("Initializing sheet with headers")
		return t.writeHeaders(ctx)
	}

	t.log.Debug().Msg("Sheet already has headers")
	return nil
}

// ensureSheetExists creates the sheet if it doesn't exist
func (t *SheetsTracker) ensureSheetExists(ctx context.Context) error {
	if err := t.wait(ctx); err != nil {
		return err
	}
	spreadsheet, err := t.service.Spreadsheets.Get(t.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == t.sheetName {
			t.log.Debug().Str("sheet", t.sheetName).Msg("Sheet already exists")
			return nil
		}
	}

	t.log.Info().Str("sheet", t.sheetName).Msg("Creating new sheet")
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{
				AddSheet: &sheets.AddSheetRequest{
					Properties: &sheets.SheetProperties{
						Title: t.sheetName,
					},
				},
			},
		},
	}

	if err := t.wait(ctx); err != nil {
		return err
	}
	if _, err := t.service.Spreadsheets.BatchUpdate(t.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	return nil
}

// writeHeaders writes column headers to the first row
func (t *SheetsTracker) writeHeaders(ctx context.Context) error {
	var headerRow []interface{}
	for _, col := range SheetColumns {
		headerRow = append(headerRow, col)
	}

	if err := t.wait(ctx); err != nil {
		return err
	}
	writeRange := fmt.Sprintf("%s!A1", t.sheetName)
	valueRange := &sheets.ValueRange{
		Values: [][]interface{}{headerRow},
	}

	_, err := t.service.Spreadsheets.Values.Update(t.spreadsheetID, writeRange, valueRange).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	t.log.Info().Msg("Sheet headers initialized")
	return nil
}

// AppendRecords adds one row per record in a single API call
func (t *SheetsTracker) AppendRecords(ctx context.Context, records []*models.GenerationRecord) error {
	if len(records) == 0 {
		return nil
	}

	rows := make([][]interface{}, 0, len(records))
	for _, rec := range records {
		rows = append(rows, recordToRow(rec))
	}

	if err := t.wait(ctx); err != nil {
		return err
	}
	appendRange := fmt.Sprintf("%s!A:%s", t.sheetName, lastColumn)
	valueRange := &sheets.ValueRange{
		Values: rows,
	}

	_, err := t.service.Spreadsheets.Values.Append(t.spreadsheetID, appendRange, valueRange).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to append rows: %w", err)
	}

	t.log.Info().Int("count", len(rows)).Msg("Appended generations to tracker")
	return nil
}

// SyncPending appends every record the repository has not yet tracked and marks them.
// It returns the number of records synced.
func (t *SheetsTracker) SyncPending(ctx context.Context, repo storage.Repository, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = 100
	}

	synced := 0
	for {
		pending, err := repo.ListUntracked(ctx, batchSize)
		if err != nil {
			return synced, fmt.Errorf("failed to list untracked generations: %w", err)
		}
		if len(pending) == 0 {
			break
		}

		if err := t.AppendRecords(ctx, pending); err != nil {
			return synced, err
		}

		ids := make([]uint, len(pending))
		for i, rec := range pending {
			ids[i] = rec.ID
		}
		if err := repo.MarkTracked(ctx, ids); err != nil {
			return synced, fmt.Errorf("failed to mark generations tracked: %w", err)
		}
		synced += len(pending)

		if len(pending) < batchSize {
			break
		}
	}

	if synced > 0 {
		t.log.Info().Int("synced", synced).Msg("Tracker sync completed")
	}
	return synced, nil
}

// recordToRow renders a record in SheetColumns order
func recordToRow(rec *models.GenerationRecord) []interface{} {
	cells := export.Row(rec.Result())
	row := make([]interface{}, 0, len(SheetColumns))
	for _, c := range cells {
		row = append(row, c)
	}
	return append(row,
		rec.LengthStatus,
		rec.AlignmentScore,
		rec.ImageURL,
		rec.SessionID,
		rec.ResultID,
	)
}
