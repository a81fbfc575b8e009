package tracker

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/content-synth/internal/config"
	"github.com/content-synth/internal/models"
	"github.com/content-synth/internal/storage"
	"github.com/content-synth/pkg/logger"
	"github.com/content-synth/pkg/ratelimit"
)

func sampleRecord(id uint, resultID string) *models.GenerationRecord {
	rec := models.NewRecord("sess-1", &models.GenerationResult{
		ID: resultID,
		Request: models.CampaignRequest{
			Platform:     "TikTok",
			CampaignType: "Sports Challenge",
			Persona:      "Competitive Athlete",
			BrandTone:    "Casual",
		},
		Caption:        "Show up strong 💪",
		Hashtags:       []string{"#sports", "#viral"},
		LengthStatus:   "good",
		CharCount:      17,
		CharLimit:      150,
		AlignmentScore: 90,
		Timestamp:      time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC),
	})
	rec.ID = id
	return rec
}

func TestRecordToRow(t *testing.T) {
	row := recordToRow(sampleRecord(1, "res-1"))

	require.Len(t, row, len(SheetColumns))
	assert.Equal(t, "2025-05-01 12:00:00", row[0])
	assert.Equal(t, "Competitive Athlete", row[2])
	assert.Equal(t, "#sports #viral", row[5])
	assert.Equal(t, "17/150", row[6])
	assert.Equal(t, "good", row[8])
	assert.Equal(t, 90, row[9])
	assert.Equal(t, "res-1", row[12])
	assert.Equal(t, "M", lastColumn)
}

func TestNewSheetsTrackerDisabled(t *testing.T) {
	tr, err := NewSheetsTracker(context.Background(), config.TrackerConfig{}, nil, logger.Nop())
	assert.NoError(t, err)
	assert.Nil(t, tr)

	_, err = NewSheetsTracker(context.Background(), config.TrackerConfig{Enabled: true}, nil, logger.Nop())
	assert.ErrorIs(t, err, models.ErrConfigurationMissing)

	_, err = NewSheetsTracker(context.Background(), config.TrackerConfig{Enabled: true, ServiceAccountJSON: "not json"}, nil, logger.Nop())
	assert.Error(t, err)
}

type fakeRepo struct {
	storage.Repository

	mu      sync.Mutex
	records []*models.GenerationRecord
}

func (f *fakeRepo) ListUntracked(_ context.Context, limit int) ([]*models.GenerationRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.GenerationRecord
	for _, r := range f.records {
		if !r.Tracked {
			out = append(out, r)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeRepo) MarkTracked(_ context.Context, ids []uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range ids {
		for _, r := range f.records {
			if r.ID == id {
				r.Tracked = true
			}
		}
	}
	return nil
}

func newFakeSheets(t *testing.T, appended *[][]interface{}) *sheets.Service {
	t.Helper()
	var mu sync.Mutex
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, ":append") {
			http.NotFound(w, r)
			return
		}
		var body sheets.ValueRange
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		mu.Lock()
		*appended = append(*appended, body.Values...)
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"spreadsheetId":"sheet-1"}`))
	}))
	t.Cleanup(srv.Close)

	svc, err := sheets.NewService(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
	)
	require.NoError(t, err)
	return svc
}

func TestSyncPending(t *testing.T) {
	var appended [][]interface{}
	svc := newFakeSheets(t, &appended)
	tr := NewWithService(svc, "sheet-1", "", ratelimit.New(ratelimit.Limits{SheetsPerMinute: 6000}), logger.Nop())

	repo := &fakeRepo{records: []*models.GenerationRecord{
		sampleRecord(1, "a"), sampleRecord(2, "b"), sampleRecord(3, "c"),
	}}

	n, err := tr.SyncPending(context.Background(), repo, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	require.Len(t, appended, 3)
	assert.Equal(t, "c", appended[2][12])

	n, err = tr.SyncPending(context.Background(), repo, 2)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestAppendRecordsEmpty(t *testing.T) {
	tr := NewWithService(nil, "sheet-1", "Custom", nil, logger.Nop())
	assert.NoError(t, tr.AppendRecords(context.Background(), nil))
	assert.Equal(t, "Custom", tr.sheetName)
}
