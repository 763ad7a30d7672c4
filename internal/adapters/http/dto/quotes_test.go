package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/anime-quote-service/internal/app"
	"github.com/jsamuelsen/anime-quote-service/internal/domain"
)

func sampleRecord() domain.QuoteRecord {
	return domain.QuoteRecord{
		OwnerID: "U1",
		Quote: domain.Quote{
			Content:   "People's lives don't end when they die.",
			Anime:     domain.Anime{Name: "Naruto"},
			Character: domain.Character{Name: "Itachi Uchiha"},
		},
		Timestamp: time.Date(2024, 5, 1, 12, 30, 45, 123000000, time.UTC),
	}
}

func TestToQuoteRecordResponse_JSONShape(t *testing.T) {
	data, err := json.Marshal(ToQuoteRecordResponse(sampleRecord()))
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"ownerId": "U1",
		"quote": {
			"content": "People's lives don't end when they die.",
			"anime": {"name": "Naruto"},
			"character": {"name": "Itachi Uchiha"}
		},
		"timestamp": "2024-05-01T12:30:45.123Z"
	}`, string(data))
}

func TestToQuoteRecordResponse_ConvertsToUTC(t *testing.T) {
	rec := sampleRecord()
	rec.Timestamp = time.Date(2024, 5, 1, 14, 30, 45, 0, time.FixedZone("CEST", 2*60*60))

	assert.Equal(t, "2024-05-01T12:30:45.000Z", ToQuoteRecordResponse(rec).Timestamp)
}

func TestNewHistoryResponse_EmptyIsArray(t *testing.T) {
	data, err := json.Marshal(NewHistoryResponse(nil))
	require.NoError(t, err)

	assert.JSONEq(t, `{"message":"User quotes fetched successfully","quotes":[]}`, string(data))
}

func TestNewHistoryResponse_KeepsOrder(t *testing.T) {
	newer := sampleRecord()
	older := sampleRecord()
	older.Quote.Content = "older"
	older.Timestamp = newer.Timestamp.Add(-time.Hour)

	resp := NewHistoryResponse([]domain.QuoteRecord{newer, older})

	require.Len(t, resp.Quotes, 2)
	assert.Equal(t, "older", resp.Quotes[1].Quote.Content)
}

func TestNewSaveQuoteResponse(t *testing.T) {
	resp := NewSaveQuoteResponse(&app.SaveResult{Record: sampleRecord(), OwnerID: "U1"})

	assert.Equal(t, MessageQuoteSaved, resp.Message)
	assert.Equal(t, "U1", resp.OwnerID)
	assert.Equal(t, "Naruto", resp.SavedQuote.Quote.Anime.Name)
}

func TestNewRandomQuoteResponse(t *testing.T) {
	payload := domain.QuotePayload{"content": "x", "anime": map[string]any{"id": 1.0, "name": "Naruto"}}

	resp := NewRandomQuoteResponse(&app.FetchResult{
		Payload: payload,
		OwnerID: "U1",
		Persist: app.PersistFailed,
		Warning: app.PersistWarning,
	})

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"quote": {"content": "x", "anime": {"id": 1, "name": "Naruto"}},
		"ownerId": "U1",
		"persisted": "failed",
		"warning": "`+app.PersistWarning+`"
	}`, string(data))
}

func TestNewRandomQuoteResponse_NoWarningWhenSaved(t *testing.T) {
	data, err := json.Marshal(NewRandomQuoteResponse(&app.FetchResult{OwnerID: "U1", Persist: app.PersistSaved}))
	require.NoError(t, err)

	assert.NotContains(t, string(data), "warning")
}
