package dto

import (
	"github.com/jsamuelsen/anime-quote-service/internal/app"
	"github.com/jsamuelsen/anime-quote-service/internal/domain"
)

// Success messages.
const (
	MessageQuoteSaved     = "Quote saved successfully"
	MessageHistoryFetched = "User quotes fetched successfully"
)

// Owner identities are indexed by the store, so their length is bounded.
// Keep the max rules below in step with this value.
const MaxOwnerIDLength = 256

// timestampLayout is RFC 3339 with milliseconds, the precision the store keeps.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// HistoryRequest holds the query parameters of GET /history.
// Owner presence is checked by the service so that a missing owner is
// reported as MISSING_PARAMETER.
type HistoryRequest struct {
	Owner string `form:"owner" validate:"max=256"`

	// Limit of zero means the configured default. Larger limits are capped
	// by the service; negative ones are rejected.
	Limit int `form:"limit" validate:"min=0"`
}

// SaveQuoteRequest is the body of POST /quotes.
type SaveQuoteRequest struct {
	QuoteData domain.QuotePayload `json:"quoteData"`
	OwnerID   string              `json:"ownerId"   validate:"max=256"`
}

// RandomQuoteRequest holds the query parameters of GET /quotes/random.
type RandomQuoteRequest struct {
	OwnerID string `form:"ownerId" validate:"max=256"`
}

// AnimeResponse is the work a quote comes from.
type AnimeResponse struct {
	Name    string `json:"name"`
	AltName string `json:"altName,omitempty"`
}

// CharacterResponse is the speaker of a quote.
type CharacterResponse struct {
	Name string `json:"name"`
}

// QuoteResponse is the typed view of a quote.
type QuoteResponse struct {
	Content   string            `json:"content"`
	Anime     AnimeResponse     `json:"anime"`
	Character CharacterResponse `json:"character"`
}

// QuoteRecordResponse is a stored quote as returned to clients.
type QuoteRecordResponse struct {
	OwnerID   string        `json:"ownerId"`
	Quote     QuoteResponse `json:"quote"`
	Timestamp string        `json:"timestamp"`
}

// HistoryResponse is the body of a successful GET /history.
type HistoryResponse struct {
	Message string                `json:"message"`
	Quotes  []QuoteRecordResponse `json:"quotes"`
}

// SaveQuoteResponse is the body of a successful POST /quotes.
type SaveQuoteResponse struct {
	Message    string              `json:"message"`
	SavedQuote QuoteRecordResponse `json:"savedQuote"`
	OwnerID    string              `json:"ownerId"`
}

// RandomQuoteResponse is the body of a successful GET /quotes/random.
// Quote is the payload exactly as the source returned it.
type RandomQuoteResponse struct {
	Quote     domain.QuotePayload `json:"quote"`
	OwnerID   string              `json:"ownerId"`
	Persisted string              `json:"persisted"`
	Warning   string              `json:"warning,omitempty"`
}

// ToQuoteResponse converts a domain quote.
func ToQuoteResponse(q domain.Quote) QuoteResponse {
	return QuoteResponse{
		Content:   q.Content,
		Anime:     AnimeResponse{Name: q.Anime.Name, AltName: q.Anime.AltName},
		Character: CharacterResponse{Name: q.Character.Name},
	}
}

// ToQuoteRecordResponse converts a domain record. Timestamps are RFC 3339
// in UTC with millisecond precision.
func ToQuoteRecordResponse(rec domain.QuoteRecord) QuoteRecordResponse {
	return QuoteRecordResponse{
		OwnerID:   rec.OwnerID,
		Quote:     ToQuoteResponse(rec.Quote),
		Timestamp: rec.Timestamp.UTC().Format(timestampLayout),
	}
}

// NewHistoryResponse converts records, keeping their order. The quotes
// array is never null.
func NewHistoryResponse(records []domain.QuoteRecord) HistoryResponse {
	quotes := make([]QuoteRecordResponse, 0, len(records))
	for _, rec := range records {
		quotes = append(quotes, ToQuoteRecordResponse(rec))
	}

	return HistoryResponse{Message: MessageHistoryFetched, Quotes: quotes}
}

// NewSaveQuoteResponse builds the save response.
func NewSaveQuoteResponse(result *app.SaveResult) SaveQuoteResponse {
	return SaveQuoteResponse{
		Message:    MessageQuoteSaved,
		SavedQuote: ToQuoteRecordResponse(result.Record),
		OwnerID:    result.OwnerID,
	}
}

// NewRandomQuoteResponse builds the fetch-and-persist response.
func NewRandomQuoteResponse(result *app.FetchResult) RandomQuoteResponse {
	return RandomQuoteResponse{
		Quote:     result.Payload,
		OwnerID:   result.OwnerID,
		Persisted: string(result.Persist),
		Warning:   result.Warning,
	}
}
