// Package domain contains core business entities and rules.
package domain

import "time"

// QuotePayload is the quote exactly as the upstream source described it.
// Its shape is trusted but not enforced; use QuoteFromPayload to read the
// fields this service cares about.
type QuotePayload map[string]any

// Anime names the work a quote comes from.
type Anime struct {
	Name    string
	AltName string
}

// Character names who said the quote.
type Character struct {
	Name string
}

// Quote is the narrow, typed view of a quote payload.
// Every field may be empty when the upstream payload omitted it.
type Quote struct {
	Content   string
	Anime     Anime
	Character Character
}

// QuoteRecord is one persisted quote owned by an anonymous identity.
// Records are immutable once written.
type QuoteRecord struct {
	OwnerID   string
	Quote     Quote
	Timestamp time.Time
}

// QuoteFromPayload extracts the typed view from a semi-structured payload.
// Missing or mistyped fields are left empty rather than rejected.
func QuoteFromPayload(p QuotePayload) Quote {
	anime := p.object("anime")
	character := p.object("character")

	return Quote{
		Content: p.str("content"),
		Anime: Anime{
			Name:    anime.str("name"),
			AltName: anime.str("altName"),
		},
		Character: Character{
			Name: character.str("name"),
		},
	}
}

// str returns the string value at key, or "" when absent or not a string.
func (p QuotePayload) str(key string) string {
	if p == nil {
		return ""
	}

	s, _ := p[key].(string)

	return s
}

// object returns the nested object at key, or nil when absent.
func (p QuotePayload) object(key string) QuotePayload {
	if p == nil {
		return nil
	}

	switch v := p[key].(type) {
	case map[string]any:
		return v
	case QuotePayload:
		return v
	default:
		return nil
	}
}
