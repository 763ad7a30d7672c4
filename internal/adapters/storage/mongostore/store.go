package mongostore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jsamuelsen/anime-quote-service/internal/domain"
)

const (
	fieldOwnerID   = "ownerId"
	fieldTimestamp = "timestamp"
)

// Connector hands out the shared client. *ConnectionCache implements it.
type Connector interface {
	Acquire(ctx context.Context) (*mongo.Client, error)
}

// quoteDocument is the stored shape of a domain.QuoteRecord.
type quoteDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	OwnerID   string             `bson:"ownerId"`
	Quote     quoteBody          `bson:"quote"`
	Timestamp time.Time          `bson:"timestamp"`
}

type quoteBody struct {
	Content   string       `bson:"content"`
	Anime     animeDoc     `bson:"anime"`
	Character characterDoc `bson:"character"`
}

type animeDoc struct {
	Name    string `bson:"name"`
	AltName string `bson:"altName,omitempty"`
}

type characterDoc struct {
	Name string `bson:"name"`
}

func toDocument(rec *domain.QuoteRecord) quoteDocument {
	return quoteDocument{
		OwnerID: rec.OwnerID,
		Quote: quoteBody{
			Content:   rec.Quote.Content,
			Anime:     animeDoc{Name: rec.Quote.Anime.Name, AltName: rec.Quote.Anime.AltName},
			Character: characterDoc{Name: rec.Quote.Character.Name},
		},
		Timestamp: rec.Timestamp,
	}
}

func (d *quoteDocument) toDomain() domain.QuoteRecord {
	return domain.QuoteRecord{
		OwnerID: d.OwnerID,
		Quote: domain.Quote{
			Content:   d.Quote.Content,
			Anime:     domain.Anime{Name: d.Quote.Anime.Name, AltName: d.Quote.Anime.AltName},
			Character: domain.Character{Name: d.Quote.Character.Name},
		},
		Timestamp: d.Timestamp.UTC(),
	}
}

// StoreConfig configures a QuoteStore.
type StoreConfig struct {
	Database   string
	Collection string
	Logger     *slog.Logger

	// Now stamps inserts. Defaults to time.Now.
	Now func() time.Time
}

// QuoteStore implements ports.QuoteStore on a MongoDB collection.
type QuoteStore struct {
	conns      Connector
	database   string
	collection string
	now        func() time.Time
	logger     *slog.Logger
}

// NewQuoteStore creates a store that acquires its client from conns.
func NewQuoteStore(conns Connector, cfg StoreConfig) *QuoteStore {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &QuoteStore{
		conns:      conns,
		database:   cfg.Database,
		collection: cfg.Collection,
		now:        now,
		logger:     logger.With(slog.String("component", "mongostore.QuoteStore")),
	}
}

// Insert stores rec. An unset timestamp is stamped with the current time,
// truncated to the millisecond precision MongoDB keeps.
func (s *QuoteStore) Insert(ctx context.Context, rec *domain.QuoteRecord) error {
	if rec == nil || rec.OwnerID == "" {
		return domain.NewMissingParameterError("ownerId")
	}

	if rec.Timestamp.IsZero() {
		rec.Timestamp = s.now().UTC().Truncate(time.Millisecond)
	}

	coll, err := s.coll(ctx)
	if err != nil {
		return err
	}

	if _, err := coll.InsertOne(ctx, toDocument(rec)); err != nil {
		return classify("insert", err)
	}

	return nil
}

// RecentByOwner returns up to limit records for owner, newest first.
// A limit of zero or less returns every record.
func (s *QuoteStore) RecentByOwner(ctx context.Context, owner string, limit int) ([]domain.QuoteRecord, error) {
	if owner == "" {
		return nil, domain.NewMissingParameterError("owner")
	}

	coll, err := s.coll(ctx)
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: fieldTimestamp, Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := coll.Find(ctx, bson.M{fieldOwnerID: owner}, opts)
	if err != nil {
		return nil, classify("find", err)
	}
	defer func() { _ = cursor.Close(ctx) }()

	var docs []quoteDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, classify("decode", err)
	}

	records := make([]domain.QuoteRecord, 0, len(docs))
	for i := range docs {
		records = append(records, docs[i].toDomain())
	}

	return records, nil
}

func (s *QuoteStore) coll(ctx context.Context) (*mongo.Collection, error) {
	client, err := s.conns.Acquire(ctx)
	if err != nil {
		return nil, err
	}

	return client.Database(s.database).Collection(s.collection), nil
}

// classify maps driver failures. Connectivity problems and deadlines mean
// the store is unavailable; anything else is a plain wrapped error.
func classify(operation string, err error) error {
	switch {
	case mongo.IsNetworkError(err),
		mongo.IsTimeout(err),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled),
		errors.Is(err, mongo.ErrClientDisconnected):
		return domain.NewStoreUnavailableError(operation, err)
	default:
		return fmt.Errorf("mongo %s: %w", operation, err)
	}
}
