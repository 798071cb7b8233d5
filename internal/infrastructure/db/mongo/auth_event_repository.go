package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/bookshelf/secureapp/internal/core/domain"
)

const collectionAuthEvents = "auth_events"

// AuthEventRepository persists the authentication audit trail.
type AuthEventRepository struct {
	col *mongo.Collection
}

func NewAuthEventRepository(db *mongo.Database) *AuthEventRepository {
	return &AuthEventRepository{col: db.Collection(collectionAuthEvents)}
}

// Insert appends event to the auth_events collection.
func (r *AuthEventRepository) Insert(ctx context.Context, event *domain.AuthEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"kind":        string(event.Kind),
		"at":          event.At.UTC(),
		"recorded_at": time.Now().UTC(),
	}
	if event.Identifier != "" {
		doc["identifier"] = event.Identifier
	}
	if event.Subject != "" {
		doc["subject"] = event.Subject
	}
	if event.RemoteAddr != "" {
		doc["remote_addr"] = event.RemoteAddr
	}

	_, err := r.col.InsertOne(ctx, doc)
	return err
}

func (r *AuthEventRepository) collection() *mongo.Collection { return r.col }

func (r *AuthEventRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "subject", Value: 1}, {Key: "at", Value: -1}}},
		{Keys: bson.D{{Key: "kind", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
