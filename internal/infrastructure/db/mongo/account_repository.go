package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bookshelf/secureapp/internal/core/domain"
)

const collectionAccounts = "accounts"

const (
	indexAccountEmail      = "accounts_email_unique"
	indexAccountUsername   = "accounts_username_unique"
	indexAccountUniquifier = "accounts_fs_uniquifier_unique"
)

var accountUniqueIndexes = map[string]string{
	indexAccountEmail:      "email",
	indexAccountUsername:   "username",
	indexAccountUniquifier: "fs_uniquifier",
}

type AccountRepository struct {
	col *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{col: db.Collection(collectionAccounts)}
}

type accountDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Email          string             `bson:"email"`
	Username       *string            `bson:"username,omitempty"`
	PasswordHash   string             `bson:"password_hash"`
	Active         bool               `bson:"active"`
	LastLoginAt    *time.Time         `bson:"last_login_at,omitempty"`
	CurrentLoginAt *time.Time         `bson:"current_login_at,omitempty"`
	LastLoginIP    string             `bson:"last_login_ip,omitempty"`
	CurrentLoginIP string             `bson:"current_login_ip,omitempty"`
	LoginCount     int                `bson:"login_count"`
	Uniquifier     string             `bson:"fs_uniquifier"`
	ConfirmedAt    *time.Time         `bson:"confirmed_at,omitempty"`
	CreatedAt      time.Time          `bson:"created_at"`
}

func (d *accountDoc) toDomain() *domain.Account {
	return &domain.Account{
		ID:             d.ID.Hex(),
		Email:          d.Email,
		Username:       d.Username,
		PasswordHash:   d.PasswordHash,
		Active:         d.Active,
		LastLoginAt:    utcPtr(d.LastLoginAt),
		CurrentLoginAt: utcPtr(d.CurrentLoginAt),
		LastLoginIP:    d.LastLoginIP,
		CurrentLoginIP: d.CurrentLoginIP,
		LoginCount:     d.LoginCount,
		Uniquifier:     d.Uniquifier,
		ConfirmedAt:    utcPtr(d.ConfirmedAt),
		CreatedAt:      d.CreatedAt.UTC(),
	}
}

func (r *AccountRepository) Create(ctx context.Context, a *domain.Account) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := accountDoc{
		Email:          a.Email,
		Username:       a.Username,
		PasswordHash:   a.PasswordHash,
		Active:         a.Active,
		LastLoginAt:    a.LastLoginAt,
		CurrentLoginAt: a.CurrentLoginAt,
		LastLoginIP:    a.LastLoginIP,
		CurrentLoginIP: a.CurrentLoginIP,
		LoginCount:     a.LoginCount,
		Uniquifier:     a.Uniquifier,
		ConfirmedAt:    a.ConfirmedAt,
		CreatedAt:      a.CreatedAt.UTC(),
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, &domain.DuplicateIdentityError{Field: duplicateField(err, accountUniqueIndexes)}
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *AccountRepository) findOne(ctx context.Context, filter bson.M) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc accountDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *AccountRepository) FindByUsername(ctx context.Context, username string) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *AccountRepository) FindByUniquifier(ctx context.Context, token string) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"fs_uniquifier": token})
}

// FindByIDs returns the accounts in the order of ids.
func (r *AccountRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Account, error) {
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return []*domain.Account{}, nil
	}
	found, err := r.find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*domain.Account, len(found))
	for _, a := range found {
		byID[a.ID] = a
	}
	out := make([]*domain.Account, 0, len(found))
	for _, id := range ids {
		if a, ok := byID[id]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

// List returns every account in insertion order.
func (r *AccountRepository) List(ctx context.Context) ([]*domain.Account, error) {
	return r.find(ctx, bson.M{})
}

func (r *AccountRepository) find(ctx context.Context, filter bson.M) ([]*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	var docs []accountDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode accounts: %w", err)
	}

	out := make([]*domain.Account, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

// UpdateLoginTelemetry persists the login tracking fields only.
func (r *AccountRepository) UpdateLoginTelemetry(ctx context.Context, a *domain.Account) error {
	oid, ok := objectID(a.ID)
	if !ok {
		return domain.ErrAccountNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"last_login_at":    a.LastLoginAt,
		"current_login_at": a.CurrentLoginAt,
		"last_login_ip":    a.LastLoginIP,
		"current_login_ip": a.CurrentLoginIP,
		"login_count":      a.LoginCount,
	}})
	if err != nil {
		return fmt.Errorf("update login telemetry: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (r *AccountRepository) collection() *mongo.Collection { return r.col }

// EnsureIndexes creates the unique identity indexes. Username is optional, so
// its index only covers documents that carry one.
func (r *AccountRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName(indexAccountEmail).SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetName(indexAccountUsername).SetUnique(true).
				SetPartialFilterExpression(bson.M{"username": bson.M{"$type": "string"}}),
		},
		{
			Keys:    bson.D{{Key: "fs_uniquifier", Value: 1}},
			Options: options.Index().SetName(indexAccountUniquifier).SetUnique(true),
		},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
