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

const collectionBooks = "books"

type BookRepository struct {
	col *mongo.Collection
}

func NewBookRepository(db *mongo.Database) *BookRepository {
	return &BookRepository{col: db.Collection(collectionBooks)}
}

type bookDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	ReleaseDate time.Time          `bson:"release_date"`
}

func (d *bookDoc) toDomain() *domain.Book {
	return &domain.Book{ID: d.ID.Hex(), Title: d.Title, ReleaseDate: d.ReleaseDate.UTC()}
}

func (r *BookRepository) Create(ctx context.Context, b *domain.Book) (*domain.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bookDoc{Title: b.Title, ReleaseDate: b.ReleaseDate.UTC()}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert book: %w", err)
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *BookRepository) FindByID(ctx context.Context, id string) (*domain.Book, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrBookNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc bookDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrBookNotFound
		}
		return nil, fmt.Errorf("find book: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *BookRepository) List(ctx context.Context) ([]*domain.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	var docs []bookDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode books: %w", err)
	}

	out := make([]*domain.Book, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *BookRepository) Update(ctx context.Context, b *domain.Book) error {
	oid, ok := objectID(b.ID)
	if !ok {
		return domain.ErrBookNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"title":        b.Title,
		"release_date": b.ReleaseDate.UTC(),
	}})
	if err != nil {
		return fmt.Errorf("update book: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrBookNotFound
	}
	return nil
}

func (r *BookRepository) Delete(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrBookNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrBookNotFound
	}
	return nil
}

func (r *BookRepository) collection() *mongo.Collection { return r.col }

func (r *BookRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "title", Value: 1}}})
	return err
}
