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

const (
	collectionRoles = "roles"
	indexRoleName   = "roles_name_unique"
)

type RoleRepository struct {
	col *mongo.Collection
}

func NewRoleRepository(db *mongo.Database) *RoleRepository {
	return &RoleRepository{col: db.Collection(collectionRoles)}
}

type roleDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description"`
	Permissions string             `bson:"permissions,omitempty"`
}

func (d *roleDoc) toDomain() *domain.Role {
	return &domain.Role{ID: d.ID.Hex(), Name: d.Name, Description: d.Description, Permissions: d.Permissions}
}

func (r *RoleRepository) Create(ctx context.Context, role *domain.Role) (*domain.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := roleDoc{Name: role.Name, Description: role.Description, Permissions: role.Permissions}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, &domain.DuplicateIdentityError{Field: "name"}
		}
		return nil, fmt.Errorf("insert role: %w", err)
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *RoleRepository) FindByName(ctx context.Context, name string) (*domain.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc roleDoc
	if err := r.col.FindOne(ctx, bson.M{"name": name}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, fmt.Errorf("find role: %w", err)
	}
	return doc.toDomain(), nil
}

// FindByIDs returns the roles in the order of ids.
func (r *RoleRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Role, error) {
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return []*domain.Role{}, nil
	}
	found, err := r.find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*domain.Role, len(found))
	for _, role := range found {
		byID[role.ID] = role
	}
	out := make([]*domain.Role, 0, len(found))
	for _, id := range ids {
		if role, ok := byID[id]; ok {
			out = append(out, role)
		}
	}
	return out, nil
}

func (r *RoleRepository) List(ctx context.Context) ([]*domain.Role, error) {
	return r.find(ctx, bson.M{})
}

func (r *RoleRepository) find(ctx context.Context, filter bson.M) ([]*domain.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	var docs []roleDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode roles: %w", err)
	}

	out := make([]*domain.Role, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *RoleRepository) collection() *mongo.Collection { return r.col }

func (r *RoleRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetName(indexRoleName).SetUnique(true),
	})
	return err
}
