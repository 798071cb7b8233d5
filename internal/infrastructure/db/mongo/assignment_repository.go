package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bookshelf/secureapp/internal/core/domain"
)

const (
	collectionRoleAssignments = "role_assignments"
	indexAssignmentPair       = "role_assignments_pair_unique"
)

// RoleAssignmentRepository stores the account/role join relation. The unique
// pair index makes concurrent grants of the same role converge on one row.
type RoleAssignmentRepository struct {
	col *mongo.Collection
}

func NewRoleAssignmentRepository(db *mongo.Database) *RoleAssignmentRepository {
	return &RoleAssignmentRepository{col: db.Collection(collectionRoleAssignments)}
}

type assignmentDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	AccountID string             `bson:"account_id"`
	RoleID    string             `bson:"role_id"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (d *assignmentDoc) toDomain() *domain.RoleAssignment {
	return &domain.RoleAssignment{
		ID:        d.ID.Hex(),
		AccountID: d.AccountID,
		RoleID:    d.RoleID,
		CreatedAt: d.CreatedAt.UTC(),
	}
}

// Grant upserts the pair. A lost race against an identical grant is success.
func (r *RoleAssignmentRepository) Grant(ctx context.Context, accountID, roleID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"account_id": accountID, "role_id": roleID}
	update := bson.M{"$setOnInsert": bson.M{"created_at": time.Now().UTC()}}
	_, err := r.col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("grant role: %w", err)
	}
	return nil
}

// Revoke deletes the pair if present.
func (r *RoleAssignmentRepository) Revoke(ctx context.Context, accountID, roleID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.DeleteOne(ctx, bson.M{"account_id": accountID, "role_id": roleID}); err != nil {
		return fmt.Errorf("revoke role: %w", err)
	}
	return nil
}

func (r *RoleAssignmentRepository) ListByAccount(ctx context.Context, accountID string) ([]*domain.RoleAssignment, error) {
	return r.find(ctx, bson.M{"account_id": accountID})
}

func (r *RoleAssignmentRepository) ListByRole(ctx context.Context, roleID string) ([]*domain.RoleAssignment, error) {
	return r.find(ctx, bson.M{"role_id": roleID})
}

func (r *RoleAssignmentRepository) List(ctx context.Context) ([]*domain.RoleAssignment, error) {
	return r.find(ctx, bson.M{})
}

func (r *RoleAssignmentRepository) find(ctx context.Context, filter bson.M) ([]*domain.RoleAssignment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list role assignments: %w", err)
	}
	var docs []assignmentDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode role assignments: %w", err)
	}

	out := make([]*domain.RoleAssignment, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *RoleAssignmentRepository) collection() *mongo.Collection { return r.col }

func (r *RoleAssignmentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "account_id", Value: 1}, {Key: "role_id", Value: 1}},
			Options: options.Index().SetName(indexAssignmentPair).SetUnique(true),
		},
		{Keys: bson.D{{Key: "role_id", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
