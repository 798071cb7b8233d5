package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

// Transactor runs units of work inside a MongoDB multi-document transaction.
// Transactions need a replica set; with enabled=false fn runs directly
// against the database.
type Transactor struct {
	client  *mongo.Client
	enabled bool
}

func NewTransactor(client *mongo.Client, enabled bool) *Transactor {
	return &Transactor{client: client, enabled: enabled}
}

func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if !t.enabled {
		return fn(ctx)
	}

	sess, err := t.client.StartSession()
	if err != nil {
		return fmt.Errorf("start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
