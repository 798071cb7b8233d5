package cmd

import (
	"context"
	"fmt"

	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/bookshelf/secureapp/internal/infrastructure/db/mongo"
)

// store bundles the Mongo handles and repositories shared by every command.
type store struct {
	client      *mongodriver.Client
	db          *mongodriver.Database
	accounts    *mongo.AccountRepository
	roles       *mongo.RoleRepository
	assignments *mongo.RoleAssignmentRepository
	books       *mongo.BookRepository
	authEvents  *mongo.AuthEventRepository
	schema      *mongo.Schema
	tx          *mongo.Transactor
}

func openStore(ctx context.Context) (*store, error) {
	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongo")

	return &store{
		client:      client,
		db:          db,
		accounts:    mongo.NewAccountRepository(db),
		roles:       mongo.NewRoleRepository(db),
		assignments: mongo.NewRoleAssignmentRepository(db),
		books:       mongo.NewBookRepository(db),
		authEvents:  mongo.NewAuthEventRepository(db),
		schema:      mongo.NewSchema(db),
		tx:          mongo.NewTransactor(client, cfg.Mongo.Transactions),
	}, nil
}

func (s *store) close(ctx context.Context) {
	if err := s.client.Disconnect(ctx); err != nil {
		log.Warn().Err(err).Msg("mongo disconnect")
	}
}
