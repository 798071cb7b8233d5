package ports

import "context"

// Transactor runs fn as one unit of work: every repository call made with the
// ctx passed to fn commits together or not at all.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
