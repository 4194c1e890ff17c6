package repository

import "context"

// TxManager runs fn inside one transaction. Repositories called with the
// ctx passed to fn join that transaction.
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
