package domain

import "context"

// TransactionManager runs fn inside a database transaction. Repositories
// called with the ctx passed to fn take part in the transaction. Any error
// returned by fn, or a panic, rolls back every write.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
