package sqlite

import "context"

// RunAtomic delegates to the DB wrapper so services depending on
// repository.Transactor need only the repo.
func (r *SQLiteRepo) RunAtomic(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.conn.RunAtomic(ctx, fn)
}
