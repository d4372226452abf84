package postgres

import "context"

// ExecForTest runs raw SQL on the pool. Only the tests in this directory
// can see it.
func ExecForTest(ctx context.Context, s *Store, sql string) error {
	_, err := s.pool.Exec(ctx, sql)
	return err
}
