package storage

import "github.com/jackc/pgx/v5/pgxpool"

// Pool exposes the connection pool to tests.
func (pw *PostgresWords) Pool() *pgxpool.Pool {
	return pw.pool
}
