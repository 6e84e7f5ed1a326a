// Package postgres provides PostgreSQL implementations of the store
// interfaces, using pgx's database/sql driver. Database errors are
// mapped onto the store package's sentinel errors so callers never
// depend on driver details.
package postgres
