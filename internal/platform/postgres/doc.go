// Package postgres provides PostgreSQL-specific implementations of the
// interfaces in internal/store, plus the embedded goose migrations that
// create their schema. Stores accept a store.DBTX so the same code runs
// against a pool or inside a transaction.
package postgres
