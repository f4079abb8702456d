// Package postgres provides PostgreSQL-backed implementations of the storage
// interfaces defined in the internal/store package. It handles query
// execution, mapping between domain entities and database rows, and
// translation of driver errors into the store package's sentinel errors.
// The package also embeds the schema migrations and exposes helpers to run
// them with goose.
package postgres
