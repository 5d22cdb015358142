// Package database provides connection pool management for PostgreSQL.
//
// The pool backs the durable favorites store; the schema itself is owned by
// the favorites package and created on first use.
package database
