// Package database provides connection pool management for the warehouse.
//
// The pool is deliberately small: a handful of connections covers the
// worst case of a few scheduled runs overlapping. Each upsert call holds
// exactly one connection for the lifetime of its transaction.
package database
