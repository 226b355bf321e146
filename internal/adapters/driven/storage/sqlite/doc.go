// Package sqlite provides SQLite-backed implementations of the
// conversation and draft store interfaces. A single database file holds
// all local state; schema changes ship as embedded migrations.
package sqlite
