// Package database owns the gorm connection and schema migration.
//
// Per-area repositories live in subpackages (seen, media, collections,
// reviews, summaries, users); each takes a *gorm.DB and exposes the queries
// one service needs and nothing more.
package database
