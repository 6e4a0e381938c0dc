// Package store persists renamer state in a local SQLite database.
//
// The database holds per-user settings (template, caption and metadata tags)
// and open sequence sessions with their collected files. Schema changes are
// embedded SQL migrations applied in order on Open and recorded in
// schema_migrations. Store satisfies both sequence.Store and settings.Source.
package store
