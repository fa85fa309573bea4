// Package store provides SQLite-backed storage for saved designs and
// autosave records.
//
// # Designs
//
// A design is a named, saved project owned by one user:
//   - data: the project JSON exactly as produced by project.Encode
//   - thumbnail: optional PNG data-URL for listings
//   - is_public: public designs are readable (and duplicable) by anyone
//   - tags: JSON array of strings
//
// Only the owner may update or delete a design. Reads of a design that is
// neither owned by the caller nor public fail with a permission error and
// change nothing.
//
// # Autosaves
//
// One recovery record per (slot, session). Writing again for the same key
// replaces the record. Records carry the content hash so callers can tell
// whether anything changed.
//
// # Errors
//
// Missing rows are failure.NotFound, ownership violations are
// failure.Permission, invalid input is failure.Malformed and database
// failures are failure.External.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Timestamps are stored as RFC 3339 UTC text. Listings order by
// updated_at DESC, id ASC COLLATE BINARY so results are deterministic.
package store
