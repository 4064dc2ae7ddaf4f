// Package versionedcontent provides a reusable library for storing
// machine-generated text records with full revision history.
//
// It exposes a single Service interface that orchestrates record
// creation, partial updates with automatic version tracking, filtered
// and paginated listings, word-level diffs between revisions, reverts
// to prior versions, and JSON export of a record with its history.
// Implementations of repositories (memory, Postgres) and archivers
// (memory, S3) are provided under subpackages.
//
// Versioning Model
//
// A record's version starts at 1 and advances by one every time an
// update carries a body, with the superseded state captured as an
// immutable snapshot beforehand. Metadata and status updates never
// touch the version. Reverting restores an old snapshot's content as a
// forward update: the counter keeps climbing so every version number
// identifies exactly one historical state forever.
package versionedcontent
