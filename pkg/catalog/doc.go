// Package catalog reads star records from the stores a map can be drawn from.
//
// Every provider implements [Reader]: a full scan ([Reader.All]) and an exact
// name lookup ([Reader.ByName]). Both are read-only. Records come back in the
// provider's natural order, which later stages treat as significant.
//
// # Providers
//
//   - [Memory]: an in-process slice, used by tests and by the file providers
//   - CSV, JSON and YAML files via [ReadFile]
//   - [SQLite]: an Astrosynthesis AstroDB export or a flat "stars" table
//   - [Mongo]: a MongoDB collection of star documents
//   - [Neo4j]: (:Star) nodes in a Neo4j graph
//
// [Open] picks a provider from a source string: a URL scheme selects a
// database, anything else is treated as a file path and dispatched on its
// extension.
//
// # Caching
//
// [Cached] stores the result of All in a [cache.Cache] so that repeated runs
// against a remote catalog skip the database read. Lookups by name are
// served from the cached snapshot when one exists.
package catalog
