// package tasks implements the playlist migration workflow between catalogs.
//
// The core abstraction is Migrator, which drives create-vs-update decisions
// per playlist, matches tracks through the match package, and keeps the
// migration state store current. Operations emit progress updates via
// channels for non-blocking status reporting to CLI/UI layers.
package tasks
