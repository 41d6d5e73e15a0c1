// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - ProviderAdapter: Fetches ranked results from a search/answer system
//   - QueryLoader: Supplies the immutable benchmark query list
//   - ResultCache: Idempotent fetch-or-populate response caching
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - RunStore: Evaluation run persistence. Without it, runs are not
//     written to disk and the report command has no history.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or provider package
package driven
