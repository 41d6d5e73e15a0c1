// Package domain defines the core business entities for depreval.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Query: A benchmark query with framework tag and optional labels
//   - Result: A single search/answer hit from a provider
//   - MetricRecord: The four metric values for one (query, provider) pair
//   - EvaluationRun: The full record collection for one execution
//   - Summary: Aggregated statistics and the provider ranking
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
