// Package services provides the pure domain services of the dispatch engine:
// the pricing engine and the courier matcher. Both are deterministic
// calculations over domain values, free of I/O, configured through policy
// structs injected at composition time.
package services
