// Package courier describes couriers as the matching engine sees them.
//
// Couriers are independent workers managed outside this core. The dispatch
// engine only reads a snapshot of each candidate through the courier
// directory port and claims one atomically. Summary is that snapshot: a
// value object, never mutated here.
package courier
