// Package async provides the building blocks for the non-blocking access
// mode: a single-goroutine Worker that executes submitted operations in
// order, and a generic Handle that carries an operation's eventual result
// back to the caller.
//
// Submissions are executed strictly in submission order, so two Pushes
// submitted from the same goroutine are applied to the queue in that order.
// The backlog is bounded; Submit blocks once MaxInflight operations are
// queued, which keeps slow consumers from growing memory without limit.
//
// A Handle resolves exactly once. Get blocks until resolution, TryGet polls,
// and both can be called repeatedly after resolution with the same result.
package async
