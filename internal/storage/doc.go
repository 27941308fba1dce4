// Package storage defines the persistence interfaces for the collection
// engine. Implementations must make each mutating method atomic: either every
// write in the call lands or none does. The engines stage all checks before
// calling a mutating method, so a store never sees a partially validated
// batch.
package storage
