// Package tiers provides ready cache tiers for a layered.Coordinator.
//
// Every store-backed tier follows the same protocol. On a read it answers
// from its own store when it can, otherwise it delegates to the next tier and
// copies whatever comes back into its store. Writes store locally before
// delegating, and deletes remove locally before delegating.
//
// Backend failures never abort a traversal. They are recorded on the request
// context with SetErr and the tier behaves as if it had missed.
package tiers
