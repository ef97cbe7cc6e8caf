//go:build !invariants

package debug

// Invariants is true if the module was built with the "invariants" build tag.
const Invariants = false
