//go:build !invariants && !race

package stackmap

// invariants enables internal assertions. It is true when built with the
// invariants or race build tags.
const invariants = false
