package stackmap

import "github.com/cockroachdb/errors"

// slotMismatch is reached when a frame answered a lookup for tag with a slot
// of some other type. Release builds treat the slot as absent.
func slotMismatch(tag TypeTag, slot any) {
	if invariants {
		panic(errors.AssertionFailedf("stackmap: slot for %s holds %T", errors.Safe(tag.String()), slot))
	}
}
