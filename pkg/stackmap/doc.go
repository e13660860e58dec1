// Package stackmap implements a heterogeneous container that holds at most
// one value per Go type, keyed by type identity.
//
// A container is a chain of frames ending in Empty. Insert and Remove
// consume the container they are given and return a new frame that wraps it
// and records what happened:
//
//	m := stackmap.Insert(stackmap.Empty{}, 1)  // *Inserted[int], InsertFresh
//	o := stackmap.Insert(m, 2)                 // *Inserted[int], InsertExisted
//	old, _ := o.Old()                          // 1
//	r := stackmap.Remove[int](o)               // *Removed[int], RemoveFound
//	v, _ := r.Value()                          // 2
//
// The handle passed to Insert or Remove must not be used afterwards; use
// Clone to branch. Lookups walk the chain from the outermost frame inward,
// so they cost O(depth). Containers are not safe for concurrent use; see
// Cell for a locked holder.
package stackmap
