package bbtree

import "github.com/meiyunyang/chipmunk-physics/pkg/spatial"

// leafKey identifies a single leaf: the object it wraps plus the hash
// the caller associated with it at insertion time. Two distinct objects
// are allowed to collide on hash; they are distinguished by obj.
type leafKey struct {
	hash spatial.HashValue
	obj  any
}

// leafIndex maps a leafKey to the leaf currently holding it. It backs
// Contains/Remove/ReindexObject, all of which are given an (obj, hash)
// pair rather than a tree position and need O(1) lookup to find the
// corresponding leaf.
//
// This is a plain Go map rather than a hand-rolled bucket table: the
// object identity plus hash already gives us a well-distributed key, and
// nothing here needs the prefix-scan or persistence behavior that would
// justify a custom structure.
type leafIndex struct {
	byKey map[leafKey]*node
}

func newLeafIndex() *leafIndex {
	return &leafIndex{byKey: make(map[leafKey]*node)}
}

// insert returns the leaf already stored under (hash, obj), if any;
// otherwise it calls transform to mint one, stores it, and returns it.
// transform is not called on a hit, matching the hash index's get-or-create
// contract: a second insert under a key already present is a no-op that
// hands back the existing leaf rather than minting and orphaning a second
// one.
func (h *leafIndex) insert(obj any, hash spatial.HashValue, transform func() *node) *node {
	key := leafKey{hash, obj}
	if n, ok := h.byKey[key]; ok {
		return n
	}
	n := transform()
	h.byKey[key] = n
	return n
}

func (h *leafIndex) find(obj any, hash spatial.HashValue) *node {
	return h.byKey[leafKey{hash, obj}]
}

func (h *leafIndex) remove(obj any, hash spatial.HashValue) {
	delete(h.byKey, leafKey{hash, obj})
}

func (h *leafIndex) count() int {
	return len(h.byKey)
}

func (h *leafIndex) each(fn func(n *node)) {
	for _, n := range h.byKey {
		fn(n)
	}
}

func (h *leafIndex) clear() {
	h.byKey = make(map[leafKey]*node)
}
