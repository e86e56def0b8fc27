/*
Package btreemap implements a mutable in-memory ordered map, backed by a B-tree.

A good introduction to B-trees and their algorithms may be found at
http://opendatastructures.org/ (chapter 14).

Keys are kept in contiguous per-node arrays, so a search touches few
allocations and few cache lines compared to a binary search tree. The map
is not safe for concurrent mutation.
*/
package btreemap

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'btreemap'.
func tracer() tracing.Trace {
	return tracing.Select("btreemap")
}
