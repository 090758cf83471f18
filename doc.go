// Package reacton implements a reactive state-management core: a
// push-based dependency graph with pull-based recomputation over a set of
// named state cells ("reactons") and their derivations.
//
// # Overview
//
// reacton organizes state around four kinds of cell:
//
//  1. Sources: atomic cells whose value is set directly.
//  2. Computed: cells derived from other cells via a pure function.
//  3. Selectors / Lenses: projections of other cells, lenses can write back.
//  4. Effects: side-effectful observers that run after a flush settles.
//
// A Store holds the current value of every registered cell and schedules
// propagation so that reads are never stale and diamond-shaped dependency
// graphs recompute each descendant exactly once per flush (glitch-free).
//
// # Basic usage
//
//	store := reacton.NewStore()
//
//	a := reacton.NewSource(store, "a", 1)
//
//	b := reacton.NewComputed(store, "b", func(s *reacton.Store) (int, error) {
//	    av, err := a.Get(s)
//	    return av * 2, err
//	})
//
//	unsub := reacton.Subscribe(store, b, func(v int) {
//	    fmt.Println("b is now", v)
//	})
//	defer unsub()
//
//	b.Get(store)     // first read computes b and records that it reads a
//	a.Set(store, 10) // b recomputes to 20 and the subscriber fires once
//
// # Batching
//
// Multiple writes inside a Batch coalesce into a single flush:
//
//	store.Batch(func() {
//	    x.Set(store, 5)
//	    y.Set(store, 10)
//	})
//
// # Transactions
//
// Store.CreateBranch gives a copy-on-write overlay that can be discarded or
// merged back; Store.Snapshot/Restore captures and replays the full value
// map; EnableHistory turns on a per-Source undo/redo ring buffer.
//
// # Beyond the core
//
// The saga (package saga), query cache (package query), CRDT sync (package
// crdt) and recorder/player (package recorder) layer on top of the Store's
// public operations; none of them reach into its internals.
package reacton
