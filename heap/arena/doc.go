// Package arena provides the growable byte region a heapkit allocator manages.
//
// # Overview
//
// An Arena is one contiguous, monotonically growing byte buffer obtained from
// a Host. The Host is the only place memory comes from: the allocator never
// calls the Go runtime allocator for payload space.
//
// # Hosts
//
// SliceHost: in-process host over a Go slice with a fixed reserved capacity.
// Growth reslices within that capacity, so the buffer never relocates.
//
// MmapHost: reserves a PROT_NONE anonymous mapping up front and commits
// pages with mprotect as the arena grows (Unix only). This mirrors how sbrk
// hands out memory to a C allocator.
//
// Both hosts guarantee that previously returned memory is never moved, so
// payload slices handed out by the allocator stay valid across growth.
//
// # Thread Safety
//
// Arenas are not thread-safe. The allocator that owns an arena serializes all
// access to it.
package arena
