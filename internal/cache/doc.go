// Package cache implements a keyed read-through query cache for remote resources.
//
// # Entries
//
// Each [Query] owns the entries for one endpoint. An entry is keyed by ([Key.Endpoint], [Key.Param]) and moves
// through four statuses:
//
//   - [StatusIdle] : never requested, gated off, or skipped
//   - [StatusPending] : a fetch is in flight
//   - [StatusSuccess] : Data holds the last fetched value
//   - [StatusError] : Err holds the last failure
//
// Successful entries are kept until [Query.Invalidate] or [Query.Reset]; resolving them again does not fetch.
// Failed entries are visible through [Query.Peek], but the next [Query.Resolve] fetches again.
//
// # Concurrency
//
// At most one fetch runs per key. Concurrent callers of [Query.Resolve] share it through
// [golang.org/x/sync/singleflight]. The fetch runs on a context detached from the caller's cancellation, so a
// caller that gives up early gets the Pending entry back while the result still lands in the cache for the next
// reader. Results of a fetch that started before Invalidate or Reset are returned to their waiters but not stored.
//
// # Gating
//
// [WithGate] suppresses every fetch while it reports false (for example, no access token), and [WithSkip] suppresses
// fetches for individual parameters such as an empty search query. Both leave the entry Idle.
package cache
