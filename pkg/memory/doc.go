// Package memory implements the Warren domain-memory store: a single
// YAML document per unit of coordinated work that stateless worker
// processes use to share state across invocations.
//
// The document tracks features (discrete units of work), the single
// active lock, an append-only activity log, per-feature attempt history
// for failure memoization, and aggregate test counters. All mutations
// go through a Store, which serializes read-modify-write cycles with an
// OS advisory file lock and guards against non-cooperating writers with
// a persisted revision counter.
//
// Scheduling (Pick) is a pure function over a document snapshot, so the
// orchestrator can call it freely; the result is always re-validated by
// the Lock call that follows it.
package memory
