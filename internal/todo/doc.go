// Package todo owns the in-memory task collection for a session.
//
// A Store is created explicitly and passed to whatever needs it; there is no
// package-level collection. All reads return snapshots, and values derived
// from tasks (urgency, counts, progress) are computed on demand from those
// snapshots rather than stored.
//
// # Ordering
//
// Tasks are kept newest first. Toggling never reorders; Partition splits a
// snapshot into active and completed groups preserving relative order.
//
// # Identifiers
//
// IDs start at 1 and increase by one per created or seeded task. They are
// never reused, including after deletion.
//
// # Creation
//
// Create validates the title synchronously, then runs the configured
// Submitter (a simulated backend with latency) before the task becomes
// visible. Only one Create may be in flight per Store; a second call made
// meanwhile fails with ErrCreateInFlight.
//
// # Seed files
//
// Demo data can be loaded from JSON:
//
//	{
//	  "schema_version": 1,
//	  "tasks": [
//	    {"title": "Write report", "priority": "high", "due_in_days": 0},
//	    {"title": "Review PR", "due_date": "2026-10-21", "completed": true}
//	  ]
//	}
//
// The file is checked against SeedSchema (JSON Schema draft 2020-12) before
// the usual title rules are applied.
package todo
