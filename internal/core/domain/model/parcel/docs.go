// Package parcel provides the package aggregate of the mailroom: one physical
// parcel tracked for one resident in one mailroom. The Go type is Parcel
// because package is a reserved word.
//
// The package includes:
//   - Parcel: the aggregate root holding identity, number, status and timestamps
//   - Status: the lifecycle state machine with a single transition table
//
// Lifecycle:
//
//	WAITING ──┬──> RETRIEVED ──> RESOLVED
//	          │                     ▲
//	          └─────────────────────┘
//
//	FAILED (terminal; a registration that never produced a package on the shelf)
//
// A parcel holds its number only while it is live (WAITING or RETRIEVED).
// Entering RESOLVED hands the number back to the caller, which must release
// it to the allocator exactly once.
package parcel
