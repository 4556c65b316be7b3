// Package kernel provides the shared primitives of the mailroom domain model.
//
// The package includes:
//   - UUID: identity value object used for mailrooms, residents, staff and package rows
//   - Clock: the time source consulted when a package changes state
//
// Primitives are immutable and safe for concurrent use.
package kernel
