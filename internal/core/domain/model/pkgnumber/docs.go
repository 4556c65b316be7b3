// Package pkgnumber models the recyclable package numbers handed out per
// mailroom.
//
// A Number is the short integer written on a parcel's label so residents and
// staff can find it on the shelf. Numbers live in [MinNumber, MaxNumber] and
// are unique only among packages that are still on the shelf; once a package
// is resolved its number goes back to the pool and is handed out again,
// smallest first, so busy mailrooms keep using short numbers.
//
// Pool is the in-use set of one mailroom. It is a plain value: callers own the
// locking (see the memory allocator adapter) or keep the set in the database
// (see the postgres allocator adapter).
package pkgnumber
