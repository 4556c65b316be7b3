// Package guard provides ConstructorGuard, a zero-value detector embedded in
// aggregates, value objects and commands that must only be built through
// their constructor.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when the caller does not
// supply its own error.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard records whether the enclosing value came from its
// constructor. The zero value reports "not constructed".
//
//	type RegisterPackageCommand struct {
//	    provider string
//	    guard    guard.ConstructorGuard
//	}
//
//	func (c RegisterPackageCommand) Validate() error {
//	    return c.guard.Validate(ErrRegisterPackageCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard that passes validation.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when nil)
// if the guard is a zero value.
func (g ConstructorGuard) Validate(validationError error) error {
	if g.isConstructed {
		return nil
	}
	if validationError == nil {
		return ErrDefaultConstructorGuard
	}
	return validationError
}
