// Package services provides domain services for rules that span more than one
// aggregate of the mailroom model.
//
// The package includes:
//   - NumberReconciler: finds reserved package numbers that no live package holds
package services
