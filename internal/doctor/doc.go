// Package doctor provides diagnostic and repair functionality for vsort's
// local state.
//
// The doctor package detects and optionally repairs issues including:
//
//   - Config issues: a global config file that does not parse or validate.
//
//   - History issues: remembered projects whose file no longer exists.
//
//   - Cache issues: expired entries and leftover files of interrupted writes
//     in the disk cache directory.
//
//   - Project issues: saved memberships for folders the breakdown no longer
//     defines, and ids that are not versions of the project.
//
// # Usage
//
// Run diagnostics:
//
//	remaining, err := doctor.Run(ctx, w, opts, false) // check only
//	remaining, err := doctor.Run(ctx, w, opts, true)  // check and fix
//
// Each [Issue] includes a description and the action --fix takes. Issues with
// no action need manual attention.
package doctor
