// SPDX-License-Identifier: MPL-2.0

// Package manifest provides types and parsing for agent.yaml manifests.
//
// An agent manifest declares the agent's identity (name, display name,
// author, license), its runtime, and how it is reached at runtime: either
// a single entrypoint or one or more surfaces (rest, a2a, ui). This package
// handles schema validation, parsing to Go structs, and the cross-field
// rules the schema cannot express.
//
// This package uses internal/cueutil for schema validation implementation
// details. External consumers should use the exported Parse() and
// ParseBytes() functions.
package manifest
