// SPDX-License-Identifier: MPL-2.0

// Package discovery finds the importable code packages of an agent
// project. A directory counts as a package only when it directly
// contains at least one source file; a directory that merely holds
// packages deeper down is not itself emitted. Results are ordered
// lexically by dotted path so generated metadata is reproducible
// across builds.
package discovery
