// SPDX-License-Identifier: MPL-2.0

// Package cloud talks to the Pixell Agent Cloud API: package
// deployments and remote secrets management for agent apps.
//
// One Client serves both concerns; it is bound to a target
// environment (local or prod) and authenticates every request with a
// bearer API key. Failures map to typed errors so callers react by
// kind rather than by matching message text.
package cloud
