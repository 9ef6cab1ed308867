// SPDX-License-Identifier: MPL-2.0

// Package pypkg handles the Python packaging side of an agent build:
// reading install requirements (requirements.txt, with pyproject.toml as
// fallback), synthesizing an explicit-package setup.py into the staging
// tree, and creating __init__.py markers so discovered packages import as
// regular packages.
//
// Requirement lines are carried verbatim into generated metadata; this
// package validates their shape but never resolves versions.
package pypkg
