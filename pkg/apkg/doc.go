// SPDX-License-Identifier: MPL-2.0

// Package apkg defines the portable agent package format (.apkg).
//
// An .apkg file is a ZIP container holding the staged project tree at
// its root, the project's .env file, generated install metadata, and a
// deploy.json descriptor that tells the hosting platform which
// surfaces to expose, on which ports, and with which packaged
// environment.
//
// Layout (all names at the container root):
//   - <staged project tree>  original source minus ignored paths
//   - .env                   verbatim copy of the environment file
//   - setup.py               generated install metadata (unless supplied)
//   - deploy.json            serialized Descriptor
//
// Readers locate deploy.json by name without extracting the archive.
package apkg
