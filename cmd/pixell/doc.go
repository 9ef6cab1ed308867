// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for pixell.
//
// This package implements the Cobra command hierarchy for the pixell CLI:
// the root command plus subcommands for scaffolding, building, validating,
// inspecting, and deploying agent packages, and for managing remote
// secrets on Pixell Agent Cloud.
package cmd
