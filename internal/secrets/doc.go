// SPDX-License-Identifier: MPL-2.0

// Package secrets supplies build-time secret material as environment
// maps. The build pipeline consumes only the Provider interface; the
// concrete source (process env, a static JSON mapping, AWS Secrets
// Manager) is chosen from PIXELL_SECRETS_* environment variables so
// CI setups can switch providers without flags.
package secrets
