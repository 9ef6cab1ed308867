// SPDX-License-Identifier: MPL-2.0

// Package envfile parses .env files and merges environment maps.
//
// Values are taken verbatim: no ${VAR} interpolation is performed, so
// shell-style defaults like "${PORT:-8080}" survive as literals for the
// runtime that eventually receives them. Merging is last-writer-wins;
// the deploy pipeline applies it repeatedly to realize the precedence
// runtime overrides > provider secrets > .env > manifest environment.
package envfile
