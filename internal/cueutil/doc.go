// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared CUE validation utilities for YAML documents.
//
// The package consolidates the parsing pattern used by the manifest and
// pakfile packages:
//
//  1. Compile the embedded schema
//  2. Extract the user's YAML document into a CUE value
//  3. Unify with the schema, validate, and decode to a Go struct
//
// # Usage
//
//	//go:embed manifest_schema.cue
//	var schemaBytes []byte
//
//	result, err := cueutil.ParseYAMLAndDecode[Manifest](
//	    schemaBytes,
//	    userFileBytes,
//	    "#Manifest",
//	    cueutil.WithFilename("agent.yaml"),
//	)
//	if err != nil {
//	    return nil, err  // Error includes the CUE path for debugging
//	}
//	return result.Value, nil
package cueutil
