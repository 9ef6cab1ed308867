// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"reflect"
	"testing"
)

func TestSurfaces(t *testing.T) {
	tests := []struct {
		name     string
		manifest Manifest
		want     []Surface
	}{
		{
			name:     "no surfaces",
			manifest: Manifest{Entrypoint: "main:handler"},
			want:     nil,
		},
		{
			name: "all surfaces in canonical order",
			manifest: Manifest{
				UI:   &UIConfig{Path: "ui"},
				A2A:  &A2AConfig{Service: "src.a2a.server:serve"},
				REST: &RESTConfig{Entry: "src.rest.index:mount"},
			},
			want: []Surface{SurfaceREST, SurfaceA2A, SurfaceUI},
		},
		{
			name: "subset keeps canonical order",
			manifest: Manifest{
				UI:  &UIConfig{Path: "ui"},
				A2A: &A2AConfig{Service: "src.a2a.server:serve"},
			},
			want: []Surface{SurfaceA2A, SurfaceUI},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.manifest.Surfaces()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Surfaces() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHasSurface(t *testing.T) {
	m := Manifest{REST: &RESTConfig{Entry: "src.rest.index:mount"}}

	if !m.HasSurface(SurfaceREST) {
		t.Error("expected HasSurface(rest) to be true")
	}
	if m.HasSurface(SurfaceA2A) {
		t.Error("expected HasSurface(a2a) to be false")
	}
	if m.HasSurface(Surface("bogus")) {
		t.Error("expected unknown surface to be false")
	}
	if !m.HasSurfaces() {
		t.Error("expected HasSurfaces to be true")
	}
}

func TestParseModuleRef(t *testing.T) {
	tests := []struct {
		name       string
		ref        string
		wantModule string
		wantFunc   string
		wantPath   string
		wantDir    string
		wantErr    bool
	}{
		{
			name:       "nested module",
			ref:        "src.a2a.server:serve",
			wantModule: "src.a2a.server",
			wantFunc:   "serve",
			wantPath:   "src/a2a/server.py",
			wantDir:    "src/a2a",
		},
		{
			name:       "top-level module",
			ref:        "main:handler",
			wantModule: "main",
			wantFunc:   "handler",
			wantPath:   "main.py",
			wantDir:    ".",
		},
		{
			name:    "missing colon",
			ref:     "src.main.handler",
			wantErr: true,
		},
		{
			name:    "empty module",
			ref:     ":serve",
			wantErr: true,
		},
		{
			name:    "empty function",
			ref:     "src.main:",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := ParseModuleRef(tt.ref)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseModuleRef failed: %v", err)
			}
			if ref.Module != tt.wantModule {
				t.Errorf("Module = %q, want %q", ref.Module, tt.wantModule)
			}
			if ref.Function != tt.wantFunc {
				t.Errorf("Function = %q, want %q", ref.Function, tt.wantFunc)
			}
			if got := ref.SourcePath(); got != tt.wantPath {
				t.Errorf("SourcePath() = %q, want %q", got, tt.wantPath)
			}
			if got := ref.SourceDir(); got != tt.wantDir {
				t.Errorf("SourceDir() = %q, want %q", got, tt.wantDir)
			}
			if got := ref.String(); got != tt.ref {
				t.Errorf("String() = %q, want %q", got, tt.ref)
			}
		})
	}
}
