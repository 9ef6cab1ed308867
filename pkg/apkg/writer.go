// SPDX-License-Identifier: MPL-2.0

package apkg

import (
	"archive/zip"
	"fmt"
	"os"
	"path/filepath"
)

// Artifact identifies a finished package on disk.
type Artifact struct {
	// Path is the absolute path of the .apkg file.
	Path string
	// Size is the file size in bytes.
	Size int64
}

// Create compresses the staging directory into an .apkg at outputPath.
// Entries are stored relative to stagingDir, so the staged tree sits
// at the archive root. The archive is written to a temporary file and
// renamed into place, so callers never observe a partial artifact.
func Create(stagingDir, outputPath string) (*Artifact, error) {
	absOutput, err := filepath.Abs(outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(absOutput), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(absOutput), filepath.Base(absOutput)+".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary archive: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		tmpFile.Close()
		os.Remove(tmpPath)
	}()

	if err := writeArchive(tmpFile, stagingDir); err != nil {
		return nil, err
	}
	if err := tmpFile.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize archive: %w", err)
	}
	if err := os.Rename(tmpPath, absOutput); err != nil {
		return nil, fmt.Errorf("failed to move archive into place: %w", err)
	}

	info, err := os.Stat(absOutput)
	if err != nil {
		return nil, fmt.Errorf("failed to stat archive: %w", err)
	}
	return &Artifact{Path: absOutput, Size: info.Size()}, nil
}

func writeArchive(dst *os.File, stagingDir string) error {
	zw := zip.NewWriter(dst)

	err := filepath.WalkDir(stagingDir, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		relPath, err := filepath.Rel(stagingDir, path)
		if err != nil {
			return fmt.Errorf("failed to get relative path: %w", err)
		}
		if relPath == "." {
			return nil
		}
		zipPath := filepath.ToSlash(relPath)

		if d.IsDir() {
			if _, err := zw.Create(zipPath + "/"); err != nil {
				return fmt.Errorf("failed to create directory entry: %w", err)
			}
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("failed to get file info: %w", err)
		}
		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return fmt.Errorf("failed to create file header: %w", err)
		}
		header.Name = zipPath
		header.Method = zip.Deflate

		writer, err := zw.CreateHeader(header)
		if err != nil {
			return fmt.Errorf("failed to create archive entry: %w", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", path, err)
		}
		if _, err := writer.Write(data); err != nil {
			return fmt.Errorf("failed to write file data: %w", err)
		}
		return nil
	})
	if err != nil {
		zw.Close()
		return fmt.Errorf("failed to pack staging directory: %w", err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize archive: %w", err)
	}
	return nil
}
