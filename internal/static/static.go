// Package static embeds the default sounds and the notification icon
// into the binary.
package static

import (
	"embed"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

const filesDir = "files"

//go:embed files/*
var Files embed.FS

// FilePath returns the embedded path of the named asset.
func FilePath(name string) string {
	return path.Join(filesDir, name)
}

// List returns the names of all embedded assets.
func List() ([]string, error) {
	entries, err := Files.ReadDir(filesDir)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))

	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}

	return names, nil
}

// CopyFilesToDataDir copies the embedded assets into the given
// subdirectory of the user's data directory, skipping any that already
// exist. It makes the notification icon and the default sounds visible
// to the user so they can be inspected or replaced.
func CopyFilesToDataDir(appDir string) error {
	return fs.WalkDir(
		Files,
		filesDir,
		func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if d.IsDir() {
				return nil
			}

			b, err := Files.ReadFile(p)
			if err != nil {
				return err
			}

			stripped := strings.TrimPrefix(p, filesDir+"/")

			relPath := filepath.Join(appDir, "static", stripped)

			destPath, err := xdg.DataFile(relPath)
			if err != nil {
				return err
			}

			// Only write if the file does not already exist
			if _, err := os.Stat(destPath); os.IsNotExist(err) {
				if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
					return err
				}

				if err := os.WriteFile(destPath, b, 0o644); err != nil {
					return err
				}
			}

			return nil
		},
	)
}
