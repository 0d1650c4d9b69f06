package restserver

import (
	"embed"
	"io/fs"
	"os"
)

// Embed the upload page
//
//go:embed all:assets
var assetsFS embed.FS

// GetAssets returns the assets filesystem, either from disk or embedded
func GetAssets() fs.FS {
	// CALORIMETRY_ASSETS_DIR serves the page straight from disk, so HTML and
	// JS edits show up without a rebuild.
	if dir := os.Getenv("CALORIMETRY_ASSETS_DIR"); dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return os.DirFS(dir)
		}
	}

	// Return a sub-filesystem starting from the "assets" directory
	assets, err := fs.Sub(assetsFS, "assets")
	if err != nil {
		panic("failed to create assets sub-filesystem: " + err.Error())
	}
	return assets
}
