package poster

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Renderer consumes an assembled layout and produces an image artifact,
// returning its path. Pixel rendering is an external collaborator; this
// package only defines the seam.
type Renderer interface {
	Render(layout *Layout) (string, error)
}

// LayoutWriter is the shipped Renderer: it persists the layout description
// as JSON for an external rendering tool to consume.
type LayoutWriter struct {
	dir string
}

// NewLayoutWriter creates a LayoutWriter targeting the given directory.
func NewLayoutWriter(dir string) *LayoutWriter {
	return &LayoutWriter{dir: dir}
}

// Render writes the layout to poster_layout.json and returns its path.
// The write is atomic so a re-run never leaves a torn artifact.
func (w *LayoutWriter) Render(layout *Layout) (string, error) {
	data, err := json.MarshalIndent(layout, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal layout: %w", err)
	}

	path := filepath.Join(w.dir, "poster_layout.json")
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write layout file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("failed to rename layout file: %w", err)
	}

	return path, nil
}
