package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"iganalyzer/pkg/models"
)

const (
	postsFile  = "posts.json"
	reportFile = "report.json"
	assetExt   = ".jpg"
)

// Manager owns one output directory tree: image assets named
// {shortcode}.jpg plus the posts.json and report.json artifacts. Writes are
// atomic (temp file + rename) so re-runs are overwrite-safe. The pipeline
// is single-threaded, so the manager keeps no locks.
type Manager struct {
	outputDir string
	assets    map[string]string
}

// NewManager creates a storage manager, creating the output directory if
// needed and scanning it for already-present assets.
func NewManager(outputDir string) (*Manager, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	m := &Manager{
		outputDir: outputDir,
		assets:    make(map[string]string),
	}

	if err := m.scanExistingAssets(); err != nil {
		return nil, fmt.Errorf("failed to scan existing assets: %w", err)
	}

	return m, nil
}

// scanExistingAssets indexes image files already in the output directory so
// re-runs can skip fetching them.
func (m *Manager) scanExistingAssets() error {
	entries, err := os.ReadDir(m.outputDir)
	if err != nil {
		return fmt.Errorf("failed to read directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != assetExt {
			continue
		}
		shortcode := strings.TrimSuffix(entry.Name(), assetExt)
		m.assets[shortcode] = filepath.Join(m.outputDir, entry.Name())
	}

	return nil
}

// HasAsset reports whether an image for the shortcode already exists at its
// deterministic path.
func (m *Manager) HasAsset(shortcode string) bool {
	if _, ok := m.assets[shortcode]; ok {
		return true
	}
	// Double-check the filesystem in case the file appeared after the scan.
	path := m.AssetPath(shortcode)
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		m.assets[shortcode] = path
		return true
	}
	return false
}

// AssetPath returns the deterministic path for a shortcode's image.
func (m *Manager) AssetPath(shortcode string) string {
	return filepath.Join(m.outputDir, shortcode+assetExt)
}

// Assets returns a copy of the shortcode to path index.
func (m *Manager) Assets() map[string]string {
	out := make(map[string]string, len(m.assets))
	for k, v := range m.assets {
		out[k] = v
	}
	return out
}

// SaveAsset writes an image from the reader to the shortcode's
// deterministic path via a temp file and atomic rename.
func (m *Manager) SaveAsset(r io.Reader, shortcode string) error {
	path := m.AssetPath(shortcode)
	if err := writeAtomic(path, r); err != nil {
		return err
	}
	m.assets[shortcode] = path
	return nil
}

// SavePosts persists the Post collection as the durable posts.json
// artifact. The encoding is deterministic: loading and re-saving the same
// collection produces byte-identical output.
func (m *Manager) SavePosts(posts []models.Post) error {
	if posts == nil {
		posts = []models.Post{}
	}
	data, err := json.MarshalIndent(posts, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal posts: %w", err)
	}
	data = append(data, '\n')

	return writeAtomicBytes(m.PostsPath(), data)
}

// LoadPosts reads the persisted Post collection back.
func (m *Manager) LoadPosts() ([]models.Post, error) {
	return LoadPostsFile(m.PostsPath())
}

// LoadPostsFile reads a Post collection from an arbitrary path.
func LoadPostsFile(path string) ([]models.Post, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read posts file: %w", err)
	}

	var posts []models.Post
	if err := json.Unmarshal(data, &posts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal posts: %w", err)
	}

	return posts, nil
}

// SaveReport persists the analytics report, written once per run.
func (m *Manager) SaveReport(rep *models.Report) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	data = append(data, '\n')

	return writeAtomicBytes(m.ReportPath(), data)
}

// PostsPath returns the path of the posts.json artifact.
func (m *Manager) PostsPath() string {
	return filepath.Join(m.outputDir, postsFile)
}

// ReportPath returns the path of the report.json artifact.
func (m *Manager) ReportPath() string {
	return filepath.Join(m.outputDir, reportFile)
}

// OutputDir returns the output directory path.
func (m *Manager) OutputDir() string {
	return m.outputDir
}

func writeAtomic(path string, r io.Reader) error {
	tmp := path + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	_, err = io.Copy(out, r)
	closeErr := out.Close()

	if err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write data: %w", err)
	}
	if closeErr != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to close file: %w", closeErr)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}

func writeAtomicBytes(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}
	return nil
}
