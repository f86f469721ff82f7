package filesystem

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aevon-lab/download-stats/internal/core/document"
	"github.com/aevon-lab/download-stats/internal/core/downloads"
	"github.com/aevon-lab/download-stats/internal/core/storage"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultManifest is the optional per-directory override file.
	DefaultManifest = "stats.yaml"
	// DefaultTotalsName marks documents that hold registry-wide totals.
	DefaultTotalsName = "total-npm"

	fileExt = ".json"
)

// Manifest is the on-disk YAML shape of per-document overrides.
//
//	documents:
//	  assemble:
//	    start: "2010-01-01"
//	  registry:
//	    totals: true
type Manifest struct {
	Documents map[string]ManifestEntry `yaml:"documents"`
}

// ManifestEntry overrides the defaults derived from a document's file name.
type ManifestEntry struct {
	Repo   string `yaml:"repo"`
	Start  string `yaml:"start"`
	Prop   string `yaml:"prop"`
	Totals bool   `yaml:"totals"`
}

// Repository implements storage.DocumentStore over a directory of
// <name>.json files. A document's repo defaults to its file name, except for
// names containing the totals marker, which sync registry totals.
type Repository struct {
	rootDir    string
	totalsName string
	manifest   Manifest
}

// Option configures a Repository.
type Option func(*Repository)

// WithTotalsName changes the marker that identifies totals documents.
func WithTotalsName(name string) Option {
	return func(r *Repository) { r.totalsName = name }
}

// NewRepository creates a repository rooted at rootDir and loads the manifest
// (manifestName relative to rootDir unless absolute). A missing manifest is
// not an error; a malformed one is.
func NewRepository(rootDir, manifestName string, opts ...Option) (*Repository, error) {
	r := &Repository{rootDir: rootDir, totalsName: DefaultTotalsName}
	for _, opt := range opts {
		opt(r)
	}

	if manifestName == "" {
		manifestName = DefaultManifest
	}
	if !filepath.IsAbs(manifestName) {
		manifestName = filepath.Join(rootDir, manifestName)
	}
	m, err := loadManifest(manifestName)
	if err != nil {
		return nil, err
	}
	r.manifest = m
	return r, nil
}

func loadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Manifest{}, nil
	}
	if err != nil {
		return Manifest{}, fmt.Errorf("reading manifest %s: %w", path, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	for name, entry := range m.Documents {
		if entry.Start == "" {
			continue
		}
		if _, err := downloads.ParseDay(entry.Start); err != nil {
			return Manifest{}, fmt.Errorf("manifest %s: document %q: %w", path, name, err)
		}
	}
	return m, nil
}

// overridesFor derives a document's overrides from its name and the manifest.
func (r *Repository) overridesFor(name string) downloads.Overrides {
	o := downloads.Overrides{Repo: name}
	if r.totalsName != "" && strings.Contains(name, r.totalsName) {
		o.Repo = ""
	}

	entry, ok := r.manifest.Documents[name]
	if !ok {
		return o
	}
	if entry.Totals {
		o.Repo = ""
	} else if entry.Repo != "" {
		o.Repo = entry.Repo
	}
	o.Start = entry.Start
	o.Prop = entry.Prop
	return o
}

func (r *Repository) path(name string) string {
	return filepath.Join(r.rootDir, name+fileExt)
}

// List reads every <name>.json file directly under the root directory.
// Files with unusable names or unreadable content are logged and skipped so
// one stray file never hides the rest.
func (r *Repository) List(ctx context.Context) ([]*document.Document, error) {
	entries, err := os.ReadDir(r.rootDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []*document.Document{}, nil
		}
		return nil, fmt.Errorf("reading document dir: %w", err)
	}

	docs := []*document.Document{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), fileExt) {
			continue
		}
		name := strings.TrimSuffix(e.Name(), fileExt)
		if !validName(name) {
			slog.Warn("[FileSystem] Skipping file with invalid document name", "file", e.Name())
			continue
		}
		doc, err := r.Get(ctx, name)
		if err != nil {
			slog.Warn("[FileSystem] Skipping unreadable document", "document", name, "error", err)
			continue
		}
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Name < docs[j].Name })
	return docs, nil
}

// Get reads one document by name.
func (r *Repository) Get(ctx context.Context, name string) (*document.Document, error) {
	if !validName(name) {
		return nil, storage.ErrNotFound
	}
	content, err := os.ReadFile(r.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("reading document %q: %w", name, err)
	}
	return document.New(name, content, r.overridesFor(name)), nil
}

// Save writes the document content through a temp file and rename so a
// crash never leaves a half-written series behind.
func (r *Repository) Save(ctx context.Context, doc *document.Document) error {
	if !validName(doc.Name) {
		return fmt.Errorf("invalid document name %q", doc.Name)
	}
	if err := os.MkdirAll(r.rootDir, 0o755); err != nil {
		return fmt.Errorf("creating document dir: %w", err)
	}

	tmp, err := os.CreateTemp(r.rootDir, "."+doc.Name+"-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file for %q: %w", doc.Name, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck

	if _, err := tmp.Write(doc.Content); err != nil {
		tmp.Close()
		return fmt.Errorf("writing document %q: %w", doc.Name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing document %q: %w", doc.Name, err)
	}
	if err := os.Rename(tmpName, r.path(doc.Name)); err != nil {
		return fmt.Errorf("replacing document %q: %w", doc.Name, err)
	}

	slog.Debug("[FileSystem] Saved document", "document", doc.Name, "bytes", len(doc.Content))
	return nil
}

// validName rejects names that would escape the root directory.
func validName(name string) bool {
	return name != "" && !strings.ContainsAny(name, `/\`) && name != "." && name != ".."
}
