package level

import (
	"bufio"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ugaemi/mazechase/internal/game"
)

const defaultManifest = "levels.yaml"

//go:embed levels.yaml maps/*.txt
var defaultFS embed.FS

var (
	ErrUnknownLevel  = errors.New("unknown level")
	ErrBadDimensions = errors.New("bad level dimensions")
	ErrShortMap      = errors.New("map has too few rows")
)

// Entry describes one level in the manifest. File is relative to the
// manifest's directory.
type Entry struct {
	Name string `yaml:"name"`
	File string `yaml:"file"`
	Cols int    `yaml:"cols"`
	Rows int    `yaml:"rows"`
}

type Manifest struct {
	Levels []Entry `yaml:"levels"`
}

// Loader reads level maps listed in a manifest. It implements
// game.GridLoader.
type Loader struct {
	fsys     fs.FS
	dir      string
	manifest Manifest
}

// NewLoader parses the manifest at name inside fsys.
func NewLoader(fsys fs.FS, name string) (*Loader, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", name, err)
	}
	for i, e := range m.Levels {
		if e.Cols <= 0 || e.Rows <= 0 {
			return nil, fmt.Errorf("level %d (%s): %w: %dx%d", i, e.Name, ErrBadDimensions, e.Cols, e.Rows)
		}
		if e.File == "" {
			return nil, fmt.Errorf("level %d (%s): missing file", i, e.Name)
		}
	}

	return &Loader{fsys: fsys, dir: path.Dir(name), manifest: m}, nil
}

// Default returns a loader over the built-in levels.
func Default() (*Loader, error) {
	return NewLoader(defaultFS, defaultManifest)
}

// FromFile returns a loader for a manifest on disk. An empty path selects
// the built-in levels.
func FromFile(manifestPath string) (*Loader, error) {
	if manifestPath == "" {
		return Default()
	}
	dir, name := filepath.Split(manifestPath)
	if dir == "" {
		dir = "."
	}
	return NewLoader(os.DirFS(dir), name)
}

func (l *Loader) LevelCount() int {
	return len(l.manifest.Levels)
}

// Name returns the display name of a level, or "" if out of range.
func (l *Loader) Name(level int) string {
	if level < 0 || level >= len(l.manifest.Levels) {
		return ""
	}
	return l.manifest.Levels[level].Name
}

// LoadGrid reads the map of a level. Rows beyond the declared count are
// ignored; a map with fewer rows is an error.
func (l *Loader) LoadGrid(level int) (*game.Grid, error) {
	if level < 0 || level >= len(l.manifest.Levels) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownLevel, level)
	}
	e := l.manifest.Levels[level]

	f, err := l.fsys.Open(path.Join(l.dir, e.File))
	if err != nil {
		return nil, fmt.Errorf("open map %s: %w", e.File, err)
	}
	defer f.Close()

	lines := make([]string, 0, e.Rows)
	scanner := bufio.NewScanner(f)
	for len(lines) < e.Rows && scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read map %s: %w", e.File, err)
	}
	if len(lines) < e.Rows {
		return nil, fmt.Errorf("map %s: %w: got %d, want %d", e.File, ErrShortMap, len(lines), e.Rows)
	}

	return game.ParseGrid(lines, e.Cols), nil
}
