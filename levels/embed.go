package levels

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

//go:embed *.txt
var LevelsFS embed.FS

// Ext is the file extension of level design files.
const Ext = ".txt"

// Load reads every level design in dir of fsys. Whitespace-only lines are
// dropped and the level is named after the file. Files that fail validation
// are logged and skipped.
func Load(fsys fs.FS, dir string, width, height int) ([]*Level, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("levels: read dir %s: %w", dir, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var out []*Level
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(path.Ext(e.Name()), Ext) {
			continue
		}
		lvl, err := LoadFile(fsys, path.Join(dir, e.Name()), width, height)
		if err != nil {
			log.Warn().Err(err).Str("file", e.Name()).Msg("skipping level design")
			continue
		}
		out = append(out, lvl)
	}
	return out, nil
}

// LoadFile reads a single level design.
func LoadFile(fsys fs.FS, name string, width, height int) (*Level, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("levels: read %s: %w", name, err)
	}
	return NewLevel(LevelName(name), ParseDesign(string(data)), width, height)
}

// ParseDesign splits design text into tile paths, dropping blank lines.
func ParseDesign(text string) []string {
	var lines []string
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// LevelName returns the level name for a design file path.
func LevelName(file string) string {
	base := path.Base(strings.ReplaceAll(file, "\\", "/"))
	return strings.TrimSuffix(base, path.Ext(base))
}

// LoadAll loads the embedded designs, then the designs in diskDir. A disk
// design replaces an embedded one with the same name. An empty or missing
// diskDir is ignored.
func LoadAll(diskDir string, width, height int) ([]*Level, error) {
	embedded, err := Load(LevelsFS, ".", width, height)
	if err != nil {
		return nil, err
	}
	if diskDir == "" {
		return embedded, nil
	}
	disk, err := Load(os.DirFS(diskDir), ".", width, height)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return embedded, nil
		}
		return nil, err
	}

	byName := map[string]int{}
	for i, l := range embedded {
		byName[l.Name] = i
	}
	for _, l := range disk {
		if i, ok := byName[l.Name]; ok {
			embedded[i] = l
			continue
		}
		byName[l.Name] = len(embedded)
		embedded = append(embedded, l)
	}
	return embedded, nil
}
