// Package probe implements ModelProbe: the extractor that walks a
// Gradle project on disk and produces one model.SourceSetModel per
// source set or Android variant. A live Gradle Tooling API connection
// is out of scope for this package (captured only as the
// pkg/driver.GradleDriver contract), so probing here is filesystem- and
// build-file-driven rather than reflection-driven — a generic
// capability-probing function substitutes for Java reflection on the
// Android path (see android.go).
package probe

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// LibraryCoordinate is one resolved entry of a version catalog's
// [libraries] table.
type LibraryCoordinate struct {
	Group   string
	Name    string
	Version string
	Module  string
}

// PluginCoordinate is one resolved entry of a version catalog's
// [plugins] table.
type PluginCoordinate struct {
	ID      string
	Version string
}

// ArtefactVersions is the parsed form of gradle/libs.versions.toml.
type ArtefactVersions struct {
	ProjectDir string
	Versions   map[string]string
	Libraries  map[string]LibraryCoordinate
	Plugins    map[string]PluginCoordinate
}

// rawCatalog mirrors the version-catalog TOML shape closely enough for
// go-toml/v2 to decode both the inline-table form
// (module = "...", version.ref = "...") and the bare string form
// ("group:name:version") of library/plugin entries, via `any`.
type rawCatalog struct {
	Versions  map[string]string `toml:"versions"`
	Libraries map[string]any    `toml:"libraries"`
	Plugins   map[string]any    `toml:"plugins"`
}

// FindVersionCatalog searches upward from dir for gradle/libs.versions.toml,
// the conventional location Gradle itself looks for, returning "" if
// none is found before reaching the filesystem root.
func FindVersionCatalog(dir string) string {
	for {
		candidate := filepath.Join(dir, "gradle", "libs.versions.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// ParseVersionCatalog decodes a libs.versions.toml file with
// github.com/pelletier/go-toml/v2, resolving every `version.ref`
// indirection against the [versions] table.
func ParseVersionCatalog(path string) (*ArtefactVersions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read version catalog %s: %w", path, err)
	}

	var raw rawCatalog
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse version catalog %s: %w", path, err)
	}

	cat := &ArtefactVersions{
		ProjectDir: filepath.Dir(filepath.Dir(path)),
		Versions:   raw.Versions,
		Libraries:  map[string]LibraryCoordinate{},
		Plugins:    map[string]PluginCoordinate{},
	}
	if cat.Versions == nil {
		cat.Versions = map[string]string{}
	}

	for name, entry := range raw.Libraries {
		cat.Libraries[name] = parseLibraryEntry(entry, cat.Versions)
	}
	for name, entry := range raw.Plugins {
		cat.Plugins[name] = parsePluginEntry(entry, cat.Versions)
	}
	return cat, nil
}

func parseLibraryEntry(entry any, versions map[string]string) LibraryCoordinate {
	switch v := entry.(type) {
	case string:
		return parseGroupNameVersion(v)
	case map[string]any:
		coord := LibraryCoordinate{}
		if module, ok := v["module"].(string); ok {
			coord.Module = module
			if group, name, found := strings.Cut(module, ":"); found {
				coord.Group, coord.Name = group, name
			}
		}
		if group, ok := v["group"].(string); ok {
			coord.Group = group
		}
		if name, ok := v["name"].(string); ok {
			coord.Name = name
		}
		if version, ok := v["version"].(string); ok {
			coord.Version = version
		}
		if versionRef, ok := v["version"].(map[string]any); ok {
			if ref, ok := versionRef["ref"].(string); ok {
				coord.Version = versions[ref]
			}
		}
		return coord
	default:
		return LibraryCoordinate{}
	}
}

func parsePluginEntry(entry any, versions map[string]string) PluginCoordinate {
	switch v := entry.(type) {
	case string:
		id, version, _ := strings.Cut(v, ":")
		return PluginCoordinate{ID: id, Version: version}
	case map[string]any:
		coord := PluginCoordinate{}
		if id, ok := v["id"].(string); ok {
			coord.ID = id
		}
		if version, ok := v["version"].(string); ok {
			coord.Version = version
		}
		if versionRef, ok := v["version"].(map[string]any); ok {
			if ref, ok := versionRef["ref"].(string); ok {
				coord.Version = versions[ref]
			}
		}
		return coord
	default:
		return PluginCoordinate{}
	}
}

func parseGroupNameVersion(s string) LibraryCoordinate {
	parts := strings.Split(s, ":")
	coord := LibraryCoordinate{}
	if len(parts) > 0 {
		coord.Group = parts[0]
	}
	if len(parts) > 1 {
		coord.Name = parts[1]
	}
	if len(parts) > 2 {
		coord.Version = parts[2]
	}
	return coord
}

// GetLibraryVersion resolves a libs.xyz style accessor name (dots,
// following Gradle's catalog accessor convention) against Libraries,
// trying both the literal key and its dots-to-hyphens form, since
// catalog authors write "foo-bar" but accessors read "foo.bar".
func (a *ArtefactVersions) GetLibraryVersion(libraryName string) (LibraryCoordinate, bool) {
	if lib, ok := a.Libraries[libraryName]; ok {
		return lib, true
	}
	hyphenated := strings.ReplaceAll(libraryName, ".", "-")
	lib, ok := a.Libraries[hyphenated]
	return lib, ok
}

func (a *ArtefactVersions) GetVersion(ref string) string {
	return a.Versions[ref]
}

func (a *ArtefactVersions) GetPlugin(ref string) (PluginCoordinate, bool) {
	p, ok := a.Plugins[ref]
	return p, ok
}
