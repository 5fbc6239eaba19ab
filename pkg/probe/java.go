package probe

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gradlebsp/pkg/link"
	"gradlebsp/pkg/model"
)

// discoverSourceSetNames lists the directories directly under
// projectDir/src, each one a candidate source set name ("main", "test",
// and any custom source set a project has registered).
func discoverSourceSetNames(projectDir string) []string {
	entries, err := os.ReadDir(filepath.Join(projectDir, "src"))
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}

// ProbeJavaProject implements the non-Android probing path: one
// SourceSetModel per conventional src/<name> directory, populated from
// filesystem scanning (sourceDirs), the version catalog (moduleDependencies'
// version resolution), and a best-effort build-file parse
// (external/project dependency declarations), since no live Tooling
// API connection is available in this module.
func ProbeJavaProject(projectDir string, catalog *ArtefactVersions, buildInfo *BuildFileInfo, opts ResolveClassifierOpts) []*model.SourceSetModel {
	var out []*model.SourceSetModel
	for _, name := range discoverSourceSetNames(projectDir) {
		m := probeOneSourceSet(projectDir, name, catalog, buildInfo, opts)
		if m != nil {
			out = append(out, m)
		}
	}
	return out
}

func probeOneSourceSet(projectDir, sourceSetName string, catalog *ArtefactVersions, buildInfo *BuildFileInfo, opts ResolveClassifierOpts) *model.SourceSetModel {
	langDirs := LanguageSourceDirs(projectDir, sourceSetName)
	if len(langDirs) == 0 {
		return nil
	}

	m := model.New(projectDir, sourceSetName)
	m.ProjectName = filepath.Base(projectDir)
	m.RootDir = projectDir
	m.DisplayName = sourceSetName
	m.ClassesTaskName = classesTaskName(sourceSetName)
	m.CleanTaskName = "clean"
	m.TaskNames[m.ClassesTaskName] = struct{}{}

	hasTests := false
	for lang, dir := range langDirs {
		m.SourceDirs[dir] = struct{}{}
		outDir := filepath.Join(projectDir, "build", "classes", lang, sourceSetName)
		m.SourceOutputDirs[outDir] = struct{}{}
		ext := model.LanguageExtension{Language: lang}
		if lang == "java" {
			ext.SourceCompatibility = "17"
			ext.TargetCompatibility = "17"
			ext.JavaVersion = "17"
		}
		m.Extensions[lang] = ext
		if DirHasTestSources(dir) {
			hasTests = true
		}
	}
	m.HasTests = hasTests

	resourceDir := filepath.Join(projectDir, "src", sourceSetName, "resources")
	if info, err := os.Stat(resourceDir); err == nil && info.IsDir() {
		m.ResourceDirs[resourceDir] = struct{}{}
	}
	m.ResourceOutputDirs[filepath.Join(projectDir, "build", "resources", sourceSetName)] = struct{}{}

	if sourceSetName == "main" {
		jarPath := filepath.Join(projectDir, "build", "libs", filepath.Base(projectDir)+".jar")
		var classDirs []string
		for dir := range m.SourceOutputDirs {
			classDirs = append(classDirs, dir)
		}
		sort.Strings(classDirs)
		m.ArchiveOutputFiles[jarPath] = classDirs
	}

	if buildInfo != nil {
		populateDependencies(m, buildInfo, catalog, opts, projectDir)
	}

	return m
}

func classesTaskName(sourceSetName string) string {
	if sourceSetName == "main" {
		return "classes"
	}
	return sourceSetName + "Classes"
}

// populateDependencies records one ModuleDependency per external
// declaration and per catalog declaration the catalog resolves (each
// with a group and name), and one CompileClasspath entry per project
// declaration and per such dependency whose main jar was found in the
// local module cache. CompileClasspath entries must be resolved absolute files (jars
// or class dirs), not the raw build-file line, since pkg/link matches
// classpath entries against sibling models' known outputs by exact path
// equality.
func populateDependencies(m *model.SourceSetModel, buildInfo *BuildFileInfo, catalog *ArtefactVersions, opts ResolveClassifierOpts, projectDir string) {
	for _, dep := range buildInfo.Dependencies {
		switch dep.Kind {
		case DependencyExternal:
			if path := addModuleDependency(m, dep.Group, dep.Name, dep.Version, opts); path != "" {
				m.CompileClasspath = append(m.CompileClasspath, path)
			}
		case DependencyCatalog:
			if catalog == nil {
				continue
			}
			if lib, ok := catalog.GetLibraryVersion(dep.CatalogRef); ok {
				if path := addModuleDependency(m, lib.Group, lib.Name, lib.Version, opts); path != "" {
					m.CompileClasspath = append(m.CompileClasspath, path)
				}
			}
		case DependencyProject:
			// The sibling project's expected main-jar output; pkg/link
			// resolves this into a BuildTargetDependency edge once all
			// models are available, matching it against the sibling's own
			// ArchiveOutputFiles key by exact path.
			siblingDir := link.ResolveProjectDir(projectDir, dep.ProjectPath)
			jarPath := filepath.Join(siblingDir, "build", "libs", filepath.Base(siblingDir)+".jar")
			m.CompileClasspath = append(m.CompileClasspath, jarPath)
		}
	}
}

// addModuleDependency records dep in m.ModuleDependencies and returns
// its resolved main-classifier path (the absolute file, with the
// file:// prefix stripped) for use as a CompileClasspath entry, or ""
// when no local main artifact was resolved.
func addModuleDependency(m *model.SourceSetModel, group, name, version string, opts ResolveClassifierOpts) string {
	if group == "" || name == "" {
		return ""
	}
	dep := model.ModuleDependency{
		Group:       group,
		Name:        name,
		Version:     version,
		Classifiers: ResolveClassifiers(group, name, version, opts),
	}
	m.ModuleDependencies = append(m.ModuleDependencies, dep)
	return strings.TrimPrefix(dep.Classifiers["main"], "file://")
}
