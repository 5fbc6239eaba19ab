// Package target implements TargetGraph: the current published
// snapshot of BuildTargets, replaced atomically on every
// aggregation pass and looked up by URI or by (projectDir,
// sourceSetName) pair.
package target

import (
	"sort"
	"strings"
	"sync"

	"gradlebsp/pkg/bsp"
	"gradlebsp/pkg/bsperr"
	"gradlebsp/pkg/model"
)

// Entry pairs a normalized source-set model with the BuildTarget
// derived from it.
type Entry struct {
	Model       *model.SourceSetModel
	BuildTarget bsp.BuildTarget
}

// Graph holds the current snapshot behind a RWMutex. Reads never block
// each other; a store() swaps the whole snapshot in one critical
// section so readers never observe a partially-updated graph.
type Graph struct {
	mu       sync.RWMutex
	byURI    map[string]Entry
	byRef    map[model.BuildTargetRef]Entry
	ordered  []Entry
}

// New returns an empty Graph. getAll()/lookups on an empty Graph simply
// find nothing; store() must be called at least once before any
// dependent build target exists.
func New() *Graph {
	return &Graph{byURI: map[string]Entry{}, byRef: map[model.BuildTargetRef]Entry{}}
}

// Store atomically replaces the current snapshot with one BuildTarget
// per model, preserving the input order (the aggregator's discovery
// order).
func (g *Graph) Store(models []*model.SourceSetModel) []Entry {
	ordered := make([]Entry, len(models))
	byURI := make(map[string]Entry, len(models))
	byRef := make(map[model.BuildTargetRef]Entry, len(models))

	for i, m := range models {
		entry := Entry{Model: m, BuildTarget: buildTargetFor(m)}
		ordered[i] = entry
		byURI[entry.BuildTarget.ID] = entry
		byRef[m.Identity()] = entry
	}

	g.mu.Lock()
	g.ordered = ordered
	g.byURI = byURI
	g.byRef = byRef
	g.mu.Unlock()

	return ordered
}

// GetAll returns every entry in the current snapshot, in stable order.
func (g *Graph) GetAll() []Entry {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]Entry, len(g.ordered))
	copy(out, g.ordered)
	return out
}

// GetByURI looks up a single entry by build target URI.
func (g *Graph) GetByURI(uri string) (Entry, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	entry, ok := g.byURI[uri]
	if !ok {
		return Entry{}, &bsperr.TargetNotFoundError{Key: uri}
	}
	return entry, nil
}

// GetByProjectAndSourceSet looks up a single entry by its (projectDir,
// sourceSetName) identity pair.
func (g *Graph) GetByProjectAndSourceSet(projectDir, sourceSetName string) (Entry, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	entry, ok := g.byRef[model.BuildTargetRef{ProjectDir: projectDir, SourceSetName: sourceSetName}]
	if !ok {
		return Entry{}, &bsperr.TargetNotFoundError{Key: projectDir + "?sourceset=" + sourceSetName}
	}
	return entry, nil
}

func buildTargetFor(m *model.SourceSetModel) bsp.BuildTarget {
	id := bsp.BuildTargetURI(m.ProjectDir, m.SourceSetName)

	tags := tagsFor(m)
	languageIds := languageIdsFor(m)
	deps := dependencyURIsFor(m)

	bt := bsp.BuildTarget{
		ID:            id,
		DisplayName:   m.DisplayName,
		BaseDirectory: "file://" + m.ProjectDir,
		Tags:          tags,
		LanguageIds:   languageIds,
		Dependencies:  deps,
		Capabilities: bsp.BuildTargetCapabilities{
			CanCompile: m.ClassesTaskName != "",
			CanTest:    m.IsTestSourceSet(),
			CanRun:     containsTag(tags, bsp.TagApplication),
		},
	}

	if ext, ok := jvmExtension(m); ok {
		bt.DataKind = bsp.DataKindJVM
		bt.Data = bsp.JVMBuildTargetData{
			JavaVersion:         ext.JavaVersion,
			GradleVersion:       m.GradleVersion,
			SourceCompatibility: ext.SourceCompatibility,
			TargetCompatibility: ext.TargetCompatibility,
		}
	}

	return bt
}

func tagsFor(m *model.SourceSetModel) []string {
	var tags []string
	isTest := m.IsTestSourceSet()
	if isTest {
		tags = append(tags, bsp.TagTest)
	}
	if !isTest && len(m.SourceDirs) > 0 && isLibrarySourceSet(m.SourceSetName) {
		tags = append(tags, bsp.TagLibrary)
	}
	return tags
}

// isLibrarySourceSet restricts the "library" tag to source sets whose
// name does not contain "test" in any letter case: main, non-test
// Android variants and any other such custom source set. This excludes
// custom source sets such as "integrationTest" that carry source dirs
// but no test evidence.
func isLibrarySourceSet(sourceSetName string) bool {
	if sourceSetName == "main" {
		return true
	}
	return !strings.Contains(strings.ToLower(sourceSetName), "test")
}

func containsTag(tags []string, want string) bool {
	for _, t := range tags {
		if t == want {
			return true
		}
	}
	return false
}

// languagePrecedence decides which language's data populates the JVM
// payload when a source set carries more than one JVM language
// extension: Scala takes the
// data payload over Kotlin, which takes it over Java. languageIds
// still lists every language present; only the chosen dataKind/data
// extension follows this order.
var languagePrecedence = []string{bsp.LanguageScala, bsp.LanguageKotlin, bsp.LanguageJava, bsp.LanguageGroovy}

func languageIdsFor(m *model.SourceSetModel) []string {
	present := make([]string, 0, len(m.Extensions))
	for lang := range m.Extensions {
		present = append(present, lang)
	}
	sort.Strings(present)
	return present
}

func jvmExtension(m *model.SourceSetModel) (model.LanguageExtension, bool) {
	for _, lang := range languagePrecedence {
		if ext, ok := m.Extensions[lang]; ok {
			return ext, true
		}
	}
	return model.LanguageExtension{}, false
}

func dependencyURIsFor(m *model.SourceSetModel) []string {
	refs := make([]model.BuildTargetRef, 0, len(m.BuildTargetDependencies))
	for ref := range m.BuildTargetDependencies {
		refs = append(refs, ref)
	}
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].ProjectDir != refs[j].ProjectDir {
			return refs[i].ProjectDir < refs[j].ProjectDir
		}
		return refs[i].SourceSetName < refs[j].SourceSetName
	})

	uris := make([]string, len(refs))
	for i, ref := range refs {
		uris[i] = bsp.BuildTargetURI(ref.ProjectDir, ref.SourceSetName)
	}
	return uris
}
