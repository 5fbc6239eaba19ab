// Package model defines the owned, serializable record types that cross
// the boundary between Gradle's project model (reached only through the
// probe and aggregator) and the rest of the pipeline. Nothing downstream
// of this package ever references a Gradle proxy object directly.
package model

import "sort"

// ModuleDependency is an external artifact resolved on some classpath,
// keyed by its Maven coordinate. Classifiers maps a classifier name
// ("", "sources", "javadoc") to the file URI of that artifact, when
// known. An empty classifier key denotes the main artifact.
type ModuleDependency struct {
	Group       string
	Name        string
	Version     string
	Classifiers map[string]string
}

// Coordinate renders the dependency as "group:name:version".
func (d ModuleDependency) Coordinate() string {
	return d.Group + ":" + d.Name + ":" + d.Version
}

// BuildTargetRef identifies a sibling SourceSetModel by the pair that
// TargetGraph also uses for its secondary index.
type BuildTargetRef struct {
	ProjectDir    string
	SourceSetName string
}

// LanguageExtension carries the Java-family compiler settings attached
// to a source set. Kotlin/Scala/Groovy reuse the same shape. The probe
// in this module never fills CompilerArgs, for any language: it stays
// empty.
type LanguageExtension struct {
	Language            string
	JavaVersion         string
	SourceCompatibility string
	TargetCompatibility string
	CompilerArgs        []string
}

// SourceSetModel is one (project, source-set-or-variant) record as
// produced by ModelProbe, never mutated in place afterwards
// (DependencyLinker returns rewritten copies), and immutable from the
// moment TargetGraph.store publishes it.
type SourceSetModel struct {
	// Identity
	ProjectName   string
	ProjectPath   string // Gradle-style ":a:b"
	ProjectDir    string // absolute
	RootDir       string
	SourceSetName string
	DisplayName   string
	GradleVersion string

	// Tasks
	ClassesTaskName string
	CleanTaskName   string
	TaskNames       map[string]struct{}

	// Directories (sets of absolute paths)
	SourceDirs          map[string]struct{}
	GeneratedSourceDirs map[string]struct{}
	ResourceDirs        map[string]struct{}
	SourceOutputDirs    map[string]struct{}
	ResourceOutputDirs  map[string]struct{}

	// Outputs: archive path -> class dirs it bundles
	ArchiveOutputFiles map[string][]string

	// Classpath: ordered, absolute files (jars and class dirs)
	CompileClasspath []string

	// Dependencies
	ModuleDependencies      []ModuleDependency
	BuildTargetDependencies map[BuildTargetRef]struct{}

	// Capabilities
	HasTests   bool
	Extensions map[string]LanguageExtension
}

// New returns a SourceSetModel with every set/map field initialized, so
// callers never need a nil check before inserting.
func New(projectDir, sourceSetName string) *SourceSetModel {
	return &SourceSetModel{
		ProjectDir:              projectDir,
		SourceSetName:           sourceSetName,
		TaskNames:               map[string]struct{}{},
		SourceDirs:              map[string]struct{}{},
		GeneratedSourceDirs:     map[string]struct{}{},
		ResourceDirs:            map[string]struct{}{},
		SourceOutputDirs:        map[string]struct{}{},
		ResourceOutputDirs:      map[string]struct{}{},
		ArchiveOutputFiles:      map[string][]string{},
		BuildTargetDependencies: map[BuildTargetRef]struct{}{},
		Extensions:              map[string]LanguageExtension{},
	}
}

// Identity returns the (projectDir, sourceSetName) pair used as a
// secondary lookup key and as the unit DependencyLinker resolves
// classpath entries to.
func (m *SourceSetModel) Identity() BuildTargetRef {
	return BuildTargetRef{ProjectDir: m.ProjectDir, SourceSetName: m.SourceSetName}
}

// SortedModuleDependencies returns ModuleDependencies ordered by
// coordinate, for deterministic display and test comparisons.
func (m *SourceSetModel) SortedModuleDependencies() []ModuleDependency {
	out := make([]ModuleDependency, len(m.ModuleDependencies))
	copy(out, m.ModuleDependencies)
	sort.Slice(out, func(i, j int) bool { return out[i].Coordinate() < out[j].Coordinate() })
	return out
}

// IsTestSourceSet applies the open-question resolution from the design
// notes: a source set is a test source set when HasTests is set, or when
// its name is a test convention ("test", "androidTest", "unitTest") and
// it has at least one source dir. The name alone is never enough.
func (m *SourceSetModel) IsTestSourceSet() bool {
	if m.HasTests {
		return true
	}
	switch m.SourceSetName {
	case "test", "androidTest", "unitTest":
		return len(m.SourceDirs) > 0
	}
	return false
}
