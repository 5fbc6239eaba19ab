// Package link implements DependencyLinker: a pure function over the
// flat SourceSetModel list that rewrites classpath
// entries pointing at sibling outputs into build-target dependency
// edges, and substitutes archive classpath entries with their known
// class-directory expansions.
package link

import (
	"gradlebsp/pkg/model"
)

// Link runs in three passes:
//  1. build outputs[file] -> model and archiveExpansion[file] -> []file
//     indices over the full list;
//  2. for each model, walk its classpath in order, replacing archive
//     entries with their expansion and recording sibling dependencies,
//     leaving unrecognized entries untouched;
//  3. replace each model's CompileClasspath and BuildTargetDependencies.
//
// Link does not mutate its input; it returns new model values sharing
// unrelated fields with the input so callers that keep the original
// slice around see no surprises.
func Link(models []*model.SourceSetModel) []*model.SourceSetModel {
	outputs := map[string]*model.SourceSetModel{}
	archiveExpansion := map[string][]string{}

	for _, m := range models {
		for dir := range m.SourceOutputDirs {
			outputs[dir] = m
		}
		for dir := range m.ResourceOutputDirs {
			outputs[dir] = m
		}
		for archive, classDirs := range m.ArchiveOutputFiles {
			outputs[archive] = m
			archiveExpansion[archive] = classDirs
		}
	}

	out := make([]*model.SourceSetModel, len(models))
	for i, m := range models {
		out[i] = linkOne(m, outputs, archiveExpansion)
	}
	return out
}

func linkOne(m *model.SourceSetModel, outputs map[string]*model.SourceSetModel, archiveExpansion map[string][]string) *model.SourceSetModel {
	linked := *m // shallow copy; replace only the two fields the linker owns

	newClasspath := make([]string, 0, len(m.CompileClasspath))
	newDeps := map[model.BuildTargetRef]struct{}{}
	for k := range m.BuildTargetDependencies {
		newDeps[k] = struct{}{} // preserve any dependency edges the probe itself recorded
	}

	for _, entry := range m.CompileClasspath {
		if owner, ok := outputs[entry]; ok && owner != m {
			newDeps[owner.Identity()] = struct{}{}
		}

		if expansion, ok := archiveExpansion[entry]; ok {
			// Self-reference exclusion: an archive built from this
			// model's own outputs never creates a self-dependency and
			// is still expanded in place.
			newClasspath = append(newClasspath, expansion...)
			continue
		}

		newClasspath = append(newClasspath, entry)
	}

	linked.CompileClasspath = newClasspath
	linked.BuildTargetDependencies = newDeps
	return &linked
}

// ProjectPathOf converts a project directory into a Gradle-style
// colon-separated project path (":a:b") by walking upward to the
// nearest settings.gradle(.kts).
func ProjectPathOf(rootDir, projectDir string) string {
	return projectPathOf(rootDir, projectDir)
}
