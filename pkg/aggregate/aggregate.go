// Package aggregate implements BuildAggregator: it walks the
// repository tree looking for Gradle project directories, probes
// each with a ModelProbe, and flattens the results into a single
// ordered list of SourceSetModels ready for the linker.
//
// This module never opens a real Gradle Tooling API session — there
// is no live controller to submit a batch build-action to. Composite
// and included builds are instead discovered from settings.gradle(.kts)
// `includeBuild(...)` declarations, and per-project parallelism is
// provided in-process by pkg/taskgraph rather than by a remote worker
// pool.
package aggregate

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/go-logr/logr"

	"gradlebsp/pkg/bsperr"
	"gradlebsp/pkg/model"
	"gradlebsp/pkg/probe"
	"gradlebsp/pkg/taskgraph"
)

// Options configures a Run call.
type Options struct {
	Log    logr.Logger
	Probe  probe.ModelProbe // nil defaults to probe.DefaultModelProbe{}
	Opts   probe.ProbeOptions
	Parallelism int // per-project probe fan-out width; <=1 runs sequentially
}

// Result is the flattened, ordered outcome of one aggregation pass.
// Errors holds one entry per project whose probe failed; those
// projects are simply absent from Models, since an individual
// project's probe failure removes only that project from the result
// and the aggregation otherwise succeeds.
type Result struct {
	Models []*model.SourceSetModel
	Errors []error
}

var skipDirNames = map[string]struct{}{
	"node_modules": {}, "build": {}, "out": {}, "bin": {}, "obj": {},
	".gradle": {}, ".idea": {}, ".vscode": {}, ".git": {}, "vendor": {},
	".kotlin": {},
}

// Run discovers every Gradle project under rootDir (the root build
// plus its included/editable builds, in encounter order) and probes
// each, preserving discovery order in the returned Result.
func Run(ctx context.Context, rootDir string, opts Options) (*Result, error) {
	modelProbe := opts.Probe
	if modelProbe == nil {
		modelProbe = probe.DefaultModelProbe{}
	}

	builds, err := discoverBuilds(rootDir)
	if err != nil {
		return nil, &bsperr.ProbeFailureError{ProjectDir: rootDir, Err: err}
	}

	var projectDirs []string
	seen := map[string]struct{}{}
	for _, buildRoot := range builds {
		dirs, err := projectDirsUnder(buildRoot)
		if err != nil {
			return nil, &bsperr.ProbeFailureError{ProjectDir: buildRoot, Err: err}
		}
		for _, dir := range dirs {
			if _, ok := seen[dir]; ok {
				continue
			}
			seen[dir] = struct{}{}
			projectDirs = append(projectDirs, dir)
		}
	}

	tasks := make([]taskgraph.Task, len(projectDirs))
	for i, dir := range projectDirs {
		tasks[i] = &probeTask{index: i, projectDir: dir, probe: modelProbe, opts: opts.Opts}
	}
	graph := taskgraph.NewGraph()
	for _, t := range tasks {
		if err := graph.AddTask(t); err != nil {
			return nil, &bsperr.ProbeFailureError{ProjectDir: rootDir, Err: err}
		}
	}

	runner := taskgraph.NewRunner("", opts.Log)
	results, err := runner.ExecuteWithProgressParallel(ctx, graph, opts.Parallelism, nil)
	if err != nil {
		if ctx.Err() != nil {
			return nil, &bsperr.AggregationCancelledError{Cause: ctx.Err()}
		}
		return nil, &bsperr.ProbeFailureError{ProjectDir: rootDir, Err: err}
	}

	byIndex := make([]taskgraph.ExecutionResult, len(projectDirs))
	for _, r := range results {
		byIndex[r.Task.(*probeTask).index] = r
	}

	out := &Result{}
	for i, r := range byIndex {
		if probeErr, ok := r.Result.Data.(error); ok {
			out.Errors = append(out.Errors, &bsperr.ProbeFailureError{ProjectDir: projectDirs[i], Err: probeErr})
			continue
		}
		models, _ := r.Result.Data.([]*model.SourceSetModel)
		for _, m := range models {
			if field, ok := missingIdentityField(m); ok {
				return nil, &bsperr.ModelDeserializationError{Field: field}
			}
		}
		out.Models = append(out.Models, models...)
	}
	return out, nil
}

// missingIdentityField reports the first mandatory identity field a
// probed model is missing, if any. Unlike a single project's probe
// failure, a structurally invalid model fails the aggregation as a
// whole rather than being silently dropped.
func missingIdentityField(m *model.SourceSetModel) (string, bool) {
	switch {
	case m.ProjectDir == "":
		return "projectDir", true
	case m.SourceSetName == "":
		return "sourceSetName", true
	}
	return "", false
}

// probeTask adapts one project-directory probe into a taskgraph.Task
// so the fan-out reuses the same worker-pool executor the rest of the
// module uses for concurrent work, instead of a bespoke goroutine pool.
type probeTask struct {
	index      int
	projectDir string
	probe      probe.ModelProbe
	opts       probe.ProbeOptions
}

func (t *probeTask) ID() string          { return fmt.Sprintf("probe:%d:%s", t.index, t.projectDir) }
func (t *probeTask) Name() string        { return "probe" }
func (t *probeTask) Directory() string   { return t.projectDir }
func (t *probeTask) TaskType() taskgraph.TaskType { return taskgraph.TaskTypeDeps }
func (t *probeTask) Hash() string        { return t.projectDir }
func (t *probeTask) Dependencies() []taskgraph.Task { return nil }

func (t *probeTask) Execute(ctx context.Context, workDir string, _ []taskgraph.DependencyInput) taskgraph.TaskResult {
	models, err := t.probe.Probe(t.projectDir, t.opts)
	if err != nil {
		// Carried in Data, not Error: the runner stops the whole graph on
		// a task Error, and one project's failure only omits that project.
		return taskgraph.TaskResult{Data: err}
	}
	return taskgraph.TaskResult{Data: models}
}

// discoverBuilds returns the root build directory followed by every
// included/editable build reachable from its settings file, in
// encounter order, de-duplicated by root project name.
func discoverBuilds(rootDir string) ([]string, error) {
	builds := []string{rootDir}
	seenNames := map[string]struct{}{rootProjectName(rootDir): {}}

	queue := []string{rootDir}
	for len(queue) > 0 {
		dir := queue[0]
		queue = queue[1:]

		included, err := includedBuildDirs(dir)
		if err != nil {
			return nil, err
		}
		for _, inc := range included {
			name := rootProjectName(inc)
			if _, ok := seenNames[name]; ok {
				continue
			}
			seenNames[name] = struct{}{}
			builds = append(builds, inc)
			queue = append(queue, inc)
		}
	}
	return builds, nil
}

var includeBuildRe = regexp.MustCompile(`includeBuild\s*\(\s*["']([^"']+)["']\s*\)`)

func includedBuildDirs(buildRoot string) ([]string, error) {
	settingsPath := settingsFile(buildRoot)
	if settingsPath == "" {
		return nil, nil
	}
	f, err := os.Open(settingsPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var dirs []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		m := includeBuildRe.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		dirs = append(dirs, filepath.Clean(filepath.Join(buildRoot, m[1])))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return dirs, nil
}

func settingsFile(dir string) string {
	for _, name := range []string{"settings.gradle.kts", "settings.gradle"} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

var rootProjectNameRe = regexp.MustCompile(`rootProject\.name\s*=\s*["']([^"']+)["']`)

func rootProjectName(dir string) string {
	settingsPath := settingsFile(dir)
	if settingsPath == "" {
		return filepath.Base(dir)
	}
	content, err := os.ReadFile(settingsPath)
	if err != nil {
		return filepath.Base(dir)
	}
	if m := rootProjectNameRe.FindStringSubmatch(string(content)); m != nil {
		return m[1]
	}
	return filepath.Base(dir)
}

// projectDirsUnder walks a single build's directory tree (not
// descending into a nested directory with its own settings file: that
// is a separate build, and an included one is discovered separately by
// discoverBuilds) collecting every directory containing
// a build.gradle(.kts) file. Deepest-first is not required here since
// order only needs to be stable, not bottom-up: this walk has no
// potential-dependency threading to do, unlike a task-ordering walk.
func projectDirsUnder(buildRoot string) ([]string, error) {
	var dirs []string
	err := filepath.WalkDir(buildRoot, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		name := d.Name()
		if path != buildRoot && strings.HasPrefix(name, ".") {
			return filepath.SkipDir
		}
		if _, skip := skipDirNames[name]; skip {
			return filepath.SkipDir
		}
		if path != buildRoot && settingsFile(path) != "" {
			return filepath.SkipDir
		}
		if hasBuildFile(path) {
			dirs = append(dirs, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(dirs)
	return dirs, nil
}

func hasBuildFile(dir string) bool {
	for _, name := range []string{"build.gradle.kts", "build.gradle"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}
