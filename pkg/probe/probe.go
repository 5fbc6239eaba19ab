package probe

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-logr/logr"

	"gradlebsp/pkg/model"
)

// ModelProbe is the per-project extractor BuildAggregator invokes once
// per discovered project. An error from Probe never fails the whole
// aggregation: BuildAggregator omits that project, discarding any models
// returned alongside the error, and keeps the rest.
type ModelProbe interface {
	Probe(projectDir string, opts ProbeOptions) ([]*model.SourceSetModel, error)
}

// ProbeOptions threads the environment a probe needs without forcing
// every call site to rebuild a GradleUserHome/Offline pair.
type ProbeOptions struct {
	GradleUserHome string
	Offline        bool
	Repositories   []string
	Log            logr.Logger
}

func (o ProbeOptions) classifierOpts() ResolveClassifierOpts {
	return ResolveClassifierOpts{
		GradleUserHome: o.GradleUserHome,
		Remote:         !o.Offline,
		Repositories:   o.Repositories,
	}
}

// DefaultModelProbe dispatches to the Java or Android path based on
// which plugins the project's build file declares.
type DefaultModelProbe struct{}

// Probe implements ModelProbe.
func (DefaultModelProbe) Probe(projectDir string, opts ProbeOptions) ([]*model.SourceSetModel, error) {
	log := opts.Log
	buildFilePath := locateBuildFile(projectDir)
	if buildFilePath == "" {
		return nil, fmt.Errorf("no build.gradle(.kts) found in %s", projectDir)
	}

	buildInfo, err := ParseBuildFile(buildFilePath)
	if err != nil {
		log.Error(err, "build file parse failed, continuing without dependency data", "project", projectDir)
		buildInfo = &BuildFileInfo{ProjectDir: projectDir}
	}

	var catalog *ArtefactVersions
	if catalogPath := FindVersionCatalog(projectDir); catalogPath != "" {
		catalog, err = ParseVersionCatalog(catalogPath)
		if err != nil {
			log.Error(err, "version catalog parse failed, continuing without catalog resolution", "catalog", catalogPath)
		}
	}

	if kind, ok := DetectAndroidPlugin(buildInfo); ok {
		return ProbeAndroidProject(projectDir, kind, buildFilePath), nil
	}
	return ProbeJavaProject(projectDir, catalog, buildInfo, opts.classifierOpts()), nil
}

func locateBuildFile(projectDir string) string {
	for _, name := range []string{"build.gradle.kts", "build.gradle"} {
		candidate := filepath.Join(projectDir, name)
		if fileExists(candidate) {
			return candidate
		}
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
