// Package driver holds the collaborator contracts the build-server
// core depends on (GradleDriver, BuildInvoker, PluginInjector) plus one
// concrete
// shell-exec-based implementation of each. There is no live Gradle
// Tooling API connection anywhere in this module; Connection and the
// progress event stream are the shapes a real Tooling API session
// would hand back, adapted so the rest of the pipeline can be written
// against the interface regardless.
package driver

import (
	"context"

	"gradlebsp/pkg/bsperr"
	"gradlebsp/pkg/compat"
	"gradlebsp/pkg/config"
)

// Connection is what GradleDriver.Connect returns: enough to run a
// build or query compatibility, scoped to one project root.
type Connection struct {
	ProjectRoot   string
	GradleCommand string
	GradleVersion string
}

// GradleDriver configures and opens a connection to a project's
// effective Gradle build (wrapper / explicit version / explicit
// installation / default), and exposes Gradle/JDK compatibility
// helpers.
type GradleDriver interface {
	Connect(ctx context.Context, projectRoot string, prefs *config.Preferences) (Connection, error)
	LatestCompatibleJavaVersion(gradleVersion string) string
	OldestCompatibleJavaVersion() string
}

// ProgressEvent is one line of a Gradle invocation's output stream,
// opaque to the core.
type ProgressEvent struct {
	Line   string
	IsTest bool
}

// BuildInvoker runs a build or test invocation against a Connection,
// streaming progress events back to the caller.
type BuildInvoker interface {
	RunBuild(ctx context.Context, conn Connection, taskNames []string, args []string, env []string) (<-chan ProgressEvent, error)
	RunTests(ctx context.Context, conn Connection, targetSelectors []string) (<-chan ProgressEvent, error)
}

// PluginInjector returns the filesystem path of the Gradle init script
// that applies the probe plugin, stored under the server's plugin
// directory.
type PluginInjector interface {
	InitScriptPath() (string, error)
}

// DefaultGradleDriver is the shell-exec-based GradleDriver: it never
// dials a Tooling API daemon, it resolves the effective `gradle`
// command and reports the version by running `gradle --version`.
type DefaultGradleDriver struct{}

// Connect implements GradleDriver.
func (DefaultGradleDriver) Connect(ctx context.Context, projectRoot string, prefs *config.Preferences) (Connection, error) {
	gradleHome := config.ResolveGradleHome(prefs)

	cmd := config.GradleCommand(projectRoot, gradleHome)
	version, err := gradleVersion(ctx, projectRoot, cmd)
	if err != nil {
		return Connection{}, err
	}
	if !compat.IsSupportedGradleVersion(version) {
		return Connection{}, &bsperr.VersionUnsupportedError{
			GradleVersion: version,
			MinSupported:  compat.MinimumSupportedGradleVersion,
		}
	}
	return Connection{ProjectRoot: projectRoot, GradleCommand: cmd, GradleVersion: version}, nil
}

// LatestCompatibleJavaVersion implements GradleDriver.
func (DefaultGradleDriver) LatestCompatibleJavaVersion(gradleVersion string) string {
	return compat.LatestCompatibleJavaVersion(gradleVersion)
}

// OldestCompatibleJavaVersion implements GradleDriver.
func (DefaultGradleDriver) OldestCompatibleJavaVersion() string {
	return compat.OldestCompatibleJavaVersion()
}
