package probe

import (
	"os"
	"path/filepath"
	"regexp"

	"gradlebsp/pkg/bsperr"
	"gradlebsp/pkg/model"
)

// AndroidPluginKind enumerates the Android Gradle Plugin application
// kinds the probe distinguishes.
type AndroidPluginKind string

const (
	AndroidApplication   AndroidPluginKind = "application"
	AndroidLibrary       AndroidPluginKind = "library"
	AndroidDynamicFeature AndroidPluginKind = "dynamic-feature"
	AndroidFeature       AndroidPluginKind = "feature"
	AndroidTest          AndroidPluginKind = "test"
)

var androidPluginIDs = map[string]AndroidPluginKind{
	"com.android.application":     AndroidApplication,
	"com.android.library":         AndroidLibrary,
	"com.android.dynamic-feature": AndroidDynamicFeature,
	"com.android.feature":         AndroidFeature,
	"com.android.test":            AndroidTest,
}

// DetectAndroidPlugin reports which Android plugin kind (if any) a
// build file applies, which in turn picks the variant-collection
// accessor ("applicationVariants" vs "libraryVariants", etc.) realized
// as which variant set ProbeAndroidProject below builds.
func DetectAndroidPlugin(buildInfo *BuildFileInfo) (AndroidPluginKind, bool) {
	if buildInfo == nil {
		return "", false
	}
	for _, plugin := range buildInfo.Plugins {
		if kind, ok := androidPluginIDs[plugin]; ok {
			return kind, true
		}
	}
	return "", false
}

// Capability realizes the design note's "capability-probing layer": a
// query that returns either the extracted value or Unavailable,
// substituting for the original's dynamic (reflective) Android member
// lookup. Every Android enrichment in this file is expressed as one of
// these, so a missing AGP-version-specific member degrades to
// "enrichment skipped", never a probe failure.
type Capability[T any] func() (T, bool)

// resolve runs the capability query, turning an unavailable result into
// a CapabilityUnavailableError the caller can fall back on instead of
// propagating.
func (c Capability[T]) resolve(member string) (T, error) {
	v, ok := c()
	if !ok {
		return v, &bsperr.CapabilityUnavailableError{Member: member}
	}
	return v, nil
}

// HasApplicationVariants is the capability query for whether a project
// exposes the application-style variant set (applicationVariants +
// testVariants + unitTestVariants) versus the library-style one.
func HasApplicationVariants(kind AndroidPluginKind) Capability[bool] {
	return func() (bool, bool) {
		return kind == AndroidApplication, true
	}
}

var compileSdkRe = regexp.MustCompile(`compileSdk(?:Version)?\s*=?\s*\(?\s*["']?([A-Za-z0-9._-]+)["']?\)?`)

// CompileSdkVersion is the capability query for a project's declared
// android.compileSdk value. It is unavailable whenever the build file
// can't be read or doesn't declare one, which a real Tooling API model
// would otherwise always supply.
func CompileSdkVersion(buildFilePath string) Capability[string] {
	return func() (string, bool) {
		data, err := os.ReadFile(buildFilePath)
		if err != nil {
			return "", false
		}
		m := compileSdkRe.FindSubmatch(data)
		if m == nil {
			return "", false
		}
		return string(m[1]), true
	}
}

var buildTypeRe = regexp.MustCompile(`create\s*\(\s*["']([^"']+)["']\s*\)`)

// BuildTypes returns Gradle's own default build types (debug, release),
// which every Android project gets from the Android Gradle Plugin,
// followed by each further build type the build file declares with
// create("x"), in declaration order. It also returns just the defaults
// when the file can't be read.
func BuildTypes(buildFilePath string) []string {
	data, err := os.ReadFile(buildFilePath)
	if err != nil {
		return []string{"debug", "release"}
	}
	matches := buildTypeRe.FindAllStringSubmatch(string(data), -1)
	seen := map[string]bool{"debug": true, "release": true}
	types := []string{"debug", "release"}
	for _, m := range matches {
		if !seen[m[1]] {
			seen[m[1]] = true
			types = append(types, m[1])
		}
	}
	return types
}

// ProbeAndroidProject implements the Android probing path: one
// SourceSetModel per variant (each build type, plus its unit-test
// variant for non-test plugin kinds), with synthetic "UNKNOWN" module
// dependencies standing in for the Android SDK bootclasspath and the
// variant's R.jar, which a real Tooling API connection would resolve to
// concrete files.
func ProbeAndroidProject(projectDir string, kind AndroidPluginKind, buildFilePath string) []*model.SourceSetModel {
	var out []*model.SourceSetModel
	for _, buildType := range BuildTypes(buildFilePath) {
		out = append(out, androidVariantModel(projectDir, kind, buildType, false, buildFilePath))
		if kind != AndroidTest {
			out = append(out, androidVariantModel(projectDir, kind, buildType, true, buildFilePath))
		}
	}
	return out
}

func androidVariantModel(projectDir string, kind AndroidPluginKind, buildType string, unitTest bool, buildFilePath string) *model.SourceSetModel {
	variantName := buildType
	if unitTest {
		variantName = buildType + "UnitTest"
	}

	m := model.New(projectDir, variantName)
	m.ProjectName = filepath.Base(projectDir)
	m.RootDir = projectDir
	m.DisplayName = variantName
	m.ClassesTaskName = "assemble" + capitalize(variantName)
	m.CleanTaskName = "clean"
	m.HasTests = unitTest

	sourceSets := []string{"main", buildType}
	if unitTest {
		sourceSets = []string{"main", buildType, "test", "test" + capitalize(buildType)}
	}
	for _, ss := range sourceSets {
		javaDir := filepath.Join(projectDir, "src", ss, "java")
		kotlinDir := filepath.Join(projectDir, "src", ss, "kotlin")
		for _, dir := range []string{javaDir, kotlinDir} {
			if info, err := os.Stat(dir); err == nil && info.IsDir() {
				m.SourceDirs[dir] = struct{}{}
			}
		}
		if !unitTest {
			resDir := filepath.Join(projectDir, "src", ss, "res")
			if info, err := os.Stat(resDir); err == nil && info.IsDir() {
				m.ResourceDirs[resDir] = struct{}{}
			}
		}
	}

	m.SourceOutputDirs[filepath.Join(projectDir, "build", "intermediates", "javac", variantName, "classes")] = struct{}{}
	m.ResourceOutputDirs[filepath.Join(projectDir, "build", "intermediates", "processed_res", variantName)] = struct{}{}

	// Synthetic module dependencies standing in for the Android SDK
	// bootclasspath and this variant's R.jar.
	m.ModuleDependencies = append(m.ModuleDependencies,
		model.ModuleDependency{Group: "UNKNOWN", Name: "android-sdk-bootclasspath", Version: "UNKNOWN"},
		model.ModuleDependency{Group: "UNKNOWN", Name: variantName + "-R", Version: "UNKNOWN"},
	)

	// The variant's compileConfiguration.files, approximated: the SDK
	// bootclasspath jar (named after the declared compileSdk when the
	// capability resolves, "UNKNOWN" otherwise) and this variant's
	// generated R.jar, neither of which this module can resolve to a
	// verified real path without a live Tooling API connection.
	sdk, err := CompileSdkVersion(buildFilePath).resolve("android.compileSdk")
	if err != nil {
		sdk = "UNKNOWN"
	}
	m.CompileClasspath = append(m.CompileClasspath,
		filepath.Join(projectDir, "build", "UNKNOWN", "android-"+sdk+".jar"),
		filepath.Join(projectDir, "build", "intermediates", "compile_r_class_jar", variantName, "R.jar"),
	)

	return m
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] = b[0] - 'a' + 'A'
	}
	return string(b)
}
