package bsp

// Tag values a BuildTarget.Tags entry may take.
const (
	TagLibrary     = "library"
	TagTest        = "test"
	TagApplication = "application"
)

// Language ID values a BuildTarget.LanguageIds entry may take.
const (
	LanguageJava   = "java"
	LanguageScala  = "scala"
	LanguageKotlin = "kotlin"
	LanguageGroovy = "groovy"
)

// BuildTargetCapabilities mirrors the BSP 2.x capability flags.
type BuildTargetCapabilities struct {
	CanCompile bool `json:"canCompile"`
	CanTest    bool `json:"canTest"`
	CanRun     bool `json:"canRun"`
}

// BuildTarget is the BSP-facing payload for one SourceSetModel, as
// constructed by TargetGraph. DataKind/Data follow the BSP convention
// of a discriminated union serialized as an opaque JSON blob.
type BuildTarget struct {
	ID            string                  `json:"id"`
	DisplayName   string                  `json:"displayName"`
	BaseDirectory string                  `json:"baseDirectory"`
	Tags          []string                `json:"tags"`
	LanguageIds   []string                `json:"languageIds"`
	Dependencies  []string                `json:"dependencies"`
	Capabilities  BuildTargetCapabilities `json:"capabilities"`
	DataKind      string                  `json:"dataKind,omitempty"`
	Data          any                     `json:"data,omitempty"`
}

// JVMBuildTargetData is the extended JVM payload: the standard
// javaHome/javaVersion fields plus the Gradle-specific superset
// gradleVersion/sourceCompatibility/targetCompatibility.
type JVMBuildTargetData struct {
	JavaHome            string `json:"javaHome,omitempty"`
	JavaVersion         string `json:"javaVersion,omitempty"`
	GradleVersion       string `json:"gradleVersion,omitempty"`
	SourceCompatibility string `json:"sourceCompatibility,omitempty"`
	TargetCompatibility string `json:"targetCompatibility,omitempty"`
}

// DataKindJVM is the dataKind discriminator used whenever a JVM
// language extension (java, scala, kotlin or groovy) is present on the
// originating model.
const DataKindJVM = "jvm"
