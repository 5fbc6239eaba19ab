// Package compat implements the Gradle/JDK compatibility table referenced
// by the GradleDriver contract: given a Gradle version, which JDK
// versions can run it.
package compat

import (
	"sort"

	hcversion "github.com/hashicorp/go-version"
)

// entry pairs a minimum Gradle version with the highest JDK it supports.
// Drawn from Gradle's published Java compatibility matrix
// (https://docs.gradle.org/current/userguide/compatibility.html),
// ordered ascending by MinGradle.
type entry struct {
	MinGradle *hcversion.Version
	MaxJava   string
}

var table = buildTable()

func buildTable() []entry {
	raw := []struct {
		minGradle string
		maxJava   string
	}{
		{"2.0", "1.8"},
		{"4.7", "10"},
		{"4.8", "11"},
		{"5.4", "12"},
		{"6.0", "13"},
		{"6.3", "14"},
		{"6.7", "15"},
		{"7.0", "16"},
		{"7.2", "17"},
		{"7.5", "18"},
		{"8.1", "19"},
		{"8.3", "20"},
		{"8.5", "21"},
		{"8.8", "22"},
	}
	out := make([]entry, 0, len(raw))
	for _, r := range raw {
		out = append(out, entry{MinGradle: hcversion.Must(hcversion.NewVersion(r.minGradle)), MaxJava: r.maxJava})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MinGradle.LessThan(out[j].MinGradle) })
	return out
}

// MinimumSupportedGradleVersion is the floor of the table: versions
// below this are refused outright rather than merely given a degraded
// Java-compatibility answer.
const MinimumSupportedGradleVersion = "2.0"

var minSupportedGradle = hcversion.Must(hcversion.NewVersion(MinimumSupportedGradleVersion))

// IsSupportedGradleVersion reports whether gradleVersion parses and is
// at or above MinimumSupportedGradleVersion.
func IsSupportedGradleVersion(gradleVersion string) bool {
	v, err := hcversion.NewVersion(gradleVersion)
	if err != nil {
		return false
	}
	return v.GreaterThanOrEqual(minSupportedGradle)
}

// OldestCompatibleJavaVersion is the floor of the table: every Gradle
// version this adapter is expected to talk to supports at least this
// JDK.
func OldestCompatibleJavaVersion() string {
	return "1.8"
}

// LatestCompatibleJavaVersion returns the highest JDK version string
// supported by gradleVersion per the published compatibility matrix, or
// "" if gradleVersion predates the table (below 2.0) or fails to parse.
func LatestCompatibleJavaVersion(gradleVersion string) string {
	v, err := hcversion.NewVersion(gradleVersion)
	if err != nil {
		return ""
	}
	best := ""
	for _, e := range table {
		if v.GreaterThanOrEqual(e.MinGradle) {
			best = e.MaxJava
		}
	}
	return best
}
