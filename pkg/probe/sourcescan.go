package probe

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// jvmLanguages are the source-set languages the non-Android path
// enumerates: java, kotlin, scala, and groovy source directories.
var jvmLanguages = []string{"java", "kotlin", "scala", "groovy"}

// LanguageSourceDirs maps each language present under
// src/<sourceSetName>/<lang> to its absolute directory path. A language
// with no such directory is omitted.
func LanguageSourceDirs(projectDir, sourceSetName string) map[string]string {
	dirs := map[string]string{}
	for _, lang := range jvmLanguages {
		candidate := filepath.Join(projectDir, "src", sourceSetName, lang)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			dirs[lang] = candidate
		}
	}
	return dirs
}

// HasSourceFiles reports whether dir (non-recursively) contains at
// least one file with the given extension.
func HasSourceFiles(dir, extension string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), extension) {
			return true
		}
	}
	return false
}

// testAnnotationPatterns are the import/annotation signatures that mark
// a source file as containing tests.
var testAnnotationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`@Test\b`),
	regexp.MustCompile(`@org\.junit\.jupiter\.api\.Test`),
	regexp.MustCompile(`@org\.junit\.Test`),
	regexp.MustCompile(`import\s+org\.junit`),
	regexp.MustCompile(`import\s+org\.junit\.jupiter`),
	regexp.MustCompile(`@Suite\b`),
}

// DirHasTestSources decides "has tests" by evidence rather than name
// alone: walk the directory's source files (non-recursively, one
// level, matching the conventional <lang> source-dir layout) and
// confirm at least one actually references a test annotation or JUnit
// import.
func DirHasTestSources(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !strings.HasSuffix(entry.Name(), ".kt") && !strings.HasSuffix(entry.Name(), ".java") {
			continue
		}
		content, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}
		text := string(content)
		for _, pattern := range testAnnotationPatterns {
			if pattern.MatchString(text) {
				return true
			}
		}
	}
	return false
}
