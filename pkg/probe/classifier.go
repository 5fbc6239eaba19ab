package probe

import (
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// ResolveClassifierOpts controls ResolveClassifiers' willingness to
// reach the network: with Remote=true, a sources/javadoc classifier
// missing from the local Gradle module cache is looked up in the
// Maven repositories.
type ResolveClassifierOpts struct {
	GradleUserHome string
	Remote         bool
	Repositories   []string
}

// ResolveClassifiers computes, for one module coordinate, the file URIs
// of its main/sources/javadoc classifiers. Local Gradle module-cache
// paths are checked first; a classifier absent locally is included
// only when opts.Remote confirms it exists via the artifact's Maven
// POM.
func ResolveClassifiers(group, name, version string, opts ResolveClassifierOpts) map[string]string {
	classifiers := map[string]string{}
	for _, c := range []string{"", "sources", "javadoc"} {
		if local := localModulePath(opts.GradleUserHome, group, name, version, c); local != "" {
			classifiers[classifierKey(c)] = "file://" + local
		}
	}
	if opts.Remote {
		for _, c := range []string{"sources", "javadoc"} {
			key := classifierKey(c)
			if _, ok := classifiers[key]; ok {
				continue
			}
			if uri, ok := resolveRemoteClassifier(group, name, version, c, opts.Repositories); ok {
				classifiers[key] = uri
			}
		}
	}
	return classifiers
}

func classifierKey(c string) string {
	if c == "" {
		return "main"
	}
	return c
}

// localModulePath mirrors Gradle's own module cache layout:
// $GRADLE_USER_HOME/caches/modules-2/files-2.1/<group>/<name>/<version>/<hash>/<name>-<version>[-classifier].jar
// Since the hash directory is content-addressed and unknown ahead of
// time, this walks the version directory looking for a matching
// filename rather than constructing the full path directly.
func localModulePath(gradleUserHome, group, name, version, classifier string) string {
	if gradleUserHome == "" {
		return ""
	}
	versionDir := filepath.Join(gradleUserHome, "caches", "modules-2", "files-2.1", group, name, version)
	entries, err := os.ReadDir(versionDir)
	if err != nil {
		return ""
	}
	wantSuffix := ".jar"
	wantBase := name + "-" + version
	if classifier != "" {
		wantBase += "-" + classifier
	}
	for _, hashEntry := range entries {
		if !hashEntry.IsDir() {
			continue
		}
		hashDir := filepath.Join(versionDir, hashEntry.Name())
		files, err := os.ReadDir(hashDir)
		if err != nil {
			continue
		}
		for _, f := range files {
			fname := f.Name()
			if strings.HasSuffix(fname, wantSuffix) && strings.HasPrefix(fname, wantBase) {
				// Reject accidental prefix matches, e.g. "foo-1.0-extra.jar"
				// matching a request for "foo-1.0.jar".
				rest := strings.TrimSuffix(strings.TrimPrefix(fname, wantBase), wantSuffix)
				if rest == "" {
					return filepath.Join(hashDir, fname)
				}
			}
		}
	}
	return ""
}

// mavenPOM is the subset of a Maven POM needed to confirm a classifier
// artifact exists remotely.
type mavenPOM struct {
	XMLName    xml.Name `xml:"project"`
	GroupID    string   `xml:"groupId"`
	ArtifactID string   `xml:"artifactId"`
	Version    string   `xml:"version"`
}

func resolveRemoteClassifier(group, name, version, classifier string, repositories []string) (string, bool) {
	repos := repositories
	if len(repos) == 0 {
		repos = []string{"https://repo1.maven.org/maven2"}
	}
	groupPath := strings.ReplaceAll(group, ".", "/")
	for _, repo := range repos {
		pomURL := fmt.Sprintf("%s/%s/%s/%s/%s-%s.pom", strings.TrimRight(repo, "/"), groupPath, name, version, name, version)
		if !pomExists(pomURL) {
			continue
		}
		jarURL := fmt.Sprintf("%s/%s/%s/%s/%s-%s-%s.jar", strings.TrimRight(repo, "/"), groupPath, name, version, name, version, classifier)
		return jarURL, headOK(jarURL)
	}
	return "", false
}

func pomExists(url string) bool {
	resp, err := http.Get(url)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false
	}
	var pom mavenPOM
	_ = xml.NewDecoder(resp.Body).Decode(&pom)
	return true
}

func headOK(url string) bool {
	resp, err := http.Head(url)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// DownloadClassifier fetches a classifier jar identified by uri (as
// returned by ResolveClassifiers) into destPath. Nothing in this module
// calls it; the `deps` CLI command only resolves and lists the URIs.
func DownloadClassifier(uri, destPath string) error {
	if strings.HasPrefix(uri, "file://") {
		return nil // already local, nothing to fetch
	}
	resp, err := http.Get(uri)
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", uri, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to download %s: status %d", uri, resp.StatusCode)
	}
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fmt.Errorf("failed to create destination dir: %w", err)
	}
	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", destPath, err)
	}
	defer out.Close()
	_, err = io.Copy(out, resp.Body)
	return err
}
