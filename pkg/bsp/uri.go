// Package bsp holds the wire-facing pieces of the core: the build
// target URI scheme and the BSP 2.x BuildTarget JSON payload. JSON-RPC
// framing and transport are out of scope; only the data shapes that
// cross that boundary live here.
package bsp

import "net/url"

// sourcesetParam is the single query key that carries identity. Extra
// keys on a parsed URI must be tolerated, never relied upon.
const sourcesetParam = "sourceset"

// BuildTargetURI renders the stable identity of a build target as
// "<projectDirAsFileUri>?sourceset=<urlEncodedSourceSetName>".
func BuildTargetURI(projectDir, sourceSetName string) string {
	u := url.URL{Scheme: "file", Path: projectDir}
	q := u.Query()
	q.Set(sourcesetParam, sourceSetName)
	u.RawQuery = q.Encode()
	return u.String()
}

// ParseBuildTargetURI recovers (projectDir, sourceSetName) from a URI
// produced by BuildTargetURI. It tolerates arbitrary additional query
// keys and never treats directory equality alone as sufficient
// identity: sourceSetName is always read from the query string.
func ParseBuildTargetURI(raw string) (projectDir, sourceSetName string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", err
	}
	return u.Path, u.Query().Get(sourcesetParam), nil
}
