package taskgraph

import (
	"crypto/sha256"
	"fmt"
	"sort"
)

// ComputeTaskHash folds a task's own Hash() with the recursively
// computed hashes of its dependencies, sorted for determinism, so two
// structurally identical sub-graphs always hash the same regardless of
// traversal order.
func ComputeTaskHash(task Task) string {
	h := sha256.New()
	h.Write([]byte(task.Hash()))

	var depHashes []string
	for _, dep := range task.Dependencies() {
		depHashes = append(depHashes, ComputeTaskHash(dep))
	}
	sort.Strings(depHashes)
	for _, dh := range depHashes {
		h.Write([]byte(dh))
	}

	return fmt.Sprintf("%x", h.Sum(nil))
}
