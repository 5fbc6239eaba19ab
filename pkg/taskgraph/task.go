// Package taskgraph is a small dependency-ordered, parallel job
// executor. It is not part of the BSP core's public surface; aggregate
// uses it internally for the one point in the pipeline that is
// genuinely parallel inside our own process (the per-project probe
// fan-out).
package taskgraph

import "context"

// TaskType classifies a Task for display/filtering purposes.
type TaskType string

const (
	TaskTypeBuild TaskType = "build"
	TaskTypeTest  TaskType = "test"
	TaskTypeDeps  TaskType = "deps"
)

// DependencyInput is what a dependency's completed execution hands to
// any task that declared it as a dependency.
type DependencyInput struct {
	TaskID    string
	OutputDir string
	Files     []string
}

// TaskResult is what Execute returns. Data carries an arbitrary
// structured payload (e.g. a *model.SourceSetModel) for jobs whose
// output isn't file-shaped; Files is populated by jobs whose output is
// (artifact downloads, compiled classes).
type TaskResult struct {
	Files []string
	Data  any
	Error error
}

// Task is one unit of work in the graph. ID and Hash are distinct: ID
// identifies the task within one graph (must be unique there); Hash
// identifies its configuration+inputs for caching purposes and may
// coincide across separate graphs describing the same work.
type Task interface {
	ID() string
	Name() string
	Directory() string
	TaskType() TaskType
	Hash() string
	Dependencies() []Task
	Execute(ctx context.Context, workDir string, dependencyInputs []DependencyInput) TaskResult
}
