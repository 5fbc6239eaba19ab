package taskgraph

import (
	"context"
	"testing"
)

type fakeTask struct {
	id   string
	deps []Task
}

func (f *fakeTask) ID() string          { return f.id }
func (f *fakeTask) Name() string        { return "fake" }
func (f *fakeTask) Directory() string   { return "" }
func (f *fakeTask) TaskType() TaskType  { return TaskTypeBuild }
func (f *fakeTask) Hash() string        { return f.id }
func (f *fakeTask) Dependencies() []Task { return f.deps }
func (f *fakeTask) Execute(ctx context.Context, workDir string, in []DependencyInput) TaskResult {
	return TaskResult{}
}

func TestAddTaskDuplicateID(t *testing.T) {
	g := NewGraph()
	if err := g.AddTask(&fakeTask{id: "a"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := g.AddTask(&fakeTask{id: "a"}); err == nil {
		t.Fatalf("expected duplicate-ID error")
	}
}

func TestTopologicalSortOrdering(t *testing.T) {
	a := &fakeTask{id: "a"}
	b := &fakeTask{id: "b", deps: []Task{a}}
	c := &fakeTask{id: "c", deps: []Task{a, b}}

	g := NewGraph()
	for _, t := range []Task{c, a, b} {
		if err := g.AddTask(t); err != nil {
			t.Fatalf("AddTask: %v", err)
		}
	}

	order, err := g.TopologicalSort()
	if err != nil {
		t.Fatalf("TopologicalSort: %v", err)
	}
	pos := map[string]int{}
	for i, task := range order {
		pos[task.ID()] = i
	}
	if pos["a"] > pos["b"] || pos["b"] > pos["c"] {
		t.Fatalf("expected order a,b,c, got positions %+v", pos)
	}
}

func TestTopologicalSortDetectsCycle(t *testing.T) {
	a := &fakeTask{id: "a"}
	b := &fakeTask{id: "b", deps: []Task{a}}
	a.deps = []Task{b} // close the cycle after construction

	g := NewGraph()
	_ = g.AddTask(a)
	_ = g.AddTask(b)

	if _, err := g.TopologicalSort(); err == nil {
		t.Fatalf("expected cycle-detection error")
	}
}

func TestGetTaskMissing(t *testing.T) {
	g := NewGraph()
	if _, err := g.GetTask("missing"); err == nil {
		t.Fatalf("expected error for missing task")
	}
}
