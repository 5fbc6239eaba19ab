package taskgraph

import "fmt"

// Graph is a DAG of Tasks plus the dependency edges between them.
// Edges are derived from each Task's own Dependencies() at AddTask
// time, built up incrementally as directories are discovered.
type Graph struct {
	tasks []Task
	byID  map[string]Task
	edges map[string][]string
}

// NewGraph returns an empty Graph.
func NewGraph() *Graph {
	return &Graph{byID: map[string]Task{}, edges: map[string][]string{}}
}

// AddTask registers a task and its declared dependency edges. Adding a
// task with an ID already present is an error.
func (g *Graph) AddTask(task Task) error {
	id := task.ID()
	if _, exists := g.byID[id]; exists {
		return fmt.Errorf("task with ID %s already exists", id)
	}
	g.tasks = append(g.tasks, task)
	g.byID[id] = task
	for _, dep := range task.Dependencies() {
		g.edges[id] = append(g.edges[id], dep.ID())
	}
	return nil
}

// GetTask looks up a task by ID.
func (g *Graph) GetTask(id string) (Task, error) {
	t, ok := g.byID[id]
	if !ok {
		return nil, fmt.Errorf("task not found: %s", id)
	}
	return t, nil
}

// GetTasks returns every task registered in the graph, in insertion
// order.
func (g *Graph) GetTasks() []Task {
	return g.tasks
}

// TopologicalSort returns the tasks ordered so each task follows all of
// its dependencies, via Kahn's algorithm. An error indicates a cycle.
func (g *Graph) TopologicalSort() ([]Task, error) {
	inDegree := map[string]int{}
	for _, t := range g.tasks {
		if _, ok := inDegree[t.ID()]; !ok {
			inDegree[t.ID()] = 0
		}
	}
	for id, deps := range g.edges {
		inDegree[id] += len(deps)
		_ = deps
	}

	// Kahn's algorithm orders a task before its dependents; here edges
	// point from a task to its dependencies, so we instead track, for
	// each task, how many of its dependencies are still unresolved, and
	// walk edges in reverse (dependency -> dependents) to count down.
	dependents := map[string][]string{}
	depCount := map[string]int{}
	for _, t := range g.tasks {
		depCount[t.ID()] = len(g.edges[t.ID()])
		for _, depID := range g.edges[t.ID()] {
			dependents[depID] = append(dependents[depID], t.ID())
		}
	}

	var queue []string
	for _, t := range g.tasks {
		if depCount[t.ID()] == 0 {
			queue = append(queue, t.ID())
		}
	}

	var result []Task
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		task, err := g.GetTask(id)
		if err != nil {
			return nil, err
		}
		result = append(result, task)
		for _, dependentID := range dependents[id] {
			depCount[dependentID]--
			if depCount[dependentID] == 0 {
				queue = append(queue, dependentID)
			}
		}
	}

	if len(result) != len(g.tasks) {
		return nil, fmt.Errorf("cycle detected in task graph")
	}
	return result, nil
}
