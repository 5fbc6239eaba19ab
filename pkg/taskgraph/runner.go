package taskgraph

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-logr/logr"
)

// ExecutionResult is what Runner records for one completed task.
type ExecutionResult struct {
	Task      Task
	TaskHash  string
	OutputDir string
	Result    TaskResult
	CacheHit  bool
}

// ProgressCallback is invoked as each task starts and finishes, letting
// a caller drive a progress bar or log line without coupling Runner to
// any particular presentation library.
type ProgressCallback func(task Task, status string, finished bool, cached bool)

// Runner executes a Graph's tasks in dependency order, optionally in
// parallel, optionally content-addressed-caching file outputs under
// resultDir. Leave resultDir empty to run purely in-memory (used for
// the aggregator's per-project probe jobs, which have no file output
// worth caching).
type Runner struct {
	resultDir string
	log       logr.Logger
}

// NewRunner returns a Runner that caches file outputs under resultDir
// (created if absent). Pass "" to disable caching.
func NewRunner(resultDir string, log logr.Logger) *Runner {
	return &Runner{resultDir: resultDir, log: log}
}

// Execute runs the graph sequentially in topological order and returns
// the per-task results keyed by task ID.
func (r *Runner) Execute(ctx context.Context, g *Graph) (map[string]ExecutionResult, error) {
	return r.ExecuteWithProgress(ctx, g, nil)
}

// ExecuteWithProgress is Execute plus progress notifications.
func (r *Runner) ExecuteWithProgress(ctx context.Context, g *Graph, progress ProgressCallback) (map[string]ExecutionResult, error) {
	return r.ExecuteWithProgressParallel(ctx, g, 1, progress)
}

// ExecuteWithProgressParallel runs the graph with up to parallelWorkers
// concurrent tasks, respecting dependency order; parallelWorkers<=1
// falls back to sequential execution.
func (r *Runner) ExecuteWithProgressParallel(ctx context.Context, g *Graph, parallelWorkers int, progress ProgressCallback) (map[string]ExecutionResult, error) {
	if parallelWorkers <= 1 {
		return r.executeSequential(ctx, g, progress)
	}
	return r.executeParallel(ctx, g, parallelWorkers, progress)
}

func (r *Runner) executeSequential(ctx context.Context, g *Graph, progress ProgressCallback) (map[string]ExecutionResult, error) {
	order, err := g.TopologicalSort()
	if err != nil {
		return nil, err
	}
	executed := map[string]ExecutionResult{}
	for _, task := range order {
		if err := ctx.Err(); err != nil {
			return executed, err
		}
		if progress != nil {
			progress(task, "running", false, false)
		}
		result, err := r.executeTask(ctx, task, executed)
		if err != nil {
			return executed, err
		}
		executed[task.ID()] = result
		if progress != nil {
			progress(task, "done", true, result.CacheHit)
		}
		if result.Result.Error != nil {
			return executed, result.Result.Error
		}
	}
	return executed, nil
}

// safeExecutedTasks guards the shared result map written by multiple
// worker goroutines during executeParallel.
type safeExecutedTasks struct {
	tasks map[string]ExecutionResult
	mu    sync.RWMutex
}

func newSafeExecutedTasks() *safeExecutedTasks {
	return &safeExecutedTasks{tasks: map[string]ExecutionResult{}}
}

func (s *safeExecutedTasks) Set(id string, result ExecutionResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[id] = result
}

func (s *safeExecutedTasks) ToMap() map[string]ExecutionResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]ExecutionResult, len(s.tasks))
	for k, v := range s.tasks {
		out[k] = v
	}
	return out
}

func (r *Runner) executeParallel(ctx context.Context, g *Graph, workers int, progress ProgressCallback) (map[string]ExecutionResult, error) {
	taskDeps := map[string][]string{}
	taskInDegree := map[string]int{}
	for _, t := range g.tasks {
		for _, dep := range t.Dependencies() {
			taskDeps[t.ID()] = append(taskDeps[t.ID()], dep.ID())
		}
		taskInDegree[t.ID()] = len(taskDeps[t.ID()])
	}

	executed := newSafeExecutedTasks()
	taskQueue := make(chan Task, len(g.tasks))
	resultChan := make(chan ExecutionResult, len(g.tasks))
	errorChan := make(chan error, len(g.tasks))

	ready := 0
	for _, t := range g.tasks {
		if taskInDegree[t.ID()] == 0 {
			taskQueue <- t
			ready++
		}
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go r.workerParallel(ctx, &wg, taskQueue, resultChan, errorChan, executed, progress)
	}

	dependents := map[string][]string{}
	for id, deps := range taskDeps {
		for _, depID := range deps {
			dependents[depID] = append(dependents[depID], id)
		}
	}

	remaining := len(g.tasks)
	var firstErr error
	pending := map[string]bool{}
	for _, t := range g.tasks {
		pending[t.ID()] = true
	}
	for remaining > 0 {
		select {
		case err := <-errorChan:
			if firstErr == nil {
				firstErr = err
			}
			remaining--
		case result := <-resultChan:
			remaining--
			delete(pending, result.Task.ID())
			for _, dependentID := range dependents[result.Task.ID()] {
				taskInDegree[dependentID]--
				if taskInDegree[dependentID] == 0 {
					dependent, err := g.GetTask(dependentID)
					if err == nil {
						taskQueue <- dependent
					}
				}
			}
		case <-ctx.Done():
			close(taskQueue)
			wg.Wait()
			return executed.ToMap(), ctx.Err()
		}
	}
	close(taskQueue)
	wg.Wait()

	return executed.ToMap(), firstErr
}

func (r *Runner) workerParallel(ctx context.Context, wg *sync.WaitGroup, taskQueue chan Task, resultChan chan ExecutionResult, errorChan chan error, executed *safeExecutedTasks, progress ProgressCallback) {
	defer wg.Done()
	for task := range taskQueue {
		if progress != nil {
			progress(task, "running", false, false)
		}
		result, err := r.executeTask(ctx, task, executed.ToMap())
		if err != nil {
			errorChan <- err
			continue
		}
		executed.Set(task.ID(), result)
		if progress != nil {
			progress(task, "done", true, result.CacheHit)
		}
		if result.Result.Error != nil {
			errorChan <- result.Result.Error
			continue
		}
		resultChan <- result
	}
}

func (r *Runner) executeTask(ctx context.Context, task Task, executedTasks map[string]ExecutionResult) (ExecutionResult, error) {
	taskHash := ComputeTaskHash(task)

	var outputDir string
	cached := false
	if r.resultDir != "" {
		outputDir = filepath.Join(r.resultDir, taskHash)
		if isCached(outputDir) {
			files, err := loadCachedResult(outputDir)
			if err == nil {
				return ExecutionResult{Task: task, TaskHash: taskHash, OutputDir: outputDir, Result: TaskResult{Files: files}, CacheHit: true}, nil
			}
		}
	}

	var dependencyInputs []DependencyInput
	for _, dep := range task.Dependencies() {
		depResult, ok := executedTasks[dep.ID()]
		if !ok {
			return ExecutionResult{}, fmt.Errorf("missing dependency result for task %s (dependency %s)", task.ID(), dep.ID())
		}
		dependencyInputs = append(dependencyInputs, DependencyInput{
			TaskID:    dep.ID(),
			OutputDir: depResult.OutputDir,
			Files:     depResult.Result.Files,
		})
	}

	tempDir, err := os.MkdirTemp("", "gradlebsp-task-*")
	if err != nil {
		return ExecutionResult{}, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	result := task.Execute(ctx, tempDir, dependencyInputs)
	if result.Error != nil {
		return ExecutionResult{Task: task, TaskHash: taskHash, Result: result}, nil
	}

	if r.resultDir == "" {
		return ExecutionResult{Task: task, TaskHash: taskHash, Result: result}, nil
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return ExecutionResult{}, fmt.Errorf("failed to create output dir: %w", err)
	}
	if err := moveTempToCache(tempDir, outputDir); err != nil {
		return ExecutionResult{}, fmt.Errorf("failed to move task output to cache: %w", err)
	}

	return ExecutionResult{Task: task, TaskHash: taskHash, OutputDir: outputDir, Result: result, CacheHit: cached}, nil
}

func isCached(outputDir string) bool {
	entries, err := os.ReadDir(outputDir)
	return err == nil && len(entries) > 0
}

func loadCachedResult(outputDir string) ([]string, error) {
	var files []string
	err := filepath.Walk(outputDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			rel, err := filepath.Rel(outputDir, path)
			if err != nil {
				return err
			}
			files = append(files, rel)
		}
		return nil
	})
	return files, err
}

func moveTempToCache(tempDir, outputDir string) error {
	return filepath.Walk(tempDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(tempDir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		dest := filepath.Join(outputDir, rel)
		if info.IsDir() {
			return os.MkdirAll(dest, 0o755)
		}
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return err
		}
		return os.Rename(path, dest)
	})
}
