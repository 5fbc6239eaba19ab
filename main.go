package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/cheggaaa/pb"
	"github.com/fatih/color"
	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"

	"gradlebsp/pkg/aggregate"
	"gradlebsp/pkg/bsp"
	"gradlebsp/pkg/config"
	"gradlebsp/pkg/driver"
	"gradlebsp/pkg/link"
	"gradlebsp/pkg/probe"
	"gradlebsp/pkg/target"
)

type CLI struct {
	Verbose  bool       `short:"v" help:"Enable verbose logging"`
	Parallel int        `short:"j" help:"Per-project probe fan-out width" default:"8"`
	Targets  TargetsCmd `cmd:"" help:"Probe, link, and print the build target graph"`
	Compile  CompileCmd `cmd:"" help:"Compile a build target via the Gradle invoker"`
	Test     TestCmd    `cmd:"" help:"Run tests for a build target via the Gradle invoker"`
	Deps     DepsCmd    `cmd:"" help:"Resolve and list classifier artifacts (sources/javadoc) for a project; nothing is downloaded"`
}

type TargetsCmd struct {
	Directory string `arg:"" optional:"" help:"Directory to probe (defaults to current directory)"`
}

type CompileCmd struct {
	TargetURI string `arg:"" help:"Build target URI to compile"`
}

type TestCmd struct {
	TargetURI string `arg:"" help:"Build target URI to test"`
}

type DepsCmd struct {
	Directory string `arg:"" optional:"" help:"Project directory to list classifiers for"`
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli)

	logLevel := 0
	if cli.Verbose {
		logLevel = 1
	}
	stdr.SetVerbosity(logLevel)
	stdLogger := log.New(os.Stderr, "", log.LstdFlags)
	logger := stdr.New(stdLogger)

	var err error
	switch kctx.Command() {
	case "targets <directory>", "targets":
		err = runTargets(logger, cli.Targets, cli.Parallel)
	case "compile <target-uri>":
		err = runCompile(cli.Compile)
	case "test <target-uri>":
		err = runTest(cli.Test)
	case "deps <directory>", "deps":
		err = runDeps(logger, cli.Deps)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", kctx.Command())
		os.Exit(1)
	}

	if err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runTargets drives the same pipeline a BSP workspace/buildTargets
// request would: aggregate, link, store, then print the resulting
// snapshot.
func runTargets(log logr.Logger, cmd TargetsCmd, parallel int) error {
	rootDir, err := resolveDirectory(cmd.Directory)
	if err != nil {
		return err
	}

	prefs, err := config.Load(rootDir)
	if err != nil {
		return fmt.Errorf("failed to load preferences: %w", err)
	}

	result, err := aggregate.Run(context.Background(), rootDir, aggregate.Options{
		Log: log,
		Opts: probe.ProbeOptions{
			Log:            log,
			GradleUserHome: config.ResolveGradleUserHome(prefs),
			Offline:        prefs.Offline,
			Repositories:   prefs.ClassifierRepositories,
		},
		Parallelism: parallel,
	})
	if err != nil {
		return fmt.Errorf("aggregation failed: %w", err)
	}
	for _, probeErr := range result.Errors {
		log.Error(probeErr, "project probe failed, omitted from snapshot")
	}

	linked := link.Link(result.Models)
	graph := target.New()
	entries := graph.Store(linked)

	bar := pb.New(len(entries)).Prefix("targets")
	bar.Start()

	green := color.New(color.FgGreen)
	for _, entry := range entries {
		bar.Increment()
		green.Printf("  ✓ %s", entry.BuildTarget.DisplayName)
		gradlePath := link.ProjectPathOf(rootDir, entry.Model.ProjectDir)
		fmt.Printf(" - %s (%s)\n", entry.BuildTarget.ID, gradlePath)
		if len(entry.BuildTarget.Tags) > 0 {
			fmt.Printf("      tags: %v\n", entry.BuildTarget.Tags)
		}
		if len(entry.BuildTarget.Dependencies) > 0 {
			fmt.Printf("      depends on: %v\n", entry.BuildTarget.Dependencies)
		}
	}
	bar.Finish()
	return nil
}

func runCompile(cmd CompileCmd) error {
	projectDir, _, err := bsp.ParseBuildTargetURI(cmd.TargetURI)
	if err != nil {
		return fmt.Errorf("invalid build target uri: %w", err)
	}
	return streamInvocation(projectDir, func(ctx context.Context, conn driver.Connection) (<-chan driver.ProgressEvent, error) {
		var invoker driver.ShellInvoker
		return invoker.RunBuild(ctx, conn, []string{"build"}, nil, nil)
	})
}

func runTest(cmd TestCmd) error {
	projectDir, sourceSetName, err := bsp.ParseBuildTargetURI(cmd.TargetURI)
	if err != nil {
		return fmt.Errorf("invalid build target uri: %w", err)
	}
	return streamInvocation(projectDir, func(ctx context.Context, conn driver.Connection) (<-chan driver.ProgressEvent, error) {
		var invoker driver.ShellInvoker
		return invoker.RunTests(ctx, conn, []string{sourceSetName + "*"})
	})
}

func streamInvocation(projectDir string, start func(context.Context, driver.Connection) (<-chan driver.ProgressEvent, error)) error {
	ctx := context.Background()
	prefs, err := config.Load(projectDir)
	if err != nil {
		return fmt.Errorf("failed to load preferences: %w", err)
	}
	var d driver.DefaultGradleDriver
	conn, err := d.Connect(ctx, projectDir, prefs)
	if err != nil {
		return fmt.Errorf("failed to connect to gradle: %w", err)
	}

	events, err := start(ctx, conn)
	if err != nil {
		return fmt.Errorf("failed to start invocation: %w", err)
	}
	for ev := range events {
		fmt.Println(ev.Line)
	}
	return nil
}

func runDeps(log logr.Logger, cmd DepsCmd) error {
	projectDir, err := resolveDirectory(cmd.Directory)
	if err != nil {
		return err
	}

	prefs, err := config.Load(projectDir)
	if err != nil {
		return fmt.Errorf("failed to load preferences: %w", err)
	}

	var modelProbe probe.DefaultModelProbe
	models, err := modelProbe.Probe(projectDir, probe.ProbeOptions{
		Log:            log,
		GradleUserHome: config.ResolveGradleUserHome(prefs),
		Offline:        prefs.Offline,
		Repositories:   prefs.ClassifierRepositories,
	})
	if err != nil {
		return fmt.Errorf("probe failed: %w", err)
	}

	bar := pb.New(len(models))
	bar.Start()
	defer bar.Finish()

	cyan := color.New(color.FgCyan)
	for _, m := range models {
		for _, dep := range m.ModuleDependencies {
			for classifier, uri := range dep.Classifiers {
				cyan.Printf("  %s [%s] -> %s\n", dep.Coordinate(), classifier, uri)
			}
		}
		bar.Increment()
	}
	return nil
}

func resolveDirectory(dir string) (string, error) {
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current directory: %w", err)
		}
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}
	return abs, nil
}
