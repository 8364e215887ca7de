// Package core implements the functions, types, and interfaces for the module.
package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/nativebuild/enum2java/internal/buildutil"
	"github.com/nativebuild/enum2java/internal/generator"
	"github.com/nativebuild/enum2java/internal/model"
	"github.com/nativebuild/enum2java/internal/parser"
	"github.com/nativebuild/enum2java/internal/srcjar"
)

var (
	// ErrNoAnnotatedEnums reports a header that produced no definitions.
	ErrNoAnnotatedEnums = errors.New("no annotated enums found")
	// ErrDuplicateOutput reports two enums mapping to the same Java file.
	ErrDuplicateOutput = errors.New("duplicate output path")
	// ErrNoDestination reports a run with nowhere to put the results.
	ErrNoDestination = errors.New("no output destination")
)

// Options control a generation run.
type Options struct {
	// OutputDir receives one .java file per enum, laid out by package.
	OutputDir string
	// Srcjar bundles the generated files into a single archive instead.
	Srcjar string
	// PrintOnly lists the output paths on Out without writing anything.
	PrintOnly bool
	// Depfile, when set, receives a gn style dependency line.
	Depfile string
	// Stamp, when set, is touched after a successful run.
	Stamp string
	// AssertFiles must all appear among the computed output paths.
	AssertFiles []string
	// Parallelism bounds concurrent header parsing. Zero means GOMAXPROCS.
	Parallelism int
	// Out receives print only output. Defaults to os.Stdout.
	Out io.Writer
}

// GeneratedFile is one Java source rendered from an annotated C++ enum.
type GeneratedFile struct {
	// Path is relative to the output root, derived from the Java package.
	Path string
	// Source is the header the enum was parsed from.
	Source string
	// Content is the full text of the Java file.
	Content string
}

// OutputPath maps a definition to its output relative path, with the Java
// package dots turned into directories.
func OutputPath(def *model.EnumDefinition) string {
	dir := strings.ReplaceAll(def.EnumPackage, ".", "/")
	return path.Join(dir, def.ClassName()+".java")
}

// ProcessFile parses a single header and renders one Java file per annotated
// enum found in it.
func ProcessFile(sourcePath string) ([]GeneratedFile, error) {
	definitions, err := parser.ParseFile(sourcePath)
	if err != nil {
		return nil, err
	}
	files := make([]GeneratedFile, 0, len(definitions))
	for _, def := range definitions {
		content, err := generator.Generate(sourcePath, def)
		if err != nil {
			return nil, fmt.Errorf("%s: enum %s: %w", sourcePath, def.ClassName(), err)
		}
		files = append(files, GeneratedFile{
			Path:    OutputPath(def),
			Source:  sourcePath,
			Content: content,
		})
	}
	return files, nil
}

// Run parses every header concurrently, renders the Java files, and places
// them according to opts. The returned files follow the header argument
// order regardless of which header finished first.
func Run(ctx context.Context, opts Options, headers []string) ([]GeneratedFile, error) {
	if len(headers) == 0 {
		return nil, errors.New("no input headers given")
	}

	limit := opts.Parallelism
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	results := make([][]GeneratedFile, len(headers))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, header := range headers {
		i, header := i, header
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			files, err := ProcessFile(header)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return fmt.Errorf("%w in %s (missing // GENERATED_JAVA_ENUM_PACKAGE directive?)",
					ErrNoAnnotatedEnums, header)
			}
			results[i] = files
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var files []GeneratedFile
	seen := make(map[string]string)
	for _, batch := range results {
		for _, file := range batch {
			if prev, ok := seen[file.Path]; ok {
				return nil, fmt.Errorf("%w: %s produced by both %s and %s",
					ErrDuplicateOutput, file.Path, prev, file.Source)
			}
			seen[file.Path] = file.Source
			files = append(files, file)
		}
	}
	slog.Debug("rendered java files", "headers", len(headers), "files", len(files))

	if err := place(opts, files, headers); err != nil {
		return nil, err
	}
	return files, nil
}

// place routes the rendered files to their destination and writes the build
// system side artifacts.
func place(opts Options, files []GeneratedFile, headers []string) error {
	paths := outputPaths(opts, files)

	if len(opts.AssertFiles) > 0 {
		if err := buildutil.AssertExpected(paths, opts.AssertFiles); err != nil {
			return err
		}
	}

	switch {
	case opts.PrintOnly:
		out := opts.Out
		if out == nil {
			out = os.Stdout
		}
		for _, p := range paths {
			fmt.Fprintln(out, p)
		}
	case opts.Srcjar != "":
		entries := make([]srcjar.File, len(files))
		for i, file := range files {
			entries[i] = srcjar.File{Name: file.Path, Content: file.Content}
		}
		if err := srcjar.WriteFile(opts.Srcjar, entries); err != nil {
			return err
		}
		slog.Info("wrote srcjar", "path", opts.Srcjar, "files", len(files))
	case opts.OutputDir != "":
		if err := writeTree(opts.OutputDir, files); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: need an output dir, a srcjar path, or print only mode", ErrNoDestination)
	}

	if opts.Depfile != "" {
		if err := buildutil.WriteDepfile(opts.Depfile, depfileTarget(opts), headers); err != nil {
			return err
		}
	}
	if opts.Stamp != "" {
		if err := buildutil.Touch(opts.Stamp); err != nil {
			return err
		}
	}
	return nil
}

// outputPaths returns the final path of every file, anchored at the output
// dir when one is configured.
func outputPaths(opts Options, files []GeneratedFile) []string {
	paths := make([]string, len(files))
	for i, file := range files {
		if opts.OutputDir != "" {
			paths[i] = filepath.Join(opts.OutputDir, filepath.FromSlash(file.Path))
		} else {
			paths[i] = file.Path
		}
	}
	return paths
}

func writeTree(dir string, files []GeneratedFile) error {
	for _, file := range files {
		dest := filepath.Join(dir, filepath.FromSlash(file.Path))
		if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
		if err := os.WriteFile(dest, []byte(file.Content), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", dest, err)
		}
		slog.Debug("wrote java file", "path", dest, "source", file.Source)
	}
	return nil
}

// depfileTarget picks the depfile's target: the primary build output when
// one exists, otherwise the depfile itself.
func depfileTarget(opts Options) string {
	switch {
	case opts.Srcjar != "":
		return opts.Srcjar
	case opts.Stamp != "":
		return opts.Stamp
	default:
		return opts.Depfile
	}
}
