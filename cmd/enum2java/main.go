package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	goversion "github.com/caarlos0/go-version"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/nativebuild/enum2java/internal/core"
	"github.com/nativebuild/enum2java/internal/parser"
	"github.com/nativebuild/enum2java/internal/types"
)

var (
	version   = "0.0.1"
	commit    = ""
	treeState = ""
	date      = ""
	builtBy   = ""
)

type cli struct {
	Verbose bool   `short:"v" help:"Enable debug logging."`
	LogFile string `help:"Write logs to this file instead of stderr." type:"path"`

	Gen     genCmd     `cmd:"" default:"withargs" help:"Generate Java @IntDef files from annotated C++ enums."`
	List    listCmd    `cmd:"" help:"List the annotated enums found in the given headers."`
	Version versionCmd `cmd:"" help:"Print version information."`
}

type genCmd struct {
	OutputDir   string   `help:"Directory receiving one .java file per enum, laid out by package." type:"path" xor:"dest"`
	Srcjar      string   `help:"Bundle the generated files into this archive instead." type:"path" xor:"dest"`
	PrintOnly   bool     `help:"Print the output paths without writing anything."`
	Depfile     string   `help:"Write a gn style depfile to this path." type:"path"`
	Stamp       string   `help:"Touch this file after a successful run." type:"path"`
	AssertFile  []string `help:"Assert that this path is among the outputs. Repeatable."`
	Parallelism int      `short:"j" help:"Bound concurrent header parsing. Defaults to GOMAXPROCS."`

	Headers []string `arg:"" name:"header" help:"C++ headers to scan for GENERATED_JAVA_ENUM_PACKAGE." type:"existingfile"`
}

func (c *genCmd) Run() error {
	opts := core.Options{
		OutputDir:   c.OutputDir,
		Srcjar:      c.Srcjar,
		PrintOnly:   c.PrintOnly,
		Depfile:     c.Depfile,
		Stamp:       c.Stamp,
		AssertFiles: c.AssertFile,
		Parallelism: c.Parallelism,
	}
	files, err := core.Run(context.Background(), opts, c.Headers)
	if err != nil {
		return err
	}
	slog.Info("generation complete", "headers", len(c.Headers), "files", len(files))
	return nil
}

type listCmd struct {
	Headers []string `arg:"" name:"header" help:"C++ headers to scan." type:"existingfile"`
}

func (c *listCmd) Run() error {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.SetStyle(table.StyleLight)
	tw.Style().Options.DrawBorder = false
	tw.AppendHeader(table.Row{"Header", "Enum", "Class", "Package", "Entries", "Output"})
	for _, header := range c.Headers {
		definitions, err := parser.ParseFile(header)
		if err != nil {
			return err
		}
		for _, def := range definitions {
			tw.AppendRow(table.Row{
				header, def.OriginalEnumName, def.ClassName(), def.EnumPackage,
				def.Entries.Len(), core.OutputPath(def),
			})
		}
	}
	tw.Render()
	return nil
}

type versionCmd struct{}

func (c *versionCmd) Run() error {
	fmt.Println(buildVersion(version, commit, date, builtBy, treeState).String())
	return nil
}

func main() {
	var c cli
	ctx := kong.Parse(&c,
		kong.Name(types.Application),
		kong.Description(types.Description),
		kong.UsageOnError(),
	)

	logWriter := os.Stderr
	if c.LogFile != "" {
		f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		ctx.FatalIfErrorf(err)
		defer f.Close()
		logWriter = f
	}
	logLevel := slog.LevelWarn
	if c.Verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: logLevel,
	})))

	ctx.FatalIfErrorf(ctx.Run())
}

func buildVersion(version, commit, date, builtBy, treeState string) goversion.Info {
	return goversion.GetVersionInfo(
		goversion.WithAppDetails(types.Application, types.Description, types.WebSite),
		func(i *goversion.Info) {
			i.ASCIIName = types.UI
			if commit != "" {
				i.GitCommit = commit
			}
			if version != "" {
				i.GitVersion = version
			}
			if treeState != "" {
				i.GitTreeState = treeState
			}
			if date != "" {
				i.BuildDate = date
			}
			if builtBy != "" {
				i.BuiltBy = builtBy
			}
		},
	)
}
