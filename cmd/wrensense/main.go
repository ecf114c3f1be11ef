package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/wrensense/internal/config"
	"github.com/standardbeagle/wrensense/internal/debug"
	"github.com/standardbeagle/wrensense/internal/engine"
	"github.com/standardbeagle/wrensense/internal/mcp"
	"github.com/standardbeagle/wrensense/internal/version"
)

// loadConfigWithOverrides loads the project configuration and applies
// CLI flag overrides on top of it.
func loadConfigWithOverrides(c *cli.Context) (*config.Config, error) {
	root := c.String("root")
	if root == "" {
		root = "."
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root path %q: %w", root, err)
	}

	cfg, err := config.Load(absRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", absRoot, err)
	}

	if includeFlags := c.StringSlice("include"); len(includeFlags) > 0 {
		cfg.Index.Include = includeFlags
	}
	if excludeFlags := c.StringSlice("exclude"); len(excludeFlags) > 0 {
		cfg.Index.Exclude = append(cfg.Index.Exclude, excludeFlags...)
	}
	if searchRoots := c.StringSlice("search-root"); len(searchRoots) > 0 {
		cfg.Modules.SearchRoots = append(cfg.Modules.SearchRoots, searchRoots...)
	}
	return cfg, nil
}

func newEngine(c *cli.Context) (*engine.Engine, error) {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return nil, err
	}
	return engine.New(cfg), nil
}

func emitJSON(data interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func pathArg(c *cli.Context) (string, error) {
	if c.NArg() < 1 {
		return "", cli.Exit("missing required <file> argument", 1)
	}
	abs, err := filepath.Abs(c.Args().Get(0))
	if err != nil {
		return "", err
	}
	return abs, nil
}

func positionArgs(c *cli.Context) (string, int, error) {
	path, err := pathArg(c)
	if err != nil {
		return "", 0, err
	}
	if c.NArg() < 2 {
		return "", 0, cli.Exit("missing required <offset> argument", 1)
	}
	offset, err := strconv.Atoi(c.Args().Get(1))
	if err != nil {
		return "", 0, cli.Exit(fmt.Sprintf("invalid offset %q", c.Args().Get(1)), 1)
	}
	return path, offset, nil
}

func main() {
	app := &cli.App{
		Name:                   "wrensense",
		Usage:                  "Incremental symbol indexing and code intelligence for Wren projects",
		Version:                version.Version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Project root directory (defaults to the current directory)",
			},
			&cli.StringSliceFlag{
				Name:  "include",
				Usage: "Include files matching glob patterns (overrides config)",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "Exclude files matching glob patterns (appended to config)",
			},
			&cli.StringSliceFlag{
				Name:  "search-root",
				Usage: "Additional directories consulted when resolving imports",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "outline",
				Usage:     "List the classes, methods and imports declared in a file",
				ArgsUsage: "<file>",
				Action:    outlineCommand,
			},
			{
				Name:      "diagnostics",
				Usage:     "Report parse errors and unresolved imports for a file",
				ArgsUsage: "<file>",
				Action:    diagnosticsCommand,
			},
			{
				Name:      "complete",
				Usage:     "Ranked completion items for a byte offset in a file",
				ArgsUsage: "<file> <offset>",
				Action:    completeCommand,
			},
			{
				Name:      "signature",
				Usage:     "Signature help for the call surrounding a byte offset",
				ArgsUsage: "<file> <offset>",
				Action:    signatureCommand,
			},
			{
				Name:      "aggregate",
				Usage:     "Workspace-wide class table visible from a file",
				ArgsUsage: "<file>",
				Action:    aggregateCommand,
			},
			{
				Name:   "index",
				Usage:  "Scan the project root and analyze every matching file",
				Action: indexCommand,
			},
			{
				Name:   "serve",
				Usage:  "Run the MCP server over stdio",
				Action: serveCommand,
			},
			{
				Name:   "version",
				Usage:  "Print detailed version information",
				Action: versionCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

func outlineCommand(c *cli.Context) error {
	path, err := pathArg(c)
	if err != nil {
		return err
	}

	eng, err := newEngine(c)
	if err != nil {
		return err
	}
	defer eng.Close()

	index, err := eng.Outline(path)
	if err != nil {
		return err
	}
	return emitJSON(index)
}

func diagnosticsCommand(c *cli.Context) error {
	path, err := pathArg(c)
	if err != nil {
		return err
	}

	eng, err := newEngine(c)
	if err != nil {
		return err
	}
	defer eng.Close()

	diags, err := eng.Diagnostics(c.Context, path)
	if err != nil {
		return err
	}
	if len(diags) == 0 {
		fmt.Println("no diagnostics")
		return nil
	}
	for _, d := range diags {
		fmt.Printf("%s[%s] at %d+%d: %s\n",
			d.Severity, d.Code, d.Span.Start, d.Span.Length, d.Message)
	}
	return nil
}

func completeCommand(c *cli.Context) error {
	path, offset, err := positionArgs(c)
	if err != nil {
		return err
	}

	eng, err := newEngine(c)
	if err != nil {
		return err
	}
	defer eng.Close()

	items, err := eng.Complete(c.Context, path, offset)
	if err != nil {
		return err
	}
	return emitJSON(items)
}

func signatureCommand(c *cli.Context) error {
	path, offset, err := positionArgs(c)
	if err != nil {
		return err
	}

	eng, err := newEngine(c)
	if err != nil {
		return err
	}
	defer eng.Close()

	infos, err := eng.Signature(c.Context, path, offset)
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		fmt.Println("no signature help at this position")
		return nil
	}
	return emitJSON(infos)
}

func aggregateCommand(c *cli.Context) error {
	path, err := pathArg(c)
	if err != nil {
		return err
	}

	eng, err := newEngine(c)
	if err != nil {
		return err
	}
	defer eng.Close()

	agg, diags, err := eng.AggregateFor(c.Context, path)
	if err != nil {
		return err
	}
	for _, name := range agg.Order {
		cls, ok := agg.Lookup(name)
		if !ok {
			continue
		}
		fmt.Printf("%s (%d methods, %d statics)\n",
			name, len(cls.Methods), len(cls.Statics))
	}
	for _, d := range diags {
		fmt.Printf("%s[%s]: %s\n", d.Severity, d.Code, d.Message)
	}
	return nil
}

func indexCommand(c *cli.Context) error {
	eng, err := newEngine(c)
	if err != nil {
		return err
	}
	defer eng.Close()

	count, err := eng.IndexWorkspace(c.Context)
	if err != nil {
		return err
	}
	fmt.Printf("indexed %d files\n", count)
	return nil
}

func serveCommand(c *cli.Context) error {
	eng, err := newEngine(c)
	if err != nil {
		return err
	}
	defer eng.Close()

	if _, err := eng.IndexWorkspace(c.Context); err != nil {
		debug.Log("serve", "initial index failed: %v", err)
	}
	if err := eng.StartWatching(); err != nil {
		debug.Log("serve", "watcher failed to start: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	server := mcp.NewServer(eng)
	return server.Run(ctx)
}

func versionCommand(c *cli.Context) error {
	fmt.Println(version.FullInfo())
	return nil
}
