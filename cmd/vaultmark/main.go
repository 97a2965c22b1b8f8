package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/vaultmark/internal"
	"github.com/starford/vaultmark/internal/parser"
	pkgconfig "github.com/starford/vaultmark/pkg/config"
)

var version = "dev"

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func options(cmd *cli.Command) ([]internal.Option, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return []internal.Option{
		internal.WithConfig(cfg),
		internal.WithVersion(version),
	}, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	opts, err := options(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func index(ctx context.Context, cmd *cli.Command) error {
	opts, err := options(cmd)
	if err != nil {
		return err
	}
	return internal.Index(ctx, opts...)
}

func serveMCP(ctx context.Context, cmd *cli.Command) error {
	opts, err := options(cmd)
	if err != nil {
		return err
	}
	return internal.ServeMCP(ctx, opts...)
}

// parseFiles prints the parse result of each file, or of stdin when no
// file is given, as one JSON document per line.
func parseFiles(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	p := parser.New(cfg.Markdown)

	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	if cmd.Bool("pretty") {
		enc.SetIndent("", "  ")
	}

	emit := func(name string, data []byte) error {
		res, err := p.Parse(data)
		if err != nil {
			return fmt.Errorf("parse %s: %w", name, err)
		}
		if !cmd.Bool("tree") {
			res.Tree = nil
		}
		return enc.Encode(res)
	}

	files := cmd.Args().Slice()
	if len(files) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		return emit("stdin", data)
	}
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return err
		}
		if err := emit(f, data); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:    "vaultmark",
		Usage:   "Parse and index Obsidian-flavoured Markdown vaults",
		Version: version,
		Action:  serve,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Index the vault and serve the HTTP API",
				Action: serve,
			},
			{
				Name:   "index",
				Usage:  "Bring the index up to date with the vault and exit",
				Action: index,
			},
			{
				Name:   "mcp",
				Usage:  "Serve MCP tools over stdio",
				Action: serveMCP,
			},
			{
				Name:      "parse",
				Usage:     "Print the extracted structure of Markdown files as JSON",
				ArgsUsage: "[FILE...]",
				Action:    parseFiles,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "tree", Usage: "Include the syntax tree"},
					&cli.BoolFlag{Name: "pretty", Usage: "Indent the output"},
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
