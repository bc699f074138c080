package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/ansdev/patternhub/internal"
	pkgconfig "github.com/ansdev/patternhub/pkg/config"
	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"
)

// loadConfig overlays the config file onto defaults. A missing or broken
// config file is a warning, never a startup failure.
func loadConfig(cmd *cli.Command) *internal.Config {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOrDefaults(configPath, cfg); err != nil {
		slog.Warn("failed to load config, using defaults",
			slog.String("path", configPath),
			slog.String("error", err.Error()))
	}
	return cfg
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	cfg := loadConfig(cmd)

	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func runMCP(ctx context.Context, cmd *cli.Command) error {
	cfg := loadConfig(cmd)

	if err := internal.RunMCP(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("mcp run error: %w", err)
	}
	return nil
}

func runClean(ctx context.Context, cmd *cli.Command) error {
	cfg := loadConfig(cmd)
	return internal.RunClean(ctx, cfg, cmd.String("dir"))
}

func runRead(ctx context.Context, cmd *cli.Command) error {
	name := cmd.Args().First()
	if name == "" {
		return fmt.Errorf("usage: patternhub read <pattern>")
	}
	cfg := loadConfig(cmd)
	return internal.RunRead(ctx, cfg, name)
}

func runClient(ctx context.Context, cmd *cli.Command) error {
	cfg := loadConfig(cmd)
	return internal.RunClient(ctx, cfg)
}

func main() {
	configFlag := &cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Usage:       "Path to config file",
		DefaultText: "config/config.yaml",
		Value:       "config/config.yaml",
		Sources:     cli.EnvVars("APP_CONFIG_FILE"),
	}

	cmd := &cli.Command{
		Name:  "patternhub",
		Usage: "Design pattern reference server with Markdown storage, full-text search, and MCP access",
		Flags: []cli.Flag{configFlag},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Start the HTTP API server",
				Action: runServe,
				Flags:  []cli.Flag{configFlag},
			},
			{
				Name:   "mcp",
				Usage:  "Start the MCP server on stdin/stdout",
				Action: runMCP,
				Flags:  []cli.Flag{configFlag},
			},
			{
				Name:   "clean",
				Usage:  "Batch-clean markdown files in the pattern library",
				Action: runClean,
				Flags: []cli.Flag{
					configFlag,
					&cli.StringFlag{
						Name:  "dir",
						Usage: "Library directory to clean (overrides config)",
					},
				},
			},
			{
				Name:      "read",
				Usage:     "Read a single pattern and print a preview",
				ArgsUsage: "<pattern>",
				Action:    runRead,
				Flags:     []cli.Flag{configFlag},
			},
			{
				Name:   "client",
				Usage:  "List available patterns and print the first one",
				Action: runClient,
				Flags:  []cli.Flag{configFlag},
			},
		},
		// Bare invocation starts the HTTP server, matching `serve`.
		Action: runServe,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
