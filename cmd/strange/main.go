// strange: a decision-analysis MCP server.
//
// A universal MCP server that integrates with any AI coding tool to rank
// options with a weighted decision matrix, persisted in a local SQLite
// database.
//
// Usage:
//
//	strange serve    # Start MCP server (stdio transport)
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"
	"github.com/strangelabs/strange/internal/config"
	strangeserver "github.com/strangelabs/strange/internal/server"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		if err := run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "--help", "-h", "help":
		printUsage()
		os.Exit(0)
	case "--version", "-v", "version":
		fmt.Printf("strange v%s\n", strangeserver.Version)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	s, cleanup, err := strangeserver.New(cfg)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer cleanup()

	// Graceful shutdown on interrupt.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		cancel()
	}()

	_ = ctx // stdio server manages its own lifecycle

	return server.ServeStdio(s)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `strange v%s — decision-analysis MCP server

Usage:
  strange serve    Start the MCP server (stdio transport)

Configuration (environment):
  STRANGE_DATA_DIR    Directory for the decision database (default: ~/.strange)
  STRANGE_LOG_LEVEL   debug | info | warn | error (default: info)
  STRANGE_CONFIG      Path to an optional YAML config file

  Add to your AI tool's MCP config:

  {
    "mcpServers": {
      "strange": {
        "command": "strange",
        "args": ["serve"]
      }
    }
  }
`, strangeserver.Version)
}
