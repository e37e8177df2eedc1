// finanzas-cli runs one store command and prints the JSON result to
// stdout: finanzas-cli <command> ['<json payload>']
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"finanzas/internal/config"
	"finanzas/internal/dispatch"
	applog "finanzas/internal/log"
	"finanzas/internal/storage"
)

func main() {
	_ = godotenv.Load()

	// Keep stdout clean for the result document; logs go to stderr.
	logger := applog.New(applog.Config{
		Component: "cli",
		Handler: slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelWarn,
		}),
	})
	applog.SetDefault(logger)

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: finanzas-cli <command> ['<json payload>']")
		os.Exit(2)
	}
	command := os.Args[1]

	var payload []byte
	if len(os.Args) > 2 {
		payload = []byte(os.Args[2])
	} else if stat, err := os.Stdin.Stat(); err == nil && stat.Mode()&os.ModeCharDevice == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "read stdin: %v\n", err)
			os.Exit(1)
		}
		payload = data
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	result := dispatch.New(store, logger).Dispatch(context.Background(), command, payload)

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		fmt.Fprintf(os.Stderr, "encode result: %v\n", err)
		os.Exit(1)
	}
	if !result.Success {
		os.Exit(1)
	}
}
