package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/fairhire/fairhire/internal/llm"
	"github.com/fairhire/fairhire/internal/logging"
	"github.com/fairhire/fairhire/internal/store"
)

func buildLogger() (*zap.Logger, error) {
	return logging.New(viper.GetBool("json"), viper.GetBool("debug"))
}

// openStore returns a Postgres-backed store when a database URL is
// configured, otherwise an in-memory store. The returned closer is a no-op
// for the memory store.
func openStore(ctx context.Context) (store.Store, func(), error) {
	url := viper.GetString("database-url")
	if url == "" {
		return store.NewMemoryStore(), func() {}, nil
	}

	pg, err := store.Connect(ctx, url)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return pg, pg.Close, nil
}

func buildClient(ctx context.Context) (llm.Client, error) {
	apiKey := viper.GetString("gemini-api-key")
	if apiKey == "" {
		return nil, fmt.Errorf("API key required: set GEMINI_API_KEY environment variable")
	}
	return llm.NewClient(ctx, llm.DefaultConfig(), apiKey)
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, string(data))
	return nil
}
