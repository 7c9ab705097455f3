package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/chittiv1113/Oracle/config"
	"github.com/chittiv1113/Oracle/internal/adapter/chunker"
	"github.com/chittiv1113/Oracle/internal/adapter/chunker/languages"
	"github.com/chittiv1113/Oracle/internal/adapter/embedding"
	"github.com/chittiv1113/Oracle/internal/adapter/fs"
	"github.com/chittiv1113/Oracle/internal/adapter/lexical"
	"github.com/chittiv1113/Oracle/internal/adapter/store"
	"github.com/chittiv1113/Oracle/internal/adapter/vectorindex"
	"github.com/chittiv1113/Oracle/internal/domain"
	"github.com/chittiv1113/Oracle/internal/port"
	"github.com/chittiv1113/Oracle/internal/usecase"
)

var (
	flagMaxSizeKB int
	flagScope     string
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build or refresh the repository index",
}

var indexFullCmd = &cobra.Command{
	Use:   "full [path]",
	Short: "Rebuild the Chunk Store, Lexical Index, and Vector Index from scratch",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIndex(cmd, args, false)
	},
}

var indexUpdateCmd = &cobra.Command{
	Use:   "update [path]",
	Short: "Reindex only files changed since the last checkpoint",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIndex(cmd, args, true)
	},
}

func init() {
	indexCmd.PersistentFlags().IntVar(&flagMaxSizeKB, "max-size", 0, "maximum file size in KB (default 500)")
	indexCmd.PersistentFlags().StringVar(&flagScope, "scope", "", "restrict indexing to a subdirectory")
	indexCmd.AddCommand(indexFullCmd)
	indexCmd.AddCommand(indexUpdateCmd)
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string, incremental bool) error {
	path := GetRootDir()
	if len(args) > 0 {
		var err error
		path, err = filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("invalid path: %w", err)
		}
	}
	if flagScope != "" {
		path = filepath.Join(path, flagScope)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("path does not exist: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", path)
	}

	cfg := GetConfig()
	logger := slog.Default()

	if err := config.EnsureOracleDir(path); err != nil {
		return fmt.Errorf("failed to create .oracle directory: %w", err)
	}

	dbPath := config.IndexDBPath(path)
	st, err := store.NewBoltStore(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open chunk store: %w", err)
	}
	defer st.Close()

	migrationResult, err := st.CheckMigration(cfg)
	if err != nil {
		return fmt.Errorf("failed to check migration: %w", err)
	}
	if migrationResult.NeedsMigration || migrationResult.NeedsRebuild {
		if err := st.Migrate(cfg); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	registry := chunker.NewRegistry()
	languages.RegisterGo(registry)
	languages.RegisterPython(registry)
	languages.RegisterJavaScript(registry)
	languages.RegisterTypeScript(registry)

	walker := fs.New(int64(flagMaxSizeKB)*1024, cfg.Walk.ExtraIgnores, logger)
	treeChunker := chunker.NewTreeSitterChunker(registry, logger)
	fallback := chunker.NewLineChunker(cfg.Chunk.LineWindow)

	lexIdx := lexical.NewIndex(true, cfg.Lexical.K1, cfg.Lexical.B, cfg.Lexical.PathBoostWeight)

	vecCfg := vectorindex.DefaultConfig()
	vecCfg.Dimension = cfg.Embedding.Dimension
	vecCfg.Connectivity = uint(cfg.Vector.Connectivity)
	vecCfg.ExpansionAdd = uint(cfg.Vector.ExpansionAdd)
	vecCfg.ExpansionSearch = uint(cfg.Vector.ExpansionSearch)
	vecIdx, err := vectorindex.New(vecCfg)
	if err != nil {
		return fmt.Errorf("failed to create vector index: %w", err)
	}
	defer vecIdx.Close()

	embedder, err := newEmbedder(cfg)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	lexPath := config.LexicalIndexPath(path)
	vecPath := config.VectorIndexPath(path)
	checkpointPath := config.CheckpointPath(path)

	indexer := usecase.NewIndexer(st, walker, treeChunker, fallback, lexIdx, vecIdx, embedder, lexPath, vecPath, checkpointPath)

	opts := usecase.IndexOptions{}
	ctx := cmd.Context()

	var stats domain.Stats
	if incremental {
		stats, err = indexer.UpdateIndex(ctx, path, opts)
		if err != nil {
			return fmt.Errorf("update_index failed: %w", err)
		}
	} else {
		stats, err = indexer.FullIndex(ctx, path, opts)
		if err != nil {
			return fmt.Errorf("full_index failed: %w", err)
		}
	}

	fmt.Printf("\nIndex stored at: %s\n", dbPath)
	fmt.Printf("%+v\n", stats)
	return nil
}

func newEmbedder(cfg *config.Config) (port.Embedder, error) {
	switch cfg.Embedding.Provider {
	case "openai":
		return embedding.NewOpenAIEmbedder(cfg.Embedding.APIKeyEnv, cfg.Embedding.Model)
	case "jina":
		return embedding.NewJinaEmbedder(cfg.Embedding.APIKeyEnv, cfg.Embedding.Model)
	case "ollama":
		return embedding.NewOllamaEmbedder(cfg.Embedding.Model, cfg.Embedding.BaseURL)
	case "mock", "":
		return embedding.NewMockEmbedder(cfg.Embedding.Dimension), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Embedding.Provider)
	}
}
