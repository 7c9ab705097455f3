// Package cli wires cobra commands onto the orchestrator and retriever use
// cases.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/chittiv1113/Oracle/config"
)

var (
	cfgFile string
	cfg     *config.Config
	rootDir string
)

var rootCmd = &cobra.Command{
	Use:   "oracle",
	Short: "Hybrid lexical/vector code search for repository question-answering",
	Long: `oracle indexes a repository into a BM25 lexical index and an HNSW
vector index, then answers questions by fusing both rankings.

Example usage:
  oracle index full .                  # Build a fresh index
  oracle index update .                 # Reindex only changed files
  oracle ask "how does auth work?"      # Search the index`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if rootDir == "" {
			rootDir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadFromDir(rootDir)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		return nil
	},
}

// Execute runs the root command under a context cancelled on SIGINT or
// SIGTERM, exiting with 0 on success, 1 on a fatal error, 130 on interrupt,
// or 143 on termination.
func Execute() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	exitCode := 0
	go func() {
		select {
		case sig := <-sigCh:
			switch sig {
			case syscall.SIGINT:
				exitCode = 130
			case syscall.SIGTERM:
				exitCode = 143
			}
			cancel()
		case <-ctx.Done():
		}
	}()

	if err := rootCmd.ExecuteContext(ctx); err != nil && exitCode == 0 {
		exitCode = 1
	}
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./oracle.yaml)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "d", "", "root directory (default is current directory)")
}

func GetConfig() *config.Config {
	return cfg
}

func GetRootDir() string {
	return rootDir
}
