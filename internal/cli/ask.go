package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chittiv1113/Oracle/config"
	"github.com/chittiv1113/Oracle/internal/adapter/lexical"
	"github.com/chittiv1113/Oracle/internal/adapter/reranker"
	"github.com/chittiv1113/Oracle/internal/adapter/store"
	"github.com/chittiv1113/Oracle/internal/adapter/vectorindex"
	"github.com/chittiv1113/Oracle/internal/port"
	"github.com/chittiv1113/Oracle/internal/usecase"
)

var (
	askTopK     int
	askNoRerank bool
	askDryRun   bool
	askNoCache  bool
	askJSON     bool
)

var askCmd = &cobra.Command{
	Use:   "ask QUESTION",
	Short: "Run hybrid_search over the index and print the results",
	Long: `ask fuses a BM25 lexical search with an HNSW vector search via
reciprocal rank fusion, then optionally reranks the fused candidates with a
cross-encoder.

Example usage:
  oracle ask "how does auth work?"
  oracle ask "where is the retry logic" --top-k 5 --no-rerank`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVar(&askTopK, "top-k", 0, "number of results to return (default from config)")
	askCmd.Flags().BoolVar(&askNoRerank, "no-rerank", false, "skip the reranking pass")
	askCmd.Flags().BoolVar(&askDryRun, "dry-run", false, "print the query plan without hitting external services")
	askCmd.Flags().BoolVar(&askNoCache, "no-cache", false, "accepted for CLI compatibility; this engine caches nothing at the core boundary")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := args[0]
	cfg := GetConfig()
	rootDir := GetRootDir()

	dbPath := config.IndexDBPath(rootDir)
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return fmt.Errorf("no index found at %s, run 'oracle index full' first", dbPath)
	}

	st, err := store.NewBoltStore(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open chunk store: %w", err)
	}
	defer st.Close()

	lexIdx := lexical.NewIndex(true, cfg.Lexical.K1, cfg.Lexical.B, cfg.Lexical.PathBoostWeight)
	if err := lexIdx.Load(config.LexicalIndexPath(rootDir)); err != nil {
		return fmt.Errorf("failed to load lexical index: %w", err)
	}

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
	if err := vecIdx.Load(config.VectorIndexPath(rootDir)); err != nil {
		return fmt.Errorf("failed to load vector index: %w", err)
	}

	embedder, err := newEmbedder(cfg)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	var rr port.Reranker
	if !askNoRerank {
		rr = reranker.NewConfiguredReranker(&cfg.Rerank)
	}

	retriever := usecase.NewRetriever(st, lexIdx, embedder, vecIdx, rr)

	opts := usecase.DefaultRetrieveOptions()
	if cfg.Rerank.TopN > 0 {
		opts.TopN = cfg.Rerank.TopN
	}
	if askTopK > 0 {
		opts.TopN = askTopK
	}
	opts.Rerank = !askNoRerank
	opts.RRFK = cfg.Rerank.FusionK
	if cfg.Rerank.FusionSize > 0 {
		opts.FusionLimit = cfg.Rerank.FusionSize
	}

	if askDryRun {
		fmt.Printf("query: %q\n", question)
		fmt.Printf("bm25_limit=%d vector_limit=%d fusion_limit=%d rrf_k=%d rerank=%v top_n=%d\n",
			opts.BM25Limit, opts.VectorLimit, opts.FusionLimit, opts.RRFK, opts.Rerank, opts.TopN)
		return nil
	}

	results, err := retriever.Retrieve(cmd.Context(), question, opts)
	if err != nil {
		return fmt.Errorf("hybrid_search failed: %w", err)
	}

	if askJSON {
		output, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		fmt.Println(string(output))
		return nil
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Printf("Found %d results for: %s\n\n", len(results), question)
	for i, r := range results {
		fmt.Printf("--- [%d] %s:L%d-%d (score: %.4f) ---\n", i+1, r.FilePath, r.StartLine, r.EndLine, r.Score)
		text := r.Content
		if len(text) > 500 {
			text = text[:500] + "..."
		}
		fmt.Println(text)
		fmt.Println()
	}
	return nil
}
