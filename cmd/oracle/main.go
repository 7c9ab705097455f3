// Command oracle indexes a repository into a BM25 lexical index and an
// HNSW vector index, then answers questions by fusing both rankings.
package main

import (
	"github.com/chittiv1113/Oracle/internal/cli"
)

func main() {
	cli.Execute()
}
