package retriever

import (
	"context"
	"fmt"
	"strings"

	"gym-agent-be/internal/entity"
	"gym-agent-be/pkg/agent"
)

const (
	Name     = "retriever"
	DefaultK = 3
)

// Searcher is the slice of the document store the tool needs.
type Searcher interface {
	SimilaritySearch(ctx context.Context, query string, k int) ([]*entity.ScoredDocumentChunk, error)
}

type Tool struct {
	searcher Searcher
	k        int
}

func New(searcher Searcher, k int) *Tool {
	if k <= 0 {
		k = DefaultK
	}
	return &Tool{searcher: searcher, k: k}
}

func (t *Tool) Spec() agent.ToolSpec {
	return agent.ToolSpec{
		Name: Name,
		Description: "Uses semantic search to retrieve the parts of the documentation most relevant to the query. " +
			"The documents cover the gym's policies, rules, memberships and services.",
		InputSchema: agent.QuerySchema("The search query. Write it as a statement rather than a question."),
	}
}

func (t *Tool) Invoke(ctx context.Context, args map[string]any) (string, error) {
	query, err := agent.StringArg(args, "query")
	if err != nil {
		return "", err
	}
	return t.Retrieve(ctx, query)
}

// Retrieve renders the top k chunks as numbered blocks.
func (t *Tool) Retrieve(ctx context.Context, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", fmt.Errorf("query must not be empty")
	}

	results, err := t.searcher.SimilaritySearch(ctx, query, t.k)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("\nRetrieved documents:\n")
	for i, r := range results {
		fmt.Fprintf(&b, "\n\n===== Document %d =====\n%s", i, r.Chunk.Content)
	}
	return b.String(), nil
}
