package agent

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/jupitermoney/edge-agent/pkg/logging"
)

// KnowledgeIndex holds the embedded corpus and supports cosine retrieval and
// section-tag lookup. Built once at startup; read-only afterwards.
type KnowledgeIndex struct {
	embedder   Embedder
	logger     *logging.Logger
	docs       []KnowledgeDocument
	embeddings [][]float32
}

// NewKnowledgeIndex embeds the whole corpus up front. Any embedding failure
// here is fatal: serving ungrounded answers silently is worse than refusing
// to start.
func NewKnowledgeIndex(ctx context.Context, docs []KnowledgeDocument, embedder Embedder, logger *logging.Logger) (*KnowledgeIndex, error) {
	if embedder == nil {
		panic("agent: embedder cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if len(docs) == 0 {
		return nil, errors.New("agent: knowledge corpus is empty")
	}

	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Content
	}

	embeddings, err := embedder.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("agent: embed corpus: %w", err)
	}
	if len(embeddings) != len(docs) {
		return nil, fmt.Errorf("agent: expected %d corpus embeddings, got %d", len(docs), len(embeddings))
	}

	logger.Info("knowledge index built", "documents", len(docs))

	return &KnowledgeIndex{
		embedder:   embedder,
		logger:     logger,
		docs:       docs,
		embeddings: embeddings,
	}, nil
}

// Search returns the top-k passages by descending cosine similarity to the
// query. Ties break by corpus insertion order.
func (ix *KnowledgeIndex) Search(ctx context.Context, query string, topK int) ([]string, error) {
	if topK <= 0 {
		topK = 5
	}

	queryEmbeddings, err := ix.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("agent: embed query: %w", err)
	}
	if len(queryEmbeddings) == 0 {
		return nil, errors.New("agent: query embedding was empty")
	}
	queryVec := queryEmbeddings[0]

	type scored struct {
		index int
		score float64
	}
	results := make([]scored, len(ix.docs))
	for i := range ix.docs {
		results[i] = scored{index: i, score: cosineSimilarity(queryVec, ix.embeddings[i])}
	}

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].score > results[b].score
	})

	if topK > len(results) {
		topK = len(results)
	}
	passages := make([]string, 0, topK)
	for _, r := range results[:topK] {
		passages = append(passages, ix.docs[r.index].Content)
	}
	return passages, nil
}

// Section returns all passages whose section tag contains the given name.
func (ix *KnowledgeIndex) Section(name string) []string {
	name = strings.ToLower(name)
	var matches []string
	for _, doc := range ix.docs {
		if strings.Contains(strings.ToLower(doc.Section), name) {
			matches = append(matches, doc.Content)
		}
	}
	return matches
}

// Documents returns the corpus size.
func (ix *KnowledgeIndex) Documents() int {
	return len(ix.docs)
}

// cosineSimilarity accumulates in float64 for numerical stability. A
// zero-norm vector yields 0, never a division by zero.
func cosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		av := float64(a[i])
		bv := float64(b[i])
		dot += av * bv
		normA += av * av
		normB += bv * bv
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
