package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/jupitermoney/edge-agent/pkg/logging"
)

// stubEmbedder maps texts to fixed vectors by substring match, recording the
// last query it saw.
type stubEmbedder struct {
	vectors   map[string][]float32
	fallback  []float32
	lastQuery string
	err       error
}

func (s *stubEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		s.lastQuery = text
		vec := s.fallback
		for key, v := range s.vectors {
			if key != "" && containsFold(text, key) {
				vec = v
				break
			}
		}
		if vec == nil {
			vec = []float32{0, 0, 0}
		}
		out[i] = vec
	}
	return out, nil
}

func containsFold(s, substr string) bool {
	return len(substr) > 0 && len(s) >= len(substr) && indexFold(s, substr) >= 0
}

func indexFold(s, substr string) int {
	lower := func(r byte) byte {
		if r >= 'A' && r <= 'Z' {
			return r + 'a' - 'A'
		}
		return r
	}
	for i := 0; i+len(substr) <= len(s); i++ {
		match := true
		for j := 0; j < len(substr); j++ {
			if lower(s[i+j]) != lower(substr[j]) {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

func testDocs() []KnowledgeDocument {
	return []KnowledgeDocument{
		{Content: "Shopping cashback is 10%", Section: "shopping_cashback"},
		{Content: "Travel cashback is 5%", Section: "travel_cashback"},
		{Content: "Joining fee is zero", Section: "fees_and_charges"},
	}
}

func newTestIndex(t *testing.T, emb *stubEmbedder) *KnowledgeIndex {
	t.Helper()
	ix, err := NewKnowledgeIndex(context.Background(), testDocs(), emb, logging.Default())
	if err != nil {
		t.Fatalf("NewKnowledgeIndex: %v", err)
	}
	return ix
}

func TestNewKnowledgeIndexEmptyCorpus(t *testing.T) {
	emb := &stubEmbedder{}
	if _, err := NewKnowledgeIndex(context.Background(), nil, emb, nil); err == nil {
		t.Fatal("expected error for empty corpus")
	}
}

func TestNewKnowledgeIndexEmbedFailureIsFatal(t *testing.T) {
	emb := &stubEmbedder{err: errors.New("provider down")}
	if _, err := NewKnowledgeIndex(context.Background(), testDocs(), emb, nil); err == nil {
		t.Fatal("expected embed failure to abort construction")
	}
}

func TestSearchRanksByCosineSimilarity(t *testing.T) {
	emb := &stubEmbedder{
		vectors: map[string][]float32{
			"shopping": {1, 0, 0},
			"travel":   {0, 1, 0},
			"joining":  {0, 0, 1},
			"about shopping please": {1, 0, 0},
		},
	}
	ix := newTestIndex(t, emb)

	got, err := ix.Search(context.Background(), "about shopping please", 2)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 passages, got %d", len(got))
	}
	if got[0] != "Shopping cashback is 10%" {
		t.Errorf("top passage = %q, want shopping passage", got[0])
	}
}

func TestSearchZeroNormQueryScoresZero(t *testing.T) {
	emb := &stubEmbedder{
		vectors: map[string][]float32{
			"shopping": {1, 0, 0},
			"travel":   {0, 1, 0},
			"joining":  {0, 0, 1},
		},
	}
	ix := newTestIndex(t, emb)

	// Unknown query embeds to the zero vector: every score is 0 and ties
	// break by insertion order.
	got, err := ix.Search(context.Background(), "zzz", 3)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if got[0] != "Shopping cashback is 10%" || got[2] != "Joining fee is zero" {
		t.Errorf("tie-break should preserve insertion order, got %v", got)
	}
}

func TestSearchTopKClamped(t *testing.T) {
	emb := &stubEmbedder{}
	ix := newTestIndex(t, emb)

	got, err := ix.Search(context.Background(), "anything", 50)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != len(testDocs()) {
		t.Errorf("expected clamp to corpus size, got %d", len(got))
	}
}

func TestSection(t *testing.T) {
	emb := &stubEmbedder{}
	ix := newTestIndex(t, emb)

	got := ix.Section("cashback")
	if len(got) != 2 {
		t.Fatalf("expected 2 cashback passages, got %d", len(got))
	}
	if got := ix.Section("nonexistent"); len(got) != 0 {
		t.Errorf("expected no passages, got %v", got)
	}
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"zero norm", []float32{0, 0}, []float32{1, 1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cosineSimilarity(tt.a, tt.b)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("cosineSimilarity = %v, want %v", got, tt.want)
			}
		})
	}
}
