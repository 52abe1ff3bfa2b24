package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "tfidf", cfg.Embedder.Type)
	assert.Equal(t, "memory", cfg.VectorStore.Type)
	assert.Equal(t, "data", cfg.Data.Dir)
	assert.Equal(t, "gpt-3.5-turbo", cfg.Generator.Model)
	assert.Equal(t, 3, cfg.Retrieval.TopK)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := &AppConfig{
		Data: DataConfig{
			Dir:        "datos",
			TabularDir: "datos/tablas",
			Documents:  []string{"datos/*.pdf"},
		},
		Embedder: EmbedderConfig{Type: "openai", OpenAI: &OpenAIEmbedderConfig{Model: "text-embedding-ada-002"}},
		Chunker:  ChunkerConfig{Type: "sentence", SentencesPerChunk: 3, OverlapSentences: 1},
		VectorStore: VectorStoreConfig{
			Type:   "qdrant",
			Qdrant: &QdrantConfig{URL: "http://localhost:6333", Collection: "allison"},
		},
		Summarizer: SummarizerConfig{Type: "frequency", MaxSentences: 4},
		Generator:  GeneratorConfig{Model: "gpt-3.5-turbo", Temperature: 0},
		Retrieval:  RetrievalConfig{TopK: 5},
	}
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "datos/tablas", got.Data.TabularDir)
	assert.Equal(t, "qdrant", got.VectorStore.Type)
	assert.Equal(t, "allison", got.VectorStore.Qdrant.Collection)
	assert.Equal(t, 5, got.Retrieval.TopK)
	assert.Equal(t, 3, got.Chunker.SentencesPerChunk)
}

func TestLoadAppliesGeneratorDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, Save(path, &AppConfig{}))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "OPENAI_API_KEY", cfg.Generator.APIKeyEnv)
	assert.Equal(t, "gpt-3.5-turbo", cfg.Generator.Model)
	assert.Equal(t, 60, cfg.Generator.TimeoutSecs)
	assert.Equal(t, 3, cfg.Retrieval.TopK)
	assert.Equal(t, "data", cfg.Data.Dir)
}
