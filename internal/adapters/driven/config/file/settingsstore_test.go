package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	store, err := NewSettingsStore(t.TempDir())
	require.NoError(t, err)

	settings, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultChunkSize, settings.Chunking.Size)
	assert.Equal(t, domain.DefaultMaxHistory, settings.Memory.MaxHistory)
	assert.Equal(t, domain.DefaultTopK, settings.Retrieval.TopK)
	assert.False(t, settings.Embedding.IsConfigured())
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	store, err := NewSettingsStore(t.TempDir())
	require.NoError(t, err)

	want := domain.DefaultSettings()
	want.Embedding = domain.EmbeddingSettings{
		Provider: domain.AIProviderOllama,
		Model:    "nomic-embed-text",
		BaseURL:  "http://localhost:11434",
	}
	want.LLM = domain.LLMSettings{
		Provider:    domain.AIProviderOpenAI,
		Model:       "gpt-4o-mini",
		APIKey:      "sk-test",
		MaxTokens:   512,
		Temperature: 0.2,
	}
	want.Retrieval.MinScore = 0.7
	require.NoError(t, store.Save(&want))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, want.Embedding, got.Embedding)
	assert.Equal(t, want.LLM, got.LLM)
	assert.Equal(t, 0.7, got.Retrieval.MinScore)
}

func TestLoad_NormalisesPartialFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"),
		[]byte("[embedding]\nprovider = \"ollama\"\nmodel = \"all-minilm\"\n"), 0o600))

	store, err := NewSettingsStore(dir)
	require.NoError(t, err)

	settings, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOllama, settings.Embedding.Provider)
	// Omitted tunables fall back to defaults.
	assert.Equal(t, domain.DefaultChunkSize, settings.Chunking.Size)
	assert.Equal(t, domain.DefaultTopK, settings.Retrieval.TopK)
}

func TestSave_FilePermissions(t *testing.T) {
	store, err := NewSettingsStore(t.TempDir())
	require.NoError(t, err)

	settings := domain.DefaultSettings()
	settings.LLM.APIKey = "sk-secret"
	require.NoError(t, store.Save(&settings))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLoad_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("not [valid toml"), 0o600))

	store, err := NewSettingsStore(dir)
	require.NoError(t, err)

	_, err = store.Load()
	assert.Error(t, err)
}
