package domain

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API, or any compatible
	// endpoint (Groq, Azure OpenAI) via a custom base URL.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is the Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI-compatible (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// AllEmbeddingProviders lists the providers that can serve embeddings,
// in menu order. Anthropic offers no embedding API.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{AIProviderOllama, AIProviderOpenAI}
}

// AllLLMProviders lists the providers that can serve completions, in
// menu order.
func AllLLMProviders() []AIProvider {
	return []AIProvider{AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic}
}

// DefaultEmbeddingModels maps each embedding provider to its default model.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// DefaultLLMModels maps each LLM provider to its default model.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider `toml:"provider"`

	// Model is the embedding model name.
	Model string `toml:"model"`

	// BaseURL is the API endpoint (for Ollama or compatible clouds).
	BaseURL string `toml:"base_url,omitempty"`

	// APIKey is the API key (for cloud providers).
	APIKey string `toml:"api_key,omitempty"`

	// Dimensions overrides the model's default vector size.
	Dimensions int `toml:"dimensions,omitempty"`
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds language model provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider `toml:"provider"`

	// Model is the LLM model name.
	Model string `toml:"model"`

	// BaseURL is the API endpoint (for Ollama or compatible clouds).
	BaseURL string `toml:"base_url,omitempty"`

	// APIKey is the API key (for cloud providers).
	APIKey string `toml:"api_key,omitempty"`

	// MaxTokens caps the answer length.
	MaxTokens int `toml:"max_tokens,omitempty"`

	// Temperature controls generation randomness.
	Temperature float64 `toml:"temperature,omitempty"`
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// ChunkingSettings holds fragmenting parameters.
type ChunkingSettings struct {
	// Size is the target fragment size in characters.
	Size int `toml:"size"`

	// Overlap is the number of characters adjacent fragments share.
	Overlap int `toml:"overlap"`
}

// MemorySettings holds conversation memory parameters.
type MemorySettings struct {
	// MaxHistory is the number of question/answer pairs retained per
	// session. Oldest turns are evicted first.
	MaxHistory int `toml:"max_history"`
}

// RetrievalSettings holds retrieval parameters.
type RetrievalSettings struct {
	// TopK is the number of fragments retrieved per question.
	TopK int `toml:"top_k"`

	// MinScore is an optional relevance floor; fragments scoring below it
	// are discarded before synthesis. Zero disables the floor.
	MinScore float64 `toml:"min_score,omitempty"`
}

// Settings is the full validated configuration, assembled once at startup
// and injected into each component's constructor.
type Settings struct {
	// DataDir is the root directory for persisted state (index, metadata).
	DataDir string `toml:"data_dir,omitempty"`

	Embedding EmbeddingSettings `toml:"embedding"`
	LLM       LLMSettings       `toml:"llm"`
	Chunking  ChunkingSettings  `toml:"chunking"`
	Memory    MemorySettings    `toml:"memory"`
	Retrieval RetrievalSettings `toml:"retrieval"`
}

// Default configuration values.
const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
	DefaultMaxHistory   = 10
	DefaultTopK         = 5
)

// DefaultSettings returns settings with all tunables at their defaults and
// no providers configured.
func DefaultSettings() Settings {
	return Settings{
		Chunking:  ChunkingSettings{Size: DefaultChunkSize, Overlap: DefaultChunkOverlap},
		Memory:    MemorySettings{MaxHistory: DefaultMaxHistory},
		Retrieval: RetrievalSettings{TopK: DefaultTopK},
	}
}

// Normalise fills zero-valued tunables with defaults. Provider settings
// are left untouched; their absence is reported by Validate.
func (s *Settings) Normalise() {
	if s.Chunking.Size <= 0 {
		s.Chunking.Size = DefaultChunkSize
	}
	if s.Chunking.Overlap < 0 {
		s.Chunking.Overlap = DefaultChunkOverlap
	}
	if s.Memory.MaxHistory <= 0 {
		s.Memory.MaxHistory = DefaultMaxHistory
	}
	if s.Retrieval.TopK <= 0 {
		s.Retrieval.TopK = DefaultTopK
	}
}

// Validate checks the configuration for internal consistency. It returns
// a ConfigurationError on the first invalid field. Provider connectivity
// is checked separately at service construction.
func (s Settings) Validate() error {
	if s.Chunking.Size <= 0 {
		return &ConfigurationError{Field: "chunking.size", Reason: "must be positive"}
	}
	if s.Chunking.Overlap < 0 {
		return &ConfigurationError{Field: "chunking.overlap", Reason: "must not be negative"}
	}
	if s.Chunking.Overlap >= s.Chunking.Size {
		return &ConfigurationError{Field: "chunking.overlap", Reason: "must be smaller than chunking.size"}
	}
	if s.Memory.MaxHistory <= 0 {
		return &ConfigurationError{Field: "memory.max_history", Reason: "must be positive"}
	}
	if s.Retrieval.TopK <= 0 {
		return &ConfigurationError{Field: "retrieval.top_k", Reason: "must be positive"}
	}
	if s.Retrieval.MinScore < 0 {
		return &ConfigurationError{Field: "retrieval.min_score", Reason: "must not be negative"}
	}
	if s.Embedding.Provider != "" && !s.Embedding.Provider.IsValid() {
		return &ConfigurationError{Field: "embedding.provider", Reason: "unknown provider " + s.Embedding.Provider.String()}
	}
	if s.LLM.Provider != "" && !s.LLM.Provider.IsValid() {
		return &ConfigurationError{Field: "llm.provider", Reason: "unknown provider " + s.LLM.Provider.String()}
	}
	if s.Embedding.Provider.RequiresAPIKey() && s.Embedding.APIKey == "" {
		return &ConfigurationError{Field: "embedding.api_key", Reason: "required for provider " + s.Embedding.Provider.String()}
	}
	if s.LLM.Provider.RequiresAPIKey() && s.LLM.APIKey == "" {
		return &ConfigurationError{Field: "llm.api_key", Reason: "required for provider " + s.LLM.Provider.String()}
	}
	return nil
}
