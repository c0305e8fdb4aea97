package cli

import (
	"context"
	"errors"
	"time"

	"github.com/custodia-labs/askdoc-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driving"
	"github.com/custodia-labs/askdoc-cli/internal/core/services"
)

// setupTestServices swaps the package-level services for in-memory
// fakes and returns a cleanup restoring the originals.
func setupTestServices() func() {
	oldSettingsStore := settingsStore
	oldAppSettings := appSettings
	oldDocStore := docStore
	oldConversations := conversations
	oldAsk := askService
	oldIngest := ingestService
	oldSession := sessionService

	settings := domain.DefaultSettings()
	settings.Embedding = domain.EmbeddingSettings{Provider: domain.AIProviderOllama, Model: "nomic-embed-text"}
	settings.LLM = domain.LLMSettings{Provider: domain.AIProviderOllama, Model: "llama3.2"}

	settingsStore = &stubSettingsStore{settings: settings}
	appSettings = &settings
	docStore = memory.NewDocumentStore()
	conversations = memory.NewConversationStore(settings.Memory.MaxHistory)
	askService = &mockAskService{}
	ingestService = &mockIngestService{}
	sessionService = services.NewSessionService(conversations)

	return func() {
		settingsStore = oldSettingsStore
		appSettings = oldAppSettings
		docStore = oldDocStore
		conversations = oldConversations
		askService = oldAsk
		ingestService = oldIngest
		sessionService = oldSession
	}
}

// stubSettingsStore keeps settings in memory.
type stubSettingsStore struct {
	settings domain.Settings
	saved    *domain.Settings
}

var _ driven.SettingsStore = (*stubSettingsStore)(nil)

func (s *stubSettingsStore) Load() (*domain.Settings, error) {
	copied := s.settings
	return &copied, nil
}

func (s *stubSettingsStore) Save(settings *domain.Settings) error {
	s.saved = settings
	s.settings = *settings
	return nil
}

func (s *stubSettingsStore) Path() string {
	return "/tmp/askdoc-test/config.toml"
}

// mockAskService returns a canned grounded answer.
type mockAskService struct {
	lastQuestion string
	lastOpts     driving.AskOptions
	err          error
}

var _ driving.AskService = (*mockAskService)(nil)

func (m *mockAskService) Ask(_ context.Context, question string, opts driving.AskOptions) (*domain.AnswerResult, error) {
	m.lastQuestion = question
	m.lastOpts = opts
	if m.err != nil {
		return nil, m.err
	}
	sessionID := opts.SessionID
	if sessionID == "" {
		sessionID = "generated-session"
	}
	return &domain.AnswerResult{
		Text: "Grounded answer [Source 1].",
		Sources: []domain.AnswerSource{
			{
				Index:      1,
				Excerpt:    "supporting fragment text",
				DocumentID: "doc-1",
				Metadata:   map[string]any{domain.MetadataKeySource: "notes.txt"},
			},
		},
		SessionID:   sessionID,
		Model:       "mock-llm",
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// mockIngestService records calls.
type mockIngestService struct {
	ingested  []string
	deleted   []string
	rebuilds  int
	err       error
	fragments int
}

var _ driving.IngestService = (*mockIngestService)(nil)

func (m *mockIngestService) IngestFile(_ context.Context, path string) (*driving.IngestResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.ingested = append(m.ingested, path)
	n := m.fragments
	if n == 0 {
		n = 3
	}
	return &driving.IngestResult{
		Document:  domain.Document{ID: "doc-1", Title: path, Kind: "txt"},
		Fragments: n,
	}, nil
}

func (m *mockIngestService) IngestBytes(_ context.Context, name string, _ []byte) (*driving.IngestResult, error) {
	return m.IngestFile(context.Background(), name)
}

func (m *mockIngestService) Delete(_ context.Context, documentID string) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = append(m.deleted, documentID)
	return nil
}

func (m *mockIngestService) Rebuild(_ context.Context) error {
	if m.err != nil {
		return m.err
	}
	m.rebuilds++
	return nil
}

var errMockFailure = errors.New("mock failure")
