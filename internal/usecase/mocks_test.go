package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"lifesaver-qr/internal/delivery/dto"
	"lifesaver-qr/internal/domain/entity"
	"lifesaver-qr/internal/domain/repository"
	"lifesaver-qr/pkg/qrcode"
)

var _ repository.EmergencyRecordRepository = (*MockEmergencyRecordRepository)(nil)

type MockEmergencyRecordRepository struct {
	CreateFunc   func(ctx context.Context, record *entity.EmergencyRecord) error
	FindByIDFunc func(ctx context.Context, id string) (*entity.EmergencyRecord, error)

	CreateCallCount   int32
	FindByIDCallCount int32
}

func (m *MockEmergencyRecordRepository) Create(ctx context.Context, record *entity.EmergencyRecord) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, record)
	}
	return nil
}

func (m *MockEmergencyRecordRepository) FindByID(ctx context.Context, id string) (*entity.EmergencyRecord, error) {
	atomic.AddInt32(&m.FindByIDCallCount, 1)
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, errors.New("FindByIDFunc not implemented in mock")
}

// newMemoryRepository backs the mock with a map so writes are visible to
// later reads.
func newMemoryRepository() *MockEmergencyRecordRepository {
	var mu sync.Mutex
	records := map[string]entity.EmergencyRecord{}

	return &MockEmergencyRecordRepository{
		CreateFunc: func(_ context.Context, record *entity.EmergencyRecord) error {
			mu.Lock()
			defer mu.Unlock()
			records[record.ID] = *record
			return nil
		},
		FindByIDFunc: func(_ context.Context, id string) (*entity.EmergencyRecord, error) {
			mu.Lock()
			defer mu.Unlock()
			record, ok := records[id]
			if !ok {
				return nil, nil
			}
			return &record, nil
		},
	}
}

var _ qrcode.Renderer = (*MockRenderer)(nil)

type MockRenderer struct {
	RenderFunc func(text string, w, h int) ([]byte, error)

	RenderCallCount int32
	lastText        atomic.Value
}

func (m *MockRenderer) Render(text string, w, h int) ([]byte, error) {
	atomic.AddInt32(&m.RenderCallCount, 1)
	m.lastText.Store(text)
	if m.RenderFunc != nil {
		return m.RenderFunc(text, w, h)
	}
	return []byte("png"), nil
}

func (m *MockRenderer) LastText() string {
	text, _ := m.lastText.Load().(string)
	return text
}

var _ DocumentComposer = (*MockComposer)(nil)

type MockComposer struct {
	ComposeFunc func(record *entity.EmergencyRecord, profileURL string) ([]byte, error)

	ComposeCallCount int32
}

func (m *MockComposer) Compose(record *entity.EmergencyRecord, profileURL string) ([]byte, error) {
	atomic.AddInt32(&m.ComposeCallCount, 1)
	if m.ComposeFunc != nil {
		return m.ComposeFunc(record, profileURL)
	}
	return []byte("%PDF-1.3"), nil
}

var _ ProfileCache = (*MockProfileCache)(nil)

type MockProfileCache struct {
	GetFunc func(ctx context.Context, id string) (*dto.PublicProfileResponse, error)
	SetFunc func(ctx context.Context, id string, profile dto.PublicProfileResponse) error

	GetCallCount int32
	SetCallCount int32
}

func (m *MockProfileCache) Get(ctx context.Context, id string) (*dto.PublicProfileResponse, error) {
	atomic.AddInt32(&m.GetCallCount, 1)
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockProfileCache) Set(ctx context.Context, id string, profile dto.PublicProfileResponse) error {
	atomic.AddInt32(&m.SetCallCount, 1)
	if m.SetFunc != nil {
		return m.SetFunc(ctx, id, profile)
	}
	return nil
}
