package usecase_test

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/petmap-service/internal/domain"
	"github.com/petmap-service/internal/domain/repository"
	"github.com/petmap-service/internal/infrastructure/platform"
)

// MockPlaceRepository is a mock of PlaceRepository
type MockPlaceRepository struct {
	mock.Mock
}

func (m *MockPlaceRepository) SearchNearby(ctx context.Context, query repository.NearbyQuery) ([]json.RawMessage, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]json.RawMessage), args.Error(1)
}

// MockCacheRepository is a mock of CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

// MockStreamRepository is a mock of StreamRepository
type MockStreamRepository struct {
	mock.Mock
}

func (m *MockStreamRepository) ConsumeBatch(ctx context.Context, stream, group, consumer string, maxCount int) ([]domain.StreamMessage, error) {
	args := m.Called(ctx, stream, group, consumer, maxCount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StreamMessage), args.Error(1)
}

func (m *MockStreamRepository) AckMessage(ctx context.Context, stream, group, messageID string) error {
	args := m.Called(ctx, stream, group, messageID)
	return args.Error(0)
}

func (m *MockStreamRepository) AckMessages(ctx context.Context, stream, group string, messageIDs []string) error {
	args := m.Called(ctx, stream, group, messageIDs)
	return args.Error(0)
}

func (m *MockStreamRepository) CreateConsumerGroup(ctx context.Context, stream, group string) error {
	args := m.Called(ctx, stream, group)
	return args.Error(0)
}

func (m *MockStreamRepository) PublishToStream(ctx context.Context, stream string, data interface{}) error {
	args := m.Called(ctx, stream, data)
	return args.Error(0)
}

// gatedPlaceRepo отвечает по радиусу и умеет придерживать ответ до команды
type gatedPlaceRepo struct {
	mu        sync.Mutex
	responses map[int][]json.RawMessage
	gates     map[int]chan struct{}
	entered   chan int
}

func newGatedPlaceRepo() *gatedPlaceRepo {
	return &gatedPlaceRepo{
		responses: make(map[int][]json.RawMessage),
		gates:     make(map[int]chan struct{}),
		entered:   make(chan int, 16),
	}
}

func (r *gatedPlaceRepo) respond(radius int, records ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	raw := make([]json.RawMessage, 0, len(records))
	for _, rec := range records {
		raw = append(raw, json.RawMessage(rec))
	}
	r.responses[radius] = raw
}

func (r *gatedPlaceRepo) hold(radius int) chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	gate := make(chan struct{})
	r.gates[radius] = gate
	return gate
}

func (r *gatedPlaceRepo) SearchNearby(ctx context.Context, query repository.NearbyQuery) ([]json.RawMessage, error) {
	radius := query.Filter.RadiusMeters
	r.entered <- radius

	r.mu.Lock()
	gate := r.gates[radius]
	records := r.responses[radius]
	r.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return records, nil
}

// bridgeRecorder запоминает созданные адаптеры устройства
type bridgeRecorder struct {
	mu      sync.Mutex
	bridges []*platform.DeviceBridge
}

func (b *bridgeRecorder) factory(report domain.DeviceReport) repository.DeviceCapabilities {
	bridge := platform.NewDeviceBridge(report)
	b.mu.Lock()
	b.bridges = append(b.bridges, bridge)
	b.mu.Unlock()
	return bridge
}

func (b *bridgeRecorder) last() *platform.DeviceBridge {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bridges[len(b.bridges)-1]
}

func raws(records ...string) []json.RawMessage {
	out := make([]json.RawMessage, 0, len(records))
	for _, r := range records {
		out = append(out, json.RawMessage(r))
	}
	return out
}

func boolPtr(v bool) *bool { return &v }

func coordPtr(lat, lng float64) *domain.Coordinate {
	c := domain.NewCoordinate(lat, lng)
	return &c
}
