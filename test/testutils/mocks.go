// Package testutils provides fakes and mocks shared by the package tests
package testutils

import (
	"context"
	"errors"
	"iter"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/fridgeraider/fridgeraider/internal/domain/chat"
	"github.com/fridgeraider/fridgeraider/internal/ports/outbound"
)

// ErrUnscripted is returned for an operation no reply was scripted for.
var ErrUnscripted = errors.New("no scripted reply")

// ScriptedReply is one canned answer of the ScriptedModel.
type ScriptedReply struct {
	Text      string
	Citations []chat.Citation
	Err       error
}

// ScriptedChunk is one canned stream chunk.
type ScriptedChunk struct {
	Text      string
	Citations []chat.Citation
	Err       error
}

// ScriptedModel is a LanguageModel that replays scripted replies keyed by
// request operation. The last reply of an operation repeats.
type ScriptedModel struct {
	mu       sync.Mutex
	replies  map[string][]ScriptedReply
	chunks   []ScriptedChunk
	holds    map[string]chan struct{}
	inFlight map[string]int
	calls    map[string]int
	requests []outbound.GenerateRequest
}

var _ outbound.LanguageModel = (*ScriptedModel)(nil)

// NewScriptedModel creates an empty script
func NewScriptedModel() *ScriptedModel {
	return &ScriptedModel{
		replies:  make(map[string][]ScriptedReply),
		holds:    make(map[string]chan struct{}),
		inFlight: make(map[string]int),
		calls:    make(map[string]int),
	}
}

// On queues replies for an operation.
func (m *ScriptedModel) On(operation string, replies ...ScriptedReply) *ScriptedModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies[operation] = append(m.replies[operation], replies...)
	return m
}

// OnStream sets the chunks every Stream call replays.
func (m *ScriptedModel) OnStream(chunks ...ScriptedChunk) *ScriptedModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chunks = chunks
	return m
}

// Hold makes Generate calls for operation block until release is called.
func (m *ScriptedModel) Hold(operation string) (release func()) {
	gate := make(chan struct{})
	m.mu.Lock()
	m.holds[operation] = gate
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.holds, operation)
			m.mu.Unlock()
			close(gate)
		})
	}
}

// Calls returns how many Generate calls an operation received.
func (m *ScriptedModel) Calls(operation string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[operation]
}

// InFlight returns how many calls of an operation are currently blocked.
func (m *ScriptedModel) InFlight(operation string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inFlight[operation]
}

// Requests returns every request received so far.
func (m *ScriptedModel) Requests() []outbound.GenerateRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]outbound.GenerateRequest(nil), m.requests...)
}

func (m *ScriptedModel) Name() string {
	return "scripted"
}

func (m *ScriptedModel) Generate(ctx context.Context, req outbound.GenerateRequest) (*outbound.GenerateResponse, error) {
	m.mu.Lock()
	m.calls[req.Operation]++
	m.requests = append(m.requests, req)
	gate := m.holds[req.Operation]
	m.inFlight[req.Operation]++
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.inFlight[req.Operation]--
		m.mu.Unlock()
	}()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	m.mu.Lock()
	queue := m.replies[req.Operation]
	if len(queue) == 0 {
		m.mu.Unlock()
		return nil, ErrUnscripted
	}
	reply := queue[0]
	if len(queue) > 1 {
		m.replies[req.Operation] = queue[1:]
	}
	m.mu.Unlock()

	if reply.Err != nil {
		return nil, reply.Err
	}
	return &outbound.GenerateResponse{Text: reply.Text, Citations: reply.Citations, Model: "scripted"}, nil
}

func (m *ScriptedModel) Stream(ctx context.Context, req outbound.GenerateRequest) iter.Seq2[outbound.StreamChunk, error] {
	m.mu.Lock()
	m.calls[req.Operation]++
	m.requests = append(m.requests, req)
	chunks := append([]ScriptedChunk(nil), m.chunks...)
	m.mu.Unlock()

	return func(yield func(outbound.StreamChunk, error) bool) {
		for _, c := range chunks {
			if c.Err != nil {
				yield(outbound.StreamChunk{}, c.Err)
				return
			}
			if !yield(outbound.StreamChunk{Text: c.Text, Citations: c.Citations}, nil) {
				return
			}
		}
	}
}

func (m *ScriptedModel) HealthCheck(ctx context.Context) error {
	return nil
}

// MockCacheRepository provides a mock implementation of CacheRepository
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

// RecordingBus is a MessageBus that records published messages and delivers
// them synchronously to subscribers.
type RecordingBus struct {
	mu        sync.Mutex
	published []outbound.Message
	handlers  map[string][]outbound.MessageHandler
}

var _ outbound.MessageBus = (*RecordingBus)(nil)

func NewRecordingBus() *RecordingBus {
	return &RecordingBus{handlers: make(map[string][]outbound.MessageHandler)}
}

func (b *RecordingBus) Publish(ctx context.Context, topic string, message outbound.Message) error {
	b.mu.Lock()
	b.published = append(b.published, message)
	handlers := append([]outbound.MessageHandler(nil), b.handlers[topic]...)
	b.mu.Unlock()

	for _, h := range handlers {
		if err := h(ctx, message); err != nil {
			return err
		}
	}
	return nil
}

func (b *RecordingBus) Subscribe(ctx context.Context, topic string, handler outbound.MessageHandler) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[topic] = append(b.handlers[topic], handler)
	return nil
}

func (b *RecordingBus) Close() error {
	return nil
}

// Types returns the Type of every published message in order.
func (b *RecordingBus) Types() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	types := make([]string, 0, len(b.published))
	for _, m := range b.published {
		types = append(types, m.Type)
	}
	return types
}
