// Package mocks provides mock implementations of core interfaces for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"clipforge/internal/types"
)

// MockTranscriber is a mock implementation of types.Transcriber
type MockTranscriber struct {
	mock.Mock
}

func (m *MockTranscriber) Transcribe(ctx context.Context, audioPath string, window types.TimeWindow) (*types.Transcript, error) {
	args := m.Called(ctx, audioPath, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Transcript), args.Error(1)
}

// MockScorer is a mock implementation of types.Scorer
type MockScorer struct {
	mock.Mock
}

func (m *MockScorer) ScoreClip(ctx context.Context, text string) (types.ClipScore, error) {
	args := m.Called(ctx, text)
	return args.Get(0).(types.ClipScore), args.Error(1)
}

// MockChatCompleter is a mock implementation of types.ChatCompleter
type MockChatCompleter struct {
	mock.Mock
}

func (m *MockChatCompleter) ChatCompletion(prompt string) (string, error) {
	args := m.Called(prompt)
	return args.String(0), args.Error(1)
}

// MockMediaProber is a mock implementation of types.MediaProber
type MockMediaProber struct {
	mock.Mock
}

func (m *MockMediaProber) Probe(ctx context.Context, path string) (*types.VideoMeta, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.VideoMeta), args.Error(1)
}

// MockAudioExtractor is a mock implementation of types.AudioExtractor
type MockAudioExtractor struct {
	mock.Mock
}

func (m *MockAudioExtractor) ExtractAudio(ctx context.Context, sourcePath string, window types.TimeWindow) (string, error) {
	args := m.Called(ctx, sourcePath, window)
	return args.String(0), args.Error(1)
}

// MockSourceResolver is a mock implementation of service.SourceResolver
type MockSourceResolver struct {
	mock.Mock
}

func (m *MockSourceResolver) Resolve(ctx context.Context, desc types.SourceDescriptor, destDir string) (string, error) {
	args := m.Called(ctx, desc, destDir)
	return args.String(0), args.Error(1)
}
