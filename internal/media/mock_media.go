package media

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockDownloader is a mock implementation of Downloader using testify/mock.
type MockDownloader struct {
	mock.Mock
}

func (m *MockDownloader) Download(ctx context.Context, url, dest string) (string, error) {
	args := m.Called(ctx, url, dest)
	return args.String(0), args.Error(1)
}

// MockExtractor is a mock implementation of Extractor using testify/mock.
type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) ExtractAudio(ctx context.Context, videoPath string) (string, error) {
	args := m.Called(ctx, videoPath)
	return args.String(0), args.Error(1)
}
