package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHostLinker(t *testing.T) {
	ctx := context.Background()

	u, err := NewHostLinker("https://files.example.com").StreamURL(ctx, "clip_01.mp4")
	require.NoError(t, err)
	assert.Equal(t, "https://files.example.com/clip_01.mp4", u)

	_, err = NewHostLinker("").StreamURL(ctx, "x")
	require.Error(t, err)
}

func TestS3Linker_Presigns(t *testing.T) {
	ctx := context.Background()
	l, err := NewS3Linker(ctx, S3Config{
		Bucket:          "videos",
		Region:          "us-east-1",
		Endpoint:        "http://localhost:9000",
		AccessKeyID:     "test",
		SecretAccessKey: "test-secret",
		UsePathStyle:    true,
		TTL:             5 * time.Minute,
	})
	require.NoError(t, err)

	u, err := l.StreamURL(ctx, "clip_01.mp4")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u, "http://localhost:9000/videos/clip_01.mp4?"), u)
	assert.Contains(t, u, "X-Amz-Signature=")
	assert.Contains(t, u, "X-Amz-Expires=300")
}
