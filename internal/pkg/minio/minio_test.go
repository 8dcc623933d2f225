package minio

import (
	"Shutter/internal/api/config"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPublicURL(t *testing.T) {
	config.Cfg = &config.Config{MinIO: config.MinIOConfig{ExternalEndpoint: "media.example.com"}}
	MainBucket = "shutter-media"
	t.Cleanup(func() { MainBucket = "" })

	assert.Equal(t, "https://media.example.com/shutter-media/2026/01/02/a.jpg", GetPublicURL("2026/01/02/a.jpg"))
	assert.Equal(t, "sim://x/a.jpg", GetPublicURL("sim://x/a.jpg"))
	assert.Equal(t, "", GetPublicURL(""))

	config.Cfg.MinIO = config.MinIOConfig{InternalEndpoint: "127.0.0.1:9000"}
	assert.Equal(t, "https://127.0.0.1:9000/shutter-media/k", GetPublicURL("k"))
}

func TestNewClient(t *testing.T) {
	_, err := newClient(config.MinIOConfig{})
	assert.Error(t, err)

	c, err := newClient(config.MinIOConfig{ExternalEndpoint: "media.example.com", AccessKey: "a", SecretKey: "b"})
	require.NoError(t, err)
	assert.Equal(t, "https", c.EndpointURL().Scheme)

	c, err = newClient(config.MinIOConfig{InternalEndpoint: "127.0.0.1:9000", ExternalEndpoint: "media.example.com"})
	require.NoError(t, err)
	assert.Equal(t, "http", c.EndpointURL().Scheme)
	assert.Equal(t, "127.0.0.1:9000", c.EndpointURL().Host)
}

func TestUninitializedClient(t *testing.T) {
	Client = nil
	ctx := context.Background()

	assert.Error(t, NewUploader().Check(ctx))
	_, err := UploadFile(ctx, "k", nil, 0, "image/jpeg")
	assert.Error(t, err)
	assert.Error(t, DeleteFile(ctx, "k"))
}
