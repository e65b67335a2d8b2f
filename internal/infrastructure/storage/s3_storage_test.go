package storage

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	infraconfig "github.com/marketops/backend/internal/infrastructure/config"
	"github.com/marketops/backend/internal/infrastructure/labeling"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewS3ArtifactStorage_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *infraconfig.StorageConfig
		wantErr string
	}{
		{
			name:    "nil config",
			cfg:     nil,
			wantErr: "configuration is required",
		},
		{
			name:    "missing bucket",
			cfg:     &infraconfig.StorageConfig{AccessKey: "k", SecretKey: "s"},
			wantErr: "bucket is required",
		},
		{
			name:    "missing access key",
			cfg:     &infraconfig.StorageConfig{Bucket: "labels", SecretKey: "s"},
			wantErr: "access key is required",
		},
		{
			name:    "missing secret key",
			cfg:     &infraconfig.StorageConfig{Bucket: "labels", AccessKey: "k"},
			wantErr: "secret key is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewS3ArtifactStorage(tt.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewS3ArtifactStorage_Valid(t *testing.T) {
	s, err := NewS3ArtifactStorage(&infraconfig.StorageConfig{
		Bucket:    "labels",
		AccessKey: "key",
		SecretKey: "secret",
		Endpoint:  "minio.internal:9000",
		BaseURL:   "https://console.example.com/api/v1/labels/files/",
	})
	require.NoError(t, err)

	// Trailing slash on the base URL must not double up
	assert.Equal(t, "https://console.example.com/api/v1/labels/files/a/b.pdf", s.GetURL("a/b.pdf"))
	assert.Equal(t, "https://console.example.com/api/v1/labels/files/a/b.pdf", s.GetURL("/a/b.pdf"))
}

func TestArtifactKey(t *testing.T) {
	tenantID := uuid.New()
	jobID := uuid.New()

	key := artifactKey(&labeling.StoreRequest{TenantID: tenantID, JobID: jobID})

	parts := strings.Split(key, "/")
	require.Len(t, parts, 4)
	assert.Equal(t, tenantID.String(), parts[0])
	assert.Equal(t, jobID.String()+".pdf", parts[3])
	assert.Len(t, parts[2], 2) // zero-padded month
}

func TestSanitizeKey(t *testing.T) {
	t.Run("accepts normal keys", func(t *testing.T) {
		key, err := sanitizeKey("tenant/2026/08/job.pdf")
		require.NoError(t, err)
		assert.Equal(t, "tenant/2026/08/job.pdf", key)
	})

	t.Run("strips leading slash", func(t *testing.T) {
		key, err := sanitizeKey("/tenant/2026/08/job.pdf")
		require.NoError(t, err)
		assert.Equal(t, "tenant/2026/08/job.pdf", key)
	})

	t.Run("rejects traversal", func(t *testing.T) {
		_, err := sanitizeKey("../../etc/passwd")
		require.Error(t, err)

		var renderErr *labeling.RenderError
		require.ErrorAs(t, err, &renderErr)
		assert.Equal(t, labeling.ErrCodeStorageFailed, renderErr.Code)
	})
}
