package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/q-controller/facerecd/src/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BUCKET_NAME", "faces")
	t.Setenv("DOMAIN_NAME", "results")
	t.Setenv("REGION_NAME", "us-east-1")

	cfg, err := config.Load("", false)
	require.NoError(t, err)

	assert.Equal(t, "faces", cfg.BucketName)
	assert.Equal(t, "results", cfg.DomainName)
	assert.Equal(t, "us-east-1", cfg.RegionName)
	assert.Equal(t, ":8000", cfg.ListenAddress)
	assert.Equal(t, config.ObjectBackendS3, cfg.ObjectBackend)
	assert.Equal(t, config.AttributeBackendSimpleDB, cfg.AttributeBackend)
	assert.Equal(t, "ItemName", cfg.DynamoDBKeyAttribute)
	assert.Equal(t, 30*time.Second, cfg.ConnectTimeout())
	assert.Equal(t, 30*time.Second, cfg.ReadTimeout())
	assert.Equal(t, 5, cfg.MaxAttempts)
	assert.Equal(t, config.RetryModeStandard, cfg.RetryMode)
	assert.Equal(t, int64(10<<20), cfg.MultipartMemory())
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "BUCKET_NAME=from-file\nMAX_ATTEMPTS=3\nOBJECT_BACKEND=local\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	// Variables already present in the environment take precedence.
	t.Setenv("MAX_ATTEMPTS", "7")
	t.Cleanup(func() {
		_ = os.Unsetenv("BUCKET_NAME")
		_ = os.Unsetenv("OBJECT_BACKEND")
	})

	cfg, err := config.Load(path, true)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.BucketName)
	assert.Equal(t, 7, cfg.MaxAttempts)
	assert.Equal(t, config.ObjectBackendLocal, cfg.ObjectBackend)
}

func TestLoadMissingEnvFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.env")

	_, err := config.Load(missing, false)
	assert.NoError(t, err)

	_, err = config.Load(missing, true)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *config.Config {
		return &config.Config{
			ObjectBackend:     config.ObjectBackendS3,
			AttributeBackend:  config.AttributeBackendDynamoDB,
			RetryMode:         config.RetryModeAdaptive,
			MaxAttempts:       1,
			MultipartMemoryMB: 1,
		}
	}
	require.NoError(t, valid().Validate())

	for _, endpoint := range []string{"http://localhost:9000", "https://s3.eu-west-1.amazonaws.com"} {
		cfg := valid()
		cfg.S3Endpoint = endpoint
		assert.NoError(t, cfg.Validate(), endpoint)
	}

	cases := map[string]func(c *config.Config){
		"object backend":    func(c *config.Config) { c.ObjectBackend = "gcs" },
		"attribute backend": func(c *config.Config) { c.AttributeBackend = "redis" },
		"retry mode":        func(c *config.Config) { c.RetryMode = "legacy" },
		"attempts":          func(c *config.Config) { c.MaxAttempts = 0 },
		"timeouts":          func(c *config.Config) { c.ReadTimeoutSec = -1 },
		"multipart":         func(c *config.Config) { c.MultipartMemoryMB = 0 },
		"endpoint":          func(c *config.Config) { c.S3Endpoint = "minio:9000" },
		"endpoint scheme":   func(c *config.Config) { c.S3Endpoint = "ftp://minio:9000" },
		"endpoint host":     func(c *config.Config) { c.S3Endpoint = "http://" },
		"local root": func(c *config.Config) {
			c.AttributeBackend = config.AttributeBackendLocal
			c.LocalRoot = ""
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := valid()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
