package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/joho/godotenv"
)

const (
	ObjectBackendS3    = "s3"
	ObjectBackendLocal = "local"

	AttributeBackendSimpleDB = "simpledb"
	AttributeBackendDynamoDB = "dynamodb"
	AttributeBackendLocal    = "local"

	RetryModeStandard = "standard"
	RetryModeAdaptive = "adaptive"
)

// Config is read once at startup and handed to every component that needs it.
// Bucket, domain and region are intentionally not validated here: a missing
// value surfaces as a downstream failure on the first request.
type Config struct {
	BucketName string `env:"BUCKET_NAME"`
	DomainName string `env:"DOMAIN_NAME"`
	RegionName string `env:"REGION_NAME"`

	ListenAddress string `env:"LISTEN_ADDRESS,default=:8000"`

	ObjectBackend    string `env:"OBJECT_BACKEND,default=s3"`
	AttributeBackend string `env:"ATTRIBUTE_BACKEND,default=simpledb"`
	LocalRoot        string `env:"LOCAL_ROOT,default=./data"`

	S3Endpoint     string `env:"S3_ENDPOINT"`
	S3UsePathStyle bool   `env:"S3_USE_PATH_STYLE,default=false"`

	DynamoDBKeyAttribute   string `env:"DYNAMODB_KEY_ATTRIBUTE,default=ItemName"`
	DynamoDBValueAttribute string `env:"DYNAMODB_VALUE_ATTRIBUTE"`
	ConsistentRead         bool   `env:"CONSISTENT_READ,default=false"`

	ConnectTimeoutSec int    `env:"CONNECT_TIMEOUT,default=30"`
	ReadTimeoutSec    int    `env:"READ_TIMEOUT,default=30"`
	MaxAttempts       int    `env:"MAX_ATTEMPTS,default=5"`
	RetryMode         string `env:"RETRY_MODE,default=standard"`

	MultipartMemoryMB int `env:"MULTIPART_MEMORY_MB,default=10"`

	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=text"`
}

// Load preloads envFile into the process environment (existing variables win)
// and unmarshals the environment into a Config. A missing envFile is ignored
// unless required is set.
func Load(envFile string, required bool) (*Config, error) {
	if envFile != "" {
		if loadErr := godotenv.Load(envFile); loadErr != nil {
			if required || !errors.Is(loadErr, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to load env file %s: %w", envFile, loadErr)
			}
		}
	}

	cfg := &Config{}
	if _, unmarshalErr := env.UnmarshalFromEnviron(cfg); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to read environment: %w", unmarshalErr)
	}

	if validateErr := cfg.Validate(); validateErr != nil {
		return nil, validateErr
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	switch c.ObjectBackend {
	case ObjectBackendS3, ObjectBackendLocal:
	default:
		errs = append(errs, fmt.Errorf("unknown object backend %q", c.ObjectBackend))
	}

	switch c.AttributeBackend {
	case AttributeBackendSimpleDB, AttributeBackendDynamoDB, AttributeBackendLocal:
	default:
		errs = append(errs, fmt.Errorf("unknown attribute backend %q", c.AttributeBackend))
	}

	switch c.RetryMode {
	case RetryModeStandard, RetryModeAdaptive:
	default:
		errs = append(errs, fmt.Errorf("unknown retry mode %q", c.RetryMode))
	}

	if c.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("max attempts must be at least 1, got %d", c.MaxAttempts))
	}
	if c.ConnectTimeoutSec < 0 || c.ReadTimeoutSec < 0 {
		errs = append(errs, errors.New("timeouts must not be negative"))
	}
	if c.MultipartMemoryMB < 1 {
		errs = append(errs, fmt.Errorf("multipart memory must be at least 1 MB, got %d", c.MultipartMemoryMB))
	}
	if c.S3Endpoint != "" && !isEndpoint(c.S3Endpoint) {
		errs = append(errs, fmt.Errorf("S3 endpoint must be an http(s) URL, got %q", c.S3Endpoint))
	}
	if (c.ObjectBackend == ObjectBackendLocal || c.AttributeBackend == AttributeBackendLocal) && c.LocalRoot == "" {
		errs = append(errs, errors.New("local backends need LOCAL_ROOT"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// isEndpoint accepts absolute http(s) URLs with a host, e.g. http://localhost:9000.
func isEndpoint(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}

func (c *Config) ConnectTimeout() time.Duration {
	return time.Duration(c.ConnectTimeoutSec) * time.Second
}

func (c *Config) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSec) * time.Second
}

func (c *Config) MultipartMemory() int64 {
	return int64(c.MultipartMemoryMB) << 20
}
