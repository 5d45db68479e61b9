package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/q-controller/facerecd/src/pkg/attributes"
	"github.com/q-controller/facerecd/src/pkg/awsclient"
	"github.com/q-controller/facerecd/src/pkg/config"
	"github.com/q-controller/facerecd/src/pkg/objectstore"
)

type backends struct {
	objects objectstore.Store
	lookup  attributes.Lookup
	closers []io.Closer
}

func (b *backends) Close() error {
	var errs []error
	for _, c := range b.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func awsSettings(cfg *config.Config) awsclient.Settings {
	return awsclient.Settings{
		Region:         cfg.RegionName,
		ConnectTimeout: cfg.ConnectTimeout(),
		ReadTimeout:    cfg.ReadTimeout(),
		MaxAttempts:    cfg.MaxAttempts,
		RetryMode:      cfg.RetryMode,
	}
}

func openBackends(ctx context.Context, cfg *config.Config) (_ *backends, retErr error) {
	b := &backends{}
	defer func() {
		if retErr != nil {
			retErr = errors.Join(retErr, b.Close())
		}
	}()

	settings := awsSettings(cfg)
	var awsCfg *aws.Config
	loadAWS := func() (aws.Config, error) {
		if awsCfg == nil {
			loaded, err := settings.Load(ctx)
			if err != nil {
				return aws.Config{}, err
			}
			awsCfg = &loaded
		}
		return *awsCfg, nil
	}

	switch cfg.ObjectBackend {
	case config.ObjectBackendLocal:
		local, err := objectstore.NewLocalBackend(cfg.LocalRoot)
		if err != nil {
			return nil, fmt.Errorf("failed to open local object store: %w", err)
		}
		b.objects = local
		b.closers = append(b.closers, local)
	case config.ObjectBackendS3:
		loaded, err := loadAWS()
		if err != nil {
			return nil, err
		}
		b.objects = objectstore.NewS3Backend(loaded, objectstore.S3Options{
			Endpoint:     cfg.S3Endpoint,
			UsePathStyle: cfg.S3UsePathStyle,
		})
	default:
		return nil, fmt.Errorf("unknown object backend %q", cfg.ObjectBackend)
	}

	switch cfg.AttributeBackend {
	case config.AttributeBackendLocal:
		local, err := attributes.NewLocalStore(cfg.LocalRoot)
		if err != nil {
			return nil, fmt.Errorf("failed to open local attribute store: %w", err)
		}
		b.lookup = local
		b.closers = append(b.closers, local)
	case config.AttributeBackendSimpleDB:
		sdb, err := attributes.NewSimpleDBBackend(settings, cfg.ConsistentRead)
		if err != nil {
			return nil, fmt.Errorf("failed to create SimpleDB client: %w", err)
		}
		b.lookup = sdb
	case config.AttributeBackendDynamoDB:
		loaded, err := loadAWS()
		if err != nil {
			return nil, err
		}
		b.lookup = attributes.NewDynamoDBBackend(loaded, attributes.DynamoDBOptions{
			KeyAttribute:   cfg.DynamoDBKeyAttribute,
			ValueAttribute: cfg.DynamoDBValueAttribute,
			ConsistentRead: cfg.ConsistentRead,
		})
	default:
		return nil, fmt.Errorf("unknown attribute backend %q", cfg.AttributeBackend)
	}

	return b, nil
}
