// Package awsclient holds the transport policy shared by every AWS client the
// service creates: region, connect and read timeouts, and retry behaviour.
package awsclient

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
)

type Settings struct {
	Region         string
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	MaxAttempts    int
	RetryMode      string
}

// HTTPClient applies the connect timeout to dialing and the read timeout to
// waiting for response headers. Zero disables the corresponding limit.
func (s Settings) HTTPClient() *awshttp.BuildableClient {
	return awshttp.NewBuildableClient().
		WithDialerOptions(func(d *net.Dialer) {
			d.Timeout = s.ConnectTimeout
		}).
		WithTransportOptions(func(tr *http.Transport) {
			tr.TLSHandshakeTimeout = s.ConnectTimeout
			tr.ResponseHeaderTimeout = s.ReadTimeout
		})
}

// StdHTTPClient exposes the same transport as a plain *http.Client for SDKs
// that do not accept the v2 HTTPClient interface.
func (s Settings) StdHTTPClient() *http.Client {
	client := s.HTTPClient()
	return &http.Client{
		Transport: client.GetTransport(),
		Timeout:   client.GetTimeout(),
	}
}

func (s Settings) Load(ctx context.Context) (aws.Config, error) {
	mode, modeErr := aws.ParseRetryMode(s.RetryMode)
	if modeErr != nil {
		return aws.Config{}, fmt.Errorf("invalid retry mode: %w", modeErr)
	}

	cfg, cfgErr := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(s.Region),
		awsconfig.WithHTTPClient(s.HTTPClient()),
		awsconfig.WithRetryMode(mode),
		awsconfig.WithRetryMaxAttempts(s.MaxAttempts),
	)
	if cfgErr != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", cfgErr)
	}
	return cfg, nil
}
