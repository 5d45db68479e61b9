package attributes

import (
	"context"
	"log/slog"

	awsv1 "github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/simpledb"
	"github.com/q-controller/facerecd/src/pkg/awsclient"
)

// SimpleDBAPI is satisfied by *simpledb.SimpleDB. SimpleDB is only available
// in the v1 SDK.
type SimpleDBAPI interface {
	GetAttributesWithContext(ctx awsv1.Context, input *simpledb.GetAttributesInput, opts ...request.Option) (*simpledb.GetAttributesOutput, error)
}

type SimpleDBBackend struct {
	api            SimpleDBAPI
	consistentRead bool
}

// NewSimpleDBBackend builds a client sharing the service transport settings.
// The v1 SDK only has one retry strategy, so the retry mode is not applied.
func NewSimpleDBBackend(settings awsclient.Settings, consistentRead bool) (*SimpleDBBackend, error) {
	sess, sessErr := session.NewSession(&awsv1.Config{
		Region:     awsv1.String(settings.Region),
		HTTPClient: settings.StdHTTPClient(),
		MaxRetries: awsv1.Int(settings.MaxAttempts - 1),
	})
	if sessErr != nil {
		return nil, sessErr
	}
	return NewSimpleDBBackendWithAPI(simpledb.New(sess), consistentRead), nil
}

func NewSimpleDBBackendWithAPI(api SimpleDBAPI, consistentRead bool) *SimpleDBBackend {
	return &SimpleDBBackend{
		api:            api,
		consistentRead: consistentRead,
	}
}

func (b *SimpleDBBackend) Lookup(ctx context.Context, domain, identifier string) (Attribute, bool, error) {
	input := &simpledb.GetAttributesInput{
		DomainName: awsv1.String(domain),
		ItemName:   awsv1.String(identifier),
	}
	if b.consistentRead {
		input.ConsistentRead = awsv1.Bool(true)
	}

	out, err := b.api.GetAttributesWithContext(ctx, input)
	if err != nil {
		slog.Error("Error while querying SimpleDB", "domain", domain, "identifier", identifier, "error", err)
		return Attribute{}, false, queryError(domain, identifier, err)
	}

	if len(out.Attributes) == 0 {
		return Attribute{}, false, nil
	}

	first := out.Attributes[0]
	return Attribute{
		Name:  awsv1.StringValue(first.Name),
		Value: awsv1.StringValue(first.Value),
	}, true, nil
}
