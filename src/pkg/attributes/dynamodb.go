package attributes

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const DefaultKeyAttribute = "ItemName"

type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

type DynamoDBOptions struct {
	// KeyAttribute is the partition key holding the item identifier.
	KeyAttribute string
	// ValueAttribute names the attribute to report. When empty the first
	// non-key attribute in name order is used, since items are unordered maps.
	ValueAttribute string
	ConsistentRead bool
}

// DynamoDBBackend treats the domain as a table name.
type DynamoDBBackend struct {
	api  DynamoDBAPI
	opts DynamoDBOptions
}

func NewDynamoDBBackend(cfg aws.Config, opts DynamoDBOptions) *DynamoDBBackend {
	return NewDynamoDBBackendWithAPI(dynamodb.NewFromConfig(cfg), opts)
}

func NewDynamoDBBackendWithAPI(api DynamoDBAPI, opts DynamoDBOptions) *DynamoDBBackend {
	if opts.KeyAttribute == "" {
		opts.KeyAttribute = DefaultKeyAttribute
	}
	return &DynamoDBBackend{api: api, opts: opts}
}

func (b *DynamoDBBackend) Lookup(ctx context.Context, domain, identifier string) (Attribute, bool, error) {
	out, err := b.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(domain),
		Key: map[string]types.AttributeValue{
			b.opts.KeyAttribute: &types.AttributeValueMemberS{Value: identifier},
		},
		ConsistentRead: aws.Bool(b.opts.ConsistentRead),
	})
	if err != nil {
		slog.Error("Error while querying DynamoDB", "table", domain, "identifier", identifier, "error", err)
		return Attribute{}, false, queryError(domain, identifier, err)
	}

	name, ok := b.pick(out.Item)
	if !ok {
		return Attribute{}, false, nil
	}

	value, valueErr := stringValue(out.Item[name])
	if valueErr != nil {
		return Attribute{}, false, queryError(domain, identifier, fmt.Errorf("attribute %q: %w", name, valueErr))
	}
	return Attribute{Name: name, Value: value}, true, nil
}

func (b *DynamoDBBackend) pick(item map[string]types.AttributeValue) (string, bool) {
	if b.opts.ValueAttribute != "" {
		_, ok := item[b.opts.ValueAttribute]
		return b.opts.ValueAttribute, ok
	}

	names := make([]string, 0, len(item))
	for name := range item {
		if name != b.opts.KeyAttribute {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return "", false
	}
	sort.Strings(names)
	return names[0], true
}

func stringValue(av types.AttributeValue) (string, error) {
	switch v := av.(type) {
	case *types.AttributeValueMemberS:
		return v.Value, nil
	case *types.AttributeValueMemberN:
		return v.Value, nil
	case *types.AttributeValueMemberBOOL:
		return fmt.Sprintf("%t", v.Value), nil
	default:
		return "", fmt.Errorf("unsupported attribute type %T", av)
	}
}
