package dynamo

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/hupe1980/contentbridge/catalog"
)

const (
	attrURI         = "uri"
	attrDisplayName = "display_name"
	attrMimeType    = "mime_type"
)

// ErrMissingURI is returned by Put for an entry without a URI.
var ErrMissingURI = errors.New("dynamo: entry has no uri")

// Client is the subset of the DynamoDB API the catalog uses.
// *dynamodb.Client satisfies it.
type Client interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// Catalog implements catalog.Catalog on a DynamoDB table.
//
// Table schema:
//   - Partition key: uri (string)
//   - Attributes: display_name (string), mime_type (string), both optional
//
// Create table with:
//
//	aws dynamodb create-table \
//	  --table-name content-catalog \
//	  --attribute-definitions AttributeName=uri,AttributeType=S \
//	  --key-schema AttributeName=uri,KeyType=HASH \
//	  --billing-mode PAY_PER_REQUEST
type Catalog struct {
	client Client
	table  string
}

// New creates a catalog backed by table.
func New(client Client, table string) *Catalog {
	return &Catalog{client: client, table: table}
}

// Lookup reads the entry for uri with a strongly consistent read.
func (c *Catalog) Lookup(ctx context.Context, uri string) (catalog.Entry, error) {
	out, err := c.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(c.table),
		Key: map[string]types.AttributeValue{
			attrURI: &types.AttributeValueMemberS{Value: uri},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return catalog.Entry{}, fmt.Errorf("dynamo: get %s: %w", uri, err)
	}
	if len(out.Item) == 0 {
		return catalog.Entry{}, fmt.Errorf("%w: %s", catalog.ErrNotFound, uri)
	}

	return catalog.Entry{
		URI:         uri,
		DisplayName: stringAttr(out.Item, attrDisplayName),
		MimeType:    stringAttr(out.Item, attrMimeType),
	}, nil
}

// Put writes e, replacing any existing entry for e.URI.
func (c *Catalog) Put(ctx context.Context, e catalog.Entry) error {
	if e.URI == "" {
		return ErrMissingURI
	}

	item := map[string]types.AttributeValue{
		attrURI: &types.AttributeValueMemberS{Value: e.URI},
	}
	if e.DisplayName != "" {
		item[attrDisplayName] = &types.AttributeValueMemberS{Value: e.DisplayName}
	}
	if e.MimeType != "" {
		item[attrMimeType] = &types.AttributeValueMemberS{Value: e.MimeType}
	}

	_, err := c.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(c.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("dynamo: put %s: %w", e.URI, err)
	}
	return nil
}

func stringAttr(item map[string]types.AttributeValue, name string) string {
	if v, ok := item[name].(*types.AttributeValueMemberS); ok {
		return v.Value
	}
	return ""
}

var _ catalog.Catalog = (*Catalog)(nil)
