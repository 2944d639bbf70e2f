// Package dynamo provides a catalog.Catalog backed by Amazon DynamoDB, so
// display names and MIME types can be shared by every process resolving the
// same content.
//
//	cfg, _ := config.LoadDefaultConfig(ctx)
//	cat := dynamo.New(dynamodb.NewFromConfig(cfg), "content-catalog")
//	r, _ := contentbridge.New(contentbridge.WithCatalog(catalog.NewCached(cat, 4096)))
package dynamo
