// Package catalog resolves the display name and MIME type of content URIs.
//
// The resolver consults a Catalog first, then the metadata the blob store
// reports, and finally guesses from the file extension with MimeTypeByName.
//
//	cat, err := catalog.LoadStatic(f, nil)
//	r, err := contentbridge.New(
//	    contentbridge.WithCatalog(catalog.NewCached(cat, 1024)),
//	)
//
// catalog/dynamo keeps entries in a DynamoDB table for catalogs shared
// between processes.
package catalog
