// Package qdrant provides the Qdrant implementation of the
// vectordb.Service interface.
//
// The package wraps the official Qdrant Go client with the operations the
// projection core needs: chunked upserts, cursor-based scrolling (the one
// read primitive everything else is built on), exact counting, point
// lookups by id, filtered deletion, and payload index management.
// Application code should depend on [vectordb.Service], not this package.
//
// # Basic Usage
//
//	client, err := qdrant.NewClient(qdrant.DefaultConfig(), logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	var db vectordb.Service = qdrant.NewAdapter(client, logger)
//
//	page, err := db.Scroll(ctx, vectordb.ScrollRequest{
//	    CollectionName: "erp_records",
//	    Filter:         filter,
//	    Limit:          256,
//	    WithPayload:    true,
//	})
//
// # FX Module Integration
//
//	app := fx.New(
//	    qdrant.FXModule,
//	    // other modules...
//	)
//
// # Configuration
//
//	QDRANT_ENDPOINT=localhost
//	QDRANT_PORT=6334
//	QDRANT_API_KEY=your-api-key
//	QDRANT_COLLECTION=erp_records
//
// # Thread Safety
//
// All exported methods on Adapter are safe for concurrent use by multiple
// goroutines.
package qdrant
