// Package unisearch embeds the unified search API in a Go program.
//
// The client compiles the same requests the HTTP service accepts and runs them
// directly against Elasticsearch, with an optional Redis cache in front of the
// reference indices.
//
//	client, _ := unisearch.New(ctx,
//	    unisearch.WithElasticsearch("http://localhost:9200"),
//	    unisearch.WithCache([]string{"localhost:6379"}, "", time.Hour),
//	)
//	defer client.Close()
//
//	page, _ := client.Search(ctx, []byte(`{"text":"uimahalli","languages":["FINNISH"],"first":5}`))
//	for _, e := range page.Edges {
//	    fmt.Println(e.Cursor, e.Node.ID)
//	}
package unisearch
