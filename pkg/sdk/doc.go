// Package shopassist embeds the jewelry shop assistant in a Go program:
// intent rules, semantic catalog search and templated replies, without the
// HTTP server.
//
// The caller supplies the catalog and a text embedder; an optional Valkey or
// Redis instance caches catalog vectors between runs.
//
//	client, err := shopassist.New(ctx,
//	    shopassist.WithCatalogFile("data/jewelry_products.csv"),
//	    shopassist.WithEmbedder(myEmbedder),
//	    shopassist.WithValkeyCache("localhost:6379", ""),
//	)
//	if err != nil { ... }
//	defer client.Close()
//
//	r := client.Ask(ctx, "gold ring for a wedding")
//	fmt.Println(r.Text)
//	for _, m := range r.Products {
//	    fmt.Println(m.SKU, m.Name, m.Score)
//	}
package shopassist
