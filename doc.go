// Package lawsearch provides a hybrid natural-language search engine over
// lawyer profile corpora.
//
// Queries are classified into one of two strategies. Structured queries
// ("partners who went to Yale") are parsed into predicates and compiled to
// SQL against the profile attribute tables. Semantic queries ("worked with
// a streaming company") are resolved by embedding retrieval over stored
// profile vectors, a cheap keyword pre-filter, and a parallel LLM judge
// that verifies each surviving candidate against the query.
//
// # Basic Usage
//
// Create an engine over an opened corpus store:
//
//	// Open the corpus database
//	st, err := store.Open("lawyers.db", logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Create LLM client
//	llmConfig := nlp.Config{Model: "gpt-4o-mini"}
//	llmClient, err := nlp.NewOpenAIClient("your-api-key", llmConfig)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Create embedder
//	embConfig := embedder.Config{Model: "text-embedding-3-small"}
//	embedderClient := embedder.NewOpenAIEmbedder("your-api-key", embConfig)
//
//	// Create the engine
//	engine, err := lawsearch.NewClient(st, llmClient, embedderClient, nil, logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer engine.Close()
//
// # Searching
//
// Resolve a query end to end:
//
//	result, err := engine.Search(ctx, "lawyers who went to Yale and practice Tax", nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	for _, m := range result.Matches {
//		fmt.Printf("%s  %s\n", m.Ref.DisplayName, m.Ref.SourceURL)
//	}
//
// Results are cached per corpus snapshot, so repeating a query against an
// unchanged corpus is served from memory.
//
// # Building
//
// Name matching uses SQLite FTS5, which go-sqlite3 only compiles in behind
// a build tag:
//
//	go build -tags sqlite_fts5 ./...
//	go test -tags sqlite_fts5 ./...
package lawsearch
