package search

import "errors"

// ErrCorpusNotEmbedded is returned when semantic retrieval runs against a
// corpus with no stored embeddings at all. It is distinct from an empty
// result set: the former means the corpus needs embedding, the latter means
// nothing matched.
var ErrCorpusNotEmbedded = errors.New("no embeddings stored for corpus, run embed first")
