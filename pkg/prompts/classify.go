// Package prompts holds the prompt templates the engine sends to language
// models. Keeping them in one place makes them reviewable and testable
// independently of the pipeline stages that use them.
package prompts

import (
	"github.com/jkim999/lawyer-search-engine/pkg/nlp"
	"github.com/jkim999/lawyer-search-engine/pkg/types"
)

const classifySystemPrompt = `You are a query classifier for a lawyer search system.

Classify queries into two categories:

STRUCTURED queries - can be answered with direct database lookups:
- Name searches: "lawyers named John", "John Smith"
- Title searches: "partners", "associates", "counsel"
- School searches: "went to Yale", "graduated from Harvard"
- Practice area searches: "tax lawyers", "lawyers in corporate"
- Language searches: "lawyers who speak Spanish"
- Graduation year: "graduated after 2015"
- Location/region: "lawyers in Asia", "London office"
- Combinations of the above: "partners who went to Yale"

SEMANTIC queries - require understanding context and searching through unstructured text:
- Experience with specific companies: "worked with Google", "represented Apple"
- Industry expertise: "lawyers who worked on a case for a TV network"
- Deal types: "handled IPOs", "worked on mergers"
- Specific legal work: "defended pharmaceutical companies", "prosecuted antitrust cases"
- Contextual understanding: "lawyers who helped tech startups go public"
- Any query requiring inference: "lawyers experienced with streaming services" (requires knowing Netflix/Hulu are streaming services)

Respond with only one word: 'structured' or 'semantic'`

// ClassifyQuery builds the messages asking the model to label a query as
// structured or semantic.
func ClassifyQuery(query string) []types.Message {
	return []types.Message{
		nlp.NewSystemMessage(classifySystemPrompt),
		nlp.NewUserMessage("Classify this query: " + query),
	}
}
