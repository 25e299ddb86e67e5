package prompts

import (
	"fmt"

	"github.com/jkim999/lawyer-search-engine/pkg/nlp"
	"github.com/jkim999/lawyer-search-engine/pkg/types"
)

const judgeSystemPrompt = `You are evaluating whether a lawyer's profile matches a specific search query.

Focus on the EXPERIENCE section and any relevant work mentioned in their profile.
Be precise - only return "Pass" if the profile clearly indicates they have the requested experience.

For queries about specific companies or industries:
- Look for explicit mentions of those companies/industries
- Consider related terms (e.g., "TV network" includes CNN, NBC, Fox, ABC, CBS, etc.)
- Look for relevant deal types or case descriptions

Respond in the following format:
<thinking>Analyze the profile and query step by step</thinking>
<answer>Pass or Fail</answer>`

// JudgeProfile builds the messages asking the model to judge one profile
// against the query. The caller is responsible for truncating profile to fit
// the model context.
func JudgeProfile(query, profile string) []types.Message {
	userPrompt := fmt.Sprintf("Query: %s\n\nLawyer Profile:\n%s\n\nDoes this lawyer's experience match the query?", query, profile)
	return []types.Message{
		nlp.NewSystemMessage(judgeSystemPrompt),
		nlp.NewUserMessage(userPrompt),
	}
}
