package service

import (
	"strings"

	"github.com/katakuxiko/ragstream/internal/model"
)

const (
	// NoContext replaces the context block when nothing was retrieved.
	NoContext = "No relevant information found."

	// Refusal is what the model is told to answer when the context is empty.
	Refusal = "I don't have information about this topic in my knowledge base. Please ask questions related to DSA or Computer Networks."

	passageSeparator = "\n\n---\n\n"
)

const promptTemplate = `You are an intelligent assistant specialized in Networking and Data Structures & Algorithms (DSA).

Context from knowledge base:
{context}

User Question: {question}

CRITICAL INSTRUCTIONS - YOU MUST FOLLOW THESE STRICTLY:

1. ALWAYS use ONLY the information provided in the Context above
2. If the Context is empty or says "` + NoContext + `", respond with:
   "` + Refusal + `"

3. NEVER use symbols like hash, dollar, percent, asterisk, or any special formatting symbols in your response

4. Response Format Rules:
   - Write in plain natural language
   - Use simple sentences and short paragraphs
   - For lists, use simple numbered points like: 1. First point 2. Second point
   - For emphasis, just write clearly without any special symbols
   - NO markdown formatting, NO special characters

5. For DSA Questions:
   - Explain the logic first in very simple terms
   - Then show code if needed (keep it clean and simple)
   - Focus on understanding, not just the solution
   - Keep it short and clear

6. For Computer Networks Questions:
   - Explain in easy, structured way
   - Use simple real-world examples
   - Avoid technical jargon unless necessary
   - Keep it practical and understandable

7. STRICT RULE: Only answer if the information is in the Context section above. Do not add anything from your general knowledge.

Provide your answer now:`

// FormatContext renders passages as "[Source: ns]" blocks separated by a
// blank-line delimited rule, or NoContext when there are none.
func FormatContext(passages []model.Passage) string {
	if len(passages) == 0 {
		return NoContext
	}

	var b strings.Builder
	for i, p := range passages {
		if i > 0 {
			b.WriteString(passageSeparator)
		}
		ns := p.Namespace
		if ns == "" {
			ns = "unknown"
		}
		b.WriteString("[Source: ")
		b.WriteString(ns)
		b.WriteString("]\n")
		b.WriteString(p.Content)
	}
	return b.String()
}

// BuildPrompt fills the fixed instruction template.
func BuildPrompt(contextText, question string) string {
	r := strings.NewReplacer("{context}", contextText, "{question}", question)
	return r.Replace(promptTemplate)
}
