package prompt

import (
	"fmt"
	"strings"
)

// ContextAnalysis renders the sufficiency-check prompt. The model must answer
// with nothing but {"sufficient": true} or {"sufficient": false}.
func ContextAnalysis(query, contextText string) string {
	var b strings.Builder

	b.WriteString("You are an assistant coach specialized in leadership, professional development and business strategy.\n")
	b.WriteString("Evaluate whether the context below is enough to give a complete and accurate answer to the question.\n\n")

	b.WriteString(fmt.Sprintf("Question: %s\n\n", query))

	b.WriteString("Context:\n")
	b.WriteString(contextText)
	b.WriteString("\n\n")

	b.WriteString("Is the given context sufficient to provide a full and accurate answer to the question?\n")
	b.WriteString("Reply ONLY with JSON, either {\"sufficient\": true} or {\"sufficient\": false}.\n")

	return b.String()
}

// AnswerGeneration renders the final answer prompt. The model must reply with
// JSON carrying answer, source and confidence fields.
func AnswerGeneration(query, contextText, chatHistory, sourceInfo string) string {
	var b strings.Builder

	b.WriteString("You are an experienced and trustworthy AI leadership coach specialized in leadership practice, professional development and business strategy. Use the given context to answer the question in a detailed, helpful and accurate way.\n")
	b.WriteString("The context consists of speech-to-text transcriptions of videos from a YouTube playlist where executives share their experiences, OR, when that context lacks enough information, of internet search results.\n")
	b.WriteString("If you cannot find enough information in the context, state that clearly.\n\n")

	b.WriteString("Chat History:\n")
	b.WriteString(chatHistory)
	b.WriteString("\n\n")

	b.WriteString("Context:\n")
	b.WriteString(contextText)
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("Question: %s\n\n", query))

	b.WriteString("Note: The provided documents were transcribed with a speech-to-text model, so some sentences and words may contain spelling mistakes or garbled phrases. Keep that in mind while composing your answer.\n")
	b.WriteString("Reply in JSON format with the following fields:\n")
	b.WriteString("- answer: the detailed answer to the question\n")
	b.WriteString(fmt.Sprintf("- source: \"%s\" (where the information came from)\n", sourceInfo))
	b.WriteString("- confidence: a confidence score between 0 and 1 for the correctness of the answer\n")

	return b.String()
}
