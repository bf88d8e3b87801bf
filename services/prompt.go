package services

import "fmt"

// fallbackSentence is what the model is instructed to say when the retrieved
// context does not answer the question. This is requested of the model, not
// enforced here.
const fallbackSentence = "I don't know the answer to that question based on the available information."

// BuildPrompt assembles the single-message prompt: film-expert framing, the
// labelled context, then the labelled question.
func BuildPrompt(contextText, question string) string {
	return fmt.Sprintf(`You are a helpful film expert. Answer the question based on the context below.
If the question cannot be answered based on the context, say '%s'

Context: %s

Question: %s

Answer:`, fallbackSentence, contextText, question)
}
