package generation

import (
	"fmt"
	"strings"

	"github.com/abhisek/echotutor/internal/lang"
)

const tutorSystemPrompt = `You are a patient tutor for a visually impaired student. Everything you write is read aloud, so use short plain sentences, no lists, no markdown and no symbols that cannot be spoken. Describe shapes, positions and sizes in words.`

const spatialSystemPrompt = `You help a blind student understand the space around them from photos they take. Describe what matters for moving safely and finding things: obstacles, doors, steps, people and objects within reach. Use short plain sentences that sound natural when read aloud.`

const translationSystemPrompt = `You translate tutoring content for a student who listens to it. Keep the meaning exact, keep numbers as digits, and use the target language's native script and sentence terminator.`

// languageInstruction tells the model which language to answer in.
func languageInstruction(language lang.Language) string {
	return fmt.Sprintf("Answer only in %s. Keep the answer to at most three sentences.", language.Name())
}

// TutorSystem builds the system prompt for questions about a lesson item.
func TutorSystem(language lang.Language, question, diagramContext string) string {
	var b strings.Builder
	b.WriteString(tutorSystemPrompt)
	b.WriteString("\n\n")
	b.WriteString(languageInstruction(language))
	if question != "" {
		b.WriteString(fmt.Sprintf("\n\nHomework question:\n%s\n", question))
	}
	if diagramContext != "" {
		b.WriteString(fmt.Sprintf("\nDiagram description (structured):\n%s\n", diagramContext))
	}
	return b.String()
}

// FeedbackPriming is the one-time prompt that sets up a conversation about
// a piece of feedback.
func FeedbackPriming(feedback, question, diagramContext string) string {
	var b strings.Builder
	b.WriteString("The student has received feedback on their homework and will ask about it.\n")
	if question != "" {
		b.WriteString(fmt.Sprintf("\nHomework question:\n%s\n", question))
	}
	if diagramContext != "" {
		b.WriteString(fmt.Sprintf("\nDiagram description (structured):\n%s\n", diagramContext))
	}
	b.WriteString(fmt.Sprintf("\nTeacher feedback:\n%s\n", feedback))
	b.WriteString("\nHelp the student understand what went wrong and how to fix it. Do not just give the answer. Reply with one short sentence confirming you are ready.")
	return b.String()
}

// SpatialSystem builds the system prompt for the spatial screen.
func SpatialSystem(language lang.Language) string {
	return spatialSystemPrompt + "\n\n" + languageInstruction(language)
}

// SpatialPriming is the one-time prompt that starts a spatial conversation.
const SpatialPriming = `I am going to send photos of my surroundings and ask questions about them. Keep every answer brief. Reply with one short sentence confirming you are ready.`

// DescribePhoto is the question sent with each new spatial photo.
func DescribePhoto(language lang.Language) string {
	if language == lang.Urdu {
		return "اس تصویر میں میرے سامنے کیا ہے؟"
	}
	return "What is in front of me in this photo?"
}

func buildTranslationUserMessage(text string, to lang.Language) string {
	return fmt.Sprintf("Translate the following text into %s.\n\nText:\n%s", to.Name(), text)
}
