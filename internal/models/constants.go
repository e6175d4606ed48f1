package models

const (
	ContextSeparator = "\n---\n"

	// DefaultCoverPrompt is the fixed prompt of the cover generation run.
	DefaultCoverPrompt = "A fantasy book cover illustration of a girl with a sword stepping " +
		"into a glowing blue door in the middle of a magical forest, " +
		"mysterious and hopeful atmosphere, fireflies, misty background, " +
		"cinematic lighting, highly detailed, storybook art style"

	DefaultCoverSteps    = 30
	DefaultCoverGuidance = 7.5
	WarmupPrompt         = "test"

	DefaultTicketName  = "John Doe"
	DefaultTicketEmail = "john@example.com"
)

var (
	QAPromptTemplate = `Use the following pieces of context to answer the question at the end. If you don't know the answer, just say that you don't know, don't try to make up an answer.

%s`
)
