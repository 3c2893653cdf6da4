package llm

import (
	"fmt"
	"strings"
	"time"
)

const regularPrompt = `You are Seoan, a warm and professional AI assistant.
Keep responses concise, grounded, and helpful. Detect the language the user
writes in and answer in that same language, including document titles, code
comments, and summaries, unless the user asks you to switch.

Prefer searching the web before answering questions about recent events,
people, companies, schedules, or anything time dependent. Cite the most
trustworthy sources you find and say so when information cannot be confirmed.`

const artifactsPrompt = `Artifacts support writing, code, and spreadsheet
creation. Results appear in a side panel where the user can edit them.

Rules:
1. Write artifacts in the current conversation language.
2. Always annotate code blocks with their language.
3. Default to Python for code unless another language is requested.
4. Avoid unnecessary external packages.
5. Include comments and example output in code.
6. Use create_document for substantial documents, code, or sheets.
7. Use update_document to apply requested revisions.`

// RequestHints carries per-request geolocation and time context that is
// folded into the system prompt.
type RequestHints struct {
	Latitude    string
	Longitude   string
	City        string
	Country     string
	CurrentTime time.Time
}

func requestPromptFromHints(hints RequestHints) string {
	var sb strings.Builder
	sb.WriteString("About the origin of the request:\n")
	fmt.Fprintf(&sb, "- current date and time: %s\n", hints.CurrentTime.Format(time.RFC1123))
	if hints.Latitude != "" {
		fmt.Fprintf(&sb, "- latitude: %s\n", hints.Latitude)
	}
	if hints.Longitude != "" {
		fmt.Fprintf(&sb, "- longitude: %s\n", hints.Longitude)
	}
	if hints.City != "" {
		fmt.Fprintf(&sb, "- city: %s\n", hints.City)
	}
	if hints.Country != "" {
		fmt.Fprintf(&sb, "- country: %s\n", hints.Country)
	}
	return sb.String()
}

// SystemPrompt builds the system message for a conversation turn. The
// reasoning variant omits the artifacts instructions because tools are
// disabled for it.
func SystemPrompt(variant Variant, hints RequestHints) string {
	requestPrompt := requestPromptFromHints(hints)
	if !variant.SupportsTools() {
		return regularPrompt + "\n\n" + requestPrompt
	}
	return regularPrompt + "\n\n" + artifactsPrompt + "\n\n" + requestPrompt
}

// UpdateDocumentPrompt frames an existing artifact for revision by the model.
func UpdateDocumentPrompt(currentContent, kind string) string {
	switch kind {
	case "code":
		return "Improve the following code based on the given request.\n\n" + currentContent
	case "sheet":
		return "Improve the following spreadsheet based on the given request.\n\n" + currentContent
	default:
		return "Improve the following document contents based on the given request.\n\n" + currentContent
	}
}
