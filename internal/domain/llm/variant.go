package llm

import "fmt"

// Variant selects the model behavior for a conversation turn.
type Variant string

const (
	// VariantChat is the default conversational model with tools enabled.
	VariantChat Variant = "chat-model"
	// VariantReasoning trades tools for extended reasoning output.
	VariantReasoning Variant = "chat-model-reasoning"
)

// ParseVariant validates a client supplied variant name. An empty name
// resolves to the default chat variant.
func ParseVariant(name string) (Variant, error) {
	switch Variant(name) {
	case "":
		return VariantChat, nil
	case VariantChat, VariantReasoning:
		return Variant(name), nil
	default:
		return "", fmt.Errorf("unknown model variant %q", name)
	}
}

// SupportsTools reports whether tool calling is available for the variant.
func (v Variant) SupportsTools() bool {
	return v != VariantReasoning
}
