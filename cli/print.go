package cli

import (
	"fmt"
	"io"

	"github.com/richinex/chatshot/model"
)

// PrintRecord renders a conversation as numbered user and assistant lists,
// followed by the user actions when present.
func PrintRecord(w io.Writer, record model.ConversationRecord) {
	if !record.Parsed() {
		fmt.Fprintln(w, "Could not parse the model output as a conversation.")
		fmt.Fprintf(w, "Raw output: %s\n", record.RawText)
		return
	}

	fmt.Fprintln(w, "User messages:")
	for i, msg := range record.UserMessages {
		fmt.Fprintf(w, "  %d. %s\n", i+1, msg)
	}

	fmt.Fprintln(w, "\nAssistant messages:")
	for i, msg := range record.AssistantMessages {
		fmt.Fprintf(w, "  %d. %s\n", i+1, msg)
	}

	if record.HasActions() {
		fmt.Fprintln(w, "\nUser actions:")
		fmt.Fprintln(w, record.UserActions)
	}
}
