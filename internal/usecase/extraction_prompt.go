package usecase

import (
	"fmt"
	"strings"

	"kinhealth/internal/domain/entity"
)

const emptyRosterLine = "(no family members registered yet)"

// extractionSystemInstruction is fixed per deployment; only the user prompt varies per call
var extractionSystemInstruction = buildSystemInstruction()

func buildSystemInstruction() string {
	categories := make([]string, len(entity.EventCategories))
	for i, c := range entity.EventCategories {
		categories[i] = string(c)
	}

	var b strings.Builder
	b.WriteString("You are KinHealth AI, a medical data assistant for a family health journal.\n")
	b.WriteString("Turn one health update about a family member into a single JSON object and output nothing else.\n\n")
	b.WriteString("The object has exactly these fields:\n")
	b.WriteString(`  "memberId": the ID of the family member the update is about, copied from the roster, or null` + "\n")
	b.WriteString(`  "memberName": the name of that member as written in the roster` + "\n")
	fmt.Fprintf(&b, "  \"category\": one of: %s\n", strings.Join(categories, ", "))
	b.WriteString(`  "title": a short descriptive title for the event` + "\n")
	b.WriteString(`  "data": an object with any relevant details extracted (dose, temperature, readings, doctor, ...)` + "\n")
	b.WriteString(`  "confirmationMessage": a short friendly message for the user` + "\n")
	b.WriteString(`  "candidates": names from the roster that could plausibly be meant, only when memberId is null` + "\n\n")
	b.WriteString("Only use IDs that appear in the roster. Never invent an ID.\n")
	b.WriteString("If you cannot confidently identify exactly one member, set memberId to null and phrase ")
	b.WriteString("confirmationMessage as a clarifying question instead of a confirmation.\n")
	b.WriteString("When an earlier unresolved message is included, the new message may simply answer who it was about; ")
	b.WriteString("combine both to produce the event.")
	return b.String()
}

// buildUserPrompt renders the roster as "Name (ID: id)" lines followed by the verbatim message
func buildUserPrompt(roster []entity.RosterEntry, earlier, message string) string {
	var b strings.Builder

	b.WriteString("Family members:\n")
	if len(roster) == 0 {
		b.WriteString(emptyRosterLine)
		b.WriteString("\n")
	}
	for _, m := range roster {
		fmt.Fprintf(&b, "%s (ID: %s)\n", m.Name, m.ID)
	}

	if earlier != "" {
		b.WriteString("\nEarlier unresolved message:\n")
		b.WriteString(earlier)
		b.WriteString("\n")
	}

	b.WriteString("\nUser message:\n")
	b.WriteString(message)
	return b.String()
}
