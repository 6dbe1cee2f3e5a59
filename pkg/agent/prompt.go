package agent

import (
	"strings"

	"edudash-be/pkg/tools"
)

// Platform roles recognized by the prompt builder.
const (
	RoleStudent  = "student"
	RoleLecturer = "lecturer"
	RoleAdmin    = "admin"
)

// buildSystemPrompt assembles the per-request system instruction: the
// tool catalog with per-tool trigger rules, output conventions, and a
// role-specific emphasis block.
func buildSystemPrompt(registry *tools.Registry, role string) string {
	var prompt strings.Builder

	prompt.WriteString("<task>\n")
	prompt.WriteString("You are the assistant of a learning platform. You answer questions about courses, assignments, grades and the platform knowledge base.\n")
	prompt.WriteString("You have access to tools. Prefer tool results over guessing; never invent course or grade data.\n")
	prompt.WriteString("</task>\n\n")

	prompt.WriteString("<tools>\n")
	for _, t := range registry.All() {
		prompt.WriteString("- ")
		prompt.WriteString(t.Name)
		prompt.WriteString(": ")
		prompt.WriteString(t.Description)
		if t.Trigger != "" {
			prompt.WriteString(" ")
			prompt.WriteString(t.Trigger)
		}
		prompt.WriteString("\n")
	}
	prompt.WriteString("</tools>\n\n")

	prompt.WriteString("<format>\n")
	prompt.WriteString("Answer in plain prose. Use short bullet lists for enumerations (courses, assignments).\n")
	prompt.WriteString("Report grades with one decimal place. When a tool returned an error, explain the failure briefly instead of retrying forever.\n")
	prompt.WriteString("</format>\n\n")

	prompt.WriteString(roleEmphasis(role))

	return prompt.String()
}

func roleEmphasis(role string) string {
	switch role {
	case RoleLecturer, RoleAdmin:
		return "<emphasis>\n" +
			"The user is platform staff. Emphasize analytics: cohort averages, per-course grade distributions, lecturer workloads. " +
			"When they ask about a student, use get_average_grade with that student's id.\n" +
			"</emphasis>\n"
	default:
		return "<emphasis>\n" +
			"The user is a student. Emphasize their own assignments, due dates and grades. " +
			"Scope every answer to their enrollment; do not speculate about other students.\n" +
			"</emphasis>\n"
	}
}
