package premium

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// buildMessage composes the user-facing message: a lead sentence naming the
// product, an optional sentence quoting the customer's idea verbatim, and a
// fixed closing. Purely deterministic string interpolation.
func buildMessage(productName, idea string) string {
	c := cases.Title(language.Spanish)
	name := c.String(strings.TrimSpace(productName))

	var sb strings.Builder
	fmt.Fprintf(&sb, "¡Tu experiencia premium está lista! Así se vería %s en tu espacio.", name)
	if idea = strings.TrimSpace(idea); idea != "" {
		fmt.Fprintf(&sb, " Tomamos en cuenta tu idea: \"%s\".", idea)
	}
	sb.WriteString(" Visita el enlace del producto para hacerla realidad.")
	return sb.String()
}
