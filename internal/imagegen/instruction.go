package imagegen

import (
	"fmt"
	"strings"
)

// NegativePrompt captures artefacts the model must avoid.
const NegativePrompt = "low quality, blurry, distorted, warped furniture, incorrect perspective, duplicated objects, text, watermark"

// BuildInstruction composes the natural-language prompt sent to the
// generation model: keep the room intact, place the product, honor the
// customer's idea verbatim when present.
func BuildInstruction(productName, idea string) string {
	parts := []string{
		"Conserva la habitación original: paredes, suelo, ventanas e iluminación deben permanecer intactos.",
		fmt.Sprintf("Integra el producto \"%s\" en el espacio de forma realista, con escala y perspectiva correctas.", strings.TrimSpace(productName)),
	}
	if idea = strings.TrimSpace(idea); idea != "" {
		parts = append(parts, idea)
	} else {
		parts = append(parts, "Colócalo donde logre una composición equilibrada y natural.")
	}
	parts = append(parts, "Fotografía de interiores de alta calidad, luz natural, sombras coherentes, sin distorsiones.")
	return strings.Join(parts, " ")
}
