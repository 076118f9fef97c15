package imagegen

import (
	"strings"
	"testing"
)

func TestBuildInstructionWithIdea(t *testing.T) {
	got := BuildInstruction("Sofá modular gris", "  junto a la ventana, con una manta encima ")

	checks := []string{
		"Conserva la habitación original",
		"Sofá modular gris",
		"junto a la ventana, con una manta encima",
		"Fotografía de interiores de alta calidad",
	}
	for _, expect := range checks {
		if !strings.Contains(got, expect) {
			t.Fatalf("instruction missing %q: %s", expect, got)
		}
	}
	if strings.Contains(got, "composición equilibrada") {
		t.Fatalf("default placement clause must be omitted when an idea is given: %s", got)
	}
}

func TestBuildInstructionWithoutIdea(t *testing.T) {
	for _, idea := range []string{"", "   ", "\t\n"} {
		got := BuildInstruction("Mesa de centro", idea)
		if !strings.Contains(got, "composición equilibrada y natural") {
			t.Fatalf("expected default placement clause for idea %q: %s", idea, got)
		}
	}
}
