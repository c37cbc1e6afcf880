package slug

import "testing"

// TestDerive exercises the slug derivation with real product names from
// the catalog plus special characters, whitespace, and boundary cases.
func TestDerive(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		// --- Real product names ---
		{
			name:  "uppercase model code with hyphens",
			input: "ISOAFS-ALU-UL",
			want:  "isoafs-alu-ul",
		},
		{
			name:  "name with parenthesised type",
			input: "PLASTIC BACK DROUGHT SHUTTER (Type A)",
			want:  "plastic-back-drought-shutter-type-a",
		},
		{
			name:  "mixed case words",
			input: "Axial Duct Fan",
			want:  "axial-duct-fan",
		},
		{
			name:  "name with inch marks",
			input: `Flexible Duct 8" Insulated`,
			want:  "flexible-duct-8-insulated",
		},
		{
			name:  "slash separated variants",
			input: "Grille 200/300",
			want:  "grille-200-300",
		},

		// --- Special characters ---
		{
			name:  "punctuation collapses to single hyphen",
			input: "Heat! Recovery? Unit.",
			want:  "heat-recovery-unit",
		},
		{
			name:  "ampersand between words",
			input: "Supply & Extract",
			want:  "supply-extract",
		},
		{
			name:  "consecutive specials collapse",
			input: "Model -- (X) -- 5",
			want:  "model-x-5",
		},
		{
			name:  "unicode stripped to separator",
			input: "Kanal Tipi Fan Ünitesi",
			want:  "kanal-tipi-fan-nitesi",
		},

		// --- Whitespace ---
		{
			name:  "leading and trailing spaces",
			input: "  Ceiling Diffuser  ",
			want:  "ceiling-diffuser",
		},
		{
			name:  "tabs and newlines are separators",
			input: "roof\tcowl\nround",
			want:  "roof-cowl-round",
		},
		{
			name:  "multiple spaces collapse",
			input: "fire    damper",
			want:  "fire-damper",
		},

		// --- Edge cases ---
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "only specials",
			input: "!@#$%^&*()",
			want:  "",
		},
		{
			name:  "only hyphens",
			input: "-----",
			want:  "",
		},
		{
			name:  "single character",
			input: "A",
			want:  "a",
		},
		{
			name:  "digits only",
			input: "2024",
			want:  "2024",
		},
		{
			name:  "leading specials stripped",
			input: "--NEW-- Silencer",
			want:  "new-silencer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Derive(tt.input)
			if got != tt.want {
				t.Errorf("Derive(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestDerive_Deterministic verifies that repeated derivation from the same
// name always yields the same slug, which the public router relies on.
func TestDerive_Deterministic(t *testing.T) {
	names := []string{
		"ISOAFS-ALU-UL",
		"PLASTIC BACK DROUGHT SHUTTER (Type A)",
		"Axial Duct Fan",
	}
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			first := Derive(name)
			for i := 0; i < 3; i++ {
				if got := Derive(name); got != first {
					t.Fatalf("Derive(%q) unstable: %q then %q", name, first, got)
				}
			}
		})
	}
}

// TestDerive_CaseInsensitive verifies that casing never changes the derived slug.
func TestDerive_CaseInsensitive(t *testing.T) {
	inputs := []string{
		"CEILING DIFFUSER",
		"Ceiling Diffuser",
		"ceiling diffuser",
		"cEiLiNg DiFfUsEr",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			if got := Derive(input); got != "ceiling-diffuser" {
				t.Errorf("Derive(%q) = %q, want %q", input, got, "ceiling-diffuser")
			}
		})
	}
}
