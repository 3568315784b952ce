package textutil

import "testing"

func TestStripDiacritics(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "ascii untouched", input: "smile face", want: "smile face"},
		{name: "tilde", input: "ñandú", want: "nandu"},
		{name: "acute", input: "café crème", want: "cafe creme"},
		{name: "precomposed uppercase", input: "ÉCOLE", want: "ECOLE"},
		{name: "decomposed input", input: "e\u0301te\u0301", want: "ete"},
		{name: "emoji with description", input: "👋 wave", want: "👋 wave"},
		{name: "emoji accented description", input: "🇪🇸 España", want: "🇪🇸 Espana"},
		{name: "variation selector kept", input: "☺️ relaxed", want: "☺️ relaxed"},
		{name: "kaomoji marks kept", input: "( ͡° ͜ʖ ͡°) lenny", want: "( ͡° ͜ʖ ͡°) lenny"},
		{name: "kana voicing kept", input: "(づ｡◕‿‿◕｡)づ hug", want: "(づ｡◕‿‿◕｡)づ hug"},
		{name: "greek tonos", input: "καλημέρα", want: "καλημερα"},
		{name: "zwj sequence kept", input: "👨‍👩‍👧 family", want: "👨‍👩‍👧 family"},
		{name: "keycap kept", input: "1️⃣ one", want: "1️⃣ one"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripDiacritics(tt.input); got != tt.want {
				t.Errorf("StripDiacritics(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestStripDiacriticsInvalidUTF8PassesThrough(t *testing.T) {
	input := "caf\xe9 latin1"
	if got := StripDiacritics(input); got != input {
		t.Fatalf("expected invalid input unchanged, got %q", got)
	}
}

func TestStripDiacriticsIdempotent(t *testing.T) {
	for _, input := range []string{"Ångström", "naïve résumé", "( ͡° ͜ʖ ͡°)"} {
		once := StripDiacritics(input)
		twice := StripDiacritics(once)
		if once != twice {
			t.Errorf("not idempotent for %q: %q then %q", input, once, twice)
		}
	}
}
