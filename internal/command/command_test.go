package command

import "testing"

func TestInterpret(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Command
		rest string
	}{
		{"bare listen", "listen", Listen, ""},
		{"play synonym", "Play it", Listen, "it"},
		{"switch uppercase", "SWITCH", Switch, ""},
		{"change language", "please change language now", Switch, "now"},
		{"repeat in sentence", "can you repeat that?", Repeat, "that"},
		{"again", "Again!", Repeat, ""},
		{"ask with question", "ask what is this angle?", Ask, "what is this angle"},
		{"question keyword", "I have a question about sides", Ask, "about sides"},
		{"urdu listen", "سنو", Listen, ""},
		{"urdu switch", "زبان بدلو", Switch, ""},
		{"urdu repeat", "دوبارہ سنائیں", Repeat, "سنائیں"},
		{"urdu ask", "سوال یہ زاویہ کیا ہے", Ask, "یہ زاویہ کیا ہے"},
		{"ask a question", "ask a question", Ask, ""},
		{"ask me something", "Please ask me something.", Ask, ""},
		{"urdu ask phrase", "سوال پوچھو", Ask, ""},
		{"urdu polite ask", "ایک سوال پوچھیں", Ask, ""},
		{"question after filler", "ask a question: why is it a triangle", Ask, "a question: why is it a triangle"},
		{"earliest wins", "repeat and then switch", Repeat, "and then switch"},
		{"no keyword", "hello there", Unknown, ""},
		{"empty", "", Unknown, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Interpret(tt.text)
			if got.Command != tt.want {
				t.Fatalf("Interpret(%q).Command = %s, want %s", tt.text, got.Command, tt.want)
			}
			if got.Rest != tt.rest {
				t.Fatalf("Interpret(%q).Rest = %q, want %q", tt.text, got.Rest, tt.rest)
			}
		})
	}
}

func TestInterpret_ReportsMatchedKeyword(t *testing.T) {
	got := Interpret("Change Language please")
	if got.Keyword != "change language" {
		t.Fatalf("expected the full phrase to match, got %q", got.Keyword)
	}
	if got.Rest != "please" {
		t.Fatalf("expected original casing to survive, got %q", got.Rest)
	}
}

func TestInterpret_KeepsCasingWhenLoweringResizesRunes(t *testing.T) {
	// U+023A lowercases to a three-byte rune, shifting every later offset.
	got := Interpret("Ⱥ can you repeat That")
	if got.Command != Repeat {
		t.Fatalf("Command = %s, want repeat", got.Command)
	}
	if got.Rest != "That" {
		t.Fatalf("Rest = %q, want %q", got.Rest, "That")
	}

	got = Interpret("ȺȺ ask Why İs It")
	if got.Rest != "Why İs It" {
		t.Fatalf("Rest = %q, want %q", got.Rest, "Why İs It")
	}
}

func TestCommand_String(t *testing.T) {
	for cmd, want := range map[Command]string{
		Unknown: "unknown",
		Listen:  "listen",
		Switch:  "switch",
		Repeat:  "repeat",
		Ask:     "ask",
	} {
		if cmd.String() != want {
			t.Errorf("%d.String() = %q, want %q", cmd, cmd.String(), want)
		}
	}
}
