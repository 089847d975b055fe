package compiler_test

import (
	"errors"
	"strings"
	"testing"

	"herocc/pkg/compiler"
)

func TestCompile_Countdown(t *testing.T) {
	src := `hero> count down from five, then lift off
hulk 5
flash spin:
    thornum
    batman
    spiderman spin vision > 0
starlord "Lift off!"
thanos
`

	// 1. Lex
	tokens, err := compiler.Tokenize(src)
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}

	// 2. Parse
	program, syms, err := compiler.NewParser(tokens, src, compiler.DefaultOptions()).Parse()
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !syms.IsLoop("spin") {
		t.Error("symbol table missing loop 'spin'")
	}

	// 3. Generate
	code := compiler.Generate(program, syms, compiler.DefaultOptions())

	for _, expected := range []string{
		"hulk(5, 0);",
		"{ // flash spin",
		"thornum();",
		"tape[ptr]--;",
		"if (tape[ptr] > 0) {",
		"goto spin;",
		`printf("%s\n", "Lift off!");`,
		`printf("Thanos snapped his fingers...\n");`,
	} {
		if !strings.Contains(code, expected) {
			t.Errorf("Generated C missing %q", expected)
		}
	}

	// The loop label must precede the jump back to it.
	label := strings.Index(code, "spin:")
	jump := strings.Index(code, "goto spin;")
	if label < 0 || jump < 0 || label > jump {
		t.Errorf("Label 'spin:' should appear before 'goto spin;' (label at %d, goto at %d)", label, jump)
	}
}

func TestCompile_PrintSequence(t *testing.T) {
	src := `deadpool
ironman
ironman
thornum
batman
thornum
thanos
`
	res, err := compiler.Compile(src, compiler.DefaultOptions())
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	// Executed, this prints 2, then 1, then the closing message.
	want := `    ptr = 0;
    tape[ptr]++;
    tape[ptr]++;
    thornum();
    tape[ptr]--;
    thornum();
    printf("Thanos snapped his fingers...\n");
    return 0;
`
	if !strings.Contains(res.CSource, want) {
		t.Errorf("Generated C should lower the statements in source order.\nWant block:\n%s\nGot:\n%s", want, res.CSource)
	}
}

func TestCompile_Greeting(t *testing.T) {
	src := `doctorstrange 20 greeting
blackpanther into greeting "Avengers"
captainamerica greeting
thanos
`
	res, err := compiler.Compile(src, compiler.DefaultOptions())
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	for _, expected := range []string{
		"uint8_t doctorstrange_greeting[20] = {0};",
		`blackpanther(doctorstrange_greeting, "Avengers");`,
		"captainamerica(doctorstrange_greeting);",
	} {
		if !strings.Contains(res.CSource, expected) {
			t.Errorf("Generated C missing %q", expected)
		}
	}
	if len(res.Tokens) == 0 {
		t.Error("Result should carry the token stream")
	}
	if len(res.Program) != 4 {
		t.Errorf("Expected 4 instructions, got %d", len(res.Program))
	}
}

func TestCompile_ForwardJump(t *testing.T) {
	src := `spiderman skip vision == 0
ironman
falcon skip:
thanos
`
	res, err := compiler.Compile(src, compiler.DefaultOptions())
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if !strings.Contains(res.CSource, "goto skip;") {
		t.Error("forward jump should resolve against the later falcon definition")
	}
	if !strings.Contains(res.CSource, "skip:") {
		t.Error("Generated C missing label 'skip:'")
	}
}

func TestCompile_ReportsLexError(t *testing.T) {
	_, err := compiler.Compile("ironman\nhulk 99999999999999999999\n", compiler.DefaultOptions())
	if err == nil {
		t.Fatal("Expected a lex error, got none")
	}
	if !strings.HasPrefix(err.Error(), "lex: ") {
		t.Errorf("Expected the error to name the lex stage, got %q", err)
	}

	var lexErr *compiler.LexError
	if !errors.As(err, &lexErr) {
		t.Fatalf("Expected a *LexError in the chain, got %T", err)
	}
	if lexErr.Line != 2 {
		t.Errorf("Expected error on line 2, got %d", lexErr.Line)
	}
}

func TestCompile_ReportsParseError(t *testing.T) {
	_, err := compiler.Compile("ironman\nhawkeye nowhere\n", compiler.DefaultOptions())
	if err == nil {
		t.Fatal("Expected a parse error, got none")
	}
	if !strings.HasPrefix(err.Error(), "parse: ") {
		t.Errorf("Expected the error to name the parse stage, got %q", err)
	}

	var parseErr *compiler.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("Expected a *ParseError in the chain, got %T", err)
	}
	if parseErr.Line != 2 {
		t.Errorf("Expected error on line 2, got %d", parseErr.Line)
	}
	if parseErr.Snippet != "hawkeye nowhere" {
		t.Errorf("Expected the offending line as snippet, got %q", parseErr.Snippet)
	}
	if !strings.Contains(err.Error(), `undefined label or loop "nowhere"`) {
		t.Errorf("Error should name the missing target, got %q", err)
	}
}

func TestCompile_EmptySource(t *testing.T) {
	res, err := compiler.Compile("", compiler.DefaultOptions())
	if err != nil {
		t.Fatalf("Compile failed on empty source: %v", err)
	}
	if len(res.Program) != 0 {
		t.Errorf("Expected an empty program, got %d instructions", len(res.Program))
	}
	if !strings.Contains(res.CSource, "int main() {") {
		t.Error("Even an empty program gets the full C scaffolding")
	}
}

func TestCompile_Deterministic(t *testing.T) {
	src := `doctorstrange 8 buf
falcon top:
ironman
add vision 3
spiderman top vision < 9
captainamerica buf
thanos
`
	first, err := compiler.Compile(src, compiler.DefaultOptions())
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	second, err := compiler.Compile(src, compiler.DefaultOptions())
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if first.CSource != second.CSource {
		t.Error("Compiling the same source twice should produce identical C")
	}
}
