package lexer

import "testing"

func TestStripComment(t *testing.T) {
	got := StripComment(`X10 Y20 ; a trailing comment`)
	if got != "X10 Y20 " {
		t.Fatalf("got %q", got)
	}
}

func TestStripCommentInsideString(t *testing.T) {
	got := StripComment(`MSG("a;b") ; real comment`)
	if got != `MSG("a;b") ` {
		t.Fatalf("got %q", got)
	}
}

func TestPrePassSkipLevelAndNumber(t *testing.T) {
	pp, err := Run("/2 N100 X10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pp.SkipLevel != 2 {
		t.Fatalf("skip level = %d, want 2", pp.SkipLevel)
	}
	if !pp.HasNumber || pp.Number != "100" || pp.NumberKind != 'N' {
		t.Fatalf("block number not parsed: %+v", pp)
	}
	if pp.Content != "X10" {
		t.Fatalf("content = %q", pp.Content)
	}
}

func TestPrePassLabel(t *testing.T) {
	pp, err := Run("START: X10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pp.Label != "START" {
		t.Fatalf("label = %q", pp.Label)
	}
	if pp.Content != "X10" {
		t.Fatalf("content = %q", pp.Content)
	}
}

func TestPrePassBadSkipLevel(t *testing.T) {
	_, err := Run("/")
	if err == nil {
		t.Fatal("expected alarm for missing skip digit")
	}
}

func TestLexNumbers(t *testing.T) {
	l := New("10 3.5 1.5EX-3 'B101' 'H1F'")
	want := []struct {
		kind TokenKind
	}{
		{TokInteger}, {TokFloat}, {TokFloat}, {TokInteger}, {TokInteger},
	}
	for i, w := range want {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("token %d: %v", i, err)
		}
		if tok.Kind != w.kind {
			t.Fatalf("token %d: kind = %v, want %v (%+v)", i, tok.Kind, w.kind, tok)
		}
	}
}

func TestLexBinaryHexValues(t *testing.T) {
	l := New("'B101' 'H1F'")
	tok, err := l.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.Int != 5 {
		t.Fatalf("'B101' = %d, want 5", tok.Int)
	}
	tok, err = l.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.Int != 31 {
		t.Fatalf("'H1F' = %d, want 31", tok.Int)
	}
}

func TestLexAddressLetterSplitsFromDigits(t *testing.T) {
	cases := []struct {
		src    string
		letter string
		num    int64
	}{
		{"X10", "X", 10},
		{"G1", "G", 1},
		{"R1", "R", 1},
		{"M3", "M", 3},
	}
	for _, c := range cases {
		l := New(c.src)
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", c.src, err)
		}
		if tok.Kind != TokLetter || tok.Text != c.letter {
			t.Fatalf("%s: got %+v", c.src, tok)
		}
		tok, err = l.Next()
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", c.src, err)
		}
		if tok.Kind != TokInteger || tok.Int != c.num {
			t.Fatalf("%s: got %+v", c.src, tok)
		}
	}
}

func TestLexIdentifierNeedsTwoLeadingLetters(t *testing.T) {
	l := New("AB10")
	tok, err := l.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.Kind != TokIdent || tok.Text != "AB10" {
		t.Fatalf("got %+v", tok)
	}
}

func TestLexAddressLetterAndKeyword(t *testing.T) {
	l := New("X IF GOTOF")
	tok, _ := l.Next()
	if tok.Kind != TokLetter || tok.Text != "X" {
		t.Fatalf("got %+v", tok)
	}
	tok, _ = l.Next()
	if tok.Kind != TokKeyword || tok.Text != "IF" {
		t.Fatalf("got %+v", tok)
	}
	tok, _ = l.Next()
	if tok.Kind != TokKeyword || tok.Text != "GOTOF" {
		t.Fatalf("got %+v", tok)
	}
}

func TestLexStringLiteralEscapedQuote(t *testing.T) {
	l := New(`"a""b"`)
	tok, err := l.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.Kind != TokString || tok.Text != `a"b` {
		t.Fatalf("got %+v", tok)
	}
}

func TestLexIdentifier(t *testing.T) {
	l := New("MyVar1")
	tok, err := l.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.Kind != TokIdent || tok.Text != "MyVar1" {
		t.Fatalf("got %+v", tok)
	}
}

func TestLexDollarName(t *testing.T) {
	l := New("$P_GG[1]")
	tok, _ := l.Next()
	if tok.Kind != TokDollarName || tok.Text != "$P_GG" {
		t.Fatalf("got %+v", tok)
	}
}
