package token_test

import (
	"testing"

	"karta/internal/token"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		text string
		want token.Kind
	}{
		{"{", token.LeftBrace},
		{"}", token.RightBrace},
		{"[", token.LeftSquare},
		{"]", token.RightSquare},
		{",", token.Comma},
		{"=", token.Assign},
		{".name", token.Atom},
		{".", token.Atom},
		{"42", token.Integer},
		{"4x", token.Integer},
		{"{.", token.Identifier},
		{"==", token.Identifier},
		{"x", token.Identifier},
		{"", token.Invalid},
	}
	for _, tt := range tests {
		if got := token.KindOf(tt.text); got != tt.want {
			t.Errorf("KindOf(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestKindString(t *testing.T) {
	for k, want := range map[token.Kind]string{
		token.RightBrace: "RightBrace",
		token.Assign:     "Assign",
		token.EndOfFile:  "EndOfFile",
		token.Kind(200):  "Kind(?)",
	} {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}

func TestTokenClasses(t *testing.T) {
	lit := token.Token{Kind: token.String, Text: `"x"`}
	if !lit.IsLiteral() || lit.IsPunct() {
		t.Errorf("string token misclassified")
	}
	punct := token.Token{Kind: token.Comma, Text: ","}
	if punct.IsLiteral() || !punct.IsPunct() {
		t.Errorf("comma token misclassified")
	}
}
