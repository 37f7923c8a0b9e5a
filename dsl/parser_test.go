package dsl_test

import (
	"strings"
	"testing"

	"github.com/gphat/graphics-primitive-driver-cairo/dsl"
)

const sampleScene = `
// a labeled card with a decoration
scene 200 150 {
  box 10 10 180 60 {
    background: #ffffff
    border: 2 #000000
    text {
      "Hello, ${user.name}!"
      font: "Body" 12pt
      align: center middle
    }
  }

  box 10 80 180 60 {
    draw {
      rect 5 5 40 20 {
        fill: #ff0000
      }
      line 0 30 180 30 {
        stroke: #0000ff 2 dash 4 2
      }
    }
  }
}
`

func TestParseScene(t *testing.T) {
	doc, err := dsl.ParseString(sampleScene)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if doc.Width != "200" || doc.Height != "150" {
		t.Fatalf("unexpected scene size: %s x %s", doc.Width, doc.Height)
	}
	if len(doc.Block.Statements) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(doc.Block.Statements))
	}

	card := doc.Block.Statements[0].Command
	if card == nil || card.Name != "box" {
		t.Fatalf("expected box command, got %+v", doc.Block.Statements[0])
	}
	if len(card.Args) != 4 || card.Args[0].Value != "10" || card.Args[3].Value != "60" {
		t.Fatalf("unexpected box args: %+v", card.Args)
	}

	bg := card.Block.Statements[0].Assignment
	if bg == nil || bg.Key != "background" {
		t.Fatalf("expected background assignment, got %+v", card.Block.Statements[0])
	}
	if bg.Value.Expr == nil || bg.Value.Expr.Parts[0].Value != "#ffffff" {
		t.Fatalf("unexpected background value: %+v", bg.Value)
	}

	border := card.Block.Statements[1].Assignment
	if border == nil || border.Key != "border" {
		t.Fatalf("expected border assignment, got %+v", card.Block.Statements[1])
	}
	if got := len(border.Value.Expr.Parts); got != 2 {
		t.Fatalf("expected 2 border tokens, got %d", got)
	}

	textCmd := card.Block.Statements[2].Command
	if textCmd == nil || textCmd.Name != "text" {
		t.Fatalf("expected text command, got %+v", card.Block.Statements[2])
	}
	if textCmd.Block == nil || textCmd.Block.Statements[0].Text == nil {
		t.Fatalf("text command missing literal content")
	}
	if got := string(textCmd.Block.Statements[0].Text.Value); !strings.Contains(got, "${user.name}") {
		t.Fatalf("expected interpolation placeholder, got %s", got)
	}

	fontProp := textCmd.Block.Statements[1].Assignment
	if fontProp == nil || fontProp.Key != "font" {
		t.Fatalf("expected font assignment, got %+v", textCmd.Block.Statements[1])
	}

	drawCmd := doc.Block.Statements[1].Command.Block.Statements[0].Command
	if drawCmd == nil || drawCmd.Name != "draw" {
		t.Fatalf("expected draw command, got %+v", drawCmd)
	}
	rectCmd := drawCmd.Block.Statements[0].Command
	if rectCmd == nil || rectCmd.Name != "rect" || len(rectCmd.Args) != 4 {
		t.Fatalf("unexpected rect command: %+v", rectCmd)
	}
	lineCmd := drawCmd.Block.Statements[1].Command
	if lineCmd == nil || lineCmd.Name != "line" {
		t.Fatalf("unexpected line command: %+v", lineCmd)
	}
	strokeProp := lineCmd.Block.Statements[0].Assignment
	if strokeProp == nil || strokeProp.Key != "stroke" {
		t.Fatalf("expected stroke assignment, got %+v", lineCmd.Block.Statements[0])
	}
	if got := len(strokeProp.Value.Expr.Parts); got != 5 {
		t.Fatalf("expected 5 stroke tokens, got %d", got)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := dsl.ParseString("not a scene"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestParseComments(t *testing.T) {
	doc, err := dsl.ParseString(`
scene 50 50 {
  /* block comment */
  box 0 0 50 50 { // trailing comment
  }
}
`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(doc.Block.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(doc.Block.Statements))
	}
}
