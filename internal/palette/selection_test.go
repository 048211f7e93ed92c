package palette

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestToggleTwiceRestoresSelection(t *testing.T) {
	t.Parallel()

	selection, err := NewSelection("#112233", "#445566")
	if err != nil {
		t.Fatalf("new selection: %v", err)
	}
	before := selection.Hexes()

	if _, err := selection.Toggle("#AABBCC"); err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if _, err := selection.Toggle("aabbcc"); err != nil {
		t.Fatalf("second toggle: %v", err)
	}

	if diff := cmp.Diff(before, selection.Hexes()); diff != "" {
		t.Fatalf("double toggle changed the selection (-want +got):\n%s", diff)
	}
}

func TestToggleKeepsClickOrder(t *testing.T) {
	t.Parallel()

	var selection Selection
	for _, hex := range []string{"#ff0000", "#00ff00", "#0000ff"} {
		if _, err := selection.Toggle(hex); err != nil {
			t.Fatalf("toggle %s: %v", hex, err)
		}
	}

	result, err := selection.Toggle("#00ff00")
	if err != nil {
		t.Fatalf("remove middle: %v", err)
	}
	if !result.Accepted {
		t.Fatalf("removal should be accepted")
	}
	if diff := cmp.Diff([]string{"#ff0000", "#0000ff"}, result.Selection); diff != "" {
		t.Fatalf("selection order mismatch (-want +got):\n%s", diff)
	}
	if got := selection.Position("#0000FF"); got != 2 {
		t.Fatalf("expected #0000ff at position 2, got %d", got)
	}
	if got := selection.Position("#00ff00"); got != 0 {
		t.Fatalf("removed color should have position 0, got %d", got)
	}
}

func TestToggleRejectsSixthColor(t *testing.T) {
	t.Parallel()

	selection, err := NewSelection("#000001", "#000002", "#000003", "#000004", "#000005")
	if err != nil {
		t.Fatalf("new selection: %v", err)
	}
	if !selection.Full() {
		t.Fatalf("five colors should fill the selection")
	}

	result, err := selection.Toggle("#000006")
	if !errors.Is(err, ErrSelectionLimit) {
		t.Fatalf("expected ErrSelectionLimit, got %v", err)
	}
	if result.Accepted {
		t.Fatalf("sixth color must not be accepted")
	}
	if selection.Len() != MaxSelection || selection.Contains("#000006") {
		t.Fatalf("rejected toggle changed the selection: %v", selection.Hexes())
	}

	// Removing still works on a full selection.
	if _, err := selection.Toggle("#000003"); err != nil {
		t.Fatalf("remove from full selection: %v", err)
	}
	if _, err := selection.Toggle("#000006"); err != nil {
		t.Fatalf("add after removal: %v", err)
	}
	want := []string{"#000001", "#000002", "#000004", "#000005", "#000006"}
	if diff := cmp.Diff(want, selection.Hexes()); diff != "" {
		t.Fatalf("selection mismatch (-want +got):\n%s", diff)
	}
}

func TestToggleRejectsInvalidHex(t *testing.T) {
	t.Parallel()

	var selection Selection
	for _, value := range []string{"", "#12345", "#gggggg", "rgb(1,2,3)"} {
		_, err := selection.Toggle(value)
		if !errors.Is(err, ErrInvalidColor) {
			t.Fatalf("toggle %q: expected ErrInvalidColor, got %v", value, err)
		}
	}
	if selection.Len() != 0 {
		t.Fatalf("invalid toggles must not change the selection")
	}
}

func TestSelectionHexesIsACopy(t *testing.T) {
	t.Parallel()

	selection, err := NewSelection("#ffffff")
	if err != nil {
		t.Fatalf("new selection: %v", err)
	}
	hexes := selection.Hexes()
	hexes[0] = "#000000"

	if !selection.Contains("#ffffff") {
		t.Fatalf("mutating Hexes() leaked into the selection")
	}
	if diff := cmp.Diff([]Color{{R: 255, G: 255, B: 255}}, selection.Colors()); diff != "" {
		t.Fatalf("colors mismatch (-want +got):\n%s", diff)
	}

	selection.Clear()
	if selection.Len() != 0 {
		t.Fatalf("clear left %d colors", selection.Len())
	}
}

func TestParseHexForms(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"#FF8800": "#ff8800",
		"ff8800":  "#ff8800",
		" #f80 ":  "#ff8800",
		"#0a0B0c": "#0a0b0c",
	}
	for input, want := range cases {
		got, err := NormalizeHex(input)
		if err != nil {
			t.Fatalf("normalize %q: %v", input, err)
		}
		if got != want {
			t.Fatalf("normalize %q = %q, want %q", input, got, want)
		}
	}
}
