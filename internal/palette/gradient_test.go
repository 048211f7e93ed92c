package palette

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSynthesizeBlackToWhite(t *testing.T) {
	t.Parallel()

	colors, err := Synthesize([]Color{MustParseHex("#000000"), MustParseHex("#ffffff")}, 3)
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	if diff := cmp.Diff([]string{"#000000", "#808080", "#ffffff"}, Hexes(colors)); diff != "" {
		t.Fatalf("gradient mismatch (-want +got):\n%s", diff)
	}
}

func TestSynthesizeThreeStops(t *testing.T) {
	t.Parallel()

	stops := []Color{MustParseHex("#ff0000"), MustParseHex("#00ff00"), MustParseHex("#0000ff")}
	colors, err := Synthesize(stops, 5)
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}

	want := []string{"#ff0000", "#808000", "#00ff00", "#008080", "#0000ff"}
	if diff := cmp.Diff(want, Hexes(colors)); diff != "" {
		t.Fatalf("gradient mismatch (-want +got):\n%s", diff)
	}
}

func TestSynthesizeKeepsEndpoints(t *testing.T) {
	t.Parallel()

	stops := []Color{MustParseHex("#123456"), MustParseHex("#abcdef"), MustParseHex("#fedcba"), MustParseHex("#000000")}
	for _, n := range []int{2, 3, 7, 16, 100} {
		colors, err := Synthesize(stops, n)
		if err != nil {
			t.Fatalf("synthesize n=%d: %v", n, err)
		}
		if len(colors) != n {
			t.Fatalf("n=%d: expected %d colors, got %d", n, n, len(colors))
		}
		if colors[0] != stops[0] || colors[n-1] != stops[len(stops)-1] {
			t.Fatalf("n=%d: endpoints %s..%s, want %s..%s", n, colors[0].Hex(), colors[n-1].Hex(), stops[0].Hex(), stops[len(stops)-1].Hex())
		}
	}
}

func TestSynthesizeDefaultsAndSingleStep(t *testing.T) {
	t.Parallel()

	stops := []Color{MustParseHex("#000000"), MustParseHex("#ffffff")}

	colors, err := Synthesize(stops, 0)
	if err != nil {
		t.Fatalf("synthesize default: %v", err)
	}
	if len(colors) != DefaultGradientSteps {
		t.Fatalf("expected %d default steps, got %d", DefaultGradientSteps, len(colors))
	}

	single, err := Synthesize(stops, 1)
	if err != nil {
		t.Fatalf("synthesize single: %v", err)
	}
	if diff := cmp.Diff([]Color{stops[0]}, single); diff != "" {
		t.Fatalf("single step mismatch (-want +got):\n%s", diff)
	}
}

func TestSynthesizeNeedsTwoStops(t *testing.T) {
	t.Parallel()

	for _, stops := range [][]Color{nil, {MustParseHex("#ffffff")}} {
		colors, err := Synthesize(stops, 5)
		if !errors.Is(err, ErrInsufficientStops) {
			t.Fatalf("%d stops: expected ErrInsufficientStops, got %v", len(stops), err)
		}
		if colors != nil {
			t.Fatalf("%d stops: expected no colors, got %v", len(stops), colors)
		}

		_, err = SynthesizeIn(SpaceLab, stops, 5)
		if !errors.Is(err, ErrInsufficientStops) {
			t.Fatalf("%d stops in lab: expected ErrInsufficientStops, got %v", len(stops), err)
		}
	}
}

func TestSynthesizeInPerceptualSpaces(t *testing.T) {
	t.Parallel()

	stops := []Color{MustParseHex("#ff0000"), MustParseHex("#0000ff")}
	for _, space := range []Space{SpaceLab, SpaceHCL} {
		colors, err := SynthesizeIn(space, stops, 6)
		if err != nil {
			t.Fatalf("synthesize %s: %v", space, err)
		}
		if len(colors) != 6 {
			t.Fatalf("%s: expected 6 colors, got %d", space, len(colors))
		}
		if colors[0] != stops[0] || colors[5] != stops[1] {
			t.Fatalf("%s: endpoints %s..%s", space, colors[0].Hex(), colors[5].Hex())
		}
	}

	rgb, err := SynthesizeIn(SpaceRGB, stops, 4)
	if err != nil {
		t.Fatalf("synthesize rgb: %v", err)
	}
	direct, _ := Synthesize(stops, 4)
	if diff := cmp.Diff(direct, rgb); diff != "" {
		t.Fatalf("rgb space should match Synthesize (-want +got):\n%s", diff)
	}
}

func TestParseSpace(t *testing.T) {
	t.Parallel()

	for input, want := range map[string]Space{"": SpaceRGB, "RGB": SpaceRGB, " lab ": SpaceLab, "hcl": SpaceHCL} {
		got, err := ParseSpace(input)
		if err != nil || got != want {
			t.Fatalf("ParseSpace(%q) = %q, %v; want %q", input, got, err, want)
		}
	}
	if _, err := ParseSpace("oklch"); err == nil {
		t.Fatalf("expected an error for an unknown space")
	}
}

func TestCSSLinearGradient(t *testing.T) {
	t.Parallel()

	colors := []Color{MustParseHex("#000000"), MustParseHex("#808080"), MustParseHex("#ffffff")}
	got := CSSLinearGradient(colors, 90)
	want := "linear-gradient(90deg, #000000 0%, #808080 50%, #ffffff 100%)"
	if got != want {
		t.Fatalf("css = %q, want %q", got, want)
	}

	thirds := CSSLinearGradient([]Color{{}, {}, {}, {}}, 180)
	if thirds != "linear-gradient(180deg, #000000 0%, #000000 33.33%, #000000 66.67%, #000000 100%)" {
		t.Fatalf("unexpected css for four stops: %q", thirds)
	}

	if CSSLinearGradient(nil, 90) != "" {
		t.Fatalf("empty gradient should render as an empty string")
	}
}
