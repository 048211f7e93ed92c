package palette

import "github.com/samber/lo"

const MaxSelection = 5

type ToggleResult struct {
	Accepted  bool     `json:"accepted"`
	Selection []string `json:"selection"`
}

// Selection is the ordered set of hex colors the user picked. Order is click
// order because it becomes the gradient stop order. The zero value is empty
// and ready to use.
type Selection struct {
	hexes []string
}

func NewSelection(hexes ...string) (*Selection, error) {
	selection := &Selection{}
	for _, hex := range hexes {
		if selection.Contains(hex) {
			continue
		}
		if _, err := selection.Toggle(hex); err != nil {
			return nil, err
		}
	}
	return selection, nil
}

// Toggle removes hex when it is selected and appends it otherwise. Adding a
// color to a full selection fails with SelectionLimitError and leaves the
// selection unchanged.
func (s *Selection) Toggle(hex string) (ToggleResult, error) {
	normalized, err := NormalizeHex(hex)
	if err != nil {
		return ToggleResult{Selection: s.Hexes()}, err
	}

	if lo.Contains(s.hexes, normalized) {
		s.hexes = lo.Without(s.hexes, normalized)
		return ToggleResult{Accepted: true, Selection: s.Hexes()}, nil
	}

	if len(s.hexes) >= MaxSelection {
		return ToggleResult{Selection: s.Hexes()}, &SelectionLimitError{Limit: MaxSelection, Hex: normalized}
	}

	s.hexes = append(s.hexes, normalized)
	return ToggleResult{Accepted: true, Selection: s.Hexes()}, nil
}

func (s *Selection) Clear() {
	s.hexes = nil
}

func (s *Selection) Contains(hex string) bool {
	normalized, err := NormalizeHex(hex)
	if err != nil {
		return false
	}
	return lo.Contains(s.hexes, normalized)
}

// Position returns the 1-based position of hex in the selection, or 0.
func (s *Selection) Position(hex string) int {
	normalized, err := NormalizeHex(hex)
	if err != nil {
		return 0
	}
	return lo.IndexOf(s.hexes, normalized) + 1
}

func (s *Selection) Len() int {
	return len(s.hexes)
}

func (s *Selection) Full() bool {
	return len(s.hexes) >= MaxSelection
}

func (s *Selection) Hexes() []string {
	hexes := make([]string, len(s.hexes))
	copy(hexes, s.hexes)
	return hexes
}

func (s *Selection) Colors() []Color {
	return lo.Map(s.hexes, func(hex string, _ int) Color {
		return MustParseHex(hex)
	})
}
