package palette

import (
	"cmp"
	"slices"
)

const (
	channelRed = iota
	channelGreen
	channelBlue
	channelCount
)

// Entry is one palette color together with the number of sampled pixels it
// stands for.
type Entry struct {
	Color
	Hex        string `json:"hex"`
	Population int    `json:"population"`
}

func newEntry(c Color, population int) Entry {
	return Entry{Color: c, Hex: c.Hex(), Population: population}
}

// colorBox owns a contiguous window of the shared index slice. Splitting a box
// reorders its window in place and hands each half to a child, so the boxes
// always partition the sampled population.
type colorBox struct {
	indices    []int
	population int
	min        [channelCount]uint8
	max        [channelCount]uint8
	histogram  [channelCount][256]int
	seq        int
}

func newColorBox(pixels []Pixel, indices []int, seq int) *colorBox {
	box := &colorBox{indices: indices, population: len(indices), seq: seq}
	if len(indices) == 0 {
		return box
	}

	for channel := 0; channel < channelCount; channel++ {
		box.min[channel] = 255
	}

	for _, index := range indices {
		pixel := pixels[index]
		for channel := 0; channel < channelCount; channel++ {
			value := pixel.channel(channel)
			box.histogram[channel][value]++
			if value < box.min[channel] {
				box.min[channel] = value
			}
			if value > box.max[channel] {
				box.max[channel] = value
			}
		}
	}

	return box
}

func (b *colorBox) channelRange(channel int) int {
	return int(b.max[channel]) - int(b.min[channel])
}

// widestChannel prefers red, then green, then blue when ranges tie.
func (b *colorBox) widestChannel() int {
	widest := channelRed
	for channel := channelGreen; channel < channelCount; channel++ {
		if b.channelRange(channel) > b.channelRange(widest) {
			widest = channel
		}
	}
	return widest
}

func (b *colorBox) widestRange() int {
	return b.channelRange(b.widestChannel())
}

func (b *colorBox) canSplit() bool {
	return b.population > 1 && b.widestRange() > 0
}

// split orders the box by its widest channel and cuts at the value boundary
// closest to the median index. Both halves are non-empty and no channel value
// appears on both sides of the cut.
func (b *colorBox) split(pixels []Pixel, nextSeq func() int) (*colorBox, *colorBox) {
	channel := b.widestChannel()
	histogram := &b.histogram[channel]

	// Counting sort keyed on the channel value; stable, so pixels with equal
	// values keep their sampling order.
	var positions [256]int
	running := 0
	for value := 0; value < 256; value++ {
		positions[value] = running
		running += histogram[value]
	}
	ordered := make([]int, len(b.indices))
	for _, index := range b.indices {
		value := pixels[index].channel(channel)
		ordered[positions[value]] = index
		positions[value]++
	}
	copy(b.indices, ordered)

	median := b.population / 2
	cut := -1
	cumulative := 0
	for value := int(b.min[channel]); value < int(b.max[channel]); value++ {
		cumulative += histogram[value]
		if histogram[value] == 0 {
			continue
		}
		if cut < 0 || absInt(cumulative-median) < absInt(cut-median) {
			cut = cumulative
		}
	}

	left := newColorBox(pixels, b.indices[:cut], nextSeq())
	right := newColorBox(pixels, b.indices[cut:], nextSeq())
	return left, right
}

func (b *colorBox) mean() Color {
	var channels [channelCount]uint8
	population := int64(b.population)
	for channel := 0; channel < channelCount; channel++ {
		var sum int64
		for value, count := range b.histogram[channel] {
			sum += int64(value) * int64(count)
		}
		channels[channel] = uint8(clamp(roundHalfUp(sum, population), 0, 255))
	}
	return Color{R: channels[channelRed], G: channels[channelGreen], B: channels[channelBlue]}
}

// Quantize reduces pixels to at most paletteSize colors with median cut. The
// result is ordered by descending population; equal populations put the
// tighter box first, then the box created first.
func Quantize(pixels []Pixel, paletteSize int) ([]Entry, error) {
	if len(pixels) == 0 {
		return nil, &EmptyPaletteError{}
	}
	if paletteSize <= 0 {
		paletteSize = DefaultPaletteSize
	}

	indices := make([]int, len(pixels))
	for index := range indices {
		indices[index] = index
	}

	seq := 0
	nextSeq := func() int {
		seq++
		return seq
	}

	queue := newBoxQueue()
	queue.push(newColorBox(pixels, indices, 0))

	settled := make([]*colorBox, 0, paletteSize)
	for queue.len()+len(settled) < paletteSize {
		box, ok := queue.pop()
		if !ok {
			break
		}
		if !box.canSplit() {
			settled = append(settled, box)
			continue
		}

		left, right := box.split(pixels, nextSeq)
		queue.push(left)
		queue.push(right)
	}

	boxes := append(settled, queue.drain()...)
	slices.SortStableFunc(boxes, func(left, right *colorBox) int {
		if byPopulation := cmp.Compare(right.population, left.population); byPopulation != 0 {
			return byPopulation
		}
		if byRange := cmp.Compare(left.widestRange(), right.widestRange()); byRange != 0 {
			return byRange
		}
		return cmp.Compare(left.seq, right.seq)
	})

	entries := make([]Entry, 0, len(boxes))
	for _, box := range boxes {
		entries = append(entries, newEntry(box.mean(), box.population))
	}

	return entries, nil
}

func absInt(value int) int {
	if value < 0 {
		return -value
	}
	return value
}
