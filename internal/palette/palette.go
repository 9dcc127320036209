// Package palette assigns display colors to company groups from a fixed
// 20-color categorical palette (the tab20 scheme). Colors are handed out
// in first-seen order and cycle once the palette is exhausted.
package palette

var tab20 = []string{
	"#1f77b4", "#aec7e8", "#ff7f0e", "#ffbb78",
	"#2ca02c", "#98df8a", "#d62728", "#ff9896",
	"#9467bd", "#c5b0d5", "#8c564b", "#c49c94",
	"#e377c2", "#f7b6d2", "#7f7f7f", "#c7c7c7",
	"#bcbd22", "#dbdb8d", "#17becf", "#9edae5",
}

// DefaultColor is used when a group was never assigned a color.
const DefaultColor = "#000000"

type Palette struct {
	colors map[string]string
	order  []string
}

func New() *Palette {
	return &Palette{colors: make(map[string]string)}
}

// Assign returns the color for the group, allocating the next palette
// slot on first sight.
func (p *Palette) Assign(group string) string {
	if c, ok := p.colors[group]; ok {
		return c
	}
	c := tab20[len(p.order)%len(tab20)]
	p.colors[group] = c
	p.order = append(p.order, group)
	return c
}

// Color looks up an already assigned color without allocating.
func (p *Palette) Color(group string) string {
	if c, ok := p.colors[group]; ok {
		return c
	}
	return DefaultColor
}
