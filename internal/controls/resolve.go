// internal/controls/resolve.go
//
// Visibility resolution for a config's content boxes.
//
// Workflow
// --------
//  1. Walk contentBoxes in document order.
//  2. Ask Visible for each box (ad gate, CTA gate, or plain enabled flag).
//  3. Insert survivors into a Slots map keyed by position.  A later box
//     aimed at an occupied position overwrites the earlier one but keeps
//     the slot's original place in Order.
package controls

import "github.com/yanizio/tierzero/internal/site"

// Slots is the ordered position → box mapping produced by Resolve.
type Slots struct {
	Order []string
	Boxes map[string]site.ContentBox
}

// Get returns the box for a position.
func (s Slots) Get(position string) (site.ContentBox, bool) {
	b, ok := s.Boxes[position]
	return b, ok
}

// Has reports whether a position is populated.
func (s Slots) Has(position string) bool {
	_, ok := s.Boxes[position]
	return ok
}

// Len is the number of populated positions.
func (s Slots) Len() int { return len(s.Order) }

// Visible decides whether one box should render on the page.
func Visible(cfg *site.Config, box site.ContentBox) bool {
	switch {
	case IsAd(box.Type):
		return adVisible(cfg, box)
	case box.Type == "cta":
		return ctaVisible(cfg, box)
	default:
		return isEnabled(box)
	}
}

// Resolve returns the visible boxes keyed by position.
func Resolve(cfg *site.Config) Slots {
	out := Slots{
		Order: make([]string, 0, len(cfg.ContentBoxes)),
		Boxes: make(map[string]site.ContentBox, len(cfg.ContentBoxes)),
	}
	for _, box := range cfg.ContentBoxes {
		if !Visible(cfg, box) {
			continue
		}
		if _, seen := out.Boxes[box.Position]; !seen {
			out.Order = append(out.Order, box.Position)
		}
		out.Boxes[box.Position] = box
	}
	return out
}
