// Package goods defines the tradable item types (raw materials, products,
// and byproducts) and the recipes that turn one into the other.
package goods

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// Sequence hands out process-unique IDs for goods and entities. Constructors
// take a *Sequence explicitly so identity generation is deterministic and
// testable instead of hiding behind a package-level counter.
type Sequence struct {
	prefix string
	next   uint64
}

// NewSequence creates a sequence whose IDs carry the given prefix,
// e.g. NewSequence("ITEM") yields "ITEM_0", "ITEM_1", ...
func NewSequence(prefix string) *Sequence {
	return &Sequence{prefix: prefix}
}

// Next returns the next ID in the sequence.
func (s *Sequence) Next() string {
	id := fmt.Sprintf("%s_%d", s.prefix, s.next)
	s.next++
	return id
}

// Item is any tradable good. Two items are the same good when their names
// match; the item ID only tells otherwise-identical instances apart and must
// never participate in equality or map keys.
type Item interface {
	Name() string
	ItemID() string
	Cost() float64
}

// SameItem reports whether a and b denote the same tradable good.
func SameItem(a, b Item) bool {
	if a == nil || b == nil {
		return false
	}
	return a.Name() == b.Name()
}

// RawMaterial is a producible input good. Its cost is the production cost
// per unit paid by the producer that makes it.
type RawMaterial struct {
	name string
	id   string
	cost float64
}

// NewRawMaterial creates a raw material with the given per-unit production cost.
func NewRawMaterial(seq *Sequence, name string, cost float64) (*RawMaterial, error) {
	if name == "" {
		return nil, fmt.Errorf("raw material name cannot be empty")
	}
	if cost < 0 {
		return nil, fmt.Errorf("production cost cannot be negative: %v", cost)
	}
	return &RawMaterial{name: name, id: seq.Next(), cost: cost}, nil
}

func (m *RawMaterial) Name() string   { return m.name }
func (m *RawMaterial) ItemID() string { return m.id }
func (m *RawMaterial) Cost() float64  { return m.cost }

// SetCost updates the per-unit production cost.
func (m *RawMaterial) SetCost(cost float64) error {
	if cost < 0 {
		return fmt.Errorf("production cost cannot be negative: %v", cost)
	}
	m.cost = cost
	return nil
}

func (m *RawMaterial) String() string {
	return fmt.Sprintf("%s [%s] cost %s", m.name, m.id, humanize.CommafWithDigits(m.cost, 2))
}

// Product is a finished good produced by a factory and sold on markets.
// Its cost is the intrinsic production cost per unit, which markets use as
// the default selling price until an explicit price is set.
type Product struct {
	name string
	id   string
	cost float64
}

// NewProduct creates a product with the given intrinsic production cost.
func NewProduct(seq *Sequence, name string, cost float64) (*Product, error) {
	if name == "" {
		return nil, fmt.Errorf("product name cannot be empty")
	}
	if cost < 0 {
		return nil, fmt.Errorf("production cost cannot be negative: %v", cost)
	}
	return &Product{name: name, id: seq.Next(), cost: cost}, nil
}

func (p *Product) Name() string   { return p.name }
func (p *Product) ItemID() string { return p.id }
func (p *Product) Cost() float64  { return p.cost }

// SetCost updates the intrinsic production cost.
func (p *Product) SetCost(cost float64) error {
	if cost < 0 {
		return fmt.Errorf("production cost cannot be negative: %v", cost)
	}
	p.cost = cost
	return nil
}

func (p *Product) String() string {
	return fmt.Sprintf("%s [%s] cost %s", p.name, p.id, humanize.CommafWithDigits(p.cost, 2))
}

// ByProduct is an unwanted side output of production. Its cost is the
// disposal cost per unit a factory pays to destroy it.
type ByProduct struct {
	name string
	id   string
	cost float64
}

// NewByProduct creates a byproduct with the given per-unit disposal cost.
func NewByProduct(seq *Sequence, name string, disposalCost float64) (*ByProduct, error) {
	if name == "" {
		return nil, fmt.Errorf("byproduct name cannot be empty")
	}
	if disposalCost < 0 {
		return nil, fmt.Errorf("disposal cost cannot be negative: %v", disposalCost)
	}
	return &ByProduct{name: name, id: seq.Next(), cost: disposalCost}, nil
}

func (b *ByProduct) Name() string   { return b.name }
func (b *ByProduct) ItemID() string { return b.id }

// Cost returns the disposal cost per unit.
func (b *ByProduct) Cost() float64 { return b.cost }

// SetCost updates the per-unit disposal cost.
func (b *ByProduct) SetCost(cost float64) error {
	if cost < 0 {
		return fmt.Errorf("disposal cost cannot be negative: %v", cost)
	}
	b.cost = cost
	return nil
}

func (b *ByProduct) String() string {
	return fmt.Sprintf("%s [%s] disposal %s", b.name, b.id, humanize.CommafWithDigits(b.cost, 2))
}
