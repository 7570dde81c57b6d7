package economy

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"golang.org/x/exp/maps"

	"github.com/talgya/econ-engine/internal/goods"
)

// Factory transforms raw materials into products and byproducts according
// to its designs. One storage capacity caps the sum of all three ledgers.
type Factory struct {
	id       string
	name     string
	balance  float64
	capacity int

	products     map[string]int
	byproducts   map[string]int
	rawMaterials map[string]int

	designs []*goods.ProductDesign
}

// NewFactory creates a factory with empty ledgers.
func NewFactory(seq *goods.Sequence, name string, balance float64, capacity int) (*Factory, error) {
	switch {
	case name == "":
		return nil, fmt.Errorf("%w: factory name cannot be empty", ErrInvalidArgument)
	case balance < 0:
		return nil, fmt.Errorf("%w: initial balance cannot be negative", ErrInvalidArgument)
	case capacity < 0:
		return nil, fmt.Errorf("%w: storage capacity cannot be negative", ErrInvalidArgument)
	}
	return &Factory{
		id:           seq.Next(),
		name:         name,
		balance:      balance,
		capacity:     capacity,
		products:     make(map[string]int),
		byproducts:   make(map[string]int),
		rawMaterials: make(map[string]int),
	}, nil
}

func (f *Factory) EntityID() string   { return f.id }
func (f *Factory) EntityName() string { return f.name }

func (f *Factory) Name() string     { return f.name }
func (f *Factory) Balance() float64 { return f.balance }
func (f *Factory) Capacity() int    { return f.capacity }

// SetName renames the factory.
func (f *Factory) SetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: factory name cannot be empty", ErrInvalidArgument)
	}
	f.name = name
	return nil
}

// SetBalance replaces the balance directly; edits may set any value.
func (f *Factory) SetBalance(balance float64) { f.balance = balance }

// SetCapacity resizes storage. It cannot shrink below what is stored.
func (f *Factory) SetCapacity(capacity int) error {
	if capacity < f.TotalStored() {
		return fmt.Errorf("%w: capacity %d below stored total %d", ErrInvalidArgument, capacity, f.TotalStored())
	}
	f.capacity = capacity
	return nil
}

// TotalStored returns the summed quantity across all three ledgers.
func (f *Factory) TotalStored() int {
	total := 0
	for _, q := range f.products {
		total += q
	}
	for _, q := range f.byproducts {
		total += q
	}
	for _, q := range f.rawMaterials {
		total += q
	}
	return total
}

// Products returns a copy of the product ledger.
func (f *Factory) Products() map[string]int { return maps.Clone(f.products) }

// Byproducts returns a copy of the byproduct ledger.
func (f *Factory) Byproducts() map[string]int { return maps.Clone(f.byproducts) }

// RawMaterials returns a copy of the raw-material ledger.
func (f *Factory) RawMaterials() map[string]int { return maps.Clone(f.rawMaterials) }

// ProductStock returns the stored quantity of the named product.
func (f *Factory) ProductStock(name string) int { return f.products[name] }

// ByproductStock returns the stored quantity of the named byproduct.
func (f *Factory) ByproductStock(name string) int { return f.byproducts[name] }

// RawMaterialStock returns the stored quantity of the named raw material.
func (f *Factory) RawMaterialStock(name string) int { return f.rawMaterials[name] }

// addStock validates and credits one ledger bucket under the shared capacity.
func (f *Factory) addStock(ledger map[string]int, kind, name string, amount int) error {
	if name == "" {
		return fmt.Errorf("%w: %s name cannot be empty", ErrInvalidArgument, kind)
	}
	if amount <= 0 {
		return fmt.Errorf("%w: amount to add must be positive, got %d", ErrInvalidArgument, amount)
	}
	if free := f.capacity - f.TotalStored(); amount > free {
		return fmt.Errorf("%w: adding %d %s exceeds capacity, %d free", ErrInsufficientStorage, amount, kind, free)
	}
	ledger[name] += amount
	return nil
}

// AddProduct stores finished product units.
func (f *Factory) AddProduct(name string, amount int) error {
	return f.addStock(f.products, "product", name, amount)
}

// AddByproduct stores byproduct units.
func (f *Factory) AddByproduct(name string, amount int) error {
	return f.addStock(f.byproducts, "byproduct", name, amount)
}

// AddRawMaterial stores raw-material units.
func (f *Factory) AddRawMaterial(name string, amount int) error {
	return f.addStock(f.rawMaterials, "raw material", name, amount)
}

// AddDesign registers a production design with the factory.
func (f *Factory) AddDesign(design *goods.ProductDesign) error {
	if design == nil {
		return fmt.Errorf("%w: design cannot be nil", ErrInvalidArgument)
	}
	f.designs = append(f.designs, design)
	return nil
}

// Designs returns a copy of the design list.
func (f *Factory) Designs() []*goods.ProductDesign {
	out := make([]*goods.ProductDesign, len(f.designs))
	copy(out, f.designs)
	return out
}

// BuyRawMaterial debits the balance and credits the raw-material ledger.
// This is only the buyer side of the trade; the seller settles separately.
// SettleRawMaterialTrade wraps both sides atomically.
func (f *Factory) BuyRawMaterial(name string, amount int, pricePerUnit float64) error {
	if name == "" {
		return fmt.Errorf("%w: raw material name cannot be empty", ErrInvalidArgument)
	}
	if amount <= 0 {
		return fmt.Errorf("%w: amount to buy must be positive, got %d", ErrInvalidArgument, amount)
	}
	if pricePerUnit < 0 {
		return fmt.Errorf("%w: price per unit cannot be negative", ErrInvalidArgument)
	}
	total := float64(amount) * pricePerUnit
	if f.balance < total {
		return fmt.Errorf("%w: buying %d %s costs %.2f, balance is %.2f", ErrInsufficientFunds, amount, name, total, f.balance)
	}
	if free := f.capacity - f.TotalStored(); amount > free {
		return fmt.Errorf("%w: buying %d %s exceeds capacity, %d free", ErrInsufficientStorage, amount, name, free)
	}
	f.balance -= total
	f.rawMaterials[name] += amount
	return nil
}

// ProduceProduct runs a design: consumes the required raw materials, pays
// the production cost, and credits the product, plus the byproduct when
// the design declares one. The whole run applies or nothing does.
func (f *Factory) ProduceProduct(design *goods.ProductDesign, amount int) error {
	if design == nil {
		return fmt.Errorf("%w: design cannot be nil", ErrInvalidArgument)
	}
	if amount <= 0 {
		return fmt.Errorf("%w: amount to produce must be positive, got %d", ErrInvalidArgument, amount)
	}
	for name, req := range design.Requirements() {
		required := req.PerUnit * amount
		if available := f.rawMaterials[name]; available < required {
			return fmt.Errorf("%w: %s requires %d, have %d", ErrInsufficientRawMaterial, name, required, available)
		}
	}
	totalCost := design.ProductionCost() * float64(amount)
	if f.balance < totalCost {
		return fmt.Errorf("%w: producing %d units costs %.2f, balance is %.2f", ErrInsufficientFunds, amount, totalCost, f.balance)
	}
	// Bound is the projected post-run total: the consumed inputs free
	// their space in the same run that the output takes its own.
	projected := f.TotalStored() + amount
	for _, consumed := range design.ConsumedInputs(amount) {
		projected -= consumed
	}
	if bp := design.Byproduct(); bp != nil && design.ByproductYield() > 0 {
		projected += design.ByproductYield() * amount
	}
	if projected > f.capacity {
		return fmt.Errorf("%w: producing %d units would store %d of capacity %d", ErrInsufficientStorage, amount, projected, f.capacity)
	}

	for name, consumed := range design.ConsumedInputs(amount) {
		f.rawMaterials[name] -= consumed
	}
	f.balance -= totalCost
	f.products[design.Product().Name()] += amount
	if bp := design.Byproduct(); bp != nil && design.ByproductYield() > 0 {
		f.byproducts[bp.Name()] += design.ByproductYield() * amount
	}
	return nil
}

// DestroyByproduct disposes of byproduct units at a cost per unit.
func (f *Factory) DestroyByproduct(name string, amount int, costPerUnit float64) error {
	if name == "" {
		return fmt.Errorf("%w: byproduct name cannot be empty", ErrInvalidArgument)
	}
	if amount <= 0 {
		return fmt.Errorf("%w: amount to destroy must be positive, got %d", ErrInvalidArgument, amount)
	}
	if costPerUnit < 0 {
		return fmt.Errorf("%w: disposal cost cannot be negative", ErrInvalidArgument)
	}
	if available := f.byproducts[name]; available < amount {
		return fmt.Errorf("%w: destroying %d %s, have %d", ErrInsufficientByproduct, amount, name, available)
	}
	total := costPerUnit * float64(amount)
	if f.balance < total {
		return fmt.Errorf("%w: destroying %d %s costs %.2f, balance is %.2f", ErrInsufficientFunds, amount, name, total, f.balance)
	}
	f.byproducts[name] -= amount
	f.balance -= total
	return nil
}

// Deliver implements Seller: it debits the factory's product ledger and
// credits its balance. The buyer mutates only itself.
func (f *Factory) Deliver(product *goods.Product, amount int, unitPrice float64) error {
	if product == nil {
		return fmt.Errorf("%w: product cannot be nil", ErrInvalidArgument)
	}
	if amount <= 0 {
		return fmt.Errorf("%w: amount must be positive, got %d", ErrInvalidArgument, amount)
	}
	name := product.Name()
	if stock := f.products[name]; stock < amount {
		return fmt.Errorf("%w: factory %s holds %d %s, delivering %d", ErrInsufficientStock, f.name, stock, name, amount)
	}
	f.products[name] -= amount
	f.balance += float64(amount) * unitPrice
	return nil
}

func (f *Factory) String() string {
	return fmt.Sprintf("%s (ID: %s, balance %s, stored %d/%d, %d designs)",
		f.name, f.id, humanize.CommafWithDigits(f.balance, 2),
		f.TotalStored(), f.capacity, len(f.designs))
}
