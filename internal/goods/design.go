package goods

import "fmt"

// Requirement is one input line of a design: which raw material one unit of
// output consumes, and how many units of it.
type Requirement struct {
	Material *RawMaterial
	PerUnit  int
}

// ProductDesign declares how a factory turns raw materials into one product
// and, optionally, a byproduct. The main product yields 1:1 with the amount
// produced; the byproduct yields Yield units per unit produced. A design is
// pure data plus feasibility checks; executing it is the factory's job.
type ProductDesign struct {
	product        *Product
	byproduct      *ByProduct
	yield          int
	inputs         map[string]Requirement
	productionCost float64
}

// NewProductDesign creates a design for the given product. byproduct may be
// nil when production has no side output; yield must then be zero.
// productionCost is the money spent per unit produced.
func NewProductDesign(product *Product, byproduct *ByProduct, yield int, productionCost float64) (*ProductDesign, error) {
	if product == nil {
		return nil, fmt.Errorf("design product cannot be nil")
	}
	if productionCost < 0 {
		return nil, fmt.Errorf("production cost cannot be negative: %v", productionCost)
	}
	if yield < 0 {
		return nil, fmt.Errorf("byproduct yield cannot be negative: %d", yield)
	}
	if byproduct == nil && yield > 0 {
		return nil, fmt.Errorf("byproduct yield %d declared without a byproduct", yield)
	}
	return &ProductDesign{
		product:        product,
		byproduct:      byproduct,
		yield:          yield,
		inputs:         make(map[string]Requirement),
		productionCost: productionCost,
	}, nil
}

// AddRequirement declares that each unit produced consumes perUnit units of
// the material. Declaring a material twice replaces the earlier entry.
func (d *ProductDesign) AddRequirement(material *RawMaterial, perUnit int) error {
	if material == nil {
		return fmt.Errorf("requirement material cannot be nil")
	}
	if perUnit <= 0 {
		return fmt.Errorf("requirement per-unit amount must be positive: %d", perUnit)
	}
	d.inputs[material.Name()] = Requirement{Material: material, PerUnit: perUnit}
	return nil
}

// Product returns the main output of the design.
func (d *ProductDesign) Product() *Product { return d.product }

// Byproduct returns the side output, or nil when the design has none.
func (d *ProductDesign) Byproduct() *ByProduct { return d.byproduct }

// ByproductYield returns the byproduct units produced per unit of output.
func (d *ProductDesign) ByproductYield() int { return d.yield }

// ProductionCost returns the money spent per unit produced.
func (d *ProductDesign) ProductionCost() float64 { return d.productionCost }

// Requirements returns a copy of the input requirement table keyed by
// material name.
func (d *ProductDesign) Requirements() map[string]Requirement {
	out := make(map[string]Requirement, len(d.inputs))
	for name, req := range d.inputs {
		out[name] = req
	}
	return out
}

// RequirementFor returns the requirement for the named material, if declared.
func (d *ProductDesign) RequirementFor(material string) (Requirement, bool) {
	req, ok := d.inputs[material]
	return req, ok
}

// CanProduce reports whether the available stock (material name → units)
// covers every input requirement for producing amount units.
func (d *ProductDesign) CanProduce(available map[string]int, amount int) bool {
	if amount <= 0 {
		return false
	}
	for name, req := range d.inputs {
		if available[name] < req.PerUnit*amount {
			return false
		}
	}
	return true
}

// ConsumedInputs returns the total units of each material consumed by
// producing amount units, keyed by material name.
func (d *ProductDesign) ConsumedInputs(amount int) map[string]int {
	consumed := make(map[string]int, len(d.inputs))
	for name, req := range d.inputs {
		consumed[name] = req.PerUnit * amount
	}
	return consumed
}

func (d *ProductDesign) String() string {
	if d.byproduct != nil && d.yield > 0 {
		return fmt.Sprintf("design %s (+%d %s/unit), %d inputs, cost %.2f/unit",
			d.product.Name(), d.yield, d.byproduct.Name(), len(d.inputs), d.productionCost)
	}
	return fmt.Sprintf("design %s, %d inputs, cost %.2f/unit",
		d.product.Name(), len(d.inputs), d.productionCost)
}
