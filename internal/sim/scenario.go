// Package sim drives a small closed economy through strictly sequential
// steps: producers make materials, factories buy and transform them,
// markets stock the output, customers shop. One step is one sim-day.
package sim

import (
	"fmt"
	"log/slog"

	"github.com/talgya/econ-engine/internal/dynamics"
	"github.com/talgya/econ-engine/internal/economy"
	"github.com/talgya/econ-engine/internal/goods"
	"github.com/talgya/econ-engine/internal/journal"
	"github.com/talgya/econ-engine/internal/registry"
)

// Scenario holds the complete economy state and wires the entities together.
type Scenario struct {
	Producers *registry.Registry[*economy.Producer]
	Factories *registry.Registry[*economy.Factory]
	Markets   *registry.Registry[*economy.Market]
	Customers *registry.Registry[*economy.Customer]

	// Products in circulation, in creation order.
	Products []*goods.Product

	// Byproducts by name, so disposal can look up the cost per unit.
	Byproducts map[string]*goods.ByProduct

	// Journal records settled trades when set; nil disables recording.
	Journal *journal.DB

	// Drift perturbs producer prices day to day; nil holds prices steady.
	Drift *dynamics.PriceDrift

	Day   uint64
	Stats Stats

	// Baseline selling prices per producer ID, the anchor drift wanders
	// around.
	baselines map[string]float64
}

// Stats aggregates what the most recent step moved.
type Stats struct {
	Trades        int
	UnitsProduced int
	UnitsShopped  int
	TotalBalance  float64
}

// TotalBalance sums every entity balance in the scenario. Trades never
// change this sum; only production and disposal do.
func (s *Scenario) TotalBalance() float64 {
	total := 0.0
	for _, p := range s.Producers.List() {
		total += p.Balance()
	}
	for _, f := range s.Factories.List() {
		total += f.Balance()
	}
	for _, m := range s.Markets.List() {
		total += m.Balance()
	}
	for _, c := range s.Customers.List() {
		total += c.Balance()
	}
	return total
}

// BuildDefault constructs the demo economy: two producers, a factory with a
// widget design that throws off slag, two markets, and three customers.
func BuildDefault(seed int64) (*Scenario, error) {
	items := goods.NewSequence("ITEM")
	producerIDs := goods.NewSequence("RMP")
	factoryIDs := goods.NewSequence("FACTORY")
	marketIDs := goods.NewSequence("MARKET")
	customerIDs := goods.NewSequence("CUST")

	iron, err := goods.NewRawMaterial(items, "Iron", 2)
	if err != nil {
		return nil, err
	}
	copper, err := goods.NewRawMaterial(items, "Copper", 3)
	if err != nil {
		return nil, err
	}
	widget, err := goods.NewProduct(items, "Widget", 12)
	if err != nil {
		return nil, err
	}
	cable, err := goods.NewProduct(items, "Cable", 5)
	if err != nil {
		return nil, err
	}
	slag, err := goods.NewByProduct(items, "Slag", 0.5)
	if err != nil {
		return nil, err
	}

	s := &Scenario{
		Producers:  registry.New[*economy.Producer](),
		Factories:  registry.New[*economy.Factory](),
		Markets:    registry.New[*economy.Market](),
		Customers:  registry.New[*economy.Customer](),
		Products:   []*goods.Product{widget, cable},
		Byproducts: map[string]*goods.ByProduct{slag.Name(): slag},
		Drift:      dynamics.NewPriceDrift(seed, 0.2),
		baselines:  make(map[string]float64),
	}

	ironWorks, err := economy.NewProducer(producerIDs, "IronWorks", 5000, 1200, iron, 4)
	if err != nil {
		return nil, err
	}
	copperMine, err := economy.NewProducer(producerIDs, "CopperMine", 4000, 800, copper, 5)
	if err != nil {
		return nil, err
	}
	for _, p := range []*economy.Producer{ironWorks, copperMine} {
		if err := s.Producers.Add(p); err != nil {
			return nil, err
		}
		s.baselines[p.EntityID()] = p.SellingPrice()
	}

	factory, err := economy.NewFactory(factoryIDs, "Assembly_0", 10000, 500)
	if err != nil {
		return nil, err
	}
	widgetDesign, err := goods.NewProductDesign(widget, slag, 1, 3)
	if err != nil {
		return nil, err
	}
	if err := widgetDesign.AddRequirement(iron, 2); err != nil {
		return nil, err
	}
	cableDesign, err := goods.NewProductDesign(cable, nil, 0, 1)
	if err != nil {
		return nil, err
	}
	if err := cableDesign.AddRequirement(copper, 1); err != nil {
		return nil, err
	}
	for _, d := range []*goods.ProductDesign{widgetDesign, cableDesign} {
		if err := factory.AddDesign(d); err != nil {
			return nil, err
		}
	}
	if err := s.Factories.Add(factory); err != nil {
		return nil, err
	}

	for i, balance := range []float64{10000, 12000} {
		m, err := economy.NewMarket(marketIDs, fmt.Sprintf("Market_%d", i), balance)
		if err != nil {
			return nil, err
		}
		if err := s.Markets.Add(m); err != nil {
			return nil, err
		}
	}

	for i, balance := range []float64{400, 300, 500} {
		c, err := economy.NewCustomer(customerIDs, fmt.Sprintf("Customer_%d", i), balance)
		if err != nil {
			return nil, err
		}
		if err := s.Customers.Add(c); err != nil {
			return nil, err
		}
	}

	slog.Info("scenario built",
		"producers", s.Producers.Len(),
		"factories", s.Factories.Len(),
		"markets", s.Markets.Len(),
		"customers", s.Customers.Len(),
	)
	return s, nil
}
