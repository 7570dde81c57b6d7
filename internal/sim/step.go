package sim

import (
	"log/slog"
	"math"

	"github.com/talgya/econ-engine/internal/economy"
	"github.com/talgya/econ-engine/internal/goods"
)

// Retail markup markets apply over the price they paid.
const retailMarkup = 1.25

// Factory asking price over the product's intrinsic cost.
const factoryMarkup = 1.5

// Step runs one sim-day: price drift, production, restocking, retail.
// Everything is sequential; a business-rule rejection skips that one move
// and the day continues.
func (s *Scenario) Step() {
	s.Day++
	s.Stats = Stats{}

	s.driftPrices()
	s.runProducers()
	s.runFactories()
	s.stockMarkets()
	s.runCustomers()

	s.Stats.TotalBalance = s.TotalBalance()
	slog.Info("day complete",
		"day", s.Day,
		"trades", s.Stats.Trades,
		"produced", s.Stats.UnitsProduced,
		"shopped", s.Stats.UnitsShopped,
		"total_balance", round2(s.Stats.TotalBalance),
	)
}

// driftPrices wanders each producer's selling price around its baseline.
func (s *Scenario) driftPrices() {
	if s.Drift == nil {
		return
	}
	for i, p := range s.Producers.List() {
		base, ok := s.baselines[p.EntityID()]
		if !ok {
			base = p.SellingPrice()
			s.baselines[p.EntityID()] = base
		}
		if err := p.SetSellingPrice(round2(base * s.Drift.Factor(i, s.Day))); err != nil {
			slog.Debug("price drift skipped", "producer", p.Name(), "error", err)
		}
	}
}

// runProducers tops up each producer's stock as far as funds and storage
// allow, capped at a daily batch.
func (s *Scenario) runProducers() {
	const dailyBatch = 100
	for _, p := range s.Producers.List() {
		batch := p.Capacity() - p.Stock()
		if batch > dailyBatch {
			batch = dailyBatch
		}
		if cost := p.Material().Cost(); cost > 0 {
			if affordable := int(p.Balance() / cost); batch > affordable {
				batch = affordable
			}
		}
		if batch <= 0 {
			continue
		}
		if err := p.Produce(batch); err != nil {
			slog.Debug("production skipped", "producer", p.Name(), "error", err)
			continue
		}
		s.Stats.UnitsProduced += batch
	}
}

// runFactories clears byproducts, restocks inputs from producers, and runs
// every design.
func (s *Scenario) runFactories() {
	const designBatch = 20
	for _, f := range s.Factories.List() {
		for name, qty := range f.Byproducts() {
			if qty == 0 {
				continue
			}
			cost := 0.0
			if bp, ok := s.Byproducts[name]; ok {
				cost = bp.Cost()
			}
			if err := f.DestroyByproduct(name, qty, cost); err != nil {
				slog.Debug("disposal skipped", "factory", f.Name(), "byproduct", name, "error", err)
			}
		}

		for _, d := range f.Designs() {
			for name, req := range d.Requirements() {
				needed := req.PerUnit * designBatch
				if have := f.RawMaterialStock(name); have < needed {
					s.buyMaterial(f, name, needed-have)
				}
			}
			if err := f.ProduceProduct(d, designBatch); err != nil {
				slog.Debug("design run skipped", "factory", f.Name(), "design", d.String(), "error", err)
				continue
			}
			s.Stats.UnitsProduced += designBatch
		}
	}
}

// buyMaterial settles a raw-material trade with whichever producer makes
// the named material.
func (s *Scenario) buyMaterial(f *economy.Factory, material string, amount int) {
	for _, p := range s.Producers.List() {
		if p.Material().Name() != material {
			continue
		}
		t, err := economy.SettleRawMaterialTrade(f, p, amount)
		s.record(t, err, "material trade")
		return
	}
	slog.Debug("no producer for material", "material", material)
}

// stockMarkets has each market buy a slice of the factories' output and set
// a retail price over what it paid.
func (s *Scenario) stockMarkets() {
	const marketBatch = 10
	for _, m := range s.Markets.List() {
		for _, f := range s.Factories.List() {
			for pi, prod := range s.Products {
				stock := f.ProductStock(prod.Name())
				if stock == 0 {
					continue
				}
				amount := marketBatch
				if amount > stock {
					amount = stock
				}
				ask := s.askPrice(pi, prod)
				t, err := m.BuyFrom(prod, amount, ask, f)
				if !s.record(t, err, "market restock") {
					continue
				}
				if err := m.SetProductPrice(prod, round2(ask*retailMarkup)); err != nil {
					slog.Debug("retail pricing skipped", "market", m.Name(), "product", prod.Name(), "error", err)
				}
			}
		}
	}
}

// askPrice is the factory ask for one product today: the intrinsic cost
// marked up, drifted on a noise series of its own so product prices wander
// independently of producer prices.
func (s *Scenario) askPrice(productIndex int, prod *goods.Product) float64 {
	ask := prod.Cost() * factoryMarkup
	if s.Drift != nil {
		ask *= s.Drift.Factor(s.Producers.Len()+productIndex, s.Day)
	}
	return round2(ask)
}

// runCustomers has every customer try to buy one unit of each product,
// rotating which market it visits day by day.
func (s *Scenario) runCustomers() {
	markets := s.Markets.List()
	if len(markets) == 0 {
		return
	}
	for i, c := range s.Customers.List() {
		m := markets[(int(s.Day)+i)%len(markets)]
		for _, prod := range s.Products {
			if m.Stock(prod) == 0 {
				continue
			}
			t, err := c.Purchase(prod, 1, m)
			if s.record(t, err, "purchase") {
				s.Stats.UnitsShopped++
			}
		}
	}
}

// record logs a skipped trade or journals a settled one.
func (s *Scenario) record(t economy.Trade, err error, what string) bool {
	if err != nil {
		slog.Debug(what+" skipped", "error", err)
		return false
	}
	s.Stats.Trades++
	if s.Journal != nil {
		if jerr := s.Journal.Record(t); jerr != nil {
			slog.Warn("journal record failed", "trade", t.ID, "error", jerr)
		}
	}
	return true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
