package economy

import (
	"errors"
	"testing"

	"github.com/talgya/econ-engine/internal/goods"
)

// factoryFixture is the widget line: 2 Iron per Widget at 3/unit production
// cost, 1 Slag per Widget.
type factoryFixture struct {
	factory *Factory
	design  *goods.ProductDesign
	widget  *goods.Product
	iron    *goods.RawMaterial
	slag    *goods.ByProduct
}

func newFactoryFixture(t *testing.T, balance float64, capacity int, withByproduct bool) factoryFixture {
	t.Helper()
	items := goods.NewSequence("ITEM")
	ids := goods.NewSequence("FACTORY")

	widget, err := goods.NewProduct(items, "Widget", 12)
	if err != nil {
		t.Fatalf("new product: %v", err)
	}
	iron, err := goods.NewRawMaterial(items, "Iron", 2)
	if err != nil {
		t.Fatalf("new raw material: %v", err)
	}
	var slag *goods.ByProduct
	yield := 0
	if withByproduct {
		slag, err = goods.NewByProduct(items, "Slag", 0.5)
		if err != nil {
			t.Fatalf("new byproduct: %v", err)
		}
		yield = 1
	}
	design, err := goods.NewProductDesign(widget, slag, yield, 3)
	if err != nil {
		t.Fatalf("new design: %v", err)
	}
	if err := design.AddRequirement(iron, 2); err != nil {
		t.Fatalf("add requirement: %v", err)
	}

	f, err := NewFactory(ids, "Assembly_0", balance, capacity)
	if err != nil {
		t.Fatalf("new factory: %v", err)
	}
	if err := f.AddDesign(design); err != nil {
		t.Fatalf("add design: %v", err)
	}
	return factoryFixture{factory: f, design: design, widget: widget, iron: iron, slag: slag}
}

func TestAddStockValidation(t *testing.T) {
	fx := newFactoryFixture(t, 1000, 50, false)
	f := fx.factory

	if err := f.AddRawMaterial("", 5); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("empty name: expected ErrInvalidArgument, got %v", err)
	}
	if err := f.AddProduct("Widget", 0); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("zero amount: expected ErrInvalidArgument, got %v", err)
	}
	if err := f.AddByproduct("Slag", -2); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("negative amount: expected ErrInvalidArgument, got %v", err)
	}

	if err := f.AddRawMaterial("Iron", 50); err != nil {
		t.Fatalf("fill to capacity: %v", err)
	}
	if err := f.AddProduct("Widget", 1); !errors.Is(err, ErrInsufficientStorage) {
		t.Fatalf("over capacity: expected ErrInsufficientStorage, got %v", err)
	}
	if f.TotalStored() != 50 {
		t.Fatalf("failed add must not change ledgers, stored=%d", f.TotalStored())
	}
}

func TestProduceProduct(t *testing.T) {
	// Capacity 50, balance 1000, 40 Iron on hand.
	fx := newFactoryFixture(t, 1000, 50, false)
	f := fx.factory
	if err := f.AddRawMaterial("Iron", 40); err != nil {
		t.Fatalf("stock iron: %v", err)
	}

	// 15 Widgets: 30 Iron, cost 45, resulting total 25 <= 50.
	if err := f.ProduceProduct(fx.design, 15); err != nil {
		t.Fatalf("produce 15: %v", err)
	}
	if got := f.RawMaterialStock("Iron"); got != 10 {
		t.Fatalf("expected 10 Iron left, got %d", got)
	}
	if got := f.ProductStock("Widget"); got != 15 {
		t.Fatalf("expected 15 Widgets, got %d", got)
	}
	if f.Balance() != 955 {
		t.Fatalf("expected balance 955, got %v", f.Balance())
	}

	// 10 more need 20 Iron, only 10 remain.
	err := f.ProduceProduct(fx.design, 10)
	if !errors.Is(err, ErrInsufficientRawMaterial) {
		t.Fatalf("expected ErrInsufficientRawMaterial, got %v", err)
	}
	if f.RawMaterialStock("Iron") != 10 || f.ProductStock("Widget") != 15 || f.Balance() != 955 {
		t.Fatalf("failed produce must not change state")
	}
}

func TestProduceProductFailsClosed(t *testing.T) {
	cases := []struct {
		name     string
		balance  float64
		capacity int
		iron     int
		amount   int
		want     error
	}{
		{"insufficient funds", 10, 100, 40, 10, ErrInsufficientFunds},
		{"zero amount", 1000, 100, 40, 0, ErrInvalidArgument},
	}
	for _, tc := range cases {
		fx := newFactoryFixture(t, tc.balance, tc.capacity, false)
		f := fx.factory
		if err := f.AddRawMaterial("Iron", tc.iron); err != nil {
			t.Fatalf("%s: stock iron: %v", tc.name, err)
		}
		err := f.ProduceProduct(fx.design, tc.amount)
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
		if f.RawMaterialStock("Iron") != tc.iron || f.ProductStock("Widget") != 0 || f.Balance() != tc.balance {
			t.Fatalf("%s: failed produce must not change state", tc.name)
		}
	}
}

// Capacity bounds the projected post-run total, so the space freed by the
// consumed inputs counts toward the room the output needs.
func TestProduceProductStorageBound(t *testing.T) {
	// Widget line with byproduct: gross total after the run would be
	// 40 iron + 15 widgets + 15 slag = 70, but 30 iron are consumed in
	// the same run, leaving 40 of capacity 50.
	fx := newFactoryFixture(t, 1000, 50, true)
	f := fx.factory
	if err := f.AddRawMaterial("Iron", 40); err != nil {
		t.Fatalf("stock iron: %v", err)
	}
	if err := f.ProduceProduct(fx.design, 15); err != nil {
		t.Fatalf("produce 15: %v", err)
	}
	if got := f.TotalStored(); got != 40 {
		t.Fatalf("expected 40 stored after run, got %d", got)
	}
	if f.RawMaterialStock("Iron") != 10 || f.ProductStock("Widget") != 15 || f.ByproductStock("Slag") != 15 {
		t.Fatalf("unexpected ledgers: iron=%d widget=%d slag=%d",
			f.RawMaterialStock("Iron"), f.ProductStock("Widget"), f.ByproductStock("Slag"))
	}

	// An expansive design (1 Ore per Gadget, 2 Slag yield) grows storage
	// by 2 per unit and must fail closed when the projected total
	// overflows: 40 + 10 - 10 + 20 = 60 > 45.
	items := goods.NewSequence("ITEM")
	ids := goods.NewSequence("FACTORY")
	gadget, err := goods.NewProduct(items, "Gadget", 8)
	if err != nil {
		t.Fatalf("new product: %v", err)
	}
	ore, err := goods.NewRawMaterial(items, "Ore", 1)
	if err != nil {
		t.Fatalf("new raw material: %v", err)
	}
	slag, err := goods.NewByProduct(items, "Slag", 0.5)
	if err != nil {
		t.Fatalf("new byproduct: %v", err)
	}
	expansive, err := goods.NewProductDesign(gadget, slag, 2, 1)
	if err != nil {
		t.Fatalf("new design: %v", err)
	}
	if err := expansive.AddRequirement(ore, 1); err != nil {
		t.Fatalf("add requirement: %v", err)
	}
	g, err := NewFactory(ids, "Smelter_0", 1000, 45)
	if err != nil {
		t.Fatalf("new factory: %v", err)
	}
	if err := g.AddRawMaterial("Ore", 40); err != nil {
		t.Fatalf("stock ore: %v", err)
	}
	if err := g.ProduceProduct(expansive, 10); !errors.Is(err, ErrInsufficientStorage) {
		t.Fatalf("expected ErrInsufficientStorage, got %v", err)
	}
	if g.RawMaterialStock("Ore") != 40 || g.ProductStock("Gadget") != 0 || g.Balance() != 1000 {
		t.Fatalf("failed produce must not change state")
	}
}

func TestProduceProductCreditsByproduct(t *testing.T) {
	fx := newFactoryFixture(t, 1000, 100, true)
	f := fx.factory
	if err := f.AddRawMaterial("Iron", 20); err != nil {
		t.Fatalf("stock iron: %v", err)
	}
	if err := f.ProduceProduct(fx.design, 10); err != nil {
		t.Fatalf("produce: %v", err)
	}
	if got := f.ByproductStock("Slag"); got != 10 {
		t.Fatalf("expected 10 Slag, got %d", got)
	}
	if f.TotalStored() > f.Capacity() {
		t.Fatalf("capacity invariant violated: stored %d > capacity %d", f.TotalStored(), f.Capacity())
	}
}

func TestDestroyByproduct(t *testing.T) {
	fx := newFactoryFixture(t, 100, 100, true)
	f := fx.factory
	if err := f.AddByproduct("Slag", 30); err != nil {
		t.Fatalf("stock slag: %v", err)
	}

	if err := f.DestroyByproduct("Slag", 40, 1); !errors.Is(err, ErrInsufficientByproduct) {
		t.Fatalf("overdraw: expected ErrInsufficientByproduct, got %v", err)
	}
	if err := f.DestroyByproduct("Slag", 30, 10); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("costly disposal: expected ErrInsufficientFunds, got %v", err)
	}
	if f.ByproductStock("Slag") != 30 || f.Balance() != 100 {
		t.Fatalf("failed destroy must not change state")
	}

	if err := f.DestroyByproduct("Slag", 20, 2); err != nil {
		t.Fatalf("destroy: %v", err)
	}
	if f.ByproductStock("Slag") != 10 {
		t.Fatalf("expected 10 Slag left, got %d", f.ByproductStock("Slag"))
	}
	if f.Balance() != 60 {
		t.Fatalf("expected balance 60, got %v", f.Balance())
	}
}

func TestBuyRawMaterial(t *testing.T) {
	fx := newFactoryFixture(t, 100, 50, false)
	f := fx.factory

	if err := f.BuyRawMaterial("Iron", 30, 5); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if err := f.BuyRawMaterial("Iron", 60, 1); !errors.Is(err, ErrInsufficientStorage) {
		t.Fatalf("expected ErrInsufficientStorage, got %v", err)
	}
	if f.TotalStored() != 0 || f.Balance() != 100 {
		t.Fatalf("failed buy must not change state")
	}

	if err := f.BuyRawMaterial("Iron", 20, 4); err != nil {
		t.Fatalf("buy: %v", err)
	}
	if f.RawMaterialStock("Iron") != 20 || f.Balance() != 20 {
		t.Fatalf("expected 20 Iron and balance 20, got %d and %v", f.RawMaterialStock("Iron"), f.Balance())
	}
}

func TestFactoryDeliver(t *testing.T) {
	fx := newFactoryFixture(t, 100, 50, false)
	f := fx.factory
	if err := f.AddProduct("Widget", 10); err != nil {
		t.Fatalf("stock widgets: %v", err)
	}

	if err := f.Deliver(fx.widget, 11, 20); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	if err := f.Deliver(fx.widget, 4, 20); err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if f.ProductStock("Widget") != 6 {
		t.Fatalf("expected 6 Widgets left, got %d", f.ProductStock("Widget"))
	}
	if f.Balance() != 180 {
		t.Fatalf("expected balance 180, got %v", f.Balance())
	}
}

func TestLedgerAccessorsReturnCopies(t *testing.T) {
	fx := newFactoryFixture(t, 100, 50, false)
	f := fx.factory
	if err := f.AddRawMaterial("Iron", 5); err != nil {
		t.Fatalf("stock iron: %v", err)
	}
	view := f.RawMaterials()
	view["Iron"] = 999
	if f.RawMaterialStock("Iron") != 5 {
		t.Fatalf("mutating the returned map must not touch the ledger")
	}
}
