package economy

import (
	"fmt"
	"sort"

	"github.com/dustin/go-humanize"
	"golang.org/x/exp/maps"

	"github.com/talgya/econ-engine/internal/goods"
)

// Seller is the counterparty side of a market purchase. Implementations
// debit their own stock and credit their own balance; buyers never reach
// into a seller's ledgers.
type Seller interface {
	EntityID() string
	EntityName() string
	Deliver(product *goods.Product, amount int, unitPrice float64) error
}

// Market buys products from factories and other markets and resells them to
// customers. Each product carries a price that defaults to the product's
// intrinsic cost until a real price takes over.
type Market struct {
	id      string
	name    string
	balance float64

	inventory map[string]int
	prices    map[string]float64
	catalog   map[string]*goods.Product
}

// NewMarket creates a market with an empty inventory.
func NewMarket(seq *goods.Sequence, name string, balance float64) (*Market, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: market name cannot be empty", ErrInvalidArgument)
	}
	if balance < 0 {
		return nil, fmt.Errorf("%w: initial balance cannot be negative", ErrInvalidArgument)
	}
	return &Market{
		id:        seq.Next(),
		name:      name,
		balance:   balance,
		inventory: make(map[string]int),
		prices:    make(map[string]float64),
		catalog:   make(map[string]*goods.Product),
	}, nil
}

func (m *Market) EntityID() string   { return m.id }
func (m *Market) EntityName() string { return m.name }

func (m *Market) Name() string     { return m.name }
func (m *Market) Balance() float64 { return m.balance }

// SetName renames the market.
func (m *Market) SetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: market name cannot be empty", ErrInvalidArgument)
	}
	m.name = name
	return nil
}

// SetBalance replaces the balance directly; edits may set any value.
func (m *Market) SetBalance(balance float64) { m.balance = balance }

// Stock returns how many units of the product the market holds.
func (m *Market) Stock(product *goods.Product) int {
	if product == nil {
		return 0
	}
	return m.inventory[product.Name()]
}

// Inventory returns a copy of the quantity ledger keyed by product name.
func (m *Market) Inventory() map[string]int { return maps.Clone(m.inventory) }

// AddProduct stocks amount units of the product. The offered price is
// adopted only while the stored price is still the placeholder default:
// unset, or equal to the product's intrinsic cost. Once a real price exists
// it stays until SetProductPrice overwrites it.
func (m *Market) AddProduct(product *goods.Product, amount int, price float64) error {
	if product == nil {
		return fmt.Errorf("%w: product cannot be nil", ErrInvalidArgument)
	}
	if amount <= 0 {
		return fmt.Errorf("%w: amount to add must be positive, got %d", ErrInvalidArgument, amount)
	}
	if price < 0 {
		return fmt.Errorf("%w: price cannot be negative", ErrInvalidArgument)
	}
	name := product.Name()
	m.inventory[name] += amount
	m.catalog[name] = product
	if stored, ok := m.prices[name]; !ok || stored == product.Cost() {
		m.prices[name] = price
	}
	return nil
}

// SetProductPrice overwrites the selling price for a product currently in
// stock.
func (m *Market) SetProductPrice(product *goods.Product, price float64) error {
	if product == nil {
		return fmt.Errorf("%w: product cannot be nil", ErrInvalidArgument)
	}
	if price < 0 {
		return fmt.Errorf("%w: price cannot be negative", ErrInvalidArgument)
	}
	if m.inventory[product.Name()] == 0 {
		return fmt.Errorf("%w: %s has no stock to price", ErrNotInStock, product.Name())
	}
	m.prices[product.Name()] = price
	return nil
}

// ProductPrice returns the selling price for the product: the stored price,
// or the product's intrinsic cost while none has been set.
func (m *Market) ProductPrice(product *goods.Product) float64 {
	if price, ok := m.prices[product.Name()]; ok {
		return price
	}
	return product.Cost()
}

// BuyFrom purchases amount units from a factory or another market. Both
// sides settle inside this one call: the seller's Deliver debits its stock
// and credits its balance, then this market stocks the goods and pays.
// Funds are checked before the seller moves, so a failure on either side
// leaves both untouched.
func (m *Market) BuyFrom(product *goods.Product, amount int, pricePerUnit float64, seller Seller) (Trade, error) {
	if product == nil || seller == nil {
		return Trade{}, fmt.Errorf("%w: product and seller cannot be nil", ErrInvalidArgument)
	}
	if amount <= 0 {
		return Trade{}, fmt.Errorf("%w: amount to buy must be positive, got %d", ErrInvalidArgument, amount)
	}
	if pricePerUnit < 0 {
		return Trade{}, fmt.Errorf("%w: price per unit cannot be negative", ErrInvalidArgument)
	}
	total := float64(amount) * pricePerUnit
	if m.balance < total {
		return Trade{}, fmt.Errorf("%w: buying %d %s costs %.2f, balance is %.2f", ErrInsufficientFunds, amount, product.Name(), total, m.balance)
	}
	if err := seller.Deliver(product, amount, pricePerUnit); err != nil {
		return Trade{}, err
	}
	// The buyer side cannot fail past this point: funds are checked and
	// markets have no storage bound.
	name := product.Name()
	m.inventory[name] += amount
	m.catalog[name] = product
	if stored, ok := m.prices[name]; !ok || stored == product.Cost() {
		m.prices[name] = pricePerUnit
	}
	m.balance -= total
	return newTrade(m.id, seller.EntityID(), name, amount, pricePerUnit), nil
}

// Deliver implements Seller for market-to-market trades: it debits this
// market's inventory and credits its balance.
func (m *Market) Deliver(product *goods.Product, amount int, unitPrice float64) error {
	if product == nil {
		return fmt.Errorf("%w: product cannot be nil", ErrInvalidArgument)
	}
	if amount <= 0 {
		return fmt.Errorf("%w: amount must be positive, got %d", ErrInvalidArgument, amount)
	}
	name := product.Name()
	if stock := m.inventory[name]; stock < amount {
		return fmt.Errorf("%w: market %s holds %d %s, delivering %d", ErrInsufficientStock, m.name, stock, name, amount)
	}
	m.debitStock(name, amount)
	m.balance += float64(amount) * unitPrice
	return nil
}

// SellToCustomer settles this market's side of a customer purchase: stock
// out, revenue in at the current price. The customer debits itself before
// calling here, so a stock shortfall at this point means the two
// validations diverged, which is a programming error rather than a business failure.
func (m *Market) SellToCustomer(product *goods.Product, amount int, buyer *Customer) error {
	if product == nil || buyer == nil {
		return fmt.Errorf("%w: product and buyer cannot be nil", ErrInvalidArgument)
	}
	if amount <= 0 {
		return fmt.Errorf("%w: amount to sell must be positive, got %d", ErrInvalidArgument, amount)
	}
	name := product.Name()
	if stock := m.inventory[name]; stock < amount {
		return fmt.Errorf("%w: market %s holds %d %s but is settling a sale of %d to %s",
			ErrInternalInconsistency, m.name, stock, name, amount, buyer.Name())
	}
	revenue := m.ProductPrice(product) * float64(amount)
	m.debitStock(name, amount)
	m.balance += revenue
	return nil
}

// debitStock removes units and prunes the entry when it reaches zero.
func (m *Market) debitStock(name string, amount int) {
	m.inventory[name] -= amount
	if m.inventory[name] == 0 {
		delete(m.inventory, name)
	}
}

// InventoryView returns one display line per stocked product, sorted by
// name, for the presentation layer's list widgets.
func (m *Market) InventoryView() []string {
	names := maps.Keys(m.inventory)
	sort.Strings(names)
	lines := make([]string, 0, len(names))
	for _, name := range names {
		price := m.prices[name]
		if _, ok := m.prices[name]; !ok {
			if p, ok := m.catalog[name]; ok {
				price = m.ProductPrice(p)
			}
		}
		lines = append(lines, fmt.Sprintf("%s x%s @ %s",
			name, humanize.Comma(int64(m.inventory[name])), humanize.CommafWithDigits(price, 2)))
	}
	return lines
}

func (m *Market) String() string {
	return fmt.Sprintf("%s (ID: %s, balance %s, %d products stocked)",
		m.name, m.id, humanize.CommafWithDigits(m.balance, 2), len(m.inventory))
}
