package economy

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"golang.org/x/exp/maps"

	"github.com/talgya/econ-engine/internal/goods"
)

// Customer buys finished products from markets and keeps them.
type Customer struct {
	id        string
	name      string
	balance   float64
	inventory map[string]int
}

// NewCustomer creates a customer with an empty inventory.
func NewCustomer(seq *goods.Sequence, name string, balance float64) (*Customer, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: customer name cannot be empty", ErrInvalidArgument)
	}
	if balance < 0 {
		return nil, fmt.Errorf("%w: initial balance cannot be negative", ErrInvalidArgument)
	}
	return &Customer{
		id:        seq.Next(),
		name:      name,
		balance:   balance,
		inventory: make(map[string]int),
	}, nil
}

func (c *Customer) EntityID() string   { return c.id }
func (c *Customer) EntityName() string { return c.name }

func (c *Customer) Name() string     { return c.name }
func (c *Customer) Balance() float64 { return c.balance }

// SetName renames the customer.
func (c *Customer) SetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: customer name cannot be empty", ErrInvalidArgument)
	}
	c.name = name
	return nil
}

// SetBalance replaces the balance directly; edits may set any value.
func (c *Customer) SetBalance(balance float64) { c.balance = balance }

// Inventory returns a copy of the quantity ledger keyed by product name.
func (c *Customer) Inventory() map[string]int { return maps.Clone(c.inventory) }

// Holding returns how many units of the product the customer owns.
func (c *Customer) Holding(product *goods.Product) int {
	if product == nil {
		return 0
	}
	return c.inventory[product.Name()]
}

// Add credits the customer's inventory without payment. Used by the
// presentation layer for direct edits.
func (c *Customer) Add(product *goods.Product, amount int) error {
	if product == nil {
		return fmt.Errorf("%w: product cannot be nil", ErrInvalidArgument)
	}
	if amount <= 0 {
		return fmt.Errorf("%w: amount to add must be positive, got %d", ErrInvalidArgument, amount)
	}
	c.inventory[product.Name()] += amount
	return nil
}

// Purchase buys amount units from the market at its current price. The
// customer validates price, funds, and the market's advertised stock, then
// debits itself, takes the goods, and has the market settle its side. The
// market re-checks its stock defensively; if that ever failed the customer
// rolls its own side back, so a failure anywhere leaves both untouched.
func (c *Customer) Purchase(product *goods.Product, amount int, market *Market) (Trade, error) {
	if product == nil || market == nil {
		return Trade{}, fmt.Errorf("%w: product and market cannot be nil", ErrInvalidArgument)
	}
	if amount <= 0 {
		return Trade{}, fmt.Errorf("%w: amount to buy must be positive, got %d", ErrInvalidArgument, amount)
	}
	price := market.ProductPrice(product)
	if price < 0 {
		return Trade{}, fmt.Errorf("%w: market %s advertises %.2f for %s", ErrInvalidPrice, market.Name(), price, product.Name())
	}
	totalCost := price * float64(amount)
	if c.balance < totalCost {
		return Trade{}, fmt.Errorf("%w: buying %d %s costs %.2f, balance is %.2f", ErrInsufficientFunds, amount, product.Name(), totalCost, c.balance)
	}
	if stock := market.Stock(product); stock < amount {
		return Trade{}, fmt.Errorf("%w: market %s holds %d %s, requested %d", ErrInsufficientStock, market.Name(), stock, product.Name(), amount)
	}

	name := product.Name()
	c.balance -= totalCost
	c.inventory[name] += amount
	if err := market.SellToCustomer(product, amount, c); err != nil {
		// Unreachable while both sides validate the same stock, but the
		// rollback keeps goods and money paired even if they diverge.
		c.balance += totalCost
		c.inventory[name] -= amount
		if c.inventory[name] == 0 {
			delete(c.inventory, name)
		}
		return Trade{}, err
	}
	return newTrade(c.id, market.EntityID(), name, amount, price), nil
}

func (c *Customer) String() string {
	return fmt.Sprintf("%s (ID: %s, balance %s, %d products held)",
		c.name, c.id, humanize.CommafWithDigits(c.balance, 2), len(c.inventory))
}
