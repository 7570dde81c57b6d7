package economy

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/talgya/econ-engine/internal/goods"
)

// Producer makes one fixed raw material from its own funds and sells the
// stock on. Stock is bounded by storage capacity; production is bounded by
// the balance.
type Producer struct {
	id           string
	name         string
	balance      float64
	capacity     int
	material     *goods.RawMaterial
	stock        int
	sellingPrice float64
}

// NewProducer creates a producer of the given material. balance, capacity,
// and sellingPrice must be non-negative.
func NewProducer(seq *goods.Sequence, name string, balance float64, capacity int, material *goods.RawMaterial, sellingPrice float64) (*Producer, error) {
	switch {
	case name == "":
		return nil, fmt.Errorf("%w: producer name cannot be empty", ErrInvalidArgument)
	case balance < 0:
		return nil, fmt.Errorf("%w: initial balance cannot be negative", ErrInvalidArgument)
	case capacity < 0:
		return nil, fmt.Errorf("%w: storage capacity cannot be negative", ErrInvalidArgument)
	case material == nil:
		return nil, fmt.Errorf("%w: produced material cannot be nil", ErrInvalidArgument)
	case sellingPrice < 0:
		return nil, fmt.Errorf("%w: selling price cannot be negative", ErrInvalidArgument)
	}
	return &Producer{
		id:           seq.Next(),
		name:         name,
		balance:      balance,
		capacity:     capacity,
		material:     material,
		sellingPrice: sellingPrice,
	}, nil
}

func (p *Producer) EntityID() string   { return p.id }
func (p *Producer) EntityName() string { return p.name }

func (p *Producer) Name() string                 { return p.name }
func (p *Producer) Balance() float64             { return p.balance }
func (p *Producer) Capacity() int                { return p.capacity }
func (p *Producer) Stock() int                   { return p.stock }
func (p *Producer) Material() *goods.RawMaterial { return p.material }
func (p *Producer) SellingPrice() float64        { return p.sellingPrice }

// SetName renames the producer.
func (p *Producer) SetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: producer name cannot be empty", ErrInvalidArgument)
	}
	p.name = name
	return nil
}

// SetBalance replaces the balance directly. Edits from the presentation
// layer may set any value; the operations still reject themselves when
// funds run short.
func (p *Producer) SetBalance(balance float64) { p.balance = balance }

// SetCapacity resizes storage. It cannot shrink below the current stock.
func (p *Producer) SetCapacity(capacity int) error {
	if capacity < p.stock {
		return fmt.Errorf("%w: capacity %d below current stock %d", ErrInvalidArgument, capacity, p.stock)
	}
	p.capacity = capacity
	return nil
}

// SetSellingPrice updates the per-unit selling price.
func (p *Producer) SetSellingPrice(price float64) error {
	if price < 0 {
		return fmt.Errorf("%w: selling price cannot be negative", ErrInvalidArgument)
	}
	p.sellingPrice = price
	return nil
}

// Produce converts funds into stock: amount units at the material's
// production cost per unit. Fails without effect when funds or storage run
// short.
func (p *Producer) Produce(amount int) error {
	if amount <= 0 {
		return fmt.Errorf("%w: amount to produce must be positive, got %d", ErrInvalidArgument, amount)
	}
	cost := float64(amount) * p.material.Cost()
	if p.balance < cost {
		return fmt.Errorf("%w: producing %d units costs %.2f, balance is %.2f", ErrInsufficientFunds, amount, cost, p.balance)
	}
	if p.stock+amount > p.capacity {
		return fmt.Errorf("%w: %d units would exceed capacity %d (stock %d)", ErrInsufficientStorage, amount, p.capacity, p.stock)
	}
	p.balance -= cost
	p.stock += amount
	return nil
}

// Sell removes amount units from stock and credits the revenue. Only this
// producer's ledger changes; the buyer settles its own side separately (see
// SettleRawMaterialTrade for the atomic orchestration).
func (p *Producer) Sell(amount int) (float64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("%w: amount to sell must be positive, got %d", ErrInvalidArgument, amount)
	}
	if amount > p.stock {
		return 0, fmt.Errorf("%w: selling %d units, only %d in stock", ErrInsufficientStock, amount, p.stock)
	}
	revenue := float64(amount) * p.sellingPrice
	p.stock -= amount
	p.balance += revenue
	return revenue, nil
}

// unsell reverts a completed Sell. Used only by the trade orchestrator to
// roll back the seller side when the buyer side fails.
func (p *Producer) unsell(amount int, revenue float64) {
	p.stock += amount
	p.balance -= revenue
}

func (p *Producer) String() string {
	return fmt.Sprintf("%s (ID: %s, balance %s, %s: %d/%d @ %.2f)",
		p.name, p.id, humanize.CommafWithDigits(p.balance, 2),
		p.material.Name(), p.stock, p.capacity, p.sellingPrice)
}
