package economy

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

// Trade is the receipt for one settled exchange: who paid whom, for what,
// how much, and at what price. Receipts are what the journal records;
// entities never hold them.
type Trade struct {
	ID        uuid.UUID
	BuyerID   string
	SellerID  string
	Item      string
	Amount    int
	UnitPrice float64
	Total     float64
	When      time.Time
}

func newTrade(buyerID, sellerID, item string, amount int, unitPrice float64) Trade {
	return Trade{
		ID:        uuid.New(),
		BuyerID:   buyerID,
		SellerID:  sellerID,
		Item:      item,
		Amount:    amount,
		UnitPrice: unitPrice,
		Total:     float64(amount) * unitPrice,
		When:      time.Now(),
	}
}

func (t Trade) String() string {
	return fmt.Sprintf("%s: %s -> %s, %d %s @ %.2f (total %s)",
		t.ID, t.SellerID, t.BuyerID, t.Amount, t.Item, t.UnitPrice,
		humanize.CommafWithDigits(t.Total, 2))
}

// SettleRawMaterialTrade moves amount units of the producer's material into
// the factory's raw-material ledger at the producer's selling price, paying
// the producer from the factory's balance. Producer.Sell and
// Factory.BuyRawMaterial are independent single-sided calls; this
// orchestrator makes the pair atomic by rolling the seller back when the
// buyer side fails.
func SettleRawMaterialTrade(buyer *Factory, seller *Producer, amount int) (Trade, error) {
	if buyer == nil || seller == nil {
		return Trade{}, fmt.Errorf("%w: buyer and seller cannot be nil", ErrInvalidArgument)
	}
	if amount <= 0 {
		return Trade{}, fmt.Errorf("%w: amount to trade must be positive, got %d", ErrInvalidArgument, amount)
	}
	price := seller.SellingPrice()
	revenue, err := seller.Sell(amount)
	if err != nil {
		return Trade{}, err
	}
	if err := buyer.BuyRawMaterial(seller.Material().Name(), amount, price); err != nil {
		seller.unsell(amount, revenue)
		return Trade{}, err
	}
	return newTrade(buyer.EntityID(), seller.EntityID(), seller.Material().Name(), amount, price), nil
}
