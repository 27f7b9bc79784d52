package booking

import (
	"github.com/shopspring/decimal"

	"github.com/bde-apps/event-booking-api/internal/models"
)

// Options are the price-affecting flags and slot selections of a
// reservation.
type Options struct {
	Member         bool
	Driver         bool
	Drink          bool
	OutboundSlotID *uint
	ReturnSlotID   *uint
}

// ComputePrice derives the reservation price from the event's pricing
// and the selected options. The designated-driver rate is flat and
// overrides everything else; otherwise members get the discount off the
// base price. The result is never negative.
//
// TODO: add the drink surcharge once the organization settles on a price.
func ComputePrice(ev models.Event, opts Options) decimal.Decimal {
	if opts.Driver {
		return ev.DriverPrice
	}
	price := ev.BasePrice
	if opts.Member {
		price = price.Sub(ev.MemberDiscount)
	}
	if price.IsNegative() {
		return decimal.Zero
	}
	return price
}
