package booking

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/bde-apps/event-booking-api/internal/models"
)

func TestComputePrice(t *testing.T) {
	ev := models.Event{
		BasePrice:      decimal.NewFromInt(20),
		DriverPrice:    decimal.NewFromInt(5),
		MemberDiscount: decimal.NewFromInt(5),
	}

	tests := []struct {
		name string
		ev   models.Event
		opts Options
		want decimal.Decimal
	}{
		{"non-member", ev, Options{}, decimal.NewFromInt(20)},
		{"member", ev, Options{Member: true}, decimal.NewFromInt(15)},
		{"driver", ev, Options{Driver: true}, decimal.NewFromInt(5)},
		{"driver flat rate ignores membership", ev, Options{Member: true, Driver: true}, decimal.NewFromInt(5)},
		{"drink has no surcharge yet", ev, Options{Member: true, Drink: true}, decimal.NewFromInt(15)},
		{
			"free driver seat stays free for members",
			models.Event{
				BasePrice:      decimal.NewFromInt(20),
				DriverPrice:    decimal.Zero,
				MemberDiscount: decimal.NewFromInt(5),
			},
			Options{Member: true, Driver: true},
			decimal.Zero,
		},
		{
			"discount larger than base floors at zero",
			models.Event{
				BasePrice:      decimal.NewFromInt(3),
				MemberDiscount: decimal.NewFromInt(5),
			},
			Options{Member: true},
			decimal.Zero,
		},
		{
			"cents survive the discount",
			models.Event{
				BasePrice:      decimal.RequireFromString("12.50"),
				MemberDiscount: decimal.RequireFromString("2.25"),
			},
			Options{Member: true},
			decimal.RequireFromString("10.25"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputePrice(tt.ev, tt.opts)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}
