package discovery

import (
	"math"
	"regexp"
	"strconv"

	"event-discovery/internal/domain"
)

// PriceKind tags how a display price was understood.
type PriceKind int

const (
	// PriceUnknown is a label with no digits that is not the free label.
	PriceUnknown PriceKind = iota
	PriceFree
	PriceAmount
)

// Price is the comparable form of an event's display price.
type Price struct {
	Kind   PriceKind
	Amount int
}

var leadingNumber = regexp.MustCompile(`[0-9]+`)

// ParsePrice extracts the first embedded integer from a label such as "¥199起".
// Only the exact free label is Free.
func ParsePrice(label string) Price {
	if label == domain.FreePriceLabel {
		return Price{Kind: PriceFree}
	}
	digits := leadingNumber.FindString(label)
	if digits == "" {
		return Price{Kind: PriceUnknown}
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		// only overflow reaches here
		n = math.MaxInt
	}
	return Price{Kind: PriceAmount, Amount: n}
}

func (p Price) IsFree() bool {
	return p.Kind == PriceFree
}

// Value is the number used for sorting. Free and unknown prices sort as 0.
func (p Price) Value() int {
	if p.Kind == PriceAmount {
		return p.Amount
	}
	return 0
}

// PriceRange is an inclusive bound on the derived price.
type PriceRange struct {
	Min int
	Max int
}

// Admits applies the range to one price. A free event only passes when the
// range starts at exactly zero; a label without digits always passes.
func (r PriceRange) Admits(p Price) bool {
	switch p.Kind {
	case PriceFree:
		return r.Min == 0
	case PriceAmount:
		return p.Amount >= r.Min && p.Amount <= r.Max
	default:
		return true
	}
}
