package domain

import (
	"bytes"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/shopspring/decimal"
)

func init() {
	// amounts are exchanged as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

// FreePlay marks a tier that pays a free ticket instead of cash.
const FreePlay = "Free Play"

// Prize is a per-winner prize: either a cash amount or a text label
// (FreePlay, or an annuity description). The zero value means "absent".
type Prize struct {
	Amount *decimal.Decimal
	Label  string
}

func AmountPrize(d decimal.Decimal) Prize {
	return Prize{Amount: &d}
}

func LabelPrize(label string) Prize {
	return Prize{Label: label}
}

func (p Prize) IsZero() bool {
	return p.Amount == nil && p.Label == ""
}

func (p Prize) IsFreePlay() bool {
	return p.Amount == nil && p.Label == FreePlay
}

func (p Prize) String() string {
	switch {
	case p.Amount != nil:
		return p.Amount.String()
	case p.Label != "":
		return p.Label
	default:
		return "-"
	}
}

func (p Prize) Equal(other Prize) bool {
	if (p.Amount == nil) != (other.Amount == nil) {
		return false
	}
	if p.Amount != nil && !p.Amount.Equal(*other.Amount) {
		return false
	}
	return p.Label == other.Label
}

// MarshalJSON writes amounts as bare numbers and labels as strings, so the
// two stay distinguishable when read back.
func (p Prize) MarshalJSON() ([]byte, error) {
	switch {
	case p.Amount != nil:
		return []byte(p.Amount.String()), nil
	case p.Label != "":
		return sonic.Marshal(p.Label)
	default:
		return []byte("null"), nil
	}
}

func (p *Prize) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*p = Prize{}
	case data[0] == '"':
		var label string
		if err := sonic.Unmarshal(data, &label); err != nil {
			return err
		}
		*p = LabelPrize(label)
	default:
		d, err := decimal.NewFromString(string(data))
		if err != nil {
			return fmt.Errorf("prize %s: %w", data, err)
		}
		*p = AmountPrize(d)
	}
	return nil
}
