// Package prize holds the numeric rules shared by every game parser: cell
// cleaning, tier summaries and annuity descriptions.
package prize

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ougirez/canlotto/internal/domain"
	"github.com/ougirez/canlotto/internal/pkg/constants"
	"github.com/shopspring/decimal"
)

// Places is the rounding applied to every aggregated prize fund.
const Places = 2

const absent = "-"

var cellReplacer = strings.NewReplacer("\n", "", "\r", "", "\t", "", ",", "", " ", "")

// Clean normalizes a numeric cell. ok is false when the cell holds no value
// ("-" or nothing left after cleaning); absent is never reported as zero.
func Clean(s string) (cleaned string, ok bool) {
	cleaned = cellReplacer.Replace(strings.TrimSpace(s))
	cleaned = strings.TrimLeft(cleaned, "$€£ ")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" || cleaned == absent {
		return "", false
	}
	return cleaned, true
}

// ParseAmount reads a currency cell. Absent cells give nil.
func ParseAmount(s string) (*decimal.Decimal, error) {
	cleaned, ok := Clean(s)
	if !ok {
		return nil, nil
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return nil, fmt.Errorf("amount %q: %w", s, constants.ErrMalformedSource)
	}
	return &d, nil
}

// ParseCount reads a winner count cell. Absent cells give nil.
func ParseCount(s string) (*int, error) {
	cleaned, ok := Clean(s)
	if !ok {
		return nil, nil
	}

	n, err := strconv.Atoi(strings.ReplaceAll(cleaned, " ", ""))
	if err != nil || n < 0 {
		return nil, fmt.Errorf("count %q: %w", s, constants.ErrMalformedSource)
	}
	return &n, nil
}

// ParseLooseAmount keeps only digits and the decimal point of s, for cells
// that mix an amount with free text. Cells with no digits give nil.
func ParseLooseAmount(s string) (*decimal.Decimal, error) {
	kept := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, s)
	kept = strings.Trim(kept, ".")
	if kept == "" {
		return nil, nil
	}
	return ParseAmount(kept)
}

// ParseLooseCount keeps only the digits of s. Cells with no digits give nil.
func ParseLooseCount(s string) (*int, error) {
	kept := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
	return ParseCount(kept)
}

// SumWinners adds every disclosed tier winner count.
func SumWinners(tiers []domain.NumbersMatched) int {
	total := 0
	for _, t := range tiers {
		if t.TotalWinners != nil {
			total += *t.TotalWinners
		}
	}
	return total
}

// SumPrizeFund adds every non-null tier fund, rounded to Places.
func SumPrizeFund(tiers []domain.NumbersMatched) decimal.Decimal {
	total := decimal.Zero
	for _, t := range tiers {
		if t.PrizeFund != nil {
			total = total.Add(*t.PrizeFund)
		}
	}
	return total.Round(Places)
}

func Summarize(tiers []domain.NumbersMatched) domain.Summary {
	return domain.Summary{
		TotalWinners:   SumWinners(tiers),
		TotalPrizeFund: SumPrizeFund(tiers),
	}
}

// Unique keeps the first item for every key, preserving order.
func Unique[T any, K comparable](items []T, key func(T) K) []T {
	seen := make(map[K]struct{}, len(items))
	res := make([]T, 0, len(items))
	for _, item := range items {
		k := key(item)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		res = append(res, item)
	}
	return res
}

// UniqueTiers drops repeated match labels.
func UniqueTiers(tiers []domain.NumbersMatched) []domain.NumbersMatched {
	return Unique(tiers, func(t domain.NumbersMatched) string { return t.Match })
}

// AnnuityDescription renders an annuity schedule with its lump-sum alternative.
func AnnuityDescription(amount decimal.Decimal, frequency, duration string, lumpSum decimal.Decimal) string {
	return fmt.Sprintf("$%s a %s for %s or lump sum of $%s", amount.String(), frequency, duration, lumpSum.String())
}
