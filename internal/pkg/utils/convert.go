package utils

import "github.com/shopspring/decimal"

func Int32s(numbers []int) []int32 {
	res := make([]int32, 0, len(numbers))
	for _, n := range numbers {
		res = append(res, int32(n))
	}
	return res
}

func Ints(numbers []int32) []int {
	res := make([]int, 0, len(numbers))
	for _, n := range numbers {
		res = append(res, int(n))
	}
	return res
}

// DecimalString is the text bound to a numeric column; nil stays NULL.
func DecimalString(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

// ParseDecimal reads a numeric column selected as text. NULL and garbage give nil.
func ParseDecimal(s *string) *decimal.Decimal {
	if s == nil {
		return nil
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		return nil
	}
	return &d
}
