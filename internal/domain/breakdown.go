package domain

import "github.com/shopspring/decimal"

// Location is the number of winners of a tier in one region.
type Location struct {
	Region string `json:"region"`
	Total  int    `json:"total"`
}

// NumbersMatched is one match tier of a prize breakdown.
// A nil TotalWinners means the source did not disclose it; a nil PrizeFund
// means the tier has no fund.
type NumbersMatched struct {
	Match          string           `json:"match"`
	PrizePerWinner Prize            `json:"prizePerWinner"`
	TotalWinners   *int             `json:"totalWinners"`
	PrizeFund      *decimal.Decimal `json:"prizeFund"`
	Locations      []Location       `json:"locations,omitempty"`
}

type Summary struct {
	TotalWinners   int             `json:"totalWinners"`
	TotalPrizeFund decimal.Decimal `json:"totalPrizeFund"`
}

type Breakdown struct {
	Summary        Summary          `json:"summary"`
	NumbersMatched []NumbersMatched `json:"numbersMatched"`
}

type ErrorResponse struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}
