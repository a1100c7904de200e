package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type LottoMaxResult struct {
	Date    Date             `json:"date"`
	Numbers []int            `json:"numbers"`
	Bonus   int              `json:"bonus"`
	Prize   *decimal.Decimal `json:"prize"`
}

type LottoMaxSummary struct {
	TicketSold                  *int64           `json:"ticketSold"`
	TotalSales                  *decimal.Decimal `json:"totalSale"`
	TotalWinners                int              `json:"totalWinners"`
	TotalPrizeFund              decimal.Decimal  `json:"totalPrizeFund"`
	WinningRatio                *decimal.Decimal `json:"winningRatio"`
	SalesDifferencePreviousDraw string           `json:"saleDifferencePreviousDraw"`
}

type LottoMaxBreakdown struct {
	Summary        LottoMaxSummary             `json:"summary"`
	NumbersMatched []NumbersMatched            `json:"numbersMatched"`
	Regions        map[Region][]NumbersMatched `json:"regions,omitempty"`
}

// LottoMaxRecord is a row of lotto_max_draw_results.
type LottoMaxRecord struct {
	Date                          time.Time `db:"date"`
	GameID                        int32     `db:"game_id"`
	Numbers                       []int32   `db:"numbers"`
	Bonus                         int32     `db:"bonus"`
	Prize                         *string   `db:"prize"`
	Summary                       []byte    `db:"summary"`
	NumbersMatched                []byte    `db:"numbers_matched"`
	NumbersMatchedAtlantic        []byte    `db:"numbers_matched_atlantic"`
	NumbersMatchedBritishColumbia []byte    `db:"numbers_matched_british_columbia"`
	NumbersMatchedOntario         []byte    `db:"numbers_matched_ontario"`
	NumbersMatchedQuebec          []byte    `db:"numbers_matched_quebec"`
	NumbersMatchedWesternCanada   []byte    `db:"numbers_matched_western_canada"`
}

// RegionColumn returns the stored tier list of one region.
func (r *LottoMaxRecord) RegionColumn(region Region) []byte {
	switch region {
	case RegionAtlantic:
		return r.NumbersMatchedAtlantic
	case RegionBritishColumbia:
		return r.NumbersMatchedBritishColumbia
	case RegionOntario:
		return r.NumbersMatchedOntario
	case RegionQuebec:
		return r.NumbersMatchedQuebec
	case RegionWesternCanada:
		return r.NumbersMatchedWesternCanada
	}
	return nil
}
