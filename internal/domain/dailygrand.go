package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type BonusDraw struct {
	Numbers []int            `json:"numbers"`
	Prize   *decimal.Decimal `json:"prize"`
}

type DailyGrandResult struct {
	Date        Date             `json:"date"`
	Numbers     []int            `json:"numbers"`
	GrandNumber int              `json:"grandNumber"`
	Prize       *decimal.Decimal `json:"prize"`
	BonusesDraw []BonusDraw      `json:"bonusesDraw"`
}

type DailyGrandBreakdown struct {
	MainBreakdown    Breakdown  `json:"mainBreakdown"`
	BonusesBreakdown *Breakdown `json:"bonusesBreakdown"`
}

// DailyGrandRecord is a row of daily_grand_draw_results.
type DailyGrandRecord struct {
	Date           time.Time `db:"date"`
	GameID         int32     `db:"game_id"`
	Numbers        []int32   `db:"numbers"`
	GrandNumber    int32     `db:"grand_number"`
	BonusesDraw    []byte    `db:"bonuses_draw"`
	Prize          *string   `db:"prize"`
	MainBreakdown  []byte    `db:"main_breakdown"`
	BonusBreakdown []byte    `db:"bonus_breakdown"`
}
