package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Classic struct {
	Numbers []int            `json:"numbers"`
	Bonus   int              `json:"bonus"`
	Prize   *decimal.Decimal `json:"prize"`
}

// Guaranteed is one guaranteed-prize amount with every winning ticket number for it.
type Guaranteed struct {
	Numbers []string        `json:"numbers"`
	Prize   decimal.Decimal `json:"prize"`
}

type GoldBall struct {
	Number          string          `json:"number"`
	Prize           decimal.Decimal `json:"prize"`
	IsGoldBallDrawn bool            `json:"isGoldBallDrawn"`
}

type SixFortyNineResult struct {
	Date       Date         `json:"date"`
	Classic    Classic      `json:"classic"`
	Guaranteed []Guaranteed `json:"guaranteed"`
	GoldBall   *GoldBall    `json:"goldBall"`
}

// SixFortyNineRecord is a row of six_forty_nine_draw_results.
type SixFortyNineRecord struct {
	Date           time.Time `db:"date"`
	GameID         int32     `db:"game_id"`
	Classic        []byte    `db:"classic"`
	Guaranteed     []byte    `db:"guaranteed"`
	GoldBall       []byte    `db:"gold_ball"`
	Summary        []byte    `db:"summary"`
	NumbersMatched []byte    `db:"numbers_matched"`
}
