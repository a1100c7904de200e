package dto

import (
	"bytes"

	"github.com/bytedance/sonic"
	"github.com/shopspring/decimal"
)

// DailyGrandDraw is the detail payload of /services2/lotto/draw/dgrd/<date>.
type DailyGrandDraw struct {
	DrawNbrs         []int                   `json:"drawNbrs"`
	BonusNbr         int                     `json:"bonusNbr"`
	GameBreakdown    []DailyGrandDivision    `json:"gameBreakdown"`
	BonusDrawDetails []DailyGrandBonusDetail `json:"bonusDrawDetails"`
}

type DailyGrandDivision struct {
	PrizeDiv       int             `json:"prizeDiv"`
	SeqNbr         int             `json:"seqNbr"`
	Abbrev         string          `json:"abbrev"`
	WinnersTotal   int             `json:"winnersTotal"`
	PrizeType      string          `json:"prizeType"`
	PrizeAmount    decimal.Decimal `json:"prizeAmount"`
	AnnuityDetails *AnnuityDetails `json:"annuityDetails"`
}

type AnnuityDetails struct {
	AnnuityAmount    decimal.Decimal `json:"annuityAmount"`
	AnnuityFrequency Text            `json:"annuityFrequency"`
	AnnuityDuration  Text            `json:"annuityDuration"`
}

type DailyGrandBonusDetail struct {
	SeqNbr      int              `json:"seqNbr"`
	DrawNbrs    []int            `json:"drawNbrs"`
	PrizeAmount *decimal.Decimal `json:"prizeAmount"`
}

// Text accepts either a JSON string or a bare number.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := sonic.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	*t = Text(data)
	return nil
}
