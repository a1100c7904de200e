package sixfortynine

import (
	"strings"
	"testing"
	"time"

	"github.com/ougirez/canlotto/internal/domain"
	"github.com/shopspring/decimal"
)

func intPtr(n int) *int { return &n }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func sampleDraw() (*domain.SixFortyNineResult, *domain.Breakdown) {
	result := &domain.SixFortyNineResult{
		Date: domain.NewDate(2024, time.April, 10),
		Classic: domain.Classic{
			Numbers: []int{3, 14, 22, 30, 41, 45},
			Bonus:   7,
			Prize:   decPtr("5000000"),
		},
		Guaranteed: []domain.Guaranteed{
			{Numbers: []string{"12345678-01", "87654321-02"}, Prize: decimal.NewFromInt(1000000)},
		},
		GoldBall: &domain.GoldBall{Number: "22222222-04", Prize: decimal.NewFromInt(16000000)},
	}

	tiers := []domain.NumbersMatched{
		{Match: "Match 6", PrizePerWinner: domain.AmountPrize(decimal.NewFromInt(5000000)), TotalWinners: intPtr(0), PrizeFund: decPtr("0")},
		{Match: "Match 5 + Bonus", PrizePerWinner: domain.AmountPrize(decimal.NewFromInt(150000)), TotalWinners: intPtr(2), PrizeFund: decPtr("300000")},
		{Match: "Match 2", PrizePerWinner: domain.LabelPrize(domain.FreePlay), TotalWinners: intPtr(10000)},
	}
	breakdown := &domain.Breakdown{
		Summary:        domain.Summary{TotalWinners: 10002, TotalPrizeFund: decimal.NewFromInt(300000)},
		NumbersMatched: tiers,
	}
	return result, breakdown
}

func TestSerializeRoundTrip(t *testing.T) {
	result, breakdown := sampleDraw()

	record, err := Serialize(result, breakdown)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if record.GameID != domain.GameSixFortyNine.ID() {
		t.Errorf("GameID = %d, want %d", record.GameID, domain.GameSixFortyNine.ID())
	}

	got, err := DeserializeResult(record)
	if err != nil {
		t.Fatalf("DeserializeResult: %v", err)
	}
	if got.Date != result.Date || got.Classic.Bonus != 7 || !got.Classic.Prize.Equal(*result.Classic.Prize) {
		t.Errorf("result = %+v, want %+v", got, result)
	}
	if len(got.Guaranteed) != 1 || len(got.Guaranteed[0].Numbers) != 2 || !got.Guaranteed[0].Prize.Equal(decimal.NewFromInt(1000000)) {
		t.Errorf("Guaranteed = %+v", got.Guaranteed)
	}
	if got.GoldBall == nil || got.GoldBall.Number != "22222222-04" || got.GoldBall.IsGoldBallDrawn {
		t.Errorf("GoldBall = %+v", got.GoldBall)
	}

	b, err := DeserializeBreakdown(record)
	if err != nil {
		t.Fatalf("DeserializeBreakdown: %v", err)
	}
	if len(b.NumbersMatched) != 3 || b.Summary.TotalWinners != 10002 {
		t.Fatalf("breakdown = %+v", b)
	}
	if !b.NumbersMatched[2].PrizePerWinner.IsFreePlay() || b.NumbersMatched[2].PrizeFund != nil {
		t.Errorf("Match 2 = %+v, want Free Play with no fund", b.NumbersMatched[2])
	}
}

func TestSerializeWithoutSecondaryDraws(t *testing.T) {
	result, breakdown := sampleDraw()
	result.Guaranteed = nil
	result.GoldBall = nil
	result.Classic.Prize = nil

	record, err := Serialize(result, breakdown)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if record.Guaranteed != nil || record.GoldBall != nil {
		t.Errorf("secondary columns = %s, %s, want NULL", record.Guaranteed, record.GoldBall)
	}

	got, err := DeserializeResult(record)
	if err != nil {
		t.Fatalf("DeserializeResult: %v", err)
	}
	if got.Guaranteed != nil || got.GoldBall != nil || got.Classic.Prize != nil {
		t.Errorf("result = %+v, want no secondary draws and no jackpot", got)
	}
}

func TestRender(t *testing.T) {
	body := Render(sampleDraw())

	for _, want := range []string{"<b>Lotto 6/49 numbers</b>", `"goldBall"`, `"Free Play"`} {
		if !strings.Contains(body, want) {
			t.Errorf("body is missing %s:\n%s", want, body)
		}
	}
}
