package dailygrand

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ougirez/canlotto/internal/domain"
	"github.com/ougirez/canlotto/internal/domain/dto"
	"github.com/ougirez/canlotto/internal/pkg/constants"
	"github.com/ougirez/canlotto/internal/pkg/fetch"
	"github.com/ougirez/canlotto/internal/pkg/prize"
	"github.com/shopspring/decimal"
)

const (
	DefaultBaseURL = "https://www.playnow.com"

	archivePath = "/resources/documents/downloadable-numbers/DailyGrand.zip"
	archiveFile = "DailyGrand.csv"
	detailPath  = "/services2/lotto/draw/dgrd/"

	columnDrawDate      = "DRAW DATE"
	columnPrizeDivision = "PRIZE DIVISION"

	mainDivision  = "0"
	bonusDivision = 20

	prizeTypeAnnuity = "annuity"
)

// Source reads Daily Grand draws from the PlayNow archive and JSON detail endpoint.
type Source struct {
	client  *fetch.Client
	baseURL string
}

func NewSource(client *fetch.Client, baseURL string) *Source {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Source{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

// drawDates returns the dates of the archive's main division rows, most recent first.
func (s *Source) drawDates(ctx context.Context) ([]domain.Date, error) {
	table, err := s.client.ZipCSV(ctx, s.baseURL+archivePath, archiveFile)
	if err != nil {
		return nil, fmt.Errorf("daily grand archive: %w", err)
	}
	if !table.Has(columnDrawDate) {
		return nil, fmt.Errorf("daily grand archive has no %q column: %w", columnDrawDate, constants.ErrMalformedSource)
	}

	seen := make(map[domain.Date]struct{}, len(table.Rows))
	dates := make([]domain.Date, 0, len(table.Rows))
	for _, row := range table.Rows {
		if table.Has(columnPrizeDivision) && row.Get(columnPrizeDivision) != mainDivision {
			continue
		}

		date, err := domain.ParseDate(row.Get(columnDrawDate))
		if err != nil {
			return nil, fmt.Errorf("daily grand archive: %w: %s", constants.ErrMalformedSource, err.Error())
		}
		if _, ok := seen[date]; ok {
			continue
		}
		seen[date] = struct{}{}
		dates = append(dates, date)
	}

	sort.Slice(dates, func(i, j int) bool {
		return dates[j].Before(dates[i])
	})

	return dates, nil
}

func (s *Source) ListYears(ctx context.Context) ([]int, error) {
	dates, err := s.drawDates(ctx)
	if err != nil {
		return nil, err
	}

	years := make([]int, 0)
	for _, d := range dates {
		if len(years) == 0 || years[len(years)-1] != d.Year() {
			years = append(years, d.Year())
		}
	}
	sort.Ints(years)

	return years, nil
}

// FetchResults returns every draw of year, most recent first.
func (s *Source) FetchResults(ctx context.Context, year int) ([]domain.DailyGrandResult, error) {
	dates, err := s.drawDates(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]domain.DailyGrandResult, 0, 104)
	for _, date := range dates {
		if date.Year() != year {
			continue
		}

		result, err := s.FetchResult(ctx, date)
		if err != nil {
			return nil, err
		}
		results = append(results, *result)
	}

	return results, nil
}

func (s *Source) FetchResult(ctx context.Context, date domain.Date) (*domain.DailyGrandResult, error) {
	draw, err := s.detail(ctx, date)
	if err != nil {
		return nil, err
	}
	if len(draw.DrawNbrs) == 0 {
		return nil, fmt.Errorf("daily grand numbers %s: %w", date, constants.ErrNotFound)
	}

	return buildResult(date, draw), nil
}

func (s *Source) FetchBreakdown(ctx context.Context, date domain.Date) (*domain.DailyGrandBreakdown, error) {
	draw, err := s.detail(ctx, date)
	if err != nil {
		return nil, err
	}
	if len(draw.GameBreakdown) == 0 {
		return nil, fmt.Errorf("daily grand breakdown %s: %w", date, constants.ErrNotFound)
	}

	return buildBreakdown(draw), nil
}

func (s *Source) detail(ctx context.Context, date domain.Date) (*dto.DailyGrandDraw, error) {
	draw := new(dto.DailyGrandDraw)
	if err := s.client.JSON(ctx, s.baseURL+detailPath+date.String(), draw); err != nil {
		return nil, fmt.Errorf("daily grand draw %s: %w", date, err)
	}
	return draw, nil
}

func buildResult(date domain.Date, draw *dto.DailyGrandDraw) *domain.DailyGrandResult {
	result := &domain.DailyGrandResult{
		Date:        date,
		Numbers:     draw.DrawNbrs,
		GrandNumber: draw.BonusNbr,
	}

	if len(draw.GameBreakdown) > 0 {
		jackpot := draw.GameBreakdown[0].PrizeAmount
		result.Prize = &jackpot
	}

	details := prize.Unique(draw.BonusDrawDetails, func(d dto.DailyGrandBonusDetail) int { return d.SeqNbr })
	for _, d := range details {
		result.BonusesDraw = append(result.BonusesDraw, domain.BonusDraw{
			Numbers: d.DrawNbrs,
			Prize:   d.PrizeAmount,
		})
	}

	return result
}

// buildBreakdown splits the divisions into the main breakdown, unique by
// tier label, and the bonus draw breakdown, unique by sequence number.
func buildBreakdown(draw *dto.DailyGrandDraw) *domain.DailyGrandBreakdown {
	primary := make([]dto.DailyGrandDivision, 0, len(draw.GameBreakdown))
	bonus := make([]dto.DailyGrandDivision, 0)
	for _, d := range draw.GameBreakdown {
		if d.PrizeDiv == bonusDivision {
			bonus = append(bonus, d)
		} else {
			primary = append(primary, d)
		}
	}

	primary = prize.Unique(primary, func(d dto.DailyGrandDivision) string { return d.Abbrev })
	breakdown := &domain.DailyGrandBreakdown{MainBreakdown: tiersBreakdown(primary)}

	if len(bonus) > 0 {
		bonus = prize.Unique(bonus, func(d dto.DailyGrandDivision) int { return d.SeqNbr })
		b := tiersBreakdown(bonus)
		breakdown.BonusesBreakdown = &b
	}

	return breakdown
}

func tiersBreakdown(divisions []dto.DailyGrandDivision) domain.Breakdown {
	tiers := make([]domain.NumbersMatched, 0, len(divisions))
	for _, d := range divisions {
		winners := d.WinnersTotal
		perWinner, fund := divisionPrize(d)
		tiers = append(tiers, domain.NumbersMatched{
			Match:          d.Abbrev,
			PrizePerWinner: perWinner,
			TotalWinners:   &winners,
			PrizeFund:      fund,
		})
	}

	return domain.Breakdown{
		Summary:        prize.Summarize(tiers),
		NumbersMatched: tiers,
	}
}

// divisionPrize resolves the per-winner prize and the fund of one division.
// An annuity shared by several winners is split between them while the fund
// stays the full amount.
func divisionPrize(d dto.DailyGrandDivision) (domain.Prize, *decimal.Decimal) {
	annuity := d.PrizeType == prizeTypeAnnuity
	amount := d.PrizeAmount

	var perWinner domain.Prize
	switch {
	case d.PrizeType == "":
		return domain.LabelPrize(domain.FreePlay), nil
	case annuity && d.WinnersTotal > 1:
		perWinner = domain.AmountPrize(amount.Div(decimal.NewFromInt(int64(d.WinnersTotal))).Round(prize.Places))
	case annuity && d.AnnuityDetails != nil:
		perWinner = domain.LabelPrize(prize.AnnuityDescription(
			d.AnnuityDetails.AnnuityAmount,
			string(d.AnnuityDetails.AnnuityFrequency),
			string(d.AnnuityDetails.AnnuityDuration),
			amount,
		))
	default:
		perWinner = domain.AmountPrize(amount)
	}

	var fund decimal.Decimal
	if annuity && d.WinnersTotal >= 1 {
		fund = amount
	} else {
		fund = amount.Mul(decimal.NewFromInt(int64(d.WinnersTotal)))
	}

	return perWinner, &fund
}
