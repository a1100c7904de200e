package lottomax

import (
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/ougirez/canlotto/internal/domain"
	"github.com/ougirez/canlotto/internal/pkg/notify"
	"github.com/ougirez/canlotto/internal/pkg/utils"
)

// Serialize shapes a draw and its breakdown into a lotto_max_draw_results row.
func Serialize(result *domain.LottoMaxResult, breakdown *domain.LottoMaxBreakdown) (*domain.LottoMaxRecord, error) {
	record := &domain.LottoMaxRecord{
		Date:    result.Date.Time,
		GameID:  domain.GameLottoMax.ID(),
		Numbers: utils.Int32s(result.Numbers),
		Bonus:   int32(result.Bonus),
		Prize:   utils.DecimalString(result.Prize),
	}

	var err error
	if record.Summary, err = sonic.Marshal(breakdown.Summary); err != nil {
		return nil, fmt.Errorf("marshal summary: %w", err)
	}
	if record.NumbersMatched, err = marshalTiers(breakdown.NumbersMatched); err != nil {
		return nil, err
	}

	columns := map[domain.Region]*[]byte{
		domain.RegionAtlantic:        &record.NumbersMatchedAtlantic,
		domain.RegionBritishColumbia: &record.NumbersMatchedBritishColumbia,
		domain.RegionOntario:         &record.NumbersMatchedOntario,
		domain.RegionQuebec:          &record.NumbersMatchedQuebec,
		domain.RegionWesternCanada:   &record.NumbersMatchedWesternCanada,
	}
	for region, column := range columns {
		if *column, err = marshalTiers(breakdown.Regions[region]); err != nil {
			return nil, fmt.Errorf("%s: %w", region, err)
		}
	}

	return record, nil
}

func DeserializeResult(record *domain.LottoMaxRecord) *domain.LottoMaxResult {
	return &domain.LottoMaxResult{
		Date:    domain.DateOf(record.Date),
		Numbers: utils.Ints(record.Numbers),
		Bonus:   int(record.Bonus),
		Prize:   utils.ParseDecimal(record.Prize),
	}
}

// DeserializeResults keeps the order of records, which the store returns most recent first.
func DeserializeResults(records []*domain.LottoMaxRecord) []domain.LottoMaxResult {
	results := make([]domain.LottoMaxResult, 0, len(records))
	for _, r := range records {
		results = append(results, *DeserializeResult(r))
	}
	return results
}

func DeserializeBreakdown(record *domain.LottoMaxRecord) (*domain.LottoMaxBreakdown, error) {
	breakdown := &domain.LottoMaxBreakdown{
		Regions: make(map[domain.Region][]domain.NumbersMatched, len(regionBoxes)),
	}

	if err := sonic.Unmarshal(record.Summary, &breakdown.Summary); err != nil {
		return nil, fmt.Errorf("unmarshal summary: %w", err)
	}

	var err error
	if breakdown.NumbersMatched, err = unmarshalTiers(record.NumbersMatched); err != nil {
		return nil, err
	}

	for _, region := range domain.Regions() {
		if breakdown.Regions[region], err = unmarshalTiers(record.RegionColumn(region)); err != nil {
			return nil, fmt.Errorf("%s: %w", region, err)
		}
	}

	return breakdown, nil
}

func DeserializeRegion(record *domain.LottoMaxRecord, region domain.Region) ([]domain.NumbersMatched, error) {
	return unmarshalTiers(record.RegionColumn(region))
}

// Render builds the notification body of a stored draw.
func Render(result *domain.LottoMaxResult, breakdown *domain.LottoMaxBreakdown) string {
	return notify.Section(domain.GameLottoMax.Title()+" numbers", result) +
		notify.Section("Prize breakdown", breakdown)
}

func marshalTiers(tiers []domain.NumbersMatched) ([]byte, error) {
	if tiers == nil {
		tiers = []domain.NumbersMatched{}
	}
	b, err := sonic.Marshal(tiers)
	if err != nil {
		return nil, fmt.Errorf("marshal tiers: %w", err)
	}
	return b, nil
}

func unmarshalTiers(b []byte) ([]domain.NumbersMatched, error) {
	tiers := make([]domain.NumbersMatched, 0)
	if len(b) == 0 {
		return tiers, nil
	}
	if err := sonic.Unmarshal(b, &tiers); err != nil {
		return nil, fmt.Errorf("unmarshal tiers: %w", err)
	}
	return tiers, nil
}
