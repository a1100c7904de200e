package dailygrand

import (
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/ougirez/canlotto/internal/domain"
	"github.com/ougirez/canlotto/internal/pkg/notify"
	"github.com/ougirez/canlotto/internal/pkg/utils"
)

func Serialize(result *domain.DailyGrandResult, breakdown *domain.DailyGrandBreakdown) (*domain.DailyGrandRecord, error) {
	record := &domain.DailyGrandRecord{
		Date:        result.Date.Time,
		GameID:      domain.GameDailyGrand.ID(),
		Numbers:     utils.Int32s(result.Numbers),
		GrandNumber: int32(result.GrandNumber),
		Prize:       utils.DecimalString(result.Prize),
	}

	var err error
	if len(result.BonusesDraw) > 0 {
		if record.BonusesDraw, err = sonic.Marshal(result.BonusesDraw); err != nil {
			return nil, fmt.Errorf("marshal bonuses draw: %w", err)
		}
	}
	if record.MainBreakdown, err = sonic.Marshal(breakdown.MainBreakdown); err != nil {
		return nil, fmt.Errorf("marshal main breakdown: %w", err)
	}
	if breakdown.BonusesBreakdown != nil {
		if record.BonusBreakdown, err = sonic.Marshal(breakdown.BonusesBreakdown); err != nil {
			return nil, fmt.Errorf("marshal bonus breakdown: %w", err)
		}
	}

	return record, nil
}

func DeserializeResult(record *domain.DailyGrandRecord) (*domain.DailyGrandResult, error) {
	result := &domain.DailyGrandResult{
		Date:        domain.DateOf(record.Date),
		Numbers:     utils.Ints(record.Numbers),
		GrandNumber: int(record.GrandNumber),
		Prize:       utils.ParseDecimal(record.Prize),
	}

	if len(record.BonusesDraw) > 0 {
		if err := sonic.Unmarshal(record.BonusesDraw, &result.BonusesDraw); err != nil {
			return nil, fmt.Errorf("unmarshal bonuses draw: %w", err)
		}
	}

	return result, nil
}

func DeserializeResults(records []*domain.DailyGrandRecord) ([]domain.DailyGrandResult, error) {
	results := make([]domain.DailyGrandResult, 0, len(records))
	for _, r := range records {
		result, err := DeserializeResult(r)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", r.Date.Format(domain.DateLayout), err)
		}
		results = append(results, *result)
	}
	return results, nil
}

func DeserializeBreakdown(record *domain.DailyGrandRecord) (*domain.DailyGrandBreakdown, error) {
	breakdown := new(domain.DailyGrandBreakdown)
	if err := sonic.Unmarshal(record.MainBreakdown, &breakdown.MainBreakdown); err != nil {
		return nil, fmt.Errorf("unmarshal main breakdown: %w", err)
	}

	if len(record.BonusBreakdown) > 0 {
		breakdown.BonusesBreakdown = new(domain.Breakdown)
		if err := sonic.Unmarshal(record.BonusBreakdown, breakdown.BonusesBreakdown); err != nil {
			return nil, fmt.Errorf("unmarshal bonus breakdown: %w", err)
		}
	}

	return breakdown, nil
}

func Render(result *domain.DailyGrandResult, breakdown *domain.DailyGrandBreakdown) string {
	return notify.Section(domain.GameDailyGrand.Title()+" numbers", result) +
		notify.Section("Prize breakdown", breakdown)
}
