package sixfortynine

import (
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/ougirez/canlotto/internal/domain"
	"github.com/ougirez/canlotto/internal/pkg/notify"
)

func Serialize(result *domain.SixFortyNineResult, breakdown *domain.Breakdown) (*domain.SixFortyNineRecord, error) {
	record := &domain.SixFortyNineRecord{
		Date:   result.Date.Time,
		GameID: domain.GameSixFortyNine.ID(),
	}

	var err error
	if record.Classic, err = sonic.Marshal(result.Classic); err != nil {
		return nil, fmt.Errorf("marshal classic: %w", err)
	}
	if len(result.Guaranteed) > 0 {
		if record.Guaranteed, err = sonic.Marshal(result.Guaranteed); err != nil {
			return nil, fmt.Errorf("marshal guaranteed: %w", err)
		}
	}
	if result.GoldBall != nil {
		if record.GoldBall, err = sonic.Marshal(result.GoldBall); err != nil {
			return nil, fmt.Errorf("marshal gold ball: %w", err)
		}
	}
	if record.Summary, err = sonic.Marshal(breakdown.Summary); err != nil {
		return nil, fmt.Errorf("marshal summary: %w", err)
	}
	if record.NumbersMatched, err = sonic.Marshal(breakdown.NumbersMatched); err != nil {
		return nil, fmt.Errorf("marshal numbers matched: %w", err)
	}

	return record, nil
}

func DeserializeResult(record *domain.SixFortyNineRecord) (*domain.SixFortyNineResult, error) {
	result := &domain.SixFortyNineResult{Date: domain.DateOf(record.Date)}

	if err := sonic.Unmarshal(record.Classic, &result.Classic); err != nil {
		return nil, fmt.Errorf("unmarshal classic: %w", err)
	}
	if len(record.Guaranteed) > 0 {
		if err := sonic.Unmarshal(record.Guaranteed, &result.Guaranteed); err != nil {
			return nil, fmt.Errorf("unmarshal guaranteed: %w", err)
		}
	}
	if len(record.GoldBall) > 0 {
		result.GoldBall = new(domain.GoldBall)
		if err := sonic.Unmarshal(record.GoldBall, result.GoldBall); err != nil {
			return nil, fmt.Errorf("unmarshal gold ball: %w", err)
		}
	}

	return result, nil
}

func DeserializeResults(records []*domain.SixFortyNineRecord) ([]domain.SixFortyNineResult, error) {
	results := make([]domain.SixFortyNineResult, 0, len(records))
	for _, r := range records {
		result, err := DeserializeResult(r)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", r.Date.Format(domain.DateLayout), err)
		}
		results = append(results, *result)
	}
	return results, nil
}

func DeserializeBreakdown(record *domain.SixFortyNineRecord) (*domain.Breakdown, error) {
	breakdown := new(domain.Breakdown)
	if err := sonic.Unmarshal(record.Summary, &breakdown.Summary); err != nil {
		return nil, fmt.Errorf("unmarshal summary: %w", err)
	}
	if err := sonic.Unmarshal(record.NumbersMatched, &breakdown.NumbersMatched); err != nil {
		return nil, fmt.Errorf("unmarshal numbers matched: %w", err)
	}
	return breakdown, nil
}

func Render(result *domain.SixFortyNineResult, breakdown *domain.Breakdown) string {
	return notify.Section(domain.GameSixFortyNine.Title()+" numbers", result) +
		notify.Section("Prize breakdown", breakdown)
}
