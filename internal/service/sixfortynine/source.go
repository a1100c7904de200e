package sixfortynine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ougirez/canlotto/internal/domain"
	"github.com/ougirez/canlotto/internal/pkg/constants"
	"github.com/ougirez/canlotto/internal/pkg/fetch"
	"github.com/ougirez/canlotto/internal/pkg/prize"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultSiteURL    = "https://ca.lottonumbers.com"
	DefaultArchiveURL = "https://www.playnow.com"

	classicArchivePath = "/resources/documents/downloadable-numbers/649.zip"
	classicFile        = "649.csv"
	prizesArchivePath  = "/resources/documents/downloadable-numbers/649GPs.zip"
	prizesFile         = "649GPs.csv"

	columnDrawDate    = "DRAW DATE"
	columnBonusNumber = "BONUS NUMBER"
	columnPrizeWon    = "PRIZE WON"
	columnNumberDrawn = "NUMBER DRAWN"
	columnBallDrawn   = "BALL DRAWN"

	ballNotApplicable = "Not Applicable"
	ballGold          = "Gold"

	tierMatchTwo      = "Match 2"
	tierNextGoldBall  = "Next Gold Ball Jackpot"
	classicNumbersLen = 6
)

// GoldBallMode selects how the gold ball flag of a draw is derived.
type GoldBallMode string

const (
	// GoldBallMarker trusts the BALL DRAWN column of the archive.
	GoldBallMarker GoldBallMode = "marker"
	// GoldBallJackpotAmount flags draws whose gold ball prize rounds to one million.
	GoldBallJackpotAmount GoldBallMode = "jackpot_amount"
)

var goldBallJackpot = decimal.NewFromInt(1000000)

func ParseGoldBallMode(s string) (GoldBallMode, error) {
	switch GoldBallMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", GoldBallMarker:
		return GoldBallMarker, nil
	case GoldBallJackpotAmount:
		return GoldBallJackpotAmount, nil
	}
	return "", fmt.Errorf("gold ball flag %q: %w", s, constants.ErrBadRequest)
}

// Source reads 6/49 numbers from the PlayNow archives and jackpots and
// breakdowns from the lottonumbers.com detail pages.
type Source struct {
	client     *fetch.Client
	siteURL    string
	archiveURL string
	goldBall   GoldBallMode
}

func NewSource(client *fetch.Client, siteURL, archiveURL string, mode GoldBallMode) *Source {
	if siteURL == "" {
		siteURL = DefaultSiteURL
	}
	if archiveURL == "" {
		archiveURL = DefaultArchiveURL
	}
	if mode == "" {
		mode = GoldBallMarker
	}
	return &Source{
		client:     client,
		siteURL:    strings.TrimRight(siteURL, "/"),
		archiveURL: strings.TrimRight(archiveURL, "/"),
		goldBall:   mode,
	}
}

func (s *Source) ListYears(ctx context.Context) ([]int, error) {
	doc, err := s.client.Document(ctx, s.siteURL+"/lotto-649/past-numbers")
	if err != nil {
		return nil, fmt.Errorf("6/49 past numbers: %w", err)
	}

	links := doc.Find("div.dropdown li a")
	if links.Length() == 0 {
		return nil, fmt.Errorf("6/49 past numbers has no year list: %w", constants.ErrMalformedSource)
	}

	years := make([]int, 0, links.Length())
	links.EachWithBreak(func(_ int, a *goquery.Selection) bool {
		var year int
		year, err = strconv.Atoi(strings.TrimSpace(a.Text()))
		if err != nil {
			err = fmt.Errorf("year %q: %w", a.Text(), constants.ErrMalformedSource)
			return false
		}
		years = append(years, year)
		return true
	})
	if err != nil {
		return nil, err
	}

	sort.Ints(years)
	return years, nil
}

// FetchResults returns every draw of year, most recent first. Jackpots are
// not archived, so each draw costs one detail page request.
func (s *Source) FetchResults(ctx context.Context, year int) ([]domain.SixFortyNineResult, error) {
	results, err := s.archived(ctx, func(d domain.Date) bool { return d.Year() == year })
	if err != nil {
		return nil, err
	}

	for i := range results {
		if results[i].Classic.Prize, err = s.jackpot(ctx, results[i].Date); err != nil {
			return nil, err
		}
	}

	return results, nil
}

func (s *Source) FetchResult(ctx context.Context, date domain.Date) (*domain.SixFortyNineResult, error) {
	results, err := s.archived(ctx, func(d domain.Date) bool { return d == date })
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("6/49 draw %s: %w", date, constants.ErrNotFound)
	}

	result := &results[0]
	if result.Classic.Prize, err = s.jackpot(ctx, date); err != nil {
		return nil, err
	}

	return result, nil
}

func (s *Source) FetchBreakdown(ctx context.Context, date domain.Date) (*domain.Breakdown, error) {
	doc, err := s.detailPage(ctx, date)
	if err != nil {
		return nil, err
	}

	return parseBreakdown(doc, date)
}

func (s *Source) detailPage(ctx context.Context, date domain.Date) (*goquery.Document, error) {
	doc, err := s.client.Document(ctx, s.siteURL+"/lotto-649/numbers/"+date.String())
	if err != nil {
		return nil, fmt.Errorf("6/49 result %s: %w", date, err)
	}
	return doc, nil
}

// jackpot reads the first tier prize of the detail page. It is nil while
// the page or its table is not published yet.
func (s *Source) jackpot(ctx context.Context, date domain.Date) (*decimal.Decimal, error) {
	doc, err := s.detailPage(ctx, date)
	if errors.Is(err, constants.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return parseJackpot(doc, date)
}

func parseJackpot(doc *goquery.Document, date domain.Date) (*decimal.Decimal, error) {
	body := doc.Find("tbody").First()
	if body.Length() == 0 {
		return nil, nil
	}

	amount, err := prize.ParseLooseAmount(body.Find("tr").First().Find(`td[data-title="Prize"]`).Text())
	if err != nil {
		return nil, fmt.Errorf("6/49 jackpot %s: %w", date, err)
	}
	return amount, nil
}

// archived joins both archives into draws of the dates accepted by keep,
// most recent first. Jackpots are left empty.
func (s *Source) archived(ctx context.Context, keep func(domain.Date) bool) ([]domain.SixFortyNineResult, error) {
	var classic, prizes *fetch.Table

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		classic, err = s.client.ZipCSV(gctx, s.archiveURL+classicArchivePath, classicFile)
		if err != nil {
			return fmt.Errorf("6/49 classic archive: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		prizes, err = s.client.ZipCSV(gctx, s.archiveURL+prizesArchivePath, prizesFile)
		if err != nil {
			return fmt.Errorf("6/49 guaranteed prize archive: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results, err := classicDraws(classic, keep)
	if err != nil {
		return nil, err
	}

	guaranteed, goldBalls, err := s.secondaryDraws(prizes, keep)
	if err != nil {
		return nil, err
	}

	for i := range results {
		results[i].Guaranteed = guaranteed[results[i].Date]
		results[i].GoldBall = goldBalls[results[i].Date]
	}

	return results, nil
}

func classicDraws(table *fetch.Table, keep func(domain.Date) bool) ([]domain.SixFortyNineResult, error) {
	if !table.Has(columnDrawDate) {
		return nil, fmt.Errorf("6/49 classic archive has no %q column: %w", columnDrawDate, constants.ErrMalformedSource)
	}

	seen := make(map[domain.Date]struct{})
	results := make([]domain.SixFortyNineResult, 0, 104)
	for _, row := range table.Rows {
		date, err := domain.ParseDate(row.Get(columnDrawDate))
		if err != nil {
			return nil, fmt.Errorf("6/49 classic archive: %w: %s", constants.ErrMalformedSource, err.Error())
		}
		if !keep(date) {
			continue
		}
		if _, ok := seen[date]; ok {
			continue
		}
		seen[date] = struct{}{}

		classic := domain.Classic{Numbers: make([]int, 0, classicNumbersLen)}
		for i := 1; i <= classicNumbersLen; i++ {
			n, err := atoi(row.Get(fmt.Sprintf("%s %d", columnNumberDrawn, i)))
			if err != nil {
				return nil, fmt.Errorf("6/49 %s number %d: %w", date, i, err)
			}
			classic.Numbers = append(classic.Numbers, n)
		}
		if classic.Bonus, err = atoi(row.Get(columnBonusNumber)); err != nil {
			return nil, fmt.Errorf("6/49 %s bonus: %w", date, err)
		}

		results = append(results, domain.SixFortyNineResult{Date: date, Classic: classic})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[j].Date.Before(results[i].Date)
	})

	return results, nil
}

// secondaryDraws splits the guaranteed prize archive. "Not Applicable" rows
// are guaranteed prize tickets grouped by prize in archive order; the first
// other row of a date is its gold ball draw.
func (s *Source) secondaryDraws(table *fetch.Table, keep func(domain.Date) bool) (map[domain.Date][]domain.Guaranteed, map[domain.Date]*domain.GoldBall, error) {
	guaranteed := make(map[domain.Date][]domain.Guaranteed)
	goldBalls := make(map[domain.Date]*domain.GoldBall)
	if !table.Has(columnDrawDate) {
		return nil, nil, fmt.Errorf("6/49 guaranteed prize archive has no %q column: %w", columnDrawDate, constants.ErrMalformedSource)
	}

	for _, row := range table.Rows {
		date, err := domain.ParseDate(row.Get(columnDrawDate))
		if err != nil {
			return nil, nil, fmt.Errorf("6/49 guaranteed prize archive: %w: %s", constants.ErrMalformedSource, err.Error())
		}
		if !keep(date) {
			continue
		}

		amount, err := prize.ParseAmount(row.Get(columnPrizeWon))
		if err != nil {
			return nil, nil, fmt.Errorf("6/49 %s prize won: %w", date, err)
		}
		if amount == nil {
			return nil, nil, fmt.Errorf("6/49 %s prize won is empty: %w", date, constants.ErrMalformedSource)
		}
		number := strings.ReplaceAll(row.Get(columnNumberDrawn), " ", "")

		ball := row.Get(columnBallDrawn)
		if ball == ballNotApplicable {
			guaranteed[date] = appendGuaranteed(guaranteed[date], number, *amount)
			continue
		}

		if _, ok := goldBalls[date]; !ok {
			goldBalls[date] = &domain.GoldBall{
				Number:          number,
				Prize:           *amount,
				IsGoldBallDrawn: s.isGoldBallDrawn(ball, *amount),
			}
		}
	}

	for _, groups := range guaranteed {
		sort.SliceStable(groups, func(i, j int) bool { return groups[i].Prize.LessThan(groups[j].Prize) })
	}

	return guaranteed, goldBalls, nil
}

// appendGuaranteed groups ticket numbers by prize, keeping archive order
// within a group.
func appendGuaranteed(groups []domain.Guaranteed, number string, amount decimal.Decimal) []domain.Guaranteed {
	for i := range groups {
		if groups[i].Prize.Equal(amount) {
			groups[i].Numbers = append(groups[i].Numbers, number)
			return groups
		}
	}
	return append(groups, domain.Guaranteed{Numbers: []string{number}, Prize: amount})
}

func (s *Source) isGoldBallDrawn(ball string, amount decimal.Decimal) bool {
	if s.goldBall == GoldBallJackpotAmount {
		return amount.Round(0).Equal(goldBallJackpot)
	}
	return ball == ballGold
}

// parseBreakdown reads the first table of a detail page. The last row holds
// the totals and is dropped.
func parseBreakdown(doc *goquery.Document, date domain.Date) (*domain.Breakdown, error) {
	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("6/49 breakdown %s: %w", date, constants.ErrNotFound)
	}

	rows := table.Find("tbody tr")
	tiers := make([]domain.NumbersMatched, 0, rows.Length())
	if rows.Length() == 0 {
		return nil, fmt.Errorf("6/49 breakdown %s: %w", date, constants.ErrNotFound)
	}

	var err error
	rows.Slice(0, rows.Length()-1).EachWithBreak(func(_ int, tr *goquery.Selection) bool {
		var tier *domain.NumbersMatched
		tier, err = parseTier(tr.Find("td"))
		if err != nil {
			return false
		}
		if tier != nil {
			tiers = append(tiers, *tier)
		}
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("6/49 breakdown %s: %w", date, err)
	}

	tiers = prize.UniqueTiers(tiers)
	return &domain.Breakdown{
		Summary:        prize.Summarize(tiers),
		NumbersMatched: tiers,
	}, nil
}

var labelReplacer = strings.NewReplacer("\n", "", "\r", "", "\t", "")

// parseTier returns nil for rows that are not prize tiers.
func parseTier(tds *goquery.Selection) (*domain.NumbersMatched, error) {
	if tds.Length() < 4 {
		return nil, fmt.Errorf("tier row has %d cells: %w", tds.Length(), constants.ErrMalformedSource)
	}

	match := labelReplacer.Replace(strings.TrimSpace(tds.Eq(0).Text()))
	if match == tierNextGoldBall {
		return nil, nil
	}

	tier := &domain.NumbersMatched{Match: match}

	var err error
	if tier.TotalWinners, err = prize.ParseLooseCount(tds.Eq(2).Text()); err != nil {
		return nil, fmt.Errorf("%s winners: %w", match, err)
	}

	if match == tierMatchTwo {
		tier.PrizePerWinner = domain.LabelPrize(domain.FreePlay)
		return tier, nil
	}

	perWinner := tds.Eq(1).Text()
	amount, err := prize.ParseLooseAmount(perWinner)
	if err != nil {
		return nil, fmt.Errorf("%s prize: %w", match, err)
	}
	if amount != nil {
		tier.PrizePerWinner = domain.AmountPrize(*amount)
	} else if label := strings.Join(strings.Fields(perWinner), " "); label != "" {
		tier.PrizePerWinner = domain.LabelPrize(label)
	}

	if tier.PrizeFund, err = prize.ParseLooseAmount(tds.Eq(3).Text()); err != nil {
		return nil, fmt.Errorf("%s prize fund: %w", match, err)
	}

	return tier, nil
}

func atoi(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("number %q: %w", s, constants.ErrMalformedSource)
	}
	return n, nil
}
