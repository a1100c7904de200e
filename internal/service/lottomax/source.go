package lottomax

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/ougirez/canlotto/internal/domain"
	"github.com/ougirez/canlotto/internal/pkg/constants"
	"github.com/ougirez/canlotto/internal/pkg/fetch"
	"github.com/ougirez/canlotto/internal/pkg/prize"
	"github.com/shopspring/decimal"
)

const (
	DefaultBaseURL = "https://www.lottomaxnumbers.com"

	rowDateLayout = "January 2 2006"
	detailLayout  = "01-02-2006"
)

var regionBoxes = map[domain.Region]string{
	domain.RegionAtlantic:        "atlanticBox",
	domain.RegionBritishColumbia: "bcBox",
	domain.RegionOntario:         "ontarioBox",
	domain.RegionQuebec:          "quebecBox",
	domain.RegionWesternCanada:   "westernBox",
}

// Source reads Lotto Max draws from the lottomaxnumbers.com result pages.
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

func (s *Source) ListYears(ctx context.Context) ([]int, error) {
	doc, err := s.client.Document(ctx, s.baseURL+"/past-numbers")
	if err != nil {
		return nil, fmt.Errorf("past numbers: %w", err)
	}

	links := doc.Find(".yearList a")
	if links.Length() == 0 {
		return nil, fmt.Errorf("past numbers has no year list: %w", constants.ErrMalformedSource)
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

	return years, nil
}

// FetchResults returns every draw of year, most recent first.
func (s *Source) FetchResults(ctx context.Context, year int) ([]domain.LottoMaxResult, error) {
	doc, err := s.client.Document(ctx, fmt.Sprintf("%s/numbers/%d", s.baseURL, year))
	if err != nil {
		return nil, fmt.Errorf("numbers %d: %w", year, err)
	}

	results := make([]domain.LottoMaxResult, 0, 104)
	doc.Find("tr").EachWithBreak(func(_ int, tr *goquery.Selection) bool {
		if tr.Find("ul.balls").Length() == 0 {
			return true
		}

		var result *domain.LottoMaxResult
		result, err = parseResultRow(tr)
		if err != nil {
			return false
		}
		results = append(results, *result)
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("numbers %d: %w", year, err)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[j].Date.Before(results[i].Date)
	})

	return results, nil
}

// FetchResult returns the draw of date from its year table.
func (s *Source) FetchResult(ctx context.Context, date domain.Date) (*domain.LottoMaxResult, error) {
	results, err := s.FetchResults(ctx, date.Year())
	if err != nil {
		return nil, err
	}

	for i := range results {
		if results[i].Date == date {
			return &results[i], nil
		}
	}

	return nil, fmt.Errorf("lotto max draw %s: %w", date, constants.ErrNotFound)
}

func (s *Source) FetchBreakdown(ctx context.Context, date domain.Date) (*domain.LottoMaxBreakdown, error) {
	if _, err := s.FetchResult(ctx, date); err != nil {
		return nil, err
	}
	return s.breakdown(ctx, date)
}

// breakdown reads the detail page of a date already known to be drawn.
func (s *Source) breakdown(ctx context.Context, date domain.Date) (*domain.LottoMaxBreakdown, error) {
	doc, err := s.detailPage(ctx, date)
	if err != nil {
		return nil, err
	}

	tiers, err := parseTiers(doc.Find(".lottoMaxBox tbody tr"))
	if err != nil {
		return nil, fmt.Errorf("lotto max breakdown %s: %w", date, err)
	}

	summary, err := parseSummary(doc, tiers)
	if err != nil {
		return nil, fmt.Errorf("lotto max summary %s: %w", date, err)
	}

	regions := make(map[domain.Region][]domain.NumbersMatched, len(regionBoxes))
	for _, region := range domain.Regions() {
		regionTiers, err := parseTiers(doc.Find("." + regionBoxes[region] + " tbody tr"))
		if err != nil {
			return nil, fmt.Errorf("lotto max %s breakdown %s: %w", region, date, err)
		}
		regions[region] = regionTiers
	}

	return &domain.LottoMaxBreakdown{
		Summary:        *summary,
		NumbersMatched: tiers,
		Regions:        regions,
	}, nil
}

func (s *Source) FetchRegionBreakdown(ctx context.Context, date domain.Date, region domain.Region) ([]domain.NumbersMatched, error) {
	box, ok := regionBoxes[region]
	if !ok {
		return nil, fmt.Errorf("region %q is invalid: %w", region, constants.ErrBadRequest)
	}

	if _, err := s.FetchResult(ctx, date); err != nil {
		return nil, err
	}

	doc, err := s.detailPage(ctx, date)
	if err != nil {
		return nil, err
	}

	rows := doc.Find("." + box + " tbody tr")
	if rows.Length() == 0 {
		return nil, fmt.Errorf("lotto max %s breakdown %s: %w", region, date, constants.ErrNotFound)
	}

	return parseTiers(rows)
}

func (s *Source) detailPage(ctx context.Context, date domain.Date) (*goquery.Document, error) {
	doc, err := s.client.Document(ctx, fmt.Sprintf("%s/numbers/lotto-max-result-%s", s.baseURL, date.Format(detailLayout)))
	if err != nil {
		return nil, fmt.Errorf("lotto max result %s: %w", date, err)
	}
	return doc, nil
}

func parseResultRow(tr *goquery.Selection) (*domain.LottoMaxResult, error) {
	dateText := strings.Join(strings.Fields(tr.Find("a").First().Text()), " ")
	t, err := time.Parse(rowDateLayout, dateText)
	if err != nil {
		return nil, fmt.Errorf("draw date %q: %w", dateText, constants.ErrMalformedSource)
	}

	result := &domain.LottoMaxResult{Date: domain.DateOf(t)}

	tr.Find(".ball").EachWithBreak(func(_ int, li *goquery.Selection) bool {
		if li.HasClass("bonus-ball") {
			return true
		}
		var n int
		n, err = strconv.Atoi(strings.TrimSpace(li.Text()))
		if err != nil {
			err = fmt.Errorf("ball %q: %w", li.Text(), constants.ErrMalformedSource)
			return false
		}
		result.Numbers = append(result.Numbers, n)
		return true
	})
	if err != nil {
		return nil, err
	}

	bonus := strings.TrimSpace(tr.Find(".bonus-ball").First().Text())
	if result.Bonus, err = strconv.Atoi(bonus); err != nil {
		return nil, fmt.Errorf("bonus ball %q: %w", bonus, constants.ErrMalformedSource)
	}

	if result.Prize, err = prize.ParseAmount(tr.Find(".jackpot").First().Text()); err != nil {
		return nil, fmt.Errorf("jackpot %s: %w", result.Date, err)
	}

	return result, nil
}

// parseTiers reads a breakdown table body. The last row holds the totals and is dropped.
func parseTiers(rows *goquery.Selection) ([]domain.NumbersMatched, error) {
	tiers := make([]domain.NumbersMatched, 0, rows.Length())
	if rows.Length() == 0 {
		return tiers, nil
	}

	var err error
	rows.Slice(0, rows.Length()-1).EachWithBreak(func(_ int, tr *goquery.Selection) bool {
		var tier *domain.NumbersMatched
		tier, err = parseTier(tr.Find("td"))
		if err != nil {
			return false
		}
		tiers = append(tiers, *tier)
		return true
	})
	if err != nil {
		return nil, err
	}

	return prize.UniqueTiers(tiers), nil
}

func parseTier(tds *goquery.Selection) (*domain.NumbersMatched, error) {
	if tds.Length() < 4 {
		return nil, fmt.Errorf("tier row has %d cells: %w", tds.Length(), constants.ErrMalformedSource)
	}

	match := strings.TrimSpace(tds.Eq(0).Find("strong").Text())
	if match == "" {
		match = strings.TrimSpace(tds.Eq(0).Text())
	}

	tier := &domain.NumbersMatched{Match: match}

	perWinner := strings.TrimSpace(tds.Eq(1).Text())
	if amount, err := prize.ParseAmount(perWinner); err == nil {
		if amount != nil {
			tier.PrizePerWinner = domain.AmountPrize(*amount)
		}
	} else if strings.Contains(strings.ToLower(perWinner), "free play") {
		tier.PrizePerWinner = domain.LabelPrize(domain.FreePlay)
	} else {
		tier.PrizePerWinner = domain.LabelPrize(strings.Join(strings.Fields(perWinner), " "))
	}

	var err error
	if tier.TotalWinners, tier.Locations, err = parseWinners(tds.Eq(2)); err != nil {
		return nil, fmt.Errorf("%s winners: %w", match, err)
	}

	if tier.PrizeFund, err = prize.ParseAmount(tds.Eq(3).Text()); err != nil {
		return nil, fmt.Errorf("%s prize fund: %w", match, err)
	}

	return tier, nil
}

// parseWinners reads a winners cell: regional counts ("Ontario: 12"), a
// range ("1 - 3", the second number wins) or a plain count.
func parseWinners(td *goquery.Selection) (*int, []domain.Location, error) {
	if regionWinners := td.Find(".regionWinners"); regionWinners.Length() > 0 {
		locations := make([]domain.Location, 0, regionWinners.Length())
		total := 0

		var err error
		regionWinners.EachWithBreak(func(_ int, div *goquery.Selection) bool {
			text := strings.TrimSpace(div.Find(".region").Text())
			name, count, ok := strings.Cut(text, ":")
			if !ok {
				err = fmt.Errorf("region winners %q: %w", text, constants.ErrMalformedSource)
				return false
			}

			var n *int
			if n, err = prize.ParseCount(count); err != nil {
				return false
			}
			if n == nil {
				return true
			}

			locations = append(locations, domain.Location{Region: strings.TrimSpace(name), Total: *n})
			total += *n
			return true
		})
		if err != nil {
			return nil, nil, err
		}

		return &total, locations, nil
	}

	if td.Find("span").Length() > 0 {
		text := strings.ReplaceAll(strings.TrimSpace(td.Text()), " ", "")
		parts := strings.Split(text, "-")
		if len(parts) < 2 {
			return nil, nil, fmt.Errorf("winners range %q: %w", text, constants.ErrMalformedSource)
		}
		n, err := prize.ParseCount(parts[1])
		return n, nil, err
	}

	n, err := prize.ParseCount(td.Text())
	return n, nil, err
}

// parseSummary reads the four stat panels: tickets and sales, winners,
// winning ratio and sales difference.
func parseSummary(doc *goquery.Document, tiers []domain.NumbersMatched) (*domain.LottoMaxSummary, error) {
	boxes := doc.Find(".prizeStatsBox .box")
	if boxes.Length() < 4 {
		return nil, fmt.Errorf("%d stat panels: %w", boxes.Length(), constants.ErrMalformedSource)
	}

	content := func(i int) *goquery.Selection {
		return boxes.Eq(i).Find(".contentBox").First()
	}
	stat := func(i int) string {
		return strings.TrimSpace(content(i).Find(".stat").First().Text())
	}

	base := prize.Summarize(tiers)
	summary := &domain.LottoMaxSummary{
		TotalWinners:                base.TotalWinners,
		TotalPrizeFund:              base.TotalPrizeFund,
		SalesDifferencePreviousDraw: strings.Join(strings.Fields(stat(3)), " "),
	}

	if sold, ok := prize.Clean(stat(0)); ok {
		n, err := strconv.ParseInt(sold, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("ticket sold %q: %w", sold, constants.ErrMalformedSource)
		}
		summary.TicketSold = &n
	}

	if _, sales, ok := strings.Cut(content(0).Find(".statSmall").First().Text(), ": "); ok {
		amount, err := prize.ParseAmount(sales)
		if err != nil {
			return nil, fmt.Errorf("total sales: %w", err)
		}
		summary.TotalSales = amount
	}

	ratio, err := winningRatio(stat(2))
	if err != nil {
		return nil, err
	}
	summary.WinningRatio = ratio

	return summary, nil
}

// winningRatio turns "N in ..." into N/100.
func winningRatio(text string) (*decimal.Decimal, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil, nil
	}

	n, err := strconv.ParseInt(strings.ReplaceAll(fields[0], ",", ""), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("winning ratio %q: %w", text, constants.ErrMalformedSource)
	}

	ratio := decimal.New(n, -2)
	return &ratio, nil
}
