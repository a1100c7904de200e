package lottomax

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ougirez/canlotto/internal/domain"
	"github.com/ougirez/canlotto/internal/pkg/constants"
	"github.com/ougirez/canlotto/internal/pkg/fetch"
	"github.com/shopspring/decimal"
)

const pastNumbersPage = `<html><body>
<div class="yearList"><a href="/numbers/2024">2024</a><a href="/numbers/2023">2023</a></div>
</body></html>`

const yearPage = `<html><body><table>
<tr><th>Date</th><th>Numbers</th><th>Jackpot</th></tr>
<tr>
  <td><a href="/numbers/lotto-max-result-04-09-2024">April 9 2024</a></td>
  <td><ul class="balls"><li class="ball">1</li><li class="ball">2</li><li class="ball">3</li><li class="ball">4</li><li class="ball">5</li><li class="ball">6</li><li class="ball">7</li><li class="ball bonus-ball">8</li></ul></td>
  <td class="jackpot">$60,000,000</td>
</tr>
<tr>
  <td><a href="/numbers/lotto-max-result-04-12-2024">April
     12 2024</a></td>
  <td><ul class="balls"><li class="ball">3</li><li class="ball">11</li><li class="ball">19</li><li class="ball">24</li><li class="ball">31</li><li class="ball">40</li><li class="ball">49</li><li class="ball bonus-ball">22</li></ul></td>
  <td class="jackpot">$70,000,000</td>
</tr>
</table></body></html>`

const resultPage = `<html><body>
<div class="prizeStatsBox">
  <div class="box"><div class="contentBox"><div class="stat">1,234,567</div><div class="statSmall">Total Sales: $6,172,835</div></div></div>
  <div class="box"><div class="contentBox"><div class="stat">45,678</div></div></div>
  <div class="box"><div class="contentBox"><div class="stat">1 in 7.1</div></div></div>
  <div class="box"><div class="contentBox"><div class="stat">+$250,000</div></div></div>
</div>
<div class="lottoMaxBox"><table><tbody>
  <tr><td><strong>7/7</strong></td><td>$70,000,000</td><td>0</td><td>-</td></tr>
  <tr><td><strong>6/7 + Bonus</strong></td><td>$250,000.50</td><td>
    <div class="regionWinners"><span class="region">Ontario: 12</span></div>
    <div class="regionWinners"><span class="region">Quebec: 8</span></div>
  </td><td>$5,000,010.00</td></tr>
  <tr><td><strong>3/7</strong></td><td>Free Play</td><td><span>1 - 3</span></td><td>-</td></tr>
  <tr><td><strong>3/7</strong></td><td>Free Play</td><td>99</td><td>-</td></tr>
  <tr><td><strong>Total</strong></td><td></td><td>23</td><td>$5,000,010.00</td></tr>
</tbody></table></div>
<div class="ontarioBox"><table><tbody>
  <tr><td><strong>6/7 + Bonus</strong></td><td>$250,000.50</td><td>12</td><td>$3,000,006.00</td></tr>
  <tr><td><strong>Total</strong></td><td></td><td>12</td><td>$3,000,006.00</td></tr>
</tbody></table></div>
</body></html>`

type upstream struct {
	srv        *httptest.Server
	detailHits int32
	yearHits   int32
	failYears  atomic.Bool
	pages      map[string]string
}

func newUpstream(t *testing.T) *upstream {
	t.Helper()

	u := &upstream{pages: map[string]string{
		"/past-numbers":                        pastNumbersPage,
		"/numbers/2024":                        yearPage,
		"/numbers/lotto-max-result-04-12-2024": resultPage,
	}}
	u.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/past-numbers" && u.failYears.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		if r.URL.Path == "/numbers/2024" {
			atomic.AddInt32(&u.yearHits, 1)
		}
		if r.URL.Path == "/numbers/lotto-max-result-04-12-2024" {
			atomic.AddInt32(&u.detailHits, 1)
		}
		page, ok := u.pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(page))
	}))
	t.Cleanup(u.srv.Close)
	return u
}

func (u *upstream) source() *Source {
	return NewSource(fetch.NewClient(fetch.WithRetries(0, time.Millisecond)), u.srv.URL)
}

func TestListYears(t *testing.T) {
	u := newUpstream(t)

	years, err := u.source().ListYears(context.Background())
	if err != nil {
		t.Fatalf("ListYears: %v", err)
	}
	if len(years) != 2 || years[0] != 2024 || years[1] != 2023 {
		t.Errorf("years = %v, want [2024 2023]", years)
	}

	u.failYears.Store(true)
	if _, err = u.source().ListYears(context.Background()); !errors.Is(err, constants.ErrSourceUnavailable) {
		t.Errorf("err = %v, want ErrSourceUnavailable", err)
	}
}

func TestFetchResults(t *testing.T) {
	u := newUpstream(t)

	results, err := u.source().FetchResults(context.Background(), 2024)
	if err != nil {
		t.Fatalf("FetchResults: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}

	latest := results[0]
	if latest.Date != domain.NewDate(2024, time.April, 12) {
		t.Errorf("results[0].Date = %s, want 2024-04-12", latest.Date)
	}
	if len(latest.Numbers) != 7 || latest.Numbers[0] != 3 || latest.Numbers[6] != 49 {
		t.Errorf("Numbers = %v", latest.Numbers)
	}
	if latest.Bonus != 22 {
		t.Errorf("Bonus = %d, want 22", latest.Bonus)
	}
	if latest.Prize == nil || !latest.Prize.Equal(decimal.NewFromInt(70000000)) {
		t.Errorf("Prize = %v, want 70000000", latest.Prize)
	}
	if results[1].Date != domain.NewDate(2024, time.April, 9) {
		t.Errorf("results[1].Date = %s, want 2024-04-09", results[1].Date)
	}
}

func TestFetchResultUnknownDate(t *testing.T) {
	u := newUpstream(t)

	_, err := u.source().FetchResult(context.Background(), domain.NewDate(2024, time.April, 13))
	if !errors.Is(err, constants.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestFetchBreakdown(t *testing.T) {
	u := newUpstream(t)

	b, err := u.source().FetchBreakdown(context.Background(), domain.NewDate(2024, time.April, 12))
	if err != nil {
		t.Fatalf("FetchBreakdown: %v", err)
	}

	if len(b.NumbersMatched) != 3 {
		t.Fatalf("tiers = %d, want 3 (totals row and repeated tier dropped)", len(b.NumbersMatched))
	}

	jackpot := b.NumbersMatched[0]
	if jackpot.Match != "7/7" || jackpot.PrizeFund != nil {
		t.Errorf("7/7 = %+v, want prize fund absent", jackpot)
	}
	if jackpot.TotalWinners == nil || *jackpot.TotalWinners != 0 {
		t.Errorf("7/7 winners = %v, want 0", jackpot.TotalWinners)
	}

	regional := b.NumbersMatched[1]
	if regional.TotalWinners == nil || *regional.TotalWinners != 20 {
		t.Errorf("6/7 + Bonus winners = %v, want 20", regional.TotalWinners)
	}
	wantLocations := []domain.Location{{Region: "Ontario", Total: 12}, {Region: "Quebec", Total: 8}}
	if len(regional.Locations) != len(wantLocations) {
		t.Fatalf("Locations = %+v, want %+v", regional.Locations, wantLocations)
	}
	for i, want := range wantLocations {
		if regional.Locations[i] != want {
			t.Errorf("Locations[%d] = %+v, want %+v", i, regional.Locations[i], want)
		}
	}
	if !regional.PrizePerWinner.Equal(domain.AmountPrize(decimal.RequireFromString("250000.50"))) {
		t.Errorf("6/7 + Bonus prize = %s", regional.PrizePerWinner)
	}

	freePlay := b.NumbersMatched[2]
	if !freePlay.PrizePerWinner.IsFreePlay() {
		t.Errorf("3/7 prize = %s, want Free Play", freePlay.PrizePerWinner)
	}
	if freePlay.TotalWinners == nil || *freePlay.TotalWinners != 3 {
		t.Errorf("3/7 winners = %v, want 3 (second number of the range)", freePlay.TotalWinners)
	}

	s := b.Summary
	if s.TotalWinners != 23 {
		t.Errorf("TotalWinners = %d, want 23", s.TotalWinners)
	}
	if !s.TotalPrizeFund.Equal(decimal.RequireFromString("5000010")) {
		t.Errorf("TotalPrizeFund = %s, want 5000010", s.TotalPrizeFund)
	}
	if s.TicketSold == nil || *s.TicketSold != 1234567 {
		t.Errorf("TicketSold = %v, want 1234567", s.TicketSold)
	}
	if s.TotalSales == nil || !s.TotalSales.Equal(decimal.NewFromInt(6172835)) {
		t.Errorf("TotalSales = %v, want 6172835", s.TotalSales)
	}
	if s.SalesDifferencePreviousDraw != "+$250,000" {
		t.Errorf("SalesDifferencePreviousDraw = %q", s.SalesDifferencePreviousDraw)
	}

	if got := len(b.Regions[domain.RegionOntario]); got != 1 {
		t.Errorf("ontario tiers = %d, want 1", got)
	}
	if got := b.Regions[domain.RegionAtlantic]; got == nil || len(got) != 0 {
		t.Errorf("atlantic tiers = %v, want empty", got)
	}
}

// The stored winning ratio is the leading integer of the panel divided by
// 100, not 1/N. This pins the current behaviour until the intended formula
// is confirmed.
func TestWinningRatioIsLeadingIntegerOverHundred(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{text: "1 in 7.1", want: "0.01"},
		{text: "7 in 1", want: "0.07"},
		{text: "250", want: "2.5"},
	}

	for _, tt := range tests {
		got, err := winningRatio(tt.text)
		if err != nil {
			t.Fatalf("winningRatio(%q): %v", tt.text, err)
		}
		if !got.Equal(decimal.RequireFromString(tt.want)) {
			t.Errorf("winningRatio(%q) = %s, want %s", tt.text, got, tt.want)
		}
	}

	if got, err := winningRatio(""); err != nil || got != nil {
		t.Errorf("winningRatio(\"\") = (%v, %v), want (nil, nil)", got, err)
	}
	if _, err := winningRatio("one in seven"); !errors.Is(err, constants.ErrMalformedSource) {
		t.Errorf("err = %v, want ErrMalformedSource", err)
	}
}

func TestFetchBreakdownUnknownDateSkipsDetailPage(t *testing.T) {
	u := newUpstream(t)

	_, err := u.source().FetchBreakdown(context.Background(), domain.NewDate(2024, time.April, 13))
	if !errors.Is(err, constants.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if hits := atomic.LoadInt32(&u.detailHits); hits != 0 {
		t.Errorf("detail page hits = %d, want 0", hits)
	}
}

func TestFetchRegionBreakdown(t *testing.T) {
	u := newUpstream(t)
	date := domain.NewDate(2024, time.April, 12)

	tiers, err := u.source().FetchRegionBreakdown(context.Background(), date, domain.RegionOntario)
	if err != nil {
		t.Fatalf("FetchRegionBreakdown: %v", err)
	}
	if len(tiers) != 1 || tiers[0].Match != "6/7 + Bonus" {
		t.Fatalf("tiers = %+v", tiers)
	}
	if tiers[0].TotalWinners == nil || *tiers[0].TotalWinners != 12 {
		t.Errorf("winners = %v, want 12", tiers[0].TotalWinners)
	}

	if _, err = u.source().FetchRegionBreakdown(context.Background(), date, domain.RegionAtlantic); !errors.Is(err, constants.ErrNotFound) {
		t.Errorf("atlantic err = %v, want ErrNotFound", err)
	}
	if _, err = u.source().FetchRegionBreakdown(context.Background(), date, "yukon"); !errors.Is(err, constants.ErrBadRequest) {
		t.Errorf("unknown region err = %v, want ErrBadRequest", err)
	}
}
