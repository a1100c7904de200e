package sixfortynine

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/klauspost/compress/zip"
	"github.com/ougirez/canlotto/internal/domain"
	"github.com/ougirez/canlotto/internal/pkg/constants"
	"github.com/ougirez/canlotto/internal/pkg/fetch"
	"github.com/shopspring/decimal"
)

const classicCSV = "PRODUCT,DRAW NUMBER,SEQUENCE NUMBER,DRAW DATE,NUMBER DRAWN 1,NUMBER DRAWN 2,NUMBER DRAWN 3,NUMBER DRAWN 4,NUMBER DRAWN 5,NUMBER DRAWN 6,BONUS NUMBER\n" +
	"649,4100,0,2024-04-06,2,8,19,27,33,48,12\n" +
	"649,4101,0,2024-04-10,3,14,22,30,41,45,7\n" +
	"649,4101,1,2024-04-10,1,2,3,4,5,6,9\n" +
	"649,4060,0,2023-12-30,5,10,15,20,25,30,35\n"

const prizesCSV = "PRODUCT,DRAW NUMBER,DRAW DATE,PRIZE WON,NUMBER DRAWN,BALL DRAWN\n" +
	"649,4101,2024-04-10,\"$1,000,000.00\",12345678 - 01,Not Applicable\n" +
	"649,4101,2024-04-10,\"$100,000.00\",11111111 - 03,Not Applicable\n" +
	"649,4101,2024-04-10,\"$1,000,000.00\",87654321 - 02,Not Applicable\n" +
	"649,4101,2024-04-10,\"$16,000,000.00\",22222222 - 04,White\n" +
	"649,4101,2024-04-10,\"$1,000,000.00\",33333333 - 05,Gold\n" +
	"649,4100,2024-04-06,\"$1,000,000.00\",44444444 - 06,Gold\n"

const yearsPage = `<html><body>
<div class="dropdown"><ul>
  <li><a href="/lotto-649/past-numbers/2024">2024</a></li>
  <li><a href="/lotto-649/past-numbers/2023">2023</a></li>
</ul></div>
</body></html>`

const detailApril10 = `<html><body>
<table class="prizeTable">
<thead><tr><th>Prize</th><th>Per Winner</th><th>Winners</th><th>Fund</th></tr></thead>
<tbody>
<tr><td>Match 6</td><td data-title="Prize">$5,000,000.00</td><td>0</td><td>$0.00</td></tr>
<tr><td>Match 5 + Bonus</td><td data-title="Prize">$150,000.00</td><td>2</td><td>$300,000.00</td></tr>
<tr><td>
	Match 3
</td><td data-title="Prize">$10.00</td><td>1,200</td><td>$12,000.00</td></tr>
<tr><td>Match 2</td><td data-title="Prize">$5.00</td><td>10,000</td><td>$50,000.00</td></tr>
<tr><td>Next Gold Ball Jackpot</td><td data-title="Prize">$16,000,000</td><td>-</td><td>-</td></tr>
<tr><td>Totals</td><td></td><td>11,202</td><td>$362,000.00</td></tr>
</tbody>
</table>
</body></html>`

const detailApril6 = `<html><body><p>Results are being processed.</p></body></html>`

func zipped(t *testing.T, name, content string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(name)
	if err != nil {
		t.Fatalf("zip.Create: %v", err)
	}
	if _, err = w.Write([]byte(content)); err != nil {
		t.Fatalf("zip.Write: %v", err)
	}
	if err = zw.Close(); err != nil {
		t.Fatalf("zip.Close: %v", err)
	}
	return buf.Bytes()
}

func newSource(t *testing.T, mode GoldBallMode) *Source {
	t.Helper()

	files := map[string][]byte{
		classicArchivePath:              zipped(t, classicFile, classicCSV),
		prizesArchivePath:               zipped(t, prizesFile, prizesCSV),
		"/lotto-649/past-numbers":       []byte(yearsPage),
		"/lotto-649/numbers/2024-04-10": []byte(detailApril10),
		"/lotto-649/numbers/2024-04-06": []byte(detailApril6),
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := files[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)

	return NewSource(fetch.NewClient(fetch.WithRetries(0, time.Millisecond)), srv.URL, srv.URL, mode)
}

func TestParseGoldBallMode(t *testing.T) {
	tests := []struct {
		in      string
		want    GoldBallMode
		wantErr bool
	}{
		{in: "", want: GoldBallMarker},
		{in: "marker", want: GoldBallMarker},
		{in: " Jackpot_Amount ", want: GoldBallJackpotAmount},
		{in: "float", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseGoldBallMode(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseGoldBallMode(%q) = (%q, %v), want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestListYears(t *testing.T) {
	years, err := newSource(t, GoldBallMarker).ListYears(context.Background())
	if err != nil {
		t.Fatalf("ListYears: %v", err)
	}
	if len(years) != 2 || years[0] != 2023 || years[1] != 2024 {
		t.Errorf("years = %v, want [2023 2024]", years)
	}
}

func TestFetchResults(t *testing.T) {
	results, err := newSource(t, GoldBallMarker).FetchResults(context.Background(), 2024)
	if err != nil {
		t.Fatalf("FetchResults: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}

	latest, previous := results[0], results[1]
	if latest.Date != domain.NewDate(2024, time.April, 10) || previous.Date != domain.NewDate(2024, time.April, 6) {
		t.Fatalf("dates = %s, %s, want most recent first", latest.Date, previous.Date)
	}

	t.Run("classic", func(t *testing.T) {
		c := latest.Classic
		if len(c.Numbers) != 6 || c.Numbers[0] != 3 || c.Numbers[5] != 45 || c.Bonus != 7 {
			t.Errorf("classic = %v + %d, want the first archive row of the date", c.Numbers, c.Bonus)
		}
		if c.Prize == nil || !c.Prize.Equal(decimal.NewFromInt(5000000)) {
			t.Errorf("jackpot = %v, want 5000000", c.Prize)
		}
		if previous.Classic.Prize != nil {
			t.Errorf("unpublished jackpot = %v, want nil", previous.Classic.Prize)
		}
	})

	t.Run("guaranteed", func(t *testing.T) {
		g := latest.Guaranteed
		if len(g) != 2 {
			t.Fatalf("guaranteed groups = %d, want 2", len(g))
		}
		if !g[0].Prize.Equal(decimal.NewFromInt(100000)) || len(g[0].Numbers) != 1 {
			t.Errorf("first group = %+v, want the smallest prize first", g[0])
		}
		if !g[1].Prize.Equal(decimal.NewFromInt(1000000)) || len(g[1].Numbers) != 2 {
			t.Fatalf("second group = %+v", g[1])
		}
		if g[1].Numbers[0] != "12345678-01" || g[1].Numbers[1] != "87654321-02" {
			t.Errorf("numbers = %v, want spaces removed in archive order", g[1].Numbers)
		}
		if previous.Guaranteed != nil {
			t.Errorf("guaranteed = %+v, want none", previous.Guaranteed)
		}
	})

	t.Run("gold ball", func(t *testing.T) {
		if latest.GoldBall == nil || latest.GoldBall.Number != "22222222-04" || latest.GoldBall.IsGoldBallDrawn {
			t.Errorf("gold ball = %+v, want the white ball row", latest.GoldBall)
		}
		if previous.GoldBall == nil || !previous.GoldBall.IsGoldBallDrawn {
			t.Errorf("gold ball = %+v, want drawn", previous.GoldBall)
		}
	})
}

func TestGoldBallJackpotAmountMode(t *testing.T) {
	results, err := newSource(t, GoldBallJackpotAmount).FetchResults(context.Background(), 2024)
	if err != nil {
		t.Fatalf("FetchResults: %v", err)
	}
	if results[0].GoldBall.IsGoldBallDrawn {
		t.Error("a $16,000,000 gold ball prize should not be flagged")
	}
	if !results[1].GoldBall.IsGoldBallDrawn {
		t.Error("a $1,000,000 gold ball prize should be flagged")
	}
}

func TestFetchResult(t *testing.T) {
	s := newSource(t, GoldBallMarker)
	ctx := context.Background()

	result, err := s.FetchResult(ctx, domain.NewDate(2023, time.December, 30))
	if err != nil {
		t.Fatalf("FetchResult: %v", err)
	}
	if result.Classic.Bonus != 35 || result.Classic.Prize != nil {
		t.Errorf("classic = %+v, want bonus 35 and no jackpot", result.Classic)
	}
	if result.GoldBall != nil || result.Guaranteed != nil {
		t.Errorf("secondary draws = %+v, %+v, want none", result.GoldBall, result.Guaranteed)
	}

	if _, err = s.FetchResult(ctx, domain.NewDate(2024, time.April, 13)); !errors.Is(err, constants.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestFetchBreakdown(t *testing.T) {
	s := newSource(t, GoldBallMarker)
	ctx := context.Background()

	b, err := s.FetchBreakdown(ctx, domain.NewDate(2024, time.April, 10))
	if err != nil {
		t.Fatalf("FetchBreakdown: %v", err)
	}

	tiers := b.NumbersMatched
	if len(tiers) != 4 {
		t.Fatalf("tiers = %d, want 4 (totals and gold ball rows dropped)", len(tiers))
	}
	if tiers[2].Match != "Match 3" || *tiers[2].TotalWinners != 1200 {
		t.Errorf("tier 2 = %+v", tiers[2])
	}
	if !tiers[1].PrizePerWinner.Equal(domain.AmountPrize(decimal.NewFromInt(150000))) {
		t.Errorf("per winner = %s, want 150000", tiers[1].PrizePerWinner)
	}

	matchTwo := tiers[3]
	if !matchTwo.PrizePerWinner.IsFreePlay() || matchTwo.PrizeFund != nil || *matchTwo.TotalWinners != 10000 {
		t.Errorf("Match 2 = %+v, want Free Play with no fund", matchTwo)
	}

	if b.Summary.TotalWinners != 11202 || !b.Summary.TotalPrizeFund.Equal(decimal.NewFromInt(312000)) {
		t.Errorf("summary = %+v, want 11202 winners and 312000", b.Summary)
	}

	for _, date := range []domain.Date{domain.NewDate(2024, time.April, 6), domain.NewDate(2023, time.December, 30)} {
		if _, err = s.FetchBreakdown(ctx, date); !errors.Is(err, constants.ErrNotFound) {
			t.Errorf("%s: err = %v, want ErrNotFound", date, err)
		}
	}
}

func TestParseBreakdownKeepsFirstRepeatedTier(t *testing.T) {
	const page = `<html><body><table><tbody>
<tr><td>Match 6</td><td data-title="Prize">$5,000,000.00</td><td>1</td><td>$5,000,000.00</td></tr>
<tr><td>Match 6</td><td data-title="Prize">$5,000,000.00</td><td>1</td><td>$5,000,000.00</td></tr>
<tr><td>Match 2</td><td data-title="Prize">$5.00</td><td>3</td><td>$15.00</td></tr>
<tr><td>Totals</td><td></td><td>5</td><td>$10,000,015.00</td></tr>
</tbody></table></body></html>`

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		t.Fatal(err)
	}

	b, err := parseBreakdown(doc, domain.NewDate(2024, time.April, 10))
	if err != nil {
		t.Fatalf("parseBreakdown: %v", err)
	}
	if len(b.NumbersMatched) != 2 || b.NumbersMatched[0].Match != "Match 6" || b.NumbersMatched[1].Match != "Match 2" {
		t.Fatalf("tiers = %+v, want Match 6 then Match 2", b.NumbersMatched)
	}
	if b.Summary.TotalWinners != 4 {
		t.Errorf("total winners = %d, want 4", b.Summary.TotalWinners)
	}
	if !b.Summary.TotalPrizeFund.Equal(decimal.NewFromInt(5000000)) {
		t.Errorf("total prize fund = %s, want 5000000", b.Summary.TotalPrizeFund)
	}
}
