package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/ougirez/canlotto/internal/domain"
	"github.com/ougirez/canlotto/internal/pkg/constants"
	"github.com/ougirez/canlotto/internal/pkg/metrics"
	"github.com/ougirez/canlotto/internal/pkg/utils"
	"github.com/ougirez/canlotto/internal/service/ingest"
	"github.com/spf13/viper"
)

type lottoMaxStub struct {
	years   []int
	regions map[domain.Region][]domain.NumbersMatched
}

func (s lottoMaxStub) Years(context.Context) ([]int, error) { return s.years, nil }

func (s lottoMaxStub) ResultsByYear(_ context.Context, year int) ([]domain.LottoMaxResult, error) {
	if year != 2024 {
		return nil, fmt.Errorf("year %d: %w", year, constants.ErrNotFound)
	}
	return []domain.LottoMaxResult{{Date: domain.NewDate(2024, 4, 12), Numbers: []int{1, 2, 3, 4, 5, 6, 7}, Bonus: 8}}, nil
}

func (s lottoMaxStub) BreakdownByDate(context.Context, domain.Date) (*domain.LottoMaxBreakdown, error) {
	return nil, constants.ErrNotFound
}

func (s lottoMaxStub) RegionBreakdownByDate(_ context.Context, _ domain.Date, region domain.Region) ([]domain.NumbersMatched, error) {
	tiers, ok := s.regions[region]
	if !ok {
		return nil, constants.ErrNotFound
	}
	return tiers, nil
}

type dailyGrandStub struct{}

func (dailyGrandStub) Years(context.Context) ([]int, error) { return []int{2016}, nil }

func (dailyGrandStub) ResultsByYear(context.Context, int) ([]domain.DailyGrandResult, error) {
	return nil, constants.ErrNotFound
}

func (dailyGrandStub) BreakdownByDate(context.Context, domain.Date) (*domain.DailyGrandBreakdown, error) {
	return nil, fmt.Errorf("select: connection reset")
}

type sixFortyNineStub struct{}

func (sixFortyNineStub) Years(context.Context) ([]int, error) { return []int{1982}, nil }

func (sixFortyNineStub) ResultsByYear(context.Context, int) ([]domain.SixFortyNineResult, error) {
	return nil, constants.ErrNotFound
}

func (sixFortyNineStub) BreakdownByDate(context.Context, domain.Date) (*domain.Breakdown, error) {
	return &domain.Breakdown{Summary: domain.Summary{TotalWinners: 3}}, nil
}

type ingesterStub struct {
	calls []string
}

func (s *ingesterStub) Ingest(_ context.Context, game domain.GameName, date domain.Date) (ingest.Report, error) {
	s.calls = append(s.calls, string(game)+"@"+date.String())
	return ingest.Report{RunID: "run-1", Game: game, Date: date, Outcome: ingest.OutcomeStored}, nil
}

func newTestAPI(t *testing.T, opts Options) (*APIService, *ingesterStub) {
	t.Helper()

	ingester := &ingesterStub{}
	one := 1
	svc := NewAPIService(opts, Services{
		LottoMax: lottoMaxStub{
			years: []int{2023, 2024},
			regions: map[domain.Region][]domain.NumbersMatched{
				domain.RegionOntario: {{Match: "7/7", TotalWinners: &one, PrizePerWinner: domain.Prize{Label: domain.FreePlay}}},
			},
		},
		DailyGrand:   dailyGrandStub{},
		SixFortyNine: sixFortyNineStub{},
		Ingester:     ingester,
		Metrics:      metrics.NewRecorder(),
	})
	return svc, ingester
}

func do(svc *APIService, method, target string, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	svc.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) domain.ErrorResponse {
	t.Helper()
	var resp domain.ErrorResponse
	if err := sonic.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return resp
}

func TestReadRoutes(t *testing.T) {
	svc, _ := newTestAPI(t, Options{})

	tests := []struct {
		name   string
		target string
		code   int
		body   string
	}{
		{"lottomax years", "/api/v1/lottomax/years", http.StatusOK, `"years":[2023,2024]`},
		{"lottomax results", "/api/v1/lottomax/years/2024", http.StatusOK, `"numbers":[1,2,3,4,5,6,7]`},
		{"lottomax empty year", "/api/v1/lottomax/years/2019", http.StatusNotFound, ""},
		{"lottomax breakdown missing", "/api/v1/lottomax/results/2024-04-12", http.StatusNotFound, ""},
		{"lottomax region", "/api/v1/lottomax/results/2024-04-12/regions/ontario", http.StatusOK, `"totalWinners":1`},
		{"lottomax region missing", "/api/v1/lottomax/results/2024-04-12/regions/quebec", http.StatusNotFound, ""},
		{"lottomax bad region", "/api/v1/lottomax/results/2024-04-12/regions/yukon", http.StatusBadRequest, ""},
		{"daily grand years", "/api/v1/daily-grand/years", http.StatusOK, `"game":"dailygrand"`},
		{"daily grand storage failure", "/api/v1/daily-grand/results/2024-04-11", http.StatusInternalServerError, "connection reset"},
		{"6/49 breakdown", "/api/v1/6-49/results/2024-04-10", http.StatusOK, `"totalWinners":3`},
		{"bad year", "/api/v1/6-49/years/abc", http.StatusBadRequest, ""},
		{"year out of range", "/api/v1/6-49/years/1700", http.StatusBadRequest, ""},
		{"bad date", "/api/v1/6-49/results/2024-13-40", http.StatusBadRequest, ""},
		{"unknown route", "/api/v1/keno/years", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(svc, http.MethodGet, tt.target, "")
			if rec.Code != tt.code {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.code, rec.Body.String())
			}
			if tt.body != "" && !strings.Contains(rec.Body.String(), tt.body) {
				t.Errorf("body %s does not contain %s", rec.Body.String(), tt.body)
			}
			if tt.code >= http.StatusBadRequest {
				if resp := decodeError(t, rec); resp.Code != tt.code {
					t.Errorf("error code = %d, want %d", resp.Code, tt.code)
				}
			}
		})
	}
}

func TestRootAndMetrics(t *testing.T) {
	svc, _ := newTestAPI(t, Options{RootPath: "/lotto", Version: "1.2.0"})

	rec := do(svc, http.MethodGet, "/lotto/", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"version":"1.2.0"`) {
		t.Fatalf("root = %d %s", rec.Code, rec.Body.String())
	}

	rec = do(svc, http.MethodGet, "/lotto/api/v1/lottomax/years", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("prefixed years = %d", rec.Code)
	}

	rec = do(svc, http.MethodGet, "/lotto/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics = %d", rec.Code)
	}
}

func TestRapidAPIMiddleware(t *testing.T) {
	svc, _ := newTestAPI(t, Options{RapidAPISecret: "proxy-secret"})

	rec := do(svc, http.MethodGet, "/api/v1/lottomax/years", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("without header = %d, want 401", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/lottomax/years", nil)
	req.Header.Set(constants.HeaderRapidAPIProxySecret, "wrong")
	rec = httptest.NewRecorder()
	svc.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong header = %d, want 401", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/lottomax/years", nil)
	req.Header.Set(constants.HeaderRapidAPIProxySecret, "proxy-secret")
	rec = httptest.NewRecorder()
	svc.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("with header = %d, want 200", rec.Code)
	}

	// root stays public
	if rec := do(svc, http.MethodGet, "/", ""); rec.Code != http.StatusOK {
		t.Fatalf("root = %d", rec.Code)
	}
}

func TestAdminIngest(t *testing.T) {
	viper.Set(constants.ViperSecretKey, "admin-secret")
	viper.Set(constants.ViperSigningKey, "signing-key")
	t.Cleanup(viper.Reset)

	svc, ingester := newTestAPI(t, Options{})

	rec := do(svc, http.MethodPost, "/api/v1/admin/ingest/lottomax?date=2024-04-12", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("without cookie = %d, want 401", rec.Code)
	}

	rec = do(svc, http.MethodPost, "/api/v1/admin/login", `{"secret":"nope"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong secret login = %d, want 401", rec.Code)
	}

	rec = do(svc, http.MethodPost, "/api/v1/admin/login", `{"secret":"admin-secret"}`)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("login = %d %s", rec.Code, rec.Body.String())
	}
	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == constants.CookieKeySecretToken {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("login did not set the token cookie")
	}

	rec = do(svc, http.MethodPost, "/api/v1/admin/ingest/lotto-max?date=2024-04-12", "", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("ingest = %d %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"outcome":"stored"`) {
		t.Errorf("ingest body = %s", rec.Body.String())
	}
	if len(ingester.calls) != 1 || ingester.calls[0] != "lottomax@2024-04-12" {
		t.Errorf("ingester calls = %v", ingester.calls)
	}

	rec = do(svc, http.MethodPost, "/api/v1/admin/ingest/keno?date=2024-04-12", "", cookie)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown game = %d, want 400", rec.Code)
	}
	rec = do(svc, http.MethodPost, "/api/v1/admin/ingest/lottomax", "", cookie)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing date = %d, want 400", rec.Code)
	}

	forged, err := utils.NewAuthToken("someone-else", 0)
	if err != nil {
		t.Fatal(err)
	}
	rec = do(svc, http.MethodPost, "/api/v1/admin/ingest/lottomax?date=2024-04-12", "",
		&http.Cookie{Name: constants.CookieKeySecretToken, Value: forged})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("forged token = %d, want 401", rec.Code)
	}
}

func TestAdminLoginWithoutConfiguredSecret(t *testing.T) {
	viper.Set(constants.ViperSigningKey, "signing-key")
	t.Cleanup(viper.Reset)

	svc, _ := newTestAPI(t, Options{})

	for _, body := range []string{`{"secret":"anything"}`, `{"secret":""}`} {
		if rec := do(svc, http.MethodPost, "/api/v1/admin/login", body); rec.Code == http.StatusNoContent {
			t.Errorf("login with %s succeeded without a configured admin secret", body)
		}
	}

	rec := do(svc, http.MethodPost, "/api/v1/admin/login", `{"secret":"anything"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("login = %d, want 401", rec.Code)
	}
}
