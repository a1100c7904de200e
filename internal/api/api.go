package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/ougirez/canlotto/internal/api/controller"
	"github.com/ougirez/canlotto/internal/pkg/metrics"
)

type Options struct {
	RootPath string
	// RapidAPISecret is required on every /api/v1 request when set.
	RapidAPISecret string
	AllowOrigins   []string
	Version        string
	Debug          bool
}

type Services struct {
	LottoMax     controller.LottoMaxService
	DailyGrand   controller.DailyGrandService
	SixFortyNine controller.SixFortyNineService
	Ingester     controller.Ingester
	Metrics      *metrics.Recorder
}

type APIService struct {
	router         *echo.Echo
	rapidAPISecret string
}

// Serve blocks until the server stops. A server closed by Shutdown is not an error.
func (svc *APIService) Serve(addr string) error {
	if err := svc.router.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (svc *APIService) Shutdown(ctx context.Context) error {
	return svc.router.Shutdown(ctx)
}

func (svc *APIService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	svc.router.ServeHTTP(w, r)
}

func NewAPIService(opts Options, services Services) *APIService {
	svc := &APIService{router: echo.New(), rapidAPISecret: opts.RapidAPISecret}

	svc.router.HideBanner = true
	svc.router.HidePort = true
	svc.router.Debug = opts.Debug
	if opts.Debug {
		svc.router.Logger.SetLevel(log.DEBUG)
	} else {
		svc.router.Logger.SetLevel(log.INFO)
	}

	svc.router.Validator = NewValidator()
	svc.router.Binder = NewBinder()
	svc.router.JSONSerializer = JSONSerializer{}
	svc.router.HTTPErrorHandler = httpErrorHandler
	svc.router.Use(middleware.Recover())
	svc.router.Use(middleware.Logger())

	origins := opts.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	svc.router.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{echo.GET, echo.POST},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	cntrl := controller.NewController(
		services.LottoMax,
		services.DailyGrand,
		services.SixFortyNine,
		services.Ingester,
		opts.Version,
	)

	root := svc.router.Group(opts.RootPath)
	root.GET("/", cntrl.GetRoot)
	root.GET("/metrics", echo.WrapHandler(services.Metrics.Handler()))

	var guards []echo.MiddlewareFunc
	if opts.RapidAPISecret != "" {
		guards = append(guards, svc.RapidAPIMiddleware)
	}
	api := root.Group("/api/v1", guards...)

	lottomax := api.Group("/lottomax")
	lottomax.GET("/years", cntrl.GetLottoMaxYears)
	lottomax.GET("/years/:year", cntrl.GetLottoMaxResults)
	lottomax.GET("/results/:date", cntrl.GetLottoMaxBreakdown)
	lottomax.GET("/results/:date/regions/:region", cntrl.GetLottoMaxRegionBreakdown)

	dailyGrand := api.Group("/daily-grand")
	dailyGrand.GET("/years", cntrl.GetDailyGrandYears)
	dailyGrand.GET("/years/:year", cntrl.GetDailyGrandResults)
	dailyGrand.GET("/results/:date", cntrl.GetDailyGrandBreakdown)

	sixFortyNine := api.Group("/6-49")
	sixFortyNine.GET("/years", cntrl.GetSixFortyNineYears)
	sixFortyNine.GET("/years/:year", cntrl.GetSixFortyNineResults)
	sixFortyNine.GET("/results/:date", cntrl.GetSixFortyNineBreakdown)

	admin := api.Group("/admin")
	admin.POST("/login", cntrl.LoginAdmin)
	admin.POST("/ingest/:game", cntrl.IngestDraw, svc.AdminMiddleware)

	return svc
}
