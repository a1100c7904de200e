package constants

const (
	CookieKeySecretToken = "secret_token"

	HeaderRapidAPIProxySecret = "X-RapidAPI-Proxy-Secret"

	EnvDev  = "DEV"
	EnvProd = "PROD"
)

// viper keys
const (
	ViperEnvKey              = "env"
	ViperLogLevelKey         = "log.level"
	ViperServerAddrKey       = "server.addr"
	ViperServerRootPathKey   = "server.root_path"
	ViperRapidAPISecretKey   = "security.rapidapi_proxy_secret"
	ViperSigningKey          = "security.admin_signing_key"
	ViperSecretKey           = "security.admin_secret"
	ViperDatabaseDSNKey      = "database.dsn"
	ViperDatabaseMaxConnsKey = "database.max_conns"
	ViperHTTPTimeoutKey      = "http.timeout"
	ViperHTTPRetriesKey      = "http.retries"
	ViperHTTPRetryIntKey     = "http.retry_interval"
	ViperHTTPUserAgentKey    = "http.user_agent"
	ViperLottoMaxURLKey      = "sources.lottomax_base_url"
	ViperPlayNowURLKey       = "sources.playnow_base_url"
	ViperLottoNumbersURLKey  = "sources.lottonumbers_base_url"
	ViperGoldBallFlagKey     = "sixfortynine.gold_ball_flag"
	ViperSchedulerEnabledKey = "scheduler.enabled"
	ViperSchedulerTZKey      = "scheduler.timezone"
	ViperScheduleLottoMaxKey = "scheduler.lottomax"
	ViperScheduleGrandKey    = "scheduler.dailygrand"
	ViperSchedule649Key      = "scheduler.sixfortynine"
	ViperSMTPHostKey         = "smtp.host"
	ViperSMTPPortKey         = "smtp.port"
	ViperSMTPUsernameKey     = "smtp.username"
	ViperSMTPPasswordKey     = "smtp.password"
	ViperSMTPFromKey         = "smtp.from"
	ViperSMTPToKey           = "smtp.to"
	ViperTelegramTokenKey    = "telegram.token"
	ViperTelegramChatIDKey   = "telegram.chat_id"
)
