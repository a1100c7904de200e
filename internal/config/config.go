// Package config loads the process configuration into the global viper
// instance and returns a typed view of it.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/ougirez/canlotto/internal/domain"
	"github.com/ougirez/canlotto/internal/pkg/constants"
	"github.com/spf13/viper"
)

const EnvPrefix = "LOTTO"

type Config struct {
	Env       string
	LogLevel  string
	Server    ServerConfig
	Database  DatabaseConfig
	HTTP      HTTPConfig
	Sources   SourcesConfig
	Scheduler SchedulerConfig
	SMTP      SMTPConfig
	Telegram  TelegramConfig
}

type ServerConfig struct {
	Addr           string
	RootPath       string
	RapidAPISecret string
}

type DatabaseConfig struct {
	DSN      string
	MaxConns int32
}

type HTTPConfig struct {
	Timeout       time.Duration
	Retries       int
	RetryInterval time.Duration
	UserAgent     string
}

type SourcesConfig struct {
	LottoMaxURL     string
	PlayNowURL      string
	LottoNumbersURL string
	GoldBallFlag    string
}

type SchedulerConfig struct {
	Enabled  bool
	Timezone string
	Specs    map[domain.GameName]string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       []string
}

func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.From != "" && len(c.To) > 0
}

type TelegramConfig struct {
	Token  string
	ChatID int64
}

func (c TelegramConfig) Enabled() bool {
	return c.Token != "" && c.ChatID != 0
}

func (c *Config) IsProd() bool {
	return strings.EqualFold(c.Env, constants.EnvProd)
}

// Load reads .env (when present), the optional config file at path and
// LOTTO_ prefixed environment variables, in increasing precedence.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults()

	if path != "" {
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{
		Env:      strings.ToUpper(viper.GetString(constants.ViperEnvKey)),
		LogLevel: viper.GetString(constants.ViperLogLevelKey),
		Server: ServerConfig{
			Addr:           viper.GetString(constants.ViperServerAddrKey),
			RootPath:       viper.GetString(constants.ViperServerRootPathKey),
			RapidAPISecret: viper.GetString(constants.ViperRapidAPISecretKey),
		},
		Database: DatabaseConfig{
			DSN:      viper.GetString(constants.ViperDatabaseDSNKey),
			MaxConns: viper.GetInt32(constants.ViperDatabaseMaxConnsKey),
		},
		HTTP: HTTPConfig{
			Timeout:       viper.GetDuration(constants.ViperHTTPTimeoutKey),
			Retries:       viper.GetInt(constants.ViperHTTPRetriesKey),
			RetryInterval: viper.GetDuration(constants.ViperHTTPRetryIntKey),
			UserAgent:     viper.GetString(constants.ViperHTTPUserAgentKey),
		},
		Sources: SourcesConfig{
			LottoMaxURL:     viper.GetString(constants.ViperLottoMaxURLKey),
			PlayNowURL:      viper.GetString(constants.ViperPlayNowURLKey),
			LottoNumbersURL: viper.GetString(constants.ViperLottoNumbersURLKey),
			GoldBallFlag:    viper.GetString(constants.ViperGoldBallFlagKey),
		},
		Scheduler: SchedulerConfig{
			Enabled:  viper.GetBool(constants.ViperSchedulerEnabledKey),
			Timezone: viper.GetString(constants.ViperSchedulerTZKey),
			Specs: map[domain.GameName]string{
				domain.GameLottoMax:     viper.GetString(constants.ViperScheduleLottoMaxKey),
				domain.GameDailyGrand:   viper.GetString(constants.ViperScheduleGrandKey),
				domain.GameSixFortyNine: viper.GetString(constants.ViperSchedule649Key),
			},
		},
		SMTP: SMTPConfig{
			Host:     viper.GetString(constants.ViperSMTPHostKey),
			Port:     viper.GetInt(constants.ViperSMTPPortKey),
			Username: viper.GetString(constants.ViperSMTPUsernameKey),
			Password: viper.GetString(constants.ViperSMTPPasswordKey),
			From:     viper.GetString(constants.ViperSMTPFromKey),
			To:       list(viper.GetStringSlice(constants.ViperSMTPToKey)),
		},
		Telegram: TelegramConfig{
			Token:  viper.GetString(constants.ViperTelegramTokenKey),
			ChatID: viper.GetInt64(constants.ViperTelegramChatIDKey),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults() {
	viper.SetDefault(constants.ViperEnvKey, constants.EnvDev)
	viper.SetDefault(constants.ViperLogLevelKey, "info")
	viper.SetDefault(constants.ViperServerAddrKey, ":8080")
	viper.SetDefault(constants.ViperDatabaseMaxConnsKey, 10)
	viper.SetDefault(constants.ViperHTTPTimeoutKey, 30*time.Second)
	viper.SetDefault(constants.ViperHTTPRetriesKey, 3)
	viper.SetDefault(constants.ViperHTTPRetryIntKey, 500*time.Millisecond)
	viper.SetDefault(constants.ViperGoldBallFlagKey, "marker")
	viper.SetDefault(constants.ViperSchedulerEnabledKey, true)
	viper.SetDefault(constants.ViperSchedulerTZKey, "America/Toronto")
	// draws are Tue+Fri, Mon+Thu and Wed+Sat; each runs the next morning
	viper.SetDefault(constants.ViperScheduleLottoMaxKey, "30 5 * * 3,6")
	viper.SetDefault(constants.ViperScheduleGrandKey, "30 5 * * 2,5")
	viper.SetDefault(constants.ViperSchedule649Key, "30 5 * * 4,0")
	viper.SetDefault(constants.ViperSMTPPortKey, 587)
}

func (c *Config) validate() error {
	if c.Database.DSN == "" {
		return fmt.Errorf("%s is required: %w", constants.ViperDatabaseDSNKey, constants.ErrBadRequest)
	}
	if c.IsProd() && c.Server.RapidAPISecret == "" {
		return fmt.Errorf("%s is required in %s: %w", constants.ViperRapidAPISecretKey, constants.EnvProd, constants.ErrBadRequest)
	}
	return nil
}

// list accepts both a YAML list and a comma separated environment value.
func list(values []string) []string {
	res := make([]string, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				res = append(res, part)
			}
		}
	}
	return res
}
