// Package config defines the data structures related to configuration and
// includes functions for loading and checking the config.
package config

import (
	"fmt"
	"strings"

	"github.com/iwvelando/liquidity-forecast/pkg/constants"
	"github.com/iwvelando/liquidity-forecast/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for liquidity-forecast.
type Configuration struct {
	Logging  LoggingConfig  `yaml:"logging,omitempty"`
	Output   OutputConfig   `yaml:"output,omitempty"`
	Database DatabaseConfig `yaml:"database,omitempty"`
	Redis    RedisConfig    `yaml:"redis,omitempty"`
	Ledger   LedgerConfig   `yaml:"ledger,omitempty"`
	Plan     PlanFile       `yaml:"plan,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv, yaml
}

// DatabaseConfig selects the persistence backend.
type DatabaseConfig struct {
	Driver string `yaml:"driver,omitempty"` // sqlite, postgres
	DSN    string `yaml:"dsn,omitempty"`
}

// RedisConfig configures the IST sync lock. An empty address keeps the lock in-process.
type RedisConfig struct {
	Addr           string `yaml:"addr,omitempty"`
	Password       string `yaml:"password,omitempty"`
	DB             int    `yaml:"db,omitempty"`
	LockTTLSeconds int    `yaml:"lockTTLSeconds,omitempty"`
}

// LedgerConfig points at the ledger aggregation service.
type LedgerConfig struct {
	BaseURL        string `yaml:"baseURL,omitempty"`
	APIKey         string `yaml:"apiKey,omitempty"`
	TimeoutSeconds int    `yaml:"timeoutSeconds,omitempty"`
}

// PlanFile describes a plan for offline calculation. Amounts are locale
// strings such as "40.000,00".
type PlanFile struct {
	CaseID               string                       `yaml:"caseId,omitempty"`
	StartDate            string                       `yaml:"startDate,omitempty"`
	PeriodType           string                       `yaml:"periodType,omitempty"`
	PeriodCount          int                          `yaml:"periodCount,omitempty"`
	OpeningBalance       string                       `yaml:"openingBalance,omitempty"`
	OpeningBalanceSource string                       `yaml:"openingBalanceSource,omitempty"`
	CreditLine           string                       `yaml:"creditLine,omitempty"`
	CreditLineSource     string                       `yaml:"creditLineSource,omitempty"`
	Reserves             string                       `yaml:"reserves,omitempty"`
	IstCutoffOverride    *int                         `yaml:"istCutoffOverride,omitempty"`
	IstPeriodCount       int                          `yaml:"istPeriodCount,omitempty"`
	Ist                  []IstEntry                   `yaml:"ist,omitempty"`
	Assumptions          []validation.AssumptionInput `yaml:"assumptions,omitempty"`
}

// IstEntry is one reconciled period total in a plan file.
type IstEntry struct {
	PeriodIndex int    `yaml:"periodIndex"`
	CashIn      string `yaml:"cashIn"`
	CashOut     string `yaml:"cashOut"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. Every key can be overridden from the environment,
// e.g. LF_DATABASE_DSN for database.dsn.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	var configuration Configuration
	err := v.Unmarshal(&configuration)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	return &configuration, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.outputFile", "")
	v.SetDefault("output.format", constants.OutputFormatPretty)
	v.SetDefault("database.driver", constants.DefaultDatabaseDriver)
	v.SetDefault("database.dsn", constants.DefaultDatabaseDSN)
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.lockTTLSeconds", constants.DefaultSyncLockTTLSeconds)
	v.SetDefault("ledger.baseURL", "")
	v.SetDefault("ledger.apiKey", "")
	v.SetDefault("ledger.timeoutSeconds", constants.DefaultLedgerTimeoutSeconds)
	v.SetDefault("plan.periodType", constants.DefaultPeriodType)
	v.SetDefault("plan.periodCount", constants.DefaultPeriodCount)
}

// ValidateConfiguration checks the configuration and returns warnings for
// settings that work but are probably not intended.
func (conf *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if conf.Ledger.BaseURL == "" {
		warnings = append(warnings, "ledger.baseURL is not set, IST synchronization is unavailable")
	}
	if conf.Database.Driver == "sqlite" && strings.Contains(conf.Database.DSN, ":memory:") {
		warnings = append(warnings, "database is in-memory, data is lost on exit")
	}
	if conf.Redis.Addr == "" {
		warnings = append(warnings, "redis.addr is not set, IST sync lock is process-local")
	}
	if conf.Plan.StartDate != "" {
		if len(conf.Plan.Assumptions) == 0 {
			warnings = append(warnings, "plan has no assumptions, forecast periods will show 0")
		}
		if conf.Plan.CreditLine == "" {
			warnings = append(warnings, "plan has no creditLine, the forecast cannot be computed")
		}
	}

	return warnings
}
