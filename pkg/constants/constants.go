// Package constants provides shared constants for the liquidity-forecast application.
package constants

// DateLayout is the format expected in plan files and is also the output
// date format.
const DateLayout = "2006-01-02"

// Period types
const (
	PeriodTypeWeekly  = "WEEKLY"
	PeriodTypeMonthly = "MONTHLY"
)

// Data sources of a forecast period
const (
	DataSourceIST      = "IST"
	DataSourceForecast = "FORECAST"
)

// Flow directions of an assumption
const (
	FlowTypeInflow  = "INFLOW"
	FlowTypeOutflow = "OUTFLOW"
)

// Assumption formula kinds
const (
	AssumptionTypeRunRate             = "RUN_RATE"
	AssumptionTypeFixed               = "FIXED"
	AssumptionTypeOneTime             = "ONE_TIME"
	AssumptionTypePercentageOfRevenue = "PERCENTAGE_OF_REVENUE"
)

// Visibility scopes
const (
	VisibilityIntern = "INTERN"
	VisibilityExtern = "EXTERN"
)

// Financial constants
const (
	// MonthsPerYear is the number of months in a year and the length of a
	// seasonal profile.
	MonthsPerYear = 12

	// DaysPerWeek is the step between weekly period start dates.
	DaysPerWeek = 7

	// CentsPerUnit is the number of cents in one currency unit.
	CentsPerUnit = 100

	// PercentageMultiplier is used for percentage conversions.
	PercentageMultiplier = 100

	// PercentageBasisPoints is the divisor for PERCENTAGE_OF_REVENUE base
	// amounts, which are stored as percent x 100 (1000 = 10%).
	PercentageBasisPoints = 10000

	// MaxDecimalPlaces is the maximum number of fractional digits accepted
	// for amounts and growth factors.
	MaxDecimalPlaces = 2
)

// Plan defaults
const (
	DefaultPeriodCount   = 13
	DefaultPeriodType    = PeriodTypeWeekly
	DefaultBalanceSource = "Manuell"
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatYAML is the YAML export format
	OutputFormatYAML = "yaml"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix is the prefix for environment overrides of config keys.
	EnvPrefix = "LF"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size (256 KB)
	DefaultMaxBodySizeBytes int64 = 256 * 1024

	// DefaultReadHeaderTimeoutSeconds bounds how long request headers may take.
	DefaultReadHeaderTimeoutSeconds = 10

	// DefaultShutdownTimeoutSeconds bounds graceful shutdown.
	DefaultShutdownTimeoutSeconds = 10
)

// Integration defaults
const (
	// DefaultLedgerTimeoutSeconds is the HTTP timeout for ledger aggregation calls.
	DefaultLedgerTimeoutSeconds = 30

	// DefaultSyncLockTTLSeconds is how long an IST sync lock is held at most.
	DefaultSyncLockTTLSeconds = 60

	// DefaultDatabaseDriver is used when no driver is configured.
	DefaultDatabaseDriver = "sqlite"

	// DefaultDatabaseDSN is used when no DSN is configured.
	DefaultDatabaseDSN = "liquidity-forecast.db"
)
