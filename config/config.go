// Package config loads the duesctl configuration.
//
// Values come, by increasing priority, from defaults, a dues.yaml file (in the
// current directory or $HOME/.config/dues), a .env file and DUES_ environment
// variables: store.kind is overridden by DUES_STORE_KIND.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/etnz/dues"
)

// Store kinds.
const (
	StoreJournal  = "journal"
	StoreCSV      = "csv"
	StoreSheets   = "sheets"
	StorePostgres = "postgres"
)

// Config holds the whole configuration.
type Config struct {
	Store   StoreConfig   `mapstructure:"store"`
	Billing BillingConfig `mapstructure:"billing"`
	Session SessionConfig `mapstructure:"session"`
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
}

type StoreConfig struct {
	Kind     string         `mapstructure:"kind"`
	Journal  string         `mapstructure:"journal"`
	CSV      CSVConfig      `mapstructure:"csv"`
	Sheets   SheetsConfig   `mapstructure:"sheets"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

// CSVConfig locates the CSV exports. Columns pins a field to a header name,
// for instance unit: "Door No".
type CSVConfig struct {
	Owners      string            `mapstructure:"owners"`
	Collections string            `mapstructure:"collections"`
	Expenses    string            `mapstructure:"expenses"`
	Columns     map[string]string `mapstructure:"columns"`
}

type SheetsConfig struct {
	URL     string        `mapstructure:"url"`
	Path    string        `mapstructure:"path"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type PostgresConfig struct {
	DSN string `mapstructure:"dsn"`
}

// BillingConfig is the billing policy as written by a human.
type BillingConfig struct {
	MonthlyCharge string `mapstructure:"monthly_charge"`
	AccrualStart  string `mapstructure:"accrual_start"`
	Currency      string `mapstructure:"currency"`
}

// SessionConfig is the local session of the CLI, and the admin token of the server.
type SessionConfig struct {
	Role  string `mapstructure:"role"`
	Token string `mapstructure:"token"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// defaults of every key. A key must have a default to be read from the environment.
var defaults = map[string]any{
	"store.kind":             StoreJournal,
	"store.journal":          "dues.jsonl",
	"store.csv.owners":       "",
	"store.csv.collections":  "",
	"store.csv.expenses":     "",
	"store.sheets.url":       "",
	"store.sheets.path":      "$.values",
	"store.sheets.timeout":   "15s",
	"store.postgres.dsn":     "",
	"billing.monthly_charge": "",
	"billing.accrual_start":  "",
	"billing.currency":       dues.DefaultCurrency,
	"session.role":           "viewer",
	"session.token":          "",
	"server.addr":            ":8080",
	"log.level":              "info",
}

// Load reads the configuration. If file is not empty it is the only
// configuration file read, and it must exist.
func Load(file string) (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("dues")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "dues"))
		}
	}
	v.SetEnvPrefix("DUES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading configuration: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding configuration: %w", err)
	}
	cfg.Store.Kind = strings.ToLower(strings.TrimSpace(cfg.Store.Kind))
	return cfg, nil
}

// Policy returns the billing policy, without an as-of date.
func (c Config) Policy() (dues.BillingPolicy, error) {
	var p dues.BillingPolicy
	if c.Billing.MonthlyCharge == "" {
		return p, fmt.Errorf("%w: billing.monthly_charge is not set", dues.ErrInvalidPolicy)
	}
	charge, err := dues.ParseDecimal(strings.TrimSpace(c.Billing.MonthlyCharge))
	if err != nil {
		return p, fmt.Errorf("%w: billing.monthly_charge %q: %v", dues.ErrInvalidPolicy, c.Billing.MonthlyCharge, err)
	}
	if c.Billing.AccrualStart == "" {
		return p, fmt.Errorf("%w: billing.accrual_start is not set", dues.ErrInvalidPolicy)
	}
	start, err := dues.ParseDate(c.Billing.AccrualStart)
	if err != nil {
		return p, fmt.Errorf("%w: billing.accrual_start: %v", dues.ErrInvalidPolicy, err)
	}
	p = dues.BillingPolicy{MonthlyCharge: charge, AccrualStart: start}
	return p, p.Validate()
}

// Currency returns the display currency.
func (c Config) Currency() string {
	if c.Billing.Currency == "" {
		return dues.DefaultCurrency
	}
	return strings.ToUpper(c.Billing.Currency)
}

// LocalSession returns the session of the CLI user. A local admin is
// authenticated by holding the token.
func (c Config) LocalSession() (dues.Session, error) {
	role, err := dues.ParseRole(c.Session.Role)
	if err != nil {
		return dues.Session{}, fmt.Errorf("session.role: %w", err)
	}
	return dues.Session{Role: role, Authenticated: role == dues.RoleViewer || c.Session.Token != ""}, nil
}
