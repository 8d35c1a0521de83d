package config

import (
	"errors"
	"fmt"
	"os"
	"time"
	_ "time/tzdata" // 容器內可能沒有 zoneinfo

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/JoeShih716/go-pix-ledger/internal/app/core/domain"
)

// 可選的記憶體引擎
const (
	EngineMutex = "mutex"
	EngineLMAX  = "lmax"
)

// Config 服務設定，對應 config/config.yaml
type Config struct {
	App    AppConfig    `yaml:"app"`
	Log    LogConfig    `yaml:"log"`
	HTTP   HTTPConfig   `yaml:"http"`
	GRPC   GRPCConfig   `yaml:"grpc"`
	Ledger LedgerConfig `yaml:"ledger"`
}

type AppConfig struct {
	Name string `yaml:"name"`
	Env  string `yaml:"env"` // development -> console log
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type HTTPConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type GRPCConfig struct {
	Addr string `yaml:"addr"`
}

// LedgerConfig 帳本設定
type LedgerConfig struct {
	Engine      string       `yaml:"engine"`
	Timezone    string       `yaml:"timezone"`
	JournalPath string       `yaml:"journal_path"` // 空字串代表不寫操作日誌
	Limits      LimitsConfig `yaml:"limits"`
}

// LimitsConfig 金額以字串表示，避免 yaml 轉成 float
type LimitsConfig struct {
	MinDeposit  string `yaml:"min_deposit"`
	MinWithdraw string `yaml:"min_withdraw"`
	MinTransfer string `yaml:"min_transfer"`
	MaxTransfer string `yaml:"max_transfer"`
}

// Default 回傳所有欄位都有值的預設設定
func Default() Config {
	limits := domain.DefaultLimits()
	return Config{
		App:  AppConfig{Name: "pix-ledger", Env: "production"},
		Log:  LogConfig{Level: "info"},
		HTTP: HTTPConfig{Addr: ":3333", ShutdownTimeout: 10 * time.Second},
		GRPC: GRPCConfig{Addr: ":50051"},
		Ledger: LedgerConfig{
			Engine:   EngineMutex,
			Timezone: "UTC",
			Limits: LimitsConfig{
				MinDeposit:  limits.MinDeposit.String(),
				MinWithdraw: limits.MinWithdraw.String(),
				MinTransfer: limits.MinTransfer.String(),
				MaxTransfer: limits.MaxTransfer.String(),
			},
		},
	}
}

// Load 讀取 yaml 檔並套用預設值
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse 解析 yaml 內容；沒寫到的欄位保留 Default() 的值
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate 檢查設定是否可用
func (c Config) Validate() error {
	var errs []error
	if c.HTTP.Addr == "" {
		errs = append(errs, errors.New("http.addr is required"))
	}
	if c.GRPC.Addr == "" {
		errs = append(errs, errors.New("grpc.addr is required"))
	}
	switch c.Ledger.Engine {
	case EngineMutex, EngineLMAX:
	default:
		errs = append(errs, fmt.Errorf("ledger.engine must be %q or %q, got %q", EngineMutex, EngineLMAX, c.Ledger.Engine))
	}
	if _, err := c.Ledger.Location(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Ledger.DomainLimits(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Location 對帳單按日查詢使用的時區
func (l LedgerConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(l.Timezone)
	if err != nil {
		return nil, fmt.Errorf("ledger.timezone: %w", err)
	}
	return loc, nil
}

// DomainLimits 把字串門檻轉成 domain.Limits
func (l LedgerConfig) DomainLimits() (domain.Limits, error) {
	var (
		limits domain.Limits
		err    error
	)
	if limits.MinDeposit, err = parseLimit("min_deposit", l.Limits.MinDeposit); err != nil {
		return domain.Limits{}, err
	}
	if limits.MinWithdraw, err = parseLimit("min_withdraw", l.Limits.MinWithdraw); err != nil {
		return domain.Limits{}, err
	}
	if limits.MinTransfer, err = parseLimit("min_transfer", l.Limits.MinTransfer); err != nil {
		return domain.Limits{}, err
	}
	if limits.MaxTransfer, err = parseLimit("max_transfer", l.Limits.MaxTransfer); err != nil {
		return domain.Limits{}, err
	}
	if limits.MaxTransfer.LessThan(limits.MinTransfer) {
		return domain.Limits{}, errors.New("ledger.limits.max_transfer must not be below min_transfer")
	}
	return limits, nil
}

func parseLimit(name, raw string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("ledger.limits.%s: %w", name, err)
	}
	if !v.IsPositive() {
		return decimal.Zero, fmt.Errorf("ledger.limits.%s must be positive", name)
	}
	return v, nil
}
