package config

import (
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/fleshka4/amm-validator/internal/amm"
	"github.com/fleshka4/amm-validator/internal/cell"
)

// Config holds application configuration.
type Config struct {
	Server   Server   `yaml:"server"`
	LogLevel string   `yaml:"log_level"`
	Protocol Protocol `yaml:"protocol"`
}

// Server configures the HTTP transport.
type Server struct {
	ListenAddr        string        `yaml:"listen_addr"`
	GraceTimeout      time.Duration `yaml:"shutdown_timeout"`
	RequestTimeout    time.Duration `yaml:"request_timeout"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	MaxBodyBytes      int64         `yaml:"max_body_bytes"`
}

// Protocol holds the pool constants every transaction is checked against.
// Code hashes are 0x-prefixed hex.
type Protocol struct {
	InfoCapacity     uint64 `yaml:"info_capacity"`
	PoolBaseCapacity uint64 `yaml:"pool_base_capacity"`
	OrderCapacity    uint64 `yaml:"order_capacity"`
	InfoVersion      uint8  `yaml:"info_version"`
	InfoTypeCodeHash string `yaml:"info_type_code_hash"`
	InfoLockCodeHash string `yaml:"info_lock_code_hash"`
}

const (
	defaultTimeout      = 5 * time.Second
	defaultListenAddr   = ":1337"
	defaultMaxBodyBytes = 1 << 20
	defaultLogLevel     = "info"
)

// Load reads the YAML file at path, if any, then applies AMM_* environment
// variables and the flags that were explicitly set.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	var cfg Config
	if path != "" {
		if err := readFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := override(&cfg, flags); err != nil {
		return Config{}, err
	}

	// Fallbacks
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = defaultListenAddr
	}
	if cfg.Server.GraceTimeout == 0 {
		cfg.Server.GraceTimeout = defaultTimeout
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = defaultTimeout
	}
	if cfg.Server.ReadHeaderTimeout == 0 {
		cfg.Server.ReadHeaderTimeout = defaultTimeout
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = defaultMaxBodyBytes
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}
	if cfg.Protocol.InfoCapacity == 0 {
		cfg.Protocol.InfoCapacity = amm.DefaultInfoCapacity
	}
	if cfg.Protocol.PoolBaseCapacity == 0 {
		cfg.Protocol.PoolBaseCapacity = amm.DefaultPoolBaseCapacity
	}
	if cfg.Protocol.OrderCapacity == 0 {
		cfg.Protocol.OrderCapacity = amm.DefaultOrderCapacity
	}
	if cfg.Protocol.InfoVersion == 0 {
		cfg.Protocol.InfoVersion = amm.DefaultInfoVersion
	}

	if err := cfg.validate(); err != nil {
		return Config{}, errors.Wrap(err, "invalid config")
	}
	return cfg, nil
}

func readFile(path string, cfg *Config) (err error) {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "os.Open")
	}
	defer func() {
		err = multierr.Append(err, errors.Wrap(f.Close(), "f.Close"))
	}()

	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return errors.Wrap(err, "decoder.Decode")
	}
	return nil
}

// override layers environment variables and changed flags over the file
// values. Keys use the flag spelling: AMM_LISTEN_ADDR or --listen-addr.
func override(cfg *Config, flags *pflag.FlagSet) error {
	v := viper.New()
	v.SetEnvPrefix("AMM")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return errors.Wrap(err, "v.BindPFlags")
		}
	}

	setString(v, "listen-addr", &cfg.Server.ListenAddr)
	setString(v, "log-level", &cfg.LogLevel)
	setString(v, "info-type-code-hash", &cfg.Protocol.InfoTypeCodeHash)
	setString(v, "info-lock-code-hash", &cfg.Protocol.InfoLockCodeHash)
	if v.IsSet("request-timeout") {
		cfg.Server.RequestTimeout = v.GetDuration("request-timeout")
	}
	if v.IsSet("order-capacity") {
		cfg.Protocol.OrderCapacity = v.GetUint64("order-capacity")
	}
	return nil
}

func setString(v *viper.Viper, key string, dst *string) {
	if v.IsSet(key) {
		*dst = v.GetString(key)
	}
}

func (c Config) validate() error {
	var err error
	if c.Server.GraceTimeout < 0 || c.Server.RequestTimeout < 0 || c.Server.ReadHeaderTimeout < 0 {
		err = multierr.Append(err, errors.New("timeouts cannot be negative"))
	}
	if c.Server.MaxBodyBytes < 0 {
		err = multierr.Append(err, errors.New("max_body_bytes cannot be negative"))
	}
	if c.Protocol.OrderCapacity >= c.Protocol.PoolBaseCapacity+c.Protocol.InfoCapacity {
		err = multierr.Append(err, errors.New("order_capacity exceeds pool capacities"))
	}
	if _, e := parseCodeHash(c.Protocol.InfoTypeCodeHash); e != nil {
		err = multierr.Append(err, errors.Wrap(e, "info_type_code_hash"))
	}
	if _, e := parseCodeHash(c.Protocol.InfoLockCodeHash); e != nil {
		err = multierr.Append(err, errors.Wrap(e, "info_lock_code_hash"))
	}
	return err
}

// Params converts the protocol section into validator constants.
func (c Config) Params() (amm.Params, error) {
	infoType, err := parseCodeHash(c.Protocol.InfoTypeCodeHash)
	if err != nil {
		return amm.Params{}, errors.Wrap(err, "info_type_code_hash")
	}
	infoLock, err := parseCodeHash(c.Protocol.InfoLockCodeHash)
	if err != nil {
		return amm.Params{}, errors.Wrap(err, "info_lock_code_hash")
	}

	p := amm.DefaultParams(infoType, infoLock)
	p.InfoCapacity = c.Protocol.InfoCapacity
	p.PoolBaseCapacity = c.Protocol.PoolBaseCapacity
	p.OrderCapacity = c.Protocol.OrderCapacity
	p.InfoVersion = c.Protocol.InfoVersion
	return p, nil
}

func parseCodeHash(s string) (cell.Hash, error) {
	if s == "" {
		return cell.Hash{}, errors.New("is required")
	}
	b, err := hexutil.Decode(s)
	if err != nil {
		return cell.Hash{}, errors.Wrap(err, "hexutil.Decode")
	}
	if len(b) != common.HashLength {
		return cell.Hash{}, errors.Errorf("want %d bytes, got %d", common.HashLength, len(b))
	}
	return cell.Hash(common.BytesToHash(b)), nil
}
