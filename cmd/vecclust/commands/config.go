package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/hupe1980/vecclust"
)

// Config is the effective CLI configuration.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Input     InputConfig     `mapstructure:"input"`
	Cluster   ClusterConfig   `mapstructure:"cluster"`
	Store     StoreConfig     `mapstructure:"store"`
	Resources ResourcesConfig `mapstructure:"resources"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// LogConfig selects log level and format.
type LogConfig struct {
	Level  string `mapstructure:"level"  validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
}

// InputConfig describes the vectors to read.
type InputConfig struct {
	Path string `mapstructure:"path"`
	// Format is auto (by extension), vclv or csv.
	Format string `mapstructure:"format" validate:"oneof=auto vclv csv"`
	// Precision applies to CSV input; vector files carry their own.
	Precision string `mapstructure:"precision" validate:"oneof=float32 float64"`
}

// ClusterConfig holds the k-means parameters.
type ClusterConfig struct {
	K              int     `mapstructure:"k"               validate:"min=0"`
	MaxIterations  int     `mapstructure:"max_iterations"  validate:"min=1"`
	DeltaThreshold float64 `mapstructure:"delta_threshold" validate:"gte=0,lte=1"`
	Restarts       int     `mapstructure:"restarts"        validate:"min=1"`
	Concurrency    int     `mapstructure:"concurrency"     validate:"min=0"`
	Sampler        string  `mapstructure:"sampler"         validate:"oneof=uniform kmeans++ kmeanspp"`
	Seed           int64   `mapstructure:"seed"`
	Silhouette     bool    `mapstructure:"silhouette"`

	// SeedSet records whether a seed was given; unset seeds are time based.
	SeedSet bool `mapstructure:"-"`
}

// StoreConfig selects where models are saved and loaded.
type StoreConfig struct {
	Type        string `mapstructure:"type"        validate:"oneof=none local minio s3"`
	Compression string `mapstructure:"compression" validate:"oneof=none lz4 zstd"`
	Codec       string `mapstructure:"codec"       validate:"oneof=json go-json"`

	Local LocalStoreConfig `mapstructure:"local" validate:"-"`
	MinIO MinIOStoreConfig `mapstructure:"minio" validate:"-"`
	S3    S3StoreConfig    `mapstructure:"s3"    validate:"-"`
}

// LocalStoreConfig configures the filesystem store.
type LocalStoreConfig struct {
	Dir string `mapstructure:"dir" validate:"required"`
}

// MinIOStoreConfig configures the MinIO store.
type MinIOStoreConfig struct {
	Endpoint        string `mapstructure:"endpoint"          validate:"required"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	Bucket          string `mapstructure:"bucket"            validate:"required"`
	Prefix          string `mapstructure:"prefix"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// S3StoreConfig configures the S3 store and optional DynamoDB pointer.
type S3StoreConfig struct {
	Bucket        string `mapstructure:"bucket"         validate:"required"`
	Prefix        string `mapstructure:"prefix"`
	Region        string `mapstructure:"region"`
	DynamoDBTable string `mapstructure:"dynamodb_table"`
}

// ResourcesConfig limits process resources.
type ResourcesConfig struct {
	MaxWorkers         int64 `mapstructure:"max_workers"           validate:"min=0"`
	IOLimitBytesPerSec int64 `mapstructure:"io_limit_bytes_per_sec" validate:"min=0"`
}

// MetricsConfig enables the Prometheus endpoint.
type MetricsConfig struct {
	// Addr serves /metrics while a command runs, e.g. ":9090".
	Addr string `mapstructure:"addr" validate:"omitempty,hostname_port"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("input.format", "auto")
	v.SetDefault("input.precision", "float64")
	v.SetDefault("cluster.max_iterations", 10)
	v.SetDefault("cluster.delta_threshold", 0.05)
	v.SetDefault("cluster.restarts", 1)
	v.SetDefault("cluster.sampler", "uniform")
	v.SetDefault("store.type", "none")
	v.SetDefault("store.compression", "zstd")
	v.SetDefault("store.codec", "go-json")

	// keys without a meaningful default are registered so environment
	// variables reach Unmarshal
	for _, key := range []string{
		"input.path",
		"cluster.k",
		"cluster.concurrency",
		"cluster.seed",
		"cluster.silhouette",
		"store.local.dir",
		"store.minio.endpoint",
		"store.minio.access_key_id",
		"store.minio.secret_access_key",
		"store.minio.bucket",
		"store.minio.prefix",
		"store.minio.use_ssl",
		"store.s3.bucket",
		"store.s3.prefix",
		"store.s3.region",
		"store.s3.dynamodb_table",
		"resources.max_workers",
		"resources.io_limit_bytes_per_sec",
		"metrics.addr",
	} {
		v.SetDefault(key, nil)
	}
}

// newViper creates a viper instance reading path (if set) and VECCLUST_
// environment variables.
func newViper(path string) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("VECCLUST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config error: %w", err)
		}
	}
	return v, nil
}

// loadConfig unmarshals and validates the configuration held by v.
func loadConfig(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config error: %w", err)
	}
	// unchanged flags and nil defaults do not count as set
	cfg.Cluster.SeedSet = v.IsSet("cluster.seed")
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validate = validator.New()

// Validate checks the configuration, including the settings of the selected
// store.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	var err error
	switch c.Store.Type {
	case "local":
		err = validate.Struct(c.Store.Local)
	case "minio":
		err = validate.Struct(c.Store.MinIO)
	case "s3":
		err = validate.Struct(c.Store.S3)
	}
	if err != nil {
		return fmt.Errorf("config validation failed: store %s: %w", c.Store.Type, err)
	}
	return nil
}

// requireInput checks the settings only the run and assign commands need.
func (c *Config) requireInput() error {
	if c.Input.Path == "" {
		return errors.New("input path is required, use --input")
	}
	return nil
}

func (c *Config) logLevel() slog.Level {
	var level slog.Level
	// validated above
	_ = level.UnmarshalText([]byte(c.Log.Level))
	return level
}

func (c *Config) logger() *vecclust.Logger {
	if c.Log.Format == "json" {
		return vecclust.NewJSONLogger(c.logLevel())
	}
	return vecclust.NewTextLogger(c.logLevel())
}
