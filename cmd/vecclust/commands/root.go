package commands

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hupe1980/vecclust"
	vecprom "github.com/hupe1980/vecclust/metrics/prometheus"
	"github.com/hupe1980/vecclust/resource"
)

var (
	// Global flags
	cfgFile string

	v = viper.New()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "vecclust",
	Short: "Parallel k-means clustering of vector files",
	Long: `vecclust clusters fixed-dimension vectors with a parallel k-means engine.

Input is a vecclust vector file (.vclv) or a CSV file with one vector per row.
Trained models can be saved to a local directory, MinIO or Amazon S3.

Configuration is read from --config (yaml, toml or json) and from
environment variables prefixed with VECCLUST_, e.g. VECCLUST_CLUSTER_K=8.
Flags take precedence over both.

Examples:
  # Cluster a CSV file into 8 clusters with k-means++
  vecclust run -i points.csv -k 8 --sampler kmeans++

  # Cluster and save the model to a local directory
  vecclust run -i vectors.vclv -k 16 --store-type local --store-dir ./models --save products

  # Assign new vectors with the latest saved model
  vecclust assign -i new.csv --store-type local --store-dir ./models --name products
`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		nv, err := newViper(cfgFile)
		if err != nil {
			return err
		}
		v = nv
		return bindFlags(cmd)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (yaml, toml or json)")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.String("log-format", "text", "log format (text, json)")
	pf.String("store-type", "none", "model store (none, local, minio, s3)")
	pf.String("store-dir", "", "directory of the local model store")
	pf.String("compression", "zstd", "model compression (none, lz4, zstd)")
	pf.String("metrics-addr", "", "serve Prometheus metrics on this address while running")
	pf.Int64("max-workers", 0, "process wide limit of partition workers (0 = unlimited)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(assignCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(versionCmd)
}

// flagKeys maps flag names to config keys.
var flagKeys = map[string]string{
	"log-level":      "log.level",
	"log-format":     "log.format",
	"store-type":     "store.type",
	"store-dir":      "store.local.dir",
	"compression":    "store.compression",
	"metrics-addr":   "metrics.addr",
	"max-workers":    "resources.max_workers",
	"input":          "input.path",
	"format":         "input.format",
	"precision":      "input.precision",
	"k":              "cluster.k",
	"max-iterations": "cluster.max_iterations",
	"delta":          "cluster.delta_threshold",
	"restarts":       "cluster.restarts",
	"concurrency":    "cluster.concurrency",
	"sampler":        "cluster.sampler",
	"seed":           "cluster.seed",
	"silhouette":     "cluster.silhouette",
}

// bindFlags binds the flags of cmd that map to config keys. Changed flags
// win over environment and config file; unchanged ones only act as defaults.
func bindFlags(cmd *cobra.Command) error {
	for name, key := range flagKeys {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return err
		}
	}
	return nil
}

// env bundles what every command needs.
type env struct {
	cfg     *Config
	logger  *vecclust.Logger
	rc      *resource.Controller
	metrics vecclust.MetricsCollector
}

// setup loads the configuration and starts the metrics endpoint if enabled.
// The returned function stops it.
func setup(ctx context.Context) (*env, func(), error) {
	cfg, err := loadConfig(v)
	if err != nil {
		return nil, nil, err
	}

	e := &env{
		cfg:    cfg,
		logger: cfg.logger(),
		rc: resource.NewController(resource.Config{
			MaxWorkers:         cfg.Resources.MaxWorkers,
			IOLimitBytesPerSec: cfg.Resources.IOLimitBytesPerSec,
		}),
		metrics: vecclust.NoopMetricsCollector{},
	}
	if cfg.Metrics.Addr == "" {
		return e, func() {}, nil
	}

	reg := prometheus.NewRegistry()
	mc, err := vecprom.New(reg)
	if err != nil {
		return nil, nil, err
	}
	e.metrics = mc

	ln, err := net.Listen("tcp", cfg.Metrics.Addr)
	if err != nil {
		return nil, nil, fmt.Errorf("metrics listener: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.logger.ErrorContext(ctx, "metrics server failed", "error", err)
		}
	}()
	e.logger.InfoContext(ctx, "serving metrics", "addr", ln.Addr().String())

	return e, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}, nil
}
