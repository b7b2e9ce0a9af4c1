package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/hupe1980/vecclust"
	"github.com/hupe1980/vecclust/distance"
	"github.com/hupe1980/vecclust/vectorsource"
)

var (
	runSave        string
	runOutput      string
	runAssignments bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Cluster a vector file and print a JSON summary",
	Long: `Cluster the vectors of a vecclust vector file (.vclv) or a CSV file.

The summary lists centroids, cluster sizes and quality figures. With --save
the trained model is stored as the next version of the given name.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		e, stop, err := setup(ctx)
		if err != nil {
			return err
		}
		defer stop()

		if err := e.cfg.requireInput(); err != nil {
			return err
		}
		vt, err := inputValueType(e.cfg.Input)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if runOutput != "" && runOutput != "-" {
			f, err := os.Create(runOutput)
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		}

		if vt == vectorsource.ValueFloat32 {
			return runClustering[float32](ctx, e, w)
		}
		return runClustering[float64](ctx, e, w)
	},
}

func init() {
	f := runCmd.Flags()
	f.StringP("input", "i", "", "input vector file or CSV")
	f.String("format", "auto", "input format (auto, vclv, csv)")
	f.String("precision", "float64", "precision of CSV input (float32, float64)")
	f.IntP("k", "k", 0, "number of clusters")
	f.Int("max-iterations", 10, "maximum refinement rounds per restart")
	f.Float64("delta", 0.05, "stop when at most this fraction of entities changed cluster")
	f.Int("restarts", 1, "independent seedings; the lowest distortion wins")
	f.Int("concurrency", 0, "partition workers (0 = GOMAXPROCS)")
	f.String("sampler", "uniform", "initial centroid sampler (uniform, kmeans++)")
	f.Int64("seed", 0, "random seed (default: time based)")
	f.Bool("silhouette", false, "compute silhouette scores")
	f.StringVar(&runSave, "save", "", "save the model under this name")
	f.StringVarP(&runOutput, "output", "o", "", "summary output file (default: stdout)")
	f.BoolVar(&runAssignments, "assignments", false, "include per-entity assignments in the summary")
}

// Summary is the JSON output of the run command.
type Summary struct {
	Precision         string      `json:"precision"`
	Entities          int         `json:"entities"`
	K                 int         `json:"k"`
	Iterations        int         `json:"iterations"`
	Converged         bool        `json:"converged"`
	Restarts          int         `json:"restarts"`
	Seed              *int64      `json:"seed,omitempty"`
	BestRestart       int         `json:"best_restart"`
	Distortion        float64     `json:"distortion"`
	AverageDistance   float64     `json:"average_distance"`
	AverageSilhouette *float64    `json:"average_silhouette,omitempty"`
	Counts            []int       `json:"counts,omitempty"`
	Centroids         [][]float64 `json:"centroids,omitempty"`
	Assignments       []int32     `json:"assignments,omitempty"`
	Warnings          []string    `json:"warnings,omitempty"`
	Duration          string      `json:"duration"`
	SavedVersion      uint64      `json:"saved_version,omitempty"`
}

func clusterOptions(e *env) ([]vecclust.Option, error) {
	c := e.cfg.Cluster
	s, err := vecclust.ParseSampler(c.Sampler)
	if err != nil {
		return nil, err
	}
	opts := []vecclust.Option{
		vecclust.WithMaxIterations(c.MaxIterations),
		vecclust.WithDeltaThreshold(c.DeltaThreshold),
		vecclust.WithRestarts(c.Restarts),
		vecclust.WithSampler(s),
		vecclust.WithSilhouette(c.Silhouette),
		vecclust.WithLogger(e.logger),
		vecclust.WithMetricsCollector(e.metrics),
		vecclust.WithResourceController(e.rc),
	}
	if c.Concurrency > 0 {
		opts = append(opts, vecclust.WithConcurrency(c.Concurrency))
	}
	if c.SeedSet {
		opts = append(opts, vecclust.WithRandomSeed(c.Seed))
	}
	return opts, nil
}

func runClustering[T distance.Float](ctx context.Context, e *env, w io.Writer) error {
	src, closeSrc, err := openSource[T](e.cfg.Input)
	if err != nil {
		return err
	}
	defer closeSrc() //nolint:errcheck // read-only

	opts, err := clusterOptions(e)
	if err != nil {
		return err
	}

	start := time.Now()
	res, err := vecclust.Cluster(ctx, src, e.cfg.Cluster.K, opts...)
	if err != nil {
		return err
	}

	summary := Summary{
		Precision:       vectorsource.ValueTypeOf[T]().String(),
		Entities:        src.Len(),
		K:               res.K(),
		Iterations:      res.Iterations,
		Converged:       res.Converged,
		Restarts:        res.Restarts,
		BestRestart:     res.BestRestart,
		Distortion:      res.Distortion,
		AverageDistance: res.AverageDistance,
		Counts:          res.Counts,
		Duration:        time.Since(start).String(),
	}
	if e.cfg.Cluster.SeedSet {
		seed := e.cfg.Cluster.Seed
		summary.Seed = &seed
	}
	if res.Silhouette != nil {
		avg := res.AverageSilhouette
		summary.AverageSilhouette = &avg
	}
	for _, c := range res.Centroids {
		row := make([]float64, len(c))
		for i, x := range c {
			row[i] = float64(x)
		}
		summary.Centroids = append(summary.Centroids, row)
	}
	if runAssignments {
		summary.Assignments = res.Assignments
	}
	for _, warn := range res.Warnings {
		summary.Warnings = append(summary.Warnings, warn.String())
	}

	if runSave != "" {
		version, err := saveModel(ctx, e, res)
		if err != nil {
			return err
		}
		summary.SavedVersion = version
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}

func saveModel[T distance.Float](ctx context.Context, e *env, res *vecclust.Result[T]) (uint64, error) {
	reg, err := openRegistry(ctx, e.cfg.Store, e.rc)
	if err != nil {
		return 0, err
	}
	m, err := res.Model()
	if err != nil {
		return 0, fmt.Errorf("build model: %w", err)
	}
	version, err := reg.Save(ctx, runSave, m)
	if err != nil {
		return 0, fmt.Errorf("save model %q: %w", runSave, err)
	}
	e.logger.InfoContext(ctx, "model saved", "name", runSave, "version", version)
	return version, nil
}
