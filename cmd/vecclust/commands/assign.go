package commands

import (
	"context"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/hupe1980/vecclust/distance"
	"github.com/hupe1980/vecclust/model"
	"github.com/hupe1980/vecclust/vectorsource"
)

var (
	assignName    string
	assignVersion uint64
	assignOutput  string
)

var assignCmd = &cobra.Command{
	Use:   "assign",
	Short: "Assign vectors to the clusters of a stored model",
	Args:  cobra.NoArgs,
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
		m, _, err := loadModel(ctx, e, assignName, assignVersion)
		if err != nil {
			return err
		}
		vt, err := inputValueType(e.cfg.Input)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if assignOutput != "" && assignOutput != "-" {
			f, err := os.Create(assignOutput)
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		}

		if vt == vectorsource.ValueFloat32 {
			return assignAll[float32](ctx, e, m, w)
		}
		return assignAll[float64](ctx, e, m, w)
	},
}

func init() {
	f := assignCmd.Flags()
	f.StringP("input", "i", "", "input vector file or CSV")
	f.String("format", "auto", "input format (auto, vclv, csv)")
	f.String("precision", "float64", "precision of CSV input (float32, float64)")
	f.Int("concurrency", 0, "assignment workers (0 = GOMAXPROCS)")
	f.StringVar(&assignName, "name", "", "model name")
	f.Uint64Var(&assignVersion, "version", 0, "model version (0 = latest)")
	f.StringVarP(&assignOutput, "output", "o", "", "output file (default: stdout)")
	_ = assignCmd.MarkFlagRequired("name")
}

// assignment is the JSON output of the assign command.
type assignment struct {
	Model       string  `json:"model"`
	K           int     `json:"k"`
	Assignments []int32 `json:"assignments"`
}

func assignAll[T distance.Float](ctx context.Context, e *env, m *model.Model, w io.Writer) error {
	src, closeSrc, err := openSource[T](e.cfg.Input)
	if err != nil {
		return err
	}
	defer closeSrc() //nolint:errcheck // read-only

	assignments, err := model.AssignAll(ctx, m, src, e.cfg.Cluster.Concurrency)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(assignment{Model: assignName, K: m.K(), Assignments: assignments})
}
