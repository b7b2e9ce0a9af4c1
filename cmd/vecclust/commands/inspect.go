package commands

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/hupe1980/vecclust/model"
)

var (
	inspectName      string
	inspectVersion   uint64
	inspectVersions  bool
	inspectCentroids bool
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show a stored model or list its versions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		e, stop, err := setup(ctx)
		if err != nil {
			return err
		}
		defer stop()

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")

		if inspectVersions {
			reg, err := openRegistry(ctx, e.cfg.Store, e.rc)
			if err != nil {
				return err
			}
			versions, err := reg.Versions(ctx, inspectName)
			if err != nil {
				return err
			}
			return enc.Encode(map[string]any{"model": inspectName, "versions": versions})
		}

		m, version, err := loadModel(ctx, e, inspectName, inspectVersion)
		if err != nil {
			return err
		}
		out := modelInfo{
			Name:      inspectName,
			Version:   version,
			K:         m.K(),
			Dimension: m.Dimension(),
			Counts:    m.Counts(),
			Metadata:  m.Metadata,
		}
		if inspectCentroids {
			out.Centroids = m.Centroids()
		}
		return enc.Encode(out)
	},
}

func init() {
	f := inspectCmd.Flags()
	f.StringVar(&inspectName, "name", "", "model name")
	f.Uint64Var(&inspectVersion, "version", 0, "model version (0 = latest)")
	f.BoolVar(&inspectVersions, "versions", false, "list stored versions")
	f.BoolVar(&inspectCentroids, "centroids", false, "include centroid vectors")
	_ = inspectCmd.MarkFlagRequired("name")
}

// modelInfo is the JSON output of the inspect command.
type modelInfo struct {
	Name      string         `json:"name"`
	Version   uint64         `json:"version"`
	K         int            `json:"k"`
	Dimension int            `json:"dimension"`
	Counts    []int          `json:"counts"`
	Centroids [][]float64    `json:"centroids,omitempty"`
	Metadata  model.Metadata `json:"metadata"`
}

// loadModel loads version of name, or the latest version when version is 0.
func loadModel(ctx context.Context, e *env, name string, version uint64) (*model.Model, uint64, error) {
	reg, err := openRegistry(ctx, e.cfg.Store, e.rc)
	if err != nil {
		return nil, 0, err
	}
	if version == 0 {
		return reg.Load(ctx, name)
	}
	m, err := reg.LoadVersion(ctx, name, version)
	if err != nil {
		return nil, 0, fmt.Errorf("load model %q version %d: %w", name, version, err)
	}
	return m, version, nil
}
