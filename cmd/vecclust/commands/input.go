package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hupe1980/vecclust"
	"github.com/hupe1980/vecclust/distance"
	"github.com/hupe1980/vecclust/vectorsource"
)

// inputFormat resolves "auto" by file extension.
func inputFormat(in InputConfig) string {
	if in.Format != "auto" {
		return in.Format
	}
	if strings.EqualFold(filepath.Ext(in.Path), ".csv") {
		return "csv"
	}
	return "vclv"
}

// inputValueType returns the precision the input is read with.
func inputValueType(in InputConfig) (vectorsource.ValueType, error) {
	if inputFormat(in) == "csv" {
		if in.Precision == "float32" {
			return vectorsource.ValueFloat32, nil
		}
		return vectorsource.ValueFloat64, nil
	}

	h, err := vectorsource.Probe(in.Path)
	if err != nil {
		return 0, err
	}
	switch h.ValueType {
	case vectorsource.ValueFloat32, vectorsource.ValueFloat64:
		return h.ValueType, nil
	default:
		return 0, fmt.Errorf("%w: %s", vecclust.ErrUnsupportedValueType, h.ValueType)
	}
}

// openSource opens the configured input as a Source of T. The returned
// function releases it.
func openSource[T distance.Float](in InputConfig) (vectorsource.Source[T], func() error, error) {
	if inputFormat(in) == "csv" {
		f, err := os.Open(in.Path)
		if err != nil {
			return nil, nil, err
		}
		defer f.Close()

		src, err := vectorsource.ReadCSV[T](f)
		if err != nil {
			return nil, nil, err
		}
		return src, func() error { return nil }, nil
	}

	src, err := vectorsource.OpenFile[T](in.Path)
	if err != nil {
		return nil, nil, err
	}
	return src, src.Close, nil
}
