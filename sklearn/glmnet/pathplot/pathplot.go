// Package pathplot draws regularization paths with gonum/plot.
package pathplot

import (
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/glmnet/pkg/errors"
	"github.com/YuminosukeSato/glmnet/sklearn/glmnet/binding"
)

// New builds a plot with one line per coefficient across the path. The x
// axis is log(lambda) when the path carries positive lambdas, otherwise the
// column index.
func New(result *binding.PathResult) (*plot.Plot, error) {
	if result == nil || result.CA == nil {
		return nil, errors.NewValueError("pathplot.New", "path result has no coefficients")
	}
	nFeatures, nlambda := result.CA.Dims()
	if nFeatures == 0 || nlambda == 0 {
		return nil, errors.NewValueError("pathplot.New", "path result is empty")
	}

	xs, xLabel, err := axis(result, nlambda)
	if err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = "Coefficient path"
	p.X.Label.Text = xLabel
	p.Y.Label.Text = "coefficient"
	p.Add(plotter.NewGrid())

	for j := 0; j < nFeatures; j++ {
		pts := make(plotter.XYs, nlambda)
		for k := 0; k < nlambda; k++ {
			pts[k].X = xs[k]
			pts[k].Y = result.CA.At(j, k)
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, errors.Wrapf(err, "coefficient %d", j)
		}
		line.Color = plotutil.Color(j)
		p.Add(line)
		if nFeatures <= 10 {
			p.Legend.Add(fmt.Sprintf("x%d", j), line)
		}
	}
	return p, nil
}

func axis(result *binding.PathResult, nlambda int) ([]float64, string, error) {
	xs := make([]float64, nlambda)
	if len(result.Lambda) == 0 {
		for k := range xs {
			xs[k] = float64(k)
		}
		return xs, "path index", nil
	}
	if len(result.Lambda) != nlambda {
		return nil, "", errors.NewInputShapeError("pathplot", []int{nlambda}, []int{len(result.Lambda)})
	}
	for k, l := range result.Lambda {
		if l <= 0 || math.IsNaN(l) {
			return nil, "", errors.NewValidationError("lambda", "must be positive to plot on a log scale", l)
		}
		xs[k] = math.Log(l)
	}
	return xs, "log(lambda)", nil
}

// Save renders the path to file. The format follows the file extension
// (.png, .svg, .pdf, ...).
func Save(result *binding.PathResult, file string, width, height vg.Length) error {
	p, err := New(result)
	if err != nil {
		return err
	}
	if err := p.Save(width, height, file); err != nil {
		return errors.Wrapf(err, "saving path plot to %s", file)
	}
	return nil
}
