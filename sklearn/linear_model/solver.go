package linear_model

import (
	"math"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"

	"github.com/YuminosukeSato/glmnet/core/model"
	glmErrors "github.com/YuminosukeSato/glmnet/pkg/errors"
)

// binaryProblem is the penalized mean log-loss
//
//	(1/n) Σ loss(w·x_i + b, t_i) + lambda * R(w)
//
// with t_i ∈ {0, 1}.
type binaryProblem struct {
	rows         *model.Rows
	target       []float64
	lambda       float64
	penalty      string
	fitIntercept bool
}

type solveResult struct {
	coef      []float64
	intercept float64
	nIter     int
	converged bool
}

// solveSAGA minimizes the problem with proximal SAGA (Defazio et al. 2014).
// One iteration is one pass of n random draws. The gradient memory stores one
// scalar per sample since the gradient of the log-loss is a multiple of x_i.
// Until every sample has been drawn once the average is taken over the samples
// seen so far.
func solveSAGA(p *binaryProblem, tol float64, maxIter int, seed int64) (*solveResult, error) {
	n, d := p.rows.Dims()

	if seed < 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	// Lipschitz constant of the per-sample gradient
	maxSq := 0.0
	for i := 0; i < n; i++ {
		maxSq = math.Max(maxSq, p.rows.SquaredNorm(i))
	}
	lipschitz := 0.25 * maxSq
	if p.fitIntercept {
		lipschitz += 0.25
	}
	if p.penalty == PenaltyL2 {
		lipschitz += p.lambda
	}
	step := 1.0
	if lipschitz > 0 {
		step = 1.0 / (3.0 * lipschitz)
	}

	w := make([]float64, d)
	var b float64
	prev := make([]float64, d)

	gradMemory := make([]float64, n)
	seen := make([]bool, n)
	nSeen := 0
	sumGrad := make([]float64, d)
	var sumGradB float64

	for epoch := 1; epoch <= maxIter; epoch++ {
		copy(prev, w)
		prevB := b

		for k := 0; k < n; k++ {
			i := rng.Intn(n)

			g := sigmoid(p.rows.Dot(i, w)+b) - p.target[i]
			if !seen[i] {
				seen[i] = true
				nSeen++
			}
			delta := g - gradMemory[i]
			gradMemory[i] = g
			inv := 1.0 / float64(nSeen)

			// w ← prox(w - step * (delta*x_i + mean gradient))
			floats.AddScaled(w, -step*inv, sumGrad)
			p.rows.AddScaledTo(i, -step*delta, w)
			p.rows.AddScaledTo(i, delta, sumGrad)

			if p.fitIntercept {
				b -= step * (delta + sumGradB*inv)
				sumGradB += delta
			}

			p.prox(w, step)
		}

		if err := glmErrors.CheckNumericalStability("saga_update", w, epoch); err != nil {
			return nil, err
		}
		if err := glmErrors.CheckScalar("saga_intercept", b, epoch); err != nil {
			return nil, err
		}

		maxChange := math.Abs(b - prevB)
		maxWeight := math.Abs(b)
		for j := range w {
			maxChange = math.Max(maxChange, math.Abs(w[j]-prev[j]))
			maxWeight = math.Max(maxWeight, math.Abs(w[j]))
		}
		if maxChange <= tol*maxWeight {
			return &solveResult{coef: w, intercept: b, nIter: epoch, converged: true}, nil
		}
	}

	return &solveResult{coef: w, intercept: b, nIter: maxIter, converged: false}, nil
}

// prox applies the proximal operator of step*lambda*R in place.
func (p *binaryProblem) prox(w []float64, step float64) {
	if p.lambda == 0 {
		return
	}
	switch p.penalty {
	case PenaltyL1:
		t := step * p.lambda
		for j, v := range w {
			switch {
			case v > t:
				w[j] = v - t
			case v < -t:
				w[j] = v + t
			default:
				w[j] = 0
			}
		}
	case PenaltyL2:
		floats.Scale(1.0/(1.0+step*p.lambda), w)
	}
}

// solveLBFGS minimizes the smooth (l2 or unpenalized) problem with gonum's L-BFGS.
func solveLBFGS(p *binaryProblem, tol float64, maxIter int) (*solveResult, error) {
	n, d := p.rows.Dims()
	dim := d
	if p.fitIntercept {
		dim++
	}
	invN := 1.0 / float64(n)

	split := func(theta []float64) ([]float64, float64) {
		if p.fitIntercept {
			return theta[:d], theta[d]
		}
		return theta[:d], 0
	}

	prob := optimize.Problem{
		Func: func(theta []float64) float64 {
			w, b := split(theta)
			loss := 0.0
			for i := 0; i < n; i++ {
				loss += logLoss(p.rows.Dot(i, w)+b, p.target[i])
			}
			loss *= invN
			if p.lambda > 0 {
				loss += 0.5 * p.lambda * floats.Dot(w, w)
			}
			return loss
		},
		Grad: func(grad, theta []float64) {
			w, b := split(theta)
			for j := range grad {
				grad[j] = 0
			}
			gw := grad[:d]
			for i := 0; i < n; i++ {
				diff := sigmoid(p.rows.Dot(i, w)+b) - p.target[i]
				p.rows.AddScaledTo(i, diff, gw)
				if p.fitIntercept {
					grad[d] += diff
				}
			}
			floats.Scale(invN, grad)
			if p.lambda > 0 {
				floats.AddScaled(gw, p.lambda, w)
			}
		},
	}

	settings := &optimize.Settings{
		GradientThreshold: tol,
		MajorIterations:   maxIter,
	}
	result, err := optimize.Minimize(prob, make([]float64, dim), settings, &optimize.LBFGS{})
	if result == nil {
		return nil, glmErrors.Wrap(err, "lbfgs optimization failed")
	}
	if stabErr := glmErrors.CheckNumericalStability("lbfgs", result.X, result.Stats.MajorIterations); stabErr != nil {
		return nil, stabErr
	}
	if err != nil {
		// line search stalls close to the optimum; keep the last location
		glmErrors.Warn(glmErrors.NewConvergenceWarning(SolverLBFGS, result.Stats.MajorIterations, err.Error()))
	}

	w, b := split(result.X)
	coef := make([]float64, d)
	copy(coef, w)
	return &solveResult{
		coef:      coef,
		intercept: b,
		nIter:     result.Stats.MajorIterations,
		converged: result.Status != optimize.IterationLimit,
	}, nil
}
