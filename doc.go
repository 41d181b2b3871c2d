// Package glmnet provides a scikit-learn style elastic-net logistic
// regression for Go, built on gonum.
//
// The estimator, LogisticRegression (also exported as LogisticNet), takes
// the familiar penalty and C hyperparameters, derives the glmnet mixing
// parameter alpha from them, and hands the fit to a Binding. A Binding fits
// a whole regularization path and returns it in glmnet's layout:
// intercepts A0, a coefficient matrix CA with one column per path point,
// the lambda values, the number of passes and an error code. The estimator
// then keeps a single point of that path.
//
// No native glmnet library is linked. The default binding is a mock that
// runs a general-purpose logistic regression solver once (saga, C=1e5) and
// replicates the result into every column of the path. A native binding can
// be installed with binding.Register.
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/glmnet/datasets"
//	    "github.com/YuminosukeSato/glmnet/sklearn/glmnet"
//	)
//
//	func main() {
//	    X, y, err := datasets.MakeClassification(500, 10, datasets.WithInformative(4))
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    clf := glmnet.NewLogisticNet(glmnet.WithPenalty("l1"), glmnet.WithC(0.5))
//	    if err := clf.Fit(X, y); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    acc, err := clf.Score(X, y)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println("accuracy:", acc, "coef:", clf.Coef().RawRowView(0))
//	}
//
// # Packages
//
//   - sklearn/glmnet: the LogisticRegression / LogisticNet estimator
//   - sklearn/glmnet/binding: the Binding interface, PathResult and the mock
//   - sklearn/glmnet/pathplot: regularization path plots (gonum/plot)
//   - sklearn/linear_model: binary logistic regression with saga and lbfgs
//   - preprocessing: StandardScaler
//   - pipeline: chains transformers and a classifier
//   - model_selection: KFold and GridSearchCV
//   - metrics: accuracy, ROC AUC, log loss
//   - datasets: synthetic classification data, train/test split, CSR matrices
//   - core/model, core/parallel: shared interfaces, fitted state, row workers
//   - pkg/errors, pkg/log: typed errors and structured logging
//
// # Errors
//
// Invalid hyperparameters return *errors.ValidationError. Labels with other
// than two classes return *errors.ValueError ("only binary classification is
// supported"). Shape problems return *errors.DimensionError, and empty
// input returns an *errors.ModelError wrapping errors.ErrEmptyData. Errors
// from the binding are returned unchanged. A failed Fit never modifies the
// estimator.
//
// # License
//
// Released under the MIT License.
package glmnet
