package main

import (
	"context"
	"flag"
	"fmt"

	"go.uber.org/zap"

	"weird/internal/config"
	"weird/internal/curve"
	"weird/internal/data"
	"weird/internal/metrics"
	"weird/internal/models"
	"weird/pkg/utils"
)

func main() {
	cfgPath := flag.String("config", "", "YAML or TOML config file")
	seed := flag.Int64("seed", 2, "Seed for dataset synthesis and perturbation")
	n := flag.Int("n", 100, "Samples per class")
	features := flag.Int("features", 20, "Number of features")
	classes := flag.Int("classes", 2, "Number of classes")
	scheme := flag.String("scheme", "within", "Weight scheme: within|fisher")
	eps := flag.Float64("eps", models.DefaultEpsilon, "Variance floor added before inverting")
	out := flag.String("out", "", "Write the synthesized training set to this CSV")
	positive := flag.Int("positive", 1, "Label treated as positive for F1 and ROC AUC")
	curveOn := flag.Bool("curve", true, "Compute a learning curve (PNG and CSV)")
	curvePoints := flag.Int("curve_points", 10, "Points on the learning curve")
	curveMin := flag.Int("curve_min", 20, "Smallest training size on the curve")
	curveLog := flag.Bool("curve_log", false, "Logarithmic spacing of curve sizes")
	curveCSV := flag.String("curve_out_csv", "data/learning_curve.csv", "Learning curve CSV")
	curveImg := flag.String("curve_out_img", "data/learning_curve.png", "Learning curve PNG")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	logger := utils.NewLogger(cfg.Log.Level, cfg.Log.File)
	defer logger.Sync()
	if err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	// explicit flags win over the config file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "seed":
			cfg.Fixture.Seed = *seed
		case "n":
			cfg.Fixture.SamplesPerClass = *n
		case "features":
			cfg.Fixture.Features = *features
		case "classes":
			cfg.Fixture.Classes = *classes
		case "scheme":
			cfg.Model.Scheme = *scheme
		case "eps":
			cfg.Model.Epsilon = *eps
		case "curve":
			cfg.Curve.Enabled = *curveOn
		case "curve_points":
			cfg.Curve.Points = *curvePoints
		case "curve_min":
			cfg.Curve.Min = *curveMin
		case "curve_log":
			cfg.Curve.Log = *curveLog
		case "curve_out_csv":
			cfg.Curve.CSV = *curveCSV
		case "curve_out_img":
			cfg.Curve.PNG = *curveImg
		}
	})
	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	fixture := cfg.DataFixture()
	rng := data.NewRand(fixture.Seed)
	ds := data.Synthesize(fixture, rng)
	XPredict := data.Perturb(ds.X, rng)
	logger.Info("Synthesized dataset",
		zap.Int("samples", ds.Len()),
		zap.Int("features", ds.Dimensions()),
		zap.Int("classes", fixture.Classes),
		zap.Int64("seed", fixture.Seed),
	)
	if *out != "" {
		if err := data.WriteCSV(*out, ds); err != nil {
			logger.Fatal("Failed to write dataset", zap.Error(err))
		}
		logger.Info("Dataset written", zap.String("path", *out))
	}

	opts := cfg.FitOptions()
	clf := &models.WeiRD{Epsilon: opts.Epsilon, Scheme: opts.Scheme}
	if err := clf.Fit(ds.X, ds.Y); err != nil {
		logger.Fatal("Failed to fit WeiRD", zap.Error(err))
	}
	state, _ := clf.State()
	if state.Degenerate() {
		logger.Warn("Single-class training set, predictions are constant", zap.Ints("classes", state.Classes()))
	}

	preds, err := clf.Predict(XPredict)
	if err != nil {
		logger.Fatal("Failed to predict", zap.Error(err))
	}
	acc := metrics.Accuracy(ds.Y, preds)
	prec, rec, f1, err := metrics.PRF1(ds.Y, preds, *positive)
	if err != nil {
		logger.Fatal("Failed to score predictions", zap.Error(err))
	}
	fields := []zap.Field{
		zap.String("model", clf.Name()),
		zap.String("scheme", opts.Scheme.String()),
		zap.Float64("accuracy", acc),
		zap.Float64("precision", prec),
		zap.Float64("recall", rec),
		zap.Float64("f1", f1),
	}
	if scores, ok := positiveScores(clf, XPredict, *positive); ok {
		auc, err := metrics.ROCAUC(ds.Y, scores, *positive)
		if err == nil {
			fields = append(fields, zap.Float64("roc_auc", auc))
		}
	}
	logger.Info("Perturbed-set metrics", fields...)
	fmt.Printf("Classification accuracy = %.1f%%\n", 100*acc)

	if !cfg.Curve.Enabled {
		return
	}
	train, test := data.Split(ds, cfg.Curve.TestRatio, rng)
	sizes := curve.Sizes(train.Len(), cfg.Curve.Points, cfg.Curve.Min, cfg.Curve.Log)
	newClf := func() models.Classifier { return &models.WeiRD{Epsilon: opts.Epsilon, Scheme: opts.Scheme} }
	points, err := curve.Compute(context.Background(), newClf, train, test, sizes, *positive)
	if err != nil {
		logger.Fatal("Failed to compute learning curve", zap.Error(err))
	}
	if err := curve.WriteCSV(cfg.Curve.CSV, points); err != nil {
		logger.Warn("Failed to write learning curve CSV", zap.Error(err))
	}
	if err := curve.PlotPNG(cfg.Curve.PNG, points); err != nil {
		logger.Warn("Failed to write learning curve PNG", zap.Error(err))
	} else {
		logger.Info("Learning curve written", zap.String("png", cfg.Curve.PNG), zap.String("csv", cfg.Curve.CSV))
	}
}

// positiveScores extracts the probability column of the positive label.
func positiveScores(clf models.Classifier, X [][]float64, positive int) ([]float64, bool) {
	col := -1
	for k, c := range clf.Classes() {
		if c == positive {
			col = k
		}
	}
	if col < 0 {
		return nil, false
	}
	proba, err := clf.PredictProba(X)
	if err != nil {
		return nil, false
	}
	out := make([]float64, len(proba))
	for i, row := range proba {
		out[i] = row[col]
	}
	return out, true
}
