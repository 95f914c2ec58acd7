package main

import (
	"context"
	"flag"
	"fmt"

	"go.uber.org/zap"

	"weird/internal/config"
	"weird/internal/curve"
	"weird/internal/data"
	"weird/internal/models"
	"weird/pkg/utils"
)

func main() {
	cfgPath := flag.String("config", "", "YAML or TOML config file")
	dataPath := flag.String("data", "data/synthetic.csv", "Input CSV (features..., label)")
	scheme := flag.String("scheme", "within", "Weight scheme: within|fisher")
	eps := flag.Float64("eps", models.DefaultEpsilon, "Variance floor added before inverting")
	points := flag.Int("points", 10, "Points on the curve")
	min := flag.Int("min", 20, "Smallest training size")
	useLog := flag.Bool("log", false, "Logarithmic spacing of sizes")
	testRatio := flag.Float64("test_ratio", 0.2, "Held-out fraction, in (0, 1)")
	seed := flag.Int64("seed", 2, "Seed for the train/test split")
	positive := flag.Int("positive", 1, "Label treated as positive for F1")
	outImg := flag.String("out_img", "data/learning_curve.png", "Output PNG")
	outCSV := flag.String("out_csv", "data/learning_curve.csv", "Output CSV")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	logger := utils.NewLogger(cfg.Log.Level, cfg.Log.File)
	defer logger.Sync()
	if err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "scheme":
			cfg.Model.Scheme = *scheme
		case "eps":
			cfg.Model.Epsilon = *eps
		case "points":
			cfg.Curve.Points = *points
		case "min":
			cfg.Curve.Min = *min
		case "log":
			cfg.Curve.Log = *useLog
		case "test_ratio":
			cfg.Curve.TestRatio = *testRatio
		case "seed":
			cfg.Fixture.Seed = *seed
		case "out_img":
			cfg.Curve.PNG = *outImg
		case "out_csv":
			cfg.Curve.CSV = *outCSV
		}
	})
	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	ds, err := data.ReadCSV(*dataPath)
	if err != nil {
		logger.Fatal("Failed to read dataset", zap.String("path", *dataPath), zap.Error(err))
	}
	logger.Info("Dataset loaded", zap.Int("samples", ds.Len()), zap.Any("class_counts", ds.ClassCounts()))

	train, test := data.Split(ds, cfg.Curve.TestRatio, data.NewRand(cfg.Fixture.Seed))
	sizes := curve.Sizes(train.Len(), cfg.Curve.Points, cfg.Curve.Min, cfg.Curve.Log)
	opts := cfg.FitOptions()
	newClf := func() models.Classifier { return &models.WeiRD{Epsilon: opts.Epsilon, Scheme: opts.Scheme} }
	pts, err := curve.Compute(context.Background(), newClf, train, test, sizes, *positive)
	if err != nil {
		logger.Fatal("Failed to compute curve", zap.Int("train", train.Len()), zap.Int("test", test.Len()), zap.Error(err))
	}
	for _, p := range pts {
		fmt.Printf("WeiRD | size=%d | train=%.3f | test=%.3f | f1=%.3f\n", p.Size, p.TrainAcc, p.TestAcc, p.TestF1)
	}

	if err := curve.WriteCSV(cfg.Curve.CSV, pts); err != nil {
		logger.Warn("Failed to write CSV", zap.Error(err))
	} else {
		fmt.Println("Curve written to:", cfg.Curve.CSV)
	}
	if err := curve.PlotPNG(cfg.Curve.PNG, pts); err != nil {
		logger.Warn("Failed to write PNG", zap.Error(err))
	} else {
		fmt.Println("Plot written to:", cfg.Curve.PNG)
	}
}
