package models

//go:generate mockgen -destination=mocks/classifier.go -package=mocks weird/internal/models Classifier

// Classifier is the contract shared by the trainer, the analyzer and the API.
// Probability rows returned by PredictProba are aligned with Classes.
type Classifier interface {
	Fit(X [][]float64, y []int) error
	Predict(X [][]float64) ([]int, error)
	PredictProba(X [][]float64) ([][]float64, error)
	Classes() []int
	Name() string
}
