// Package api exposes a Classifier over HTTP with gin.
package api

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"weird/internal/models"
	"weird/pkg/utils"
)

// errNonFiniteOutput is reported when a classifier produces a score JSON cannot carry.
var errNonFiniteOutput = errors.New("api: classifier returned a non-finite score")

// stateful is implemented by classifiers that can describe their fitted state.
type stateful interface {
	State() (*models.Model, error)
}

// Server serves one Classifier; it holds no model state of its own.
type Server struct {
	clf    models.Classifier
	log    *zap.Logger
	apiKey string
}

// New wires clf behind the HTTP handlers. A nil log uses the process logger;
// an empty apiKey disables the X-API-Key check.
func New(clf models.Classifier, log *zap.Logger, apiKey string) *Server {
	if log == nil {
		log = utils.Logger()
	}
	return &Server{clf: clf, log: log, apiKey: apiKey}
}

// Router builds the gin engine. /healthz is always open; every other route
// sits behind the API key check.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.logRequests)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/")
	api.Use(s.requireAPIKey)
	api.POST("/fit", s.handleFit)
	api.POST("/predict", s.handlePredict)
	api.POST("/predict/proba", s.handlePredictProba)
	api.GET("/model", s.handleModel)
	return r
}

func (s *Server) logRequests(c *gin.Context) {
	start := time.Now()
	c.Next()
	s.log.Info("request",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", c.Writer.Status()),
		zap.Duration("latency", time.Since(start)),
	)
}

func (s *Server) requireAPIKey(c *gin.Context) {
	if s.apiKey == "" {
		c.Next()
		return
	}
	got := c.GetHeader("X-API-Key")
	if subtle.ConstantTimeCompare([]byte(got), []byte(s.apiKey)) != 1 {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.Next()
}

type fitRequest struct {
	Samples [][]float64 `json:"samples" binding:"required"`
	Labels  []int       `json:"labels" binding:"required"`
}

type predictRequest struct {
	Samples [][]float64 `json:"samples" binding:"required"`
}

func (s *Server) handleFit(c *gin.Context) {
	var req fitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.clf.Fit(req.Samples, req.Labels); err != nil {
		s.fail(c, "fit", err)
		return
	}
	resp := gin.H{"model": s.clf.Name(), "classes": s.clf.Classes()}
	if st, ok := s.clf.(stateful); ok {
		if m, err := st.State(); err == nil {
			resp["dimensions"] = m.Dimensions()
			resp["degenerate"] = m.Degenerate()
			if m.Degenerate() {
				s.log.Warn("single-class training set, predictions are constant",
					zap.Ints("classes", m.Classes()))
			}
		}
	}
	s.log.Info("model fitted", zap.Int("samples", len(req.Samples)), zap.Ints("classes", s.clf.Classes()))
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handlePredict(c *gin.Context) {
	var req predictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	labels, err := s.clf.Predict(req.Samples)
	if err != nil {
		s.fail(c, "predict", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"labels": labels, "model": s.clf.Name()})
}

func (s *Server) handlePredictProba(c *gin.Context) {
	var req predictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	proba, err := s.clf.PredictProba(req.Samples)
	if err == nil {
		err = checkFinite(proba)
	}
	if err != nil {
		s.fail(c, "predict_proba", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"classes": s.clf.Classes(), "proba": proba})
}

func (s *Server) handleModel(c *gin.Context) {
	st, ok := s.clf.(stateful)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"model": s.clf.Name(), "classes": s.clf.Classes()})
		return
	}
	m, err := st.State()
	if err != nil {
		s.fail(c, "model", err)
		return
	}
	support := make(map[int]int, len(m.Classes()))
	for _, cl := range m.Classes() {
		support[cl] = m.Support(cl)
	}
	c.JSON(http.StatusOK, gin.H{
		"model":      s.clf.Name(),
		"classes":    m.Classes(),
		"dimensions": m.Dimensions(),
		"weights":    m.Weights(),
		"prototypes": m.Prototypes(),
		"support":    support,
		"scheme":     m.Scheme().String(),
		"epsilon":    m.Epsilon(),
		"degenerate": m.Degenerate(),
	})
}

func (s *Server) fail(c *gin.Context, op string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.Error(op+" failed", zap.Error(err))
	} else {
		s.log.Debug(op+" rejected", zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// checkFinite guards rendering: encoding/json rejects NaN and ±Inf after the
// status line has been written.
func checkFinite(rows [][]float64) error {
	for i, row := range rows {
		for k, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: row %d column %d", errNonFiniteOutput, i, k)
			}
		}
	}
	return nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFitted):
		return http.StatusConflict
	case errors.Is(err, models.ErrShape),
		errors.Is(err, models.ErrEmptyData),
		errors.Is(err, models.ErrNonFinite),
		errors.Is(err, models.ErrInvalidOption):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
