package dashboard

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"aethelgard/internal/model"
	"aethelgard/internal/run"
	"aethelgard/internal/scenario"
)

type solveRequest struct {
	Scenario     string  `json:"scenario"`
	GridSize     int     `json:"grid_size"`
	DomainLength float64 `json:"domain_length"`
	Iterations   int     `json:"iterations"`
	Steps        int     `json:"steps"`
	TimeStep     float64 `json:"time_step"`
	Accelerated  bool    `json:"use_accelerated_backend"`
	Seed         int64   `json:"seed"`
	SliceAxis    string  `json:"slice_axis"`
	SliceIndex   *int    `json:"slice_index"`
}

type solveResponse struct {
	Run   model.RunRecord `json:"run"`
	Slice [][]float64     `json:"slice,omitempty"`
}

type evolveResponse struct {
	Run     model.RunRecord     `json:"run"`
	History []model.StepSummary `json:"history"`
	Slice   [][]float64         `json:"slice,omitempty"`
}

type scenarioInfo struct {
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	GridSize     int     `json:"grid_size"`
	DomainLength float64 `json:"domain_length"`
	Iterations   int     `json:"iterations,omitempty"`
	Steps        int     `json:"steps,omitempty"`
	TimeStep     float64 `json:"time_step,omitempty"`
}

func (s *Server) handleScenarios(c *gin.Context) {
	defs := scenario.Builtins()
	out := make([]scenarioInfo, 0, len(defs))
	for _, def := range defs {
		out = append(out, scenarioInfo{
			Name:         def.Name,
			Description:  def.Description,
			GridSize:     def.GridSize,
			DomainLength: def.DomainLength,
			Iterations:   def.Iterations,
			Steps:        def.Steps,
			TimeStep:     def.TimeStep,
		})
	}
	c.JSON(http.StatusOK, gin.H{"scenarios": out})
}

func (s *Server) params(req solveRequest) run.Params {
	return run.Params{
		Scenario:     req.Scenario,
		GridSize:     req.GridSize,
		DomainLength: req.DomainLength,
		Iterations:   req.Iterations,
		Steps:        req.Steps,
		TimeStep:     req.TimeStep,
		Accelerated:  req.Accelerated,
		Seed:         req.Seed,
		Limits:       &s.limits,
	}
}

func (s *Server) extractSlice(req solveRequest, result run.Result) ([][]float64, bool) {
	if req.SliceAxis == "" && req.SliceIndex == nil {
		return run.MidplaneSlice(result.Metric), true
	}
	axis := req.SliceAxis
	if axis == "" {
		axis = "z"
	}
	index := result.Metric.Size() / 2
	if req.SliceIndex != nil {
		index = *req.SliceIndex
	}
	plane, err := result.Metric.SliceG00(axis, index)
	if err != nil {
		return nil, false
	}
	return plane, true
}

func (s *Server) handleSolve(c *gin.Context) {
	var req solveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	started := time.Now()
	result, err := run.ExecuteSolve(c.Request.Context(), s.store, s.params(req))
	if err != nil {
		s.logger.Warn("solve rejected", "error", err)
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	s.metrics.solveTotal.Inc()
	s.metrics.solveDuration.Observe(time.Since(started).Seconds())

	plane, ok := s.extractSlice(req, result)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid slice request"})
		return
	}
	s.logger.Info("solve completed", "run_id", result.Record.ID, "scenario", req.Scenario,
		"grid_size", result.Record.GridSize, "backend", result.Record.Backend)
	c.JSON(http.StatusOK, solveResponse{Run: result.Record, Slice: plane})
}

func (s *Server) handleEvolve(c *gin.Context) {
	var req solveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	result, err := run.ExecuteEvolve(c.Request.Context(), s.store, s.params(req))
	if err != nil {
		s.logger.Warn("evolve rejected", "error", err)
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	s.metrics.evolveTotal.Inc()

	plane, ok := s.extractSlice(req, result)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid slice request"})
		return
	}
	s.logger.Info("evolve completed", "run_id", result.Record.ID, "steps", result.Record.Steps)
	c.JSON(http.StatusOK, evolveResponse{Run: result.Record, History: result.History.Steps, Slice: plane})
}

func (s *Server) handleRuns(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		if _, err := parsePositive(raw, &limit); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
	}
	runs, err := s.store.ListRuns(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

func (s *Server) handleRun(c *gin.Context) {
	rec, ok, err := s.store.GetRun(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"run": rec})
}

func (s *Server) handleHistory(c *gin.Context) {
	steps, ok, err := s.store.GetHistory(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "history not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": steps})
}

func parsePositive(raw string, out *int) (int, error) {
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("not a positive integer: %s", raw)
	}
	*out = v
	return v, nil
}
