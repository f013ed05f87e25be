package dashboard

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"aethelgard/internal/model"
	"aethelgard/internal/run"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

type streamRequest struct {
	Scenario     string  `json:"scenario"`
	GridSize     int     `json:"grid_size"`
	DomainLength float64 `json:"domain_length"`
	Steps        int     `json:"steps"`
	TimeStep     float64 `json:"time_step"`
	Accelerated  bool    `json:"use_accelerated_backend"`
	Seed         int64   `json:"seed"`
}

// streamFrame is one websocket message per evolution step. The final
// message carries done=true plus the hazard diagnostic. Streamed runs
// are ephemeral: nothing is persisted to the run store.
type streamFrame struct {
	Done    bool               `json:"done"`
	Error   string             `json:"error,omitempty"`
	Hazard  float64            `json:"hazard,omitempty"`
	Summary *model.StepSummary `json:"summary,omitempty"`
}

func (s *Server) handleEvolveStream(c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	defer ws.Close()

	var req streamRequest
	if err := ws.ReadJSON(&req); err != nil {
		_ = ws.WriteJSON(streamFrame{Done: true, Error: "invalid stream request: " + err.Error()})
		return
	}

	params := run.Params{
		Scenario:     req.Scenario,
		GridSize:     req.GridSize,
		DomainLength: req.DomainLength,
		Steps:        req.Steps,
		TimeStep:     req.TimeStep,
		Accelerated:  req.Accelerated,
		Seed:         req.Seed,
		Limits:       &s.limits,
	}
	def, mass, source, e, err := run.PrepareEvolution(params)
	if err != nil {
		_ = ws.WriteJSON(streamFrame{Done: true, Error: err.Error()})
		return
	}
	if err := s.limits.CheckSteps(def.Steps); err != nil {
		_ = ws.WriteJSON(streamFrame{Done: true, Error: err.Error()})
		return
	}

	s.logger.Info("evolution stream started", "scenario", def.Name, "steps", def.Steps)
	for n := 0; n < def.Steps; n++ {
		summary, err := e.Step(mass, source, def.TimeStep)
		if err != nil {
			_ = ws.WriteJSON(streamFrame{Done: true, Error: err.Error(), Hazard: e.Hazard()})
			return
		}
		s.metrics.streamSteps.Inc()
		if err := ws.WriteJSON(streamFrame{Summary: &summary}); err != nil {
			s.logger.Warn("stream client dropped", "error", err)
			return
		}
	}
	e.Complete()
	_ = ws.WriteJSON(streamFrame{Done: true, Hazard: e.Hazard()})
}
