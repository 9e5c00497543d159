package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	drafterr "auction-draft-mcp/internal/errors"
	"auction-draft-mcp/internal/service"
)

func (s *Server) registerAPI(api *gin.RouterGroup) {
	api.GET("/players", s.listAvailable)
	api.GET("/budgets", s.listBudgets)
	api.GET("/teams/:id", s.getTeam)
	api.GET("/teams/:id/spend", s.getSpend)
	api.GET("/tiers/:position", s.getTierBoard)
	api.GET("/values", s.getValuePicks)
	api.GET("/sleepers", s.getSleepers)
	api.GET("/picks", s.listPicks)
	api.POST("/picks", s.createPick)
	api.DELETE("/picks", s.resetDraft)
}

// statusFor maps draft errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case drafterr.IsBadInput(err):
		return http.StatusBadRequest
	case drafterr.IsNotFound(err):
		return http.StatusNotFound
	case drafterr.Is(err, drafterr.ErrAlreadyDrafted):
		return http.StatusConflict
	case drafterr.IsConflict(err):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error(), "code": drafterr.Code(err)})
}

func limitParam(c *gin.Context) int {
	n, err := strconv.Atoi(c.Query("limit"))
	if err != nil {
		return 0
	}
	return n
}

func (s *Server) listAvailable(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"players": s.app.Service.AvailablePlayers()})
}

func (s *Server) listBudgets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"teams": s.app.Service.TeamBudgets()})
}

func (s *Server) getTeam(c *gin.Context) {
	team, err := s.app.Service.TeamRoster(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, team)
}

func (s *Server) getSpend(c *gin.Context) {
	id := c.Param("id")
	spend, err := s.app.Service.SpendByPosition(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"team_id": id, "spend": spend})
}

func (s *Server) getTierBoard(c *gin.Context) {
	pos := c.Param("position")
	ranked, err := s.app.Service.TierBoard(pos, limitParam(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"position": pos, "players": ranked})
}

func (s *Server) getValuePicks(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"players": s.app.Service.TopValuePicks(limitParam(c))})
}

func (s *Server) getSleepers(c *gin.Context) {
	c.JSON(http.StatusOK, s.app.Service.Sleepers(limitParam(c)))
}

func (s *Server) listPicks(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"picks": s.app.Service.Picks()})
}

func (s *Server) createPick(c *gin.Context) {
	var cmd service.DraftCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	pick, err := s.app.Draft(c.Request.Context(), cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, pick)
}

func (s *Server) resetDraft(c *gin.Context) {
	if err := s.app.Reset(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
