package handlers

import (
	"net/http"

	"heartlink_backend/internal/middleware"
	"heartlink_backend/internal/services"
	"heartlink_backend/internal/services/dto"
	"heartlink_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type CompatibilityHandler struct {
	*BaseHandler
	compatibilityService services.CompatibilityService
}

func NewCompatibilityHandler(base *BaseHandler, compatibilityService services.CompatibilityService) *CompatibilityHandler {
	return &CompatibilityHandler{
		BaseHandler:          base,
		compatibilityService: compatibilityService,
	}
}

func (h *CompatibilityHandler) RegisterRoutes(r *gin.RouterGroup) {
	compatibility := r.Group("/compatibility")
	compatibility.Use(middleware.AuthMiddleware())
	{
		compatibility.POST("/submit", h.SubmitAnswers)
		compatibility.GET("/match/:userId", h.GetMatch)
		compatibility.GET("/matches", h.RankMatches)
		compatibility.GET("/schema", h.GetSchema)
	}
}

// SubmitAnswers saves or fully replaces the caller's questionnaire.
// @Summary  Submit compatibility answers
// @Tags     compatibility
// @Accept   json
// @Produce  json
// @Success  200 {object} map[string]string
// @Router   /compatibility/submit [post]
func (h *CompatibilityHandler) SubmitAnswers(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.SubmitAnswersRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.compatibilityService.SubmitAnswers(h.GetDB(c), userID, &req); err != nil {
		apperrors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Compatibility form saved"})
}

// GetMatch scores the caller against another user.
// @Summary  Compatibility with one user
// @Tags     compatibility
// @Produce  json
// @Param    userId path string true "Other user ID"
// @Success  200 {object} dto.MatchResult
// @Router   /compatibility/match/{userId} [get]
func (h *CompatibilityHandler) GetMatch(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	otherUserID := c.Param("userId")
	if otherUserID == "" || otherUserID == userID {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Provide another user's id"))
		return
	}

	match, err := h.compatibilityService.GetMatch(h.GetDB(c), userID, otherUserID)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"match": match})
}

// RankMatches returns the caller's ranked candidate list.
// @Summary  Ranked matches for the caller
// @Tags     compatibility
// @Produce  json
// @Param    limit     query int     false "Max results (default 20)"
// @Param    min_score query number  false "Minimum percent score"
// @Success  200 {object} map[string][]dto.RankedMatch
// @Router   /compatibility/matches [get]
func (h *CompatibilityHandler) RankMatches(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var criteria dto.RankCriteria
	if !h.BindAndValidate_Query(c, &criteria) {
		return
	}

	matches, err := h.compatibilityService.RankMatches(h.GetDB(c), userID, &criteria)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	if matches == nil {
		matches = []*dto.RankedMatch{}
	}
	c.JSON(http.StatusOK, gin.H{"matches": matches})
}

// GetSchema exposes the questionnaire contract.
// @Summary  Questionnaire schema
// @Tags     compatibility
// @Produce  json
// @Success  200 {object} dto.SchemaResponse
// @Router   /compatibility/schema [get]
func (h *CompatibilityHandler) GetSchema(c *gin.Context) {
	if _, ok := h.GetAndAuthorizeUserID(c); !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{"schema": h.compatibilityService.Schema()})
}
