package main

import (
	"net/http"

	"bitbucket.org/northguard/safety_backend/models"
	"github.com/gin-gonic/gin"
)

// findingView adds the read-time overdue flag to the stored document.
type findingView struct {
	*models.Finding
	IsOverdue bool `json:"is_overdue"`
}

func viewOfFinding(finding *models.Finding) findingView {
	return findingView{
		Finding:   finding,
		IsOverdue: finding.IsOverdue(engine.Clock.Now()),
	}
}

func createFindingHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewFinding
		if err := c.ShouldBindJSON(&input); err != nil {
			renderBindError(c, err)
			return
		}

		finding, err := engine.CreateFinding(c.Request.Context(), orgIdFrom(c), &input)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusCreated, viewOfFinding(finding))
	}
}

func listFindingsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		findings, err := engine.ListFindings(c.Request.Context(), orgIdFrom(c))
		if err != nil {
			renderError(c, err)
			return
		}
		views := make([]findingView, 0, len(findings))
		for _, finding := range findings {
			views = append(views, viewOfFinding(finding))
		}
		c.JSON(http.StatusOK, views)
	}
}

func getFindingHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		finding, err := engine.GetFinding(c.Request.Context(), orgIdFrom(c), c.Param("id"))
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, viewOfFinding(finding))
	}
}

func updateFindingHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.UpdateFindingInput
		if err := c.ShouldBindJSON(&input); err != nil {
			renderBindError(c, err)
			return
		}

		finding, err := engine.UpdateFinding(c.Request.Context(), orgIdFrom(c), c.Param("id"), &input)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, viewOfFinding(finding))
	}
}

func setFindingStatusHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.SetFindingStatusInput
		if err := c.ShouldBindJSON(&input); err != nil {
			renderBindError(c, err)
			return
		}

		finding, err := engine.SetFindingStatus(c.Request.Context(), orgIdFrom(c), c.Param("id"), &input)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, viewOfFinding(finding))
	}
}

type linkCapaRequest struct {
	CapaId string `json:"capa_id" binding:"required"`
}

func linkCapaHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req linkCapaRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			renderBindError(c, err)
			return
		}

		finding, err := engine.LinkCapa(c.Request.Context(), orgIdFrom(c), c.Param("id"), req.CapaId)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, viewOfFinding(finding))
	}
}
