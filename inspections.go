package main

import (
	"net/http"

	"bitbucket.org/northguard/safety_backend/models"
	"github.com/gin-gonic/gin"
)

// inspectionView is the API shape of an inspection: the stored document plus
// the read-time calculated status and checklist aggregate.
type inspectionView struct {
	*models.Inspection
	CalculatedStatus string                 `json:"calculated_status"`
	ChecklistCounts  models.ChecklistCounts `json:"checklist_counts"`
}

func viewOfInspection(inspection *models.Inspection) inspectionView {
	return inspectionView{
		Inspection:       inspection,
		CalculatedStatus: inspection.CalculatedStatus(engine.Clock.Now()),
		ChecklistCounts:  models.AggregateChecklist(inspection.ChecklistItems),
	}
}

func scheduleInspectionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewInspection
		if err := c.ShouldBindJSON(&input); err != nil {
			renderBindError(c, err)
			return
		}

		inspection, err := engine.ScheduleInspection(c.Request.Context(), orgIdFrom(c), &input)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusCreated, viewOfInspection(inspection))
	}
}

func listInspectionsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		inspections, err := engine.ListInspections(c.Request.Context(), orgIdFrom(c))
		if err != nil {
			renderError(c, err)
			return
		}
		views := make([]inspectionView, 0, len(inspections))
		for _, inspection := range inspections {
			views = append(views, viewOfInspection(inspection))
		}
		c.JSON(http.StatusOK, views)
	}
}

func getInspectionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		inspection, err := engine.GetInspection(c.Request.Context(), orgIdFrom(c), c.Param("id"))
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, viewOfInspection(inspection))
	}
}

func updateInspectionDetailsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.UpdateInspectionDetailsInput
		if err := c.ShouldBindJSON(&input); err != nil {
			renderBindError(c, err)
			return
		}

		inspection, err := engine.UpdateInspectionDetails(c.Request.Context(), orgIdFrom(c), c.Param("id"), &input)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, viewOfInspection(inspection))
	}
}

type startInspectionRequest struct {
	InspectorId   string `json:"inspector_id"`
	InspectorName string `json:"inspector_name" binding:"required"`
}

func startInspectionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req startInspectionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			renderBindError(c, err)
			return
		}

		inspection, err := engine.StartInspection(c.Request.Context(), orgIdFrom(c), c.Param("id"), req.InspectorId, req.InspectorName)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, viewOfInspection(inspection))
	}
}

func updateChecklistItemHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.UpdateChecklistItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			renderBindError(c, err)
			return
		}

		inspection, err := engine.UpdateChecklistItem(c.Request.Context(), orgIdFrom(c), c.Param("id"), c.Param("itemId"), &input)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, viewOfInspection(inspection))
	}
}

type completeInspectionRequest struct {
	CompletionNotes string `json:"completion_notes"`
}

func completeInspectionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req completeInspectionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			renderBindError(c, err)
			return
		}

		inspection, unsatisfactory, err := engine.CompleteInspection(c.Request.Context(), orgIdFrom(c), c.Param("id"), req.CompletionNotes)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"inspection":           viewOfInspection(inspection),
			"unsatisfactory_count": unsatisfactory,
		})
	}
}

type cancelInspectionRequest struct {
	Reason string `json:"reason" binding:"required"`
}

func cancelInspectionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cancelInspectionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			renderBindError(c, err)
			return
		}

		inspection, err := engine.CancelInspection(c.Request.Context(), orgIdFrom(c), c.Param("id"), req.Reason)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, viewOfInspection(inspection))
	}
}
