package main

import (
	"net/http"

	"bitbucket.org/northguard/safety_backend/config"
	"bitbucket.org/northguard/safety_backend/models"
	"bitbucket.org/northguard/safety_backend/models/reports"
	"github.com/gin-gonic/gin"
)

func reportData(c *gin.Context) ([]*models.Inspection, []*models.Finding, error) {
	orgId := orgIdFrom(c)
	inspections, err := engine.ListInspections(c.Request.Context(), orgId)
	if err != nil {
		return nil, nil, err
	}
	findings, err := engine.ListFindings(c.Request.Context(), orgId)
	if err != nil {
		return nil, nil, err
	}
	return inspections, findings, nil
}

func complianceSummaryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(), "reports.summary")
		defer span.End()
		c.Request = c.Request.WithContext(ctx)

		inspections, findings, err := reportData(c)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, reports.Summarize(inspections, findings, engine.Clock.Now()))
	}
}

func corScoreHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(), "reports.cor")
		defer span.End()
		c.Request = c.Request.WithContext(ctx)

		inspections, findings, err := reportData(c)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, reports.ScoreCOR(inspections, findings, engine.Clock.Now(), config.GetScoringPolicy()))
	}
}

func corExportHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(), "reports.cor.export")
		defer span.End()
		c.Request = c.Request.WithContext(ctx)

		inspections, findings, err := reportData(c)
		if err != nil {
			renderError(c, err)
			return
		}
		now := engine.Clock.Now()
		summary := reports.Summarize(inspections, findings, now)
		score := reports.ScoreCOR(inspections, findings, now, config.GetScoringPolicy())

		f, err := reports.BuildCORWorkbook(summary, score, now)
		if err != nil {
			renderError(c, err)
			return
		}

		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", "attachment; filename=cor-report.xlsx")
		if err := f.Write(c.Writer); err != nil {
			_ = c.Error(err)
		}
	}
}
