package main

import (
	"net/http"

	"bitbucket.org/northguard/safety_backend/models"
	"github.com/gin-gonic/gin"
)

func createTemplateHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewInspectionTemplate
		if err := c.ShouldBindJSON(&input); err != nil {
			renderBindError(c, err)
			return
		}

		template, err := catalog.CreateTemplate(c.Request.Context(), orgIdFrom(c), &input)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusCreated, template)
	}
}

func listTemplatesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		templates, err := catalog.ListTemplates(c.Request.Context(), orgIdFrom(c))
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, templates)
	}
}

func activeTemplatesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		templates, err := catalog.GetActiveTemplates(c.Request.Context(), orgIdFrom(c))
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, templates)
	}
}

func getTemplateHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		template, err := catalog.GetTemplate(c.Request.Context(), orgIdFrom(c), c.Param("id"))
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, template)
	}
}

func updateTemplateHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewInspectionTemplate
		if err := c.ShouldBindJSON(&input); err != nil {
			renderBindError(c, err)
			return
		}

		template, err := catalog.UpdateTemplate(c.Request.Context(), orgIdFrom(c), c.Param("id"), &input)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, template)
	}
}

func deactivateTemplateHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		template, err := catalog.DeactivateTemplate(c.Request.Context(), orgIdFrom(c), c.Param("id"))
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, template)
	}
}
