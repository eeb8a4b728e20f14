package main

import (
	"net/http"

	"bitbucket.org/northguard/safety_backend/models"
	"github.com/gin-gonic/gin"
)

func loginHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			renderBindError(c, err)
			return
		}

		info, err := models.Login(c.Request.Context(), &input)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, info)
	}
}

func logoutHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := models.Logout(c.Request.Context())
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"logged_out": ok})
	}
}

func createUserHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewUser
		if err := c.ShouldBindJSON(&input); err != nil {
			renderBindError(c, err)
			return
		}
		// admins provision users into their own org unless they say otherwise
		if input.OrgId == "" {
			input.OrgId = orgIdFrom(c)
		}

		user, err := models.CreateUser(c.Request.Context(), &input)
		if err != nil {
			renderError(c, err)
			return
		}
		user.PrepareGive()
		c.JSON(http.StatusCreated, user)
	}
}
