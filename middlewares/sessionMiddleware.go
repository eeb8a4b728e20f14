package middlewares

import (
	"context"
	"net/http"
	"strconv"

	"bitbucket.org/northguard/safety_backend/config"
	"bitbucket.org/northguard/safety_backend/models"
	"bitbucket.org/northguard/safety_backend/utils"
	"github.com/gin-gonic/gin"
)

// SessionMiddleware authenticates the "token" header. The JWT carries the
// claims; the redis session entry written at login makes server-side logout
// actually revoke it. On success the request context carries org id, actor
// id/name and a correlation id for everything downstream.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Request.Header.Get("token")
		if token == "" {
			abortUnauthorized(c, "unauthorized")
			return
		}

		validated, err := utils.JwtValidate(token)
		if err != nil || !validated.Valid {
			abortUnauthorized(c, "unauthorized")
			return
		}
		claims, ok := validated.Claims.(*utils.JwtCustomClaim)
		if !ok {
			abortUnauthorized(c, "unauthorized")
			return
		}

		username, exists, err := config.GetRedisValue("Token:" + token)
		if err != nil || !exists {
			abortUnauthorized(c, "unauthorized")
			return
		}

		user, err := getUser(c.Request.Context(), claims.ID)
		if err != nil {
			abortUnauthorized(c, "unauthorized")
			return
		}
		if user.IsActive == nil || !*user.IsActive {
			abortUnauthorized(c, "user is disabled")
			return
		}

		ctx := utils.SetTokenInContext(c.Request.Context(), token)
		ctx = utils.SetUsernameInContext(ctx, username)
		ctx = utils.SetOrgIdInContext(ctx, user.OrgId)
		ctx = utils.SetUserIdInContext(ctx, user.ID)
		ctx = utils.SetUserNameInContext(ctx, user.Name)
		ctx = utils.SetIsAdminInContext(ctx, user.Role == models.UserRoleAdmin)

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// retrieve user from redis or db
func getUser(ctx context.Context, id int) (*models.User, error) {
	var user models.User
	exists, err := config.GetRedisObject("User:"+strconv.Itoa(id), &user)
	if err == nil && exists {
		return &user, nil
	}

	fetched, err := models.GetUserById(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := config.SetRedisObject("User:"+strconv.Itoa(fetched.ID), fetched, 0); err != nil {
		config.LogError(config.GetLogger(), "sessionMiddleware.go", "getUser", "SetRedisObject", fetched.ID, err)
	}
	return fetched, nil
}

// AdminOnly gates user-management routes.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		isAdmin, ok := utils.GetIsAdminFromContext(c.Request.Context())
		if !ok || !isAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "admin only"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{"error": message})
	c.Abort()
}
