package middleware

import (
	"errors"
	"net/http"
	"os"
	"strings"

	autherrors "go-hrops/internal/auth/errors"
	"go-hrops/internal/domain"
	"go-hrops/internal/shared/apperror"
	"go-hrops/internal/shared/contextutil"
	"go-hrops/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

func abortWith(c *gin.Context, err *apperror.AppError) {
	response.Error(c, err.HTTPStatus, err.Code, err.Message, nil)
	c.Abort()
}

func bearerToken(c *gin.Context) string {
	if token, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer "); found && token != "" {
		return token
	}
	if cookie, err := c.Cookie("access_token"); err == nil {
		return cookie
	}
	return ""
}

// AuthMiddleware accepts access tokens only. It exposes user_id, profile_id
// and role on the gin context and on the request context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "token not found", nil)
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, autherrors.ErrInvalidToken
			}
			return []byte(os.Getenv("JWT_SECRET")), nil
		})
		if err != nil || !token.Valid {
			if errors.Is(err, jwt.ErrTokenExpired) {
				abortWith(c, autherrors.ErrTokenExpired)
				return
			}
			abortWith(c, autherrors.ErrInvalidToken)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortWith(c, autherrors.ErrInvalidToken)
			return
		}
		if typ, _ := claims["typ"].(string); typ != "access" {
			abortWith(c, autherrors.ErrInvalidToken)
			return
		}

		userID, _ := claims["user_id"].(string)
		profileID, _ := claims["profile_id"].(string)
		role, _ := claims["role"].(string)
		if userID == "" || profileID == "" {
			abortWith(c, autherrors.ErrInvalidToken)
			return
		}
		if _, ok := domain.ParseRole(role); !ok {
			abortWith(c, autherrors.ErrInvalidToken)
			return
		}

		c.Set("user_id", userID)
		c.Set("profile_id", profileID)
		c.Set("role", role)

		ctx := c.Request.Context()
		ctx = contextutil.WithUserID(ctx, userID)
		ctx = contextutil.WithProfileID(ctx, profileID)
		ctx = contextutil.WithRole(ctx, role)
		ctx = contextutil.WithLogger(ctx, contextutil.GetLogger(ctx, zap.L()).With(
			zap.String("user_id", userID),
			zap.String("role", role),
		))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RoleMiddleware is a coarse gate for routes that do not go through casbin.
func RoleMiddleware(allowed ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := domain.ParseRole(c.GetString("role"))
		if !ok {
			abortWith(c, autherrors.ErrForbidden)
			return
		}
		for _, r := range allowed {
			if r == role {
				c.Next()
				return
			}
		}
		abortWith(c, autherrors.ErrForbidden)
	}
}
