package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"bookstore-service/internal/importer"
	"bookstore-service/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"
)

const DefaultAdminCookie = "admin_token"

// AdminClaims represents the admin session JWT claims
type AdminClaims struct {
	AdminID string `json:"adminId"`
	Email   string `json:"email"`
	jwt.RegisteredClaims
}

type adminContextKey struct{}

// WithAdmin returns a copy of ctx carrying the authenticated admin.
func WithAdmin(ctx context.Context, admin *models.AdminIdentity) context.Context {
	return context.WithValue(ctx, adminContextKey{}, admin)
}

// AdminFromContext returns the admin stored by AdminAuth, if any.
func AdminFromContext(ctx context.Context) (*models.AdminIdentity, bool) {
	admin, ok := ctx.Value(adminContextKey{}).(*models.AdminIdentity)
	return admin, ok && admin != nil
}

// AdminAuth validates the admin session token from the cookie or a Bearer
// header and stores the identity on the request context. Requests without a
// valid token continue unauthenticated; RequireAdmin and the import engine
// decide whether that is allowed.
func AdminAuth(jwtSecret, cookieName string, logger *logrus.Entry) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := tokenFromRequest(c, cookieName)
		if tokenString == "" {
			c.Next()
			return
		}

		claims, err := ParseAdminToken(jwtSecret, tokenString)
		if err != nil {
			logger.WithError(err).Debug("Rejected admin token")
			c.Next()
			return
		}

		admin := &models.AdminIdentity{AdminID: claims.AdminID, Email: claims.Email}
		c.Set("admin_id", admin.AdminID)
		c.Set("admin_email", admin.Email)
		c.Request = c.Request.WithContext(WithAdmin(c.Request.Context(), admin))
		c.Next()
	}
}

func tokenFromRequest(c *gin.Context, cookieName string) string {
	if cookie, err := c.Cookie(cookieName); err == nil && cookie != "" {
		return cookie
	}

	authHeader := c.GetHeader("Authorization")
	tokenParts := strings.Split(authHeader, " ")
	if len(tokenParts) == 2 && tokenParts[0] == "Bearer" {
		return tokenParts[1]
	}
	return ""
}

// ParseAdminToken verifies an HMAC-signed admin token and returns its claims
func ParseAdminToken(jwtSecret, tokenString string) (*AdminClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AdminClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*AdminClaims)
	if !ok || !token.Valid || claims.AdminID == "" {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

// SignAdminToken issues an admin session token valid for ttl
func SignAdminToken(jwtSecret string, admin models.AdminIdentity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := AdminClaims{
		AdminID: admin.AdminID,
		Email:   admin.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(jwtSecret))
}

// AdminGate authorizes imports from the identity AdminAuth placed on the context.
type AdminGate struct{}

func (AdminGate) RequireAdmin(ctx context.Context) (*models.AdminIdentity, error) {
	admin, ok := AdminFromContext(ctx)
	if !ok {
		return nil, importer.ErrUnauthorized
	}
	return admin, nil
}

// RequireAdmin rejects requests that carry no admin identity
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := AdminFromContext(c.Request.Context()); !ok {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Success: false,
				Error: models.Error{
					Code:    "UNAUTHORIZED",
					Message: "Unauthorized",
				},
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
