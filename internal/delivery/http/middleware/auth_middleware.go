package middleware

import (
	"strings"

	"cv-generator-backend/internal/domain"
	"cv-generator-backend/pkg/apperror"
	"cv-generator-backend/pkg/auth"
	"cv-generator-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// TokenVerifier checks a bearer token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// TokenMiddleware verifies the bearer token and stores the caller's identity.
// It does not require a user row, so sign-in sync can run behind it.
func TokenMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := identify(c, verifier); !ok {
			c.Abort()
			return
		}
		c.Next()
	}
}

// AuthMiddleware verifies the bearer token and resolves it to a registered
// user's session. Role and company always come from the user row, never from
// token claims.
func AuthMiddleware(verifier TokenVerifier, authUC domain.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := identify(c, verifier)
		if !ok {
			c.Abort()
			return
		}

		session, err := authUC.ResolveSession(c.Request.Context(), identity.Subject)
		if err != nil {
			c.Error(err)
			c.Abort()
			return
		}

		c.Set(string(domain.KeySession), session)
		c.Set(string(domain.KeyUserID), session.UserID)
		c.Set(string(domain.KeyUserEmail), session.Email)
		c.Set(string(domain.KeyUserRole), string(session.Role))
		c.Set(string(domain.KeyCompanyID), session.CompanyID)
		c.Next()
	}
}

func identify(c *gin.Context, verifier TokenVerifier) (*domain.Identity, bool) {
	tokenString := bearerToken(c)
	if tokenString == "" {
		c.Error(apperror.Unauthorized("Authorization header required"))
		return nil, false
	}

	claims, err := verifier.Verify(tokenString)
	if err != nil {
		logger.Log.Warn("Token validation failed", "error", err, "path", c.FullPath())
		c.Error(apperror.Unauthorized("Invalid token"))
		return nil, false
	}

	identity := &domain.Identity{
		Subject: claims.Subject,
		Email:   strings.ToLower(strings.TrimSpace(claims.Email)),
		Name:    claims.Name,
	}
	c.Set(string(domain.KeyIdentity), identity)
	return identity, true
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

// SessionFrom returns the session set by AuthMiddleware, or nil.
func SessionFrom(c *gin.Context) *domain.Session {
	v, ok := c.Get(string(domain.KeySession))
	if !ok {
		return nil
	}
	s, _ := v.(*domain.Session)
	return s
}

// IdentityFrom returns the identity set by TokenMiddleware or AuthMiddleware, or nil.
func IdentityFrom(c *gin.Context) *domain.Identity {
	v, ok := c.Get(string(domain.KeyIdentity))
	if !ok {
		return nil
	}
	id, _ := v.(*domain.Identity)
	return id
}
