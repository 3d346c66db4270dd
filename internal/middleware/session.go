package middleware

import (
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ithomeportal/unilink-energy/config"
	"github.com/ithomeportal/unilink-energy/internal/utils"
)

// Gin context keys set for authenticated requests.
const (
	SessionEmailKey  = "sessionEmail"
	SessionClaimsKey = "sessionClaims"
)

var publicPrefixes = []string{
	"/api/auth/",
	"/api/health",
	"/swagger/",
	"/_next",
	"/static",
	"/favicon",
	"/images",
	"/fonts",
}

var staticExtensions = map[string]bool{
	".ico": true, ".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".svg": true, ".css": true, ".js": true, ".woff": true, ".woff2": true,
	".ttf": true, ".eot": true, ".map": true, ".webp": true,
}

// IsPublicPath reports whether p is served without a session.
func IsPublicPath(p, loginPath string) bool {
	if p == loginPath || strings.HasPrefix(p, loginPath+"/") {
		return true
	}
	for _, prefix := range publicPrefixes {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return staticExtensions[strings.ToLower(path.Ext(p))]
}

// SessionGate requires a valid session cookie on every non-public path.
// Requests without one are redirected to the login page with the requested
// path in returnUrl; an invalid cookie is cleared on the way.
func SessionGate(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := c.Request.URL.Path
		if IsPublicPath(p, cfg.LoginPath) {
			c.Next()
			return
		}

		token, err := c.Cookie(utils.SessionCookieName)
		if err != nil || token == "" {
			redirectToLogin(c, cfg.LoginPath, p)
			return
		}

		claims, err := utils.ValidateSessionToken(token, cfg.JWTSecret)
		if err != nil {
			http.SetCookie(c.Writer, utils.ExpiredSessionCookie(cfg.IsProduction()))
			redirectToLogin(c, cfg.LoginPath, p)
			return
		}

		c.Set(SessionEmailKey, claims.Email)
		c.Set(SessionClaimsKey, claims)
		c.Next()
	}
}

func redirectToLogin(c *gin.Context, loginPath, returnPath string) {
	target := loginPath + "?returnUrl=" + url.QueryEscape(returnPath)
	c.Redirect(http.StatusFound, target)
	c.Abort()
}
