package middleware

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS returns the browser cross-origin policy for the notification API.
// The API is consumed server-to-server, so this only matters for the
// marketplace's internal dashboards; the allowed origins, methods, and
// headers come from configuration and must include X-API-Key for the auth
// middleware to be reachable from a browser.
func CORS(origins, methods, headers []string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: methods,
		AllowHeaders: headers,
	})
}
