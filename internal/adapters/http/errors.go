package http

import (
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/anime-quote-service/internal/adapters/http/dto"
)

// routeMethods are the methods answered with 405 on a known path that does
// not accept them.
var routeMethods = []string{
	http.MethodGet,
	http.MethodHead,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodOptions,
}

// noRoute answers any unknown path with a NOT_FOUND envelope.
func noRoute(c *gin.Context) {
	dto.AbortWithCode(c, dto.ErrorCodeNotFound, fmt.Sprintf("route %s not found", c.Request.URL.Path))
}

// methodNotAllowed answers with 405 and an Allow header listing allowed.
func methodNotAllowed(allowed ...string) gin.HandlerFunc {
	allow := strings.Join(allowed, ", ")

	return func(c *gin.Context) {
		c.Header("Allow", allow)
		dto.AbortWithCode(c, dto.ErrorCodeMethodNotAllowed,
			fmt.Sprintf("method %s not allowed on %s", c.Request.Method, c.Request.URL.Path))
	}
}

// restrictMethods registers the 405 handler on path for every method not
// in allowed. The allowed handlers must be registered separately.
func restrictMethods(rg gin.IRoutes, path string, allowed ...string) {
	reject := methodNotAllowed(allowed...)

	for _, method := range routeMethods {
		if !slices.Contains(allowed, method) {
			rg.Handle(method, path, reject)
		}
	}
}
