package api

import (
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/calventeramirez/baseDatos/apiexternal"
	"github.com/calventeramirez/baseDatos/logger"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// AddProxyRoutes forwards /api/* unchanged to the backend.
func AddProxyRoutes(rg *gin.RouterGroup, target *url.URL, origins []string) {
	if len(origins) > 0 {
		cfg := cors.DefaultConfig()
		cfg.AllowOrigins = origins
		cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization", "X-Request-Id")
		rg.Use(cors.New(cfg))
	}
	rg.Any("/*path", proxyHandler(target))
}

func proxyHandler(target *url.URL) gin.HandlerFunc {
	proxy := httputil.NewSingleHostReverseProxy(target)
	direct := proxy.Director
	proxy.Director = func(req *http.Request) {
		direct(req)
		req.Host = target.Host
	}
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		logger.Log.WithError(err).Warn("proxy ", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"detail":"` + apiexternal.ConnectionMessage + `"}`))
	}
	return func(c *gin.Context) {
		req := c.Request.Clone(c.Request.Context())
		req.URL.Path = c.Param("path")
		req.URL.RawPath = ""
		proxy.ServeHTTP(c.Writer, req)
	}
}
