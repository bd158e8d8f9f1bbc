package bark

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-kit/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sre-norns/catalog/pkg/access"
	"github.com/sre-norns/catalog/pkg/catalog"
)

// RouterOptions configures ambient concerns of the API router
type RouterOptions struct {
	Logger log.Logger

	// Registry collects request metrics and is exposed on /metrics, no metrics if nil
	Registry *prometheus.Registry

	EnableOpenMetrics bool
}

func ApiRoutes(srv catalog.Service, auth Authenticator, options RouterOptions) (*gin.Engine, error) {
	logger := options.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}

	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(logger))

	if options.Registry != nil {
		metrics, err := NewMetrics(options.Registry)
		if err != nil {
			return nil, err
		}
		router.Use(metrics.Middleware())
		router.GET("/metrics", MetricsHandler(options.Registry, options.EnableOpenMetrics))
	}

	router.GET("/api/systemInfo", ContentTypeApi(), func(ctx *gin.Context) {
		MarshalResponse(ctx, http.StatusOK, srv.GetSystemInfo())
	})

	api := router.Group("api", AuthBearerApi(auth))
	{
		RegisterResource(api, srv.GetGamesAPI())
		RegisterResource(api, srv.GetGroceriesAPI())
		RegisterResource(api, srv.GetSongsAPI())
		RegisterResource(api, srv.GetHotelsAPI())

		api.GET("/currentUser", AccessApi(AuthorizerFunc(access.DefaultPolicy.Check), access.OperationGet), ContentTypeApi(), func(ctx *gin.Context) {
			result, err := srv.GetUsersAPI().Current(ctx.Request.Context(), RequireCaller(ctx))
			if err != nil {
				AbortWithError(ctx, err)
				return
			}

			ctx.Header("Cache-Control", "no-store")
			MarshalResponse(ctx, http.StatusOK, result)
		})

		api.GET("/admin/users", AccessApi(AuthorizerFunc(access.AdminOnlyPolicy.Check), access.OperationList), ContentTypeApi(), func(ctx *gin.Context) {
			results, err := srv.GetUsersAPI().List(ctx.Request.Context(), RequireCaller(ctx))
			if err != nil {
				AbortWithError(ctx, err)
				return
			}

			MarshalResponse(ctx, http.StatusOK, results)
		})
	}

	return router, nil
}
