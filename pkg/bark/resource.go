package bark

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sre-norns/catalog/pkg/access"
	"github.com/sre-norns/catalog/pkg/catalog"
	"github.com/sre-norns/catalog/pkg/wyrd"
)

// ResourceKeyApi parses the `id` query parameter into a record key.
// Used in conjunction with `RequireResourceKey`
func ResourceKeyApi[K wyrd.ResourceKey](parse func(string) (K, error)) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		value, ok := ctx.GetQuery("id")
		if !ok {
			AbortWithError(ctx, ErrMissingResourceID)
			return
		}

		key, err := parse(value)
		if err != nil {
			AbortWithError(ctx, err)
			return
		}

		ctx.Set(resourceKeyKey, key)
		ctx.Next()
	}
}

func RequireResourceKey[K wyrd.ResourceKey](ctx *gin.Context) K {
	return ctx.MustGet(resourceKeyKey).(K)
}

// RegisterResource adds list, get, create, update and delete routes of a record type to the group
func RegisterResource[T any, K wyrd.ResourceKey](group *gin.RouterGroup, api catalog.ResourceApi[T, K]) {
	desc := api.Descriptor()
	resource := group.Group(string(desc.Kind))

	resource.GET("/all", AccessApi(api, access.OperationList), ContentTypeApi(), func(ctx *gin.Context) {
		results, err := api.List(ctx.Request.Context(), RequireCaller(ctx))
		if err != nil {
			AbortWithError(ctx, err)
			return
		}

		MarshalResponse(ctx, http.StatusOK, results)
	})

	resource.GET("", AccessApi(api, access.OperationGet), ContentTypeApi(), ResourceKeyApi(desc.ParseKey), func(ctx *gin.Context) {
		result, err := api.Get(ctx.Request.Context(), RequireCaller(ctx), RequireResourceKey[K](ctx))
		if err != nil {
			AbortWithError(ctx, err)
			return
		}

		MarshalResponse(ctx, http.StatusOK, result)
	})

	// Fields of a new record are passed as individual query parameters
	resource.POST("/post", AccessApi(api, access.OperationCreate), ContentTypeApi(), func(ctx *gin.Context) {
		var newEntry T
		if err := ctx.ShouldBindQuery(&newEntry); err != nil {
			AbortWithError(ctx, &catalog.ValidationError{Name: desc.Name, Err: err})
			return
		}

		result, err := api.Create(ctx.Request.Context(), RequireCaller(ctx), newEntry)
		if err != nil {
			AbortWithError(ctx, err)
			return
		}

		MarshalResponse(ctx, http.StatusOK, result)
	})

	resource.PUT("", AccessApi(api, access.OperationUpdate), ContentTypeApi(), ResourceKeyApi(desc.ParseKey), func(ctx *gin.Context) {
		key := RequireResourceKey[K](ctx)

		// The key is addressed by the query, the body may omit it
		var newEntry T
		desc.SetKey(&newEntry, key)
		if err := ctx.ShouldBindWith(&newEntry, bindingFor(ctx.Request.Method, ctx.ContentType())); err != nil {
			AbortWithError(ctx, &catalog.ValidationError{Name: desc.Name, Err: err})
			return
		}

		result, err := api.Update(ctx.Request.Context(), RequireCaller(ctx), key, newEntry)
		if err != nil {
			AbortWithError(ctx, err)
			return
		}

		MarshalResponse(ctx, http.StatusOK, result)
	})

	resource.DELETE("", AccessApi(api, access.OperationDelete), ContentTypeApi(), ResourceKeyApi(desc.ParseKey), func(ctx *gin.Context) {
		result, err := api.Delete(ctx.Request.Context(), RequireCaller(ctx), RequireResourceKey[K](ctx))
		if err != nil {
			AbortWithError(ctx, err)
			return
		}

		MarshalResponse(ctx, http.StatusOK, result)
	})
}
