package bark

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

var ErrUnsupportedMediaType = fmt.Errorf("unsupported content type request")

const (
	responseMarshalKey = "responseMarshal"
	resourceKeyKey     = "resourceKey"
	callerKey          = "caller"
	requestIdKey       = "requestId"
)

func filterFlags(content string) string {
	for i, char := range content {
		if char == ' ' || char == ';' {
			return content[:i]
		}
	}
	return content
}

// Offered response types, JSON first so that wildcards and a missing Accept header select it
var offeredTypes = []string{
	gin.MIMEJSON,
	gin.MIMEYAML, "application/yaml", "text/yaml", "text/x-yaml",
	gin.MIMEXML, gin.MIMEXML2,
}

type responseHandler func(code int, obj any)

func replyWithAcceptedType(c *gin.Context) (responseHandler, error) {
	switch c.NegotiateFormat(offeredTypes...) {
	case gin.MIMEJSON:
		return c.JSON, nil
	case gin.MIMEYAML, "application/yaml", "text/yaml", "text/x-yaml":
		return c.YAML, nil
	case gin.MIMEXML, gin.MIMEXML2:
		return c.XML, nil
	}

	return nil, ErrUnsupportedMediaType
}

// ContentTypeApi selects response encoding based on the Accept header of the request.
// Used in conjunction with `MarshalResponse`
func ContentTypeApi() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		marshalResponse, err := replyWithAcceptedType(ctx)
		if err != nil {
			AbortWithError(ctx, err)
			return
		}

		ctx.Set(responseMarshalKey, marshalResponse)
		ctx.Next()
	}
}

func MarshalResponse(ctx *gin.Context, code int, responseValue any) {
	marshalResponse := ctx.MustGet(responseMarshalKey).(responseHandler)
	marshalResponse(code, responseValue)
}

// Monkey-patch GIN to respect other spelling of yaml mime-type
func bindingFor(method, contentType string) binding.Binding {
	switch contentType {
	case gin.MIMEYAML, "text/yaml", "application/yaml", "text/x-yaml":
		return binding.YAML
	case "", "*/*", gin.MIMEJSON:
		return binding.JSON
	default:
		return binding.Default(method, contentType)
	}
}
