package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/finboard/finboard-backend/docs"
	"github.com/labstack/echo/v4"
	"github.com/swaggo/swag"
)

// OpenAPI3Spec is the OpenAPI 3.0 rendering of the generated Swagger 2.0 doc
type OpenAPI3Spec struct {
	OpenAPI    string                 `json:"openapi"`
	Info       map[string]interface{} `json:"info"`
	Servers    []Server               `json:"servers"`
	Paths      map[string]interface{} `json:"paths"`
	Components map[string]interface{} `json:"components,omitempty"`
}

// Server is an OpenAPI 3.0 server entry
type Server struct {
	URL         string `json:"url"`
	Description string `json:"description"`
}

// convertRefs walks a Swagger 2.0 fragment, pointing $ref at components/schemas
// and moving non-body parameter types under a schema object
func convertRefs(data interface{}) interface{} {
	switch v := data.(type) {
	case map[string]interface{}:
		_, hasIn := v["in"]
		_, hasName := v["name"]
		if hasIn && hasName {
			return convertParameter(v)
		}

		out := make(map[string]interface{}, len(v))
		for key, value := range v {
			if ref, ok := value.(string); ok && key == "$ref" {
				out[key] = strings.Replace(ref, "#/definitions/", "#/components/schemas/", 1)
				continue
			}
			out[key] = convertRefs(value)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = convertRefs(item)
		}
		return out
	default:
		return data
	}
}

// convertParameter turns a path or query parameter into its 3.0 shape.
// Body parameters are passed through.
func convertParameter(param map[string]interface{}) map[string]interface{} {
	if param["in"] == "body" {
		return param
	}

	out := make(map[string]interface{})
	for _, field := range []string{"name", "in", "description", "required"} {
		if val, ok := param[field]; ok {
			out[field] = val
		}
	}

	schema := make(map[string]interface{})
	for _, field := range []string{"type", "format", "enum", "default", "minimum", "maximum"} {
		if val, ok := param[field]; ok {
			schema[field] = val
		}
	}
	if items, ok := param["items"]; ok {
		schema["items"] = convertRefs(items)
	}
	if len(schema) > 0 {
		out["schema"] = schema
	}
	return out
}

// ServeOpenAPI3Spec handles GET /openapi.json. The server URL follows the
// host the request came in on.
func ServeOpenAPI3Spec(c echo.Context) error {
	doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
	if err != nil {
		return NewInternalError(c, "Failed to read API documentation")
	}

	var swagger2 map[string]interface{}
	if err := json.Unmarshal([]byte(doc), &swagger2); err != nil {
		return NewInternalError(c, "Failed to parse API documentation")
	}

	info, _ := swagger2["info"].(map[string]interface{})
	paths, _ := swagger2["paths"].(map[string]interface{})

	components := make(map[string]interface{})
	if secDefs, ok := swagger2["securityDefinitions"].(map[string]interface{}); ok {
		components["securitySchemes"] = secDefs
	}
	if definitions, ok := swagger2["definitions"].(map[string]interface{}); ok {
		components["schemas"] = convertRefs(definitions)
	}

	convertedPaths, _ := convertRefs(paths).(map[string]interface{})

	return c.JSON(http.StatusOK, OpenAPI3Spec{
		OpenAPI: "3.0.3",
		Info:    info,
		Servers: []Server{{
			URL:         c.Scheme() + "://" + c.Request().Host + docs.SwaggerInfo.BasePath,
			Description: "This server",
		}},
		Paths:      convertedPaths,
		Components: components,
	})
}
