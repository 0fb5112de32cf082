// Package openapi serves Swagger UI for the OpenAPI 3.1 document that huma
// generates from the registered operations.
package openapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// SpecPath is where the huma API publishes its OpenAPI document.
const SpecPath = "/openapi"

const swaggerUIHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>{{TITLE}}</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    SwaggerUIBundle({
      url: "{{SPEC}}",
      dom_id: "#swagger-ui",
      presets: [SwaggerUIBundle.presets.apis, SwaggerUIBundle.SwaggerUIStandalonePreset],
      layout: "BaseLayout",
    });
  </script>
</body>
</html>`

// RegisterRoutes adds the Swagger UI endpoints to the Echo instance. The UI
// loads the JSON document huma serves under SpecPath.
func RegisterRoutes(e *echo.Echo, title string) {
	page := strings.NewReplacer(
		"{{TITLE}}", title,
		"{{SPEC}}", SpecPath+".json",
	).Replace(swaggerUIHTML)

	e.GET("/swagger/index.html", func(c echo.Context) error {
		return c.HTML(http.StatusOK, page)
	})
	e.GET("/swagger", redirectToUI)
	e.GET("/swagger/", redirectToUI)
}

func redirectToUI(c echo.Context) error {
	return c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
}
