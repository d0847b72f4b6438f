package routes

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/CoachMatchBack/internal/config"
)

const docsIndexHTML = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{ .Title }}</title>
  <style>
    body { margin: 0; font-family: Georgia, "Times New Roman", serif; background: #f6f7f4; color: #132019; }
    main { max-width: 960px; margin: 0 auto; padding: 32px 20px 48px; }
    h1 { margin: 0 0 8px; }
    p { color: #536258; line-height: 1.5; }
    table { width: 100%; border-collapse: collapse; margin: 24px 0; background: #fff; }
    th, td { text-align: left; padding: 8px 12px; border-bottom: 1px solid #d8ddd6; font-size: 14px; }
    code { font-family: "SFMono-Regular", Consolas, monospace; }
    pre { background: #0f172a; color: #e2e8f0; padding: 16px; border-radius: 8px; overflow: auto; font-size: 13px; }
    a { color: #1f6f4a; }
  </style>
</head>
<body>
  <main>
    <h1>{{ .Title }}</h1>
    <p>Loaded {{ .LoadedAt }}. The raw OpenAPI document is served at <a href="/docs/openapi.yaml"><code>/docs/openapi.yaml</code></a>. This page is only exposed in development.</p>
    <table>
      <thead><tr><th>Method</th><th>Path</th></tr></thead>
      <tbody>
      {{ range .Endpoints }}<tr><td><code>{{ .Method }}</code></td><td><code>{{ .Path }}</code></td></tr>
      {{ end }}
      </tbody>
    </table>
    <pre>{{ .Spec }}</pre>
  </main>
</body>
</html>
`

type docsEndpoint struct {
	Method string
	Path   string
}

type docsPageData struct {
	Title     string
	LoadedAt  string
	Spec      string
	Endpoints []docsEndpoint
}

func registerDocsRoutes(app fiber.Router, cfg *config.Config) error {
	if !cfg.DocsEnabled() {
		return nil
	}

	spec, err := loadOpenAPISpec()
	if err != nil {
		return fmt.Errorf("load openapi spec: %w", err)
	}

	indexTemplate, err := template.New("docs-index").Parse(docsIndexHTML)
	if err != nil {
		return fmt.Errorf("parse docs template: %w", err)
	}

	pageData := docsPageData{
		Title:     "CoachMatch API Docs",
		LoadedAt:  time.Now().UTC().Format(time.RFC3339),
		Spec:      string(spec),
		Endpoints: apiEndpoints(app),
	}

	indexHandler := func(c *fiber.Ctx) error {
		applyDocsBaseHeaders(c, fiber.MIMETextHTMLCharsetUTF8)
		c.Set("Content-Security-Policy", "default-src 'none'; style-src 'unsafe-inline'; base-uri 'none'; form-action 'none'; frame-ancestors 'none'")

		var body bytes.Buffer
		if err := indexTemplate.Execute(&body, pageData); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to render api docs")
		}

		return c.Status(fiber.StatusOK).Send(body.Bytes())
	}

	app.Get("/docs", indexHandler)
	app.Get("/docs/", indexHandler)
	app.Get("/docs/openapi.yaml", func(c *fiber.Ctx) error {
		applyDocsBaseHeaders(c, "application/yaml; charset=utf-8")
		c.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'; base-uri 'none'; form-action 'none'")
		c.Set(fiber.HeaderContentDisposition, `inline; filename="openapi.yaml"`)
		return c.Status(fiber.StatusOK).Send(spec)
	})

	return nil
}

// apiEndpoints lists the routes registered before the docs routes.
func apiEndpoints(router fiber.Router) []docsEndpoint {
	app, ok := router.(*fiber.App)
	if !ok {
		return nil
	}

	var endpoints []docsEndpoint
	for _, route := range app.GetRoutes(true) {
		if route.Method == fiber.MethodHead || route.Method == fiber.MethodOptions {
			continue
		}
		endpoints = append(endpoints, docsEndpoint{Method: route.Method, Path: route.Path})
	}
	return endpoints
}

func loadOpenAPISpec() ([]byte, error) {
	_, currentFile, _, ok := runtime.Caller(0)
	if !ok {
		return nil, fmt.Errorf("resolve source path")
	}

	specPath := filepath.Join(filepath.Dir(currentFile), "..", "..", "docs", "openapi.yaml")
	spec, err := os.ReadFile(specPath)
	if err != nil {
		return nil, err
	}

	return spec, nil
}

func applyDocsBaseHeaders(c *fiber.Ctx, contentType string) {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderCacheControl, "no-store, max-age=0")
	c.Set(fiber.HeaderPragma, "no-cache")
	c.Set(fiber.HeaderExpires, "0")
	c.Set(fiber.HeaderXContentTypeOptions, "nosniff")
	c.Set(fiber.HeaderXFrameOptions, "DENY")
	c.Set("Referrer-Policy", "no-referrer")
	c.Set("Cross-Origin-Resource-Policy", "same-origin")
	c.Set("X-Robots-Tag", "noindex, nofollow")
}
