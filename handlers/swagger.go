package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the song service.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>song-service API docs</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

// Minimal OpenAPI document describing the songs API.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "song-service", "version": "v0.1.0" },
  "paths": {
    "/songs": {
      "get": {
        "summary": "List songs with pagination and search",
        "parameters": [
          { "name": "page", "in": "query", "schema": { "type": "integer", "default": 1 } },
          { "name": "limit", "in": "query", "schema": { "type": "integer", "default": 5, "maximum": 100 } },
          { "name": "search", "in": "query", "schema": { "type": "string" } }
        ],
        "responses": { "200": { "description": "paginated songs" } }
      },
      "post": {
        "summary": "Create a song (anonymous callers get the sentinel owner)",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","required":["title","artist"],"properties":{"title":{"type":"string"},"artist":{"type":"string"},"album":{"type":"string"},"year":{"type":"integer"},"genre":{"type":"string"},"duration":{"type":"string"}}}}}},
        "responses": { "201": { "description": "created song" }, "400": { "description": "missing title/artist" } }
      }
    },
    "/songs/{id}": {
      "get": { "summary": "Get a song", "responses": { "200": { "description": "song" }, "404": { "description": "not found" } } },
      "put": { "summary": "Replace a song (owner or admin)", "responses": { "200": { "description": "updated song" }, "400": { "description": "missing title/artist" }, "401": { "description": "unauthenticated" }, "403": { "description": "not owner" }, "404": { "description": "not found" } } },
      "delete": { "summary": "Delete a song (owner or admin)", "responses": { "204": { "description": "deleted" }, "401": { "description": "unauthenticated" }, "403": { "description": "not owner" }, "404": { "description": "not found" } } }
    },
    "/songs/{id}/cover": {
      "get": { "summary": "Download cover art", "responses": { "200": { "description": "image" }, "404": { "description": "not found" } } },
      "put": { "summary": "Upload cover art (owner or admin)", "responses": { "204": { "description": "stored" } } }
    },
    "/admin/stats": {
      "get": { "summary": "Catalog statistics (admin only)", "responses": { "200": { "description": "stats" }, "403": { "description": "not admin" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
