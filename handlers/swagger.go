package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers the Swagger UI and OpenAPI document.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>quillpress API</title>
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

const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "quillpress", "version": "v1.0.0" },
  "components": { "securitySchemes": { "bearer": { "type": "http", "scheme": "bearer", "bearerFormat": "JWT" } } },
  "security": [ { "bearer": [] } ],
  "paths": {
    "/auth/login": {
      "post": {
        "summary": "Exchange username and password for an access/refresh pair",
        "security": [],
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","required":["username","password"],"properties":{"username":{"type":"string"},"password":{"type":"string"}}}}}},
        "responses": { "200": { "description": "accessToken and refreshToken" }, "400": { "description": "invalid body" }, "401": { "description": "invalid credentials" } }
      }
    },
    "/auth/refresh": {
      "post": { "summary": "Issue a new access token", "security": [], "requestBody": { "content": { "application/json": { "schema": {"type":"object","required":["refreshToken"],"properties":{"refreshToken":{"type":"string"}}}}}}, "responses": { "200": { "description": "new access token" }, "401": { "description": "invalid or revoked refresh token" } } }
    },
    "/auth/logout": {
      "post": { "summary": "Revoke the access token and drop the refresh session", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"refreshToken":{"type":"string"}}}}}}, "responses": { "200": { "description": "logged out" } } }
    },
    "/auth/me": { "get": { "summary": "Identity carried by the access token", "responses": { "200": { "description": "identity" } } } },
    "/users": {
      "get": { "summary": "List users (admin)", "responses": { "200": { "description": "users, newest first" } } },
      "post": { "summary": "Create user with a temporary password (admin)", "requestBody": { "content": { "application/json": { "schema": {"type":"object","required":["name","username"],"properties":{"name":{"type":"string"},"username":{"type":"string"},"email":{"type":"string"},"role":{"type":"string","enum":["admin","editor","author"]},"avatar":{"type":"string"}}}}}}, "responses": { "201": { "description": "created" }, "409": { "description": "username taken" } } }
    },
    "/users/{id}": {
      "get": { "summary": "Get user (self or admin)", "responses": { "200": { "description": "user" }, "404": { "description": "not found" } } },
      "delete": { "summary": "Delete user (admin)", "responses": { "204": { "description": "deleted" } } }
    },
    "/users/{id}/profile": { "patch": { "summary": "Update name, email, avatar (self or admin)", "responses": { "200": { "description": "updated" } } } },
    "/users/{id}/role": { "patch": { "summary": "Change role (admin)", "responses": { "200": { "description": "updated" } } } },
    "/users/{id}/activate": { "patch": { "summary": "Replace the temporary password and confirm the account (self)", "responses": { "200": { "description": "activated" }, "400": { "description": "wrong old password or already confirmed" } } } },
    "/users/{id}/password": { "patch": { "summary": "Change password (self)", "responses": { "200": { "description": "updated" }, "400": { "description": "wrong old password" } } } },
    "/users/{id}/reset-password": { "post": { "summary": "Generate a new temporary password (admin)", "responses": { "200": { "description": "reset" } } } },
    "/users/{id}/avatar": {
      "put": { "summary": "Upload avatar image (multipart field file)", "responses": { "200": { "description": "updated" } } },
      "get": { "summary": "Presigned avatar URL", "responses": { "200": { "description": "url" } } }
    },
    "/categories": {
      "get": { "summary": "List categories", "responses": { "200": { "description": "categories" } } },
      "post": { "summary": "Create category (admin, editor)", "responses": { "201": { "description": "created" } } }
    },
    "/categories/bulk-delete": { "post": { "summary": "Delete many categories (admin, editor)", "responses": { "200": { "description": "deleted count" } } } },
    "/categories/{id}": {
      "get": { "summary": "Get category", "responses": { "200": { "description": "category" } } },
      "patch": { "summary": "Update category (admin, editor)", "responses": { "200": { "description": "updated" } } },
      "delete": { "summary": "Delete category (admin, editor)", "responses": { "204": { "description": "deleted" } } }
    },
    "/posts": {
      "get": { "summary": "List posts", "responses": { "200": { "description": "posts" } } },
      "post": { "summary": "Create post owned by the caller", "responses": { "201": { "description": "created" } } }
    },
    "/posts/bulk-delete": { "post": { "summary": "Delete many posts (admin, editor)", "responses": { "200": { "description": "deleted count" } } } },
    "/posts/{id}": {
      "get": { "summary": "Get post", "responses": { "200": { "description": "post" } } },
      "patch": { "summary": "Update post (owner, admin, editor)", "responses": { "200": { "description": "updated" }, "403": { "description": "not the owner" } } },
      "delete": { "summary": "Delete post (owner, admin, editor)", "responses": { "204": { "description": "deleted" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "security": [], "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "security": [], "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "security": [], "responses": { "200": { "description": "metrics" } } } }
  }
}`
