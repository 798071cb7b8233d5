// Package docs registers the OpenAPI description served at /swagger/*.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/": {
            "get": {"tags": ["pages"], "summary": "Home page", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}
        },
        "/help": {
            "get": {"tags": ["pages"], "summary": "Help page", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}
        },
        "/test_admin": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["pages"], "summary": "Admin-only check page", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}}
        },
        "/test_user": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["pages"], "summary": "Member check page", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}}
        },
        "/register": {
            "post": {"tags": ["auth"], "summary": "Register an account", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}, "422": {"description": "Unprocessable Entity"}}}
        },
        "/login": {
            "post": {"tags": ["auth"], "summary": "Log in", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}, "422": {"description": "Unprocessable Entity"}}}
        },
        "/logout": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["auth"], "summary": "Log out", "responses": {"204": {"description": "No Content"}}}
        },
        "/me": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["auth"], "summary": "Current account", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}
        },
        "/books": {
            "get": {"tags": ["books"], "summary": "List books", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["books"], "summary": "Create a book", "consumes": ["application/json"], "responses": {"303": {"description": "See Other"}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}, "422": {"description": "Unprocessable Entity"}}}
        },
        "/books/new": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["books"], "summary": "Empty book form", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}
        },
        "/books/{id}": {
            "get": {"tags": ["books"], "summary": "Show a book", "parameters": [{"type": "string", "description": "Book id", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["books"], "summary": "Update a book", "parameters": [{"type": "string", "description": "Book id", "name": "id", "in": "path", "required": true}], "responses": {"303": {"description": "See Other"}, "404": {"description": "Not Found"}, "422": {"description": "Unprocessable Entity"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["books"], "summary": "Delete a book", "parameters": [{"type": "string", "description": "Book id", "name": "id", "in": "path", "required": true}], "responses": {"303": {"description": "See Other"}, "404": {"description": "Not Found"}}}
        },
        "/books/{id}/edit": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["books"], "summary": "Book edit form", "parameters": [{"type": "string", "description": "Book id", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/api/{kind}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["api"], "summary": "List serialized entities", "parameters": [{"type": "string", "description": "users, roles, role-assignments or books", "name": "kind", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}, "405": {"description": "Method Not Allowed"}}}
        },
        "/admin/accounts/{id}/roles/{role}": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Grant a role", "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Revoke a role", "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found"}}}
        },
        "/health": {
            "get": {"tags": ["health"], "summary": "Liveness probe", "responses": {"200": {"description": "OK"}}}
        },
        "/health/ready": {
            "get": {"tags": ["health"], "summary": "Readiness probe", "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "secureapp API",
	Description:      "Role-guarded book catalog with sliding sessions.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
