// Package docs registers the OpenAPI document served at /docs when DEBUG is
// on. Regenerate the template with `swag init -g cmd/api/main.go -o
// internal/api/docs` after changing handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/": {"get": {"tags": ["system"], "summary": "Liveness banner", "produces": ["application/json"],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.messageResponse"}}}}},
        "/health": {"get": {"tags": ["system"], "summary": "Process and dependency health", "produces": ["application/json"],
            "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}}},
        "/api/v1/test-db": {"get": {"tags": ["system"], "summary": "Database round trip", "produces": ["application/json"],
            "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.errorResponse"}}}}},
        "/api/v1/info": {"get": {"tags": ["system"], "summary": "API information", "produces": ["application/json"],
            "responses": {"200": {"description": "OK"}}}},
        "/api/v1/admin/stats": {"get": {"tags": ["admin"], "summary": "System statistics", "produces": ["application/json"],
            "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.errorResponse"}}}}},
        "/api/v1/users": {
            "get": {"tags": ["users"], "summary": "List users", "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "description": "Page number (default 1)", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Page size (default 20, max 100)", "name": "limit", "in": "query"},
                    {"type": "boolean", "description": "Filter on the active flag", "name": "active", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}}}},
            "post": {"tags": ["users"], "summary": "Create a user", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"description": "User details", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.createUserRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.userResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }}
        },
        "/api/v1/users/{id}": {
            "get": {"tags": ["users"], "summary": "Get a user", "produces": ["application/json"],
                "parameters": [{"type": "string", "description": "User ID (UUID)", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.userResponse"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}}},
            "put": {"tags": ["users"], "summary": "Update a user", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "User ID (UUID)", "name": "id", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.updateUserRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.userResponse"}}, "404": {"description": "Not Found"}, "409": {"description": "Conflict"}}},
            "delete": {"tags": ["users"], "summary": "Delete a user",
                "parameters": [{"type": "string", "description": "User ID (UUID)", "name": "id", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found"}}}
        },
        "/api/v1/posts": {
            "get": {"tags": ["posts"], "summary": "List posts", "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "description": "Page number (default 1)", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Page size (default 20, max 100)", "name": "limit", "in": "query"},
                    {"type": "string", "description": "Only posts by this user", "name": "author_id", "in": "query"},
                    {"type": "boolean", "description": "Filter on the published flag (default true)", "name": "published", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["posts"], "summary": "Create a post", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"description": "Post details", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.createPostRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.postResponse"}}, "400": {"description": "invalid payload or unknown author"}}}
        },
        "/api/v1/posts/{id}": {
            "get": {"tags": ["posts"], "summary": "Get a post", "produces": ["application/json"],
                "parameters": [{"type": "string", "description": "Post ID (UUID)", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.postResponse"}}, "404": {"description": "Not Found"}}},
            "put": {"tags": ["posts"], "summary": "Update a post", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "Post ID (UUID)", "name": "id", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.updatePostRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.postResponse"}}, "404": {"description": "Not Found"}}},
            "delete": {"tags": ["posts"], "summary": "Delete a post",
                "parameters": [{"type": "string", "description": "Post ID (UUID)", "name": "id", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found"}}}
        },
        "/api/v1/posts/user/{user_id}": {
            "get": {"tags": ["posts"], "summary": "List the published posts of one user", "produces": ["application/json"],
                "parameters": [{"type": "string", "description": "User ID (UUID)", "name": "user_id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "unknown user"}}}
        }
    },
    "definitions": {
        "handler.errorResponse": {"type": "object", "properties": {
            "error": {"type": "string"},
            "details": {"type": "array", "items": {"type": "object", "properties": {"field": {"type": "string"}, "reason": {"type": "string"}}}}
        }},
        "handler.messageResponse": {"type": "object", "properties": {"message": {"type": "string"}}},
        "handler.createUserRequest": {"type": "object", "required": ["email", "password"], "properties": {
            "email": {"type": "string", "maxLength": 255},
            "password": {"type": "string", "minLength": 1, "maxLength": 72},
            "full_name": {"type": "string", "maxLength": 255},
            "is_active": {"type": "boolean"}
        }},
        "handler.updateUserRequest": {"type": "object", "properties": {
            "email": {"type": "string", "maxLength": 255},
            "password": {"type": "string", "minLength": 1, "maxLength": 72},
            "full_name": {"type": "string", "maxLength": 255},
            "is_active": {"type": "boolean"}
        }},
        "handler.userResponse": {"type": "object", "properties": {
            "id": {"type": "string"}, "email": {"type": "string"}, "full_name": {"type": "string"},
            "is_active": {"type": "boolean"}, "created_at": {"type": "string"}, "updated_at": {"type": "string"}
        }},
        "handler.createPostRequest": {"type": "object", "required": ["title", "author_id"], "properties": {
            "title": {"type": "string", "minLength": 1, "maxLength": 200},
            "body": {"type": "string"},
            "is_published": {"type": "boolean"},
            "author_id": {"type": "string"}
        }},
        "handler.updatePostRequest": {"type": "object", "properties": {
            "title": {"type": "string", "minLength": 1, "maxLength": 200},
            "body": {"type": "string"},
            "is_published": {"type": "boolean"}
        }},
        "handler.postResponse": {"type": "object", "properties": {
            "id": {"type": "string"}, "title": {"type": "string"}, "body": {"type": "string"},
            "is_published": {"type": "boolean"}, "author_id": {"type": "string"},
            "created_at": {"type": "string"}, "updated_at": {"type": "string"}
        }}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Haikudo Backend API",
	Description:      "CRUD API over users and posts backed by PostgreSQL.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
