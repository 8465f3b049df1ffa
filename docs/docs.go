// Package docs holds the OpenAPI description served under /swagger.
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
        "/auth/register": {
            "post": {
                "tags": ["auth"],
                "summary": "Register a new user",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/handler.RegisterRequest"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}}
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Login user",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/handler.LoginRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.AuthResponse"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}}
            }
        },
        "/auth/forgot-password": {
            "post": {
                "tags": ["auth"],
                "summary": "Request a password recovery email",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/handler.ForgotPasswordRequest"}}],
                "responses": {"202": {"description": "Accepted", "schema": {"$ref": "#/definitions/handler.MessageResponse"}}}
            }
        },
        "/auth/reset-password": {
            "post": {
                "tags": ["auth"],
                "summary": "Set a new password with a recovery token",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/handler.ResetPasswordRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.MessageResponse"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}}
            }
        },
        "/auth/confirm-email": {
            "get": {
                "tags": ["auth"],
                "summary": "Confirm an email address",
                "parameters": [{"in": "query", "name": "token", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.MessageResponse"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}}
            }
        },
        "/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["users"],
                "summary": "Current user",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}}
            }
        },
        "/courses/activate": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["courses"],
                "summary": "Redeem an activation code",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/handler.ActivateRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.MessageResponse"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}}
            }
        },
        "/courses/{title}/pages/{page}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["courses"],
                "summary": "Read a course page",
                "parameters": [{"in": "path", "name": "title", "type": "string", "required": true}, {"in": "path", "name": "page", "type": "integer", "required": true}],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}}
            }
        },
        "/courses/{title}/pages/{page}/advance": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["courses"],
                "summary": "Finish a page and unlock the next one",
                "parameters": [{"in": "path", "name": "title", "type": "string", "required": true}, {"in": "path", "name": "page", "type": "integer", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.ProgressResponse"}}}
            }
        },
        "/admin/courses": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["admin"],
                "summary": "Create a course title and its owner role",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/handler.CreateCourseRequest"}}],
                "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}}
            }
        },
        "/admin/courses/{id}": {
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["admin"],
                "summary": "Rename a course title and its owner role",
                "parameters": [{"in": "path", "name": "id", "type": "integer", "required": true}, {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/handler.RenameCourseRequest"}}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["admin"],
                "summary": "Delete a course title, its pages, codes and owner role",
                "parameters": [{"in": "path", "name": "id", "type": "integer", "required": true}],
                "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}}
            }
        },
        "/admin/courses/{id}/pages": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["admin"],
                "summary": "Append a page to a course",
                "parameters": [{"in": "path", "name": "id", "type": "integer", "required": true}, {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/handler.AddPageRequest"}}],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/admin/courses/{id}/codes": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["admin"],
                "summary": "Issue an activation code for a user",
                "parameters": [{"in": "path", "name": "id", "type": "integer", "required": true}, {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/handler.IssueCodeRequest"}}],
                "responses": {"201": {"description": "Created"}}
            }
        }
    },
    "definitions": {
        "errors.ErrorResponse": {"type": "object", "properties": {"code": {"type": "string"}, "error": {"type": "string"}}},
        "handler.MessageResponse": {"type": "object", "properties": {"message": {"type": "string"}}},
        "handler.RegisterRequest": {"type": "object", "required": ["email", "name", "password"], "properties": {"email": {"type": "string"}, "name": {"type": "string"}, "password": {"type": "string", "minLength": 6, "maxLength": 72}}},
        "handler.LoginRequest": {"type": "object", "required": ["email", "password"], "properties": {"email": {"type": "string"}, "password": {"type": "string"}}},
        "handler.AuthResponse": {"type": "object", "properties": {"access_token": {"type": "string"}, "user": {"type": "object"}}},
        "handler.ForgotPasswordRequest": {"type": "object", "required": ["email"], "properties": {"email": {"type": "string"}}},
        "handler.ResetPasswordRequest": {"type": "object", "required": ["password", "token"], "properties": {"password": {"type": "string"}, "token": {"type": "string"}}},
        "handler.ActivateRequest": {"type": "object", "required": ["code"], "properties": {"code": {"type": "string", "minLength": 15, "maxLength": 15}}},
        "handler.ProgressResponse": {"type": "object", "properties": {"page": {"type": "integer"}}},
        "handler.CreateCourseRequest": {"type": "object", "required": ["name"], "properties": {"description": {"type": "string"}, "name": {"type": "string"}}},
        "handler.RenameCourseRequest": {"type": "object", "required": ["name"], "properties": {"name": {"type": "string"}}},
        "handler.AddPageRequest": {"type": "object", "required": ["heading"], "properties": {"content": {"type": "string"}, "heading": {"type": "string"}}},
        "handler.IssueCodeRequest": {"type": "object", "required": ["user_id"], "properties": {"user_id": {"type": "integer"}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"description": "Type \"Bearer\" followed by a space and JWT token.", "type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api",
	Schemes:          []string{"http"},
	Title:            "Academy API",
	Description:      "Course publishing site: accounts, password recovery, email confirmation and course access.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
