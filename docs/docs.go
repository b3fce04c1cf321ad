// Package docs registers the storefront gateway's OpenAPI document with swag
// so /swagger/* can serve it.
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
        "/health": {
            "get": {"tags": ["health"], "summary": "Liveness probe", "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}}
        },
        "/health/ready": {
            "get": {"tags": ["health"], "summary": "Readiness probe", "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}}
        },
        "/api/navigate": {
            "get": {"tags": ["navigation"], "summary": "Guard a front-end route",
                "description": "Returns render, redirect (with location) or pending for the requested path.",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "description": "Front-end path, e.g. /books/borrow", "name": "path", "in": "query", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.navigateResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }}
        },
        "/api/session": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["session"], "summary": "Current identity",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.sessionResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }}
        },
        "/api/session/logout": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["session"], "summary": "Log out",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.messageResponse"}}}}
        },
        "/api/live": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["live"], "summary": "Open the live channel",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ports.LiveStatus"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["live"], "summary": "Release the live channel",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ports.LiveStatus"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }}
        },
        "/api/notifications": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["live"], "summary": "Rolling notification list",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.notificationsResponse"}}}}
        },
        "/api/orders": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["orders"], "summary": "Orders of the current user",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.collectionResponse"}}}}
        },
        "/api/return-orders": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["orders"], "summary": "Return orders of the current user",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.collectionResponse"}}}}
        },
        "/api/books/bestsellers": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["books"], "summary": "Bestselling books",
                "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}
        },
        "/api/books/borrow": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["books"], "summary": "Books available to borrow",
                "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}
        },
        "/api/books/borrow/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["books"], "summary": "A book available to borrow",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "description": "Book id", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}}
        },
        "/api/books/purchase": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["books"], "summary": "Books for sale",
                "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}
        },
        "/api/books/purchase/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["books"], "summary": "A book for sale",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "description": "Book id", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}}
        },
        "/api/books/settings": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["books"], "summary": "Lending and sales settings",
                "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}
        },
        "/api/books/by-interests": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["interests"], "summary": "Books matching the client's interests",
                "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}
        },
        "/api/interests": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["interests"], "summary": "Selectable interests",
                "produces": ["application/json"], "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["interests"], "summary": "Save the client's interests",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"description": "Selected interest ids", "name": "body", "in": "body", "required": true,
                    "schema": {"$ref": "#/definitions/handler.saveInterestsRequest"}}],
                "responses": {"200": {"description": "OK"}, "422": {"description": "Unprocessable Entity"}}}
        },
        "/api/manager/settings": {
            "patch": {"security": [{"BearerAuth": []}], "tags": ["manager"], "summary": "Update lending and sales settings",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"description": "Settings fields to change", "name": "body", "in": "body", "required": true,
                    "schema": {"type": "object"}}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/api/manager/users": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["manager"], "summary": "All users",
                "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}
        },
        "/api/auth/verify-email": {
            "post": {"tags": ["auth"], "summary": "Verify an email address",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"description": "Verification token from the email link", "name": "body", "in": "body", "required": true,
                    "schema": {"$ref": "#/definitions/handler.verifyEmailRequest"}}],
                "responses": {"200": {"description": "OK"}, "422": {"description": "Unprocessable Entity"}}}
        }
    },
    "definitions": {
        "handler.errorResponse": {"type": "object", "properties": {"error": {"type": "string"}}},
        "handler.messageResponse": {"type": "object", "properties": {"message": {"type": "string"}}},
        "handler.navigateResponse": {"type": "object", "properties": {
            "action": {"type": "string", "enum": ["render", "redirect", "pending"]},
            "location": {"type": "string"},
            "role": {"type": "string"},
            "view": {"$ref": "#/definitions/handler.viewResponse"}}},
        "handler.viewResponse": {"type": "object", "properties": {
            "pattern": {"type": "string"},
            "access": {"type": "string"},
            "roles": {"type": "array", "items": {"type": "string"}},
            "require_interests": {"type": "boolean"}}},
        "handler.sessionResponse": {"type": "object", "properties": {
            "identity": {"type": "object"},
            "home_path": {"type": "string"},
            "interests_configured": {"type": "boolean"},
            "live": {"$ref": "#/definitions/ports.LiveStatus"}}},
        "handler.notificationsResponse": {"type": "object", "properties": {
            "notifications": {"type": "array", "items": {"type": "object"}}}},
        "handler.collectionResponse": {"type": "object", "properties": {
            "collection": {"type": "string"},
            "items": {"type": "array", "items": {"type": "object"}}}},
        "handler.saveInterestsRequest": {"type": "object", "required": ["interests"], "properties": {
            "interests": {"type": "array", "items": {"type": "integer"}}}},
        "handler.verifyEmailRequest": {"type": "object", "required": ["token"], "properties": {
            "token": {"type": "string"}}},
        "ports.LiveStatus": {"type": "object", "properties": {
            "session_id": {"type": "string"},
            "connected": {"type": "boolean"},
            "consumers": {"type": "integer"}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Book Nook storefront gateway",
	Description:      "Session, navigation and live update gateway for the Book Nook front-end.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
