// Package docs registers the OpenAPI description of the gateway with swag.
// Regenerate the full document with `swag init -g cmd/gateway/main.go`.
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
        "/api/portfolio": {
            "get": {
                "produces": ["application/json"],
                "tags": ["portfolio"],
                "summary": "List portfolio projects",
                "parameters": [
                    {"type": "boolean", "description": "Bypass the cache", "name": "refresh", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Project"}}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/handler.listFailure"}}
                }
            }
        },
        "/api/portfolio/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["portfolio"],
                "summary": "Get a project",
                "parameters": [
                    {"type": "string", "description": "Project id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Project"}},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/api/testimonials": {
            "get": {
                "produces": ["application/json"],
                "tags": ["testimonials"],
                "summary": "List testimonials",
                "parameters": [
                    {"type": "boolean", "description": "Bypass the cache", "name": "refresh", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Testimonial"}}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/handler.listFailure"}}
                }
            }
        },
        "/api/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Login",
                "parameters": [
                    {"description": "Login credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.loginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.authResponse"}},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/api/auth/me": {
            "get": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Current session",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.meResponse"}}
                }
            }
        },
        "/api/strategy": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["strategy"],
                "summary": "Generate a marketing strategy",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Strategy"}}
                }
            }
        },
        "/api/contact": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["contact"],
                "summary": "Send a contact message",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.Contact"}}
                }
            }
        },
        "/api/strategy/cache/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["strategy"],
                "summary": "Strategy cache health",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["ops"],
                "summary": "Liveness probe",
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
        "domain.Contact": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "company": {"type": "string"},
                "phone": {"type": "string"},
                "message": {"type": "string"},
                "service_interest": {"type": "array", "items": {"type": "string"}},
                "status": {"type": "string"},
                "created_at": {"type": "string"}
            }
        },
        "domain.Project": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "title": {"type": "string"},
                "category": {"type": "string"},
                "image": {"type": "string"},
                "metric": {"type": "string"},
                "description": {"type": "string"},
                "technologies": {"type": "array", "items": {"type": "string"}},
                "results": {"type": "object", "additionalProperties": {"type": "string"}},
                "challenge": {"type": "string"},
                "solution": {"type": "string"},
                "outcome": {"type": "string"}
            }
        },
        "domain.Testimonial": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "position": {"type": "string"},
                "company": {"type": "string"},
                "avatar": {"type": "string"},
                "quote": {"type": "string"},
                "rating": {"type": "integer"},
                "project": {"type": "string"}
            }
        },
        "domain.Strategy": {
            "type": "object",
            "properties": {
                "strategy": {"type": "string"},
                "cached": {"type": "boolean"},
                "cache_timestamp": {"type": "string"}
            }
        },
        "domain.User": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "email": {"type": "string"},
                "full_name": {"type": "string"},
                "role": {"type": "string", "enum": ["admin", "user"]},
                "is_active": {"type": "boolean"}
            }
        },
        "handler.listFailure": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "retry": {"type": "boolean"}
            }
        },
        "handler.loginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"},
                "from": {"type": "string"}
            }
        },
        "handler.authResponse": {
            "type": "object",
            "properties": {
                "user": {"$ref": "#/definitions/domain.User"},
                "redirect": {"type": "string"}
            }
        },
        "handler.meResponse": {
            "type": "object",
            "properties": {
                "authenticated": {"type": "boolean"},
                "user": {"$ref": "#/definitions/domain.User"},
                "dashboard": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "VERTEX TARGET portal gateway",
	Description:      "Backend-for-frontend for the VERTEX TARGET dashboard: cached catalog, sessions and role guards.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
