// Package docs registers the OpenAPI document served under /swagger/.
// It documents the discovery, event and review endpoints; the handler
// annotations in internal/transport describe the full surface.
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
        "/events": {
            "get": {
                "description": "Filter, sort and page published events. Facet counts cover the whole published collection.",
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "Discover Events",
                "parameters": [
                    {"type": "string", "description": "Free text over title, description and category", "name": "q", "in": "query"},
                    {"type": "string", "description": "Location substring, case-insensitive", "name": "city", "in": "query"},
                    {"type": "string", "description": "Calendar day (YYYY-MM-DD)", "name": "date", "in": "query"},
                    {"type": "array", "items": {"type": "string"}, "collectionFormat": "multi", "description": "Categories (any of)", "name": "category", "in": "query"},
                    {"type": "array", "items": {"type": "string"}, "collectionFormat": "multi", "description": "Sidebar cities (any of)", "name": "cities", "in": "query"},
                    {"type": "array", "items": {"type": "string"}, "collectionFormat": "multi", "description": "today, this_week, this_month, next_month", "name": "date_range", "in": "query"},
                    {"type": "integer", "description": "Minimum price", "name": "min_price", "in": "query"},
                    {"type": "integer", "description": "Maximum price", "name": "max_price", "in": "query"},
                    {"type": "boolean", "description": "Only free events", "name": "free_only", "in": "query"},
                    {"type": "string", "description": "latest, popular, date, price-low, price-high", "name": "sort", "in": "query"},
                    {"type": "integer", "description": "Page Size (1-100)", "name": "page_size", "in": "query"},
                    {"type": "string", "description": "Pagination Token", "name": "page_token", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.APIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/domain.APIResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Create a new event owned by the caller",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "Create Event",
                "parameters": [
                    {"description": "Event Data", "name": "event", "in": "body", "required": true, "schema": {"$ref": "#/definitions/domain.EventDTO"}}
                ],
                "responses": {
                    "201": {"description": "Returns Event Id", "schema": {"$ref": "#/definitions/domain.APIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/domain.APIResponse"}}
                }
            }
        },
        "/events/facets": {
            "get": {
                "description": "Per-category and per-city counts of published events",
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "Event Facets",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.APIResponse"}}
                }
            }
        },
        "/events/{id}": {
            "get": {
                "description": "Get details of a specific event by Id",
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "Get Event",
                "parameters": [
                    {"type": "string", "description": "Event Id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/domain.APIResponse"}}
                }
            }
        },
        "/events/{id}/reviews": {
            "get": {
                "description": "Reviews of an event, newest first",
                "produces": ["application/json"],
                "tags": ["reviews"],
                "summary": "List Reviews",
                "parameters": [
                    {"type": "string", "description": "Event Id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.APIResponse"}}
                }
            }
        },
        "/me/events": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["me"],
                "summary": "My Events",
                "parameters": [
                    {"type": "string", "description": "draft or published", "name": "status", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.APIResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/domain.APIResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.APIResponse": {
            "type": "object",
            "properties": {
                "data": {},
                "error": {"type": "string"},
                "meta": {}
            }
        },
        "domain.EventDTO": {
            "type": "object",
            "required": ["category", "date", "location", "price", "title"],
            "properties": {
                "title": {"type": "string", "maxLength": 200},
                "description": {"type": "string"},
                "category": {"type": "string"},
                "date": {"type": "string", "example": "2026年10月25日 19:30"},
                "location": {"type": "string"},
                "attendees": {"type": "integer", "minimum": 0},
                "price": {"type": "string", "example": "¥199起"},
                "image_url": {"type": "string"},
                "highlights": {"type": "array", "items": {"type": "string"}},
                "status": {"type": "string", "enum": ["draft", "published"]}
            }
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
	Host:             "127.0.0.1:5000",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Event Discovery API",
	Description:      "Discover, publish and review events.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
