// Package docs holds the Swagger specification served at /swagger.
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
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Exchange credentials for a JWT",
                "parameters": [{"name": "credentials", "in": "body", "required": true, "schema": {"type": "object"}}],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/leagues": {
            "get": {
                "tags": ["leagues"],
                "summary": "List leagues",
                "parameters": [{"name": "active", "in": "query", "type": "boolean"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/leagues/{tag}": {
            "get": {
                "tags": ["leagues"],
                "summary": "Get a league by its tag",
                "parameters": [{"name": "tag", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/leagues/{tag}/seasons": {
            "get": {
                "tags": ["leagues"],
                "summary": "List a league's seasons",
                "parameters": [{"name": "tag", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/leagues/{tag}/standings": {
            "get": {
                "tags": ["standings"],
                "summary": "Standings for every season of a league",
                "parameters": [{"name": "tag", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/seasons/{id}/standings": {
            "get": {
                "tags": ["standings"],
                "summary": "Standings table for a season",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "tiebreaks", "in": "query", "type": "string", "description": "comma-separated tiebreak order"}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/seasons/{id}/tournament": {
            "get": {
                "tags": ["standings"],
                "summary": "Full immutable tournament structure for a season",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/seasons/{id}/bracket": {
            "get": {
                "tags": ["knockout"],
                "summary": "Current bracket state for a season",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            },
            "post": {
                "tags": ["knockout"],
                "summary": "Open a knockout bracket for a season",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}
            }
        },
        "/seasons/{id}/bracket/results": {
            "post": {
                "tags": ["knockout"],
                "summary": "Record one game result in a knockout stage",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/seasons/{id}/bracket/tiebreaks": {
            "post": {
                "tags": ["knockout"],
                "summary": "Resolve a tied knockout match by operator ruling",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/seasons/{id}/bracket/legs": {
            "post": {
                "tags": ["knockout"],
                "summary": "Generate the next leg of a multi-leg stage",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}
            }
        },
        "/seasons/{id}/bracket/advance": {
            "post": {
                "tags": ["knockout"],
                "summary": "Close a completed stage and seed the next one",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}
            }
        },
        "/seasons/{id}/snapshots": {
            "post": {
                "tags": ["snapshots"],
                "summary": "Archive the season's tournament state to the object store",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"201": {"description": "Created"}}
            }
        }
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "League Engine API",
	Description:      "Tournament scoring, standings and knockout bracket engine.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
