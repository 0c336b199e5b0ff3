// Package docs registers the OpenAPI description served under /swagger/.
// Operation details come from the godoc annotations on the HTTP controllers.
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
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {"name": "events", "description": "Event aggregate: creation, listing, detail, update, deletion"},
        {"name": "participants", "description": "Enrollment and participation status"},
        {"name": "programs", "description": "Event agenda and speakers"},
        {"name": "health", "description": "Liveness"}
    ],
    "paths": {
        "/health": {"get": {"tags": ["health"], "summary": "Liveness probe", "responses": {"200": {"description": "OK"}, "503": {"description": "Database unreachable"}}}},
        "/events": {
            "get": {"tags": ["events"], "summary": "List events", "parameters": [
                {"type": "integer", "name": "page", "in": "query"},
                {"type": "integer", "name": "limit", "in": "query"},
                {"type": "integer", "name": "type", "in": "query"},
                {"type": "integer", "name": "lieu", "in": "query"},
                {"type": "integer", "name": "wilaya", "in": "query"},
                {"type": "integer", "name": "organisateur", "in": "query"},
                {"type": "string", "name": "date_debut", "in": "query"},
                {"type": "string", "name": "date_fin", "in": "query"},
                {"type": "string", "enum": ["active", "past", "upcoming"], "name": "status", "in": "query"},
                {"type": "string", "name": "search", "in": "query"}
            ], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}},
            "post": {"tags": ["events"], "summary": "Create an event with its works, participants, organizations and programs", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}, "500": {"description": "Rolled back"}}}
        },
        "/events/{id}": {
            "get": {"tags": ["events"], "summary": "Get an event with all its relations", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "put": {"tags": ["events"], "summary": "Update an event's scalar fields", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}},
            "delete": {"tags": ["events"], "summary": "Delete an event and everything attached to it", "security": [{"BearerAuth": []}], "responses": {"204": {"description": "No Content"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}}
        },
        "/events/{id}/works": {"post": {"tags": ["events"], "summary": "Attach a work to an event", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}, "409": {"description": "Already attached"}}}},
        "/events/{id}/organizations": {"post": {"tags": ["events"], "summary": "Attach a partner organization to an event", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}, "409": {"description": "Already attached"}}}},
        "/events/{id}/participants": {
            "get": {"tags": ["participants"], "summary": "List an event's participants", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "post": {"tags": ["participants"], "summary": "Enroll the caller in an event", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}, "409": {"description": "Already enrolled"}}}
        },
        "/events/{id}/participants/me": {"delete": {"tags": ["participants"], "summary": "Withdraw the caller from an event", "security": [{"BearerAuth": []}], "responses": {"204": {"description": "No Content"}, "409": {"description": "Attendance recorded"}}}},
        "/events/{id}/participants/{userId}": {"patch": {"tags": ["participants"], "summary": "Change a participant's status", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "409": {"description": "Transition not allowed"}}}},
        "/events/{id}/programs": {
            "get": {"tags": ["programs"], "summary": "List an event's agenda in display order", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["programs"], "summary": "Add an agenda entry to an event", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}
        },
        "/programs/{id}/speakers": {"post": {"tags": ["programs"], "summary": "Add speakers to a program", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Heritage Catalog Events API",
	Description:      "Cultural events of the heritage catalog: events, works, participants, partner organizations and programs.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
