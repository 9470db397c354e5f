package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "schemes": {{ marshal .Schemes }},
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Sign in",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/AuthResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/MessageResponse"}}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["auth"],
                "summary": "Rotate a refresh token",
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/RefreshRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/AuthResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/MessageResponse"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["auth"],
                "summary": "Sign out",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/MessageResponse"}}
                }
            }
        },
        "/session": {
            "get": {
                "tags": ["auth"],
                "summary": "Current session",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Snapshot"}}
                }
            }
        },
        "/projects": {
            "get": {
                "tags": ["reference"],
                "summary": "List projects",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Project"}}}
                }
            }
        },
        "/tasks": {
            "get": {
                "tags": ["reference"],
                "summary": "List tasks",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Task"}}}
                }
            }
        },
        "/records": {
            "get": {
                "tags": ["records"],
                "summary": "List owned time records",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "query", "name": "from", "type": "string"},
                    {"in": "query", "name": "to", "type": "string"},
                    {"in": "query", "name": "group_by", "type": "string", "enum": ["project", "date"]},
                    {"in": "query", "name": "sort", "type": "string", "enum": ["date", "project"]},
                    {"in": "query", "name": "order", "type": "string", "enum": ["asc", "desc"]},
                    {"in": "query", "name": "task", "type": "array", "items": {"type": "string"}},
                    {"in": "query", "name": "billable", "type": "array", "items": {"type": "boolean"}},
                    {"in": "query", "name": "page", "type": "integer"},
                    {"in": "query", "name": "page_size", "type": "integer", "enum": [5, 10, 20, 50]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Page"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/MessageResponse"}}
                }
            },
            "post": {
                "tags": ["records"],
                "summary": "Create a time record",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/RecordRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/TimeRecord"}},
                    "422": {"description": "Invalid draft", "schema": {"$ref": "#/definitions/ValidationErrorResponse"}}
                }
            }
        },
        "/records/summary": {
            "get": {
                "tags": ["records"],
                "summary": "Totals of owned records",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "query", "name": "from", "type": "string"},
                    {"in": "query", "name": "to", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/RecordSummary"}}
                }
            }
        },
        "/records/bulk": {
            "post": {
                "tags": ["records"],
                "summary": "Create many time records",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/BulkRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/BulkResponse"}},
                    "422": {"description": "Invalid rows", "schema": {"$ref": "#/definitions/BulkValidationErrorResponse"}},
                    "500": {"description": "Save failed", "schema": {"$ref": "#/definitions/MessageResponse"}}
                }
            }
        },
        "/records/{id}": {
            "get": {
                "tags": ["records"],
                "summary": "Get a time record",
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/TimeRecord"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/MessageResponse"}}
                }
            },
            "put": {
                "tags": ["records"],
                "summary": "Update a time record",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "path", "name": "id", "required": true, "type": "string"},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/RecordRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/TimeRecord"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/MessageResponse"}},
                    "422": {"description": "Invalid draft", "schema": {"$ref": "#/definitions/ValidationErrorResponse"}}
                }
            },
            "delete": {
                "tags": ["records"],
                "summary": "Soft delete a time record",
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/MessageResponse"}},
                    "500": {"description": "Delete failed", "schema": {"$ref": "#/definitions/MessageResponse"}}
                }
            }
        }
    },
    "definitions": {
        "MessageResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}}
        },
        "ValidationErrorResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "fields": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "BulkValidationErrorResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "rows": {"type": "object", "additionalProperties": {"type": "object", "additionalProperties": {"type": "string"}}}
            }
        },
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "RefreshRequest": {
            "type": "object",
            "required": ["refresh_token"],
            "properties": {"refresh_token": {"type": "string"}}
        },
        "AuthResponse": {
            "type": "object",
            "properties": {
                "access_token": {"type": "string"},
                "refresh_token": {"type": "string"},
                "token_type": {"type": "string"},
                "expires_in": {"type": "integer"},
                "user": {"$ref": "#/definitions/User"}
            }
        },
        "User": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "email": {"type": "string"},
                "display_name": {"type": "string"},
                "is_active": {"type": "boolean"}
            }
        },
        "Snapshot": {
            "type": "object",
            "properties": {
                "state": {"type": "string", "enum": ["checking", "anonymous", "authenticated"]},
                "user": {"$ref": "#/definitions/User"}
            }
        },
        "Project": {
            "type": "object",
            "properties": {"id": {"type": "string"}, "name": {"type": "string"}}
        },
        "Task": {
            "type": "object",
            "properties": {"id": {"type": "string"}, "name": {"type": "string"}}
        },
        "RecordRequest": {
            "type": "object",
            "properties": {
                "project_id": {"type": "string"},
                "task_id": {"type": "string"},
                "date": {"type": "string", "example": "2024-03-01"},
                "duration": {"type": "string", "example": "01:30"},
                "description": {"type": "string"},
                "type": {"type": "string"},
                "ticket": {"type": "string"},
                "billable": {"type": "boolean"}
            }
        },
        "BulkRequest": {
            "type": "object",
            "properties": {"rows": {"type": "array", "items": {"$ref": "#/definitions/RecordRequest"}}}
        },
        "BulkResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "records": {"type": "array", "items": {"$ref": "#/definitions/TimeRecord"}}
            }
        },
        "TimeRecord": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "user_id": {"type": "string"},
                "project_id": {"type": "string"},
                "task_id": {"type": "string"},
                "type": {"type": "string"},
                "ticket": {"type": "string"},
                "date": {"type": "string"},
                "hours": {"type": "integer"},
                "minutes": {"type": "integer"},
                "total_minutes": {"type": "integer"},
                "description": {"type": "string"},
                "billable": {"type": "boolean"},
                "status": {"type": "string"},
                "deleted": {"type": "boolean"}
            }
        },
        "Page": {
            "type": "object",
            "properties": {
                "rows": {"type": "array", "items": {"$ref": "#/definitions/TimeRecord"}},
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total": {"type": "integer"},
                "total_pages": {"type": "integer"},
                "task_filters": {"type": "array", "items": {"type": "string"}}
            }
        },
        "RecordSummary": {
            "type": "object",
            "properties": {
                "total_records": {"type": "integer"},
                "total_minutes": {"type": "integer"},
                "billable_minutes": {"type": "integer"},
                "by_project": {"type": "array", "items": {"$ref": "#/definitions/SummaryLine"}},
                "by_date": {"type": "array", "items": {"$ref": "#/definitions/SummaryLine"}}
            }
        },
        "SummaryLine": {
            "type": "object",
            "properties": {
                "key": {"type": "string"},
                "label": {"type": "string"},
                "minutes": {"type": "integer"},
                "display": {"type": "string"},
                "percentage": {"type": "number"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header",
            "description": "Type 'Bearer' followed by a space and JWT token"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{"http"},
	Title:            "Timesheet API",
	Description:      "Time record entry, listing and bulk entry",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
