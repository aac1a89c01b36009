package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "EcoLog API",
        "description": "Student CO2 emissions logbook for schools",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Console and student sign-in"},
        {"name": "Students", "description": "Student profiles and roster"},
        {"name": "Logbook", "description": "Daily activity entries"},
        {"name": "History", "description": "Derived emission aggregates"},
        {"name": "Reports", "description": "Monthly export jobs"},
        {"name": "Admin", "description": "Destructive maintenance"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Console sign-in with email and password",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/student": {
            "post": {
                "tags": ["Auth"],
                "summary": "Student sign-in with ID and optional PIN",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StudentLoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/{id}": {
            "get": {
                "tags": ["Students"],
                "summary": "Get student profile",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/{id}/profile": {
            "put": {
                "tags": ["Students"],
                "summary": "Update name, class and PIN",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateProfileRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/{id}/logs": {
            "get": {
                "tags": ["Logbook"],
                "summary": "List logs, newest first",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Logbook"],
                "summary": "Save a daily activity log",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SaveLogRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/{id}/logs/preview": {
            "post": {
                "tags": ["Logbook"],
                "summary": "Compute emissions without saving",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SaveLogRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/{id}/history/daily": {
            "get": {
                "tags": ["History"],
                "summary": "Per-day totals",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/{id}/history/recent": {
            "get": {
                "tags": ["History"],
                "summary": "Last active days for the dashboard chart",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/{id}/history/breakdown": {
            "get": {
                "tags": ["History"],
                "summary": "Cumulative footprint split by category",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/students": {
            "get": {
                "tags": ["Students"],
                "summary": "Class roster ordered by student ID",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Admin"],
                "summary": "Delete every student account and its logs",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DeleteAllRequest"}}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/admin/students/seed": {
            "post": {
                "tags": ["Students"],
                "summary": "Bulk-create sequential student accounts",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SeedAccountsRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/students/{id}": {
            "delete": {
                "tags": ["Admin"],
                "summary": "Delete one student account and its logs",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/admin/logs": {
            "delete": {
                "tags": ["Admin"],
                "summary": "Delete every log and reset totals",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DeleteAllRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/logs/range": {
            "delete": {
                "tags": ["Admin"],
                "summary": "Delete logs between two calendar dates",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DeleteRangeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/reports": {
            "post": {
                "tags": ["Reports"],
                "summary": "Queue a monthly emissions export",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateReportRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/reports/{jobId}": {
            "get": {
                "tags": ["Reports"],
                "summary": "Poll a report job",
                "parameters": [
                    {"name": "jobId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/download/{token}": {
            "get": {
                "tags": ["Reports"],
                "summary": "Download a finished export with a signed token",
                "parameters": [
                    {"name": "token", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File stream"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "StudentLoginRequest": {
            "type": "object",
            "properties": {
                "student_id": {"type": "string"},
                "pin": {"type": "string"}
            },
            "required": ["student_id"]
        },
        "UpdateProfileRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "class": {"type": "string"},
                "pin": {"type": "string"}
            },
            "required": ["name", "class"]
        },
        "SeedAccountsRequest": {
            "type": "object",
            "properties": {
                "prefix": {"type": "string"},
                "count": {"type": "integer"},
                "class": {"type": "string"}
            },
            "required": ["prefix", "count"]
        },
        "SaveLogRequest": {
            "type": "object",
            "properties": {
                "date": {"type": "string", "example": "2026-03-05"},
                "time": {"type": "string", "example": "07:15"},
                "transport": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/TransportInput"}
                },
                "waste": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/WasteInput"}
                },
                "digital": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/DigitalInput"}
                }
            },
            "required": ["date", "time"]
        },
        "TransportInput": {
            "type": "object",
            "properties": {
                "type": {"type": "string"},
                "minutes": {"type": "number"}
            },
            "required": ["type", "minutes"]
        },
        "WasteInput": {
            "type": "object",
            "properties": {
                "type": {"type": "string"},
                "count": {"type": "number"}
            },
            "required": ["type", "count"]
        },
        "DigitalInput": {
            "type": "object",
            "properties": {
                "type": {"type": "string"},
                "hours": {"type": "number"}
            },
            "required": ["type", "hours"]
        },
        "GenerateReportRequest": {
            "type": "object",
            "properties": {
                "year": {"type": "integer"},
                "months": {
                    "type": "array",
                    "items": {"type": "integer"}
                },
                "format": {"type": "string", "enum": ["csv", "pdf"]}
            },
            "required": ["year", "months", "format"]
        },
        "DeleteRangeRequest": {
            "type": "object",
            "properties": {
                "from": {"type": "string", "example": "2026-03-01"},
                "to": {"type": "string", "example": "2026-03-31"}
            },
            "required": ["from", "to"]
        },
        "DeleteAllRequest": {
            "type": "object",
            "properties": {
                "confirmation": {"type": "string", "example": "DELETE ALL"}
            },
            "required": ["confirmation"]
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
