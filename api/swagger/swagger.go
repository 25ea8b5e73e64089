package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "ODTrack Analytics API",
        "description": "Staff workload analytics and report export service for on-duty request tracking",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Authentication"},
        {"name": "Analytics", "description": "Workload, teaching and efficiency analytics"},
        {"name": "Reports", "description": "Report export pipeline and history"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate and receive an access token",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/analytics/workload/{staffId}": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Workload analytics for a staff member",
                "parameters": [
                    {"name": "staffId", "in": "path", "required": true, "type": "string"},
                    {"name": "start", "in": "query", "required": true, "type": "string"},
                    {"name": "end", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/analytics/efficiency/{staffId}": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Efficiency metrics for a staff member",
                "parameters": [
                    {"name": "staffId", "in": "path", "required": true, "type": "string"},
                    {"name": "start", "in": "query", "required": true, "type": "string"},
                    {"name": "end", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Staff member not found"}
                }
            }
        },
        "/analytics/teaching/{staffId}": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Teaching allocation analytics for a staff member",
                "parameters": [
                    {"name": "staffId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/analytics/performance-report/{staffId}": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Narrative performance report for a staff member",
                "parameters": [
                    {"name": "staffId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Staff member not found"}
                }
            }
        },
        "/analytics/dashboard": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Request volume statistics for the staff dashboard",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/student/{studentId}": {
            "post": {
                "tags": ["Reports"],
                "summary": "Queue a student OD report export",
                "parameters": [
                    {"name": "studentId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ExportOptions"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Unsupported export format"}
                }
            }
        },
        "/reports/staff/{staffId}": {
            "post": {
                "tags": ["Reports"],
                "summary": "Queue a staff OD report export",
                "parameters": [
                    {"name": "staffId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ExportOptions"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Unsupported export format"}
                }
            }
        },
        "/reports/analytics": {
            "post": {
                "tags": ["Reports"],
                "summary": "Queue an analytics report export",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AnalyticsExportRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Unsupported export format"}
                }
            }
        },
        "/reports/bulk": {
            "post": {
                "tags": ["Reports"],
                "summary": "Queue an export of explicitly named requests",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BulkExportRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Unsupported export format"}
                }
            }
        },
        "/reports/history": {
            "get": {
                "tags": ["Reports"],
                "summary": "Export history, newest first",
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["pdf", "csv", "excel"]},
                    {"name": "startDate", "in": "query", "type": "string"},
                    {"name": "endDate", "in": "query", "type": "string"},
                    {"name": "successOnly", "in": "query", "type": "boolean"},
                    {"name": "q", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/statistics": {
            "get": {
                "tags": ["Reports"],
                "summary": "Aggregate export statistics",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/history/{exportId}": {
            "delete": {
                "tags": ["Reports"],
                "summary": "Delete a history entry and its file",
                "parameters": [
                    {"name": "exportId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Export not found"}
                }
            }
        },
        "/reports/{exportId}/cancel": {
            "post": {
                "tags": ["Reports"],
                "summary": "Cancel a queued or running export",
                "parameters": [
                    {"name": "exportId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Cancelled"},
                    "404": {"description": "Export not found or already finished"}
                }
            }
        },
        "/reports/progress/{exportId}": {
            "get": {
                "tags": ["Reports"],
                "summary": "Export progress stream (websocket upgrade)",
                "parameters": [
                    {"name": "exportId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "101": {"description": "Switching protocols"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "RequestFilter": {
            "type": "object",
            "properties": {
                "statuses": {"type": "array", "items": {"type": "string", "enum": ["pending", "approved", "rejected"]}},
                "start_date": {"type": "string", "format": "date-time"},
                "end_date": {"type": "string", "format": "date-time"},
                "reason_contains": {"type": "string"},
                "departments": {"type": "array", "items": {"type": "string"}}
            }
        },
        "ExportOptions": {
            "type": "object",
            "required": ["format", "start_date", "end_date"],
            "properties": {
                "format": {"type": "string", "enum": ["pdf", "csv", "excel"]},
                "start_date": {"type": "string", "format": "date-time"},
                "end_date": {"type": "string", "format": "date-time"},
                "include_charts": {"type": "boolean"},
                "include_metadata": {"type": "boolean"},
                "custom_title": {"type": "string"},
                "filter": {"$ref": "#/definitions/RequestFilter"}
            }
        },
        "AnalyticsExportRequest": {
            "type": "object",
            "required": ["data", "format", "start_date", "end_date"],
            "properties": {
                "data": {"type": "object"},
                "format": {"type": "string", "enum": ["pdf", "csv", "excel"]},
                "start_date": {"type": "string", "format": "date-time"},
                "end_date": {"type": "string", "format": "date-time"},
                "include_charts": {"type": "boolean"},
                "include_metadata": {"type": "boolean"},
                "custom_title": {"type": "string"}
            }
        },
        "BulkExportRequest": {
            "type": "object",
            "required": ["request_ids", "format", "start_date", "end_date"],
            "properties": {
                "request_ids": {"type": "array", "items": {"type": "string"}},
                "format": {"type": "string", "enum": ["pdf", "csv", "excel"]},
                "start_date": {"type": "string", "format": "date-time"},
                "end_date": {"type": "string", "format": "date-time"},
                "include_charts": {"type": "boolean"},
                "include_metadata": {"type": "boolean"},
                "custom_title": {"type": "string"},
                "filter": {"$ref": "#/definitions/RequestFilter"}
            }
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
