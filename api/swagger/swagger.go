package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Corsia API",
        "description": "Enrollment scheduling and attendance credit engine",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Enrollments", "description": "Lesson packages and their schedules"},
        {"name": "Sessions", "description": "Custom schedule builder sessions"},
        {"name": "Attendance", "description": "Presence, absences and recoveries"},
        {"name": "Locations", "description": "Lesson site directory"},
        {"name": "Calendar", "description": "Holiday calendar"},
        {"name": "Exports", "description": "Schedule and attendance downloads"}
    ],
    "paths": {
        "/enrollments": {
            "get": {
                "tags": ["Enrollments"],
                "summary": "List enrollments",
                "parameters": [
                    {"name": "clientId", "in": "query", "type": "string"},
                    {"name": "locationId", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "mode", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "pageSize", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Enrollments"],
                "summary": "Create a standard weekly enrollment",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateEnrollmentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error"},
                    "412": {"description": "No schedulable dates"}
                }
            }
        },
        "/enrollments/{id}": {
            "get": {
                "tags": ["Enrollments"],
                "summary": "Get one enrollment",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            },
            "delete": {
                "tags": ["Enrollments"],
                "summary": "Delete an enrollment",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"}
                }
            }
        },
        "/schedule/preview": {
            "post": {
                "tags": ["Enrollments"],
                "summary": "Preview a weekly schedule without persisting",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PreviewScheduleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sessions": {
            "post": {
                "tags": ["Sessions"],
                "summary": "Start a builder session",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StartBuilderSessionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sessions/{id}/appointments": {
            "post": {
                "tags": ["Sessions"],
                "summary": "Append one explicit appointment",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AddSingleSlotRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "410": {"description": "Session expired"}
                }
            }
        },
        "/sessions/{id}/appointments/{lessonId}": {
            "delete": {
                "tags": ["Sessions"],
                "summary": "Remove one appointment from the draft",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "lessonId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sessions/{id}/weekly": {
            "post": {
                "tags": ["Sessions"],
                "summary": "Append a weekly series anchored on today",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AddWeeklySlotsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sessions/{id}/finalize": {
            "post": {
                "tags": ["Sessions"],
                "summary": "Persist the draft as an institutional enrollment",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "Empty draft"}
                }
            }
        },
        "/enrollments/{id}/appointments/{lessonId}/present": {
            "post": {
                "tags": ["Attendance"],
                "summary": "Mark a lesson as attended",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "lessonId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/enrollments/{id}/appointments/{lessonId}/absent": {
            "post": {
                "tags": ["Attendance"],
                "summary": "Mark a lesson as missed with a recovery decision",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "lessonId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/MarkAbsentRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/enrollments/{id}/appointments/{lessonId}/revert": {
            "post": {
                "tags": ["Attendance"],
                "summary": "Return a lesson to the scheduled state",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "lessonId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/enrollments/{id}/appointments/{lessonId}": {
            "delete": {
                "tags": ["Attendance"],
                "summary": "Delete one appointment",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "lessonId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/attendance/bulk-absence": {
            "post": {
                "tags": ["Attendance"],
                "summary": "Apply one recovery decision to a group of lessons",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BulkAbsenceRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/locations": {
            "get": {
                "tags": ["Locations"],
                "summary": "List locations",
                "parameters": [
                    {"name": "supplierId", "in": "query", "type": "string"},
                    {"name": "active", "in": "query", "type": "boolean"},
                    {"name": "search", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Locations"],
                "summary": "Register a new location",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateLocationRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/locations/{id}": {
            "get": {
                "tags": ["Locations"],
                "summary": "Get one location",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Locations"],
                "summary": "Update a location",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateLocationRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/calendar/holidays": {
            "get": {
                "tags": ["Calendar"],
                "summary": "List the blocking holidays of a year",
                "parameters": [
                    {"name": "year", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exports/enrollments/{id}/schedule": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download an enrollment schedule",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File"}
                }
            }
        },
        "/exports/enrollments/{id}/attendance": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download an attendance report",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File"}
                }
            }
        }
    },
    "definitions": {
        "CreateEnrollmentRequest": {
            "type": "object",
            "required": ["clientId", "childName", "locationId", "startDate", "startTime", "endTime", "lessonCount"],
            "properties": {
                "clientId": {"type": "string"},
                "childName": {"type": "string"},
                "locationId": {"type": "string"},
                "startDate": {"type": "string", "example": "2025-01-13"},
                "weekday": {"type": "integer", "minimum": 0, "maximum": 6},
                "startTime": {"type": "string", "example": "16:00"},
                "endTime": {"type": "string", "example": "17:00"},
                "lessonCount": {"type": "integer", "minimum": 1}
            }
        },
        "PreviewScheduleRequest": {
            "type": "object",
            "required": ["locationId", "startDate", "startTime", "endTime", "lessonCount"],
            "properties": {
                "locationId": {"type": "string"},
                "childName": {"type": "string"},
                "startDate": {"type": "string"},
                "weekday": {"type": "integer"},
                "startTime": {"type": "string"},
                "endTime": {"type": "string"},
                "lessonCount": {"type": "integer"}
            }
        },
        "StartBuilderSessionRequest": {
            "type": "object",
            "required": ["clientId", "childName"],
            "properties": {
                "clientId": {"type": "string"},
                "childName": {"type": "string"}
            }
        },
        "AddSingleSlotRequest": {
            "type": "object",
            "required": ["date", "startTime", "endTime", "locationId"],
            "properties": {
                "date": {"type": "string"},
                "startTime": {"type": "string"},
                "endTime": {"type": "string"},
                "locationId": {"type": "string"}
            }
        },
        "AddWeeklySlotsRequest": {
            "type": "object",
            "required": ["startTime", "endTime", "locationId", "count"],
            "properties": {
                "weekday": {"type": "integer", "minimum": 0, "maximum": 6},
                "startTime": {"type": "string"},
                "endTime": {"type": "string"},
                "locationId": {"type": "string"},
                "count": {"type": "integer", "minimum": 1}
            }
        },
        "MarkAbsentRequest": {
            "type": "object",
            "required": ["strategy"],
            "properties": {
                "strategy": {"type": "string", "enum": ["lost", "recover_auto", "recover_manual"]},
                "slot": {"$ref": "#/definitions/ManualSlotRequest"}
            }
        },
        "ManualSlotRequest": {
            "type": "object",
            "required": ["date", "startTime", "endTime"],
            "properties": {
                "date": {"type": "string"},
                "startTime": {"type": "string"},
                "endTime": {"type": "string"},
                "locationId": {"type": "string"}
            }
        },
        "BulkAbsenceRequest": {
            "type": "object",
            "required": ["strategy", "items"],
            "properties": {
                "strategy": {"type": "string", "enum": ["lost", "recover_auto", "recover_manual"]},
                "slot": {"$ref": "#/definitions/ManualSlotRequest"},
                "items": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "required": ["enrollmentId", "lessonId"],
                        "properties": {
                            "enrollmentId": {"type": "string"},
                            "lessonId": {"type": "string"}
                        }
                    }
                }
            }
        },
        "CreateLocationRequest": {
            "type": "object",
            "required": ["name", "color"],
            "properties": {
                "name": {"type": "string"},
                "color": {"type": "string"},
                "supplierId": {"type": "string"},
                "supplierName": {"type": "string"},
                "availability": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/AvailabilitySlot"}
                }
            }
        },
        "UpdateLocationRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "color": {"type": "string"},
                "supplierId": {"type": "string"},
                "supplierName": {"type": "string"},
                "availability": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/AvailabilitySlot"}
                },
                "active": {"type": "boolean"}
            }
        },
        "AvailabilitySlot": {
            "type": "object",
            "properties": {
                "dayOfWeek": {"type": "integer", "minimum": 0, "maximum": 6},
                "startTime": {"type": "string"},
                "endTime": {"type": "string"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
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
                "pagination": {"$ref": "#/definitions/Pagination"},
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
