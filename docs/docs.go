// Package docs registers the OpenAPI description served at /swagger/*.
// Regenerate with: swag init -g cmd/dashboard/main.go -o docs
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
        "/v1/shipments": {
            "get": {
                "produces": ["application/json"],
                "tags": ["shipments"],
                "summary": "List shipments",
                "parameters": [
                    {"type": "string", "name": "q", "in": "query"},
                    {"type": "string", "name": "status", "in": "query"},
                    {"type": "string", "name": "from", "in": "query"},
                    {"type": "string", "name": "to", "in": "query"},
                    {"type": "string", "default": "created_at", "name": "sort", "in": "query"},
                    {"type": "string", "default": "desc", "name": "order", "in": "query"},
                    {"type": "integer", "default": 1, "name": "page", "in": "query"},
                    {"type": "integer", "default": 20, "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.listShipmentsResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["shipments"],
                "summary": "Create a new shipment",
                "parameters": [
                    {"type": "string", "name": "Idempotency-Key", "in": "header"},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.createShipmentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.shipmentResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/v1/shipments/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["shipments"],
                "summary": "Get a shipment by id",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.shipmentResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            },
            "delete": {
                "tags": ["shipments"],
                "summary": "Delete a shipment",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/v1/shipments/{id}/status": {
            "patch": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["shipments"],
                "summary": "Change the status of a shipment",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.updateStatusRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.shipmentResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/v1/shipments/{id}/location": {
            "patch": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["shipments"],
                "summary": "Report a new position for a shipment",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.updateLocationRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.shipmentResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/v1/shipments/{id}/location/simulate": {
            "post": {
                "produces": ["application/json"],
                "tags": ["shipments"],
                "summary": "Move a shipment by a small random step",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.shipmentResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/v1/shipments/bulk/status": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["bulk"],
                "summary": "Change the status of many shipments",
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.bulkStatusRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.bulkResponse"}}}
            }
        },
        "/v1/shipments/bulk/delete": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["bulk"],
                "summary": "Delete many shipments",
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.bulkRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.bulkResponse"}}}
            }
        },
        "/v1/shipments/export": {
            "get": {
                "produces": ["text/csv"],
                "tags": ["shipments"],
                "summary": "Download the filtered view as CSV",
                "responses": {"200": {"description": "OK", "schema": {"type": "file"}}}
            }
        },
        "/v1/shipments/refresh": {
            "post": {
                "produces": ["application/json"],
                "tags": ["shipments"],
                "summary": "Reload the collection from the source of record",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.refreshResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/v1/analytics": {
            "get": {
                "produces": ["application/json"],
                "tags": ["analytics"],
                "summary": "Status distribution, monthly histogram and delivery rates",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/analytics.Summary"}}}
            }
        },
        "/health": {
            "get": {"produces": ["application/json"], "tags": ["health"], "summary": "Liveness probe", "responses": {"200": {"description": "OK"}}}
        },
        "/health/ready": {
            "get": {"produces": ["application/json"], "tags": ["health"], "summary": "Readiness probe", "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}}
        }
    },
    "definitions": {
        "handler.errorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "handler.locationResponse": {
            "type": "object",
            "properties": {
                "lat": {"type": "number"},
                "lng": {"type": "number"},
                "name": {"type": "string"},
                "timestamp": {"type": "string"}
            }
        },
        "handler.shipmentResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "container_id": {"type": "string"},
                "status": {"type": "string", "enum": ["pending", "in-transit", "delivered", "delayed"]},
                "current_location": {"$ref": "#/definitions/handler.locationResponse"},
                "route": {"type": "array", "items": {"$ref": "#/definitions/handler.locationResponse"}},
                "eta": {"type": "string"},
                "origin": {"$ref": "#/definitions/handler.locationResponse"},
                "destination": {"$ref": "#/definitions/handler.locationResponse"},
                "weight": {"type": "number"},
                "dimensions": {"type": "string"},
                "description": {"type": "string"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "handler.listShipmentsResponse": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/handler.shipmentResponse"}},
                "pagination": {
                    "type": "object",
                    "properties": {
                        "total": {"type": "integer"},
                        "page": {"type": "integer"},
                        "limit": {"type": "integer"},
                        "total_pages": {"type": "integer"}
                    }
                }
            }
        },
        "handler.createShipmentRequest": {
            "type": "object",
            "required": ["container_id", "origin", "destination"],
            "properties": {
                "container_id": {"type": "string"},
                "origin": {"type": "string"},
                "destination": {"type": "string"},
                "weight": {"type": "number"},
                "dimensions": {"type": "string"},
                "description": {"type": "string"},
                "eta": {"type": "string"}
            }
        },
        "handler.updateStatusRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {"status": {"type": "string", "enum": ["pending", "in-transit", "delivered", "delayed"]}}
        },
        "handler.updateLocationRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "lat": {"type": "number"},
                "lng": {"type": "number"},
                "name": {"type": "string"},
                "timestamp": {"type": "string"}
            }
        },
        "handler.filterRequest": {
            "type": "object",
            "properties": {
                "q": {"type": "string"},
                "status": {"type": "string"},
                "from": {"type": "string"},
                "to": {"type": "string"},
                "sort": {"type": "string"},
                "order": {"type": "string"}
            }
        },
        "handler.bulkRequest": {
            "type": "object",
            "properties": {
                "ids": {"type": "array", "items": {"type": "string"}},
                "select_all": {"type": "boolean"},
                "filter": {"$ref": "#/definitions/handler.filterRequest"}
            }
        },
        "handler.bulkStatusRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {
                "ids": {"type": "array", "items": {"type": "string"}},
                "select_all": {"type": "boolean"},
                "filter": {"$ref": "#/definitions/handler.filterRequest"},
                "status": {"type": "string"}
            }
        },
        "handler.bulkResponse": {
            "type": "object",
            "properties": {"requested": {"type": "integer"}, "applied": {"type": "integer"}}
        },
        "handler.refreshResponse": {
            "type": "object",
            "properties": {"count": {"type": "integer"}}
        },
        "analytics.Summary": {
            "type": "object",
            "properties": {
                "total": {"type": "integer"},
                "in_transit": {"type": "integer"},
                "delivered": {"type": "integer"},
                "delayed": {"type": "integer"},
                "distribution": {"type": "array", "items": {"type": "object", "properties": {"status": {"type": "string"}, "count": {"type": "integer"}}}},
                "monthly": {"type": "array", "items": {"type": "object", "properties": {"month": {"type": "string"}, "count": {"type": "integer"}}}},
                "rates": {"type": "object", "properties": {"delivery_rate": {"type": "number"}, "on_time_rate": {"type": "number"}}}
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
	Title:            "Shipment Dashboard API",
	Description:      "Reconciled shipment collection with filtering, bulk operations, analytics and CSV export.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
