// Moodcart - Grocery Recommendation Fusion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodcart

package api

import "github.com/swaggo/swag"

// SwaggerInfo describes the API served under /swagger/. The document is kept
// next to the handlers it lists; update both together.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Moodcart API",
	Description:      "Grocery recommendations fused from collaborative filtering, mood similarity, expiration dates and purchase history.",
	InfoInstanceName: swag.Name,
	SwaggerTemplate:  swaggerTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

const swaggerTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "license": {
            "name": "AGPL-3.0-or-later",
            "url": "https://www.gnu.org/licenses/agpl-3.0.html"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/predict": {
            "get": {
                "description": "Flat response kept for existing clients. Errors are {\"error\": \"...\"}. An N that is not an integer falls back to 10.",
                "produces": ["application/json"],
                "tags": ["Recommendations"],
                "summary": "Recommend products for a shopper and mood",
                "parameters": [
                    {"type": "integer", "description": "Known shopper id", "name": "userId", "in": "query"},
                    {"type": "string", "description": "Emotion label, e.g. happy or sad", "name": "mood", "in": "query", "required": true},
                    {"type": "integer", "default": 10, "description": "Group size, clamped to 100", "name": "N", "in": "query"},
                    {"type": "string", "description": "Comma-separated aisle ids for new shoppers", "name": "interested_aisles", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Recommendation groups", "schema": {"$ref": "#/definitions/api.legacyResponse"}},
                    "400": {"description": "Missing or invalid parameter", "schema": {"$ref": "#/definitions/api.legacyError"}},
                    "429": {"description": "Rate limit exceeded", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "500": {"description": "Unknown user or product", "schema": {"$ref": "#/definitions/api.legacyError"}},
                    "503": {"description": "Collaborative model unavailable", "schema": {"$ref": "#/definitions/api.legacyError"}}
                }
            }
        },
        "/api/v1/recommendations": {
            "get": {
                "description": "Same query as /predict. Groups and request metadata are wrapped in the response envelope.",
                "produces": ["application/json"],
                "tags": ["Recommendations"],
                "summary": "Recommend products with metadata",
                "parameters": [
                    {"type": "integer", "description": "Known shopper id", "name": "userId", "in": "query"},
                    {"type": "string", "description": "Emotion label", "name": "mood", "in": "query", "required": true},
                    {"type": "integer", "default": 10, "description": "Group size, clamped to 100", "name": "N", "in": "query"},
                    {"type": "string", "description": "Comma-separated aisle ids for new shoppers", "name": "interested_aisles", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Recommendation groups", "schema": {"allOf": [{"$ref": "#/definitions/api.APIResponse"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/recommend.Response"}}}]}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "429": {"description": "Rate limit exceeded", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "503": {"description": "Collaborative model unavailable", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/api/v1/aisles/top": {
            "get": {
                "description": "Aisles ordered by total purchases, ties by aisle id.",
                "produces": ["application/json"],
                "tags": ["Catalog"],
                "summary": "Most purchased aisles",
                "parameters": [
                    {"type": "integer", "default": 50, "description": "Clamped to [1, 500]", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Aisle totals", "schema": {"allOf": [{"$ref": "#/definitions/api.APIResponse"}, {"type": "object", "properties": {"data": {"type": "array", "items": {"$ref": "#/definitions/models.AisleTotal"}}}}]}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "503": {"description": "Purchase history not loaded", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/api/v1/moods": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Catalog"],
                "summary": "Accepted emotion labels and their categories",
                "responses": {
                    "200": {"description": "Mood labels", "schema": {"allOf": [{"$ref": "#/definitions/api.APIResponse"}, {"type": "object", "properties": {"data": {"type": "array", "items": {"$ref": "#/definitions/api.MoodLabel"}}}}]}}
                }
            }
        },
        "/api/v1/health/live": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Core"],
                "summary": "Liveness check",
                "responses": {
                    "200": {"description": "Process is alive", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/api/v1/health/ready": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Core"],
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "503": {"description": "A readiness check failed", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        }
    },
    "definitions": {
        "api.APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string", "example": "VALIDATION_ERROR"},
                "message": {"type": "string"},
                "details": {},
                "request_id": {"type": "string"}
            }
        },
        "api.APIMeta": {
            "type": "object",
            "properties": {
                "request_id": {"type": "string"},
                "timestamp": {"type": "string", "format": "date-time"},
                "duration_ms": {"type": "integer"},
                "count": {"type": "integer"}
            }
        },
        "api.APIResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {},
                "error": {"$ref": "#/definitions/api.APIError"},
                "meta": {"$ref": "#/definitions/api.APIMeta"}
            }
        },
        "api.MoodLabel": {
            "type": "object",
            "properties": {
                "emotion": {"type": "string", "example": "happy"},
                "category": {"type": "string", "enum": ["positive", "negative"]}
            }
        },
        "api.legacyError": {
            "type": "object",
            "properties": {
                "error": {"type": "string"}
            }
        },
        "api.legacyResponse": {
            "type": "object",
            "properties": {
                "initial_recommendations": {"type": "array", "items": {"$ref": "#/definitions/recommend.Row"}},
                "mood_related_recommendations": {"type": "array", "items": {"$ref": "#/definitions/recommend.Row"}},
                "close_to_exp_recommendations": {"type": "array", "items": {"$ref": "#/definitions/recommend.Row"}},
                "actual_purchased_products": {"type": "array", "x-nullable": true, "items": {"$ref": "#/definitions/recommend.Row"}}
            }
        },
        "models.AisleTotal": {
            "type": "object",
            "properties": {
                "aisle_id": {"type": "integer"},
                "aisle": {"type": "string"},
                "total_purchases": {"type": "integer"}
            }
        },
        "recommend.Row": {
            "type": "object",
            "properties": {
                "product_id": {"type": "integer"},
                "product_name": {"type": "string"},
                "aisle": {"type": "string"},
                "department": {"type": "string"},
                "days_until_expiration": {"type": "integer"},
                "distance": {"type": "number"},
                "image_url": {"type": "string"},
                "price": {"type": "string", "example": "$3.49"},
                "discount_price": {"type": "string"}
            }
        },
        "recommend.Response": {
            "type": "object",
            "properties": {
                "initial_recommendations": {"type": "array", "items": {"$ref": "#/definitions/recommend.Row"}},
                "mood_related_recommendations": {"type": "array", "items": {"$ref": "#/definitions/recommend.Row"}},
                "close_to_exp_recommendations": {"type": "array", "items": {"$ref": "#/definitions/recommend.Row"}},
                "actual_purchased_products": {"type": "array", "items": {"$ref": "#/definitions/recommend.Row"}},
                "metadata": {"$ref": "#/definitions/recommend.ResponseMetadata"}
            }
        },
        "recommend.ResponseMetadata": {
            "type": "object",
            "properties": {
                "request_id": {"type": "string"},
                "path": {"type": "string", "enum": ["known_user", "new_user"]},
                "user_id": {"type": "integer"},
                "mood": {"type": "string"},
                "mood_category": {"type": "string"},
                "n": {"type": "integer"},
                "candidates": {"type": "array", "items": {"type": "integer"}},
                "latency_ms": {"type": "integer"},
                "timestamp": {"type": "string", "format": "date-time"}
            }
        }
    }
}`
