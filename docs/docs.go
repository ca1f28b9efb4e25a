// Package docs registers the OpenAPI description served at /swagger.
// Regenerate with: swag init -g cmd/callguard/main.go -o docs
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
        "/analyze": {
            "post": {
                "description": "Transcribes base64-encoded audio and classifies the transcript as fraudulent or not",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["analysis"],
                "summary": "Analyze a call recording",
                "parameters": [
                    {"description": "Base64 audio", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.AnalyzeRequest"}}
                ],
                "responses": {
                    "200": {"description": "Transcript and verdict", "schema": {"$ref": "#/definitions/dto.AnalyzeResponse"}},
                    "400": {"description": "Missing or malformed audio", "schema": {"$ref": "#/definitions/errors.APIError"}},
                    "413": {"description": "Audio too large", "schema": {"$ref": "#/definitions/errors.APIError"}},
                    "429": {"description": "Rate limit exceeded", "schema": {"$ref": "#/definitions/errors.APIError"}},
                    "502": {"description": "Speech-to-text failed", "schema": {"$ref": "#/definitions/errors.APIError"}},
                    "503": {"description": "Model not loaded", "schema": {"$ref": "#/definitions/errors.APIError"}}
                }
            }
        },
        "/classify": {
            "post": {
                "description": "Classifies text directly, skipping speech-to-text",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["analysis"],
                "summary": "Classify a transcript",
                "parameters": [
                    {"description": "Transcript", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.ClassifyRequest"}}
                ],
                "responses": {
                    "200": {"description": "Verdict", "schema": {"$ref": "#/definitions/dto.ClassifyResponse"}},
                    "422": {"description": "Validation error", "schema": {"$ref": "#/definitions/errors.APIError"}},
                    "503": {"description": "Model not loaded", "schema": {"$ref": "#/definitions/errors.APIError"}}
                }
            }
        },
        "/feedback": {
            "get": {
                "description": "Lists feedback records newest first",
                "produces": ["application/json"],
                "tags": ["feedback"],
                "summary": "List feedback",
                "parameters": [
                    {"maximum": 100, "minimum": 1, "type": "integer", "default": 20, "description": "Page size", "name": "limit", "in": "query"},
                    {"minimum": 0, "type": "integer", "default": 0, "description": "Records to skip", "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Feedback page", "schema": {"$ref": "#/definitions/dto.PaginatedFeedbackResponse"}},
                    "400": {"description": "Invalid query parameters", "schema": {"$ref": "#/definitions/errors.APIError"}}
                }
            }
        },
        "/feedback/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["feedback"],
                "summary": "Get feedback by ID",
                "parameters": [
                    {"type": "string", "format": "uuid", "description": "Feedback ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Feedback record", "schema": {"$ref": "#/definitions/dto.FeedbackResponse"}},
                    "400": {"description": "Invalid ID", "schema": {"$ref": "#/definitions/errors.APIError"}},
                    "404": {"description": "Feedback not found", "schema": {"$ref": "#/definitions/errors.APIError"}}
                }
            },
            "put": {
                "description": "Stores the caller's own verdict on a previous analysis",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["feedback"],
                "summary": "Submit user feedback",
                "parameters": [
                    {"type": "string", "format": "uuid", "description": "Feedback ID", "name": "id", "in": "path", "required": true},
                    {"description": "User feedback", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.UpdateFeedbackRequest"}}
                ],
                "responses": {
                    "200": {"description": "Updated record", "schema": {"$ref": "#/definitions/dto.FeedbackResponse"}},
                    "400": {"description": "Invalid ID", "schema": {"$ref": "#/definitions/errors.APIError"}},
                    "404": {"description": "Feedback not found", "schema": {"$ref": "#/definitions/errors.APIError"}},
                    "422": {"description": "Feedback too long", "schema": {"$ref": "#/definitions/errors.APIError"}}
                }
            }
        },
        "/model": {
            "get": {
                "produces": ["application/json"],
                "tags": ["model"],
                "summary": "Describe the served model",
                "responses": {
                    "200": {"description": "Model metadata", "schema": {"$ref": "#/definitions/dto.ModelInfoResponse"}},
                    "503": {"description": "Model not loaded", "schema": {"$ref": "#/definitions/errors.APIError"}}
                }
            }
        },
        "/model/reload": {
            "post": {
                "description": "Fetches the artifact from its store and swaps it in; the previous model keeps serving on failure",
                "produces": ["application/json"],
                "tags": ["model"],
                "summary": "Reload the model artifact",
                "responses": {
                    "200": {"description": "Reloaded model", "schema": {"$ref": "#/definitions/dto.ModelInfoResponse"}},
                    "500": {"description": "Reload failed", "schema": {"$ref": "#/definitions/errors.APIError"}},
                    "503": {"description": "No store configured", "schema": {"$ref": "#/definitions/errors.APIError"}}
                }
            }
        },
        "/export": {
            "get": {
                "description": "Downloads the newest feedback records as an Excel workbook",
                "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "tags": ["export"],
                "summary": "Export feedback",
                "parameters": [
                    {"maximum": 100000, "minimum": 1, "type": "integer", "default": 10000, "description": "Maximum records", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Workbook", "schema": {"type": "file"}},
                    "400": {"description": "Invalid query parameters", "schema": {"$ref": "#/definitions/errors.APIError"}}
                }
            }
        }
    },
    "definitions": {
        "dto.AnalyzeRequest": {
            "type": "object",
            "properties": {"audio": {"type": "string"}}
        },
        "dto.AnalyzeResponse": {
            "type": "object",
            "properties": {
                "transcript": {"type": "string"},
                "is_fraudulent": {"type": "boolean"},
                "label": {"type": "integer"},
                "confidence": {"type": "number"},
                "feedback_id": {"type": "string"}
            }
        },
        "dto.ClassifyRequest": {
            "type": "object",
            "required": ["text"],
            "properties": {"text": {"type": "string"}}
        },
        "dto.ClassifyResponse": {
            "type": "object",
            "properties": {
                "is_fraudulent": {"type": "boolean"},
                "label": {"type": "integer"},
                "confidence": {"type": "number"}
            }
        },
        "dto.UpdateFeedbackRequest": {
            "type": "object",
            "properties": {"user_feedback": {"type": "string", "maxLength": 500}}
        },
        "dto.FeedbackResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "transcript": {"type": "string"},
                "is_fraudulent": {"type": "boolean"},
                "confidence": {"type": "number"},
                "user_feedback": {"type": "string"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "dto.PaginationResponse": {
            "type": "object",
            "properties": {
                "limit": {"type": "integer"},
                "offset": {"type": "integer"},
                "total": {"type": "integer"},
                "has_next": {"type": "boolean"}
            }
        },
        "dto.PaginatedFeedbackResponse": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/dto.FeedbackResponse"}},
                "pagination": {"$ref": "#/definitions/dto.PaginationResponse"}
            }
        },
        "dto.ModelInfoResponse": {
            "type": "object",
            "properties": {
                "location": {"type": "string"},
                "vocabulary_size": {"type": "integer"},
                "documents": {"type": "integer"},
                "threshold": {"type": "number"},
                "trained_at": {"type": "string"},
                "loaded_at": {"type": "string"}
            }
        },
        "errors.APIError": {
            "type": "object",
            "properties": {
                "kind": {"type": "string"},
                "message": {"type": "string"},
                "details": {"type": "object", "additionalProperties": {"type": "string"}},
                "request_id": {"type": "string"},
                "code": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "callguard API",
	Description:      "Call-transcript fraud detection: speech-to-text plus a TF-IDF logistic regression classifier.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
