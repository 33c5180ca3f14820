package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Course Evaluation API",
        "description": "Anonymous course and professor evaluation surveys",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Surveys", "description": "Survey submission"},
        {"name": "Forms", "description": "Open forms, questions and professor rosters"},
        {"name": "Reports", "description": "Aggregate evaluation reports"}
    ],
    "paths": {
        "/surveys": {
            "post": {
                "tags": ["Surveys"],
                "summary": "Submit a survey",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/SubmitReceipt"}},
                    "400": {"description": "Malformed payload or validation failure", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Form inactive, not yet open or expired", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Form not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "429": {"description": "Recent submission from the same client", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/forms": {
            "get": {
                "tags": ["Forms"],
                "summary": "List open forms",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/forms/{id}/questions": {
            "get": {
                "tags": ["Forms"],
                "summary": "List a form's questions",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "seccion", "in": "query", "type": "string", "enum": ["curso", "profesor"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Form not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/forms/{id}/professors": {
            "get": {
                "tags": ["Forms"],
                "summary": "List a form's professor roster",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Form not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/courses/{id}": {
            "get": {
                "tags": ["Reports"],
                "summary": "Course evaluation report",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Course not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/courses/{id}/questions/{qid}": {
            "get": {
                "tags": ["Reports"],
                "summary": "Answer distribution for one question",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "qid", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Question not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "SubmitRequest": {
            "type": "object",
            "properties": {
                "formulario_id": {"type": "integer"},
                "tiempo_completado": {"type": "integer"},
                "respuestas": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/AnswerInput"}
                }
            },
            "required": ["formulario_id", "respuestas"]
        },
        "AnswerInput": {
            "type": "object",
            "properties": {
                "pregunta_id": {"type": "integer"},
                "profesor_id": {"type": "integer"},
                "respuesta": {"type": "string"}
            },
            "required": ["pregunta_id"]
        },
        "SubmitReceipt": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "encuesta_id": {"type": "integer"},
                "respuestas_insertadas": {"type": "integer"},
                "hash_session": {"type": "string"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {"type": "object"},
                "message": {"type": "string"},
                "errors": {
                    "type": "array",
                    "items": {"type": "string"}
                }
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
