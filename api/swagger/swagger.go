package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Timetable API",
        "description": "Constraint-based weekly university timetable scheduler",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/schedules": {
            "get": {
                "summary": "List persisted schedules",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/schedules/generate": {
            "post": {
                "summary": "Run a scheduling generation pass",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/schedules/{id}/move": {
            "post": {
                "summary": "Move one placement within a persisted schedule",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/schedules/{id}/slots": {
            "get": {
                "summary": "List the placements of one persisted schedule",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/schedules/{id}": {
            "delete": {
                "summary": "Delete a persisted schedule",
                "responses": {
                    "204": {
                        "description": "No Content"
                    }
                }
            }
        },
        "/schedules/import": {
            "post": {
                "summary": "Import a course catalogue",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/schedules/{id}/export.{format}": {
            "get": {
                "summary": "Export a persisted schedule as xlsx, csv, or pdf",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
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
