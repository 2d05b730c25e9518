// Package docs holds the Swagger description of the HTTP API served at /swagger/.
// Regenerate it with `swag init -g cmd/agentdesk/main.go` after changing handler annotations.
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
        "/agent": {
            "post": {
                "security": [
                    {
                        "TenantID": []
                    }
                ],
                "description": "Creates an unpublished agent with its draft profile, tools and sub-agents.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "agents"
                ],
                "summary": "Create an agent draft",
                "parameters": [
                    {
                        "description": "Agent draft",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.AgentRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/dto.AgentResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "422": {
                        "description": "Unprocessable Entity",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ]
            }
        },
        "/agent/published": {
            "get": {
                "security": [
                    {
                        "TenantID": []
                    }
                ],
                "description": "Enabled agents with a current version, built from their current snapshot.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "agents"
                ],
                "summary": "List published agents",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Comma-separated group ids",
                        "name": "group_ids",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.PublishedListResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/agent/{id}": {
            "get": {
                "security": [
                    {
                        "TenantID": []
                    }
                ],
                "description": "Returns the agent and its live draft.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "agents"
                ],
                "summary": "Get an agent draft",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Agent ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.AgentResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            },
            "put": {
                "security": [
                    {
                        "TenantID": []
                    }
                ],
                "description": "Replaces the draft profile, tools and sub-agents. Published versions are not affected.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "agents"
                ],
                "summary": "Replace an agent draft",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Agent ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Agent draft",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.AgentRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.AgentResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "422": {
                        "description": "Unprocessable Entity",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ]
            }
        },
        "/agent/{id}/publish": {
            "post": {
                "security": [
                    {
                        "TenantID": []
                    }
                ],
                "description": "Captures the draft as a new immutable version and makes it current.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "versions"
                ],
                "summary": "Publish the draft",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Agent ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Publish options",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.PublishRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/dto.VersionResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "422": {
                        "description": "Unprocessable Entity",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ]
            }
        },
        "/agent/{id}/versions": {
            "get": {
                "security": [
                    {
                        "TenantID": []
                    }
                ],
                "description": "Non-deleted versions, newest first.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "versions"
                ],
                "summary": "List versions",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Agent ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "Filter by status: ACTIVE, DISABLED, ARCHIVED",
                        "name": "status",
                        "in": "query"
                    },
                    {
                        "type": "integer",
                        "description": "Page size",
                        "name": "limit",
                        "in": "query"
                    },
                    {
                        "type": "integer",
                        "description": "Page offset",
                        "name": "offset",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.VersionListResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "422": {
                        "description": "Unprocessable Entity",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "503": {
                        "description": "Service Unavailable",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/agent/{id}/versions/current": {
            "get": {
                "security": [
                    {
                        "TenantID": []
                    }
                ],
                "description": "Returns the current version detail, or null if the agent was never published.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "versions"
                ],
                "summary": "Get the current version",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Agent ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.DetailResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "503": {
                        "description": "Service Unavailable",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/agent/{id}/versions/events": {
            "get": {
                "security": [
                    {
                        "TenantID": []
                    }
                ],
                "description": "Audit trail of publish, rollback, status and delete operations.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "versions"
                ],
                "summary": "List version events",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Agent ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.EventListResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "503": {
                        "description": "Service Unavailable",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/agent/{id}/versions/compare": {
            "post": {
                "security": [
                    {
                        "TenantID": []
                    }
                ],
                "description": "Compares two snapshots field by field. Version 0 is the draft.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "versions"
                ],
                "summary": "Compare two versions",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Agent ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Versions to compare",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.CompareRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.ComparisonResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "422": {
                        "description": "Unprocessable Entity",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "503": {
                        "description": "Service Unavailable",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ]
            }
        },
        "/agent/{id}/versions/{versionNo}": {
            "get": {
                "security": [
                    {
                        "TenantID": []
                    }
                ],
                "description": "Returns the full snapshot of a published version.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "versions"
                ],
                "summary": "Get a version",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Agent ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "integer",
                        "description": "Version number",
                        "name": "versionNo",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.DetailResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "422": {
                        "description": "Unprocessable Entity",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "503": {
                        "description": "Service Unavailable",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            },
            "delete": {
                "security": [
                    {
                        "TenantID": []
                    }
                ],
                "description": "Soft-deletes a version. The current version cannot be deleted.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "versions"
                ],
                "summary": "Delete a version",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Agent ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "integer",
                        "description": "Version number",
                        "name": "versionNo",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.DeleteResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "422": {
                        "description": "Unprocessable Entity",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/agent/{id}/versions/{versionNo}/rollback": {
            "post": {
                "security": [
                    {
                        "TenantID": []
                    }
                ],
                "description": "Copies the version onto the draft and makes it current. No version is created.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "versions"
                ],
                "summary": "Roll back to a version",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Agent ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "integer",
                        "description": "Version number",
                        "name": "versionNo",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Rollback options",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.RollbackRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.RollbackResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "422": {
                        "description": "Unprocessable Entity",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ]
            }
        },
        "/agent/{id}/versions/{versionNo}/status": {
            "patch": {
                "security": [
                    {
                        "TenantID": []
                    }
                ],
                "description": "Allowed: ACTIVE to DISABLED or ARCHIVED and back. The current version must stay ACTIVE.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "versions"
                ],
                "summary": "Change version status",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Agent ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "integer",
                        "description": "Version number",
                        "name": "versionNo",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "New status",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.UpdateStatusRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.VersionResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "422": {
                        "description": "Unprocessable Entity",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ]
            }
        }
    },
    "definitions": {
        "dto.ErrorDetail": {
            "type": "object",
            "properties": {
                "code": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                }
            }
        },
        "dto.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {
                    "$ref": "#/definitions/dto.ErrorDetail"
                }
            }
        },
        "dto.ToolInstance": {
            "type": "object",
            "properties": {
                "tool_id": {
                    "type": "integer"
                },
                "enabled": {
                    "type": "boolean"
                },
                "params": {
                    "type": "object",
                    "additionalProperties": true
                }
            }
        },
        "dto.AgentRequest": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string"
                },
                "display_name": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "author": {
                    "type": "string"
                },
                "model_name": {
                    "type": "string"
                },
                "duty_prompt": {
                    "type": "string"
                },
                "constraint_prompt": {
                    "type": "string"
                },
                "few_shots_prompt": {
                    "type": "string"
                },
                "business_description": {
                    "type": "string"
                },
                "business_logic_model_name": {
                    "type": "string"
                },
                "model_id": {
                    "type": "integer"
                },
                "max_steps": {
                    "type": "integer"
                },
                "provide_run_summary": {
                    "type": "boolean"
                },
                "business_logic_model_id": {
                    "type": "integer"
                },
                "group_ids": {
                    "type": "array",
                    "items": {
                        "type": "integer"
                    }
                },
                "enabled": {
                    "type": "boolean"
                },
                "tools": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.ToolInstance"
                    }
                },
                "sub_agent_ids": {
                    "type": "array",
                    "items": {
                        "type": "integer"
                    }
                }
            }
        },
        "dto.PublishRequest": {
            "type": "object",
            "properties": {
                "version_name": {
                    "type": "string"
                },
                "release_note": {
                    "type": "string"
                },
                "expected_current_version_no": {
                    "type": "integer"
                }
            }
        },
        "dto.RollbackRequest": {
            "type": "object",
            "properties": {
                "expected_current_version_no": {
                    "type": "integer"
                }
            }
        },
        "dto.UpdateStatusRequest": {
            "type": "object",
            "properties": {
                "status": {
                    "type": "string",
                    "enum": [
                        "ACTIVE",
                        "DISABLED",
                        "ARCHIVED"
                    ]
                }
            }
        },
        "dto.CompareRequest": {
            "type": "object",
            "properties": {
                "version_no_a": {
                    "type": "integer"
                },
                "version_no_b": {
                    "type": "integer"
                }
            }
        },
        "dto.VersionResponse": {
            "type": "object",
            "properties": {
                "agent_id": {
                    "type": "integer"
                },
                "version_no": {
                    "type": "integer"
                },
                "version_name": {
                    "type": "string"
                },
                "release_note": {
                    "type": "string"
                },
                "source_type": {
                    "type": "string",
                    "enum": [
                        "NORMAL",
                        "ROLLBACK"
                    ]
                },
                "source_version_no": {
                    "type": "integer"
                },
                "status": {
                    "type": "string",
                    "enum": [
                        "ACTIVE",
                        "DISABLED",
                        "ARCHIVED"
                    ]
                },
                "created_by": {
                    "type": "string"
                },
                "updated_by": {
                    "type": "string"
                },
                "created_at": {
                    "type": "string"
                },
                "updated_at": {
                    "type": "string"
                }
            }
        },
        "dto.VersionListResponse": {
            "type": "object",
            "properties": {
                "items": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.VersionResponse"
                    }
                },
                "total": {
                    "type": "integer"
                }
            }
        },
        "dto.ProfileResponse": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string"
                },
                "display_name": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "author": {
                    "type": "string"
                },
                "model_name": {
                    "type": "string"
                },
                "duty_prompt": {
                    "type": "string"
                },
                "constraint_prompt": {
                    "type": "string"
                },
                "few_shots_prompt": {
                    "type": "string"
                },
                "business_description": {
                    "type": "string"
                },
                "business_logic_model_name": {
                    "type": "string"
                },
                "model_id": {
                    "type": "integer"
                },
                "max_steps": {
                    "type": "integer"
                },
                "provide_run_summary": {
                    "type": "boolean"
                },
                "business_logic_model_id": {
                    "type": "integer"
                },
                "group_ids": {
                    "type": "array",
                    "items": {
                        "type": "integer"
                    }
                }
            }
        },
        "dto.DetailResponse": {
            "type": "object",
            "properties": {
                "agent_id": {
                    "type": "integer"
                },
                "version_no": {
                    "type": "integer"
                },
                "version": {
                    "$ref": "#/definitions/dto.VersionResponse"
                },
                "profile": {
                    "$ref": "#/definitions/dto.ProfileResponse"
                },
                "tools": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.ToolInstance"
                    }
                },
                "sub_agent_ids": {
                    "type": "array",
                    "items": {
                        "type": "integer"
                    }
                },
                "is_available": {
                    "type": "boolean"
                },
                "unavailable_reasons": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                }
            }
        },
        "dto.AgentResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "integer"
                },
                "enabled": {
                    "type": "boolean"
                },
                "current_version_no": {
                    "type": "integer"
                },
                "rollback_pending": {
                    "type": "boolean"
                },
                "created_by": {
                    "type": "string"
                },
                "updated_by": {
                    "type": "string"
                },
                "created_at": {
                    "type": "string"
                },
                "updated_at": {
                    "type": "string"
                },
                "draft": {
                    "$ref": "#/definitions/dto.DetailResponse"
                }
            }
        },
        "dto.PublishedAgentResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "integer"
                },
                "current_version_no": {
                    "type": "integer"
                },
                "detail": {
                    "$ref": "#/definitions/dto.DetailResponse"
                }
            }
        },
        "dto.PublishedListResponse": {
            "type": "object",
            "properties": {
                "items": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.PublishedAgentResponse"
                    }
                }
            }
        },
        "dto.FieldComparisonResponse": {
            "type": "object",
            "properties": {
                "field": {
                    "type": "string"
                },
                "label": {
                    "type": "string"
                },
                "value_a": {},
                "value_b": {},
                "changed": {
                    "type": "boolean"
                }
            }
        },
        "dto.ComparisonResponse": {
            "type": "object",
            "properties": {
                "version_a": {
                    "$ref": "#/definitions/dto.DetailResponse"
                },
                "version_b": {
                    "$ref": "#/definitions/dto.DetailResponse"
                },
                "fields": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.FieldComparisonResponse"
                    }
                },
                "differences": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.FieldComparisonResponse"
                    }
                },
                "has_differences": {
                    "type": "boolean"
                }
            }
        },
        "dto.RollbackResponse": {
            "type": "object",
            "properties": {
                "agent_id": {
                    "type": "integer"
                },
                "current_version_no": {
                    "type": "integer"
                },
                "draft": {
                    "$ref": "#/definitions/dto.DetailResponse"
                },
                "comparison": {
                    "$ref": "#/definitions/dto.ComparisonResponse"
                }
            }
        },
        "dto.DeleteResponse": {
            "type": "object",
            "properties": {
                "deleted": {
                    "type": "boolean"
                },
                "agent_id": {
                    "type": "integer"
                },
                "version_no": {
                    "type": "integer"
                }
            }
        },
        "dto.EventResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "integer"
                },
                "version_no": {
                    "type": "integer"
                },
                "actor_id": {
                    "type": "string"
                },
                "type": {
                    "type": "string"
                },
                "old_status": {
                    "type": "string"
                },
                "new_status": {
                    "type": "string"
                },
                "from_version_no": {
                    "type": "integer"
                },
                "created_at": {
                    "type": "string"
                }
            }
        },
        "dto.EventListResponse": {
            "type": "object",
            "properties": {
                "items": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.EventResponse"
                    }
                }
            }
        }
    },
    "securityDefinitions": {
        "TenantID": {
            "description": "Tenant id set by the gateway. X-User-ID identifies the acting user.",
            "type": "apiKey",
            "name": "X-Tenant-ID",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "agentdesk API",
	Description:      "Versioning of AI agent configurations: drafts, immutable versions, rollback and comparison.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
