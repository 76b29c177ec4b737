// Package swagger holds the OpenAPI document served at /swagger/*any, laid out
// the way swag emits it. It follows the handler annotations; after changing
// them, regenerate with
//
//	swag init -g cmd/linky-server/main.go -o api/swagger
package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "Linky Support",
            "url": "https://github.com/mikepea/linky"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/export": {
            "get": {
                "description": "Export all links and votes in the links.json / votes.json format",
                "produces": ["application/json"],
                "tags": ["importexport"],
                "summary": "Export links and votes",
                "parameters": [
                    {"type": "boolean", "description": "Send as a file attachment", "name": "download", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/importexport.Archive"}},
                    "500": {"description": "Export failed", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/import": {
            "post": {
                "description": "Import links.json / votes.json content. Links are upserted by id, votes appended, and counters recomputed from the vote log.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["importexport"],
                "summary": "Import links and votes",
                "parameters": [
                    {"type": "boolean", "description": "Delete existing links and votes first", "name": "replace", "in": "query"},
                    {"type": "boolean", "description": "Keep imported like/dislike counters instead of recomputing them", "name": "keep_counters", "in": "query"},
                    {"description": "Links and votes", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/importexport.Archive"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/importexport.ImportResult"}},
                    "400": {"description": "Validation error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Import failed", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/links": {
            "get": {
                "description": "Get all links sorted by likes minus dislikes, highest first. Equal scores keep submission order.",
                "produces": ["application/json"],
                "tags": ["links"],
                "summary": "List links",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/links.LinkResponse"}}},
                    "500": {"description": "Failed to retrieve links", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/process-link": {
            "post": {
                "description": "Store a new link with zero likes and dislikes. Omitted title or description are stored as \"No Title Provided\" / \"No Description Provided\" and echoed as \"Not Provided\".",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["links"],
                "summary": "Submit a link",
                "parameters": [
                    {"description": "Link details", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/links.ProcessLinkRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/links.ProcessLinkResponse"}},
                    "400": {"description": "Validation error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Processing failed", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/vote": {
            "post": {
                "description": "Add a like or dislike to a link. Votes are not tied to a caller; every call counts.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["votes"],
                "summary": "Vote on a link",
                "parameters": [
                    {"description": "Vote", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/votes.VoteRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/votes.VoteResponse"}},
                    "400": {"description": "Invalid vote type", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Link not found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Failed to add vote", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/vote/{link_id}": {
            "delete": {
                "description": "Remove the most recent vote on a link and decrement the matching counter (never below zero).",
                "produces": ["application/json"],
                "tags": ["votes"],
                "summary": "Remove a vote",
                "parameters": [
                    {"type": "integer", "description": "Link ID", "name": "link_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/votes.VoteResponse"}},
                    "400": {"description": "Invalid link ID", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Link not found or no votes", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Failed to remove vote", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        }
    },
    "definitions": {
        "flatfile.LinkRecord": {
            "type": "object",
            "properties": {
                "description": {"type": "string"},
                "dislikes": {"type": "integer"},
                "id": {"type": "integer"},
                "likes": {"type": "integer"},
                "title": {"type": "string"},
                "url": {"type": "string"}
            }
        },
        "flatfile.VoteRecord": {
            "type": "object",
            "properties": {
                "link_id": {"type": "integer"},
                "timestamp": {"type": "string"},
                "vote_type": {"type": "string"}
            }
        },
        "importexport.Archive": {
            "type": "object",
            "properties": {
                "links": {"type": "array", "items": {"$ref": "#/definitions/flatfile.LinkRecord"}},
                "votes": {"type": "array", "items": {"$ref": "#/definitions/flatfile.VoteRecord"}}
            }
        },
        "importexport.ImportResult": {
            "type": "object",
            "properties": {
                "links_imported": {"type": "integer"},
                "reconciled": {"type": "integer"},
                "skipped": {"type": "integer"},
                "votes_imported": {"type": "integer"}
            }
        },
        "links.LinkResponse": {
            "type": "object",
            "properties": {
                "description": {"type": "string"},
                "dislikes": {"type": "integer"},
                "id": {"type": "integer"},
                "likes": {"type": "integer"},
                "title": {"type": "string"},
                "url": {"type": "string"}
            }
        },
        "links.ProcessLinkRequest": {
            "type": "object",
            "required": ["url"],
            "properties": {
                "description": {"type": "string"},
                "title": {"type": "string"},
                "url": {"type": "string"}
            }
        },
        "links.ProcessLinkResponse": {
            "type": "object",
            "properties": {
                "description": {"type": "string"},
                "id": {"type": "integer"},
                "message": {"type": "string"},
                "original_url": {"type": "string"},
                "status": {"type": "string"},
                "title": {"type": "string"}
            }
        },
        "votes.VoteRequest": {
            "type": "object",
            "required": ["link_id"],
            "properties": {
                "link_id": {"type": "integer"},
                "vote_type": {"type": "string", "enum": ["like", "dislike"]}
            }
        },
        "votes.VoteResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "status": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8000",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Linky API",
	Description:      "Share links, vote on them, and list them ranked by likes minus dislikes.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
