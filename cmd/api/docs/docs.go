// Package docs holds the swagger document served at /swagger.
// Regenerate with: swag init -g cmd/api/main.go -o cmd/api/docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support",
            "email": "support@ludora.dev"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/register": {
            "post": {
                "tags": ["Auth"],
                "summary": "Register a new account",
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Log in with email and password",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Auth"],
                "summary": "Exchange a refresh token for a new token pair",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/users/me/recommendations": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["Users"],
                "summary": "Recommend weak topics to practise",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/topics": {
            "get": {
                "tags": ["Topics"],
                "summary": "List topics",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/quizzes": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["Quizzes"],
                "summary": "Generate a quiz from slot constraints",
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "422": {"description": "Unprocessable Entity"}}
            }
        },
        "/quizzes/{id}": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["Quizzes"],
                "summary": "Get a quiz",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/quizzes/{id}/submit": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["Quizzes"],
                "summary": "Submit answers and grade a quiz",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}
            }
        },
        "/shop/items": {
            "get": {
                "tags": ["Shop"],
                "summary": "List shop items",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/shop/items/{id}/purchase": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["Shop"],
                "summary": "Purchase an item",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}
            }
        },
        "/minigames": {
            "get": {
                "tags": ["Minigames"],
                "summary": "List minigames",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/leaderboards": {
            "get": {
                "tags": ["Leaderboards"],
                "summary": "List leaderboards",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["Leaderboards"],
                "summary": "Create a leaderboard (admin)",
                "responses": {"201": {"description": "Created"}, "403": {"description": "Forbidden"}, "409": {"description": "Conflict"}}
            }
        },
        "/leaderboards/{id}/refresh": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["Leaderboards"],
                "summary": "Recompute a leaderboard (admin)",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}
            }
        },
        "/leaderboards/{id}/entries": {
            "get": {
                "tags": ["Leaderboards"],
                "summary": "Ranked entries for the current window",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {
            "description": "Type 'Bearer YOUR_JWT_TOKEN' to authorize.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8090",
	BasePath:         "/api",
	Schemes:          []string{"http", "https"},
	Title:            "Ludora API",
	Description:      "Backend for the Ludora learning game: quizzes, quests, minigames, shop and leaderboards.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
