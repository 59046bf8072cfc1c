// Package docs registers the Swagger document served at /swagger.
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
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Authentication"],
                "summary": "User login",
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.AuthResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/auth/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Authentication"],
                "summary": "Register new user",
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.AuthResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Authentication"],
                "summary": "Logout",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Response"}}}
            }
        },
        "/products/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Products"],
                "summary": "Get product by ID",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Product"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/cart": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Cart"],
                "summary": "Get cart",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.CartLine"}}}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Cart"],
                "summary": "Clear cart",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.CartLine"}}}}
            }
        },
        "/cart/items": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Cart"],
                "summary": "Add to cart",
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.AddCartItemRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.CartLine"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/cart/items/{productId}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Cart"],
                "summary": "Remove from cart",
                "parameters": [
                    {"type": "string", "name": "productId", "in": "path", "required": true},
                    {"type": "string", "name": "size", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.CartLine"}}}}
            }
        },
        "/orders": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Orders"],
                "summary": "Create order",
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.CreateOrderRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.Order"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/reviews": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Reviews"],
                "summary": "List reviews",
                "parameters": [{"type": "integer", "name": "limit", "in": "query"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ReviewsResponse"}}}
            }
        }
    },
    "definitions": {
        "models.LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "models.RegisterRequest": {
            "type": "object",
            "required": ["email", "name", "password"],
            "properties": {"name": {"type": "string"}, "email": {"type": "string"}, "password": {"type": "string"}}
        },
        "models.User": {
            "type": "object",
            "properties": {
                "id": {"type": "string"}, "name": {"type": "string"}, "email": {"type": "string"},
                "role": {"type": "string"}, "createdAt": {"type": "string"}, "updatedAt": {"type": "string"}
            }
        },
        "models.AuthResponse": {
            "type": "object",
            "properties": {"token": {"type": "string"}, "user": {"$ref": "#/definitions/models.User"}}
        },
        "models.Response": {
            "type": "object",
            "properties": {"success": {"type": "boolean"}, "message": {"type": "string"}, "data": {}}
        },
        "models.ErrorResponse": {
            "type": "object",
            "properties": {"success": {"type": "boolean"}, "message": {"type": "string"}, "error": {"type": "string"}}
        },
        "models.SizeStock": {
            "type": "object",
            "properties": {"size": {"type": "string"}, "stock": {"type": "integer"}}
        },
        "models.Product": {
            "type": "object",
            "properties": {
                "_id": {"type": "string"}, "name": {"type": "string"}, "description": {"type": "string"},
                "price": {"type": "number"}, "stock": {"type": "integer"},
                "sizeStock": {"type": "array", "items": {"$ref": "#/definitions/models.SizeStock"}},
                "category": {"type": "string"}, "sizes": {"type": "array", "items": {"type": "string"}},
                "images": {"type": "array", "items": {"type": "string"}}, "material": {"type": "string"},
                "ecoFriendly": {"type": "boolean"}, "rating": {"type": "number"}, "reviews": {"type": "integer"},
                "isActive": {"type": "boolean"}, "createdAt": {"type": "string"}, "updatedAt": {"type": "string"}
            }
        },
        "models.CartLine": {
            "type": "object",
            "properties": {
                "productId": {"description": "Expanded product or bare id", "$ref": "#/definitions/models.Product"},
                "size": {"type": "string"}, "quantity": {"type": "integer"}
            }
        },
        "models.AddCartItemRequest": {
            "type": "object",
            "required": ["productId", "quantity"],
            "properties": {"productId": {"type": "string"}, "quantity": {"type": "integer", "minimum": 1}, "size": {"type": "string"}}
        },
        "models.ShippingData": {
            "type": "object",
            "properties": {
                "firstName": {"type": "string"}, "lastName": {"type": "string"}, "email": {"type": "string"},
                "phone": {"type": "string"}, "address": {"type": "string"}, "city": {"type": "string"},
                "state": {"type": "string"}, "zipCode": {"type": "string"}
            }
        },
        "models.PaymentInfo": {
            "type": "object",
            "properties": {"shippingData": {"$ref": "#/definitions/models.ShippingData"}, "shippingMethod": {"type": "string"}}
        },
        "models.OrderItem": {
            "type": "object",
            "properties": {
                "productId": {"type": "string"}, "name": {"type": "string"}, "price": {"type": "number"},
                "quantity": {"type": "integer"}, "size": {"type": "string"}
            }
        },
        "models.CreateOrderRequest": {
            "type": "object",
            "required": ["items"],
            "properties": {
                "paymentInfo": {"$ref": "#/definitions/models.PaymentInfo"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/models.OrderItem"}},
                "total": {"type": "number"}
            }
        },
        "models.Order": {
            "type": "object",
            "properties": {
                "_id": {"type": "string"}, "orderNumber": {"type": "string"}, "userId": {"type": "string"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/models.OrderItem"}},
                "total": {"type": "number"}, "status": {"type": "string"},
                "paymentInfo": {"$ref": "#/definitions/models.PaymentInfo"}, "createdAt": {"type": "string"}
            }
        },
        "models.Review": {
            "type": "object",
            "properties": {
                "_id": {"type": "string"}, "author": {"type": "string"}, "title": {"type": "string"},
                "content": {"type": "string"}, "rating": {"type": "integer"}, "status": {"type": "string"},
                "verified": {"type": "boolean"}, "createdAt": {"type": "string"}
            }
        },
        "models.ReviewsResponse": {
            "type": "object",
            "properties": {"data": {"type": "array", "items": {"$ref": "#/definitions/models.Review"}}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Storefront API",
	Description:      "Catalog, cart, order and review API for the storefront apps",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
