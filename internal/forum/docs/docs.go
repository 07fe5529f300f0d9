// Package docs は掲示板APIのOpenAPI（Swagger 2.0）ドキュメントを保持する。
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "bearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header",
            "description": "Bearer <token>"
        }
    },
    "security": [{"bearerAuth": []}],
    "paths": {
        "/auth/register": {
            "post": {
                "tags": ["Auth"],
                "summary": "Registrar usuario",
                "security": [],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/Credenciales"}}],
                "responses": {
                    "200": {"description": "Usuario registrado", "schema": {"$ref": "#/definitions/Auth"}},
                    "400": {"description": "Datos inválidos o usuario existente", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Iniciar sesión",
                "security": [],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/Credenciales"}}],
                "responses": {
                    "200": {"description": "Token emitido", "schema": {"$ref": "#/definitions/Auth"}},
                    "401": {"description": "Credenciales inválidas", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/auth/topicos/buscar": {
            "get": {
                "tags": ["Auth"],
                "summary": "Buscar tópico por título y autor",
                "parameters": [
                    {"in": "query", "name": "titulo", "type": "string", "required": true},
                    {"in": "query", "name": "autor", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Tópico", "schema": {"$ref": "#/definitions/Topico"}},
                    "404": {"description": "No encontrado", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/topicos": {
            "get": {
                "tags": ["Tópicos"],
                "summary": "Listar tópicos",
                "parameters": [
                    {"in": "query", "name": "curso", "type": "string"},
                    {"in": "query", "name": "anio", "type": "integer"},
                    {"$ref": "#/parameters/page"},
                    {"$ref": "#/parameters/size"},
                    {"$ref": "#/parameters/sort"}
                ],
                "responses": {"200": {"description": "Página de tópicos", "schema": {"$ref": "#/definitions/Pagina"}}}
            },
            "post": {
                "tags": ["Tópicos"],
                "summary": "Crear tópico",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/RegistroTopico"}}],
                "responses": {
                    "200": {"description": "Tópico creado", "schema": {"$ref": "#/definitions/Topico"}},
                    "400": {"description": "Datos inválidos o tópico duplicado", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/topicos/{id}": {
            "parameters": [{"in": "path", "name": "id", "type": "integer", "required": true}],
            "get": {
                "tags": ["Tópicos"],
                "summary": "Obtener tópico",
                "responses": {
                    "200": {"description": "Tópico", "schema": {"$ref": "#/definitions/Topico"}},
                    "400": {"description": "ID inválido", "schema": {"$ref": "#/definitions/Error"}},
                    "404": {"description": "No encontrado", "schema": {"$ref": "#/definitions/Error"}}
                }
            },
            "put": {
                "tags": ["Tópicos"],
                "summary": "Actualizar tópico",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/RegistroTopico"}}],
                "responses": {
                    "200": {"description": "Tópico actualizado", "schema": {"$ref": "#/definitions/Topico"}},
                    "400": {"description": "Datos inválidos o tópico duplicado", "schema": {"$ref": "#/definitions/Error"}},
                    "404": {"description": "No encontrado", "schema": {"$ref": "#/definitions/Error"}}
                }
            },
            "delete": {
                "tags": ["Tópicos"],
                "summary": "Eliminar tópico",
                "responses": {
                    "200": {"description": "Tópico eliminado", "schema": {"$ref": "#/definitions/Mensaje"}},
                    "404": {"description": "No encontrado", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/topicos/search": {
            "get": {
                "tags": ["Tópicos"],
                "summary": "Buscar por texto en título o mensaje",
                "parameters": [
                    {"in": "query", "name": "q", "type": "string", "required": true},
                    {"in": "query", "name": "curso", "type": "string"},
                    {"$ref": "#/parameters/page"},
                    {"$ref": "#/parameters/size"},
                    {"$ref": "#/parameters/sort"}
                ],
                "responses": {"200": {"description": "Página de tópicos", "schema": {"$ref": "#/definitions/Pagina"}}}
            }
        },
        "/topicos/advanced-search": {
            "get": {
                "tags": ["Tópicos"],
                "summary": "Búsqueda avanzada",
                "parameters": [
                    {"in": "query", "name": "titulo", "type": "string"},
                    {"in": "query", "name": "mensaje", "type": "string"},
                    {"in": "query", "name": "autor", "type": "string"},
                    {"in": "query", "name": "curso", "type": "string"},
                    {"in": "query", "name": "estado", "type": "string"},
                    {"in": "query", "name": "desde", "type": "string", "format": "date"},
                    {"in": "query", "name": "hasta", "type": "string", "format": "date"},
                    {"$ref": "#/parameters/page"},
                    {"$ref": "#/parameters/size"},
                    {"$ref": "#/parameters/sort"}
                ],
                "responses": {
                    "200": {"description": "Página de tópicos", "schema": {"$ref": "#/definitions/Pagina"}},
                    "400": {"description": "Fechas inválidas", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/topicos/curso/{curso}": {
            "get": {
                "tags": ["Tópicos"],
                "summary": "Listar por curso",
                "parameters": [
                    {"in": "path", "name": "curso", "type": "string", "required": true},
                    {"$ref": "#/parameters/page"},
                    {"$ref": "#/parameters/size"},
                    {"$ref": "#/parameters/sort"}
                ],
                "responses": {"200": {"description": "Página de tópicos", "schema": {"$ref": "#/definitions/Pagina"}}}
            }
        },
        "/topicos/autor/{autor}": {
            "get": {
                "tags": ["Tópicos"],
                "summary": "Listar por autor",
                "parameters": [
                    {"in": "path", "name": "autor", "type": "string", "required": true},
                    {"$ref": "#/parameters/page"},
                    {"$ref": "#/parameters/size"},
                    {"$ref": "#/parameters/sort"}
                ],
                "responses": {"200": {"description": "Página de tópicos", "schema": {"$ref": "#/definitions/Pagina"}}}
            }
        },
        "/health": {
            "get": {
                "tags": ["Sistema"],
                "summary": "Estado del servicio",
                "security": [],
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "parameters": {
        "page": {"in": "query", "name": "page", "type": "integer", "minimum": 0, "default": 0},
        "size": {"in": "query", "name": "size", "type": "integer", "minimum": 1, "maximum": 100, "default": 10},
        "sort": {"in": "query", "name": "sort", "type": "string", "default": "fechaCreacion,asc"}
    },
    "definitions": {
        "Credenciales": {
            "type": "object",
            "required": ["username", "password"],
            "properties": {
                "username": {"type": "string", "minLength": 3, "maxLength": 50},
                "password": {"type": "string", "minLength": 6, "maxLength": 72}
            }
        },
        "Auth": {
            "type": "object",
            "properties": {"token": {"type": "string"}, "username": {"type": "string"}}
        },
        "RegistroTopico": {
            "type": "object",
            "required": ["titulo", "mensaje", "autor", "curso"],
            "properties": {
                "titulo": {"type": "string", "minLength": 5, "maxLength": 100},
                "mensaje": {"type": "string", "minLength": 10, "maxLength": 2000},
                "autor": {"type": "string", "minLength": 3, "maxLength": 50},
                "curso": {"type": "string", "minLength": 2, "maxLength": 50}
            }
        },
        "Topico": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "titulo": {"type": "string"},
                "mensaje": {"type": "string"},
                "fechaCreacion": {"type": "string", "example": "2024-01-15T10:30:00"},
                "estado": {"type": "string", "example": "ABIERTO"},
                "autor": {"type": "string"},
                "curso": {"type": "string"}
            }
        },
        "Pagina": {
            "type": "object",
            "properties": {
                "content": {"type": "array", "items": {"$ref": "#/definitions/Topico"}},
                "totalElements": {"type": "integer"},
                "totalPages": {"type": "integer"},
                "size": {"type": "integer"},
                "number": {"type": "integer"},
                "numberOfElements": {"type": "integer"},
                "first": {"type": "boolean"},
                "last": {"type": "boolean"},
                "empty": {"type": "boolean"}
            }
        },
        "Mensaje": {
            "type": "object",
            "properties": {"mensaje": {"type": "string"}}
        },
        "Error": {
            "type": "object",
            "properties": {
                "codigo": {"type": "integer"},
                "mensaje": {"type": "string"},
                "descripcion": {"type": "string"},
                "timestamp": {"type": "string", "example": "2024-01-15 10:30:00"},
                "path": {"type": "string"},
                "errores": {"type": "array", "items": {"type": "string"}}
            }
        }
    }
}`

// SwaggerInfo はAPIドキュメントのメタデータ。
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Foro API",
	Description:      "API REST del foro: autenticación con JWT y gestión de tópicos.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
