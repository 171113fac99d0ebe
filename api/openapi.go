package api

import _ "embed"

// OpenAPI is the API description served to the Swagger UI.
//
//go:embed openapi.json
var OpenAPI []byte
