// Package servers holds the HTTP contract of the mailroom API: the embedded
// OpenAPI document, the transport types and the handler interface together
// with the parameter binding that feeds it.
package servers

import (
	_ "embed"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var openAPIDocument []byte

var (
	swaggerOnce sync.Once
	swaggerDoc  *openapi3.T
	swaggerErr  error
)

// GetSwagger parses and validates the embedded OpenAPI document.
// The returned document is shared; callers must not modify it.
func GetSwagger() (*openapi3.T, error) {
	swaggerOnce.Do(func() {
		loader := openapi3.NewLoader()
		doc, err := loader.LoadFromData(openAPIDocument)
		if err != nil {
			swaggerErr = err
			return
		}
		if err = doc.Validate(loader.Context); err != nil {
			swaggerErr = err
			return
		}
		swaggerDoc = doc
	})
	return swaggerDoc, swaggerErr
}

// SwaggerJSON returns the embedded document rendered as JSON.
func SwaggerJSON() ([]byte, error) {
	doc, err := GetSwagger()
	if err != nil {
		return nil, err
	}
	return doc.MarshalJSON()
}
