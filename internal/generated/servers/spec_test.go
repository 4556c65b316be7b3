package servers_test

import (
	"encoding/json"
	"testing"

	"mailroom/internal/generated/servers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSwagger_LoadsEmbeddedDocument(t *testing.T) {
	doc, err := servers.GetSwagger()
	require.NoError(t, err)

	for _, path := range []string{
		"/api/v1/mailrooms/{mailroomId}/packages",
		"/api/v1/mailrooms/{mailroomId}/packages/{packageId}",
		"/api/v1/mailrooms/{mailroomId}/packages/{packageId}/transitions",
		"/api/v1/mailrooms/{mailroomId}/failures",
	} {
		assert.NotNil(t, doc.Paths.Find(path), path)
	}
}

func TestSwaggerJSON(t *testing.T) {
	raw, err := servers.SwaggerJSON()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "3.0.3", decoded["openapi"])
}
