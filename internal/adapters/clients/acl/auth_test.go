package acl

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthHeaders(t *testing.T) {
	t.Run("with tenant", func(t *testing.T) {
		h := AuthHeaders("admin", "secret", "default_tenant")

		want := "Basic " + base64.StdEncoding.EncodeToString([]byte("admin:secret"))
		assert.Equal(t, want, h.Get("Authorization"))
		assert.Equal(t, "default_tenant", h.Get(HeaderTenant))
	})

	t.Run("without tenant", func(t *testing.T) {
		h := AuthHeaders("u", "p", "")

		assert.Equal(t, "Basic dTpw", h.Get("Authorization"))
		assert.NotContains(t, h, HeaderTenant)
		assert.Len(t, h, 1)
	})

	t.Run("empty password still encodes separator", func(t *testing.T) {
		h := AuthHeaders("u", "", "")
		assert.Equal(t, "Basic "+base64.StdEncoding.EncodeToString([]byte("u:")), h.Get("Authorization"))
	})
}
