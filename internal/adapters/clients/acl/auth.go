package acl

import (
	"encoding/base64"
	"net/http"
)

// HeaderTenant selects the tenant a request is scoped to.
const HeaderTenant = "Tenant"

// AuthHeaders returns the headers that authenticate a manager request:
// HTTP basic credentials, plus the tenant when one is given.
func AuthHeaders(username, password, tenant string) http.Header {
	token := base64.StdEncoding.EncodeToString([]byte(username + ":" + password))

	headers := http.Header{}
	headers.Set("Authorization", "Basic "+token)

	if tenant != "" {
		headers.Set(HeaderTenant, tenant)
	}

	return headers
}
