package acl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/jsamuelsen/cloudify-context/internal/adapters/clients"
	"github.com/jsamuelsen/cloudify-context/internal/domain"
)

// maxRecordBytes caps JSON record bodies. Deployment plans can be large but
// never approach this.
const maxRecordBytes = 64 << 20

// transport issues GETs through a clients.Client and turns every failure
// into a domain error, so callers only ever see domain types.
type transport struct {
	client *clients.Client
	peer   string
}

// get fetches path relative to the REST API root. On success the caller
// owns the returned body.
func (t transport) get(ctx context.Context, path, operation string) (io.ReadCloser, error) {
	resp, err := t.client.Get(ctx, path)
	return t.body(resp, err, operation)
}

// getURL fetches an absolute URL, such as a file server resource.
func (t transport) getURL(ctx context.Context, rawURL, operation string) (io.ReadCloser, error) {
	resp, err := t.client.GetURL(ctx, rawURL)
	return t.body(resp, err, operation)
}

func (t transport) body(resp *http.Response, err error, operation string) (io.ReadCloser, error) {
	if err != nil {
		return nil, MapHTTPError(nil, err, t.peer, operation)
	}

	if resp.StatusCode/100 != 2 {
		defer func() { _ = resp.Body.Close() }()
		return nil, MapHTTPError(resp, nil, t.peer, operation)
	}

	return resp.Body, nil
}

// DecodeResponse decodes a JSON body into T and closes it. Bodies larger
// than maxRecordBytes are rejected.
func DecodeResponse[T any](body io.ReadCloser) (*T, error) {
	if body == nil {
		return nil, errors.New("response body is nil")
	}
	defer func() { _ = body.Close() }()

	var result T
	dec := json.NewDecoder(io.LimitReader(body, maxRecordBytes))
	if err := dec.Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return &result, nil
}

// requireField returns a domain.ValidationError when a record arrives
// without an identifying field.
func requireField(value, field string) error {
	if value == "" {
		return domain.NewValidationError(field, "missing from manager response")
	}

	return nil
}

// Translator converts an external DTO into a domain value.
type Translator[External any, Domain any] func(ext *External) (Domain, error)

// TranslateSlice applies translate to every item, stopping at the first
// error. A nil slice stays nil so absent lists are omitted from output.
func TranslateSlice[E any, D any](items []E, translate Translator[E, D]) ([]D, error) {
	if items == nil {
		return nil, nil
	}

	out := make([]D, len(items))
	for i := range items {
		v, err := translate(&items[i])
		if err != nil {
			return nil, fmt.Errorf("translating item %d: %w", i, err)
		}
		out[i] = v
	}

	return out, nil
}
