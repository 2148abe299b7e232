// Package auth resolves the authentication scheme that applies to a request
// and turns it into HTTP headers.
//
// A Descriptor is one of APIKey, Bearer, Basic, None or Unknown. A request-level
// descriptor always wins over the collection-level one; the two are never
// merged.
package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
)

// Kind names an authentication scheme as it appears in a collection file.
type Kind string

const (
	KindAPIKey Kind = "apikey"
	KindBearer Kind = "bearer"
	KindBasic  Kind = "basic"
	KindNone   Kind = "noauth"
)

// LocationHeader is the only API key location that can be applied.
const LocationHeader = "header"

// ErrMissingToken is returned when a bearer descriptor carries no token.
var ErrMissingToken = errors.New("bearer token is required")

// Descriptor is implemented by APIKey, Bearer, Basic, None and Unknown only.
type Descriptor interface {
	Kind() Kind
	sealed()
}

// APIKey sends Value under the header named Key when In is "header".
type APIKey struct {
	Key   string
	Value string
	In    string
}

// Bearer sends "Authorization: Bearer <Token>".
type Bearer struct {
	Token string
}

// Basic sends "Authorization: Basic base64(Username:Password)".
type Basic struct {
	Username string
	Password string
}

// None explicitly disables authentication. A request-level None still
// replaces the collection's descriptor.
type None struct{}

// Unknown is a scheme the resolver recognizes but does not apply.
type Unknown struct {
	Type string
}

func (APIKey) Kind() Kind    { return KindAPIKey }
func (Bearer) Kind() Kind    { return KindBearer }
func (Basic) Kind() Kind     { return KindBasic }
func (None) Kind() Kind      { return KindNone }
func (u Unknown) Kind() Kind { return Kind(u.Type) }

func (APIKey) sealed()  {}
func (Bearer) sealed()  {}
func (Basic) sealed()   {}
func (None) sealed()    {}
func (Unknown) sealed() {}

// Diagnostic describes a configuration problem that did not stop the request.
type Diagnostic struct {
	Kind    Kind
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s auth: %s", d.Kind, d.Message)
}

// Effective returns the descriptor that applies: request when set, otherwise global.
func Effective(request, global Descriptor) Descriptor {
	if request != nil {
		return request
	}
	return global
}

// Resolve returns a copy of headers with the effective descriptor applied.
//
// Misconfigured API keys and unknown schemes leave the headers unchanged and
// are reported as diagnostics. The only error is ErrMissingToken.
func Resolve(headers map[string]string, request, global Descriptor) (map[string]string, []Diagnostic, error) {
	out := make(map[string]string, len(headers)+1)
	for k, v := range headers {
		out[k] = v
	}

	effective := Effective(request, global)
	if effective == nil {
		return out, nil, nil
	}

	switch d := effective.(type) {
	case APIKey:
		if diag, ok := d.check(); !ok {
			return out, []Diagnostic{diag}, nil
		}
		out[d.Key] = d.Value
	case Bearer:
		if d.Token == "" {
			return out, nil, ErrMissingToken
		}
		out["Authorization"] = "Bearer " + d.Token
	case Basic:
		out["Authorization"] = "Basic " + basicCredentials(d.Username, d.Password)
	case None:
	case Unknown:
		return out, []Diagnostic{{Kind: d.Kind(), Message: fmt.Sprintf("unsupported auth type %q, sending request without credentials", d.Type)}}, nil
	default:
		return out, []Diagnostic{{Kind: d.Kind(), Message: fmt.Sprintf("unhandled descriptor %T", d)}}, nil
	}

	return out, nil, nil
}

func (k APIKey) check() (Diagnostic, bool) {
	switch {
	case k.Key == "":
		return Diagnostic{Kind: KindAPIKey, Message: "key name is missing"}, false
	case k.Value == "":
		return Diagnostic{Kind: KindAPIKey, Message: fmt.Sprintf("value for %q is missing", k.Key)}, false
	case k.In == "":
		return Diagnostic{Kind: KindAPIKey, Message: "location is missing"}, false
	case k.In != LocationHeader:
		return Diagnostic{Kind: KindAPIKey, Message: fmt.Sprintf("location %q is not supported, only %q", k.In, LocationHeader)}, false
	}
	return Diagnostic{}, true
}

func basicCredentials(username, password string) string {
	return base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
}
