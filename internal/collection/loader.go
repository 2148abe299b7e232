// Package collection reads a collection file and flattens it into the
// descriptors a batch runs.
//
// The layout follows Postman's v2.1 collection format: folders and requests
// nest under "item", auth may be set on the collection, on a folder or on a
// request, and "variable" supplies defaults for {{placeholders}}. The same
// structure may be written in YAML. JSON files may contain comments and
// trailing commas.
package collection

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/wesleyorama2/volley/internal/auth"
	"github.com/wesleyorama2/volley/internal/batch"
	"github.com/wesleyorama2/volley/internal/config"
)

// Format is the syntax a collection is written in.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath guesses the format from the file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// Collection is a parsed, flattened collection.
type Collection struct {
	Name string
	// Auth applies to every request that declares none, nil if unset.
	Auth auth.Descriptor
	// Variables are the collection defaults, before substitution.
	Variables map[string]string
	Requests  []batch.Descriptor
}

// Loader parses collections against a fixed environment snapshot.
type Loader struct {
	env map[string]string
	log logrus.FieldLogger
}

// NewLoader creates a loader. env values override collection variables.
func NewLoader(env map[string]string, log logrus.FieldLogger) *Loader {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Loader{env: env, log: log}
}

// Load reads and parses the collection at path.
func (l *Loader) Load(path string) (*Collection, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("collection file not found: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading collection file: %w", err)
	}

	c, err := l.Parse(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("error parsing collection %s: %w", path, err)
	}
	return c, nil
}

// Parse substitutes placeholders into raw, validates the result and
// flattens it. Folders are walked depth first in document order.
func (l *Loader) Parse(raw []byte, format Format) (*Collection, error) {
	doc, err := normalize(raw, format)
	if err != nil {
		return nil, err
	}
	vars := variables(doc)

	env := config.MergeEnvironments(vars, l.env)
	substituted := config.ProcessEnvironment(string(raw), env)

	doc, err = normalize([]byte(substituted), format)
	if err != nil {
		return nil, fmt.Errorf("after placeholder substitution: %w", err)
	}

	if err := Validate(doc); err != nil {
		return nil, fmt.Errorf("invalid collection: %w", err)
	}

	for _, name := range config.Unresolved(string(doc)) {
		l.log.WithField("placeholder", name).Warn("unresolved placeholder left in collection")
	}

	root := gjson.ParseBytes(doc)

	c := &Collection{
		Name:      root.Get("info.name").String(),
		Variables: vars,
	}
	if a := root.Get("auth"); a.Exists() {
		c.Auth = parseAuth(a)
	}

	c.Requests = l.flatten(root.Get("item"), nil, nil, nil)

	l.log.WithFields(logrus.Fields{
		"collection": c.Name,
		"requests":   len(c.Requests),
	}).Debug("collection parsed")

	return c, nil
}

func (l *Loader) flatten(items gjson.Result, folder []string, inherited auth.Descriptor, out []batch.Descriptor) []batch.Descriptor {
	items.ForEach(func(_, item gjson.Result) bool {
		name := item.Get("name").String()

		descriptor := inherited
		if a := item.Get("auth"); a.Exists() {
			descriptor = parseAuth(a)
		}

		if children := item.Get("item"); children.Exists() {
			path := append(append([]string(nil), folder...), name)
			out = l.flatten(children, path, descriptor, out)
			return true
		}

		out = append(out, l.parseRequest(name, strings.Join(folder, "/"), item.Get("request"), descriptor))
		return true
	})
	return out
}

func (l *Loader) parseRequest(name, folder string, req gjson.Result, inherited auth.Descriptor) batch.Descriptor {
	d := batch.Descriptor{
		Name:   name,
		Folder: folder,
		Method: "GET",
		Auth:   inherited,
	}

	// A bare string is shorthand for a GET to that URL.
	if req.Type == gjson.String {
		d.URL = req.String()
		return l.named(d)
	}

	if m := strings.TrimSpace(req.Get("method").String()); m != "" {
		d.Method = strings.ToUpper(m)
	}

	if u := req.Get("url"); u.IsObject() {
		d.URL = u.Get("raw").String()
	} else {
		d.URL = u.String()
	}

	req.Get("header").ForEach(func(_, h gjson.Result) bool {
		if h.Get("disabled").Bool() {
			return true
		}
		d.Headers = append(d.Headers, batch.Header{
			Key:   h.Get("key").String(),
			Value: h.Get("value").String(),
		})
		return true
	})

	if body := req.Get("body"); body.Exists() {
		d.Body = l.parseBody(name, body)
	}

	if a := req.Get("auth"); a.Exists() {
		d.Auth = parseAuth(a)
	}

	return l.named(d)
}

func (l *Loader) named(d batch.Descriptor) batch.Descriptor {
	if d.Name == "" {
		d.Name = d.Method + " " + d.URL
	}
	return d
}

func (l *Loader) parseBody(name string, body gjson.Result) *string {
	mode := body.Get("mode").String()
	switch mode {
	case "raw":
		raw := body.Get("raw")
		if !raw.Exists() {
			return nil
		}
		s := raw.String()
		return &s
	case "urlencoded":
		s := encodeForm(body.Get("urlencoded"))
		return &s
	case "", "none":
		return nil
	}

	l.log.WithFields(logrus.Fields{
		"request": name,
		"mode":    mode,
	}).Warn("unsupported body mode, sending request without body")
	return nil
}

// parseAuth reads {"type": t, t: params} where params is either Postman's
// [{"key": k, "value": v}] list or a plain object.
func parseAuth(a gjson.Result) auth.Descriptor {
	typ := a.Get("type").String()
	params := field(a, typ)

	switch strings.ToLower(typ) {
	case string(auth.KindAPIKey):
		return auth.APIKey{
			Key:   param(params, "key"),
			Value: param(params, "value"),
			In:    param(params, "in"),
		}
	case string(auth.KindBearer):
		return auth.Bearer{Token: param(params, "token")}
	case string(auth.KindBasic):
		return auth.Basic{
			Username: param(params, "username"),
			Password: param(params, "password"),
		}
	case string(auth.KindNone):
		return auth.None{}
	}
	return auth.Unknown{Type: typ}
}

// field looks up a key without interpreting it as a gjson path.
func field(obj gjson.Result, name string) gjson.Result {
	var found gjson.Result
	obj.ForEach(func(k, v gjson.Result) bool {
		if k.String() == name {
			found = v
			return false
		}
		return true
	})
	return found
}

func param(params gjson.Result, name string) string {
	if params.IsArray() {
		var value string
		params.ForEach(func(_, p gjson.Result) bool {
			if p.Get("key").String() == name {
				value = p.Get("value").String()
				return false
			}
			return true
		})
		return value
	}
	return field(params, name).String()
}

// variables reads the collection's "variable" list.
func variables(doc []byte) map[string]string {
	vars := make(map[string]string)
	gjson.GetBytes(doc, "variable").ForEach(func(_, v gjson.Result) bool {
		if key := v.Get("key").String(); key != "" && !v.Get("disabled").Bool() {
			vars[key] = v.Get("value").String()
		}
		return true
	})
	return vars
}

// normalize turns raw YAML or commented JSON into strict JSON.
func normalize(raw []byte, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		var doc interface{}
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}
		data, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("converting YAML to JSON: %w", err)
		}
		return data, nil
	default:
		data := jsonc.ToJSON(raw)
		if !gjson.ValidBytes(data) {
			return nil, fmt.Errorf("invalid JSON")
		}
		return data, nil
	}
}
