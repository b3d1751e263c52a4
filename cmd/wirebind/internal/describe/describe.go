// Package describe implements the `wirebind describe` command.
package describe

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	js "github.com/swaggest/jsonschema-go"

	"github.com/wirebind/wirebind"
	"github.com/wirebind/wirebind/cmd/wirebind/internal/metafile"
)

type Cmd struct {
	File string `arg:"" help:"Metadata file (JSON or YAML)."`
	Out  string `help:"Write output to a file instead of stdout." short:"o"`
}

type endpointDesc struct {
	Service   string       `json:"service"`
	Endpoint  string       `json:"endpoint"`
	Handshake *handshake   `json:"handshake,omitempty"`
	Request   []reqDesc    `json:"request"`
	Response  *payloadDesc `json:"response,omitempty"`
}

type handshake struct {
	ParseData bool        `json:"parse_data"`
	Schema    payloadDesc `json:"schema"`
}

type reqDesc struct {
	Methods []string    `json:"methods"`
	Schema  payloadDesc `json:"schema"`
}

type payloadDesc struct {
	Path       string            `json:"path,omitempty"`
	PathParams []string          `json:"path_params,omitempty"`
	Body       *js.Schema        `json:"body,omitempty"`
	Query      []string          `json:"query,omitempty"`
	Header     map[string]string `json:"header,omitempty"`
	Cookie     map[string]string `json:"cookie,omitempty"`
}

func (c *Cmd) Run() error {
	md, err := metafile.Load(c.File)
	if err != nil {
		return err
	}

	schemas, _, err := wirebind.ComputeEndpoints(md)
	if err != nil {
		return err
	}

	out := make([]endpointDesc, 0, len(schemas))
	for _, es := range schemas {
		d := endpointDesc{Service: es.ServiceName, Endpoint: es.Name}

		if es.Handshake != nil {
			hs, err := describeSchema(es.Handshake.Schema)
			if err != nil {
				return fmt.Errorf("%s.%s handshake: %w", es.ServiceName, es.Name, err)
			}
			d.Handshake = &handshake{ParseData: es.Handshake.ParseData, Schema: hs}
		}
		for _, r := range es.Request {
			methods := make([]string, len(r.Methods))
			for i, m := range r.Methods {
				methods[i] = m.String()
			}
			pd, err := describeSchema(r.Schema)
			if err != nil {
				return fmt.Errorf("%s.%s request: %w", es.ServiceName, es.Name, err)
			}
			d.Request = append(d.Request, reqDesc{Methods: methods, Schema: pd})
		}
		resp, err := describeSchema(es.Response)
		if err != nil {
			return fmt.Errorf("%s.%s response: %w", es.ServiceName, es.Name, err)
		}
		if !resp.empty() {
			d.Response = &resp
		}

		out = append(out, d)
	}

	buf, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	buf = append(buf, '\n')

	if c.Out != "" {
		return os.WriteFile(c.Out, buf, 0o644)
	}
	_, err = os.Stdout.Write(buf)
	return err
}

func describeSchema(s wirebind.Schema) (payloadDesc, error) {
	var d payloadDesc

	if s.Path != nil {
		d.Path = s.Path.String()
		for _, p := range s.Path.Params() {
			d.PathParams = append(d.PathParams, p.Name)
		}
	}
	if s.Body != nil {
		sch, err := s.Body.Schema.JSONSchema()
		if err != nil {
			return payloadDesc{}, err
		}
		d.Body = &sch
	}
	if s.Query != nil {
		d.Query = s.Query.Schema.FieldNames()
	}
	if s.Header != nil {
		d.Header = s.Header.Names()
	}
	if s.Cookie != nil {
		d.Cookie = s.Cookie.Names()
	}
	return d, nil
}

func (d payloadDesc) empty() bool {
	return d.Path == "" && d.Body == nil && d.Query == nil && d.Header == nil && d.Cookie == nil
}
