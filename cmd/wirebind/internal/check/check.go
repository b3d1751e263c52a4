// Package check implements the `wirebind check` command.
package check

import (
	"fmt"

	"github.com/wirebind/wirebind"
	"github.com/wirebind/wirebind/cmd/wirebind/internal/metafile"
)

type Cmd struct {
	File string `arg:"" help:"Metadata file (JSON or YAML)."`
}

func (c *Cmd) Run() error {
	md, err := metafile.Load(c.File)
	if err != nil {
		return err
	}

	schemas, reg, err := wirebind.ComputeEndpoints(md)
	if err != nil {
		return err
	}

	for _, es := range schemas {
		kind := "rpc"
		if es.Handshake != nil {
			kind = "stream"
		}
		fmt.Printf("✓ %s.%s (%s, %d request group(s))\n", es.ServiceName, es.Name, kind, len(es.Request))
	}
	fmt.Printf("✓ %d endpoint(s), %d registry value(s)\n", len(schemas), reg.Len())
	return nil
}
