package protocol

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFS embed.FS

var (
	schemasOnce sync.Once
	schemasErr  error
	schemas     map[string]*jsonschema.Schema
)

func loadSchemas() {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft7
	names := map[string]string{
		TypeHello: "hello.schema.json",
		TypeAct:   "act.schema.json",
	}
	for _, file := range names {
		raw, err := schemaFS.ReadFile("schemas/" + file)
		if err != nil {
			schemasErr = err
			return
		}
		if err := c.AddResource(file, bytes.NewReader(raw)); err != nil {
			schemasErr = fmt.Errorf("%s: %w", file, err)
			return
		}
	}
	schemas = make(map[string]*jsonschema.Schema, len(names))
	for typ, file := range names {
		s, err := c.Compile(file)
		if err != nil {
			schemasErr = fmt.Errorf("%s: %w", file, err)
			return
		}
		schemas[typ] = s
	}
}

// Validate checks a raw client message against the schema for msgType.
// Types without a schema pass.
func Validate(msgType string, raw []byte) error {
	schemasOnce.Do(loadSchemas)
	if schemasErr != nil {
		return schemasErr
	}
	s, ok := schemas[msgType]
	if !ok {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}
	return s.Validate(v)
}

// DecodeAct validates and decodes an ACT message.
func DecodeAct(raw []byte) (ActMsg, error) {
	var act ActMsg
	if err := Validate(TypeAct, raw); err != nil {
		return act, err
	}
	if err := json.Unmarshal(raw, &act); err != nil {
		return act, err
	}
	if act.ProtocolVersion != Version {
		return act, fmt.Errorf("unsupported protocol_version %q", act.ProtocolVersion)
	}
	return act, nil
}
