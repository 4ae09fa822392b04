package main

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/jsamuelsen11/user-action-service/internal/adapters/http/dto"
)

// printEnvelope writes env in the selected format and returns
// errActionFailed when the envelope reports a failure.
func printEnvelope[T any](c *cli, env dto.Envelope[T]) error {
	var out []byte
	var err error
	switch c.output {
	case outputYAML:
		out, err = toYAML(env)
	default:
		out, err = json.MarshalIndent(env, "", "  ")
		out = append(out, '\n')
	}
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	if _, err := c.stdout.Write(out); err != nil {
		return fmt.Errorf("writing result: %w", err)
	}

	if !env.Success {
		return errActionFailed
	}
	return nil
}

// toYAML renders v with the same keys and field order as its JSON form.
// The JSON document is parsed as YAML and every node is reset to block
// style before encoding.
func toYAML(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	resetStyle(&doc)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func resetStyle(n *yaml.Node) {
	n.Style = 0
	for _, child := range n.Content {
		resetStyle(child)
	}
}
