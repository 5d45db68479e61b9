package utils

import (
	_ "embed"
	"fmt"
	"log/slog"

	"github.com/q-controller/facerecd/src/pkg/recognition"
	"gopkg.in/yaml.v3"
)

const (
	Tag        = "Recognition"
	PathPrefix = "/"
)

//go:embed docs/openapi.yaml
var openAPISpecs string

func GenerateOpenAPISpecs() (string, error) {
	var spec map[string]interface{}
	if err := yaml.Unmarshal([]byte(openAPISpecs), &spec); err != nil {
		return "", fmt.Errorf("failed to parse OpenAPI spec: %w", err)
	}

	tags, _ := spec["tags"].([]interface{})
	found := false
	for _, t := range tags {
		if entry, ok := t.(map[string]interface{}); ok && entry["name"] == Tag {
			found = true
			break
		}
	}
	if !found {
		spec["tags"] = append(tags, map[string]interface{}{"name": Tag})
	}

	paths, ok := spec["paths"].(map[string]interface{})
	if !ok {
		paths = map[string]interface{}{}
		spec["paths"] = paths
	}

	var recognitionSpec map[string]interface{}
	if unmarshalErr := yaml.Unmarshal([]byte(recognition.GetOpenAPISpec(PathPrefix, Tag)), &recognitionSpec); unmarshalErr == nil {
		for k, v := range recognitionSpec {
			paths[k] = v
		}
	} else {
		slog.Warn("Failed to unmarshal recognition OpenAPI spec", "error", unmarshalErr)
	}

	bytes, bytesErr := yaml.Marshal(spec)
	if bytesErr != nil {
		return "", fmt.Errorf("failed to marshal OpenAPI spec: %w", bytesErr)
	}
	return string(bytes), nil
}
