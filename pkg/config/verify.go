package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/invopop/jsonschema"
)

//go:embed schema.json
var embeddedSchema string

// VerifyAgainstEmbeddedSchema validates the config against the embedded JSON schema
func VerifyAgainstEmbeddedSchema(cfg *Config) error {
	// parse schema
	var schema map[string]any
	if err := json.Unmarshal([]byte(embeddedSchema), &schema); err != nil {
		return fmt.Errorf("parse embedded schema: %w", err)
	}

	// convert config to JSON for validation
	configData, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	var configMap map[string]any
	if err := json.Unmarshal(configData, &configMap); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}

	// every config key has to be known to the schema, catches stale schema.json
	if unknown := unknownKeys(schema, resolve(schema, schema), configMap, ""); len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("schema is missing keys: %s", strings.Join(unknown, ", "))
	}

	// basic validation - check required fields match
	if err := validateRequiredFields(cfg); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	return nil
}

// resolve follows local $ref of node, returns node itself without a reference
func resolve(root, node map[string]any) map[string]any {
	ref, ok := node["$ref"].(string)
	if !ok || !strings.HasPrefix(ref, "#/$defs/") {
		return node
	}
	defs, _ := root["$defs"].(map[string]any)
	def, _ := defs[strings.TrimPrefix(ref, "#/$defs/")].(map[string]any)
	if def == nil {
		return node
	}
	return def
}

func unknownKeys(root, node map[string]any, values map[string]any, path string) []string {
	props, _ := node["properties"].(map[string]any)
	var res []string
	for k, v := range values {
		prop, ok := props[k].(map[string]any)
		if !ok {
			res = append(res, path+k)
			continue
		}
		if nested, isObj := v.(map[string]any); isObj {
			res = append(res, unknownKeys(root, resolve(root, prop), nested, path+k+".")...)
		}
	}
	return res
}

// validateRequiredFields performs basic validation of required fields
func validateRequiredFields(cfg *Config) error {
	// check server config
	if cfg.Server.Listen == "" {
		return fmt.Errorf("server.listen is required")
	}
	if cfg.Server.Timeout == 0 {
		return fmt.Errorf("server.timeout is required")
	}

	// check aggregation triggers
	if len(cfg.Aggregate.Schedules) == 0 && !cfg.RunOnStart() {
		return fmt.Errorf("aggregate.schedules is required when run_on_start is disabled")
	}

	// check queue config if enabled
	if cfg.Queue.Enabled {
		if cfg.Queue.Exchange == "" {
			return fmt.Errorf("queue.exchange is required when queue is enabled")
		}
		if cfg.Queue.FeedQueue == "" || cfg.Queue.KeywordsQueue == "" {
			return fmt.Errorf("queue.feed_queue and queue.keywords_queue are required when queue is enabled")
		}
	}

	// check telegram config if token set
	if cfg.Telegram.Token != "" && cfg.Telegram.ChatID == 0 {
		return fmt.Errorf("telegram.chat_id is required when telegram.token is set")
	}

	return nil
}

// GenerateSchema generates a JSON schema for the Config struct
func GenerateSchema() (*jsonschema.Schema, error) {
	return jsonschema.Reflect(&Config{}), nil
}
