//go:build generate

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/invopop/jsonschema"
	iyaml "github.com/invopop/yaml"
	"github.com/mcuadros/go-defaults"
	"github.com/theopenlane/utils/envparse"

	"github.com/theopenlane/echoaudit/config"
)

const (
	// envPrefix matches the prefix config.Load reads overrides from
	envPrefix = "ECHOAUDIT"
	// koanfTag names config keys
	koanfTag = "koanf"
	// sensitiveTag marks secrets that are never written with a value
	sensitiveTag = "sensitive"

	schemaPath = "./jsonschema/echoaudit.config.json"
	yamlPath   = "./config/config.example.yaml"
	envPath    = "./config/.env.example"

	filePerm = 0600
)

var durationType = reflect.TypeOf(time.Duration(0))

// main writes the config schema, example YAML and example env file from config.Config defaults
func main() {
	cfg := &config.Config{}
	defaults.SetDefaults(cfg)

	// an empty list renders as [] rather than null
	if cfg.Kafka.Brokers == nil {
		cfg.Kafka.Brokers = []string{}
	}

	steps := []struct {
		path   string
		render func(*config.Config) ([]byte, error)
	}{
		{schemaPath, renderSchema},
		{yamlPath, renderYAML},
		{envPath, renderEnv},
	}

	for _, step := range steps {
		data, err := step.render(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "rendering %s: %v\n", step.path, err)
			os.Exit(1)
		}

		if err := os.WriteFile(step.path, data, filePerm); err != nil {
			fmt.Fprintf(os.Stderr, "writing %s: %v\n", step.path, err)
			os.Exit(1)
		}

		fmt.Printf("wrote %s\n", step.path)
	}
}

// renderSchema reflects the config into a JSON schema described by the field comments
func renderSchema(cfg *config.Config) ([]byte, error) {
	r := &jsonschema.Reflector{
		ExpandedStruct: true,
		FieldNameTag:   koanfTag,
	}

	if err := r.AddGoComments("github.com/theopenlane/echoaudit/", "./config"); err != nil {
		return nil, fmt.Errorf("reading config comments: %w", err)
	}

	return json.MarshalIndent(r.Reflect(cfg), "", "  ")
}

// renderYAML writes every section with its defaults; sensitive values are left empty
func renderYAML(cfg *config.Config) ([]byte, error) {
	return iyaml.Marshal(sectionMap(reflect.ValueOf(cfg).Elem()))
}

// sectionMap maps koanf keys to values, recursing into sections
func sectionMap(v reflect.Value) map[string]any {
	out := map[string]any{}
	t := v.Type()

	for i := range t.NumField() {
		field := t.Field(i)

		key := field.Tag.Get(koanfTag)
		if key == "" || key == "-" {
			continue
		}

		value := v.Field(i)

		switch {
		case field.Tag.Get(sensitiveTag) == "true":
			out[key] = ""
		case field.Type == durationType:
			out[key] = time.Duration(value.Int()).String()
		case value.Kind() == reflect.Struct:
			out[key] = sectionMap(value)
		default:
			out[key] = value.Interface()
		}
	}

	return out
}

// renderEnv lists one ECHOAUDIT_ variable per setting, grouped by section
func renderEnv(cfg *config.Config) ([]byte, error) {
	parser := envparse.Config{FieldTagName: koanfTag, Skipper: "-"}

	vars, err := parser.GatherEnvInfo(envPrefix, cfg)
	if err != nil {
		return nil, fmt.Errorf("gathering env vars: %w", err)
	}

	var (
		b       strings.Builder
		section string
	)

	for _, v := range vars {
		if s := envSection(v.Key); s != section {
			if section != "" {
				b.WriteString("\n")
			}

			fmt.Fprintf(&b, "# %s\n", strings.ToLower(s))
			section = s
		}

		value := v.Tags.Get("default")

		switch {
		case v.Tags.Get(sensitiveTag) == "true":
			value = ""
		case v.Type == durationType && value != "":
			if d, err := time.ParseDuration(value); err == nil {
				value = d.String()
			}
		}

		fmt.Fprintf(&b, "%s=%q\n", v.Key, value)
	}

	return []byte(b.String()), nil
}

// envSection returns SERVER for ECHOAUDIT_SERVER_LISTEN
func envSection(key string) string {
	rest := strings.TrimPrefix(key, envPrefix+"_")

	section, _, _ := strings.Cut(rest, "_")

	return section
}
