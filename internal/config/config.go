package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
)

// DefaultFile is read from the working directory when --config is not set.
const DefaultFile = "gatewaygen.yaml"

type Config struct {
	Input          string        `koanf:"input"`
	Output         string        `koanf:"output"`
	Format         string        `koanf:"format"`
	Gateway        GatewayConfig `koanf:"gateway"`
	Prune          PruneConfig   `koanf:"prune"`
	ValidateOutput bool          `koanf:"validate-output"`
}

type GatewayConfig struct {
	FrontendURL         string `koanf:"frontend-url"`
	ConnectionID        string `koanf:"connection-id"`
	Title               string `koanf:"title"`
	Description         string `koanf:"description"`
	Version             string `koanf:"version"`
	ServersURL          string `koanf:"servers-url"`
	BasePath            string `koanf:"base-path"`
	EmptyResponseSchema string `koanf:"empty-response-schema"`
	ErrorSchema         string `koanf:"error-schema"`
	Statics             string `koanf:"statics"`
}

type PruneConfig struct {
	Transitive bool `koanf:"transitive"`
}

// Origin returns the frontend URL as a gateway static value, wrapped in
// single quotes.
func (g GatewayConfig) Origin() string {
	if len(g.FrontendURL) >= 2 && strings.HasPrefix(g.FrontendURL, "'") && strings.HasSuffix(g.FrontendURL, "'") {
		return g.FrontendURL
	}
	return "'" + g.FrontendURL + "'"
}

// BindCommonFlags binds the input and output flags shared by every command
func BindCommonFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()

	flags.StringP("config", "c", "", "Config file path (default: "+DefaultFile+")")
	flags.StringP("input", "i", "", "Source OpenAPI document")
	flags.StringP("output", "o", "", "Output file (default: stdout)")
	flags.StringP("format", "f", "", "Output format: yaml, json (default: from output extension)")
}

// BindGatewayFlags binds the flags of the gateway document generation
func BindGatewayFlags(cmd *cobra.Command) {
	flags := cmd.Flags()

	flags.String("frontend-url", "", "Frontend origin allowed by CORS")
	flags.String("connection-id", "", "VPC link id the integrations route through")
	flags.String("title", "", "API title")
	flags.String("description", "", "API description")
	flags.String("version", "", "API version")
	flags.String("servers-url", "", "Server URL, e.g. https://api.example.com/{basePath}")
	flags.String("base-path", "", "Default value of the basePath server variable")
	flags.String("empty-response-schema", "", "Schema marking a 200 response without body (default: EmptyResponse)")
	flags.String("error-schema", "", "Schema referenced by error responses (default: ResponseHeader)")
	flags.String("statics", "", "File overriding gateway responses, request validators and security schemes")
	flags.Bool("transitive-prune", false, "Repeat schema pruning until no schema is removed")
	flags.Bool("validate-output", false, "Validate the generated document against the OpenAPI schema")
}

func Load(cmd *cobra.Command) (*Config, error) {
	k := koanf.New(".")

	configFile, _ := cmd.Flags().GetString("config")
	if configFile == "" {
		configFile, _ = cmd.PersistentFlags().GetString("config")
	}
	if configFile == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			configFile = DefaultFile
		}
	}

	if configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	flagsMap := buildFlagsMap(cmd)
	if len(flagsMap) > 0 {
		if err := k.Load(confmap.Provider(flagsMap, "."), nil); err != nil {
			return nil, fmt.Errorf("loading flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func buildFlagsMap(cmd *cobra.Command) map[string]any {
	m := make(map[string]any)

	getString := func(name string) string {
		if v, err := cmd.Flags().GetString(name); err == nil && v != "" {
			return v
		}
		if v, err := cmd.PersistentFlags().GetString(name); err == nil && v != "" {
			return v
		}
		return ""
	}

	flagChanged := func(name string) bool {
		return cmd.Flags().Changed(name) || cmd.PersistentFlags().Changed(name)
	}

	getBool := func(name string) bool {
		if v, err := cmd.Flags().GetBool(name); err == nil {
			return v
		}
		if v, err := cmd.PersistentFlags().GetBool(name); err == nil {
			return v
		}
		return false
	}

	for _, key := range []string{"input", "output", "format"} {
		if v := getString(key); v != "" {
			m[key] = v
		}
	}

	// gateway flags (under gateway. namespace)
	for _, key := range []string{
		"frontend-url", "connection-id", "title", "description", "version",
		"servers-url", "base-path", "empty-response-schema", "error-schema", "statics",
	} {
		if v := getString(key); v != "" {
			m["gateway."+key] = v
		}
	}

	if flagChanged("transitive-prune") {
		m["prune.transitive"] = getBool("transitive-prune")
	}
	if flagChanged("validate-output") {
		m["validate-output"] = getBool("validate-output")
	}

	return m
}

func (c *Config) Validate() error {
	if c.Input == "" {
		return fmt.Errorf("input file is required")
	}

	required := []struct {
		name  string
		value string
	}{
		{"frontend-url", c.Gateway.FrontendURL},
		{"connection-id", c.Gateway.ConnectionID},
		{"title", c.Gateway.Title},
		{"version", c.Gateway.Version},
		{"servers-url", c.Gateway.ServersURL},
		{"base-path", c.Gateway.BasePath},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("gateway %s is required", r.name)
		}
	}

	validFormats := map[string]bool{"": true, "yaml": true, "yml": true, "json": true}
	if !validFormats[strings.ToLower(c.Format)] {
		return fmt.Errorf("invalid format: %s (valid: yaml, json)", c.Format)
	}

	return nil
}
