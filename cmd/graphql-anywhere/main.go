package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	anywhere "github.com/wizardzloy/graphql-anywhere"
	"github.com/wizardzloy/graphql-anywhere/internal/eventbus"
	"github.com/wizardzloy/graphql-anywhere/internal/language"
	"github.com/wizardzloy/graphql-anywhere/internal/otel"
	"github.com/wizardzloy/graphql-anywhere/internal/server"
)

const rootUsage = `graphql-anywhere — run query documents against plain JSON data

USAGE:
  graphql-anywhere <command> [flags]

COMMANDS:
  query            Execute one query document against a JSON value and print the result
  serve            Serve a JSON value over a GraphQL-shaped HTTP endpoint
  help             Show help for any command
`

const queryUsage = `query FLAGS:
  -data <file>     JSON file holding the value to query (required)
  -query <file>    File holding the query document (required)
  -vars <json>     Variables as inline JSON (default: none)
  -pretty          Pretty-print the result
`

const serveUsage = `serve FLAGS:
  -data <file>              JSON file holding the value to serve (required)
  -addr <addr>              HTTP listen address (default: :8080)
  -pretty                   Pretty-print JSON responses
  -timeout <duration>       Per-request timeout, e.g. 10s (default: 10s)
  -cors <origin>            Allowed CORS origin. Repeatable
  -otel.endpoint <addr>     OTLP collector endpoint
  -otel.service <name>      OpenTelemetry service name (default: graphql-anywhere)
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, rootUsage)
		return fmt.Errorf("missing command")
	}
	cmd := args[0]
	cmdArgs := args[1:]
	switch cmd {
	case "query":
		return cmdQuery(cmdArgs)
	case "serve":
		return cmdServe(cmdArgs)
	case "help":
		return cmdHelp(cmdArgs)
	default:
		fmt.Fprint(os.Stderr, rootUsage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func cmdHelp(args []string) error {
	if len(args) == 0 {
		fmt.Print(rootUsage)
		return nil
	}
	switch args[0] {
	case "query":
		fmt.Print(queryUsage)
	case "serve":
		fmt.Print(serveUsage)
	default:
		return fmt.Errorf("unknown help topic %q", args[0])
	}
	return nil
}

type stringListFlag []string

func (s *stringListFlag) String() string { return "" }

func (s *stringListFlag) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func cmdQuery(args []string) error {
	dataFile := ""
	queryFile := ""
	varsJSON := ""
	pretty := false

	fs := flag.NewFlagSet("query", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.StringVar(&dataFile, "data", dataFile, "JSON data file")
	fs.StringVar(&queryFile, "query", queryFile, "query document file")
	fs.StringVar(&varsJSON, "vars", varsJSON, "variables as inline JSON")
	fs.BoolVar(&pretty, "pretty", pretty, "pretty-print the result")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, queryUsage)
		return err
	}
	if dataFile == "" || queryFile == "" {
		fmt.Fprint(os.Stderr, queryUsage)
		return fmt.Errorf("-data and -query are required")
	}

	data, err := loadJSONFile(dataFile)
	if err != nil {
		return err
	}
	vars, err := parseVars(varsJSON)
	if err != nil {
		return err
	}
	src, err := os.ReadFile(queryFile)
	if err != nil {
		return fmt.Errorf("read query: %w", err)
	}
	doc, err := language.ParseQuery(string(src))
	if err != nil {
		return fmt.Errorf("parse query: %w", err)
	}

	result, err := anywhere.Execute(context.Background(), anywhere.FieldLookup, doc, data, vars)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(result)
}

func cmdServe(args []string) error {
	dataFile := ""
	addr := ":8080"
	pretty := false
	timeout := 10 * time.Second
	otelEndpoint := ""
	otelService := "graphql-anywhere"
	var corsOrigins stringListFlag

	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.StringVar(&dataFile, "data", dataFile, "JSON data file")
	fs.StringVar(&addr, "addr", addr, "HTTP listen address")
	fs.BoolVar(&pretty, "pretty", pretty, "pretty-print JSON responses")
	fs.DurationVar(&timeout, "timeout", timeout, "per-request timeout")
	fs.Var(&corsOrigins, "cors", "allowed CORS origin")
	fs.StringVar(&otelEndpoint, "otel.endpoint", otelEndpoint, "OTLP collector endpoint")
	fs.StringVar(&otelService, "otel.service", otelService, "OpenTelemetry service name")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, serveUsage)
		return err
	}
	if dataFile == "" {
		fmt.Fprint(os.Stderr, serveUsage)
		return fmt.Errorf("-data is required")
	}

	data, err := loadJSONFile(dataFile)
	if err != nil {
		return err
	}

	eventbus.Use(eventbus.New())
	shutdown, err := otel.Setup(otelEndpoint, otelService)
	if err != nil {
		return fmt.Errorf("otel setup: %w", err)
	}
	defer shutdown(context.Background())

	opts := []server.Option{server.WithTimeout(timeout)}
	if pretty {
		opts = append(opts, server.WithPretty())
	}
	if len(corsOrigins) > 0 {
		opts = append(opts, server.WithCORS(corsOrigins...))
	}

	log.Printf("listening on %s", addr)
	return http.ListenAndServe(addr, server.New(data, opts...))
}

func loadJSONFile(path string) (any, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read data: %w", err)
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("parse data: %w", err)
	}
	return v, nil
}

func parseVars(s string) (map[string]any, error) {
	if s == "" {
		return nil, nil
	}
	vars := map[string]any{}
	if err := json.Unmarshal([]byte(s), &vars); err != nil {
		return nil, fmt.Errorf("parse vars: %w", err)
	}
	return vars, nil
}
