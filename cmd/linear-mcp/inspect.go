package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/linear-mcp/internal/linear"
	"github.com/fyrsmithlabs/linear-mcp/internal/mcp"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the resources, templates and tools as JSON",
	Long: `Print the resources, resource templates and tools the server declares.
No configuration or Linear credentials are needed.`,
	Args: cobra.NoArgs,
	RunE: runCatalog,
}

var readCmd = &cobra.Command{
	Use:   "read <uri>",
	Short: "Read one resource and print its JSON",
	Long: `Read one resource through the same code path the server uses.

Examples:
  linear-mcp read linear://issues/active
  linear-mcp read linear://issues/ENG-123`,
	Args: cobra.ExactArgs(1),
	RunE: runRead,
}

var callCmd = &cobra.Command{
	Use:   "call <tool> [json-arguments|-]",
	Short: "Call one tool and print its result",
	Long: `Call one tool through the same code path the server uses. Arguments are
a JSON object given inline, or read from stdin when "-" is passed.

Examples:
  linear-mcp call read_team_ids
  linear-mcp call create_issue '{"title":"Fix login","teamId":"..."}'
  echo '{"issueId":"ENG-1","title":"Renamed"}' | linear-mcp call update_issue -`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runCall,
}

// catalog is the JSON document printed by the catalog command.
type catalog struct {
	Resources         []*mcpsdk.Resource         `json:"resources"`
	ResourceTemplates []*mcpsdk.ResourceTemplate `json:"resourceTemplates"`
	Tools             []*mcpsdk.Tool             `json:"tools"`
}

func runCatalog(cmd *cobra.Command, _ []string) error {
	out, err := json.MarshalIndent(catalog{
		Resources:         mcp.Resources(),
		ResourceTemplates: mcp.ResourceTemplates(),
		Tools:             mcp.Tools(),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding catalog: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

// newBackend builds a Linear client for one-shot commands. Telemetry is not
// started; logs go to stderr.
func newBackend() (*linear.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cfg, nil)
	if err != nil {
		return nil, err
	}
	return linear.New(cfg.Linear, linear.WithLogger(logger))
}

func runRead(cmd *cobra.Command, args []string) error {
	client, err := newBackend()
	if err != nil {
		return err
	}

	res, err := mcp.NewReader(client).ReadResource(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	for _, c := range res.Contents {
		fmt.Fprintln(cmd.OutOrStdout(), c.Text)
	}
	return nil
}

func runCall(cmd *cobra.Command, args []string) error {
	var raw json.RawMessage
	if len(args) == 2 {
		raw = json.RawMessage(args[1])
		if args[1] == "-" {
			b, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("failed to read arguments from stdin: %w", err)
			}
			raw = b
		}
	}

	client, err := newBackend()
	if err != nil {
		return err
	}

	res, err := mcp.NewDispatcher(client).CallTool(cmd.Context(), args[0], raw)
	if err != nil {
		return err
	}
	for _, c := range res.Content {
		if tc, ok := c.(*mcpsdk.TextContent); ok {
			fmt.Fprintln(cmd.OutOrStdout(), tc.Text)
		}
	}
	if res.IsError {
		return errors.New("tool reported an error")
	}
	return nil
}
