package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/duyhunghd6/gdref-cli/internal/orchestrator"
)

// serveMCP serves the loaded class model over stdio until the client
// disconnects or ctx is cancelled.
func serveMCP(ctx context.Context, engine *orchestrator.Engine) error {
	s := newMCPServer(engine)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[mcp] serving %d classes on stdio", engine.Classes().Len())
		errCh <- server.ServeStdio(s)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("MCP server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// newMCPServer creates the MCP server with all gdref tools registered.
func newMCPServer(engine *orchestrator.Engine) *server.MCPServer {
	s := server.NewMCPServer(
		"gdref",
		version,
		server.WithToolCapabilities(false),
	)

	s.AddTool(mcp.NewTool(
		"list_classes",
		mcp.WithDescription("List the documented GDScript classes with their parent chain, category and symbol count."),
		mcp.WithString("category",
			mcp.Description("Only list classes in this category")),
		mcp.WithReadOnlyHintAnnotation(true),
	), listClassesHandler(engine))

	s.AddTool(mcp.NewTool(
		"get_class",
		mcp.WithDescription("Return the full documentation model of one class: functions, members, signals and enumerations."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Class name")),
		mcp.WithReadOnlyHintAnnotation(true),
	), getClassHandler(engine))

	s.AddTool(mcp.NewTool(
		"resolve_link",
		mcp.WithDescription("Resolve a documentation link target such as 'Player.health' or 'health', including symbols inherited from parent classes."),
		mcp.WithString("target",
			mcp.Required(),
			mcp.Description("Link target, 'Class.symbol' or a bare name")),
		mcp.WithString("from",
			mcp.Description("Class whose documentation contains the link; used for bare names")),
		mcp.WithReadOnlyHintAnnotation(true),
	), resolveLinkHandler(engine))

	s.AddTool(mcp.NewTool(
		"class_index",
		mcp.WithDescription("Return every class name with the sorted list of its linkable symbols."),
		mcp.WithReadOnlyHintAnnotation(true),
	), classIndexHandler(engine))

	return s
}

type classSummary struct {
	Name     string `json:"name"`
	Extends  string `json:"extends,omitempty"`
	Category string `json:"category,omitempty"`
	Path     string `json:"path"`
	Symbols  int    `json:"symbols"`
}

func listClassesHandler(engine *orchestrator.Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})
		category, _ := args["category"].(string)

		summaries := []classSummary{}
		for _, c := range engine.Classes().Classes() {
			if category != "" && c.Category() != category {
				continue
			}
			summaries = append(summaries, classSummary{
				Name:     c.Name,
				Extends:  c.ExtendsString(),
				Category: c.Category(),
				Path:     c.Path,
				Symbols:  len(c.Symbols()),
			})
		}
		return toolResultJSON(summaries)
	}
}

func getClassHandler(engine *orchestrator.Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, ok := request.Params.Arguments.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}
		name, _ := args["name"].(string)
		if name == "" {
			return mcp.NewToolResultError("name parameter is required"), nil
		}

		class, found := engine.Classes().Get(name)
		if !found {
			return mcp.NewToolResultError(fmt.Sprintf("unknown class: %s", name)), nil
		}
		return toolResultJSON(class)
	}
}

func resolveLinkHandler(engine *orchestrator.Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, ok := request.Params.Arguments.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}
		target, _ := args["target"].(string)
		if target == "" {
			return mcp.NewToolResultError("target parameter is required"), nil
		}
		from, _ := args["from"].(string)

		link, resolved := engine.Resolver().Resolve(target, from)
		return toolResultJSON(map[string]any{
			"target":   target,
			"resolved": resolved,
			"link":     link,
		})
	}
}

func classIndexHandler(engine *orchestrator.Engine) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		index := engine.Classes().ClassIndex()
		out := make(map[string][]string, len(index))
		for name, set := range index {
			out[name] = set.Sorted()
		}
		return toolResultJSON(out)
	}
}

// toolResultJSON returns data as JSON text (mcp-go convention).
func toolResultJSON(data any) (*mcp.CallToolResult, error) {
	content, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}
	return mcp.NewToolResultText(string(content)), nil
}
