package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bryanwahyu/siren-alert/internal/domain/ai"
)

// Analyzer use case AI yang diekspos sebagai MCP tool
type Analyzer interface {
	AnalyzeText(ctx context.Context, text string) (*ai.AnalysisResult, error)
	AnalyzeImage(ctx context.Context, imageBase64 string) (*ai.ImageAnalysis, error)
}

// New creates the MCP server with the analysis tools registered.
func New(svc Analyzer, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"siren-alert",
		version,
		server.WithToolCapabilities(true),
	)

	s.AddTool(
		mcplib.NewTool("siren_analyze_text",
			mcplib.WithDescription("Analyze a workplace incident description and return a structured Korean safety report as JSON"),
			mcplib.WithString("text",
				mcplib.Required(),
				mcplib.Description("Incident description text"),
			),
		),
		handleAnalyzeText(svc),
	)

	s.AddTool(
		mcplib.NewTool("siren_analyze_image",
			mcplib.WithDescription("Run OCR on an incident report image, then analyze the extracted text. Returns the report and the OCR text as JSON"),
			mcplib.WithString("image_base64",
				mcplib.Required(),
				mcplib.Description("Base64 encoded image (a data: URL prefix is accepted)"),
			),
		),
		handleAnalyzeImage(svc),
	)

	return s
}

func handleAnalyzeText(svc Analyzer) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		text, err := request.RequireString("text")
		if err != nil {
			return mcplib.NewToolResultError(err.Error()), nil
		}
		res, err := svc.AnalyzeText(ctx, text)
		if err != nil {
			return mcplib.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
		}
		return jsonResult(res)
	}
}

func handleAnalyzeImage(svc Analyzer) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		image, err := request.RequireString("image_base64")
		if err != nil {
			return mcplib.NewToolResultError(err.Error()), nil
		}
		res, err := svc.AnalyzeImage(ctx, ai.StripDataURL(image))
		if err != nil {
			return mcplib.NewToolResultError(fmt.Sprintf("image analysis failed: %v", err)), nil
		}
		return jsonResult(res)
	}
}

func jsonResult(v any) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return mcplib.NewToolResultText(string(data)), nil
}
