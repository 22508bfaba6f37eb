package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cast"

	"github.com/wricardo/receipt-escape/game/puzzle"
	"github.com/wricardo/receipt-escape/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Receipt Escape",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Receipt Escape - MCP Interface

This is a thin client that proxies all requests to the REST API server.
It generates paper puzzles for a receipt printer escape room. Every puzzle
hides an answer; players type it back to progress.

AVAILABLE TOOLS:
- list_puzzle_types: List every puzzle type and how its answer is chosen
- generate_puzzle: Generate one puzzle (type, optional config, label, clue, station)
- get_puzzle: Show a generated puzzle by ID or 8 character task code
- list_puzzles: List generated puzzles, newest first
- check_answer: Check a player's answer
- list_decks: List saved decks (ordered puzzle sets for a room)
- generate_deck: Generate every puzzle of a deck for a print station
- barcode: Render text as a Code 128 barcode image
- puzzle_instructions: Detailed guide to types and their config options

Answers are hidden unless reveal_answer is set.`),
	)

	c.registerTools()
}

func stringProp(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_puzzle_types",
		Description: "List every supported puzzle type",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{},
		},
	}, c.handleListTypes)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "generate_puzzle",
		Description: "Generate a puzzle and send it to a print station",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"type": stringProp("Puzzle type, e.g. MAZE_VERTICAL, CIPHER, KAKURO. Unknown types produce TEXT"),
				"config": map[string]any{
					"type":        "object",
					"description": "Type specific options such as answer, text, shift, grid_size, seed",
				},
				"label":         stringProp("Short label printed on the receipt (optional)"),
				"clue":          stringProp("Hint printed under the puzzle (optional)"),
				"station":       stringProp("Print station to push the puzzle to (default: default)"),
				"reveal_answer": map[string]any{"type": "boolean", "description": "Include the answer in the output"},
			},
			Required: []string{"type"},
		},
	}, c.handleGeneratePuzzle)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_puzzle",
		Description: "Get a generated puzzle by ID or task code",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"id":            stringProp("Artifact ID or 8 character task code"),
				"reveal_answer": map[string]any{"type": "boolean", "description": "Include the answer in the output"},
			},
			Required: []string{"id"},
		},
	}, c.handleGetPuzzle)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_puzzles",
		Description: "List generated puzzles, newest first",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"limit": map[string]any{"type": "integer", "description": "Maximum number of puzzles (default 20)"},
			},
		},
	}, c.handleListPuzzles)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "check_answer",
		Description: "Check a player's answer. Case and surrounding spaces are ignored",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"id":     stringProp("Artifact ID or task code"),
				"answer": stringProp("Answer typed by the player"),
			},
			Required: []string{"id", "answer"},
		},
	}, c.handleCheckAnswer)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_decks",
		Description: "List saved decks",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{},
		},
	}, c.handleListDecks)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "generate_deck",
		Description: "Generate every puzzle of a deck, in order",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"deck":    stringProp("Deck ID from list_decks"),
				"station": stringProp("Print station (optional)"),
			},
			Required: []string{"deck"},
		},
	}, c.handleGenerateDeck)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "barcode",
		Description: "Render text as a Code 128 barcode PNG data URI",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"text": stringProp("Text to encode (ASCII)"),
			},
			Required: []string{"text"},
		},
	}, c.handleBarcode)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "puzzle_instructions",
		Description: "Get a detailed guide to puzzle types and their options",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{},
		},
	}, c.handleInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body any, result any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

func arguments(request mcp.CallToolRequest) map[string]any {
	args, _ := request.Params.Arguments.(map[string]any)
	if args == nil {
		return map[string]any{}
	}
	return args
}

// Tool handlers

func (c *Client) handleListTypes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count int               `json:"count"`
		Types []puzzle.TypeInfo `json:"types"`
	}
	if err := c.apiCall(ctx, "GET", "/api/types", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Puzzle Types (%d):\n\n", response.Count)
	for _, t := range response.Types {
		fmt.Fprintf(&b, "- %s [%s]: %s\n", t.Type, t.Pattern, t.Description)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGeneratePuzzle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	req := service.GenerateRequest{
		Type:    cast.ToString(args["type"]),
		Label:   cast.ToString(args["label"]),
		Clue:    cast.ToString(args["clue"]),
		Station: cast.ToString(args["station"]),
	}
	if req.Type == "" {
		return mcp.NewToolResultError("type is required"), nil
	}
	if raw, ok := args["config"].(map[string]any); ok {
		req.Config = puzzle.Options(raw)
	}

	var artifact service.Artifact
	if err := c.apiCall(ctx, "POST", "/api/puzzles", req, &artifact); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatArtifact(&artifact, cast.ToBool(args["reveal_answer"]))), nil
}

func (c *Client) handleGetPuzzle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	id := cast.ToString(args["id"])
	if id == "" {
		return mcp.NewToolResultError("id is required"), nil
	}

	var artifact service.Artifact
	if err := c.apiCall(ctx, "GET", "/api/puzzles/"+url.PathEscape(id), nil, &artifact); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatArtifact(&artifact, cast.ToBool(args["reveal_answer"]))), nil
}

func (c *Client) handleListPuzzles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := cast.ToInt(arguments(request)["limit"])
	if limit <= 0 {
		limit = 20
	}

	var response struct {
		Count   int                    `json:"count"`
		Puzzles []service.ArtifactInfo `json:"puzzles"`
	}
	if err := c.apiCall(ctx, "GET", fmt.Sprintf("/api/puzzles?limit=%d", limit), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Generated Puzzles (%d):\n\n", response.Count)
	for _, p := range response.Puzzles {
		fmt.Fprintf(&b, "- %s %s", p.TaskCode, p.Type)
		if p.Label != "" {
			fmt.Fprintf(&b, " %q", p.Label)
		}
		if p.Deck != "" {
			fmt.Fprintf(&b, " (deck: %s)", p.Deck)
		}
		fmt.Fprintf(&b, " station=%s created=%s\n", p.Station, p.CreatedAt.Format("15:04:05"))
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleCheckAnswer(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	id := cast.ToString(args["id"])
	if id == "" {
		return mcp.NewToolResultError("id is required"), nil
	}

	var result service.CheckResult
	body := map[string]string{"answer": cast.ToString(args["answer"])}
	if err := c.apiCall(ctx, "POST", "/api/puzzles/"+url.PathEscape(id)+"/check", body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if result.Correct {
		return mcp.NewToolResultText(fmt.Sprintf("✅ Correct answer for %s", id)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("❌ Wrong answer for %s", id)), nil
}

func (c *Client) handleListDecks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var decks []service.DeckInfo
	if err := c.apiCall(ctx, "GET", "/api/decks", nil, &decks); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Available Decks (%d):\n\n", len(decks))
	for _, d := range decks {
		fmt.Fprintf(&b, "- %s: %s (%d stages)", d.DeckID, d.Name, d.Stages)
		if d.Description != "" {
			fmt.Fprintf(&b, " - %s", d.Description)
		}
		b.WriteString("\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGenerateDeck(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	deck := cast.ToString(args["deck"])
	if deck == "" {
		return mcp.NewToolResultError("deck is required"), nil
	}

	var result service.DeckGeneration
	body := map[string]string{"station": cast.ToString(args["station"])}
	if err := c.apiCall(ctx, "POST", "/api/decks/"+url.PathEscape(deck)+"/generate", body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Generated deck %s for station %s (%d puzzles):\n\n", result.Deck, result.Station, result.Count)
	for i, a := range result.Puzzles {
		fmt.Fprintf(&b, "%d. %s %s", i+1, a.TaskCode, typeOf(a))
		if a.Label != "" {
			fmt.Fprintf(&b, " %q", a.Label)
		}
		b.WriteString("\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleBarcode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := cast.ToString(arguments(request)["text"])
	if text == "" {
		return mcp.NewToolResultError("text is required"), nil
	}

	var response struct {
		Text  string  `json:"text"`
		Image *string `json:"image"`
	}
	if err := c.apiCall(ctx, "GET", "/api/barcode?text="+url.QueryEscape(text), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if response.Image == nil {
		return mcp.NewToolResultError(fmt.Sprintf("%q cannot be encoded as Code 128", text)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Barcode for %s:\n%s", response.Text, *response.Image)), nil
}

func (c *Client) handleInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(instructions), nil
}

const instructions = `🧾 Receipt Escape - Puzzle Guide

HOW IT WORKS:
Each puzzle is printed on a receipt with a barcode of its task code. Players
solve it and type the answer; check_answer compares it ignoring case and
surrounding spaces.

ANSWER PATTERNS:
• caller_supplied - you choose the answer (config "answer" or "text")
• pool_selected - drawn from a built-in pool (riddles, rebuses, pictures)
• computed - derived from the generated puzzle (sums, sequences)

COMMON CONFIG:
• seed: any non-zero integer reproduces the exact same puzzle
• answer / text: defaults to SECRET when omitted

TYPES AND OPTIONS:
• MAZE_VERTICAL: answer (max 40 letters, spelled along the solution path)
• WORD_SEARCH: answer, grid_size (6-20, default 10), word_count (0-8, default 4)
• CIPHER: text, variant CAESAR|PIGPEN|ICON, shift (default 3)
• POLYBIUS: text (J is read as I)
• TACTILE: text, mode MORSE|BRAILLE
• SCYTALE: text, rails (default 4)
• MIRROR: text
• ANAGRAM: answer (one letter extracted per scrambled word)
• MICRO_TEXT: answer
• FOLDING: code (default 1234)
• SOUND_WAVE: answer, frequency (default 440), pattern (default loop)
• TEXT: text, answer
• ASCII: answer picks a silhouette (KEY, LOCK, BOMB, GHOST)
• RIDDLE: riddle_text + riddle_answer to override the pool
• WORD_LADDER, REBUS: no options
• NONOGRAM: mirror (true/false)
• SYMBOL_MATH: no options
• NUMBER_SEQUENCE: rule (double, add3, square, fib, add5, triple)
• MINI_SUDOKU: shift (answer is the sum of the four corners)
• KAKURO: shift (answer is the digits of the key cells)
• SPOT_DIFF: differences (1-12, default 4)

Unknown types are printed as TEXT instead of failing.`

func typeOf(a *service.Artifact) puzzle.PuzzleType {
	if a.Result == nil {
		return ""
	}
	return a.Result.Type
}

func formatArtifact(a *service.Artifact, revealAnswer bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Puzzle %s (task code %s)\n", a.ID, a.TaskCode)
	fmt.Fprintf(&b, "Type: %s\n", typeOf(a))
	if a.Label != "" {
		fmt.Fprintf(&b, "Label: %s\n", a.Label)
	}
	if a.Clue != "" {
		fmt.Fprintf(&b, "Clue: %s\n", a.Clue)
	}
	if a.Deck != "" {
		fmt.Fprintf(&b, "Deck: %s\n", a.Deck)
	}
	fmt.Fprintf(&b, "Station: %s\n", a.Station)

	if a.Result != nil {
		fmt.Fprintf(&b, "Seed: %d\n", a.Result.Seed)
		if revealAnswer {
			fmt.Fprintf(&b, "Answer: %s\n", a.Result.Answer)
		}
		if data, err := json.MarshalIndent(a.Result.Data, "", "  "); err == nil {
			fmt.Fprintf(&b, "\nContent:\n%s\n", data)
		}
	}
	if a.BarcodeImage == nil {
		b.WriteString("\nBarcode: unavailable\n")
	}
	return b.String()
}
