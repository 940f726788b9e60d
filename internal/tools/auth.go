package tools

import (
	"encoding/json"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tranphat180603/canvas-cli/pkg/types"
)

// errNoAuth is returned when neither the call nor the process supplies credentials.
var errNoAuth = errors.New("No authentication provided. Set CANVAS_API_URL and CANVAS_API_KEY environment variables, or pass auth in arguments.")

// Credential sources, as logged.
const (
	fromArguments   = "arguments"
	fromEnvironment = "environment"
)

// resolveAuth picks the credentials for a call. The auth argument wins when it
// carries both a URL and a token; otherwise the server's configured
// credentials are used. The result is validated later by the fetcher.
func (ts *ToolServer) resolveAuth(args map[string]interface{}) (types.AuthContext, string, error) {
	if auth, ok := authFromArgs(args); ok {
		return auth, fromArguments, nil
	}
	if ts.credentials.BaseURL != "" && ts.credentials.AccessToken != "" {
		return ts.credentials, fromEnvironment, nil
	}
	return types.AuthContext{}, "", errNoAuth
}

// authFromArgs reads the auth object, accepting the camelCase aliases.
func authFromArgs(args map[string]interface{}) (types.AuthContext, bool) {
	raw, ok := args["auth"].(map[string]interface{})
	if !ok {
		return types.AuthContext{}, false
	}
	auth := types.AuthContext{
		BaseURL:     firstString(raw, "canvas_base_url", "canvasApiUrl"),
		AccessToken: firstString(raw, "canvas_access_token", "canvasApiKey"),
	}
	if auth.BaseURL == "" || auth.AccessToken == "" {
		return types.AuthContext{}, false
	}
	return auth, true
}

func firstString(m map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// authFailure is the top-level result of a call rejected before any tool body ran.
func authFailure(err error) *mcp.CallToolResult {
	body, _ := json.Marshal(map[string]interface{}{
		"ok":     false,
		"errors": []string{err.Error()},
	})
	return mcp.NewToolResultError(string(body))
}
