package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tranphat180603/canvas-cli/internal/fetch"
	"github.com/tranphat180603/canvas-cli/pkg/types"
)

// registerListModules registers the canvas_list_modules tool.
func (ts *ToolServer) registerListModules() {
	tool := newListTool(fetch.ToolListModules,
		"List modules for a course.",
		courseIDOption(),
	)

	ts.add(tool, ts.handleListModules)
}

func (ts *ToolServer) handleListModules(ctx context.Context, auth types.AuthContext, args map[string]interface{}) (envelope, error) {
	p, err := courseParams(args)
	if err != nil {
		return nil, err
	}
	return ts.fetcher.Modules(ctx, auth, p), nil
}

// registerListModuleItems registers the canvas_list_module_items tool.
func (ts *ToolServer) registerListModuleItems() {
	tool := newListTool(fetch.ToolListModuleItems,
		"List items in a module.",
		courseIDOption(),
		mcp.WithNumber("module_id",
			mcp.Required(),
			mcp.Description("Canvas module ID"),
		),
	)

	ts.add(tool, ts.handleListModuleItems)
}

func (ts *ToolServer) handleListModuleItems(ctx context.Context, auth types.AuthContext, args map[string]interface{}) (envelope, error) {
	p, err := courseParams(args)
	if err != nil {
		return nil, err
	}
	moduleID, err := requiredID(args, "module_id")
	if err != nil {
		return nil, err
	}
	return ts.fetcher.ModuleItems(ctx, auth, fetch.ModuleItemsParams{CourseParams: p, ModuleID: moduleID}), nil
}

// registerListPages registers the canvas_list_pages tool.
func (ts *ToolServer) registerListPages() {
	tool := newListTool(fetch.ToolListPages,
		"List pages for a course. Falls back to the course modules when the pages API is unavailable.",
		courseIDOption(),
	)

	ts.add(tool, ts.handleListPages)
}

func (ts *ToolServer) handleListPages(ctx context.Context, auth types.AuthContext, args map[string]interface{}) (envelope, error) {
	p, err := courseParams(args)
	if err != nil {
		return nil, err
	}
	return ts.fetcher.Pages(ctx, auth, p), nil
}

// registerListFiles registers the canvas_list_files tool.
func (ts *ToolServer) registerListFiles() {
	tool := newListTool(fetch.ToolListFiles,
		"List files for a course.",
		courseIDOption(),
	)

	ts.add(tool, ts.handleListFiles)
}

func (ts *ToolServer) handleListFiles(ctx context.Context, auth types.AuthContext, args map[string]interface{}) (envelope, error) {
	p, err := courseParams(args)
	if err != nil {
		return nil, err
	}
	return ts.fetcher.Files(ctx, auth, p), nil
}
