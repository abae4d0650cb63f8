package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/touchselfie/boothsetup/internal/wizard"
)

// registerTools registers the wizard tools on srv.
func (s *Server) registerTools(srv *server.MCPServer) {
	srv.AddTool(
		mcp.NewTool("wizard-state",
			mcp.WithDescription("Show the current wizard page, its fields, the navigation buttons and any notice"),
		),
		s.handleState,
	)

	srv.AddTool(
		mcp.NewTool("wizard-set",
			mcp.WithDescription("Change a field on the current page, exactly as if the user edited the control"),
			mcp.WithString("attribute", mcp.Required(),
				mcp.Description("Configuration attribute of the field, e.g. enable_print"),
			),
			mcp.WithString("value", mcp.Required(),
				mcp.Description("true/false for checkboxes, one of the listed entries for selections"),
			),
		),
		s.handleSet,
	)

	srv.AddTool(
		mcp.NewTool("wizard-next",
			mcp.WithDescription("Press Next; on the last page this saves the configuration"),
		),
		s.handleNext,
	)

	srv.AddTool(
		mcp.NewTool("wizard-prev",
			mcp.WithDescription("Press Prev; does nothing on the first page"),
		),
		s.handlePrev,
	)

	srv.AddTool(
		mcp.NewTool("wizard-dismiss",
			mcp.WithDescription("Dismiss the current notice"),
		),
		s.handleDismiss,
	)
}

// stateResult renders the engine state after msg. Callers hold engineMu.
func (s *Server) stateResult(msg string) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(s.engine.State(), "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode state: %v", err)), nil
	}
	if msg == "" {
		return mcp.NewToolResultText(string(data)), nil
	}
	return mcp.NewToolResultText(msg + "\n" + string(data)), nil
}

func (s *Server) handleState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.engineMu.Lock()
	defer s.engineMu.Unlock()
	return s.stateResult("")
}

func (s *Server) handleSet(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	if args == nil {
		return mcp.NewToolResultError("no arguments provided"), nil
	}

	attribute, ok := args["attribute"].(string)
	if !ok || attribute == "" {
		return mcp.NewToolResultError("missing or empty 'attribute' parameter"), nil
	}
	raw, ok := args["value"]
	if !ok {
		return mcp.NewToolResultError("missing 'value' parameter"), nil
	}

	s.engineMu.Lock()
	defer s.engineMu.Unlock()

	field := s.engine.Field(attribute)
	if field == nil {
		return mcp.NewToolResultError(fmt.Sprintf("%v: %s", wizard.ErrUnknownField, attribute)), nil
	}

	stored, err := s.engine.SetField(ctx, attribute, controlValue(field.Kind, raw))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !stored {
		return s.stateResult(fmt.Sprintf("Value %v ignored for %s", raw, attribute))
	}
	return s.stateResult(fmt.Sprintf("Set %s", attribute))
}

// controlValue converts a tool argument into what a control of kind emits.
func controlValue(kind wizard.ControlKind, raw any) any {
	switch v := raw.(type) {
	case string:
		if kind == wizard.Checkbox {
			if b, err := strconv.ParseBool(v); err == nil {
				return b
			}
		}
		return v
	case float64:
		// JSON numbers arrive as float64
		if v == float64(int(v)) {
			return int(v)
		}
		return v
	default:
		return v
	}
}

func (s *Server) handleNext(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.engineMu.Lock()
	defer s.engineMu.Unlock()

	committed, err := s.engine.Next(ctx)
	if errors.Is(err, wizard.ErrPersistence) {
		return s.stateResult("Save failed, still on the last page")
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if committed {
		if s.OnCommit != nil {
			s.OnCommit(ctx, s.engine.Configuration())
		}
		return s.stateResult("Configuration saved")
	}
	return s.stateResult("")
}

func (s *Server) handlePrev(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.engineMu.Lock()
	defer s.engineMu.Unlock()

	if !s.engine.Prev() {
		return s.stateResult("Already on the first page")
	}
	return s.stateResult("")
}

func (s *Server) handleDismiss(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.engineMu.Lock()
	defer s.engineMu.Unlock()

	s.engine.DismissNotice()
	return s.stateResult("")
}
