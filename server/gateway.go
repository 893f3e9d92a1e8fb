package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"

	"github.com/sourcegraph/jsonrpc2"

	"github.com/pilotedu/studypilot/agent"
	"github.com/pilotedu/studypilot/framework"
)

// Gateway exposes the tool registry and agent over JSON-RPC for non-HTTP
// clients (editor plugins, local automations).
type Gateway struct {
	Orchestrator *agent.Orchestrator
	Registry     *framework.Registry
	Logger       *log.Logger
}

// DescribeParams is the tools/describe request payload.
type DescribeParams struct {
	Name string `json:"name"`
}

// ExecuteParams is the tools/execute request payload.
type ExecuteParams struct {
	ToolName   string         `json:"toolName"`
	Parameters map[string]any `json:"parameters"`
}

// ProcessParams is the chat/process request payload.
type ProcessParams struct {
	Message string          `json:"message"`
	History []agent.Message `json:"history"`
}

// ServeContext accepts JSON-RPC connections on addr until the context is
// cancelled.
func (g *Gateway) ServeContext(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("gateway listen: %w", err)
	}
	defer listener.Close()

	if g.Logger != nil {
		g.Logger.Printf("gateway listening on %s", addr)
	}

	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		stream := jsonrpc2.NewBufferedStream(conn, jsonrpc2.VSCodeObjectCodec{})
		jsonrpc2.NewConn(ctx, stream, jsonrpc2.HandlerWithError(g.handle))
	}
}

func (g *Gateway) handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
	switch req.Method {
	case "tools/list":
		return map[string]any{
			"tools":       g.Registry.List(),
			"definitions": g.Registry.Definitions(),
		}, nil

	case "tools/describe":
		var params DescribeParams
		if err := unmarshalParams(req, &params); err != nil {
			return nil, err
		}
		for _, def := range g.Registry.Definitions() {
			if def.Name == params.Name {
				return def, nil
			}
		}
		return nil, &jsonrpc2.Error{
			Code:    jsonrpc2.CodeInvalidParams,
			Message: fmt.Sprintf("Tool not found: %s", params.Name),
		}

	case "tools/execute":
		var params ExecuteParams
		if err := unmarshalParams(req, &params); err != nil {
			return nil, err
		}
		if params.Parameters == nil {
			params.Parameters = map[string]any{}
		}
		return g.Registry.Execute(ctx, params.ToolName, params.Parameters), nil

	case "chat/process":
		var params ProcessParams
		if err := unmarshalParams(req, &params); err != nil {
			return nil, err
		}
		return g.Orchestrator.ProcessMessage(ctx, params.Message, params.History), nil

	default:
		return nil, &jsonrpc2.Error{
			Code:    jsonrpc2.CodeMethodNotFound,
			Message: fmt.Sprintf("method not supported: %s", req.Method),
		}
	}
}

func unmarshalParams(req *jsonrpc2.Request, dst any) error {
	if req.Params == nil {
		return &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: "params required"}
	}
	if err := json.Unmarshal(*req.Params, dst); err != nil {
		return &jsonrpc2.Error{Code: jsonrpc2.CodeParseError, Message: err.Error()}
	}
	return nil
}
