package server

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/sourcegraph/jsonrpc2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pilotedu/studypilot/framework"
)

func newTestGateway(t *testing.T) *Gateway {
	t.Helper()
	api := newTestAPI(t)
	return &Gateway{
		Orchestrator: api.Orchestrator,
		Registry:     api.Registry,
		Logger:       api.Logger,
	}
}

func rpcRequest(t *testing.T, method string, params any) *jsonrpc2.Request {
	t.Helper()
	req := &jsonrpc2.Request{Method: method}
	if params != nil {
		raw, err := json.Marshal(params)
		require.NoError(t, err)
		msg := json.RawMessage(raw)
		req.Params = &msg
	}
	return req
}

func TestGatewayToolsList(t *testing.T) {
	g := newTestGateway(t)

	result, err := g.handle(context.Background(), nil, rpcRequest(t, "tools/list", nil))
	require.NoError(t, err)

	payload, ok := result.(map[string]any)
	require.True(t, ok)
	tools, ok := payload["tools"].([]string)
	require.True(t, ok)
	assert.Len(t, tools, 21)
}

func TestGatewayToolsDescribe(t *testing.T) {
	g := newTestGateway(t)

	result, err := g.handle(context.Background(), nil, rpcRequest(t, "tools/describe", DescribeParams{Name: "get_assignments"}))
	require.NoError(t, err)

	def, ok := result.(framework.Definition)
	require.True(t, ok)
	assert.Equal(t, "get_assignments", def.Name)
	assert.Contains(t, def.Parameters.Properties, "limit")
}

func TestGatewayToolsDescribeUnknown(t *testing.T) {
	g := newTestGateway(t)

	_, err := g.handle(context.Background(), nil, rpcRequest(t, "tools/describe", DescribeParams{Name: "nope"}))
	require.Error(t, err)

	rpcErr, ok := err.(*jsonrpc2.Error)
	require.True(t, ok)
	assert.Equal(t, int64(jsonrpc2.CodeInvalidParams), rpcErr.Code)
	assert.Equal(t, "Tool not found: nope", rpcErr.Message)
}

func TestGatewayToolsExecute(t *testing.T) {
	g := newTestGateway(t)

	result, err := g.handle(context.Background(), nil, rpcRequest(t, "tools/execute", ExecuteParams{
		ToolName: "get_wellness_status",
	}))
	require.NoError(t, err)

	execution, ok := result.(framework.Execution)
	require.True(t, ok)
	assert.True(t, execution.Success)
	assert.Equal(t, "get_wellness_status", execution.ToolName)
}

func TestGatewayChatProcess(t *testing.T) {
	g := newTestGateway(t)

	result, err := g.handle(context.Background(), nil, rpcRequest(t, "chat/process", ProcessParams{
		Message: "What's due this week?",
	}))
	require.NoError(t, err)

	raw, err := json.Marshal(result)
	require.NoError(t, err)
	var reply struct {
		Response string `json:"response"`
		Intent   string `json:"intent"`
	}
	require.NoError(t, json.Unmarshal(raw, &reply))
	assert.Equal(t, "deadlines", reply.Intent)
	assert.Contains(t, reply.Response, "Upcoming Deadlines")
}

func TestGatewayUnknownMethod(t *testing.T) {
	g := newTestGateway(t)

	_, err := g.handle(context.Background(), nil, rpcRequest(t, "shutdown", nil))
	require.Error(t, err)
	rpcErr, ok := err.(*jsonrpc2.Error)
	require.True(t, ok)
	assert.Equal(t, int64(jsonrpc2.CodeMethodNotFound), rpcErr.Code)
}

func TestGatewayMissingParams(t *testing.T) {
	g := newTestGateway(t)

	_, err := g.handle(context.Background(), nil, rpcRequest(t, "tools/execute", nil))
	require.Error(t, err)
	rpcErr, ok := err.(*jsonrpc2.Error)
	require.True(t, ok)
	assert.Equal(t, int64(jsonrpc2.CodeInvalidParams), rpcErr.Code)
}
