package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/c4stleone/SOLHeaven/services"
	storage "github.com/c4stleone/SOLHeaven/storage/escrow"
)

// MCPServer exposes the escrow instruction surface as MCP tools. Signer
// identity arrives as a tool argument: the wallet layer in front of this
// server authenticates callers, the engine enforces role matching.
type MCPServer struct {
	mcpServer  *server.MCPServer
	store      storage.Store
	fundingSvc *services.FundingService
}

// NewMCPServer creates a new MCP server over the given store.
func NewMCPServer(store storage.Store, fundingSvc *services.FundingService) *MCPServer {
	mcpServer := server.NewMCPServer(
		"Outcome Escrow MCP Server",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	s := &MCPServer{
		mcpServer:  mcpServer,
		store:      store,
		fundingSvc: fundingSvc,
	}
	s.registerTools()
	return s
}

// GetMCPServer returns the underlying MCP server for transport setup.
func (s *MCPServer) GetMCPServer() *server.MCPServer {
	return s.mcpServer
}

func (s *MCPServer) registerTools() {
	// Config authority
	s.registerInitializeConfigTool()
	s.registerUpdateOpsTool()
	s.registerGetConfigTool()

	// Job lifecycle
	s.registerCreateJobTool()
	s.registerFundJobTool()
	s.registerSubmitResultTool()
	s.registerReviewJobTool()
	s.registerTriggerTimeoutTool()
	s.registerResolveDisputeTool()

	// Reads and ledger
	s.registerGetJobTool()
	s.registerListJobsTool()
	s.registerListEventsTool()
	s.registerGetBalanceTool()
	s.registerCreditAccountTool()
	s.registerGetFundingInfoTool()
}
