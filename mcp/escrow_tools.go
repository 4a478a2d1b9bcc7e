package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/c4stleone/SOLHeaven/core/escrow"
)

// registerInitializeConfigTool bootstraps the singleton config.
func (s *MCPServer) registerInitializeConfigTool() {
	tool := mcp.NewTool("initialize_config",
		mcp.WithDescription("Bootstrap the singleton escrow config. The signer becomes the immutable admin. Fails if already initialized."),
		mcp.WithString("signer", mcp.Required(), mcp.Description("Admin key (base58)")),
		mcp.WithString("ops", mcp.Required(), mcp.Description("Arbitration (ops) key (base58)")),
		mcp.WithString("treasury", mcp.Required(), mcp.Description("Treasury key receiving protocol fees (base58)")),
		mcp.WithString("stable_mint", mcp.Description("Optional settlement asset identifier (base58); empty for native")),
	)

	s.mcpServer.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		signer, err := keyArg(request, "signer", true)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		ops, err := keyArg(request, "ops", true)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		treasury, err := keyArg(request, "treasury", true)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		stableMint, err := keyArg(request, "stable_mint", false)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		cfg, err := s.store.InitializeConfig(ctx, signer, ops, treasury, stableMint)
		if err != nil {
			return errorResult("initialize_config", err), nil
		}
		return jsonResult(cfg)
	})
}

// registerUpdateOpsTool rotates the arbitration identity.
func (s *MCPServer) registerUpdateOpsTool() {
	tool := mcp.NewTool("update_ops",
		mcp.WithDescription("Rotate the arbitration (ops) identity. Admin only."),
		mcp.WithString("signer", mcp.Required(), mcp.Description("Admin key (base58)")),
		mcp.WithString("new_ops", mcp.Required(), mcp.Description("New ops key (base58)")),
	)

	s.mcpServer.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		signer, err := keyArg(request, "signer", true)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		newOps, err := keyArg(request, "new_ops", true)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		cfg, err := s.store.UpdateOps(ctx, signer, newOps)
		if err != nil {
			return errorResult("update_ops", err), nil
		}
		return jsonResult(cfg)
	})
}

// registerGetConfigTool fetches the singleton config.
func (s *MCPServer) registerGetConfigTool() {
	tool := mcp.NewTool("get_config",
		mcp.WithDescription("Fetch the escrow config record at its fixed derived address."),
	)

	s.mcpServer.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cfg, err := s.store.GetConfig(ctx)
		if err != nil {
			return errorResult("get_config", err), nil
		}
		return jsonResult(cfg)
	})
}

// registerCreateJobTool allocates a job record.
func (s *MCPServer) registerCreateJobTool() {
	tool := mcp.NewTool("create_job",
		mcp.WithDescription("Create a job escrow record. The signer becomes the buyer; the job address derives from (buyer, job_id)."),
		mcp.WithString("signer", mcp.Required(), mcp.Description("Buyer key (base58)")),
		mcp.WithNumber("job_id", mcp.Required(), mcp.Description("Caller-chosen job id, unique per buyer")),
		mcp.WithString("operator", mcp.Required(), mcp.Description("Operator key (base58)")),
		mcp.WithNumber("reward", mcp.Required(), mcp.Description("Escrowed reward in base units")),
		mcp.WithNumber("fee_bps", mcp.Description("Protocol fee in basis points (0-10000)")),
		mcp.WithString("deadline_at", mcp.Description("RFC3339 deadline; omit for no deadline")),
	)

	s.mcpServer.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		signer, err := keyArg(request, "signer", true)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		operator, err := keyArg(request, "operator", true)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		deadline, err := timeArg(request, "deadline_at")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		jobID, err := uint64Arg(request, "job_id")
		if err != nil {
			return errorResult("create_job", err), nil
		}
		reward, err := uint64Arg(request, "reward")
		if err != nil {
			return errorResult("create_job", err), nil
		}
		feeBps, err := feeBpsArg(request, "fee_bps")
		if err != nil {
			return errorResult("create_job", err), nil
		}
		params := escrow.CreateJobParams{
			JobID:      jobID,
			Operator:   operator,
			Reward:     reward,
			FeeBps:     feeBps,
			DeadlineAt: deadline,
		}
		job, err := s.store.CreateJob(ctx, signer, params)
		if err != nil {
			return errorResult("create_job", err), nil
		}
		return jsonResult(job)
	})
}

// registerFundJobTool moves the reward into the job vault.
func (s *MCPServer) registerFundJobTool() {
	tool := mcp.NewTool("fund_job",
		mcp.WithDescription("Fund a created job: moves the reward from the buyer's balance into the job vault."),
		mcp.WithString("signer", mcp.Required(), mcp.Description("Buyer key (base58)")),
		jobAddressParam(), jobBuyerParam(), jobIDParam(),
	)

	s.mcpServer.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		signer, address, err := signerAndJob(request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		job, err := s.store.FundJob(ctx, signer, address)
		if err != nil {
			return errorResult("fund_job", err), nil
		}
		return jsonResult(job)
	})
}

// registerSubmitResultTool records the operator's outcome digest.
func (s *MCPServer) registerSubmitResultTool() {
	tool := mcp.NewTool("submit_result",
		mcp.WithDescription("Record the operator's 32-byte submission hash on a funded job. Only the hash goes on record, never the payload."),
		mcp.WithString("signer", mcp.Required(), mcp.Description("Operator key (base58)")),
		mcp.WithString("submission_hash", mcp.Required(), mcp.Description("Hex-encoded 32-byte digest of the outcome payload")),
		jobAddressParam(), jobBuyerParam(), jobIDParam(),
	)

	s.mcpServer.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		signer, address, err := signerAndJob(request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		hash, err := hashArg(request, "submission_hash")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		job, err := s.store.SubmitResult(ctx, signer, address, hash)
		if err != nil {
			return errorResult("submit_result", err), nil
		}
		return jsonResult(job)
	})
}

// registerReviewJobTool approves (settles in full) or rejects (disputes).
func (s *MCPServer) registerReviewJobTool() {
	tool := mcp.NewTool("review_job",
		mcp.WithDescription("Buyer review of a submitted job: approve settles at the full reward, reject opens a dispute."),
		mcp.WithString("signer", mcp.Required(), mcp.Description("Buyer key (base58)")),
		mcp.WithBoolean("approve", mcp.Required(), mcp.Description("true to approve and settle, false to dispute")),
		jobAddressParam(), jobBuyerParam(), jobIDParam(),
	)

	s.mcpServer.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		signer, address, err := signerAndJob(request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		approve := boolArg(request, "approve")
		job, err := s.store.ReviewJob(ctx, signer, address, approve)
		if err != nil {
			return errorResult("review_job", err), nil
		}
		return jsonResult(job)
	})
}

// registerTriggerTimeoutTool escalates a past-deadline job to arbitration.
func (s *MCPServer) registerTriggerTimeoutTool() {
	tool := mcp.NewTool("trigger_timeout",
		mcp.WithDescription("Escalate a funded or submitted job to dispute once its deadline has passed. Buyer or ops only."),
		mcp.WithString("signer", mcp.Required(), mcp.Description("Buyer or ops key (base58)")),
		jobAddressParam(), jobBuyerParam(), jobIDParam(),
	)

	s.mcpServer.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		signer, address, err := signerAndJob(request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		job, err := s.store.TriggerTimeout(ctx, signer, address)
		if err != nil {
			return errorResult("trigger_timeout", err), nil
		}
		return jsonResult(job)
	})
}

// registerResolveDisputeTool settles a disputed job at an ops-chosen payout.
func (s *MCPServer) registerResolveDisputeTool() {
	tool := mcp.NewTool("resolve_dispute",
		mcp.WithDescription("Ops resolution of a disputed job: settles at any payout from 0 to the full reward, with a short reason."),
		mcp.WithString("signer", mcp.Required(), mcp.Description("Ops key (base58)")),
		mcp.WithNumber("payout", mcp.Required(), mcp.Description("Amount awarded to the operator side, 0..reward")),
		mcp.WithString("reason", mcp.Description(fmt.Sprintf("Resolution reason, at most %d characters", escrow.MaxReasonLen))),
		jobAddressParam(), jobBuyerParam(), jobIDParam(),
	)

	s.mcpServer.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		signer, address, err := signerAndJob(request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		payout, err := uint64Arg(request, "payout")
		if err != nil {
			return errorResult("resolve_dispute", err), nil
		}
		reason := stringArg(request, "reason")
		job, err := s.store.ResolveDispute(ctx, signer, address, payout, reason)
		if err != nil {
			return errorResult("resolve_dispute", err), nil
		}
		return jsonResult(job)
	})
}

// registerGetJobTool fetches one job.
func (s *MCPServer) registerGetJobTool() {
	tool := mcp.NewTool("get_job",
		mcp.WithDescription("Fetch a job by address, or by (buyer, job_id) which derives the address."),
		jobAddressParam(), jobBuyerParam(), jobIDParam(),
	)

	s.mcpServer.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		address, err := jobAddress(request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		job, err := s.store.GetJob(ctx, address)
		if err != nil {
			return errorResult("get_job", err), nil
		}
		return jsonResult(job)
	})
}

// registerListJobsTool lists jobs with optional filters.
func (s *MCPServer) registerListJobsTool() {
	tool := mcp.NewTool("list_jobs",
		mcp.WithDescription("List jobs with optional buyer, operator, and status filters."),
		mcp.WithString("buyer", mcp.Description("Filter by buyer key (base58)")),
		mcp.WithString("operator", mcp.Description("Filter by operator key (base58)")),
		mcp.WithString("status", mcp.Description("Filter by status: created|funded|submitted|disputed|settled")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of jobs to return")),
		mcp.WithNumber("offset", mcp.Description("Number of jobs to skip")),
	)

	s.mcpServer.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		buyer, err := keyArg(request, "buyer", false)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		operator, err := keyArg(request, "operator", false)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		status, err := statusArg(request, "status")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		limit, err := uint64Arg(request, "limit")
		if err != nil {
			return errorResult("list_jobs", err), nil
		}
		offset, err := uint64Arg(request, "offset")
		if err != nil {
			return errorResult("list_jobs", err), nil
		}
		filter := escrow.JobFilter{
			Buyer:    buyer,
			Operator: operator,
			Status:   status,
			Limit:    int(limit),
			Offset:   int(offset),
		}
		jobs, err := s.store.ListJobs(ctx, filter)
		if err != nil {
			return errorResult("list_jobs", err), nil
		}
		return jsonResult(map[string]any{"jobs": jobs, "total": len(jobs)})
	})
}

// registerListEventsTool lists the audit event log.
func (s *MCPServer) registerListEventsTool() {
	tool := mcp.NewTool("list_events",
		mcp.WithDescription("List audit events in append order, optionally scoped to one job or event type."),
		mcp.WithString("job", mcp.Description("Filter by job address (base58)")),
		mcp.WithString("type", mcp.Description("Filter by event type")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of events to return")),
		mcp.WithNumber("offset", mcp.Description("Number of events to skip")),
	)

	s.mcpServer.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		job, err := keyArg(request, "job", false)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		limit, err := uint64Arg(request, "limit")
		if err != nil {
			return errorResult("list_events", err), nil
		}
		offset, err := uint64Arg(request, "offset")
		if err != nil {
			return errorResult("list_events", err), nil
		}
		filter := escrow.EventFilter{
			Job:    job,
			Type:   escrow.EventType(stringArg(request, "type")),
			Limit:  int(limit),
			Offset: int(offset),
		}
		events, err := s.store.ListEvents(ctx, filter)
		if err != nil {
			return errorResult("list_events", err), nil
		}
		return jsonResult(map[string]any{"events": events, "total": len(events)})
	})
}

// registerGetBalanceTool reads a ledger balance.
func (s *MCPServer) registerGetBalanceTool() {
	tool := mcp.NewTool("get_balance",
		mcp.WithDescription("Read the ledger balance of an account or job vault."),
		mcp.WithString("account", mcp.Required(), mcp.Description("Account key (base58)")),
	)

	s.mcpServer.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		account, err := keyArg(request, "account", true)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		balance, err := s.store.Balance(ctx, account)
		if err != nil {
			return errorResult("get_balance", err), nil
		}
		return jsonResult(map[string]any{"account": account.String(), "balance": balance})
	})
}

// registerCreditAccountTool tops up a ledger balance (payment rails hook).
func (s *MCPServer) registerCreditAccountTool() {
	tool := mcp.NewTool("credit_account",
		mcp.WithDescription("Credit an account balance. Used by the external payment rails to record deposits."),
		mcp.WithString("account", mcp.Required(), mcp.Description("Account key (base58)")),
		mcp.WithNumber("amount", mcp.Required(), mcp.Description("Amount in base units")),
	)

	s.mcpServer.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		account, err := keyArg(request, "account", true)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		amount, err := uint64Arg(request, "amount")
		if err != nil {
			return errorResult("credit_account", err), nil
		}
		balance, err := s.store.Credit(ctx, account, amount)
		if err != nil {
			return errorResult("credit_account", err), nil
		}
		return jsonResult(map[string]any{"account": account.String(), "balance": balance})
	})
}

// registerGetFundingInfoTool returns payment URI and QR for a created job.
func (s *MCPServer) registerGetFundingInfoTool() {
	tool := mcp.NewTool("get_funding_info",
		mcp.WithDescription("Get the payment URI and QR code for funding a created job's vault."),
		jobAddressParam(), jobBuyerParam(), jobIDParam(),
	)

	s.mcpServer.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		address, err := jobAddress(request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		job, err := s.store.GetJob(ctx, address)
		if err != nil {
			return errorResult("get_funding_info", err), nil
		}
		info, err := s.fundingSvc.FundingInfo(job)
		if err != nil {
			return errorResult("get_funding_info", err), nil
		}
		return jsonResult(info)
	})
}
