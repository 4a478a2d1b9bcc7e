package mcp

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/c4stleone/SOLHeaven/core/escrow"
)

// Shared job-locator parameters: tools accept either the job address or the
// (buyer, job_id) pair it derives from.
func jobAddressParam() mcp.ToolOption {
	return mcp.WithString("address", mcp.Description("Job address (base58); alternative to buyer+job_id"))
}

func jobBuyerParam() mcp.ToolOption {
	return mcp.WithString("buyer", mcp.Description("Buyer key (base58), used with job_id to derive the address"))
}

func jobIDParam() mcp.ToolOption {
	return mcp.WithNumber("job_id", mcp.Description("Job id, used with buyer to derive the address"))
}

func stringArg(request mcp.CallToolRequest, name string) string {
	if v, ok := request.GetArguments()[name].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

// uint64Arg parses a numeric argument. Negative, fractional, or non-numeric
// values are rejected rather than clamped, so a bad amount never reaches the
// engine as a different amount.
func uint64Arg(request mcp.CallToolRequest, name string) (uint64, error) {
	raw, ok := request.GetArguments()[name]
	if !ok || raw == nil {
		return 0, nil
	}
	switch v := raw.(type) {
	case float64:
		if v < 0 || v != math.Trunc(v) {
			return 0, fmt.Errorf("%w: %s must be a non-negative integer", escrow.ErrValidation, name)
		}
		return uint64(v), nil
	case int:
		if v < 0 {
			return 0, fmt.Errorf("%w: %s must be a non-negative integer", escrow.ErrValidation, name)
		}
		return uint64(v), nil
	case int64:
		if v < 0 {
			return 0, fmt.Errorf("%w: %s must be a non-negative integer", escrow.ErrValidation, name)
		}
		return uint64(v), nil
	case json.Number:
		n, err := v.Int64()
		if err != nil || n < 0 {
			return 0, fmt.Errorf("%w: %s must be a non-negative integer", escrow.ErrValidation, name)
		}
		return uint64(n), nil
	default:
		return 0, fmt.Errorf("%w: %s must be a number", escrow.ErrValidation, name)
	}
}

// feeBpsArg parses a basis-point argument, rejecting values above MaxFeeBps
// before the narrowing conversion so oversized inputs cannot wrap into range.
func feeBpsArg(request mcp.CallToolRequest, name string) (uint16, error) {
	v, err := uint64Arg(request, name)
	if err != nil {
		return 0, err
	}
	if v > escrow.MaxFeeBps {
		return 0, escrow.ErrInvalidFeeBps
	}
	return uint16(v), nil
}

func boolArg(request mcp.CallToolRequest, name string) bool {
	v, _ := request.GetArguments()[name].(bool)
	return v
}

func keyArg(request mcp.CallToolRequest, name string, required bool) (escrow.Key, error) {
	raw := stringArg(request, name)
	if raw == "" {
		if required {
			return escrow.Key{}, fmt.Errorf("%s is required", name)
		}
		return escrow.Key{}, nil
	}
	key, err := escrow.ParseKey(raw)
	if err != nil {
		return escrow.Key{}, fmt.Errorf("invalid %s: %v", name, err)
	}
	return key, nil
}

func timeArg(request mcp.CallToolRequest, name string) (time.Time, error) {
	raw := stringArg(request, name)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s: expected RFC3339 timestamp", name)
	}
	return t, nil
}

func hashArg(request mcp.CallToolRequest, name string) ([32]byte, error) {
	var hash [32]byte
	raw := stringArg(request, name)
	decoded, err := hex.DecodeString(raw)
	if err != nil {
		return hash, fmt.Errorf("invalid %s: expected hex", name)
	}
	if len(decoded) != len(hash) {
		return hash, fmt.Errorf("invalid %s: expected %d bytes, got %d", name, len(hash), len(decoded))
	}
	copy(hash[:], decoded)
	return hash, nil
}

func statusArg(request mcp.CallToolRequest, name string) (*escrow.JobStatus, error) {
	raw := stringArg(request, name)
	if raw == "" {
		return nil, nil
	}
	for _, status := range []escrow.JobStatus{
		escrow.StatusCreated, escrow.StatusFunded, escrow.StatusSubmitted,
		escrow.StatusDisputed, escrow.StatusSettled,
	} {
		if strings.EqualFold(raw, status.String()) {
			s := status
			return &s, nil
		}
	}
	return nil, fmt.Errorf("invalid %s: %q", name, raw)
}

// jobAddress resolves the target job from either an explicit address or the
// (buyer, job_id) pair.
func jobAddress(request mcp.CallToolRequest) (escrow.Key, error) {
	if raw := stringArg(request, "address"); raw != "" {
		return escrow.ParseKey(raw)
	}
	buyer, err := keyArg(request, "buyer", false)
	if err != nil {
		return escrow.Key{}, err
	}
	if buyer.IsZero() {
		return escrow.Key{}, fmt.Errorf("address or buyer+job_id is required")
	}
	jobID, err := uint64Arg(request, "job_id")
	if err != nil {
		return escrow.Key{}, err
	}
	return escrow.JobAddress(buyer, jobID), nil
}

func signerAndJob(request mcp.CallToolRequest) (escrow.Key, escrow.Key, error) {
	signer, err := keyArg(request, "signer", true)
	if err != nil {
		return escrow.Key{}, escrow.Key{}, err
	}
	address, err := jobAddress(request)
	if err != nil {
		return escrow.Key{}, escrow.Key{}, err
	}
	return signer, address, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(payload)), nil
}

// errorResult maps engine failures to tool errors tagged with the failure
// class, so agents can tell a role mismatch from a bad input.
func errorResult(instruction string, err error) *mcp.CallToolResult {
	class := "error"
	switch {
	case errors.Is(err, escrow.ErrAuthorization):
		class = "authorization_error"
	case errors.Is(err, escrow.ErrState):
		class = "state_error"
	case errors.Is(err, escrow.ErrTiming):
		class = "timing_error"
	case errors.Is(err, escrow.ErrValidation):
		class = "validation_error"
	}
	return mcp.NewToolResultError(fmt.Sprintf("%s failed (%s): %v", instruction, class, err))
}
