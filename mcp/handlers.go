package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/cohort-labs/cohort/domain"
	"github.com/cohort-labs/cohort/service"
)

// HandlerSet exposes MCP tool handlers with shared dependencies.
type HandlerSet struct {
	deps *Dependencies
}

// NewHandlerSet constructs a handler set.
func NewHandlerSet(deps *Dependencies) *HandlerSet {
	if deps == nil {
		deps = NewDependencies(nil, "")
	}
	return &HandlerSet{deps: deps}
}

// HandleClusterSurvey handles the cluster_survey tool
func (h *HandlerSet) HandleClusterSurvey(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	path, ok := args["path"].(string)
	if !ok {
		return mcp.NewToolResultError("path parameter is required and must be a string"), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return mcp.NewToolResultError(fmt.Sprintf("path does not exist: %s", path)), nil
	}

	req := h.baseRequest(path)
	if alg, ok := args["algorithm"].(string); ok {
		parsed, err := domain.ParseAlgorithm(alg)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		req.Algorithm = parsed
	}
	if k, ok := args["k"].(float64); ok {
		req.K = int(k)
	}
	if mi, ok := args["max_iterations"].(float64); ok {
		req.MaxIter = int(mi)
	}
	if seed, ok := args["seed"].(float64); ok {
		req.Seed = int64(seed)
		req.Seeded = true
	}

	useCase, err := h.deps.BuildClusterUseCase()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to create use case: %v", err)), nil
	}

	response, err := useCase.ExecuteAndReturn(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("clustering failed: %v", err)), nil
	}

	outputMode := "summary"
	if om, ok := args["output_mode"].(string); ok {
		outputMode = om
	}

	var responseData interface{}
	switch outputMode {
	case "full":
		responseData = response
	default:
		responseData = summarizeResponse(response)
	}

	jsonData, err := json.Marshal(responseData)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

// HandleSweepK handles the sweep_k tool
func (h *HandlerSet) HandleSweepK(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	path, ok := args["path"].(string)
	if !ok {
		return mcp.NewToolResultError("path parameter is required and must be a string"), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return mcp.NewToolResultError(fmt.Sprintf("path does not exist: %s", path)), nil
	}

	req := h.baseRequest(path)
	if alg, ok := args["algorithm"].(string); ok {
		parsed, err := domain.ParseAlgorithm(alg)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		req.Algorithm = parsed
	}
	if kMin, ok := args["k_min"].(float64); ok {
		req.KMin = int(kMin)
	}
	if kMax, ok := args["k_max"].(float64); ok {
		req.KMax = int(kMax)
	}
	if mi, ok := args["max_iterations"].(float64); ok {
		req.MaxIter = int(mi)
	}
	if seed, ok := args["seed"].(float64); ok {
		req.Seed = int64(seed)
		req.Seeded = true
	}

	useCase, err := h.deps.BuildClusterUseCase()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to create use case: %v", err)), nil
	}

	response, err := useCase.ExecuteSweepAndReturn(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("k sweep failed: %v", err)), nil
	}

	outputMode := "summary"
	if om, ok := args["output_mode"].(string); ok {
		outputMode = om
	}

	var responseData interface{}
	switch outputMode {
	case "full":
		responseData = response
	default:
		responseData = summarizeSweep(response)
	}

	jsonData, err := json.Marshal(responseData)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

// HandleImputeDataset handles the impute_dataset tool
func (h *HandlerSet) HandleImputeDataset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	path, ok := args["path"].(string)
	if !ok {
		return mcp.NewToolResultError("path parameter is required and must be a string"), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return mcp.NewToolResultError(fmt.Sprintf("path does not exist: %s", path)), nil
	}

	useCase, err := h.deps.BuildClusterUseCase()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to create use case: %v", err)), nil
	}

	dataset, filled, err := useCase.ExecuteImputeAndReturn(ctx, h.baseRequest(path))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("imputation failed: %v", err)), nil
	}

	responseData := map[string]interface{}{
		"imputed_cells": filled,
		"respondents":   len(dataset.Respondents),
		"questions":     len(dataset.Questions),
		"dataset":       service.BuildDatasetDocument(dataset),
	}

	jsonData, err := json.Marshal(responseData)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

// baseRequest builds a request seeded from the loaded configuration.
func (h *HandlerSet) baseRequest(path string) domain.ClusterRequest {
	req := *domain.DefaultClusterRequest()
	req.Paths = []string{path}
	req.OutputFormat = domain.OutputFormatJSON
	req.OutputWriter = io.Discard
	req.ConfigPath = h.deps.ConfigPath()

	if cfg := h.deps.Config(); cfg != nil {
		if alg, err := domain.ParseAlgorithm(cfg.Cluster.Algorithm); err == nil {
			req.Algorithm = alg
		}
		if cfg.Cluster.K > 0 {
			req.K = cfg.Cluster.K
		}
		if cfg.Cluster.KMin > 0 {
			req.KMin = cfg.Cluster.KMin
		}
		if cfg.Cluster.KMax > 0 {
			req.KMax = cfg.Cluster.KMax
		}
		if cfg.Cluster.MaxIterations > 0 {
			req.MaxIter = cfg.Cluster.MaxIterations
		}
		if cfg.Cluster.Seeded {
			req.Seed = cfg.Cluster.Seed
			req.Seeded = true
		}
		if len(cfg.Analysis.IncludePatterns) > 0 {
			req.IncludePatterns = cfg.Analysis.IncludePatterns
		}
	}
	return req
}

// summarizeResponse reduces a clustering response to high-level metrics.
func summarizeResponse(response *domain.ClusterResponse) map[string]interface{} {
	summary := map[string]interface{}{
		"success":     response.Success,
		"duration_ms": response.Duration,
	}
	if response.Statistics != nil {
		summary["respondents"] = response.Statistics.Respondents
		summary["questions"] = response.Statistics.Questions
		summary["missing_cells"] = response.Statistics.MissingCells
		summary["imputed_cells"] = response.Statistics.ImputedCells
	}
	if best := response.Best; best != nil {
		summary["algorithm"] = best.Algorithm
		summary["k"] = best.K
		summary["iterations"] = best.Iterations
		summary["silhouette"] = best.Silhouette
		summary["silhouette_label"] = domain.InterpretSilhouette(best.Silhouette)
		summary["inertia"] = best.Inertia
		summary["cluster_sizes"] = best.ClusterSizes()
	}
	if len(response.Groups) > 0 {
		summary["groups"] = response.Groups
	}
	return summary
}

// summarizeSweep reduces a sweep response to per-k metrics plus the winner.
func summarizeSweep(response *domain.ClusterResponse) map[string]interface{} {
	candidates := make([]map[string]interface{}, 0, len(response.Results))
	for _, result := range response.Results {
		candidates = append(candidates, map[string]interface{}{
			"k":          result.K,
			"silhouette": result.Silhouette,
			"inertia":    result.Inertia,
			"iterations": result.Iterations,
		})
	}

	summary := summarizeResponse(response)
	summary["candidates"] = candidates
	if response.Best != nil {
		summary["best_k"] = response.Best.K
	}
	return summary
}
