package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterTools registers all cohort MCP tools with the server
func RegisterTools(s *server.MCPServer, handlers *HandlerSet) {
	// Tool 1: cluster_survey - Cluster a survey dataset at a fixed k
	s.AddTool(mcp.NewTool("cluster_survey",
		mcp.WithDescription("Cluster survey respondents into k groups using K-Means, K-Means++, or K-Medoids over mixed-type answers"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to a survey dataset file (JSON or YAML)")),
		mcp.WithString("algorithm",
			mcp.Description("Clustering algorithm: kmeans, kmeans++, kmedoids (default: kmedoids)")),
		mcp.WithNumber("k",
			mcp.Description("Number of clusters (default: 3)")),
		mcp.WithNumber("max_iterations",
			mcp.Description("Iteration cap per run (default: 50)")),
		mcp.WithNumber("seed",
			mcp.Description("Random seed for reproducible runs")),
		mcp.WithString("output_mode",
			mcp.Description("Response detail: summary or full (default: summary)")),
	), handlers.HandleClusterSurvey)

	// Tool 2: sweep_k - Try a range of k values and pick the best
	s.AddTool(mcp.NewTool("sweep_k",
		mcp.WithDescription("Cluster a survey dataset for every k in a range and report the best silhouette"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to a survey dataset file (JSON or YAML)")),
		mcp.WithString("algorithm",
			mcp.Description("Clustering algorithm: kmeans, kmeans++, kmedoids (default: kmedoids)")),
		mcp.WithNumber("k_min",
			mcp.Description("Smallest k to try (default: 2)")),
		mcp.WithNumber("k_max",
			mcp.Description("Largest k to try (default: 8)")),
		mcp.WithNumber("max_iterations",
			mcp.Description("Iteration cap per run (default: 50)")),
		mcp.WithNumber("seed",
			mcp.Description("Random seed for reproducible runs")),
		mcp.WithString("output_mode",
			mcp.Description("Response detail: summary or full (default: summary)")),
	), handlers.HandleSweepK)

	// Tool 3: impute_dataset - Fill missing answers
	s.AddTool(mcp.NewTool("impute_dataset",
		mcp.WithDescription("Fill every missing answer in a survey dataset using the five nearest complete respondents"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to a survey dataset file (JSON or YAML)")),
	), handlers.HandleImputeDataset)
}
