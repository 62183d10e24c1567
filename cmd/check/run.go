package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/brandpulse/ai-visibility/internal/completion"
	"github.com/brandpulse/ai-visibility/internal/config"
	"github.com/brandpulse/ai-visibility/internal/models"
	"github.com/brandpulse/ai-visibility/internal/monitoring"
	"github.com/brandpulse/ai-visibility/internal/storage"
)

var (
	checkBrand           string
	checkDomain          string
	checkIndustry        string
	checkRegion          string
	checkCompetitors     []string
	checkStages          []string
	checkPlatforms       []string
	checkTier            string
	checkPromptsPerStage int
	checkSearchVolume    int
	checkCurrentTraffic  int
	checkWithHistory     bool
	checkVerbose         bool
)

// output is what the command prints
type output struct {
	Check   *models.AICheckResult   `json:"check"`
	Traffic *models.TrafficEstimate `json:"traffic"`
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&checkBrand, "brand", "b", "", "Brand name to check (defaults to BRAND_NAME)")
	flags.StringVarP(&checkDomain, "domain", "d", "", "Brand website, used to detect citations of your own site")
	flags.StringVarP(&checkIndustry, "industry", "i", "", "Industry used for questions and traffic benchmarks")
	flags.StringVarP(&checkRegion, "region", "r", "", "Market region, e.g. us, uk, de")
	flags.StringSliceVarP(&checkCompetitors, "competitors", "c", nil, "Competitor names (comma separated)")
	flags.StringSliceVar(&checkStages, "stages", nil, "Journey stages: awareness, consideration, decision, branded")
	flags.StringSliceVarP(&checkPlatforms, "platforms", "p", nil, "Explicit platform keys; overrides --tier")
	flags.StringVarP(&checkTier, "tier", "t", "", "Platform tier ceiling: core, extended or premium")
	flags.IntVar(&checkPromptsPerStage, "prompts-per-stage", 0, "Questions per journey stage (1-3)")
	flags.IntVar(&checkSearchVolume, "search-volume", 0, "Monthly search volume for the brand's category")
	flags.IntVar(&checkCurrentTraffic, "current-traffic", 0, "Current monthly site traffic, for context")
	flags.BoolVar(&checkWithHistory, "history", false, "Store the check and compare with earlier ones in Azure Blob Storage")
	flags.BoolVarP(&checkVerbose, "verbose", "v", false, "Log every platform call")
}

func runCheck(cmd *cobra.Command, _ []string) error {
	if checkVerbose {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.WarnLevel)
	}

	cfg := config.FromEnv()
	if err := cfg.ValidateBackends(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	completer, err := completion.NewDefaultRouter(ctx, cfg.LLMGatewayURL, cfg.LLMGatewayAPIKey, cfg.GeminiAPIKey)
	if err != nil {
		return fmt.Errorf("failed to initialize completion backends: %w", err)
	}

	var store storage.StorageInterface
	if checkWithHistory {
		if cfg.StorageAccount == "" {
			return fmt.Errorf("--history requires AZURE_STORAGE_ACCOUNT")
		}
		if store, err = storage.NewAzureStorage(ctx, cfg.StorageAccount, cfg.StorageContainer); err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
	}

	svc := monitoring.NewService(cfg, store, nil, completer)
	return execute(ctx, svc, cfg, cmd.OutOrStdout())
}

// execute runs the check described by the flags and writes the JSON output
func execute(ctx context.Context, svc *monitoring.Service, cfg *config.Config, w io.Writer) error {
	req := buildRequest(cfg)

	check, err := svc.RunCheck(ctx, req)
	if err != nil {
		return err
	}

	estimate, err := svc.Estimate(ctx, check, monitoring.EstimateRequest{
		MonthlySearchVolume:   checkSearchVolume,
		CurrentMonthlyTraffic: checkCurrentTraffic,
		Industry:              req.Industry,
		UseHistory:            checkWithHistory,
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(output{Check: check, Traffic: estimate})
}

// buildRequest fills unset flags from the configured brand
func buildRequest(cfg *config.Config) monitoring.CheckRequest {
	req := monitoring.CheckRequest{
		Brand:           checkBrand,
		Domain:          checkDomain,
		Industry:        checkIndustry,
		Region:          checkRegion,
		Competitors:     checkCompetitors,
		Stages:          checkStages,
		Platforms:       checkPlatforms,
		Tier:            checkTier,
		PromptsPerStage: checkPromptsPerStage,
	}
	if req.Brand == "" {
		req.Brand = cfg.BrandName
		if req.Domain == "" {
			req.Domain = cfg.BrandDomain
		}
		if len(req.Competitors) == 0 {
			req.Competitors = cfg.Competitors
		}
	}
	if req.Industry == "" {
		req.Industry = cfg.BrandIndustry
	}
	if req.Region == "" {
		req.Region = cfg.BrandRegion
	}
	if len(req.Stages) == 0 {
		req.Stages = cfg.JourneyStages
	}
	return req
}
