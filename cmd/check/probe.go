package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/brandpulse/ai-visibility/internal/completion"
	"github.com/brandpulse/ai-visibility/internal/config"
	"github.com/brandpulse/ai-visibility/internal/models"
	"github.com/brandpulse/ai-visibility/internal/platforms"
)

const probePrompt = "Reply with the single word OK."

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Send one short prompt to every platform to verify connectivity",
	RunE:  runProbe,
}

var probeTier string

func init() {
	probeCmd.Flags().StringVarP(&probeTier, "tier", "t", string(models.TierPremium), "Probe platforms up to this tier")
	rootCmd.AddCommand(probeCmd)
}

func runProbe(cmd *cobra.Command, _ []string) error {
	cfg := config.FromEnv()
	if err := cfg.ValidateBackends(); err != nil {
		return err
	}

	tier, err := platforms.ParseTier(probeTier)
	if err != nil {
		return err
	}

	completer, err := completion.NewDefaultRouter(cmd.Context(), cfg.LLMGatewayURL, cfg.LLMGatewayAPIKey, cfg.GeminiAPIKey)
	if err != nil {
		return fmt.Errorf("failed to initialize completion backends: %w", err)
	}

	if failed := probe(cmd.Context(), completer, platforms.ForTier(tier), cfg.CallTimeout, cmd.OutOrStdout()); failed > 0 {
		return fmt.Errorf("%d platform(s) unreachable", failed)
	}
	return nil
}

// probe checks each platform in turn and returns how many failed
func probe(ctx context.Context, completer completion.Completer, targets []platforms.Info, timeout time.Duration, w io.Writer) int {
	failed := 0
	for _, p := range targets {
		fmt.Fprintf(w, "%-22s %-36s ", p.DisplayName, p.ModelID)

		callCtx, cancel := context.WithTimeout(ctx, timeout)
		start := time.Now()
		text, err := completer.Complete(callCtx, completion.Request{
			UserPrompt: probePrompt,
			Model:      p.ModelID,
			MaxTokens:  5,
		})
		cancel()

		switch {
		case err != nil:
			failed++
			fmt.Fprintf(w, "ERROR %v\n", err)
		case strings.TrimSpace(text) == "":
			failed++
			fmt.Fprintln(w, "ERROR empty answer")
		default:
			fmt.Fprintf(w, "OK %s\n", time.Since(start).Round(time.Millisecond))
		}
	}
	return failed
}
