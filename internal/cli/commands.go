// Package cli implements the non-TUI commands.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/kanbaru/walletbridge/internal/config"
	"github.com/kanbaru/walletbridge/internal/domain"
	"github.com/kanbaru/walletbridge/internal/services/wallet"
)

// Dependencies holds the services needed for CLI commands
type Dependencies struct {
	Config       *config.Config
	WalletClient *wallet.Client
	Logger       *slog.Logger
}

// NewDependencies creates a Dependencies instance with all required services
func NewDependencies(cfg *config.Config) *Dependencies {
	logger := slog.Default()

	timeout := time.Duration(cfg.Wallet.ProbeTimeoutMs) * time.Millisecond
	walletClient := wallet.NewClient(cfg.Wallet.Endpoint, timeout, logger)

	return &Dependencies{
		Config:       cfg,
		WalletClient: walletClient,
		Logger:       logger,
	}
}

// DoctorCommand runs every connection probe once and prints a report. It
// returns an error when any probe fails, so the exit code reflects wallet
// health.
func DoctorCommand(deps *Dependencies) error {
	ctx := context.Background()
	probes := deps.WalletClient.Probes(deps.Config.Wallet.ChainID)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PHASE\tRESULT\tELAPSED\tDETAIL")

	failures := 0
	for _, phase := range domain.PhaseOrder {
		p := probes.For(phase)

		start := time.Now()
		ok, err := p(ctx)
		elapsed := time.Since(start).Round(time.Millisecond)

		result := "ok"
		detail := ""
		if err != nil {
			ok = false
			detail = err.Error()
		}
		if !ok {
			result = "fail"
			failures++
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", phase, result, elapsed, detail)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d checks failed", failures, len(domain.PhaseOrder))
	}
	return nil
}
