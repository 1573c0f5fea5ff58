// Package main provides the entry point for the walletbridge TUI.
//
// walletbridge walks a BSC wallet connection through four verification
// phases (provider detected, wallet unlocked, right network, account
// retrieved) and shows a live checklist plus a per-phase timeline.
//
// Usage:
//
//	walletbridge          start the TUI
//	walletbridge doctor   run every connection probe once and print a report
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/kanbaru/walletbridge/internal/app"
	"github.com/kanbaru/walletbridge/internal/cli"
	"github.com/kanbaru/walletbridge/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if len(os.Args) > 1 && os.Args[1] == "doctor" {
		deps := cli.NewDependencies(cfg)
		if err := cli.DoctorCommand(deps); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	model := app.New(cfg)
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
