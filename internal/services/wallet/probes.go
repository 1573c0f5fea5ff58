package wallet

import (
	"context"

	"github.com/kanbaru/walletbridge/internal/domain"
)

// Probe is an asynchronous boolean check backing one connection phase. A
// returned error and a false result are treated identically by the caller:
// the phase fails.
type Probe func(ctx context.Context) (bool, error)

// ProbeSet holds one probe per connection phase. Individual probes may be
// replaced, which is how tests and the doctor command inject fakes.
type ProbeSet struct {
	Installed      Probe
	Unlocked       Probe
	CorrectNetwork Probe
	AccountFetched Probe
}

// For returns the probe for the given phase, or nil if none is set.
func (p ProbeSet) For(phase domain.Phase) Probe {
	switch phase {
	case domain.PhaseInstalled:
		return p.Installed
	case domain.PhaseUnlocked:
		return p.Unlocked
	case domain.PhaseCorrectNetwork:
		return p.CorrectNetwork
	case domain.PhaseAccountFetched:
		return p.AccountFetched
	default:
		return nil
	}
}

// Probes derives the four phase probes from the client, expecting the
// provider to be on the given hex chain ID.
func (c *Client) Probes(chainID string) ProbeSet {
	return ProbeSet{
		Installed: func(ctx context.Context) (bool, error) {
			_, err := c.ClientVersion(ctx)
			if err != nil {
				return false, err
			}
			return true, nil
		},
		Unlocked: func(ctx context.Context) (bool, error) {
			accounts, err := c.Accounts(ctx)
			if err != nil {
				return false, err
			}
			return len(accounts) > 0, nil
		},
		CorrectNetwork: func(ctx context.Context) (bool, error) {
			current, err := c.ChainID(ctx)
			if err != nil {
				return false, err
			}
			if !ChainIDEqual(current, chainID) {
				return false, domain.ErrWrongChain
			}
			return true, nil
		},
		AccountFetched: func(ctx context.Context) (bool, error) {
			accounts, err := c.Accounts(ctx)
			if err != nil {
				return false, err
			}
			if len(accounts) == 0 {
				return false, domain.ErrNoAccounts
			}
			return true, nil
		},
	}
}
