package domain

// Phase is one step of the fixed wallet-connection verification sequence.
// The order of the sequence is total: PhaseOrder defines the only legal
// advancement path.
type Phase string

const (
	// PhaseInstalled checks that a wallet provider is reachable at all.
	PhaseInstalled Phase = "installed"
	// PhaseUnlocked checks that the wallet is unlocked and exposes accounts.
	PhaseUnlocked Phase = "unlocked"
	// PhaseCorrectNetwork checks that the provider is on the expected chain.
	PhaseCorrectNetwork Phase = "correctNetwork"
	// PhaseAccountFetched retrieves the active account address.
	PhaseAccountFetched Phase = "accountFetched"
)

// PhaseOrder is the fixed advancement order of the connection flow.
var PhaseOrder = []Phase{
	PhaseInstalled,
	PhaseUnlocked,
	PhaseCorrectNetwork,
	PhaseAccountFetched,
}

// FirstPhase returns the entry phase of the flow.
func FirstPhase() Phase {
	return PhaseOrder[0]
}

// LastPhase returns the final phase of the flow.
func LastPhase() Phase {
	return PhaseOrder[len(PhaseOrder)-1]
}

// NextPhase returns the phase immediately following p in the fixed order.
// ok is false when p is the last phase.
func NextPhase(p Phase) (next Phase, ok bool) {
	for i, candidate := range PhaseOrder {
		if candidate == p && i+1 < len(PhaseOrder) {
			return PhaseOrder[i+1], true
		}
	}
	return "", false
}

// Valid reports whether p is one of the four known phases.
func (p Phase) Valid() bool {
	for _, candidate := range PhaseOrder {
		if candidate == p {
			return true
		}
	}
	return false
}

// Label returns the human-readable checklist label for the phase.
func (p Phase) Label() string {
	switch p {
	case PhaseInstalled:
		return "Wallet extension detected"
	case PhaseUnlocked:
		return "Wallet unlocked"
	case PhaseCorrectNetwork:
		return "Connected to the right network"
	case PhaseAccountFetched:
		return "Account retrieved"
	default:
		return string(p)
	}
}

// String returns the wire/storage identifier of the phase.
func (p Phase) String() string {
	return string(p)
}
