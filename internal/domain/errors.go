package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	ErrOffline      = errors.New("offline")
	ErrUserCanceled = errors.New("user canceled")
	ErrNoAccounts   = errors.New("no accounts available")
	ErrWrongChain   = errors.New("connected to the wrong chain")
)

// RPCError represents an error from a wallet node JSON-RPC call
type RPCError struct {
	Method  string // RPC method: "eth_accounts", "eth_chainId", etc.
	Code    int    // JSON-RPC error code, 0 if transport-level
	Message string // Human-readable context
	Err     error  // Underlying error
}

func (e *RPCError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("rpc %s: [%d] %s", e.Method, e.Code, e.Message)
	}
	if e.Message != "" {
		return fmt.Sprintf("rpc %s: %s", e.Method, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("rpc %s: %v", e.Method, e.Err)
	}
	return fmt.Sprintf("rpc %s failed", e.Method)
}

func (e *RPCError) Unwrap() error {
	return e.Err
}

// StorageError represents an error from the connection-storage adapter
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("storage %s [%s]: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
