package tui

import "github.com/subwatch-ai/subwatch/internal/engine"

// Async operation messages.
type scanDoneMsg struct {
	err    error
	result engine.ScanResult
}

type tipsLoadedMsg struct {
	tips []string
}

type errorMsg struct {
	err error
}
