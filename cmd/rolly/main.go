// Package main provides the rolly binary: a dice roller for chat-style
// "/roll" commands, usable one-shot, as a demo, or as an interactive console.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
