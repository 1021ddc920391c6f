package main

import (
	"fmt"
	"testing"

	"github.com/yordihernandez1/trading-alert2/internal/config"
)

func TestRunFailsOnInvalidConfig(t *testing.T) {
	orig := loadConfigFunc
	defer func() { loadConfigFunc = orig }()
	loadConfigFunc = func() (*config.Config, error) {
		return nil, fmt.Errorf("BOT_TOKEN is required")
	}

	if err := run(); err == nil {
		t.Fatal("expected error when config loading fails")
	}
}

func TestMainExitsNonZeroOnFailure(t *testing.T) {
	origLoad := loadConfigFunc
	origExit := exitFunc
	defer func() {
		loadConfigFunc = origLoad
		exitFunc = origExit
	}()
	loadConfigFunc = func() (*config.Config, error) {
		return nil, fmt.Errorf("BOT_TOKEN is required")
	}
	code := 0
	exitFunc = func(c int) { code = c }

	main()
	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
}
