package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/user/vidplay/pkg/ports"
)

func TestConsoleLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewConsoleWriter(ports.LevelWarn, &buf, false)

	log.Debug("debug %d", 1)
	log.Info("info %d", 2)
	log.Warn("warn %d", 3)
	log.Error("error %d", 4)

	out := buf.String()
	if strings.Contains(out, "debug 1") || strings.Contains(out, "info 2") {
		t.Errorf("expected debug and info to be filtered, got %q", out)
	}
	if !strings.Contains(out, "warn 3") || !strings.Contains(out, "error 4") {
		t.Errorf("expected warn and error in output, got %q", out)
	}
}

func TestConsoleLogger_WithComponent(t *testing.T) {
	var buf bytes.Buffer
	log := NewConsoleWriter(ports.LevelDebug, &buf, false).WithComponent("decoder")

	log.Info("hello")

	if got := strings.TrimSpace(buf.String()); got != "[decoder] hello" {
		t.Errorf("expected component prefix, got %q", got)
	}
}

func TestConsoleLogger_Color(t *testing.T) {
	var buf bytes.Buffer
	log := NewConsoleWriter(ports.LevelDebug, &buf, true)

	log.Error("boom")

	if !strings.HasPrefix(buf.String(), colorRed) {
		t.Errorf("expected red error output, got %q", buf.String())
	}
}

func TestNoopLogger(t *testing.T) {
	log := NewNoop()
	log.Info("nothing")
	if log.WithComponent("x") != ports.Logger(log) {
		t.Error("expected WithComponent to return the same logger")
	}
}
