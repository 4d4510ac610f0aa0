package progress

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/shazow/wifimgr/internal/log"
	"github.com/shazow/wifimgr/wifi"
)

func TestModelShowsLatestLog(t *testing.T) {
	m := New("Connecting to HomeNet")

	r := slog.NewRecord(time.Now(), slog.LevelInfo, "checking connection", 0)
	r.AddAttrs(slog.Int("attempt", 2))
	updated, _ := m.Update(log.LogMsg(r))
	m = updated.(Model)

	view := m.View()
	if !strings.Contains(view, "Connecting to HomeNet") {
		t.Errorf("view is missing the title: %q", view)
	}
	if !strings.Contains(view, "checking connection attempt=2") {
		t.Errorf("view is missing the log line: %q", view)
	}
	if _, done := m.Result(); done {
		t.Error("model should not be done yet")
	}
}

func TestModelDone(t *testing.T) {
	m := New("Connecting")
	updated, cmd := m.Update(doneMsg{result: wifi.Result{Success: true, Message: "connected"}})
	m = updated.(Model)

	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected the command to quit")
	}
	result, done := m.Result()
	if !done || !result.Success {
		t.Errorf("unexpected result: %+v, done=%v", result, done)
	}
	if m.View() != "" {
		t.Errorf("expected the spinner to clear, got %q", m.View())
	}
}

func TestModelIgnoresInterrupt(t *testing.T) {
	m := New("Connecting")
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	m = updated.(Model)
	if cmd != nil {
		t.Error("ctrl+c should not quit while the request runs")
	}
	if !strings.Contains(m.View(), "still finishing") {
		t.Errorf("expected a notice, got %q", m.View())
	}
}

func TestRun(t *testing.T) {
	var out bytes.Buffer
	result := Run(&out, &bytes.Buffer{}, "Disconnecting", func() wifi.Result {
		return wifi.Result{Success: true, Message: "disconnected"}
	})
	if !result.Success || result.Message != "disconnected" {
		t.Errorf("unexpected result: %+v", result)
	}
}
