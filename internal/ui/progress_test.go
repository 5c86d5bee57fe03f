package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"logref/internal/driver"
)

func TestProgressModelTracksFiles(t *testing.T) {
	m := NewProgressModel("logref", nil, nil).(*progressModel)

	m.applyEvent(driver.Event{File: "src/a.rs", Stage: driver.StageScan, Status: driver.StatusQueued})
	m.applyEvent(driver.Event{File: "src/b.rs", Stage: driver.StageScan, Status: driver.StatusQueued})
	m.applyEvent(driver.Event{File: "src/a.rs", Stage: driver.StageScan, Status: driver.StatusWorking})
	m.applyEvent(driver.Event{File: "src/b.rs", Stage: driver.StageScan, Status: driver.StatusError})
	m.applyEvent(driver.Event{Stage: driver.StageClaim, Status: driver.StatusWorking})

	if len(m.items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(m.items))
	}
	if m.items[0].status != "scanning" {
		t.Fatalf("a.rs status = %q", m.items[0].status)
	}
	if m.items[1].status != "error" || !m.items[1].final {
		t.Fatalf("b.rs should be final error, got %+v", m.items[1])
	}
	if m.stageLabel != "claiming" {
		t.Fatalf("stage label = %q", m.stageLabel)
	}

	m.applyEvent(driver.Event{File: "src/a.rs", Stage: driver.StagePatch, Status: driver.StatusDone})
	if !m.items[0].final || m.items[0].status != "done" {
		t.Fatalf("a.rs should be done, got %+v", m.items[0])
	}

	view := m.View()
	for _, want := range []string{"logref (claiming)", "src/a.rs", "src/b.rs"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("src/very/long/path.rs", 10); got != "src/ver..." {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("src/very/long/path.rs", 3); got != "src" {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("короткий/путь.rs", 8); got != "корот..." {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("short.rs", 20); got != "short.rs" {
		t.Fatalf("truncate = %q", got)
	}
}

func TestCtrlCInterrupts(t *testing.T) {
	called := false
	m := NewProgressModel("logref", nil, func() { called = true })
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if !called {
		t.Fatal("interrupt was not called")
	}
	if got := m.(*progressModel).stageLabel; got != "cancelling" {
		t.Fatalf("stage label = %q", got)
	}
}
