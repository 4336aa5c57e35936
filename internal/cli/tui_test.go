package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/magnetsheet/pkg/order"
)

func confirmModel(qty ...int) OrderConfirmModel {
	total := 0
	sources := make([]order.Source, len(qty))
	for i, q := range qty {
		total += q
		sources[i] = order.Source{ID: string(rune('a' + i)), Data: []byte("png"), Quantity: q}
	}
	info := order.Info{OrderNumber: "7", CustomerName: "Bo", TotalMagnets: total}
	return NewOrderConfirmModel(info, sources)
}

func press(m OrderConfirmModel, keys ...string) (OrderConfirmModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(OrderConfirmModel)
	}
	return m, cmd
}

func TestOrderConfirmSubmit(t *testing.T) {
	m, cmd := press(confirmModel(2, 1), "y")
	if !m.Confirmed || cmd == nil {
		t.Error("valid order should confirm and quit")
	}
}

func TestOrderConfirmAbort(t *testing.T) {
	m, cmd := press(confirmModel(2, 1), "esc")
	if !m.Aborted || m.Confirmed || cmd == nil {
		t.Errorf("esc: aborted=%v confirmed=%v", m.Aborted, m.Confirmed)
	}
}

func TestOrderConfirmClampsQuantity(t *testing.T) {
	m := confirmModel(2, 1)

	m, _ = press(m, "+")
	if m.Sources[0].Quantity != 2 {
		t.Errorf("increment past total gave %d, want 2", m.Sources[0].Quantity)
	}

	m, _ = press(m, "-")
	if m.Sources[0].Quantity != 1 || m.Problem == "" {
		t.Errorf("after decrement qty = %d, problem = %q", m.Sources[0].Quantity, m.Problem)
	}

	m, cmd := press(m, "enter")
	if m.Confirmed || cmd != nil {
		t.Error("an order that no longer adds up should not confirm")
	}

	m, _ = press(m, "down", "+")
	if m.Sources[1].Quantity != 2 || m.Problem != "" {
		t.Errorf("second photo qty = %d, problem = %q", m.Sources[1].Quantity, m.Problem)
	}

	m, _ = press(m, "-", "-", "-")
	if m.Sources[1].Quantity != 0 {
		t.Errorf("decrement below zero gave %d", m.Sources[1].Quantity)
	}
}

func TestOrderConfirmDoesNotShareSources(t *testing.T) {
	sources := []order.Source{{ID: "a", Data: []byte("x"), Quantity: 1}}
	m := NewOrderConfirmModel(order.Info{OrderNumber: "1", CustomerName: "C", TotalMagnets: 2}, sources)
	m, _ = press(m, "+")
	if sources[0].Quantity != 1 || m.Sources[0].Quantity != 2 {
		t.Errorf("caller qty = %d, model qty = %d", sources[0].Quantity, m.Sources[0].Quantity)
	}
}

func TestOrderConfirmView(t *testing.T) {
	m := confirmModel(3)
	m.Sources[0].Data = nil
	view := m.View()
	for _, want := range []string{"Submit order #7", "missing", "3 / 3"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}
