package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/matzehuels/magnetsheet/pkg/errors"
	"github.com/matzehuels/magnetsheet/pkg/order"
	"github.com/matzehuels/magnetsheet/pkg/sheet"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
	headerStyle  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// =============================================================================
// OrderConfirmModel - Review quantities before submitting
// =============================================================================

// OrderConfirmModel is the bubbletea model shown before an order is
// submitted. Quantities can be adjusted but never beyond the declared
// total; the order can only be confirmed once it validates.
type OrderConfirmModel struct {
	Info      order.Info
	Sources   []order.Source
	Cursor    int
	Confirmed bool
	Aborted   bool
	Problem   string
}

// NewOrderConfirmModel creates a confirmation model. Sources are copied,
// so quantity changes only reach the caller through the final model.
func NewOrderConfirmModel(info order.Info, sources []order.Source) OrderConfirmModel {
	m := OrderConfirmModel{
		Info:    info,
		Sources: append([]order.Source(nil), sources...),
	}
	m.Problem = m.problem()
	return m
}

func (m OrderConfirmModel) Init() tea.Cmd {
	return nil
}

func (m OrderConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "n", "ctrl+c", "esc":
		m.Aborted = true
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Sources)-1 {
			m.Cursor++
		}
	case "+", "right", "l":
		m.step(1)
	case "-", "left", "h":
		m.step(-1)
	case "y", "enter":
		if m.Problem == "" {
			m.Confirmed = true
			return m, tea.Quit
		}
	}
	return m, nil
}

// step changes the quantity under the cursor by delta, clamped so the
// order never exceeds its declared total.
func (m *OrderConfirmModel) step(delta int) {
	if len(m.Sources) == 0 {
		return
	}
	src := &m.Sources[m.Cursor]
	others := order.TotalQuantity(m.Sources) - max(src.Quantity, 0)
	src.Quantity = order.ClampQuantity(src.Quantity+delta, m.Info.TotalMagnets, others)
	m.Problem = m.problem()
}

func (m OrderConfirmModel) problem() string {
	if err := order.Validate(m.Info, m.Sources); err != nil {
		return errors.UserMessage(err)
	}
	return ""
}

func (m OrderConfirmModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Submit order #" + m.Info.OrderNumber))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(m.Info.CustomerName))
	if m.Info.Phone != "" {
		b.WriteString(StyleDim.Render(" · " + m.Info.Phone))
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ photo  ←/→ quantity  y submit  q cancel"))
	b.WriteString("\n\n")

	rows := make([][]string, len(m.Sources))
	for i, s := range m.Sources {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		size := "missing"
		if len(s.Data) > 0 {
			size = humanize.Bytes(uint64(len(s.Data)))
		}
		rows[i] = []string{cursor, s.ID, strconv.Itoa(s.Quantity), size}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Photo", "Qty", "Size").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row < len(m.Sources) && len(m.Sources[row].Data) == 0 {
				return lipgloss.NewStyle().Foreground(colorYellow)
			}
			if row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})
	b.WriteString(t.Render())
	b.WriteString("\n\n")

	total := order.TotalQuantity(m.Sources)
	b.WriteString(fmt.Sprintf("  %s %s / %d  %s %d\n",
		StyleDim.Render("magnets"),
		StyleNumber.Render(strconv.Itoa(total)), m.Info.TotalMagnets,
		StyleDim.Render("pages"), sheet.A4.Pages(total)))
	if m.Problem != "" {
		b.WriteString("  " + StyleWarning.Render(m.Problem) + "\n")
	}
	return b.String()
}
