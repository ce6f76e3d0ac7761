package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vyrodovalexey/shoppinglist/internal/dialog"
	"github.com/vyrodovalexey/shoppinglist/internal/model"
)

// View implements tea.Model.
func (m Model) View() string {
	sections := []string{
		titleStyle.Render("Shopping List"),
		m.renderItems(),
	}

	if m.state.Dialog.IsOpen() {
		sections = append(sections, m.renderDialog())
		sections = append(sections, helpStyle.Render(m.help.View(m.dialogKeys)))
	} else {
		sections = append(sections, helpStyle.Render(m.help.View(m.listKeys)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderItems() string {
	if len(m.state.Items) == 0 {
		return emptyStyle.Render("No items yet. Press a to add one.")
	}

	rows := make([]string, 0, len(m.state.Items))
	for _, item := range m.state.Items {
		rows = append(rows, m.renderRow(item))
	}
	return strings.Join(rows, "\n")
}

func (m Model) renderRow(item model.ShoppingItem) string {
	name := lipgloss.NewStyle().Width(nameColumnWidth).Render(item.Name)
	qty := quantityStyle.Render(fmt.Sprintf("Qty: %d", item.Quantity))

	if item.ID == m.selectedID {
		return selectedRowStyle.Render("> " + name + qty)
	}
	return rowStyle.Render("  " + name + qty)
}

func (m Model) renderDialog() string {
	title := "Add Item"
	confirm := "Add"
	if m.state.Dialog.State == dialog.OpenForEdit {
		title = "Edit Item"
		confirm = "Save"
	}

	nameLabel, quantityLabel := labelStyle, labelStyle
	if m.focus == fieldName {
		nameLabel = focusedLabelStyle
	} else {
		quantityLabel = focusedLabelStyle
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		dialogTitleStyle.Render(title),
		nameLabel.Render("Item Name"),
		m.nameInput.View(),
		"",
		quantityLabel.Render("Item Quantity"),
		m.quantityInput.View(),
		"",
		labelStyle.Render(fmt.Sprintf("enter: %s  esc: Cancel", confirm)),
	)

	return dialogStyle.Render(body)
}
