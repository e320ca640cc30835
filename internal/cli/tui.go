package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/cargoplan/pkg/descriptor"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// featureItem is one row in the feature picker.
type featureItem struct {
	name      string
	activates []string // the feature's activation list, shown dimmed
	isDefault bool     // member of the default closure, preselected
}

// FeaturePickerModel is the bubbletea model for interactive feature selection.
type FeaturePickerModel struct {
	Items     []featureItem
	Checked   map[int]bool
	Cursor    int
	Confirmed bool
}

// NewFeaturePickerModel builds a picker over the descriptor's features.
// Members of the default feature's activation list start checked; the
// "default" pseudo-feature itself is not listed.
func NewFeaturePickerModel(d *descriptor.Descriptor) FeaturePickerModel {
	defaults := map[string]bool{}
	for _, entry := range d.DefaultFeatures() {
		defaults[entry] = true
	}

	var items []featureItem
	for _, name := range d.FeatureNames() {
		if name == "default" {
			continue
		}
		items = append(items, featureItem{
			name:      name,
			activates: d.Features[name],
			isDefault: defaults[name],
		})
	}

	checked := map[int]bool{}
	for i, item := range items {
		if item.isDefault {
			checked[i] = true
		}
	}
	return FeaturePickerModel{Items: items, Checked: checked}
}

func (m FeaturePickerModel) Init() tea.Cmd {
	return nil
}

func (m FeaturePickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Items)-1 {
				m.Cursor++
			}
		case " ":
			m.Checked[m.Cursor] = !m.Checked[m.Cursor]
		case "a":
			for i := range m.Items {
				m.Checked[i] = true
			}
		case "n":
			m.Checked = map[int]bool{}
		case "enter":
			m.Confirmed = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m FeaturePickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Features"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space toggle  a all  n none  ⏎ confirm  q quit"))
	b.WriteString("\n\n")

	for i, item := range m.Items {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		box := "[ ]"
		if m.Checked[i] {
			box = "[" + StyleSuccess.Render("x") + "]"
		}

		line := fmt.Sprintf("%s%s %-20s", cursor, box, item.name)
		if len(item.activates) > 0 {
			line += "  " + listDimStyle.Render(iconArrow+" "+strings.Join(item.activates, ", "))
		}

		switch {
		case i == m.Cursor:
			b.WriteString(listSelectedStyle.Render(line))
		case m.Checked[i]:
			b.WriteString(listNormalStyle.Render(line))
		default:
			b.WriteString(listDimStyle.Render(line))
		}
		b.WriteString("\n")
	}

	count := 0
	for _, v := range m.Checked {
		if v {
			count++
		}
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d of %d selected", count, len(m.Items))))

	return b.String()
}

// Selected returns the checked feature names in list order. The result is
// never nil: a confirmed empty selection is a valid request (resolve with
// no features), distinct from cancelling the picker.
func (m FeaturePickerModel) Selected() []string {
	out := []string{}
	for i, item := range m.Items {
		if m.Checked[i] {
			out = append(out, item.name)
		}
	}
	return out
}

// pickFeatures runs the interactive picker and returns the selection.
// Returns nil (and no error) only if the user cancelled; confirming with
// nothing checked returns an empty, non-nil slice.
func pickFeatures(d *descriptor.Descriptor) ([]string, error) {
	model := NewFeaturePickerModel(d)
	if len(model.Items) == 0 {
		return []string{}, nil
	}

	prog := tea.NewProgram(model)
	final, err := prog.Run()
	if err != nil {
		return nil, err
	}

	result, ok := final.(FeaturePickerModel)
	if !ok || !result.Confirmed {
		return nil, nil
	}
	return result.Selected(), nil
}
