package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/modscope/modscope/importer"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type interactiveModel struct {
	err      error
	eng      *importer.Engine
	filename string
	result   string
	bindings []bindingInfo
	inputs   []textinput.Model
	selected int
	focusIdx int
	state    modelState
}

type bindingInfo struct {
	name  string
	value string
}

type modelState int

const (
	stateSelectBinding modelState = iota
	stateInputOptions
	stateShowResult
)

func newInteractiveModel(eng *importer.Engine, filename string) *interactiveModel {
	return &interactiveModel{
		eng:      eng,
		filename: filename,
		state:    stateSelectBinding,
	}
}

type loadedMsg struct {
	err      error
	bindings []bindingInfo
}

type importResultMsg struct {
	err    error
	result string
}

func (m *interactiveModel) Init() tea.Cmd {
	return m.loadModule
}

func (m *interactiveModel) loadModule() tea.Msg {
	ns, err := m.eng.Cache().GetOrLoad(context.Background(), absPath(m.filename))
	if err != nil {
		return loadedMsg{err: err}
	}

	var bindings []bindingInfo
	for _, name := range ns.Names() {
		v, _ := ns.Get(name)
		bindings = append(bindings, bindingInfo{
			name:  name,
			value: fmt.Sprintf("%v", v),
		})
	}
	return loadedMsg{bindings: bindings}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.state != stateInputOptions {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateSelectBinding && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectBinding && m.selected < len(m.bindings)-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case stateSelectBinding:
				m.prepareInputs()
				m.state = stateInputOptions

			case stateInputOptions:
				return m, m.runImport

			case stateShowResult:
				m.state = stateSelectBinding
				m.result = ""
				m.err = nil
			}

		case "tab":
			if m.state == stateInputOptions && len(m.inputs) > 1 {
				m.inputs[m.focusIdx].Blur()
				m.focusIdx = (m.focusIdx + 1) % len(m.inputs)
				m.inputs[m.focusIdx].Focus()
			}

		case "esc":
			switch m.state {
			case stateInputOptions:
				m.state = stateSelectBinding
				m.inputs = nil
			case stateShowResult:
				m.state = stateSelectBinding
				m.result = ""
				m.err = nil
			}
		}

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.bindings = msg.bindings

	case importResultMsg:
		m.result = msg.result
		m.err = msg.err
		m.state = stateShowResult
	}

	if m.state == stateInputOptions {
		var cmds []tea.Cmd
		for i := range m.inputs {
			var cmd tea.Cmd
			m.inputs[i], cmd = m.inputs[i].Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m *interactiveModel) prepareInputs() {
	b := m.bindings[m.selected]

	local := textinput.New()
	local.Prompt = "local name: "
	local.SetValue(b.name)
	local.Width = 30
	local.Focus()

	dest := textinput.New()
	dest.Prompt = "into namespace: "
	dest.SetValue(m.eng.Options().DefaultInto)
	dest.Width = 30

	m.inputs = []textinput.Model{local, dest}
	m.focusIdx = 0
}

func (m *interactiveModel) runImport() tea.Msg {
	b := m.bindings[m.selected]
	localName := strings.TrimSpace(m.inputs[0].Value())
	destName := strings.TrimSpace(m.inputs[1].Value())

	err := m.eng.ImportInto(context.Background(), destName, m.filename, nil,
		importer.AsFile(), importer.WithRename(localName, b.name))
	if err != nil {
		return importResultMsg{err: err}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "placed %s as %s in %q\n\n", b.name, localName, destName)
	sb.WriteString("search chain:\n")
	for _, name := range m.eng.Chain().Names() {
		ns := m.eng.Chain().Lookup(name)
		fmt.Fprintf(&sb, "  %s (%d bindings)\n", name, ns.Len())
	}
	return importResultMsg{result: sb.String()}
}

func (m *interactiveModel) View() string {
	if m.err != nil && m.state != stateShowResult {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}

	if len(m.bindings) == 0 {
		return "Loading module..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("modscope"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectBinding:
		b.WriteString("Select a binding to import:\n\n")
		for i, binding := range m.bindings {
			cursor := "  "
			line := nameStyle.Render(binding.name) + " = " + valueStyle.Render(binding.value)
			if i == m.selected {
				cursor = "> "
				b.WriteString(selectedStyle.Render(cursor + binding.name + " = " + binding.value))
			} else {
				b.WriteString(cursor + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter import • q quit"))

	case stateInputOptions:
		binding := m.bindings[m.selected]
		b.WriteString(fmt.Sprintf("Importing %s\n\n", nameStyle.Render(binding.name)))
		for _, input := range m.inputs {
			b.WriteString(input.View())
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("tab next field • enter import • esc back"))

	case stateShowResult:
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))
	}

	return b.String()
}

func runInteractive(eng *importer.Engine, filename string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("interactive mode requires a terminal")
	}
	p := tea.NewProgram(newInteractiveModel(eng, filename), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
