package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/membridge/arena"
	"github.com/wippyai/membridge/bridge"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	scoreStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type fieldKind int

const (
	fieldInt fieldKind = iota
	fieldFloat
	fieldText
)

type fieldSpec struct {
	label   string
	initial string
	kind    fieldKind
}

var fields = []fieldSpec{
	{label: "signals", initial: "45", kind: fieldInt},
	{label: "opportunities", initial: "8", kind: fieldInt},
	{label: "strength", initial: "1.247", kind: fieldFloat},
	{label: "price min", initial: "3420", kind: fieldFloat},
	{label: "price max", initial: "3580", kind: fieldFloat},
	{label: "liquidity", initial: "12500000", kind: fieldInt},
	{label: "strategy", initial: "ETH Statistical Arbitrage", kind: fieldText},
	{label: "timeframe", initial: "24h", kind: fieldText},
}

type modelState int

const (
	stateInputFields modelState = iota
	stateShowResult
)

type interactiveModel struct {
	err      error
	inputs   []textinput.Model
	focusIdx int
	state    modelState
	score    float64
	posts    []modeResult
}

type modeResult struct {
	mode    bridge.Mode
	content string
}

func newInteractiveModel() *interactiveModel {
	inputs := make([]textinput.Model, len(fields))
	for i, f := range fields {
		ti := textinput.New()
		ti.Prompt = f.label + ": "
		ti.SetValue(f.initial)
		ti.Width = 40
		if i == 0 {
			ti.Focus()
		}
		inputs[i] = ti
	}
	return &interactiveModel{inputs: inputs}
}

func (m *interactiveModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.state == stateShowResult {
				return m, tea.Quit
			}

		case "enter":
			switch m.state {
			case stateInputFields:
				m.score, m.posts, m.err = m.evaluate()
				m.state = stateShowResult
				return m, nil
			case stateShowResult:
				m.state = stateInputFields
				m.err = nil
			}

		case "tab", "down":
			if m.state == stateInputFields {
				m.inputs[m.focusIdx].Blur()
				m.focusIdx = (m.focusIdx + 1) % len(m.inputs)
				m.inputs[m.focusIdx].Focus()
			}

		case "shift+tab", "up":
			if m.state == stateInputFields {
				m.inputs[m.focusIdx].Blur()
				m.focusIdx = (m.focusIdx + len(m.inputs) - 1) % len(m.inputs)
				m.inputs[m.focusIdx].Focus()
			}
		}
	}

	if m.state == stateInputFields {
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

// parseInput converts the form fields into a record, failing on the first
// malformed numeric field.
func (m *interactiveModel) parseInput() (recordInput, error) {
	var in recordInput
	for i, f := range fields {
		raw := strings.TrimSpace(m.inputs[i].Value())
		switch f.kind {
		case fieldInt:
			v, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return in, fmt.Errorf("%s: %q is not an integer", f.label, raw)
			}
			switch f.label {
			case "signals":
				in.Signals = int32(v)
			case "opportunities":
				in.Opportunities = int32(v)
			case "liquidity":
				in.Liquidity = v
			}
		case fieldFloat:
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return in, fmt.Errorf("%s: %q is not a number", f.label, raw)
			}
			switch f.label {
			case "strength":
				in.Strength = v
			case "price min":
				in.PriceMin = v
			case "price max":
				in.PriceMax = v
			}
		case fieldText:
			switch f.label {
			case "strategy":
				in.Strategy = raw
			case "timeframe":
				in.Timeframe = raw
			}
		}
	}
	return in, nil
}

// evaluate runs the record through a fresh bridge and renders content in
// every mode.
func (m *interactiveModel) evaluate() (float64, []modeResult, error) {
	in, err := m.parseInput()
	if err != nil {
		return 0, nil, err
	}

	mem := arena.New(memorySize)
	b := bridge.New(mem, mem)
	defer b.Close()

	recPtr, err := encodeRecord(mem, in)
	if err != nil {
		return 0, nil, err
	}

	h := b.CreateContext()
	defer b.DestroyContext(h)

	score, err := b.Process(h, recPtr)
	if err != nil {
		return 0, nil, err
	}

	const outCap = 4096
	outPtr, err := mem.Alloc(outCap, 1)
	if err != nil {
		return 0, nil, err
	}

	var posts []modeResult
	for _, mode := range []bridge.Mode{bridge.ModeDefault, bridge.ModeLinkedIn, bridge.ModeTwitter} {
		n, err := b.GenerateContent(h, recPtr, mode, outPtr, outCap)
		if err != nil {
			return 0, nil, err
		}
		content, err := mem.Read(outPtr, n)
		if err != nil {
			return 0, nil, err
		}
		posts = append(posts, modeResult{mode: mode, content: string(content)})
	}
	return score, posts, nil
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Memory Bridge"))
	b.WriteString("\n\n")

	switch m.state {
	case stateInputFields:
		b.WriteString("Research record:\n\n")
		for _, input := range m.inputs {
			b.WriteString(input.View())
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("tab next field • enter score • ctrl+c quit"))

	case stateShowResult:
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(labelStyle.Render("Score: "))
			b.WriteString(scoreStyle.Render(fmt.Sprintf("%.4f", m.score)))
			b.WriteString("\n\n")
			for _, p := range m.posts {
				b.WriteString(labelStyle.Render(p.mode.String() + ": "))
				b.WriteString(resultStyle.Render(p.content))
				b.WriteString("\n")
			}
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter edit • q quit"))
	}

	return b.String()
}

func runInteractive() error {
	p := tea.NewProgram(newInteractiveModel(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
