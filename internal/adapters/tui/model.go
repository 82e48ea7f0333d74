package tui

import (
	"bytes"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.pbuild.dev/pbuild/internal/adapters/telemetry"
)

const (
	projectListWidthRatio = 0.3
	logPaneBorderWidth    = 4
)

// ProjectStatus is the display-collapsed state of a project row in the
// watch-mode dashboard. The classifier's nine Status variants carry more
// nuance than a user watching a build queue needs; the dashboard only ever
// shows one of these four.
type ProjectStatus string

const (
	// StatusPending indicates the project is queued but not yet building.
	StatusPending ProjectStatus = "Pending"
	// StatusBuilding indicates the project's compiler has an open span.
	StatusBuilding ProjectStatus = "Building"
	// StatusUpToDate indicates the project built successfully, or the
	// driver reported a status for it that opens no build span (up to date,
	// container-only or upstream-blocked) and it was marked skipped.
	StatusUpToDate ProjectStatus = "UpToDate"
	// StatusFailed indicates the project's build span ended with an error.
	StatusFailed ProjectStatus = "Failed"
)

// ProjectNode represents a single project row in the dashboard.
type ProjectNode struct {
	Name    string
	Status  ProjectStatus
	Logs    bytes.Buffer
	Skipped bool
}

// Model represents the main TUI state.
type Model struct {
	Projects          []*ProjectNode
	ProjectMap        map[string]*ProjectNode
	SpanMap           map[string]*ProjectNode
	Viewport          viewport.Model
	AutoScroll        bool
	ActiveProjectName string
}

// Init initializes the model.
//
//nolint:gocritic // hugeParam ignored
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the model state.
//
//nolint:cyclop,gocritic // hugeParam ignored, cyclop ignored
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		// Split screen: 30% for project list, 70% for logs.
		listWidth := int(float64(msg.Width) * projectListWidthRatio)
		logWidth := msg.Width - listWidth - logPaneBorderWidth

		m.Viewport.Width = logWidth
		m.Viewport.Height = msg.Height - 2

	case telemetry.MsgInitProjects:
		m.Projects = make([]*ProjectNode, len(msg.Projects))
		m.ProjectMap = make(map[string]*ProjectNode, len(msg.Projects))
		m.SpanMap = make(map[string]*ProjectNode)
		for i, name := range msg.Projects {
			m.Projects[i] = &ProjectNode{Name: name, Status: StatusPending}
			m.ProjectMap[name] = m.Projects[i]
		}

	case telemetry.MsgProjectStart:
		if node, ok := m.ProjectMap[msg.Name]; ok {
			node.Status = StatusBuilding
			m.SpanMap[msg.SpanID] = node

			m.ActiveProjectName = msg.Name
			m.Viewport.SetContent(node.Logs.String())
			if m.AutoScroll {
				m.Viewport.GotoBottom()
			}
		}

	case telemetry.MsgProjectLog:
		if node, ok := m.SpanMap[msg.SpanID]; ok {
			node.Logs.Write(msg.Data)

			if node.Name == m.ActiveProjectName {
				m.Viewport.SetContent(node.Logs.String())
				if m.AutoScroll {
					m.Viewport.GotoBottom()
				}
			}
		}

	case telemetry.MsgProjectComplete:
		if node, ok := m.SpanMap[msg.SpanID]; ok {
			if msg.Err != nil {
				node.Status = StatusFailed
			} else {
				node.Status = StatusUpToDate
			}
		}

	case telemetry.MsgProjectSkipped:
		if node, ok := m.ProjectMap[msg.Name]; ok {
			node.Status = StatusUpToDate
			node.Skipped = true
		}
	}

	return m, cmd
}
