package main

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jwebster45206/career-rpg/internal/handlers"
	"github.com/jwebster45206/career-rpg/pkg/chat"
	"github.com/jwebster45206/career-rpg/pkg/engine"
)

const PlaceHolderText = "Say something, or press Enter on an empty line to listen..."

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config       *ConsoleConfig
	client       *http.Client
	chatViewport viewport.Model
	metaViewport viewport.Model
	textarea     textarea.Model
	ready        bool
	width        int
	height       int
	err          error
	loading      bool

	// NPC selection state
	showNPCModal bool
	npcs         []handlers.NPCClassInfo
	selectedNPC  int
	loadingNPCs  bool

	// Conversation state
	player       chat.PlayerInfo
	npc          handlers.NPCClassInfo
	turns        map[string]int
	history      []chat.ChatMessage
	lastResponse *chat.DialogResponse
	status       string

	showQuitModal bool
	progressTick  int
}

type dialogResponseMsg struct {
	response *chat.DialogResponse
	err      error
}

type npcsLoadedMsg struct {
	npcs []handlers.NPCClassInfo
	err  error
}

type progressTickMsg struct{}

var (
	chatPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	speakerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)

	modalItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	modalSelectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("205")).
				Bold(true)
)

var separatorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("240")) // dark grey

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 500
	ta.SetWidth(50)
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	chatVp := viewport.New(50, 20)
	chatVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	return ConsoleUI{
		config:       cfg,
		client:       client,
		textarea:     ta,
		chatViewport: chatVp,
		metaViewport: metaVp,
		showNPCModal: true,
		loadingNPCs:  true,
		turns:        make(map[string]int),
		player: chat.PlayerInfo{
			Name:   cfg.PlayerName,
			Skills: map[string]string{},
			Day:    1,
		},
	}
}

// applyCommand applies a slash command to the player. It returns the
// updated player, feedback for the chat panel, and whether the NPC picker
// should be reopened.
func applyCommand(p chat.PlayerInfo, input string) (chat.PlayerInfo, string, bool) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return p, "", false
	}
	args := fields[1:]

	switch strings.ToLower(fields[0]) {
	case "/help":
		return p, helpText, false

	case "/npc":
		return p, "", true

	case "/day":
		if len(args) != 1 {
			return p, "Usage: /day <number>", false
		}
		day, err := strconv.Atoi(args[0])
		if err != nil || day < 0 {
			return p, "Day must be a non-negative number.", false
		}
		p.Day = day
		return p, fmt.Sprintf("It is now day %d.", day), false

	case "/skill":
		if len(args) < 2 {
			return p, "Usage: /skill <name> <None|Basic|Intermediate|Advanced|Expert>", false
		}
		name := strings.Join(args[:len(args)-1], " ")
		level, err := engine.ParseProficiency(args[len(args)-1])
		if err != nil {
			return p, err.Error(), false
		}
		skills := make(map[string]string, len(p.Skills)+1)
		for k, v := range p.Skills {
			skills[k] = v
		}
		if level == engine.ProficiencyNone {
			delete(skills, name)
		} else {
			skills[name] = level.String()
		}
		p.Skills = skills
		return p, fmt.Sprintf("%s set to %s.", name, level), false

	case "/job":
		if len(args) == 0 {
			p.Employed = false
			p.CurrentJob = ""
			return p, "You are now looking for opportunities.", false
		}
		p.Employed = true
		p.CurrentJob = strings.Join(args, " ")
		return p, "You now work as " + p.CurrentJob + ".", false
	}

	return p, "Unknown command. Type /help for a list.", false
}

const helpText = `Commands:
• /help - Show this help
• /npc - Talk to someone else
• /day <n> - Set the current day
• /skill <name> <level> - Set a skill proficiency
• /job [title] - Take a job, or quit it with no title
• Ctrl+Y - Copy the last NPC reply
• Ctrl+C - Quit`

func (m ConsoleUI) writeMetadata() string {
	var content strings.Builder
	content.WriteString(titleStyle.Render("TALKING TO") + "\n\n")
	content.WriteString(m.npc.Class + "\n")
	content.WriteString("Engine: " + m.npc.Engine + "\n")
	content.WriteString(fmt.Sprintf("Turn: %d\n\n", m.turns[m.npc.Class]))

	if m.lastResponse != nil {
		source := "static"
		switch {
		case m.lastResponse.Cached:
			source = "cache"
		case m.lastResponse.FromProvider:
			source = "LLM"
		}
		content.WriteString("Last reply:\n" + source + "\n\n")
	}

	content.WriteString(titleStyle.Render("PLAYER") + "\n\n")
	content.WriteString(m.player.Name + "\n")
	content.WriteString(fmt.Sprintf("Day %d\n", m.player.Day))
	if m.player.Employed {
		content.WriteString("Job: " + m.player.CurrentJob + "\n")
	} else {
		content.WriteString("Job: none\n")
	}

	content.WriteString("\nSkills:\n")
	if len(m.player.Skills) == 0 {
		content.WriteString("None yet\n")
	} else {
		names := make([]string, 0, len(m.player.Skills))
		for name := range m.player.Skills {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			content.WriteString(fmt.Sprintf("• %s: %s\n", name, m.player.Skills[name]))
		}
	}

	if m.status != "" {
		content.WriteString("\n" + loadingStyle.Render(m.status) + "\n")
	}
	return content.String()
}

// writeChatContent builds the chat content for the current viewport width
func (m *ConsoleUI) writeChatContent() {
	chatWidth := m.chatViewport.Width - 6 // Account for left(3) + right(3) padding
	if chatWidth < 10 {
		chatWidth = 10
	}

	var content strings.Builder
	content.WriteString(titleStyle.Render("CAREER RPG") + "\n\n")
	content.WriteString("Talk to the people in town. Type /help for commands.\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", chatWidth)) + "\n\n")

	for _, msg := range m.history {
		switch msg.Role {
		case chat.ChatRoleAgent:
			content.WriteString(formatNPCReply(m.npc.Class, msg.Content, chatWidth) + "\n\n")
		case chat.ChatRoleUser:
			content.WriteString(userStyle.Render("You: ") + wordwrap.String(msg.Content, chatWidth-5) + "\n\n")
		case chat.ChatRoleSystem:
			content.WriteString(promptStyle.Render(wordwrap.String(msg.Content, chatWidth)) + "\n\n")
		}
	}

	if m.err != nil {
		content.WriteString(errorStyle.Render("Error: "+m.err.Error()) + "\n\n")
	}
	if m.loading {
		content.WriteString(m.renderProgressBar())
	}

	m.chatViewport.SetContent(content.String())
	m.chatViewport.GotoBottom()
}

func formatNPCReply(speaker, reply string, width int) string {
	prefix := cases.Title(language.English).String(speaker) + ": "
	wrapped := wordwrap.String(reply, max(width-len(prefix), 10))
	return speakerStyle.Render(prefix) + wrapped
}

func (m ConsoleUI) Init() tea.Cmd {
	return m.loadNPCs()
}

func (m *ConsoleUI) resize() {
	chatWidth := int(float64(m.width)*0.72) - 4
	metaWidth := m.width - chatWidth - 6

	m.chatViewport.Width = chatWidth - 2
	m.chatViewport.Height = m.height - 7
	m.metaViewport.Width = metaWidth - 2
	m.metaViewport.Height = m.height - 4
	m.textarea.SetWidth(chatWidth - 4)
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}
	if m.showNPCModal {
		return m.updateNPCModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.chatViewport, vpCmd = m.chatViewport.Update(msg)
		m.metaViewport, mvCmd = m.metaViewport.Update(msg)
		return m, tea.Batch(vpCmd, mvCmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.ready = true
		m.writeChatContent()
		m.metaViewport.SetContent(m.writeMetadata())

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil

		case tea.KeyCtrlY:
			m.status = m.copyLastReply()
			m.metaViewport.SetContent(m.writeMetadata())
			return m, nil

		case tea.KeyEnter:
			if m.loading {
				return m, nil
			}
			input := strings.TrimSpace(m.textarea.Value())
			m.textarea.Reset()

			if strings.HasPrefix(input, "/") {
				return m.handleCommand(input)
			}
			return m.startDialog(input)
		}

	case dialogResponseMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.err = nil
			m.lastResponse = msg.response
			m.turns[m.npc.Class]++
			m.history = append(m.history, chat.Assistant(msg.response.Text))
		}
		m.writeChatContent()
		m.metaViewport.SetContent(m.writeMetadata())
		return m, nil

	case progressTickMsg:
		if m.loading {
			m.progressTick++
			m.writeChatContent()
			return m, progressTick()
		}
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.chatViewport, vpCmd = m.chatViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, mvCmd)
}

func (m ConsoleUI) copyLastReply() string {
	if m.lastResponse == nil || m.lastResponse.Text == "" {
		return "Nothing to copy yet."
	}
	if err := clipboard.WriteAll(m.lastResponse.Text); err != nil {
		return "Copy failed: " + err.Error()
	}
	return "Copied last reply."
}

func (m ConsoleUI) startDialog(message string) (tea.Model, tea.Cmd) {
	if message != "" {
		m.history = append(m.history, chat.User(message))
	}
	m.loading = true
	m.progressTick = 0
	m.status = ""
	m.writeChatContent()

	req := chat.DialogRequest{
		NPCClass:      m.npc.Class,
		PlayerMessage: message,
		Turn:          m.turns[m.npc.Class],
		Player:        m.player,
	}
	return m, tea.Batch(m.sendDialog(req), progressTick())
}

func (m ConsoleUI) handleCommand(input string) (tea.Model, tea.Cmd) {
	player, feedback, reopen := applyCommand(m.player, input)
	m.player = player

	if reopen {
		m.showNPCModal = true
		m.loadingNPCs = true
		return m, m.loadNPCs()
	}
	if feedback != "" {
		m.history = append(m.history, chat.System(feedback))
	}
	m.writeChatContent()
	m.metaViewport.SetContent(m.writeMetadata())
	return m, nil
}

func (m ConsoleUI) sendDialog(req chat.DialogRequest) tea.Cmd {
	return func() tea.Msg {
		resp, err := sendDialog(m.client, m.config.APIBaseURL, req)
		return dialogResponseMsg{resp, err}
	}
}

func (m ConsoleUI) loadNPCs() tea.Cmd {
	return func() tea.Msg {
		npcs, err := listNPCs(m.client, m.config.APIBaseURL)
		return npcsLoadedMsg{npcs, err}
	}
}

func (m ConsoleUI) updateNPCModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case npcsLoadedMsg:
		m.loadingNPCs = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.err = nil
			m.npcs = msg.npcs
			if m.selectedNPC >= len(m.npcs) {
				m.selectedNPC = 0
			}
		}

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyUp:
			if m.selectedNPC > 0 {
				m.selectedNPC--
			}
		case tea.KeyDown:
			if m.selectedNPC < len(m.npcs)-1 {
				m.selectedNPC++
			}
		case tea.KeyEnter:
			if m.loadingNPCs || m.err != nil || len(m.npcs) == 0 {
				return m, nil
			}
			m.npc = m.npcs[m.selectedNPC]
			m.showNPCModal = false
			m.history = nil
			m.lastResponse = nil
			if m.width > 0 && m.height > 0 {
				m.resize()
			}
			m.ready = true
			m.textarea.Focus()
			m.metaViewport.SetContent(m.writeMetadata())

			// Walking up to an NPC is the opening turn
			model, cmd := m.startDialog("")
			return model, tea.Batch(cmd, textarea.Blink)
		}
	}

	return m, nil
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				if m.showNPCModal {
					return m, nil
				}
				m.textarea.Focus()
				return m, textarea.Blink
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit Game?"))
	content.WriteString("\n\n")
	content.WriteString("Are you sure you want to leave town?")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderNPCModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder

	switch {
	case m.loadingNPCs:
		content.WriteString(modalTitleStyle.Render("Looking around town..."))
		content.WriteString("\n\n")
		content.WriteString(loadingStyle.Render("Fetching NPCs from the API..."))
	case m.err != nil:
		content.WriteString(modalTitleStyle.Render("Error"))
		content.WriteString("\n\n")
		content.WriteString(errorStyle.Render(fmt.Sprintf("Failed to load NPCs: %v", m.err)))
		content.WriteString("\n\n")
		content.WriteString("Press Ctrl+C to exit")
	default:
		content.WriteString(modalTitleStyle.Render("Who do you want to talk to?"))
		content.WriteString("\n\n")

		for i, npc := range m.npcs {
			line := fmt.Sprintf("%-12s %s", npc.Class, promptStyle.Render("("+npc.Engine+")"))
			if i == m.selectedNPC {
				content.WriteString(modalSelectedItemStyle.Render("▶ " + line))
			} else {
				content.WriteString(modalItemStyle.Render("  " + line))
			}
			content.WriteString("\n")
		}

		content.WriteString("\n")
		content.WriteString(promptStyle.Render("Use ↑/↓ to navigate, Enter to select, Ctrl+C to exit"))
	}

	modal := modalStyle.Width(60).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}
	if m.showNPCModal {
		return m.renderNPCModal()
	}
	if !m.ready {
		return "\n  Initializing..."
	}

	chatWidth := int(float64(m.width)*0.72) - 4
	metaWidth := m.width - chatWidth - 6

	chatPanel := chatPanelStyle.Width(chatWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.chatViewport.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", max(chatWidth-4, 0))),
			m.textarea.View(),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, chatPanel, metaPanel)
}

// renderProgressBar creates an animated progress bar for loading states
func (m ConsoleUI) renderProgressBar() string {
	usable := m.chatViewport.Width - 6
	if usable > 80 {
		usable = 80
	} else if usable < 10 {
		usable = 10
	}

	const totalFrames = 40
	frame := m.progressTick % totalFrames
	filled := (frame * usable) / totalFrames

	var bar strings.Builder
	for i := 0; i < usable; i++ {
		if i < filled {
			bar.WriteString("█")
		} else if i == filled && frame%4 < 2 {
			bar.WriteString("▓") // Blinking effect at the progress point
		} else {
			bar.WriteString("░")
		}
	}
	return separatorStyle.Render(bar.String())
}

// progressTick creates a command that sends a progress tick message
func progressTick() tea.Cmd {
	return tea.Tick(time.Millisecond*200, func(time.Time) tea.Msg {
		return progressTickMsg{}
	})
}
