package cmd

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"aprskit/aprs"
	"aprskit/config"
	"aprskit/device/aprsis"
	"aprskit/device/kiss"
	"aprskit/packet"
	"aprskit/ui/footer"
	"aprskit/ui/header"
	"aprskit/ui/msgbar"
	"aprskit/ui/sidebar"
	"aprskit/ui/traffic"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Watch traffic from the configured TNC or APRS-IS server",
	Long: `Connect to the interface in the config file and show received frames.

Keys:
  m        compose a message ("CALL text"), enter to send, esc to cancel
  q, esc   quit

Logs go to [log] file when set; the terminal is used by the display.`,
	Args: cobra.NoArgs,
	RunE: runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)
}

// PacketClient is a TNC or network connection.
type PacketClient interface {
	Start(chan<- *packet.Packet)
	Send(*aprs.Frame) error
	Close() error
}

const sidebarWidth = 20

type sentMsg struct{ err error }

type model struct {
	width  int
	height int
	config config.Config
	logger *log.Logger

	headerModel  header.Model
	sidebarModel sidebar.Model
	trafficModel traffic.Model
	msgbarModel  msgbar.Model
	footerModel  footer.Model

	input     textinput.Model
	composing bool
	msgSeq    int

	packetClient PacketClient
	packetChan   chan *packet.Packet

	err error
}

func initialModel(conf config.Config, logger *log.Logger, client PacketClient, verified bool) (model, error) {
	trafficMod, err := traffic.New(conf.Monitor.TimestampFormat, conf.Monitor.History)
	if err != nil {
		return model{}, err
	}

	headerMod := header.New(conf.Station.Callsign, conf.Interface.Type)
	headerMod.SetVerified(verified)

	ti := textinput.New()
	ti.Prompt = "msg> "
	ti.Placeholder = "CALL message text"
	ti.CharLimit = 80

	return model{
		width:        80,
		height:       24,
		config:       conf,
		logger:       logger,
		headerModel:  headerMod,
		sidebarModel: sidebar.New(),
		trafficModel: trafficMod,
		msgbarModel:  msgbar.New(),
		footerModel:  footer.New(),
		input:        ti,
		packetClient: client,
		packetChan:   make(chan *packet.Packet),
	}, nil
}

// listenForPackets is a tea.Cmd that waits for the next packet
func (m model) listenForPackets() tea.Cmd {
	return func() tea.Msg {
		pkt, ok := <-m.packetChan
		if !ok {
			return fmt.Errorf("connection closed")
		}
		return pkt
	}
}

// speakMessageCmd runs the 'say' command without blocking the UI.
func speakMessageCmd(logger *log.Logger, msg string) tea.Cmd {
	return func() tea.Msg {
		if err := exec.Command("say", msg).Start(); err != nil {
			logger.Debug("say failed", "err", err)
		}
		return nil
	}
}

// sendCmd builds a message frame from "CALL text" and transmits it.
func (m model) sendCmd(line string, seq int) tea.Cmd {
	return func() tea.Msg {
		f, err := messageFrame(m.config, line, seq)
		if err != nil {
			return sentMsg{err: err}
		}
		m.logger.Info("Sending message", "frame", f)
		return sentMsg{err: m.packetClient.Send(f)}
	}
}

// messageFrame addresses a message from the station. APRS-IS frames carry
// the TCPIP* path; radio frames go out with WIDE1-1,WIDE2-1.
func messageFrame(conf config.Config, line string, seq int) (*aprs.Frame, error) {
	to, body, ok := strings.Cut(strings.TrimSpace(line), " ")
	if !ok || strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("want \"CALL message\"")
	}
	path := []string{"WIDE1-1", "WIDE2-1"}
	if conf.Interface.Type == config.InterfaceAPRSIS {
		path = []string{"TCPIP*"}
	}
	return buildFrame(frameOptions{
		Source:      conf.Station.Callsign,
		Destination: conf.Station.ToCall,
		Path:        path,
		To:          to,
		Message:     strings.TrimSpace(body),
		MsgID:       fmt.Sprint(seq),
	})
}

func (m model) Init() tea.Cmd {
	go m.packetClient.Start(m.packetChan)
	return m.listenForPackets()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.err != nil {
		if _, ok := msg.(tea.KeyMsg); ok {
			return m, tea.Quit
		}
		return m, nil
	}

	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	switch msg := msg.(type) {
	case *packet.Packet:
		m.sidebarModel.AddStation(msg.Callsign())
		m.trafficModel, cmd = m.trafficModel.Update(msg)
		cmds = append(cmds, cmd)
		m.footerModel, cmd = m.footerModel.Update(msg)
		cmds = append(cmds, cmd)

		if to, body, ok := msg.Message(); ok {
			if m.config.Msgbar.Say {
				cmds = append(cmds, speakMessageCmd(m.logger,
					fmt.Sprintf("Message from %s to %s: %s", msg.Callsign(), to, body)))
			}
			m.msgbarModel, cmd = m.msgbarModel.Update(msg)
			cmds = append(cmds, cmd)
		}
		cmds = append(cmds, m.listenForPackets())

	case sentMsg:
		if msg.err != nil {
			m.logger.Warn("Send failed", "err", msg.err)
			m.footerModel.SetStatus("send failed: " + msg.err.Error())
		} else {
			m.footerModel.SetStatus("sent")
		}

	case error:
		m.err = msg
		m.logger.Error("Monitor stopped", "err", msg)
		return m, nil

	case tea.WindowSizeMsg:
		return m.resize(msg)

	case tea.KeyMsg:
		if m.composing {
			return m.updateCompose(msg)
		}
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "m":
			m.composing = true
			m.footerModel.SetStatus("")
			cmd = m.input.Focus()
			return m, cmd
		}
	}

	return m, tea.Batch(cmds...)
}

func (m model) updateCompose(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.composing = false
		m.input.Blur()
		m.input.Reset()
		return m, nil
	case "enter":
		line := m.input.Value()
		m.composing = false
		m.input.Blur()
		m.input.Reset()
		m.msgSeq++
		return m, m.sendCmd(line, m.msgSeq)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) resize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	const headerHeight, footerHeight = 1, 1
	mainHeight := m.height - headerHeight - msgbar.Height - footerHeight
	if mainHeight < 3 {
		mainHeight = 3
	}

	m.headerModel, _ = m.headerModel.Update(tea.WindowSizeMsg{Width: m.width, Height: headerHeight})
	m.sidebarModel, _ = m.sidebarModel.Update(tea.WindowSizeMsg{Width: sidebarWidth, Height: mainHeight})
	m.trafficModel, _ = m.trafficModel.Update(tea.WindowSizeMsg{Width: m.width - sidebarWidth, Height: mainHeight})
	m.msgbarModel, _ = m.msgbarModel.Update(tea.WindowSizeMsg{Width: m.width, Height: msgbar.Height})
	m.footerModel, _ = m.footerModel.Update(tea.WindowSizeMsg{Width: m.width, Height: footerHeight})
	m.input.Width = m.width - len(m.input.Prompt) - 1
	return m, nil
}

func (m model) View() string {
	if m.err != nil {
		errorStyle := lipgloss.NewStyle().
			Width(m.width-2).
			Height(m.height-2).
			Border(lipgloss.DoubleBorder(), true).
			BorderForeground(lipgloss.Color("9")).
			Padding(1).
			Align(lipgloss.Center, lipgloss.Center)
		return errorStyle.Render("Error:\n\n" + m.err.Error() + "\n\nPress any key to quit.")
	}

	bottom := m.footerModel.View()
	if m.composing {
		bottom = m.input.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.headerModel.View(),
		lipgloss.JoinHorizontal(lipgloss.Top, m.sidebarModel.View(), m.trafficModel.View()),
		m.msgbarModel.View(),
		bottom,
	)
}

func connect(conf config.Config, logger *log.Logger) (PacketClient, bool, error) {
	switch conf.Interface.Type {
	case config.InterfaceKISS:
		c, err := kiss.Connect(conf.Interface, logger)
		if err != nil {
			return nil, false, err
		}
		return c, true, nil
	case config.InterfaceAPRSIS:
		c, err := aprsis.Connect(conf, logger)
		if err != nil {
			return nil, false, err
		}
		return c, c.IsVerified, nil
	default:
		return nil, false, fmt.Errorf("unknown interface type in config: %s", conf.Interface.Type)
	}
}

func runMonitor(cmd *cobra.Command, args []string) error {
	conf, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logFile, err := openLogFile(conf)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()
	logger := newLogger(conf, logFile)

	client, verified, err := connect(conf, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to interface: %w", err)
	}
	defer client.Close()

	m, err := initialModel(conf, logger, client, verified)
	if err != nil {
		return err
	}
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("monitor: %w", err)
	}
	return nil
}
