package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/ferrovax/gamedesk/internal/models"
	"github.com/ferrovax/gamedesk/internal/services"
	"github.com/ferrovax/gamedesk/internal/session"
	"github.com/ferrovax/gamedesk/internal/shared"
	"github.com/ferrovax/gamedesk/internal/state"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LoginView ViewState = iota
	GameListView
	TagListView
	UserListView
	GameFormView
	TagFormView
	ConfirmView
)

// Model represents the TUI application state.
type Model struct {
	ctx     context.Context
	session *session.Store
	backend services.Backend

	games *state.ListController[models.Game]
	tags  *state.ListController[models.Tag]
	users *state.ListController[models.UserAccount]

	gameForm *state.Form[models.Game]
	tagForm  *state.Form[models.Tag]

	view   ViewState
	width  int
	height int

	gameList list.Model
	tagList  list.Model
	userList list.Model

	loginInputs []textinput.Model
	loginFocus  int
	loginFailed bool

	filterInput textinput.Model
	filtering   bool
	category    string

	formInputs []textinput.Model
	formFocus  int
	formErr    error

	pendingDelete struct {
		view  ViewState
		id    string
		label string
	}

	status string
	err    error
	help   help.Model
	keys   keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, store *session.Store, backend services.Backend) *Model {
	m := &Model{
		ctx:     ctx,
		session: store,
		backend: backend,
		view:    LoginView,
		help:    help.New(),
		keys:    newKeyMap(),
	}

	m.games = state.NewGameList(backend, nil)
	m.tags = state.NewTagList(backend, nil)
	m.users = state.NewUserList(backend)
	m.gameForm = state.NewGameForm(backend, m.tags.Source, nil)
	m.tagForm = state.NewTagForm(backend, nil)

	username := textinput.New()
	username.Placeholder = "username"
	username.Focus()
	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	m.loginInputs = []textinput.Model{username, password}

	m.filterInput = textinput.New()
	m.filterInput.Placeholder = "filter"

	m.gameList = list.New(nil, list.NewDefaultDelegate(), 0, 0)
	m.gameList.Title = "Catalog"
	m.gameList.SetFilteringEnabled(false)
	m.tagList = list.New(nil, list.NewDefaultDelegate(), 0, 0)
	m.tagList.Title = "Tags"
	m.tagList.SetFilteringEnabled(false)
	m.userList = list.New(nil, list.NewDefaultDelegate(), 0, 0)
	m.userList.Title = "Users"
	m.userList.SetFilteringEnabled(false)

	return m
}

// Init resolves the persisted session, skipping the login view when a token
// is already stored.
func (m *Model) Init() tea.Cmd {
	return func() tea.Msg {
		return sessionResolvedMsg{state: m.session.Resolve()}
	}
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.gameList.SetSize(msg.Width-4, msg.Height-8)
		m.tagList.SetSize(msg.Width-4, msg.Height-8)
		m.userList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case sessionResolvedMsg:
		if msg.state == session.StateAuthenticated {
			m.view = GameListView
			return m, m.reloadAll()
		}
		m.view = LoginView
		return m, nil

	case loginResultMsg:
		if !msg.ok {
			m.loginFailed = true
			return m, nil
		}
		m.loginFailed = false
		m.loginInputs[1].SetValue("")
		m.view = GameListView
		return m, m.reloadAll()

	case sessionLostMsg:
		m.view = LoginView
		m.status = "session expired, log in again"
		return m, nil

	case listReloadedMsg:
		if msg.err != nil {
			return m, m.fail(msg.err)
		}
		m.syncLists()
		return m, nil

	case deleteDoneMsg:
		if msg.err != nil {
			return m, m.fail(msg.err)
		}
		if msg.removed {
			m.status = "deleted"
		}
		m.view = msg.view
		m.syncLists()
		return m, nil

	case saveDoneMsg:
		if msg.err != nil {
			if errors.Is(msg.err, shared.ErrSessionExpired) {
				return m, m.fail(msg.err)
			}
			// Leave the form open so the draft can be corrected.
			m.formErr = msg.err
			return m, nil
		}
		m.formErr = nil
		m.status = "saved"
		if m.view == TagFormView {
			m.view = TagListView
			return m, m.reloadTags()
		}
		m.view = GameListView
		return m, m.reloadGames()

	case toggleDoneMsg:
		if msg.err != nil {
			return m, m.fail(msg.err)
		}
		m.syncLists()
		return m, nil
	}

	return m.updateLists(msg)
}

// fail routes an operation error: expired sessions fall back to the login
// view, everything else is shown on the status line.
func (m *Model) fail(err error) tea.Cmd {
	if errors.Is(err, shared.ErrSessionExpired) {
		return func() tea.Msg { return sessionLostMsg{} }
	}
	m.err = err
	return nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case LoginView:
		return m.renderLogin()
	case GameListView:
		return m.renderList(&m.gameList)
	case TagListView:
		return m.renderList(&m.tagList)
	case UserListView:
		return m.renderList(&m.userList)
	case GameFormView, TagFormView:
		return m.renderForm()
	case ConfirmView:
		return m.renderConfirm()
	default:
		return ""
	}
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.filtering {
		return m.handleFilterKeys(msg)
	}

	switch m.view {
	case LoginView:
		return m.handleLoginKeys(msg)
	case GameListView, TagListView, UserListView:
		return m.handleListKeys(msg)
	case GameFormView, TagFormView:
		return m.handleFormKeys(msg)
	case ConfirmView:
		return m.handleConfirmKeys(msg)
	}
	return m, nil
}

func (m *Model) handleLoginKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "tab", "shift+tab":
		m.loginInputs[m.loginFocus].Blur()
		m.loginFocus = (m.loginFocus + 1) % len(m.loginInputs)
		m.loginInputs[m.loginFocus].Focus()
		return m, nil
	case "enter":
		if m.loginFocus == 0 {
			m.loginInputs[0].Blur()
			m.loginFocus = 1
			m.loginInputs[1].Focus()
			return m, nil
		}
		username := m.loginInputs[0].Value()
		password := m.loginInputs[1].Value()
		return m, func() tea.Msg {
			return loginResultMsg{ok: m.session.Login(m.ctx, username, password)}
		}
	}

	var cmd tea.Cmd
	m.loginInputs[m.loginFocus], cmd = m.loginInputs[m.loginFocus].Update(msg)
	return m, cmd
}

func (m *Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.tab):
		switch m.view {
		case GameListView:
			m.view = TagListView
		case TagListView:
			m.view = UserListView
		default:
			m.view = GameListView
		}
		return m, nil

	case key.Matches(msg, m.keys.filter):
		m.filtering = true
		m.filterInput.SetValue(m.controllerFilter().Query)
		m.filterInput.Focus()
		return m, nil

	case key.Matches(msg, m.keys.category):
		if m.view == GameListView {
			m.category = nextCategory(m.category)
			m.applyFilter(m.filterInput.Value())
		}
		return m, nil

	case key.Matches(msg, m.keys.create):
		switch m.view {
		case GameListView:
			m.openGameForm(models.Game{Category: models.CategoryGame}, false)
			return m, nil
		case TagListView:
			m.openTagForm(models.Tag{BelongsTo: models.CategoryGame})
			return m, nil
		}
		return m, nil

	case key.Matches(msg, m.keys.edit):
		if m.view == GameListView {
			if game, ok := m.selectedGame(); ok {
				if err := m.gameForm.OpenEdit(game); err == nil {
					m.openGameForm(m.gameForm.Draft(), true)
				}
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.remove):
		switch m.view {
		case GameListView:
			if game, ok := m.selectedGame(); ok {
				m.pendingDelete.view = GameListView
				m.pendingDelete.id = game.ID
				m.pendingDelete.label = game.Title
				m.view = ConfirmView
			}
		case TagListView:
			if tag, ok := m.selectedTag(); ok {
				m.pendingDelete.view = TagListView
				m.pendingDelete.id = tag.ID
				m.pendingDelete.label = tag.Name
				m.view = ConfirmView
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.toggle), key.Matches(msg, m.keys.enter):
		if m.view == UserListView {
			if user, ok := m.selectedUser(); ok {
				return m, m.toggleSubscription(user.ID)
			}
		}
		return m, nil
	}

	return m.updateLists(msg)
}

func (m *Model) handleFilterKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.filtering = false
		m.filterInput.Blur()
		return m, nil
	case "esc":
		m.filtering = false
		m.filterInput.Blur()
		m.filterInput.SetValue("")
		m.applyFilter("")
		return m, nil
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	m.applyFilter(m.filterInput.Value())
	return m, cmd
}

func (m *Model) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.cancelForm()
		return m, nil
	case "tab", "down":
		m.formInputs[m.formFocus].Blur()
		m.formFocus = (m.formFocus + 1) % len(m.formInputs)
		m.formInputs[m.formFocus].Focus()
		return m, nil
	case "shift+tab", "up":
		m.formInputs[m.formFocus].Blur()
		m.formFocus = (m.formFocus - 1 + len(m.formInputs)) % len(m.formInputs)
		m.formInputs[m.formFocus].Focus()
		return m, nil
	case "ctrl+s", "enter":
		if msg.String() == "enter" && m.formFocus < len(m.formInputs)-1 {
			m.formInputs[m.formFocus].Blur()
			m.formFocus++
			m.formInputs[m.formFocus].Focus()
			return m, nil
		}
		if m.view == TagFormView {
			return m, m.saveTag()
		}
		return m, m.saveGame()
	}

	var cmd tea.Cmd
	m.formInputs[m.formFocus], cmd = m.formInputs[m.formFocus].Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y":
		return m, m.deletePending()
	case "n", "esc", "q":
		m.view = m.pendingDelete.view
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case GameListView:
		m.gameList, cmd = m.gameList.Update(msg)
	case TagListView:
		m.tagList, cmd = m.tagList.Update(msg)
	case UserListView:
		m.userList, cmd = m.userList.Update(msg)
	}
	return m, cmd
}

func (m *Model) selectedGame() (models.Game, bool) {
	if item, ok := m.gameList.SelectedItem().(gameItem); ok {
		return item.game, true
	}
	return models.Game{}, false
}

func (m *Model) selectedTag() (models.Tag, bool) {
	if item, ok := m.tagList.SelectedItem().(tagItem); ok {
		return item.tag, true
	}
	return models.Tag{}, false
}

func (m *Model) selectedUser() (models.UserAccount, bool) {
	if item, ok := m.userList.SelectedItem().(userItem); ok {
		return item.user, true
	}
	return models.UserAccount{}, false
}

func (m *Model) controllerFilter() state.Filter {
	switch m.view {
	case TagListView:
		return m.tags.Filter()
	case UserListView:
		return m.users.Filter()
	default:
		return m.games.Filter()
	}
}

func (m *Model) applyFilter(query string) {
	switch m.view {
	case TagListView:
		m.tags.SetFilter(state.Filter{Query: query})
	case UserListView:
		m.users.SetFilter(state.Filter{Query: query})
	default:
		m.games.SetFilter(state.Filter{Query: query, Category: m.category})
	}
	m.syncLists()
}

func nextCategory(current string) string {
	switch current {
	case "":
		return models.CategoryGame
	case models.CategoryGame:
		return models.CategoryApp
	default:
		return ""
	}
}

// syncLists rebuilds the bubbles list items from the controllers' visible
// slices.
func (m *Model) syncLists() {
	tagName := func(id string) string {
		if tag, ok := m.tags.Get(id); ok {
			return tag.Name
		}
		return id
	}

	games := m.games.Visible()
	gameItems := make([]list.Item, len(games))
	for i, game := range games {
		gameItems[i] = gameItem{game: game, busy: m.games.InFlight(game.ID), tagName: tagName}
	}
	m.gameList.SetItems(gameItems)

	tags := m.tags.Visible()
	tagItems := make([]list.Item, len(tags))
	for i, tag := range tags {
		tagItems[i] = tagItem{tag: tag, busy: m.tags.InFlight(tag.ID)}
	}
	m.tagList.SetItems(tagItems)

	users := m.users.Visible()
	userItems := make([]list.Item, len(users))
	for i, user := range users {
		userItems[i] = userItem{user: user, busy: m.users.InFlight(user.ID)}
	}
	m.userList.SetItems(userItems)
}

func (m *Model) reloadAll() tea.Cmd {
	return tea.Batch(m.reloadGames(), m.reloadTags(), m.reloadUsers())
}

func (m *Model) reloadGames() tea.Cmd {
	return func() tea.Msg {
		return listReloadedMsg{view: GameListView, err: m.games.Reload(m.ctx)}
	}
}

func (m *Model) reloadTags() tea.Cmd {
	return func() tea.Msg {
		return listReloadedMsg{view: TagListView, err: m.tags.Reload(m.ctx)}
	}
}

func (m *Model) reloadUsers() tea.Cmd {
	return func() tea.Msg {
		return listReloadedMsg{view: UserListView, err: m.users.Reload(m.ctx)}
	}
}

func (m *Model) deletePending() tea.Cmd {
	view := m.pendingDelete.view
	id := m.pendingDelete.id
	return func() tea.Msg {
		var removed bool
		var err error
		switch view {
		case TagListView:
			removed, err = m.tags.Delete(m.ctx, id)
		default:
			removed, err = m.games.Delete(m.ctx, id)
		}
		return deleteDoneMsg{view: view, removed: removed, err: err}
	}
}

func (m *Model) toggleSubscription(id string) tea.Cmd {
	return func() tea.Msg {
		return toggleDoneMsg{err: state.ToggleSubscription(m.ctx, m.backend, m.users, id)}
	}
}

// Game form field order.
const (
	formTitle = iota
	formDescription
	formCategory
	formTags
	formVideo
	formImage
	formFieldCount
)

func (m *Model) openGameForm(draft models.Game, editing bool) {
	if !editing {
		m.gameForm.OpenCreate(draft)
	}

	inputs := make([]textinput.Model, formFieldCount)
	placeholders := []string{"title", "description", "category (Game/App)", "tag ids (comma separated)", "video link", "image file"}
	values := []string{draft.Title, draft.Description, draft.Category, strings.Join(draft.AdditionalTags, ","), draft.VideoLink, ""}
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].Placeholder = placeholders[i]
		inputs[i].SetValue(values[i])
	}
	inputs[0].Focus()

	m.formInputs = inputs
	m.formFocus = 0
	m.formErr = nil
	m.view = GameFormView
}

func (m *Model) openTagForm(draft models.Tag) {
	m.tagForm.OpenCreate(draft)

	inputs := make([]textinput.Model, 2)
	inputs[0] = textinput.New()
	inputs[0].Placeholder = "name"
	inputs[0].SetValue(draft.Name)
	inputs[0].Focus()
	inputs[1] = textinput.New()
	inputs[1].Placeholder = "belongs to (Game/App)"
	inputs[1].SetValue(draft.BelongsTo)

	m.formInputs = inputs
	m.formFocus = 0
	m.formErr = nil
	m.view = TagFormView
}

func (m *Model) cancelForm() {
	if m.view == TagFormView {
		m.tagForm.Cancel()
		m.view = TagListView
	} else {
		m.gameForm.Cancel()
		m.view = GameListView
	}
	m.formInputs = nil
	m.formErr = nil
}

func (m *Model) saveGame() tea.Cmd {
	title := m.formInputs[formTitle].Value()
	description := m.formInputs[formDescription].Value()
	category := m.formInputs[formCategory].Value()
	tags := splitRefs(m.formInputs[formTags].Value())
	video := m.formInputs[formVideo].Value()
	imagePath := m.formInputs[formImage].Value()

	m.gameForm.Amend(func(g *models.Game) {
		g.Title = title
		g.Description = description
		g.Category = category
		g.AdditionalTags = tags
		g.VideoLink = video
	})

	return func() tea.Msg {
		if imagePath != "" {
			f, err := os.Open(imagePath)
			if err != nil {
				return saveDoneMsg{view: GameFormView, err: fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)}
			}
			defer f.Close()
			m.gameForm.AttachAsset(filepath.Base(imagePath), f)
		}
		return saveDoneMsg{view: GameFormView, err: m.gameForm.Submit(m.ctx)}
	}
}

func (m *Model) saveTag() tea.Cmd {
	name := m.formInputs[0].Value()
	belongsTo := m.formInputs[1].Value()

	m.tagForm.Amend(func(t *models.Tag) {
		t.Name = name
		t.BelongsTo = belongsTo
	})

	return func() tea.Msg {
		return saveDoneMsg{view: TagFormView, err: m.tagForm.Submit(m.ctx)}
	}
}

func splitRefs(raw string) models.TagRefs {
	parts := strings.Split(raw, ",")
	refs := make(models.TagRefs, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			refs = append(refs, p)
		}
	}
	return refs
}

func (m *Model) renderLogin() string {
	title := styles.title.Render("gamedesk login")

	var failed string
	if m.loginFailed {
		failed = styles.err.Render("\nlogin failed, check your credentials\n")
	}
	if m.status != "" {
		failed = styles.warn.Render("\n"+m.status+"\n") + failed
	}

	return fmt.Sprintf(
		"%s\n\n%s\n%s\n%s\n%s",
		title,
		m.loginInputs[0].View(),
		m.loginInputs[1].View(),
		failed,
		styles.help.Render("enter to submit • ctrl+c to quit"),
	)
}

func (m *Model) renderList(l *list.Model) string {
	header := m.renderTabs()

	var filter string
	if m.filtering {
		filter = fmt.Sprintf("\n/%s", m.filterInput.View())
	} else if q := m.controllerFilter().Query; q != "" || m.category != "" {
		filter = styles.warn.Render(fmt.Sprintf("\nfilter: %q category: %q", q, m.category))
	}

	var errLine string
	if m.err != nil {
		errLine = "\n" + styles.err.Render(m.err.Error())
		m.err = nil
	} else if m.status != "" {
		errLine = "\n" + styles.ok.Render(m.status)
		m.status = ""
	}

	helpView := m.help.ShortHelpView([]key.Binding{
		m.keys.tab, m.keys.filter, m.keys.create, m.keys.edit, m.keys.remove, m.keys.quit,
	})

	return fmt.Sprintf("%s%s%s\n%s\n\n%s", header, filter, errLine, l.View(), helpView)
}

func (m *Model) renderTabs() string {
	tabs := []string{"Catalog", "Tags", "Users"}
	active := map[ViewState]int{GameListView: 0, TagListView: 1, UserListView: 2}[m.view]
	for i, tab := range tabs {
		if i == active {
			tabs[i] = styles.title.Render("[" + tab + "]")
		} else {
			tabs[i] = styles.help.Render(" " + tab + " ")
		}
	}
	return strings.Join(tabs, " ")
}

func (m *Model) renderForm() string {
	title := "New entry"
	if m.view == TagFormView {
		title = "New tag"
	} else if m.gameForm.Phase() == state.PhaseEditing {
		title = "Edit entry"
	}

	var b strings.Builder
	b.WriteString(styles.title.Render(title))
	b.WriteString("\n\n")
	for i := range m.formInputs {
		b.WriteString(m.formInputs[i].View())
		b.WriteString("\n")
	}

	if m.formErr != nil {
		b.WriteString("\n")
		b.WriteString(styles.err.Render(m.formErr.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.help.Render("enter/tab next field • ctrl+s save • esc cancel"))
	return b.String()
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Delete '%s'?", m.pendingDelete.label))
	warn := styles.warn.Render("This cannot be undone.")
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.yes, m.keys.no})
	return fmt.Sprintf("%s\n%s\n\n%s", title, warn, helpView)
}
