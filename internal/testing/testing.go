// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/ferrovax/gamedesk/internal/models"
)

// MockBackend is a test double for services.Backend holding records in
// memory and counting calls. All methods are safe for concurrent use.
type MockBackend struct {
	mu sync.Mutex

	Games []models.Game
	Tags  []models.Tag
	Users []models.UserAccount

	LoginToken string
	UploadURL  string

	// Err, when set, is returned by every operation.
	Err error

	// Calls records operation names in invocation order, e.g.
	// ["upload", "create_game"] proves upload ran first.
	Calls []string

	nextID int
}

func (m *MockBackend) record(name string) {
	m.Calls = append(m.Calls, name)
}

func (m *MockBackend) id(prefix string) string {
	m.nextID++
	return fmt.Sprintf("%s%d", prefix, m.nextID)
}

func (m *MockBackend) Login(ctx context.Context, username, password string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("login")
	if m.Err != nil {
		return "", m.Err
	}
	if m.LoginToken == "" {
		return "", errors.New("no token configured")
	}
	return m.LoginToken, nil
}

func (m *MockBackend) ListGames(ctx context.Context) ([]models.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("list_games")
	if m.Err != nil {
		return nil, m.Err
	}
	return append([]models.Game(nil), m.Games...), nil
}

func (m *MockBackend) CreateGame(ctx context.Context, game models.Game) (*models.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("create_game")
	if m.Err != nil {
		return nil, m.Err
	}
	game.ID = m.id("g")
	m.Games = append(m.Games, game)
	return &game, nil
}

func (m *MockBackend) UpdateGame(ctx context.Context, game models.Game) (*models.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("update_game")
	if m.Err != nil {
		return nil, m.Err
	}
	for i, g := range m.Games {
		if g.ID == game.ID {
			m.Games[i] = game
			return &game, nil
		}
	}
	return nil, errors.New("game not found")
}

func (m *MockBackend) DeleteGame(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("delete_game")
	if m.Err != nil {
		return m.Err
	}
	for i, g := range m.Games {
		if g.ID == id {
			m.Games = append(m.Games[:i], m.Games[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *MockBackend) ListTags(ctx context.Context) ([]models.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("list_tags")
	if m.Err != nil {
		return nil, m.Err
	}
	return append([]models.Tag(nil), m.Tags...), nil
}

func (m *MockBackend) CreateTag(ctx context.Context, tag models.Tag) (*models.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("create_tag")
	if m.Err != nil {
		return nil, m.Err
	}
	tag.ID = m.id("t")
	if tag.BelongsTo == "" {
		tag.BelongsTo = models.CategoryGame
	}
	m.Tags = append(m.Tags, tag)
	return &tag, nil
}

func (m *MockBackend) DeleteTag(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("delete_tag")
	if m.Err != nil {
		return m.Err
	}
	for i, t := range m.Tags {
		if t.ID == id {
			m.Tags = append(m.Tags[:i], m.Tags[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *MockBackend) ListUsers(ctx context.Context) ([]models.UserAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("list_users")
	if m.Err != nil {
		return nil, m.Err
	}
	return append([]models.UserAccount(nil), m.Users...), nil
}

func (m *MockBackend) SetSubscription(ctx context.Context, id string, subscribed bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("set_subscription")
	if m.Err != nil {
		return m.Err
	}
	for i, u := range m.Users {
		if u.ID == id {
			m.Users[i].Subscribed = subscribed
			return nil
		}
	}
	return errors.New("user not found")
}

func (m *MockBackend) UploadPicture(ctx context.Context, filename string, content io.Reader) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("upload")
	if m.Err != nil {
		return "", m.Err
	}
	if m.UploadURL != "" {
		return m.UploadURL, nil
	}
	return "/uploads/" + filename, nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}
