package browser

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"webrunner/domain/entities"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tebeka/selenium"
)

// actionsServer answers /session/<id>/actions with a fixed status and body
type actionsServer struct {
	*httptest.Server
	mu       sync.Mutex
	paths    []string
	payloads []map[string]interface{}
}

func newActionsServer(t *testing.T, status int, body string) *actionsServer {
	t.Helper()
	s := &actionsServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]interface{}
		json.NewDecoder(r.Body).Decode(&payload)
		s.mu.Lock()
		s.paths = append(s.paths, r.Method+" "+r.URL.Path)
		s.payloads = append(s.payloads, payload)
		s.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(s.Close)
	return s
}

// steps returns the pointer actions of request i
func (s *actionsServer) steps(t *testing.T, i int) []interface{} {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	require.Greater(t, len(s.payloads), i)
	sources, ok := s.payloads[i]["actions"].([]interface{})
	require.True(t, ok)
	require.Len(t, sources, 1)
	source := sources[0].(map[string]interface{})
	assert.Equal(t, "pointer", source["type"])
	assert.Equal(t, map[string]interface{}{"pointerType": "mouse"}, source["parameters"])
	return source["actions"].([]interface{})
}

func (s *actionsServer) requests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.paths)
}

// legacyWebDriver records the legacy mouse commands; anything else panics
type legacyWebDriver struct {
	selenium.WebDriver
	clicks  []int
	buttons []string
}

func (w *legacyWebDriver) Click(button int) error {
	w.clicks = append(w.clicks, button)
	return nil
}

func (w *legacyWebDriver) ButtonDown() error {
	w.buttons = append(w.buttons, "down")
	return nil
}

func (w *legacyWebDriver) ButtonUp() error {
	w.buttons = append(w.buttons, "up")
	return nil
}

// stubWebElement serialises like a remote element
type stubWebElement struct {
	selenium.WebElement
	id    string
	moves []selenium.Point
}

func (e *stubWebElement) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{"ELEMENT": e.id, webElementKey: e.id})
}

func (e *stubWebElement) Size() (*selenium.Size, error) {
	return &selenium.Size{Width: 40, Height: 20}, nil
}

func (e *stubWebElement) MoveTo(x, y int) error {
	e.moves = append(e.moves, selenium.Point{X: x, Y: y})
	return nil
}

func newStubDriver(server *actionsServer, wd selenium.WebDriver) *SeleniumDriver {
	logger, _ := test.NewNullLogger()
	return &SeleniumDriver{
		wd:      wd,
		actions: newPointerActions(server.URL+"/", "session-1"),
		logger:  logger,
	}
}

func TestSeleniumPointerUsesActions(t *testing.T) {
	server := newActionsServer(t, http.StatusOK, `{"value":null}`)
	driver := newStubDriver(server, &legacyWebDriver{})

	require.NoError(t, driver.MoveMouse(entities.Point{X: 120, Y: 45}))
	require.NoError(t, driver.ClickMouse())

	assert.Equal(t, []string{"POST /session/session-1/actions", "POST /session/session-1/actions"}, server.paths)
	assert.Equal(t, []interface{}{
		map[string]interface{}{"type": "pointerMove", "duration": float64(0), "origin": "viewport", "x": float64(120), "y": float64(45)},
	}, server.steps(t, 0))
	assert.Equal(t, []interface{}{
		map[string]interface{}{"type": "pointerDown", "button": float64(0)},
		map[string]interface{}{"type": "pointerUp", "button": float64(0)},
	}, server.steps(t, 1))
}

func TestSeleniumHoverAndDragUseElementOrigin(t *testing.T) {
	server := newActionsServer(t, http.StatusOK, `{"value":null}`)
	driver := newStubDriver(server, &legacyWebDriver{})
	source := &seleniumElement{elem: &stubWebElement{id: "src"}, driver: driver}
	target := &seleniumElement{elem: &stubWebElement{id: "dst"}, driver: driver}

	require.NoError(t, source.Hover())
	require.NoError(t, driver.DragAndDrop(source, target))

	origin := func(id string) map[string]interface{} {
		return map[string]interface{}{webElementKey: id}
	}
	assert.Equal(t, []interface{}{
		map[string]interface{}{"type": "pointerMove", "duration": float64(0), "origin": origin("src"), "x": float64(0), "y": float64(0)},
	}, server.steps(t, 0))
	assert.Equal(t, []interface{}{
		map[string]interface{}{"type": "pointerMove", "duration": float64(0), "origin": origin("src"), "x": float64(0), "y": float64(0)},
		map[string]interface{}{"type": "pointerDown", "button": float64(0)},
		map[string]interface{}{"type": "pointerMove", "duration": float64(0), "origin": origin("dst"), "x": float64(0), "y": float64(0)},
		map[string]interface{}{"type": "pointerUp", "button": float64(0)},
	}, server.steps(t, 1))
}

func TestSeleniumPointerFallsBackToLegacyCommands(t *testing.T) {
	server := newActionsServer(t, http.StatusNotFound, `{"value":{"error":"unknown command","message":"unknown command: session/session-1/actions"}}`)
	wd := &legacyWebDriver{}
	driver := newStubDriver(server, wd)

	require.NoError(t, driver.ClickMouse())
	require.NoError(t, driver.ClickMouse())
	assert.Equal(t, []int{selenium.LeftButton, selenium.LeftButton}, wd.clicks)
	assert.Equal(t, 1, server.requests(), "actions endpoint is only tried once per session")

	src := &stubWebElement{id: "src"}
	dst := &stubWebElement{id: "dst"}
	require.NoError(t, driver.DragAndDrop(
		&seleniumElement{elem: src, driver: driver},
		&seleniumElement{elem: dst, driver: driver},
	))
	assert.Equal(t, []string{"down", "up"}, wd.buttons)
	assert.Equal(t, []selenium.Point{{X: 20, Y: 10}}, src.moves)
	assert.Equal(t, []selenium.Point{{X: 20, Y: 10}}, dst.moves)
}

func TestSeleniumPointerReportsActionErrors(t *testing.T) {
	server := newActionsServer(t, http.StatusBadRequest, `{"value":{"error":"move target out of bounds","message":"(9000, 9000) is out of bounds"}}`)
	wd := &legacyWebDriver{}
	driver := newStubDriver(server, wd)

	err := driver.MoveMouse(entities.Point{X: 9000, Y: 9000})
	require.Error(t, err)
	var wdErr *selenium.Error
	require.ErrorAs(t, err, &wdErr)
	assert.Equal(t, "move target out of bounds", wdErr.Err)
	assert.Equal(t, http.StatusBadRequest, wdErr.HTTPCode)
	assert.False(t, driver.legacyPointer.Load())
}

func TestPointerActionsLegacyStatus(t *testing.T) {
	server := newActionsServer(t, http.StatusOK, `{"status":9,"value":{"message":"unknown command"}}`)
	err := newPointerActions(server.URL, "s").perform(buttonDown())
	assert.ErrorIs(t, err, errActionsUnsupported)
}

func TestElementOriginReadsReference(t *testing.T) {
	origin, err := elementOrigin(&stubWebElement{id: "abc"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{webElementKey: "abc"}, origin)

	_, err = elementOrigin(&stubWebElement{})
	assert.Error(t, err)
}
