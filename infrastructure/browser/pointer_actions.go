package browser

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tebeka/selenium"
)

const webElementKey = "element-6066-11e4-a52e-4f735466cecf"

// errActionsUnsupported - the remote end has no W3C /actions endpoint
var errActionsUnsupported = errors.New("webdriver actions endpoint not supported")

type pointerStep map[string]interface{}

// pointerActions posts W3C pointer sequences to a session's /actions endpoint
type pointerActions struct {
	client   *http.Client
	endpoint string
}

func newPointerActions(urlPrefix, sessionID string) *pointerActions {
	return &pointerActions{
		client:   selenium.HTTPClient,
		endpoint: fmt.Sprintf("%s/session/%s/actions", strings.TrimSuffix(urlPrefix, "/"), sessionID),
	}
}

func moveToViewport(x, y int) pointerStep {
	return pointerStep{"type": "pointerMove", "duration": 0, "origin": "viewport", "x": x, "y": y}
}

// moveToElement - the element origin is the centre of its in-view rect
func moveToElement(origin map[string]string) pointerStep {
	return pointerStep{"type": "pointerMove", "duration": 0, "origin": origin, "x": 0, "y": 0}
}

func buttonDown() pointerStep {
	return pointerStep{"type": "pointerDown", "button": selenium.LeftButton}
}

func buttonUp() pointerStep {
	return pointerStep{"type": "pointerUp", "button": selenium.LeftButton}
}

// perform - sends one mouse input source with the given steps
func (a *pointerActions) perform(steps ...pointerStep) error {
	body, err := json.Marshal(map[string]interface{}{
		"actions": []interface{}{
			map[string]interface{}{
				"type":       "pointer",
				"id":         "mouse",
				"parameters": map[string]string{"pointerType": "mouse"},
				"actions":    steps,
			},
		},
	})
	if err != nil {
		return err
	}

	resp, err := a.client.Post(a.endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	buf, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var reply struct {
		// Status is only set by JSON wire protocol servers; 9 is "unknown command"
		Status int            `json:"status"`
		Value  selenium.Error `json:"value"`
	}
	json.Unmarshal(buf, &reply)
	if reply.Status == 9 {
		return errActionsUnsupported
	}
	if resp.StatusCode == http.StatusOK && reply.Status == 0 && reply.Value.Err == "" {
		return nil
	}

	switch reply.Value.Err {
	case "unknown command", "unknown method":
		return errActionsUnsupported
	case "":
		if reply.Status != 0 {
			return fmt.Errorf("webdriver status %d: %s", reply.Status, reply.Value.Message)
		}
		if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusMethodNotAllowed {
			return errActionsUnsupported
		}
		return fmt.Errorf("bad server reply status: %s", resp.Status)
	}
	reply.Value.HTTPCode = resp.StatusCode
	return &reply.Value
}

// elementOrigin - reads the W3C element reference a WebElement serialises to
func elementOrigin(elem selenium.WebElement) (map[string]string, error) {
	raw, err := json.Marshal(elem)
	if err != nil {
		return nil, err
	}
	var ref map[string]string
	if err := json.Unmarshal(raw, &ref); err != nil {
		return nil, fmt.Errorf("element reference not readable: %w", err)
	}
	id := ref[webElementKey]
	if id == "" {
		id = ref["ELEMENT"]
	}
	if id == "" {
		return nil, fmt.Errorf("element reference has no id")
	}
	return map[string]string{webElementKey: id}, nil
}
