package browser

import (
	"testing"

	"webrunner/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tebeka/selenium"
)

func TestPlaywrightSelector(t *testing.T) {
	tests := []struct {
		locator  entities.Locator
		expected string
	}{
		{entities.XPath("//button[@type='submit']"), "xpath=//button[@type='submit']"},
		{entities.CSS("form > input"), "css=form > input"},
		{entities.ID("login"), `css=[id="login"]`},
		{entities.Locator{By: entities.ByName, Value: "email"}, `css=[name="email"]`},
		{entities.Locator{By: entities.ByClassName, Value: "btn"}, "css=.btn"},
		{entities.Locator{By: entities.ByTagName, Value: "h1"}, "css=h1"},
		{entities.Locator{By: entities.ByLinkText, Value: "Sign in"}, `css=a:text-is("Sign in")`},
		{entities.Locator{By: entities.ByPartialLinkText, Value: "Sign"}, `css=a:has-text("Sign")`},
	}

	for _, tt := range tests {
		t.Run(string(tt.locator.By), func(t *testing.T) {
			assert.Equal(t, tt.expected, playwrightSelector(tt.locator))
		})
	}
}

func TestSeleniumBy(t *testing.T) {
	assert.Equal(t, selenium.ByXPATH, seleniumBy(entities.ByXPath))
	assert.Equal(t, selenium.ByCSSSelector, seleniumBy(entities.ByCSSSelector))
	assert.Equal(t, selenium.ByPartialLinkText, seleniumBy(entities.ByPartialLinkText))
	assert.Equal(t, selenium.ByCSSSelector, seleniumBy("unknown"))
}

func TestSeleniumKey(t *testing.T) {
	assert.Equal(t, selenium.EnterKey, seleniumKey(entities.KeyEnter))
	assert.Equal(t, selenium.ControlKey, seleniumKey(entities.KeyControl))
	assert.Equal(t, "a", seleniumKey("a"))
}

func TestParseWindowSize(t *testing.T) {
	size, err := parseWindowSize([]interface{}{float64(1280), float64(720)})
	require.NoError(t, err)
	assert.Equal(t, entities.Size{Width: 1280, Height: 720}, size)

	_, err = parseWindowSize("nope")
	assert.Error(t, err)

	_, err = parseWindowSize([]interface{}{"a", 1})
	assert.Error(t, err)
}

func TestWrapScript(t *testing.T) {
	wrapped := wrapScript("return arguments[0];")
	assert.Contains(t, wrapped, "return arguments[0];")
	assert.Contains(t, wrapped, ".apply(null, args)")
}
