package entities

import "fmt"

// Strategy names how a Locator value is interpreted
type Strategy string

const (
	ByID              Strategy = "id"
	ByName            Strategy = "name"
	ByXPath           Strategy = "xpath"
	ByCSSSelector     Strategy = "css selector"
	ByClassName       Strategy = "class name"
	ByTagName         Strategy = "tag name"
	ByLinkText        Strategy = "link text"
	ByPartialLinkText Strategy = "partial link text"
)

// Locator identifies a DOM node by strategy and value
type Locator struct {
	By    Strategy `json:"by"`
	Value string   `json:"value"`
	// Name is the page-object field holding this locator, used as the
	// variable part of failed-locator keys.
	Name string `json:"name,omitempty"`
}

// XPath returns an xpath locator
func XPath(value string) Locator {
	return Locator{By: ByXPath, Value: value}
}

// CSS returns a css selector locator
func CSS(value string) Locator {
	return Locator{By: ByCSSSelector, Value: value}
}

// ID returns an id locator
func ID(value string) Locator {
	return Locator{By: ByID, Value: value}
}

// Named returns a copy of the locator tagged with a page-object field name
func (l Locator) Named(name string) Locator {
	l.Name = name
	return l
}

// Validate checks that the locator has a known strategy and a value
func (l Locator) Validate() error {
	if l.Value == "" {
		return fmt.Errorf("locator value is empty")
	}
	switch l.By {
	case ByID, ByName, ByXPath, ByCSSSelector, ByClassName, ByTagName, ByLinkText, ByPartialLinkText:
		return nil
	case "":
		return fmt.Errorf("locator strategy is empty")
	}
	return fmt.Errorf("unknown locator strategy %q", l.By)
}

func (l Locator) String() string {
	return fmt.Sprintf("(%s, %s)", l.By, l.Value)
}
