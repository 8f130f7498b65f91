package webrunner

import (
	"context"
	"time"

	"webrunner/domain/entities"
	"webrunner/domain/interfaces"
)

// TestingT is the part of *testing.T a BoundRunner needs
type TestingT interface {
	Helper()
	Fatalf(format string, args ...interface{})
}

// BoundRunner mirrors the WebRunner API for use inside a test: every
// error fails the test through t.Fatalf instead of being returned
type BoundRunner struct {
	t   TestingT
	w   *WebRunner
	ctx context.Context
}

// T binds the runner to a test
func (w *WebRunner) T(t TestingT) *BoundRunner {
	return &BoundRunner{t: t, w: w, ctx: context.Background()}
}

// WithContext returns a copy using ctx for every call
func (b *BoundRunner) WithContext(ctx context.Context) *BoundRunner {
	return &BoundRunner{t: b.t, w: b.w, ctx: ctx}
}

// Runner returns the unbound WebRunner
func (b *BoundRunner) Runner() *WebRunner {
	return b.w
}

func (b *BoundRunner) check(err error, format string, args ...interface{}) {
	if err == nil {
		return
	}
	b.t.Helper()
	b.t.Fatalf(format+": %v", append(args, err)...)
}

func (b *BoundRunner) OpenBrowser(name string) interfaces.Driver {
	b.t.Helper()
	d, err := b.w.OpenBrowser(b.ctx, name)
	b.check(err, "OpenBrowser(%q)", name)
	return d
}

func (b *BoundRunner) NavigateToURL(url string) {
	b.t.Helper()
	b.check(b.w.NavigateToURL(b.ctx, url), "NavigateToURL(%q)", url)
}

func (b *BoundRunner) TearDown() {
	b.t.Helper()
	b.check(b.w.TearDown(b.ctx), "TearDown()")
}

func (b *BoundRunner) FindElement(loc entities.Locator, timeout time.Duration) interfaces.Element {
	b.t.Helper()
	el, err := b.w.FindElement(b.ctx, loc, timeout)
	b.check(err, "FindElement(%s)", loc)
	return el
}

func (b *BoundRunner) FindElements(loc entities.Locator, timeout time.Duration) []interfaces.Element {
	b.t.Helper()
	elems, err := b.w.FindElements(b.ctx, loc, timeout)
	b.check(err, "FindElements(%s)", loc)
	return elems
}

func (b *BoundRunner) Click(el interfaces.Element, functionName string) {
	b.t.Helper()
	b.check(b.w.Click(b.ctx, el, functionName), "Click(%s)", functionName)
}

func (b *BoundRunner) JSClick(el interfaces.Element) {
	b.t.Helper()
	b.check(b.w.JSClick(b.ctx, el), "JSClick()")
}

func (b *BoundRunner) WaitAndClick(loc entities.Locator, timeout time.Duration) {
	b.t.Helper()
	b.check(b.w.WaitAndClick(b.ctx, loc, timeout), "WaitAndClick(%s)", loc)
}

func (b *BoundRunner) InputText(el interfaces.Element, text string, clear bool) {
	b.t.Helper()
	b.check(b.w.InputText(b.ctx, el, text, clear), "InputText()")
}

func (b *BoundRunner) SelectByValue(el interfaces.Element, value string) {
	b.t.Helper()
	b.check(b.w.SelectByValue(b.ctx, el, value), "SelectByValue(%q)", value)
}

func (b *BoundRunner) SelectByText(el interfaces.Element, text string) {
	b.t.Helper()
	b.check(b.w.SelectByText(b.ctx, el, text), "SelectByText(%q)", text)
}

func (b *BoundRunner) SelectByIndex(el interfaces.Element, index int) {
	b.t.Helper()
	b.check(b.w.SelectByIndex(b.ctx, el, index), "SelectByIndex(%d)", index)
}

func (b *BoundRunner) Hover(el interfaces.Element) {
	b.t.Helper()
	b.check(b.w.Hover(b.ctx, el), "Hover()")
}

func (b *BoundRunner) DragAndDrop(source, target interfaces.Element) {
	b.t.Helper()
	b.check(b.w.DragAndDrop(b.ctx, source, target), "DragAndDrop()")
}

func (b *BoundRunner) PressKeys(keys ...entities.Key) {
	b.t.Helper()
	b.check(b.w.PressKeys(b.ctx, keys...), "PressKeys(%v)", keys)
}

func (b *BoundRunner) MoveByOffset(x, y int) {
	b.t.Helper()
	b.check(b.w.MoveByOffset(b.ctx, x, y), "MoveByOffset(%d, %d)", x, y)
}

func (b *BoundRunner) ScrollToElement(el interfaces.Element) {
	b.t.Helper()
	b.check(b.w.ScrollToElement(b.ctx, el), "ScrollToElement()")
}

func (b *BoundRunner) UploadFile(el interfaces.Element, path string) {
	b.t.Helper()
	b.check(b.w.UploadFile(b.ctx, el, path), "UploadFile(%q)", path)
}

func (b *BoundRunner) DropFile(target interfaces.Element, path string) {
	b.t.Helper()
	b.check(b.w.DropFile(b.ctx, target, path), "DropFile(%q)", path)
}

func (b *BoundRunner) ElementText(el interfaces.Element) string {
	b.t.Helper()
	text, err := b.w.ElementText(b.ctx, el)
	b.check(err, "ElementText()")
	return text
}

func (b *BoundRunner) ElementAttribute(el interfaces.Element, name string) string {
	b.t.Helper()
	value, err := b.w.ElementAttribute(b.ctx, el, name)
	b.check(err, "ElementAttribute(%q)", name)
	return value
}

func (b *BoundRunner) IsDisplayed(el interfaces.Element) bool {
	b.t.Helper()
	ok, err := b.w.IsDisplayed(b.ctx, el)
	b.check(err, "IsDisplayed()")
	return ok
}

func (b *BoundRunner) IsEnabled(el interfaces.Element) bool {
	b.t.Helper()
	ok, err := b.w.IsEnabled(b.ctx, el)
	b.check(err, "IsEnabled()")
	return ok
}

func (b *BoundRunner) WaitForPresence(loc entities.Locator, timeout time.Duration) interfaces.Element {
	b.t.Helper()
	el, err := b.w.WaitForPresence(b.ctx, loc, timeout)
	b.check(err, "WaitForPresence(%s)", loc)
	return el
}

func (b *BoundRunner) WaitForVisible(loc entities.Locator, timeout time.Duration) interfaces.Element {
	b.t.Helper()
	el, err := b.w.WaitForVisible(b.ctx, loc, timeout)
	b.check(err, "WaitForVisible(%s)", loc)
	return el
}

func (b *BoundRunner) WaitForInvisible(loc entities.Locator, timeout time.Duration) {
	b.t.Helper()
	b.check(b.w.WaitForInvisible(b.ctx, loc, timeout), "WaitForInvisible(%s)", loc)
}

func (b *BoundRunner) WaitForClickable(loc entities.Locator, timeout time.Duration) interfaces.Element {
	b.t.Helper()
	el, err := b.w.WaitForClickable(b.ctx, loc, timeout)
	b.check(err, "WaitForClickable(%s)", loc)
	return el
}

func (b *BoundRunner) WaitForAlert(timeout time.Duration) string {
	b.t.Helper()
	text, err := b.w.WaitForAlert(b.ctx, timeout)
	b.check(err, "WaitForAlert()")
	return text
}

func (b *BoundRunner) SwitchToWindow(index int) {
	b.t.Helper()
	b.check(b.w.SwitchToWindow(b.ctx, index), "SwitchToWindow(%d)", index)
}

func (b *BoundRunner) CloseWindow(index int) {
	b.t.Helper()
	b.check(b.w.CloseWindow(b.ctx, index), "CloseWindow(%d)", index)
}

func (b *BoundRunner) TakeScreenshot(name string) string {
	b.t.Helper()
	path, err := b.w.TakeScreenshot(b.ctx, name)
	b.check(err, "TakeScreenshot(%q)", name)
	return path
}

// StoreCoordinates never fails the test
func (b *BoundRunner) StoreCoordinates(el interfaces.Element, functionName string) {
	b.w.StoreCoordinates(b.ctx, el, functionName)
}

func (b *BoundRunner) StoredCoordinates(functionName string) entities.Point {
	b.t.Helper()
	p, err := b.w.StoredCoordinates(b.ctx, functionName)
	b.check(err, "StoredCoordinates(%q)", functionName)
	return p
}

func (b *BoundRunner) ClickStoredCoordinates(functionName string) {
	b.t.Helper()
	b.check(b.w.ClickStoredCoordinates(b.ctx, functionName), "ClickStoredCoordinates(%q)", functionName)
}

func (b *BoundRunner) Step(name string, fn func(ctx context.Context) error) {
	b.t.Helper()
	b.check(b.w.Step(b.ctx, name, fn), "Step(%q)", name)
}
