package webrunner

import (
	"context"
	"os"
	"testing"
	"time"

	"webrunner/domain/entities"
	"webrunner/infrastructure/browser/mock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindElementWaitsForLateElement(t *testing.T) {
	f := newFixture(t)
	loc := entities.XPath("//button[@id='go']")
	el := mock.NewElement("go")
	f.driver.AddAfter(loc, 3, el)

	found, err := f.runner.FindElement(context.Background(), loc, 0)
	require.NoError(t, err)
	assert.Same(t, el, found)
	assert.Equal(t, 4, f.driver.Lookups(loc))
}

func TestFindElementTimeout(t *testing.T) {
	f := newFixture(t)
	loc := entities.CSS(".missing")

	start := time.Now()
	_, err := f.runner.FindElement(context.Background(), loc, 50*time.Millisecond)
	assert.Less(t, time.Since(start), time.Second)

	assert.ErrorIs(t, err, ErrElementNotFound)
	assert.ErrorIs(t, err, ErrTimeout)
	var actionErr *ActionError
	require.ErrorAs(t, err, &actionErr)
	assert.Equal(t, "(css selector, .missing)", actionErr.Locator)
}

func TestFindElementRecordingDisabled(t *testing.T) {
	f := newFixture(t)
	f.cfg.RecordFailedLocators = false

	_, err := f.runner.FindElement(context.Background(), entities.CSS(".missing"), 20*time.Millisecond)
	assert.ErrorIs(t, err, ErrElementNotFound)
	_, statErr := os.Stat(f.cfg.FailedLocators)
	assert.True(t, os.IsNotExist(statErr))
}

func TestFindElementInvalidLocator(t *testing.T) {
	f := newFixture(t)

	_, err := f.runner.FindElement(context.Background(), entities.Locator{By: "shadow", Value: "x"}, 0)
	assert.ErrorContains(t, err, "unknown locator strategy")
	assert.Equal(t, 0, f.driver.Lookups(entities.Locator{By: "shadow", Value: "x"}))
}

func TestFindElements(t *testing.T) {
	f := newFixture(t)
	loc := entities.CSS("li")
	f.driver.Add(loc, mock.NewElement("one"), mock.NewElement("two"))

	elems, err := f.runner.FindElements(context.Background(), loc, 0)
	require.NoError(t, err)
	assert.Len(t, elems, 2)

	_, err = f.runner.FindElements(context.Background(), entities.CSS("tr"), 20*time.Millisecond)
	assert.ErrorIs(t, err, ErrElementNotFound)
}

func TestWaitForVisible(t *testing.T) {
	f := newFixture(t)
	loc := entities.ID("banner")
	el := mock.NewElement("banner")
	el.SetDisplayed(false)
	f.driver.Add(loc, el)

	_, err := f.runner.WaitForVisible(context.Background(), loc, 30*time.Millisecond)
	assert.ErrorIs(t, err, ErrTimeout)

	go func() {
		time.Sleep(20 * time.Millisecond)
		el.SetDisplayed(true)
	}()
	found, err := f.runner.WaitForVisible(context.Background(), loc, time.Second)
	require.NoError(t, err)
	assert.Same(t, el, found)
}

func TestWaitForInvisible(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	loc := entities.ID("spinner")

	assert.NoError(t, f.runner.WaitForInvisible(ctx, loc, 0))

	el := mock.NewElement("spinner")
	f.driver.Add(loc, el)
	assert.ErrorIs(t, f.runner.WaitForInvisible(ctx, loc, 30*time.Millisecond), ErrTimeout)

	el.SetDisplayed(false)
	assert.NoError(t, f.runner.WaitForInvisible(ctx, loc, 0))
}

func TestWaitForClickable(t *testing.T) {
	f := newFixture(t)
	loc := entities.ID("pay")
	el := mock.NewElement("pay")
	el.SetEnabled(false)
	f.driver.Add(loc, el)

	_, err := f.runner.WaitForClickable(context.Background(), loc, 30*time.Millisecond)
	assert.ErrorIs(t, err, ErrTimeout)

	el.SetEnabled(true)
	found, err := f.runner.WaitForClickable(context.Background(), loc, 0)
	require.NoError(t, err)
	assert.Same(t, el, found)
}

func TestWaitForPresenceHonoursContext(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.runner.WaitForPresence(ctx, entities.ID("never"), time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrTimeout)
}
