package webrunner

import (
	"context"
	"fmt"

	"webrunner/domain/entities"
	"webrunner/domain/interfaces"
)

// StoreCoordinates saves the centre of el, normalised by window size,
// under <CallerType>.<functionName>. It only runs in capture mode
// (update_coordinates=true) and never fails the caller.
func (w *WebRunner) StoreCoordinates(ctx context.Context, el interfaces.Element, functionName string) {
	if !w.cfg.CaptureCoordinates {
		return
	}
	c := callerOutside()
	key := c.Type + "." + functionName
	logger := w.logger.WithField("key", key)

	if err := w.storeCoordinates(ctx, el, key); err != nil {
		logger.WithError(err).Warn("Failed to store coordinates")
		return
	}
	logger.Info("Stored coordinates")
}

func (w *WebRunner) storeCoordinates(ctx context.Context, el interfaces.Element, key string) error {
	d, err := w.session()
	if err != nil {
		return err
	}
	if err := w.execOn(el, scrollIntoViewScript); err != nil {
		return fmt.Errorf("scroll: %w", err)
	}
	if err := sleep(ctx, w.cfg.ActionDelay); err != nil {
		return err
	}
	rect, err := el.Rect()
	if err != nil {
		return fmt.Errorf("element rect: %w", err)
	}
	window, err := d.WindowSize()
	if err != nil {
		return fmt.Errorf("window size: %w", err)
	}
	return w.coordinates.Save(key, entities.Normalize(rect, window))
}

// StoredCoordinates returns the absolute pixel position saved for
// <CallerType>.<functionName> against the current window size
func (w *WebRunner) StoredCoordinates(ctx context.Context, functionName string) (entities.Point, error) {
	c := callerOutside()
	return w.storedCoordinates(c.Type + "." + functionName)
}

func (w *WebRunner) storedCoordinates(key string) (entities.Point, error) {
	d, err := w.session()
	if err != nil {
		return entities.Point{}, err
	}
	coords, ok, err := w.coordinates.Load(key)
	if err != nil {
		return entities.Point{}, err
	}
	if !ok {
		return entities.Point{}, fmt.Errorf("%w: %s", ErrNoCoordinates, key)
	}
	window, err := d.WindowSize()
	if err != nil {
		return entities.Point{}, fmt.Errorf("window size: %w", err)
	}
	return coords.Absolute(window), nil
}

// ClickStoredCoordinates moves the pointer to the stored position for
// <CallerType>.<functionName> and clicks there
func (w *WebRunner) ClickStoredCoordinates(ctx context.Context, functionName string) error {
	c := callerOutside()
	key := c.Type + "." + functionName
	p, err := w.storedCoordinates(key)
	if err != nil {
		return w.fail(ctx, "click coordinates", key, functionName, err)
	}
	d, err := w.session()
	if err != nil {
		return err
	}
	if err := d.MoveMouse(p); err != nil {
		return w.fail(ctx, "click coordinates", key, functionName, err)
	}
	if err := d.ClickMouse(); err != nil {
		return w.fail(ctx, "click coordinates", key, functionName, err)
	}
	w.logger.WithField("key", key).Infof("Clicked stored coordinates %d, %d", p.X, p.Y)
	w.displayLog(ctx, "Click: "+functionName)
	return nil
}
