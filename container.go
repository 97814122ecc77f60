package stellar

import "slices"

// BasicContainer is a Container for hosts that own a single fixed
// viewport, such as a window, a terminal or an offscreen renderer. The
// host calls SetSize when its viewport changes.
type BasicContainer struct {
	w, h      int
	attached  Surface
	listeners map[ListenerID]func(w, h int)
	nextID    ListenerID
}

// NewBasicContainer creates a container of the given size.
func NewBasicContainer(w, h int) *BasicContainer {
	return &BasicContainer{w: w, h: h, listeners: make(map[ListenerID]func(w, h int))}
}

func (c *BasicContainer) Size() (int, int) { return c.w, c.h }

// Attached returns the mounted surface, or nil.
func (c *BasicContainer) Attached() Surface {
	return c.attached
}

func (c *BasicContainer) Attach(s Surface) {
	c.attached = s
}

func (c *BasicContainer) Detach(s Surface) {
	if c.attached == s {
		c.attached = nil
	}
}

func (c *BasicContainer) AddResizeListener(fn func(w, h int)) ListenerID {
	c.nextID++
	c.listeners[c.nextID] = fn
	return c.nextID
}

func (c *BasicContainer) RemoveResizeListener(id ListenerID) {
	delete(c.listeners, id)
}

// Listeners returns the number of registered listeners.
func (c *BasicContainer) Listeners() int {
	return len(c.listeners)
}

// SetSize updates the size and notifies listeners in registration order
// when it changed.
func (c *BasicContainer) SetSize(w, h int) {
	if w == c.w && h == c.h {
		return
	}
	c.w, c.h = w, h
	ids := make([]ListenerID, 0, len(c.listeners))
	for id := range c.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		if fn, ok := c.listeners[id]; ok {
			fn(w, h)
		}
	}
}
