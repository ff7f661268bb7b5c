package mock_port

import (
	"context"
	"errors"
	"sync"

	"github.com/bnema/webdock/internal/application/port"
	"github.com/bnema/webdock/internal/domain/entity"
)

// FakeEngine is a scripted port.Engine for tests.
type FakeEngine struct {
	mu        sync.Mutex
	nextID    port.ContextID
	contexts  []*FakeContext
	defaultUA string

	// CreateErr, when set, is returned by the next CreateContext call.
	CreateErr error
}

func NewFakeEngine() *FakeEngine {
	return &FakeEngine{defaultUA: "FakeEngine/1.0"}
}

func (e *FakeEngine) CreateContext(_ context.Context, cfg port.ContextConfig) (port.BrowsingContext, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.CreateErr != nil {
		err := e.CreateErr
		e.CreateErr = nil
		return nil, err
	}
	e.nextID++
	fc := &FakeContext{id: e.nextID, Config: cfg, userAgent: cfg.UserAgent, muted: cfg.AudioMuted}
	if fc.userAgent == "" {
		fc.userAgent = e.defaultUA
	}
	e.contexts = append(e.contexts, fc)
	return fc, nil
}

func (e *FakeEngine) DefaultUserAgent() string {
	return e.defaultUA
}

// Contexts returns every context created so far, destroyed ones included.
func (e *FakeEngine) Contexts() []*FakeContext {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*FakeContext, len(e.contexts))
	copy(out, e.contexts)
	return out
}

// Created returns how many contexts were created.
func (e *FakeEngine) Created() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.contexts)
}

// Last returns the most recently created context.
func (e *FakeEngine) Last() *FakeContext {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.contexts) == 0 {
		return nil
	}
	return e.contexts[len(e.contexts)-1]
}

// FakeContext is a scripted port.BrowsingContext. Fire* methods simulate
// engine events.
type FakeContext struct {
	mu        sync.Mutex
	id        port.ContextID
	Config    port.ContextConfig
	callbacks port.ContextCallbacks
	loads     []string
	url       string
	title     string
	userAgent string
	muted     bool
	finding   bool
	destroyed bool
	canBack   bool
	canFwd    bool

	// HTML is returned by PageHTML.
	HTML string
}

var errDestroyed = errors.New("context destroyed")

func (c *FakeContext) ID() port.ContextID { return c.id }

func (c *FakeContext) SetCallbacks(cb port.ContextCallbacks) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.callbacks = cb
}

func (c *FakeContext) LoadURL(_ context.Context, url string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		return errDestroyed
	}
	c.loads = append(c.loads, url)
	c.url = url
	return nil
}

func (c *FakeContext) Reload(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		return errDestroyed
	}
	c.loads = append(c.loads, c.url)
	return nil
}

func (c *FakeContext) Stop() {}

func (c *FakeContext) URL() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.url
}

func (c *FakeContext) Title() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.title
}

func (c *FakeContext) CanGoBack() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canBack
}

func (c *FakeContext) CanGoForward() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canFwd
}

func (c *FakeContext) UserAgent() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.userAgent
}

func (c *FakeContext) SetUserAgent(ua string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.userAgent = ua
}

func (c *FakeContext) SetAudioMuted(muted bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.muted = muted
}

func (c *FakeContext) AudioMuted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.muted
}

func (c *FakeContext) FindInPage(string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.finding = true
}

func (c *FakeContext) StopFindInPage() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.finding = false
}

func (c *FakeContext) IsFinding() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.finding
}

func (c *FakeContext) PageHTML(context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		return "", errDestroyed
	}
	return c.HTML, nil
}

func (c *FakeContext) Destroy() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.destroyed = true
}

// Destroyed reports whether Destroy was called.
func (c *FakeContext) Destroyed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.destroyed
}

// Loads returns every URL passed to LoadURL or Reload.
func (c *FakeContext) Loads() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.loads))
	copy(out, c.loads)
	return out
}

// SetURL changes the current URL without recording a load.
func (c *FakeContext) SetURL(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.url = url
}

// SetHistory sets back/forward availability.
func (c *FakeContext) SetHistory(back, fwd bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.canBack, c.canFwd = back, fwd
}

func (c *FakeContext) cb() port.ContextCallbacks {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.callbacks
}

func (c *FakeContext) FireLoadStart() {
	if f := c.cb().OnLoadStart; f != nil {
		f()
	}
}

func (c *FakeContext) FireLoadStop() {
	if f := c.cb().OnLoadStop; f != nil {
		f()
	}
}

func (c *FakeContext) FireLoadFail(failure port.LoadFailure) {
	if f := c.cb().OnLoadFail; f != nil {
		f(failure)
	}
}

func (c *FakeContext) FireNavigate(url string) {
	c.SetURL(url)
	if f := c.cb().OnNavigate; f != nil {
		f(url)
	}
}

func (c *FakeContext) FireTitle(title string) {
	c.mu.Lock()
	c.title = title
	c.mu.Unlock()
	if f := c.cb().OnTitleUpdate; f != nil {
		f(title)
	}
}

func (c *FakeContext) FireNewWindow(req port.NewWindowRequest) {
	if f := c.cb().OnNewWindowRequest; f != nil {
		f(req)
	}
}

func (c *FakeContext) FireDownloadStart(req port.DownloadRequest, control port.DownloadControl) {
	if f := c.cb().OnDownloadStart; f != nil {
		f(req, control)
	}
}

func (c *FakeContext) FireDownloadProgress(id string, received, total int64) {
	if f := c.cb().OnDownloadProgress; f != nil {
		f(id, received, total)
	}
}

func (c *FakeContext) FireDownloadDone(id string, state entity.DownloadState) {
	if f := c.cb().OnDownloadDone; f != nil {
		f(id, state)
	}
}

// FakeDownload records what the coordinator did with a download.
type FakeDownload struct {
	mu        sync.Mutex
	savePath  string
	cancelled bool
}

func (d *FakeDownload) SetSavePath(path string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.savePath = path
	return nil
}

func (d *FakeDownload) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelled = true
}

func (d *FakeDownload) SavePath() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.savePath
}

func (d *FakeDownload) Cancelled() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cancelled
}

// FakeSurface is a port.Surface that remembers what is attached.
type FakeSurface struct {
	mu       sync.Mutex
	attached port.BrowsingContext
}

func (s *FakeSurface) Attach(bc port.BrowsingContext) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attached = bc
}

func (s *FakeSurface) Detach(bc port.BrowsingContext) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.attached == bc {
		s.attached = nil
	}
}

func (s *FakeSurface) Attached() port.BrowsingContext {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attached
}

// FakePopupHost records shown popups.
type FakePopupHost struct {
	mu     sync.Mutex
	popups []port.BrowsingContext
}

func (h *FakePopupHost) ShowPopup(bc port.BrowsingContext, _ string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.popups = append(h.popups, bc)
}

// Shown returns every popup presented so far.
func (h *FakePopupHost) Shown() []port.BrowsingContext {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]port.BrowsingContext, len(h.popups))
	copy(out, h.popups)
	return out
}
