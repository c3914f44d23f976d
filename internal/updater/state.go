package updater

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/northlane-software/updatewing/internal/feed"
	"github.com/northlane-software/updatewing/internal/filecache"
	"github.com/northlane-software/updatewing/internal/httperr"
	"github.com/northlane-software/updatewing/internal/release"
)

// FeedSource returns the URI of the release feed to check. It is a function
// type rather than a bare string so callers can point at a static URL, an
// environment variable, or a discovery endpoint.
type FeedSource func(ctx context.Context) (string, error)

// StaticFeedSource returns a FeedSource that always resolves to uri.
func StaticFeedSource(uri string) FeedSource {
	return func(context.Context) (string, error) {
		return uri, nil
	}
}

// Options configures a Machine.
type Options struct {
	HTTPClient          *http.Client
	FeedURIProvider     FeedSource
	Cache               *filecache.Cache
	CurrentVersion      release.Version
	EarlyAccessCategory string
	Logger              *zap.Logger
}

// Machine drives State transitions against a feed, a file cache, and the
// current version. It holds no mutable state of its own: every transition
// takes a State and returns a new one, leaving the input untouched.
type Machine struct {
	httpClient  *http.Client
	feedURI     FeedSource
	cache       *filecache.Cache
	currentVer  release.Version
	earlyAccess string
	logger      *zap.Logger
}

// New constructs a Machine from opts.
func New(opts Options) (*Machine, error) {
	if opts.FeedURIProvider == nil {
		return nil, fmt.Errorf("updater: FeedURIProvider is required")
	}
	if opts.Cache == nil {
		return nil, fmt.Errorf("updater: Cache is required")
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Machine{
		httpClient:  httpClient,
		feedURI:     opts.FeedURIProvider,
		cache:       opts.Cache,
		currentVer:  opts.CurrentVersion,
		earlyAccess: opts.EarlyAccessCategory,
		logger:      logger,
	}, nil
}

// State is an immutable snapshot of where a single update cycle stands.
// Every transition method returns a fresh State; none of them mutate the
// receiver.
type State struct {
	currentVersion release.Version
	earlyAccess    bool

	view release.View // set once Latest has run

	cacheChecked   bool   // CachedLatest has run
	cachedPath     string // non-empty once the file was found locally, already validated

	downloadedPath string // non-empty once Downloaded has run
	validated      bool   // true once Validated has run and the checksum matched
}

// Initial returns the starting State for a check: no feed data yet, running
// against currentVersion with the given early-access channel enabled.
func Initial(currentVersion release.Version, earlyAccessEnabled bool) State {
	return State{currentVersion: currentVersion, earlyAccess: earlyAccessEnabled}
}

// Available reports whether a release newer than the current version was
// found by the most recent Latest call. It is false on a State that hasn't
// run Latest yet.
func (s State) Available() bool {
	return s.view.New != nil
}

// Ready reports whether the available release's installer is downloaded
// and checksum-validated, so a launcher can be handed the path.
func (s State) Ready() bool {
	return s.Available() && s.validated
}

// New returns the release the last Latest call found, or nil if none or if
// Latest hasn't run.
func (s State) New() *release.Release {
	return s.view.New
}

// History returns the release history the last Latest call produced.
func (s State) History() []release.Release {
	return s.view.History
}

// LocalPath returns the local installer path once Downloaded has run, or
// once CachedLatest has adopted an already-validated local file, and the
// empty string otherwise.
func (s State) LocalPath() string {
	if s.downloadedPath != "" {
		return s.downloadedPath
	}
	return s.cachedPath
}

// EarlyAccessEnabled reports which channel this State was projected for.
func (s State) EarlyAccessEnabled() bool {
	return s.earlyAccess
}

// WithEarlyAccess returns a copy of s with the early-access channel flag
// changed. Resolution of the channel-toggle open question: toggling the
// channel does not, by itself, invalidate a prior download or validation —
// those describe a specific file on disk, and remain true until the next
// Latest call lands on a release whose File differs from the one they were
// computed against. Latest is responsible for clearing them when the New
// release changes.
func (s State) WithEarlyAccess(enabled bool) State {
	next := s
	next.earlyAccess = enabled
	return next
}

// Latest fetches the feed, decodes it, and projects a new release view
// against s's current version and early-access setting. It always performs
// a network call: it is the one transition that may observe a newer
// release than s already knows about.
//
// If the resulting New release differs (by File) from s's, any downloaded
// path and validated flag are cleared: they described the old release's
// installer and no longer apply.
func (m *Machine) Latest(ctx context.Context, s State) (State, error) {
	uri, err := m.feedURI(ctx)
	if err != nil {
		return s, normalize("resolve feed uri", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return s, normalize("build feed request", err)
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return s, normalize("fetch feed", err)
	}
	defer resp.Body.Close()

	if !httperr.IsSuccess(resp.StatusCode) {
		return s, normalize("fetch feed", &httperr.StatusError{URL: uri, StatusCode: resp.StatusCode})
	}

	doc, err := feed.Decode(resp.Body)
	if err != nil {
		return s, normalize("decode feed", err)
	}

	col, err := release.NewCollection(doc, m.earlyAccess)
	if err != nil {
		return s, &Error{Kind: FeedMalformed, Op: "build release collection", Err: err}
	}

	view := release.Project(col, s.currentVersion, s.earlyAccess)

	next := s
	next.view = view
	if releaseFileChanged(s.view.New, view.New) {
		next.cacheChecked = false
		next.cachedPath = ""
		next.downloadedPath = ""
		next.validated = false
	}

	m.logger.Debug("checked feed for updates",
		zap.String("uri", uri),
		zap.Bool("available", next.Available()))

	return next, nil
}

// CachedLatest consults the local file cache for the release s.New points
// at, without making a network call. If the installer is already present
// locally AND already validated against this exact descriptor (left over
// from a previous run), its path is recorded and Downloaded becomes a
// no-op. A file that merely exists but was never validated against this
// descriptor — partial content from an interrupted download, or leftover
// content from an unrelated release that happened to share a URL basename
// — is not adopted here, so Downloaded will re-stream it. Calling
// CachedLatest when !Available is a no-op: it never touches the file
// system in that case.
func (m *Machine) CachedLatest(s State) State {
	next := s
	next.cacheChecked = true

	if !s.Available() {
		return next
	}

	file := s.view.New.File
	if file != nil && m.cache.Exists(file) && m.cache.ValidatedAgainst(file) {
		next.cachedPath = m.cache.LocalPath(file)
	}
	return next
}

// Downloaded streams the available release's installer into the local
// cache and records its path. When !Available, Downloaded makes no network
// call and returns s unchanged: there is nothing to download. It skips the
// network call only when the installer is both present on disk and already
// validated against the current descriptor — per spec, existence alone is
// not enough, since the file on disk may be unvalidated leftovers from a
// different download attempt or release. Calling Downloaded again on a
// State that is already Ready is therefore also a no-op: the ledger still
// shows the same descriptor validated, so the existing path is adopted
// without a second network call.
func (m *Machine) Downloaded(ctx context.Context, s State) (State, error) {
	if !s.Available() {
		return s, nil
	}

	file := s.view.New.File
	if file == nil {
		return s, &Error{Kind: FeedMalformed, Op: "download", Err: fmt.Errorf("available release has no file descriptor")}
	}

	if s.cachedPath != "" {
		next := s
		next.downloadedPath = s.cachedPath
		return next, nil
	}

	if m.cache.Exists(file) && m.cache.ValidatedAgainst(file) {
		next := s
		next.cachedPath = m.cache.LocalPath(file)
		next.downloadedPath = next.cachedPath
		next.validated = true
		return next, nil
	}

	path, err := m.cache.Download(ctx, file)
	if err != nil {
		return s, normalize("download installer", err)
	}

	next := s
	next.downloadedPath = path
	next.validated = false
	return next, nil
}

// Validated checksums the downloaded installer against the available
// release's expected SHA-512 and records the result. Calling Validated
// before Downloaded (no local path yet) is a no-op that leaves validated
// false.
func (m *Machine) Validated(s State) (State, error) {
	if !s.Available() || s.LocalPath() == "" {
		return s, nil
	}

	file := s.view.New.File
	ok, err := m.cache.Validate(file)
	if err != nil {
		return s, normalize("validate installer", err)
	}

	next := s
	next.validated = ok
	return next, nil
}

func releaseFileChanged(prev, next *release.Release) bool {
	if prev == nil && next == nil {
		return false
	}
	if prev == nil || next == nil {
		return true
	}
	if prev.File == nil || next.File == nil {
		return prev.File != next.File
	}
	return prev.File.URL != next.File.URL || prev.File.SHA512 != next.File.SHA512
}
