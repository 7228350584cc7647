package framework

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"sync"
	"time"
)

const pagePathPrefix = "/pages/"
const httpListenerTimeout = time.Second * 10

// PageServer serves local pages under test over HTTP, so that a host service, which may be
// running somewhere else, can open them.
type PageServer struct {
	externalBaseURL string
	mounts          map[string]*PageMount
	lastMountID     int
	server          *http.Server
	logger          Logger
	lock            sync.Mutex
}

// PageMount is one directory published by a PageServer.
type PageMount struct {
	owner    *PageServer
	id       string
	basePath string
	handler  http.Handler
	requests chan string
	closing  sync.Once
}

// StartPageServer starts listening on the specified port; 0 picks a free port. Page URLs are
// formed from externalHostname and the actual port. It returns once the listener is
// answering requests.
func StartPageServer(externalHostname string, port int, debugLogger Logger) (*PageServer, error) {
	if debugLogger == nil {
		debugLogger = NullLogger()
	}
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, fmt.Errorf("could not start page server: %w", err)
	}
	actualPort := listener.Addr().(*net.TCPAddr).Port

	s := &PageServer{
		externalBaseURL: fmt.Sprintf("http://%s:%d", externalHostname, actualPort),
		mounts:          make(map[string]*PageMount),
		logger:          debugLogger,
	}
	s.server = &http.Server{Handler: http.HandlerFunc(s.serveHTTP)}
	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Printf("Page server stopped: %s", err)
		}
	}()

	if err := awaitListener(fmt.Sprintf("http://localhost:%d", actualPort)); err != nil {
		_ = s.server.Close()
		return nil, err
	}
	return s, nil
}

// BaseURL is the externally visible base URL of the server.
func (s *PageServer) BaseURL() string {
	return s.externalBaseURL
}

// Mount publishes the files in dir under a new base path.
func (s *PageServer) Mount(dir string) *PageMount {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.lastMountID++
	m := &PageMount{
		owner:    s,
		id:       strconv.Itoa(s.lastMountID),
		handler:  http.FileServer(http.Dir(dir)),
		requests: make(chan string, 100),
	}
	m.basePath = pagePathPrefix + m.id
	s.mounts[m.id] = m
	s.logger.Printf("Serving %s at %s", dir, s.externalBaseURL+m.basePath)
	return m
}

// Shutdown stops the server, waiting for active requests until ctx is done.
func (s *PageServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *PageServer) serveHTTP(w http.ResponseWriter, req *http.Request) {
	if req.Method == http.MethodHead && req.URL.Path == "/" {
		w.WriteHeader(http.StatusOK) // we use this to test whether our own listener is active yet
		return
	}
	if !strings.HasPrefix(req.URL.Path, pagePathPrefix) {
		s.logger.Printf("Received request for unrecognized URL path %s", req.URL.Path)
		w.WriteHeader(http.StatusNotFound)
		return
	}
	rest := strings.TrimPrefix(req.URL.Path, pagePathPrefix)
	mountID, subpath := rest, "/"
	if slashPos := strings.Index(rest, "/"); slashPos >= 0 {
		mountID, subpath = rest[:slashPos], rest[slashPos:]
	}

	s.lock.Lock()
	m := s.mounts[mountID]
	s.lock.Unlock()
	if m == nil {
		s.logger.Printf("Received request for unrecognized page mount %s", req.URL.Path)
		w.WriteHeader(http.StatusNotFound)
		return
	}

	select { // non-blocking push
	case m.requests <- subpath:
	default:
	}

	transformedReq := req.Clone(req.Context())
	transformedReq.URL.Path = subpath
	transformedReq.URL.RawPath = ""
	m.handler.ServeHTTP(w, transformedReq)
}

// URL returns the external URL of a file in the mounted directory, given its path relative to
// the directory.
func (m *PageMount) URL(relPath string) string {
	segments := strings.Split(path.Clean("/"+strings.ReplaceAll(relPath, "\\", "/")), "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return m.owner.externalBaseURL + m.basePath + strings.Join(segments, "/")
}

// AwaitRequest waits until something requests a file from the mount, and returns the path
// that was requested.
func (m *PageMount) AwaitRequest(timeout time.Duration) (string, error) {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	select {
	case p := <-m.requests:
		return p, nil
	case <-deadline.C:
		return "", fmt.Errorf("timed out waiting for a request to %s", m.basePath)
	}
}

// Close unpublishes the directory. Subsequent requests for it receive 404 errors.
func (m *PageMount) Close() {
	m.closing.Do(func() {
		m.owner.lock.Lock()
		delete(m.owner.mounts, m.id)
		m.owner.lock.Unlock()
	})
}

func awaitListener(baseURL string) error {
	deadline := time.NewTimer(httpListenerTimeout)
	defer deadline.Stop()
	ticker := time.NewTicker(time.Millisecond * 10)
	defer ticker.Stop()
	for {
		select {
		case <-deadline.C:
			return fmt.Errorf("could not detect own listener at %s", baseURL)
		case <-ticker.C:
			resp, err := http.DefaultClient.Head(baseURL)
			if err == nil {
				resp.Body.Close()
				if resp.StatusCode == http.StatusOK {
					return nil
				}
			}
		}
	}
}
