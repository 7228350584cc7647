package hostwindow

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/launchdarkly/aria-at-harness/framework"
	"github.com/launchdarkly/aria-at-harness/hostdef"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

const defaultWatchInterval = time.Millisecond * 500

// ServiceOptions configures a ServiceController.
type ServiceOptions struct {
	// WindowWidth and WindowHeight are passed to the host service if defined.
	WindowWidth  ldvalue.OptionalInt
	WindowHeight ldvalue.OptionalInt

	// WatchInterval is how often an open window is polled to detect that it was closed.
	WatchInterval time.Duration

	HTTPClient *http.Client
	Logger     framework.Logger
}

// ServiceController opens host windows by talking to a host service over HTTP.
//
// The protocol is: GET on the base URL returns hostdef.ServiceInfo; POST of
// hostdef.OpenWindowParams to the base URL opens a window and returns its resource URL in the
// Location header; GET on the resource returns hostdef.WindowStatus, or 404 once the window is
// gone; POST of hostdef.CommandParams to the resource runs a command; DELETE closes it.
type ServiceController struct {
	baseURL string
	opts    ServiceOptions
	client  *http.Client
	logger  framework.Logger
}

// NewServiceController creates a ServiceController. It does not contact the service; call
// QueryServiceInfo to verify that it is reachable.
func NewServiceController(baseURL string, opts ServiceOptions) *ServiceController {
	client := opts.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	logger := opts.Logger
	if logger == nil {
		logger = framework.NullLogger()
	}
	if opts.WatchInterval <= 0 {
		opts.WatchInterval = defaultWatchInterval
	}
	return &ServiceController{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		opts:    opts,
		client:  client,
		logger:  logger,
	}
}

// QueryServiceInfo polls the host service's status resource until it responds or the timeout
// elapses. Progress dots are written to output.
func (s *ServiceController) QueryServiceInfo(ctx context.Context, timeout time.Duration, output io.Writer) (hostdef.ServiceInfo, error) {
	fmt.Fprintf(output, "Connecting to host service at %s", s.baseURL)

	deadline := time.Now().Add(timeout)
	for {
		fmt.Fprintf(output, ".")
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL, nil)
		if err != nil {
			return hostdef.ServiceInfo{}, err
		}
		resp, err := s.client.Do(req)
		if err == nil {
			fmt.Fprintln(output)
			respData, readErr := io.ReadAll(resp.Body)
			resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return hostdef.ServiceInfo{}, fmt.Errorf("host service returned status code %d", resp.StatusCode)
			}
			if readErr != nil {
				return hostdef.ServiceInfo{}, readErr
			}
			if len(respData) == 0 {
				fmt.Fprintf(output, "Status query successful, but service provided no metadata\n")
				return hostdef.ServiceInfo{}, nil
			}
			var info hostdef.ServiceInfo
			if err := json.Unmarshal(respData, &info); err != nil {
				return hostdef.ServiceInfo{}, fmt.Errorf("malformed status response from host service: %s", string(respData))
			}
			fmt.Fprintf(output, "Host service: %s\n", info.Description)
			return info, nil
		}
		if !time.Now().Before(deadline) {
			return hostdef.ServiceInfo{}, fmt.Errorf("timed out, result of last query was: %w", err)
		}
		select {
		case <-ctx.Done():
			return hostdef.ServiceInfo{}, ctx.Err()
		case <-time.After(time.Millisecond * 100):
		}
	}
}

// Open asks the host service to open a window showing uri.
func (s *ServiceController) Open(ctx context.Context, uri string) (Document, error) {
	params := hostdef.OpenWindowParams{
		URL:    uri,
		Width:  s.opts.WindowWidth,
		Height: s.opts.WindowHeight,
	}
	data, err := json.Marshal(params)
	if err != nil {
		return nil, err
	}

	s.logger.Printf("Opening host window with parameters: %s", string(data))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL, bytes.NewBuffer(data))
	if err != nil {
		return nil, err
	}
	req.Header.Add("Content-Type", "application/json")
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		var message string
		if len(body) > 0 {
			message = ": " + string(body)
		}
		return nil, fmt.Errorf("unexpected response status %d from host service%s", resp.StatusCode, message)
	}
	resourceURL := resp.Header.Get("Location")
	if resourceURL == "" {
		return nil, errors.New("host service did not return a Location header with a resource URL")
	}
	if !strings.HasPrefix(resourceURL, "http:") && !strings.HasPrefix(resourceURL, "https:") {
		resourceURL = s.baseURL + resourceURL
	}

	w := &serviceWindow{
		uri:         uri,
		resourceURL: resourceURL,
		client:      s.client,
		logger:      s.logger,
		closed:      make(chan struct{}),
	}
	go w.watch(s.opts.WatchInterval)
	return w, nil
}

type serviceWindow struct {
	uri         string
	resourceURL string
	client      *http.Client
	logger      framework.Logger
	closed      chan struct{}
	closeOnce   sync.Once
}

func (w *serviceWindow) URI() string { return w.uri }

func (w *serviceWindow) Closed() <-chan struct{} { return w.closed }

func (w *serviceWindow) markClosed() {
	w.closeOnce.Do(func() {
		w.logger.Printf("Host window %s is closed", w.resourceURL)
		close(w.closed)
	})
}

func (w *serviceWindow) isClosed() bool {
	select {
	case <-w.closed:
		return true
	default:
		return false
	}
}

func (w *serviceWindow) ReadyState(ctx context.Context) (string, error) {
	if w.isClosed() {
		return "", ErrClosed
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.resourceURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := w.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone {
		w.markClosed()
		return "", ErrClosed
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("window status request returned HTTP status %d", resp.StatusCode)
	}
	var status hostdef.WindowStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return "", fmt.Errorf("malformed window status: %w", err)
	}
	return status.ReadyState, nil
}

func (w *serviceWindow) RunScript(ctx context.Context, script string) error {
	return w.sendCommand(ctx, hostdef.CommandParams{Command: hostdef.CommandRunScript, Script: script})
}

func (w *serviceWindow) Reload(ctx context.Context) error {
	return w.sendCommand(ctx, hostdef.CommandParams{Command: hostdef.CommandReload})
}

func (w *serviceWindow) sendCommand(ctx context.Context, params hostdef.CommandParams) error {
	if w.isClosed() {
		return ErrClosed
	}
	data, _ := json.Marshal(params)
	w.logger.Printf("Sending command to host window: %s", string(data))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.resourceURL, bytes.NewBuffer(data))
	if err != nil {
		return err
	}
	req.Header.Add("Content-Type", "application/json")
	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone {
		w.markClosed()
		return ErrClosed
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("command %q returned HTTP status %d", params.Command, resp.StatusCode)
	}
	return nil
}

// Close asks the host service to close the window. Closing a window that is already gone is
// not an error.
func (w *serviceWindow) Close(ctx context.Context) error {
	if w.isClosed() {
		return nil
	}
	defer w.markClosed()
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, w.resourceURL, nil)
	if err != nil {
		return err
	}
	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent, http.StatusNotFound, http.StatusGone:
		return nil
	}
	return fmt.Errorf("DELETE request to host service returned HTTP status %d", resp.StatusCode)
}

// watch polls the window until it disappears, so that a window closed by the tester is noticed
// even when the harness is not otherwise talking to it.
func (w *serviceWindow) watch(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-w.closed:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), interval)
			_, err := w.ReadyState(ctx)
			cancel()
			if err != nil && !errors.Is(err, ErrClosed) {
				w.logger.Printf("Error polling host window: %s", err)
			}
		}
	}
}
