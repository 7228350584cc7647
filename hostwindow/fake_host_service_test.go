package hostwindow

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/launchdarkly/aria-at-harness/hostdef"
)

// fakeHostService implements the host service protocol for a single window. The window reports
// "loading" for the first loadingPolls status requests and "complete" after that.
type fakeHostService struct {
	loadingPolls int
	polls        int
	open         bool
	opened       []hostdef.OpenWindowParams
	commands     []hostdef.CommandParams
	lock         sync.Mutex
}

func (f *fakeHostService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.lock.Lock()
	defer f.lock.Unlock()

	switch {
	case r.URL.Path == "/" && r.Method == http.MethodGet:
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"description":"fake host service","capabilities":["reload"]}`))
	case r.URL.Path == "/" && r.Method == http.MethodPost:
		var params hostdef.OpenWindowParams
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &params)
		f.opened = append(f.opened, params)
		f.open = true
		f.polls = 0
		w.Header().Set("Location", "/windows/1")
		w.WriteHeader(http.StatusCreated)
	case strings.HasPrefix(r.URL.Path, "/windows/1"):
		if !f.open {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch r.Method {
		case http.MethodGet:
			state := hostdef.ReadyStateComplete
			if f.polls < f.loadingPolls {
				state = hostdef.ReadyStateLoading
			}
			f.polls++
			data, _ := json.Marshal(hostdef.WindowStatus{ReadyState: state})
			_, _ = w.Write(data)
		case http.MethodPost:
			var params hostdef.CommandParams
			body, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(body, &params)
			f.commands = append(f.commands, params)
			if params.Command == hostdef.CommandReload {
				f.polls = 0
			}
			w.WriteHeader(http.StatusNoContent)
		case http.MethodDelete:
			f.open = false
			w.WriteHeader(http.StatusNoContent)
		}
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

// closeByUser simulates the tester closing the window out of band.
func (f *fakeHostService) closeByUser() {
	f.lock.Lock()
	f.open = false
	f.lock.Unlock()
}

func (f *fakeHostService) getCommands() []hostdef.CommandParams {
	f.lock.Lock()
	defer f.lock.Unlock()
	return append([]hostdef.CommandParams(nil), f.commands...)
}

func (f *fakeHostService) getOpened() []hostdef.OpenWindowParams {
	f.lock.Lock()
	defer f.lock.Unlock()
	return append([]hostdef.OpenWindowParams(nil), f.opened...)
}
