// Package hostdef describes the JSON protocol between the harness and a host service: the
// helper process that opens the secondary window showing the page under test.
package hostdef

import "gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

const (
	CommandRunScript = "runScript"
	CommandReload    = "reload"
)

// Values of WindowStatus.ReadyState, with the same meaning as document.readyState.
const (
	ReadyStateLoading     = "loading"
	ReadyStateInteractive = "interactive"
	ReadyStateComplete    = "complete"
)

// ServiceInfo is returned by a GET request to the host service's base URL.
type ServiceInfo struct {
	Description  string   `json:"description"`
	Capabilities []string `json:"capabilities"`
}

// OpenWindowParams is the body of the POST request that opens a window. The service responds
// with a Location header identifying the window resource.
type OpenWindowParams struct {
	URL    string              `json:"url"`
	Tag    string              `json:"tag,omitempty"`
	Width  ldvalue.OptionalInt `json:"width,omitempty"`
	Height ldvalue.OptionalInt `json:"height,omitempty"`
}

// WindowStatus is returned by a GET request to a window resource. A window that the user has
// closed responds with 404.
type WindowStatus struct {
	ReadyState string `json:"readyState"`
	URL        string `json:"url,omitempty"`
}

// CommandParams is the body of a POST request to a window resource.
type CommandParams struct {
	Command string `json:"command"`
	Script  string `json:"script,omitempty"`
}
