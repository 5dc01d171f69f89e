package stdlib

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/aledsdavies/cereal/pkgs/errors"
	"github.com/aledsdavies/cereal/pkgs/execution"
)

// Variables written by httpget
const (
	HTTPBodyVar   = "http_get_body"
	HTTPStatusVar = "http_get_status"
)

// DefaultHTTPTimeout bounds a whole request when no timeout is configured
const DefaultHTTPTimeout = 30 * time.Second

// HTTPGet fetches a URL. Any response is a success, whatever its status;
// only transport failures are errors.
type HTTPGet struct {
	Client    *http.Client
	UserAgent string
}

// NewHTTPGet creates the httpget library
func NewHTTPGet(timeout time.Duration, userAgent string) *HTTPGet {
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}
	return &HTTPGet{
		Client:    &http.Client{Timeout: timeout},
		UserAgent: userAgent,
	}
}

func (h *HTTPGet) Signature() *Signature {
	return &Signature{
		Name:        "httpget",
		Description: "Fetch a URL with HTTP GET",
		Registers: []RegisterSpec{
			{Register: register(0), Name: "url", Description: "address to fetch"},
		},
		Results: []string{HTTPBodyVar, HTTPStatusVar},
	}
}

func (h *HTTPGet) Execute(ctx *execution.ExecutionContext) error {
	url := ctx.Variables[register(0)]

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Wrap(errors.ErrLibrary, fmt.Sprintf("Invalid URL %q", url), err)
	}
	if h.UserAgent != "" {
		req.Header.Set("User-Agent", h.UserAgent)
	}

	resp, err := h.Client.Do(req)
	if err != nil {
		return errors.Wrap(errors.ErrLibrary, fmt.Sprintf("HTTP GET %s failed", url), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(errors.ErrLibrary, fmt.Sprintf("Failed to read response from %s", url), err)
	}

	ctx.SetVariable(HTTPBodyVar, string(body))
	ctx.SetVariable(HTTPStatusVar, strconv.Itoa(resp.StatusCode))
	return nil
}
