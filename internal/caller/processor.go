package caller

import (
	"io"
	"io/ioutil"
	"net/http"

	log "github.com/colt3k/nglog/ng"
	"github.com/colt3k/utils/netut/hc"

	"github.com/croftbox/b2cloud/errs"
)

var client *hc.Client

// Default transport timeouts, in seconds. The request timeout is long to
// accommodate file uploads; cancellation is the transport's job, not this
// layer's.
const (
	DefaultRequestTimeoutSec        = 3600
	DefaultResponseHeaderTimeoutSec = 300
)

// Configure replaces the shared client with one using the given timeouts.
// Call before the first request; the zero values keep the defaults.
func Configure(requestTimeoutSec, responseHeaderTimeoutSec int) {
	if requestTimeoutSec <= 0 {
		requestTimeoutSec = DefaultRequestTimeoutSec
	}
	if responseHeaderTimeoutSec <= 0 {
		responseHeaderTimeoutSec = DefaultResponseHeaderTimeoutSec
	}
	client = hc.NewClient(hc.HttpClientRequestTimeout(requestTimeoutSec),
		hc.DisableVerifyClientCert(false),
		hc.HttpClientResponseHeaderTimeout(responseHeaderTimeoutSec))
}

func httpClient() *hc.Client {
	if client == nil {
		Configure(0, 0)
	}
	return client
}

// HttpCall describes one request to the service.
type HttpCall struct {
	Method string
	URL    string
	Header map[string]string
}

// New builds an HttpCall.
func New(method, url string, header map[string]string) *HttpCall {
	return &HttpCall{Method: method, URL: url, Header: header}
}

// Do issues the call and buffers the response. On success the returned map
// holds the body under "body" plus one entry per response header. Any
// failure is normalized: a non-200 response keeps its status and parsed
// error body, no response at all becomes a status-0 transport error.
func (h *HttpCall) Do(data io.Reader) (map[string]interface{}, errs.Error) {
	log.Logf(log.DEBUG, "calling %s %s", h.Method, h.URL)

	resp, err := httpClient().Fetch(h.Method, h.URL, nil, h.Header, data)
	if resp != nil {
		defer resp.Body.Close()
	}
	if er := normalize(resp, err, h.URL); er != nil {
		return nil, er
	}

	body, errRA := ioutil.ReadAll(resp.Body)
	if errRA != nil {
		return nil, errs.Transport(errRA, "unable to read response from "+h.URL)
	}
	log.Logln(log.DBGL2, "body: ", string(body))

	tmp := make(map[string]interface{})
	for name, value := range resp.Header {
		tmp[name] = value
	}
	tmp["body"] = body
	return tmp, nil
}

// Stream issues the call and hands back the live response without reading
// the body; the caller owns resp.Body. Only used by downloads.
func (h *HttpCall) Stream(data io.Reader) (*http.Response, errs.Error) {
	log.Logf(log.DEBUG, "streaming %s %s", h.Method, h.URL)

	resp, err := httpClient().Fetch(h.Method, h.URL, nil, h.Header, data)
	if er := normalize(resp, err, h.URL); er != nil {
		if resp != nil {
			resp.Body.Close()
		}
		return nil, er
	}
	return resp, nil
}

// normalize maps a (response, error) pair from the transport onto the
// uniform error shape, even when the client flagged the status line.
// Success is widened from 200 to the whole 2xx class: the control plane
// only ever sends 200, but upload and download pods have answered 202/206
// and those bodies are usable.
func normalize(resp *http.Response, err error, url string) errs.Error {
	if resp != nil && resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	if resp == nil {
		if err == nil {
			return errs.Transport(nil, "no response from "+url)
		}
		return errs.Transport(err, "site unreachable "+url)
	}
	body, errRA := ioutil.ReadAll(resp.Body)
	if errRA != nil {
		return errs.FromResponse(resp.StatusCode, nil)
	}
	log.Logln(log.DEBUG, "error body: ", string(body))
	return errs.FromResponse(resp.StatusCode, body)
}

// MakeCall is the package entry point used by every operation.
func MakeCall(method, URL string, msg io.Reader, header map[string]string) (map[string]interface{}, errs.Error) {
	return New(method, URL, header).Do(msg)
}

// StreamCall is MakeCall's streaming counterpart.
func StreamCall(method, URL string, msg io.Reader, header map[string]string) (*http.Response, errs.Error) {
	return New(method, URL, header).Stream(msg)
}
