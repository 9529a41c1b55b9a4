// Package b2cloud is a client for the Backblaze B2 object-storage HTTP API:
// account authorization, bucket management, file upload/download/listing,
// deletion, and scoped download authorization. It mediates HTTP calls only;
// the single piece of state is the session token held in memory after a
// successful Authorize.
package b2cloud

import (
	"bytes"
	"encoding/json"
	"time"

	log "github.com/colt3k/nglog/ng"

	"github.com/croftbox/b2cloud/b2api"
	"github.com/croftbox/b2cloud/errs"
	"github.com/croftbox/b2cloud/internal/auth"
	"github.com/croftbox/b2cloud/internal/caller"
	"github.com/croftbox/b2cloud/internal/uri"
)

const (
	// DefaultMaxRetryAttempts bounds the upload retry loop.
	DefaultMaxRetryAttempts = 3
	// retryBaseDelay seeds the exponential backoff between upload attempts.
	retryBaseDelay = 50 * time.Millisecond
)

// Config holds everything a session needs at construction. Only AccountID
// and ApplicationKey are required; AuthURL defaults to the public
// b2_authorize_account endpoint.
type Config struct {
	AccountID      string
	ApplicationKey string
	// AuthURL overrides the authorization endpoint, mainly for tests.
	AuthURL string
	// RequestTimeoutSec and ResponseHeaderTimeoutSec are passed through to
	// the transport; zero keeps the transport defaults.
	RequestTimeoutSec        int
	ResponseHeaderTimeoutSec int
	// TestMode, when set, is sent as X-Bz-Test-Mode on authorize.
	TestMode string
}

// Cloud is a session against one account. Construct with New, then call
// Authorize before any other operation. AuthResponse is written exactly
// once per successful Authorize and read-only afterwards; concurrent
// Authorize calls on the same session are not supported.
type Cloud struct {
	cfg          Config
	AuthResponse *b2api.AuthorizationResp
}

// New builds an unauthorized session.
func New(cfg Config) *Cloud {
	if len(cfg.AuthURL) == 0 {
		cfg.AuthURL = uri.B2AuthAccount
	}
	if cfg.RequestTimeoutSec > 0 || cfg.ResponseHeaderTimeoutSec > 0 {
		caller.Configure(cfg.RequestTimeoutSec, cfg.ResponseHeaderTimeoutSec)
	}
	return &Cloud{cfg: cfg}
}

// Authorized reports whether a successful Authorize has run.
func (c *Cloud) Authorized() bool {
	return c.AuthResponse.Valid()
}

// Authorize issues the basic-credential GET against the authorization
// endpoint and installs the returned session state. Failure leaves the
// session exactly as it was: either still unauthorized, or holding the
// previous valid authorization.
func (c *Cloud) Authorize() errs.Error {
	header := auth.BasicAuthMap(c.cfg.AccountID, c.cfg.ApplicationKey)
	if len(c.cfg.TestMode) > 0 {
		header["X-Bz-Test-Mode"] = c.cfg.TestMode
		log.Logf(log.INFO, "X-Bz-Test-Mode %s enabled", c.cfg.TestMode)
	}

	log.Logln(log.DEBUG, "obtaining new token")
	mapData, er := caller.MakeCall("GET", c.cfg.AuthURL, nil, header)
	if er != nil {
		return errs.AuthFailed(er)
	}
	resp := &b2api.AuthorizationResp{}
	if errUn := json.Unmarshal(mapData["body"].([]byte), resp); errUn != nil {
		return errs.AuthFailed(errs.New(errUn, "unmarshalling authorization body"))
	}
	if !resp.Valid() {
		return errs.AuthFailed(errs.New(nil, "authorization response missing apiUrl or token"))
	}
	c.AuthResponse = resp
	return nil
}

// gate enforces the authorize-before-use precondition and the capability
// attached to the operation. It runs before any request is built, so a
// gated failure never touches the network.
func (c *Cloud) gate(allowed func(*b2api.AuthorizationResp) bool, op string) errs.Error {
	if !c.AuthResponse.Valid() {
		return errs.Precondition("account not authorized, call Authorize first")
	}
	if !allowed(c.AuthResponse) {
		return errs.Precondition("application key lacks the capability for " + op)
	}
	return nil
}

// post issues one authorized control-plane call and decodes the 200 body
// into out. Optional request fields marshal with omitempty, so only
// populated slots reach the wire.
func (c *Cloud) post(endpoint string, req interface{}, out interface{}) errs.Error {
	msg, errUn := caller.MarshalRequest(req)
	if errUn != nil {
		return errs.New(errUn, "marshalling request")
	}
	log.Logln(log.DEBUG, "request: ", string(msg))

	header := auth.BuildAuthMap(c.AuthResponse.AuthorizationToken)
	mapData, er := caller.MakeCall("POST", c.AuthResponse.APIURL+endpoint, bytes.NewReader(msg), header)
	if er != nil {
		return er
	}
	if errUn = json.Unmarshal(mapData["body"].([]byte), out); errUn != nil {
		return errs.New(errUn, "unmarshalling body")
	}
	return nil
}

// backoff sleeps before retry n (1-based): 50ms, 100ms, 200ms, ... No
// jitter; the delay blocks only the one retry loop that called it.
func backoff(retry int) {
	delay := retryBaseDelay << uint(retry-1)
	log.Logf(log.WARN, "retrying in %s", delay)
	time.Sleep(delay)
}
