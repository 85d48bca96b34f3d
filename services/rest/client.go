package restsvc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/darasa-app/darasa/core"
	"github.com/darasa-app/darasa/core/user"
)

// Client is the HTTP gateway to the backend service. It owns JSON
// encoding, bearer-token auth and the mapping from HTTP statuses to the
// app error taxonomy; domain methods (quiz, course, enrollment, auth) are
// defined in their respective files and all funnel through do.
//
// The boundary also normalizes the backend's loosely-shaped payloads
// (wrapper keys, legacy field names) into the canonical core types, so
// controllers never see raw wire shapes.
type Client struct {
	baseURL    string
	http       *http.Client
	sess       user.Session
	validate   *validator.Validate
	translator ut.Translator
}

func NewClient(conf *core.Config) *Client {
	validate, translator := core.NewValidator()
	return &Client{
		baseURL:    strings.TrimRight(conf.API.BaseURL, "/"),
		http:       &http.Client{Timeout: conf.API.Timeout},
		validate:   validate,
		translator: translator,
	}
}

// WithSession returns a copy of the client bound to a session context;
// requests carry its bearer token.
func (c *Client) WithSession(sess user.Session) *Client {
	cp := *c
	cp.sess = sess
	return &cp
}

func (c *Client) Session() user.Session { return c.sess }

// checkValid runs payload validation before a request leaves the client;
// validator errors are translated into field errors.
func (c *Client) checkValid(err error) error {
	if err == nil {
		return nil
	}
	if vErrs, ok := err.(validator.ValidationErrors); ok {
		flds := make([]core.FieldError, 0, len(vErrs))
		for _, vErr := range vErrs {
			flds = append(flds, core.FieldError{Field: vErr.Field(), Error: vErr.Translate(c.translator)})
		}
		return core.NewValidationError(errors.New("invalid request"), flds...)
	}
	return err
}

// apiError is the backend's JSON error envelope; either key may be used.
type apiError struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (e apiError) text() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

// do performs one JSON round-trip. A nil out discards the response body.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	op := method + " " + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrapf(err, "%s: encoding request", op)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return errors.Wrapf(err, "%s: building request", op)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.sess.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.sess.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return core.NewTransportError(op, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return core.NewTransportError(op, resp.StatusCode, errors.Wrap(err, "decoding response"))
		}
		return nil
	}

	// error statuses; include the backend's message on the generic path
	var msg apiError
	if data, rErr := ioutil.ReadAll(resp.Body); rErr == nil {
		_ = json.Unmarshal(data, &msg)
	}
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return core.ErrUnauthenticated
	case http.StatusForbidden:
		return core.ErrForbidden
	case http.StatusNotFound:
		return core.ErrNotFound
	default:
		err := errors.New(msg.text())
		if msg.text() == "" {
			err = errors.New(http.StatusText(resp.StatusCode))
		}
		return core.NewTransportError(op, resp.StatusCode, err)
	}
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) put(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

func pathf(format string, args ...interface{}) string {
	return fmt.Sprintf(format, args...)
}
