package httpform_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/httpform"
)

func newHandler(t *testing.T) *httpform.Handler {
	t.Helper()
	h, err := httpform.New(func() (*form.Form, error) {
		return form.New(form.DemoDefinition())
	})
	require.NoError(t, err)
	t.Cleanup(h.Close)
	return h
}

func do(t *testing.T, h http.Handler, req *http.Request) (*httptest.ResponseRecorder, httpform.State) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var state httpform.State
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	}
	return rec, state
}

func postForm(values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/form", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	return req
}

func validValues() url.Values {
	return url.Values{
		"fullName":   {"Jane Doe"},
		"email":      {"jane@example.com"},
		"password":   {"supersecret"},
		"country":    {"FR"},
		"newsletter": {"on"},
	}
}

func TestHandler_GetHTML(t *testing.T) {
	h := newHandler(t)
	rec, _ := do(t, h, httptest.NewRequest(http.MethodGet, "/form", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	require.Contains(t, body, `<form id="profile"`)
	require.Contains(t, body, `action="/form"`)
	require.NotContains(t, body, "invalid-feedback")
}

func TestHandler_GetJSON(t *testing.T) {
	h := newHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/form", nil)
	req.Header.Set("Accept", "application/json")
	rec, state := do(t, h, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "profile", state.ID)
	require.False(t, state.Valid)
	require.False(t, state.Dirty)
	require.Equal(t, "M", state.Values["gender"])
	require.Empty(t, state.Errors)
}

func TestHandler_InvalidSubmission(t *testing.T) {
	h := newHandler(t)
	rec, state := do(t, h, postForm(url.Values{"fullName": {"Al"}}))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Equal(t, "Minimum 3 characters", state.Errors["fullName"])
	require.Equal(t, "This field is required", state.Errors["email"])
	require.Nil(t, state.Submitted)
	require.True(t, state.Dirty)
}

func TestHandler_ValidSubmission(t *testing.T) {
	h := newHandler(t)
	rec, state := do(t, h, postForm(validValues()))

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, state.Valid)
	require.Equal(t, "Jane Doe", state.Submitted["fullName"])
	require.Equal(t, true, state.Submitted["newsletter"])
	require.Equal(t, "M", state.Submitted["gender"])

	// an unchecked checkbox is simply absent from the payload
	values := validValues()
	values.Del("newsletter")
	_, state = do(t, h, postForm(values))
	require.Equal(t, false, state.Submitted["newsletter"])
}

func TestHandler_MalformedNumberIsEncodable(t *testing.T) {
	h := newHandler(t)
	values := validValues()
	values.Set("age", "abc")

	rec, state := do(t, h, postForm(values))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Nil(t, state.Submitted["age"])

	req := postForm(values)
	req.Header.Set("Accept", "text/html")
	rec, _ = do(t, h, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `formkit-submitted`)
}

func TestHandler_OverflowingNumberIsAccepted(t *testing.T) {
	h := newHandler(t)
	for _, text := range []string{"1e400", "-1e400"} {
		values := validValues()
		values.Set("age", text)

		rec, state := do(t, h, postForm(values))
		require.Equal(t, http.StatusOK, rec.Code, "age=%s", text)
		require.Empty(t, state.Errors)
		require.Nil(t, state.Submitted["age"])
	}
}

// files holds filename, content type and content per part, in order.
func multipartRequest(t *testing.T, fields url.Values, files [][3]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for name, vals := range fields {
		for _, v := range vals {
			require.NoError(t, mw.WriteField(name, v))
		}
	}
	for _, file := range files {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="attachments"; filename="`+file[0]+`"`)
		header.Set("Content-Type", file[1])
		part, err := mw.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write([]byte(file[2]))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/form", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	return req
}

func attachmentNames(t *testing.T, state httpform.State) []string {
	t.Helper()
	raw, _ := state.Values["attachments"].([]any)
	names := make([]string, 0, len(raw))
	for _, item := range raw {
		rec, ok := item.(map[string]any)
		require.True(t, ok)
		names = append(names, rec["name"].(string))
	}
	return names
}

func TestHandler_UploadAndRemove(t *testing.T) {
	h := newHandler(t)
	req := multipartRequest(t, url.Values{"fullName": {"Jane"}}, [][3]string{
		{"notes.pdf", "application/pdf", "%PDF"},
		{"photo.png", "image/png", "png"},
		{"data.csv", "text/csv", "a,b"},
	})
	rec, state := do(t, h, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Equal(t, []string{"notes.pdf", "photo.png"}, attachmentNames(t, state))

	up, ok := h.Form().Upload("attachments")
	require.True(t, ok)
	require.True(t, strings.HasPrefix(up.Value()[1].Preview, "data:image/png;base64,"))

	rec, state = do(t, h, postForm(url.Values{"remove": {"attachments:0"}}))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []string{"photo.png"}, attachmentNames(t, state))
	require.Nil(t, state.Submitted)

	rec, _ = do(t, h, postForm(url.Values{"remove": {"fullName:0"}}))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Reset(t *testing.T) {
	h := newHandler(t)
	values := validValues()
	values.Set("gender", "F")
	_, state := do(t, h, postForm(values))
	require.Equal(t, "F", state.Values["gender"])

	_, state = do(t, h, postForm(url.Values{"reset": {"1"}, "fullName": {"ignored"}}))
	require.Equal(t, "M", state.Values["gender"])
	require.Nil(t, state.Values["fullName"])
	require.Equal(t, false, state.Values["newsletter"])
	require.Empty(t, state.Errors)
}

func TestHandler_ProtocolErrors(t *testing.T) {
	h := newHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/form", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec, _ := do(t, h, req)
	require.Equal(t, http.StatusUnsupportedMediaType, rec.Code)

	rec, _ = do(t, h, httptest.NewRequest(http.MethodPut, "/form", nil))
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	require.Equal(t, "GET, HEAD, POST", rec.Header().Get("Allow"))

	req = httptest.NewRequest(http.MethodGet, "/form", nil)
	req.Header.Set("Accept", "image/png")
	rec, _ = do(t, h, req)
	require.Equal(t, http.StatusNotAcceptable, rec.Code)

	rec, _ = do(t, h, httptest.NewRequest(http.MethodHead, "/form", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Zero(t, rec.Body.Len())
}

func TestHandler_WatchReloadsDefinition(t *testing.T) {
	path := filepath.Join(t.TempDir(), "form.yaml")
	write := func(title string) {
		content := "id: watched\ntitle: " + title + "\nfields:\n  - name: a\n    label: A\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	write("First")

	h, err := httpform.New(func() (*form.Form, error) {
		def, err := form.LoadDefinition(os.DirFS(filepath.Dir(path)), filepath.Base(path))
		if err != nil {
			return nil, err
		}
		return form.New(def)
	})
	require.NoError(t, err)
	t.Cleanup(h.Close)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, h.Watch(ctx, path))

	write("Second")
	require.Eventually(t, func() bool {
		return h.Form().Definition().Title == "Second"
	}, 5*time.Second, 20*time.Millisecond)
}
