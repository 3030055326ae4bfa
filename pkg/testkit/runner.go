package testkit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run loads one scenario file and runs it as a subtest.
func Run(t *testing.T, handler http.Handler, scenarioPath string) {
	t.Helper()

	s, err := LoadScenario(scenarioPath)
	require.NoError(t, err)

	t.Run(s.Name, func(t *testing.T) { RunScenario(t, handler, s) })
}

// RunDir runs every *.json scenario in dir as its own subtest. newHandler is
// called once per scenario so flows do not share state.
func RunDir(t *testing.T, newHandler func(t *testing.T) http.Handler, dir string) {
	t.Helper()

	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	require.NoError(t, err)
	require.NotEmpty(t, paths, "testkit: no scenario files found in %q", dir)

	for _, p := range paths {
		s, err := LoadScenario(p)
		if !assert.NoError(t, err) {
			continue
		}
		t.Run(s.Name, func(t *testing.T) { RunScenario(t, newHandler(t), s) })
	}
}

// RunScenario executes the steps in order, carrying cookies between them.
// A failing step stops the flow.
func RunScenario(t *testing.T, handler http.Handler, s *Scenario) {
	t.Helper()

	jar := map[string]*http.Cookie{}
	vars := map[string]string{}

	for i, st := range s.Steps {
		ok := t.Run(st.Name, func(t *testing.T) {
			rec := fire(handler, st, jar, vars)
			remember(jar, rec.Result().Cookies())

			body := rec.Body.Bytes()
			require.Equal(t, st.ExpectedCode, rec.Code, "[%s] status mismatch\nbody: %s", st.Name, body)

			if st.ExpectText != "" {
				assert.Equal(t, st.ExpectText, strings.TrimSpace(string(body)), "[%s] body mismatch", st.Name)
			}
			if len(st.ExpectBody) > 0 {
				diffs, err := Contains(st.ExpectBody, body)
				require.NoError(t, err, "[%s]", st.Name)
				assert.Empty(t, diffs, "[%s] body mismatch:\n%s", st.Name, strings.Join(diffs, "\n"))
			}
			if len(st.Capture) > 0 {
				capture(t, st, body, vars)
			}
		})
		if !ok {
			t.Fatalf("[%s] step %d (%s) failed; remaining steps skipped", s.Name, i+1, st.Name)
		}
	}
}

func fire(handler http.Handler, st Step, jar map[string]*http.Cookie, vars map[string]string) *httptest.ResponseRecorder {
	var body io.Reader
	if len(st.Body) > 0 {
		body = bytes.NewReader([]byte(expand(string(st.Body), vars)))
	}

	req := httptest.NewRequest(st.Method, expand(st.URL, vars), body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range st.Headers {
		req.Header.Set(k, v)
	}
	for _, c := range jar {
		req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

// remember applies Set-Cookie headers to the jar. A negative MaxAge deletes.
func remember(jar map[string]*http.Cookie, cookies []*http.Cookie) {
	for _, c := range cookies {
		if c.MaxAge < 0 || c.Value == "" {
			delete(jar, c.Name)
			continue
		}
		jar[c.Name] = c
	}
}

func capture(t *testing.T, st Step, body []byte, vars map[string]string) {
	t.Helper()

	var doc interface{}
	require.NoError(t, json.Unmarshal(body, &doc), "[%s] capture needs a JSON body", st.Name)

	for name, path := range st.Capture {
		v, ok := Lookup(doc, path)
		require.True(t, ok, "[%s] capture %q: path %q not found", st.Name, name, path)
		vars[name] = fmt.Sprint(v)
	}
}

func expand(s string, vars map[string]string) string {
	for k, v := range vars {
		s = strings.ReplaceAll(s, "{{"+k+"}}", v)
	}
	return s
}
