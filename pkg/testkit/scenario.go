// Package testkit drives JSON-described HTTP flows against an http.Handler.
//
// A scenario file holds one flow: an ordered list of steps sharing a cookie
// jar, so a login step's session carries into the steps after it.
//
//	testdata/
//	  checkout_flow.json
//
//	{
//	  "name": "checkout flow",
//	  "steps": [
//	    {"name": "login", "method": "POST", "url": "/api/auth/login",
//	     "body": {"email": "a@x.com", "password": "secret1"},
//	     "expectedCode": 200},
//	    {"name": "cart", "url": "/api/cart", "expectedCode": 200,
//	     "expectBody": {"subtotal": 0}}
//	  ]
//	}
//
// expectBody is a subset match: objects may carry extra keys, arrays must
// match in length. Use expectText for non-JSON bodies.
//
// Example _test.go:
//
//	func TestAPI(t *testing.T) {
//	    testkit.RunDir(t, handler, "testdata")
//	}
package testkit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Scenario is one named flow.
type Scenario struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Steps       []Step `json:"steps"`
}

// Step is a single request and its expectations.
type Step struct {
	Name         string            `json:"name"`
	Method       string            `json:"method"` // default GET
	URL          string            `json:"url"`
	Headers      map[string]string `json:"headers"`
	Body         json.RawMessage   `json:"body"`
	ExpectedCode int               `json:"expectedCode"`
	ExpectBody   json.RawMessage   `json:"expectBody"`
	ExpectText   string            `json:"expectText"`

	// Capture stores values from the response body for later steps, keyed
	// by variable name with a dotted path as value ("items.0.id"). Later
	// steps reference them as {{name}} in url or body.
	Capture map[string]string `json:"capture"`
}

// LoadScenario reads and validates a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("testkit: read %q: %w", path, err)
	}

	var s Scenario
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("testkit: parse %q: %w", path, err)
	}
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("testkit: invalid scenario %q: %w", path, err)
	}
	return &s, nil
}

func (s *Scenario) validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("at least one step is required")
	}
	for i := range s.Steps {
		st := &s.Steps[i]
		if st.URL == "" {
			return fmt.Errorf("steps[%d].url is required", i)
		}
		if st.ExpectedCode == 0 {
			return fmt.Errorf("steps[%d].expectedCode is required", i)
		}
		if st.Method == "" {
			st.Method = "GET"
		}
		st.Method = strings.ToUpper(st.Method)
		if st.Name == "" {
			st.Name = fmt.Sprintf("%02d %s %s", i+1, st.Method, st.URL)
		}
	}
	return nil
}

// LoadAllFromDir loads every *.json file in dir as a Scenario.
func LoadAllFromDir(dir string) ([]*Scenario, []error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil || len(paths) == 0 {
		return nil, []error{fmt.Errorf("testkit: no scenario files found in %q", dir)}
	}

	var (
		scenarios []*Scenario
		errs      []error
	)
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, errs
}
