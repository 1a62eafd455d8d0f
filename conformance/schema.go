package conformance

// TestSuite represents a complete YAML test file
type TestSuite struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description,omitempty"`
	Format      string     `yaml:"format,omitempty"` // default source format for the suite: text|xml
	Tests       []TestCase `yaml:"tests"`
}

// TestCase represents a single program run within a suite
type TestCase struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description,omitempty"`
	Skip        interface{} `yaml:"skip,omitempty"`   // bool or string
	Format      string      `yaml:"format,omitempty"` // overrides the suite format
	Program     string      `yaml:"program"`
	Input       string      `yaml:"input,omitempty"`
	Expect      Expectation `yaml:"expect"`
}

// Expectation defines what result is expected from a run
type Expectation struct {
	Stdout         *string `yaml:"stdout,omitempty"`          // exact match
	Match          string  `yaml:"match,omitempty"`           // regex against stdout
	StderrContains string  `yaml:"stderr_contains,omitempty"` // substring of stderr
	Exit           *int    `yaml:"exit,omitempty"`            // process exit code
	Error          string  `yaml:"error,omitempty"`           // E_OPTYPE, E_STRING, etc.
}

// IsSkipped returns true if this test should be skipped
func (tc *TestCase) IsSkipped() (bool, string) {
	if tc.Skip == nil {
		return false, ""
	}

	switch v := tc.Skip.(type) {
	case bool:
		if v {
			return true, "skipped"
		}
		return false, ""
	case string:
		return true, v
	default:
		return false, ""
	}
}

// HasExpectation reports whether the test checks anything at all
func (e *Expectation) HasExpectation() bool {
	return e.Stdout != nil || e.Match != "" || e.StderrContains != "" || e.Exit != nil || e.Error != ""
}
