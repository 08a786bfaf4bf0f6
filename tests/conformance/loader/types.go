// Package loader reads TCK-style conformance case files.
package loader

import "encoding/json"

// TestCase represents a single conformance case.
//
// Exactly one of Result and Error is meaningful: cases with an Error
// block expect evaluation (or compilation) to fail with the given code.
type TestCase struct {
	Name       string          `json:"name"`
	Expression string          `json:"expression"`
	Context    json.RawMessage `json:"context,omitempty"`
	Result     json.RawMessage `json:"result,omitempty"`
	Error      *ErrorInfo      `json:"error,omitempty"`
}

// ErrorInfo describes an expected failure.
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}

// TestGroup holds the cases of one case file.
type TestGroup struct {
	Name  string
	Path  string
	Cases []*TestCase
}

// Level groups the case files of one conformance level directory.
type Level struct {
	Name   string
	Groups []*TestGroup
}

// Suite is the full conformance suite.
type Suite struct {
	Levels []*Level
	Total  int
}
