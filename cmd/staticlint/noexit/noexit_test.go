package noexit

import (
	"testing"

	"golang.org/x/tools/go/analysis/analysistest"
)

// Test runs the noexit Analyzer against test data using analysistest.
// main.main may terminate the process, every other function may not.
func Test(t *testing.T) {
	analysistest.Run(t, analysistest.TestData(), Analyzer, "worker", "command")
}
