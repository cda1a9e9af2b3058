package framework

// TestLogger receives status information about each test as the run
// progresses. The command-line tool provides a console implementation; a nil
// TestLogger passed to Run is replaced with a no-op one.
//
// TestError is called once per aggregated failure message when a test
// finishes, in the order the failures were observed.
type TestLogger interface {
	TestStarted(id TestID)
	TestError(id TestID, err error)
	TestFinished(id TestID, failed bool, debugOutput CapturedOutput)
	TestSkipped(id TestID, reason string)
}

type nullTestLogger struct{}

func (n nullTestLogger) TestStarted(TestID)                        {}
func (n nullTestLogger) TestError(TestID, error)                   {}
func (n nullTestLogger) TestFinished(TestID, bool, CapturedOutput) {}
func (n nullTestLogger) TestSkipped(TestID, string)                {}
