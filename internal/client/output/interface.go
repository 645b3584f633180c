package output

// Outputter defines the output operations bootstrap steps use, enabling dependency injection and testing.
type Outputter interface {
	Infof(format string, a ...any)
	Errorf(format string, a ...any)
	Successf(format string, a ...any)
	Warningf(format string, a ...any)
	Step(step, total int, message string)
	StepSuccess(step, total int, message string)
	StepError(step, total int, message string)
	KeyValue(key, value string)
	List(items []string)
	Box(text string)
	Header(text string)
	Blank()
}

// console wraps the package-level functions to implement Outputter.
type console struct{}

// NewConsole returns an Outputter writing to Stdout and Stderr.
func NewConsole() Outputter {
	return console{}
}

func (console) Infof(format string, a ...any)               { Infof(format, a...) }
func (console) Errorf(format string, a ...any)              { Errorf(format, a...) }
func (console) Successf(format string, a ...any)            { Successf(format, a...) }
func (console) Warningf(format string, a ...any)            { Warningf(format, a...) }
func (console) Step(step, total int, message string)        { Step(step, total, message) }
func (console) StepSuccess(step, total int, message string) { StepSuccess(step, total, message) }
func (console) StepError(step, total int, message string)   { StepError(step, total, message) }
func (console) KeyValue(key, value string)                  { KeyValue(key, value) }
func (console) List(items []string)                         { List(items) }
func (console) Box(text string)                             { Box(text) }
func (console) Header(text string)                          { Header(text) }
func (console) Blank()                                      { Blank() }
