package driver

// Phase identifies which stage of the pipeline produced a CompileError.
type Phase string

const (
	PhaseFile     Phase = "file"
	PhaseLexer    Phase = "lexer"
	PhaseParser   Phase = "parser"
	PhaseSemantic Phase = "semantic"
	PhaseCodegen  Phase = "codegen"
	PhaseRuntime  Phase = "runtime"
	PhaseUnknown  Phase = "unknown"
)

// CompileError is one entry of Result.CompileErrors.
type CompileError struct {
	Phase   Phase  `json:"phase"`
	Message string `json:"message"`
	Line    int    `json:"line"`
	Col     int    `json:"col"`
}

// Result is the JSON record the driver prints to stdout, matching the
// shape the original implementation's driver produced field-for-field.
type Result struct {
	Success       bool           `json:"success"`
	CompileErrors []CompileError `json:"compile_errors"`
	Stdout        string         `json:"stdout"`
	Stderr        string         `json:"stderr"`
	ExitCode      int            `json:"exit_code"`
	TimeMs        int64          `json:"time_ms"`
}
