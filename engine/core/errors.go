package core

import "fmt"

// ShaderCompileError carries the compiler log of a failed shader stage.
type ShaderCompileError struct {
	Stage string // "vertex" or "fragment"
	Log   string
}

func (e *ShaderCompileError) Error() string {
	return fmt.Sprintf("%s shader compile error: %s", e.Stage, e.Log)
}

// ShaderLinkError carries the linker log of a failed program.
type ShaderLinkError struct {
	Log string
}

func (e *ShaderLinkError) Error() string {
	return fmt.Sprintf("program link error: %s", e.Log)
}
