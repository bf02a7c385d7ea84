package glbackend

import (
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/hubastard/sprig/engine/core"
	"go.uber.org/zap"
)

func stageName(shaderType uint32) string {
	switch shaderType {
	case gl.VERTEX_SHADER:
		return "vertex"
	case gl.FRAGMENT_SHADER:
		return "fragment"
	default:
		return "unknown"
	}
}

func makeShader(src string, shaderType uint32, log *zap.Logger) (uint32, error) {
	sh := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src)
	defer free()
	gl.ShaderSource(sh, 1, csrc, nil)
	gl.CompileShader(sh)

	var status int32
	gl.GetShaderiv(sh, gl.COMPILE_STATUS, &status)
	info := shaderInfoLog(sh)
	if status == gl.FALSE {
		gl.DeleteShader(sh)
		return 0, &core.ShaderCompileError{Stage: stageName(shaderType), Log: info}
	}
	if info != "" {
		log.Warn("shader compiled with diagnostics", zap.String("stage", stageName(shaderType)), zap.String("log", info))
	}
	return sh, nil
}

func makeProgram(vsSrc, fsSrc string, log *zap.Logger) (uint32, error) {
	vs, err := makeShader(withNull(vsSrc), gl.VERTEX_SHADER, log)
	if err != nil {
		return 0, err
	}
	fs, err := makeShader(withNull(fsSrc), gl.FRAGMENT_SHADER, log)
	if err != nil {
		gl.DeleteShader(vs)
		return 0, err
	}
	prog := gl.CreateProgram()
	gl.AttachShader(prog, vs)
	gl.AttachShader(prog, fs)
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	gl.DeleteShader(vs)
	gl.DeleteShader(fs)

	info := programInfoLog(prog)
	if status == gl.FALSE {
		gl.DeleteProgram(prog)
		return 0, &core.ShaderLinkError{Log: info}
	}
	if info != "" {
		log.Warn("program linked with diagnostics", zap.String("log", info))
	}
	return prog, nil
}

func shaderInfoLog(sh uint32) string {
	var logLen int32
	gl.GetShaderiv(sh, gl.INFO_LOG_LENGTH, &logLen)
	if logLen <= 1 {
		return ""
	}
	log := strings.Repeat("\x00", int(logLen))
	gl.GetShaderInfoLog(sh, logLen, nil, gl.Str(log))
	return strings.TrimSpace(strings.TrimRight(log, "\x00"))
}

func programInfoLog(prog uint32) string {
	var logLen int32
	gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
	if logLen <= 1 {
		return ""
	}
	log := strings.Repeat("\x00", int(logLen))
	gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
	return strings.TrimSpace(strings.TrimRight(log, "\x00"))
}

func withNull(src string) string {
	if strings.HasSuffix(src, "\x00") {
		return src
	}
	return src + "\x00"
}
