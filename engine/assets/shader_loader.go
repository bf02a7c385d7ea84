package assets

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed shaders/*.vert shaders/*.frag
var builtinShaders embed.FS

// Names of the shader interface shared by the builtin sprite shaders.
const (
	SpriteVertexShader   = "sprite.vert"
	SpriteFragmentShader = "sprite.frag"

	TransformUniform = "u_TransformationMat"
	TextureSampler   = "ourTexture"
)

// LoadShader reads a GLSL file into a null-terminated string for OpenGL.
// A file under dir takes precedence over the builtin shader of the same
// name; an empty dir only looks at the builtins.
func LoadShader(dir, name string) (string, error) {
	var (
		b   []byte
		err error
	)
	if dir != "" {
		b, err = os.ReadFile(filepath.Join(dir, name))
	}
	if dir == "" || errors.Is(err, fs.ErrNotExist) {
		b, err = builtinShaders.ReadFile("shaders/" + name)
	}
	if err != nil {
		return "", fmt.Errorf("load shader %q: %w", name, err)
	}
	// Ensure null termination for gl.Strs
	if len(b) == 0 || b[len(b)-1] != 0 {
		b = append(b, 0)
	}
	return string(b), nil
}
