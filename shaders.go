package vgl

import (
	"fmt"
	"os"
)

// Attribute and uniform names every program must declare.
const (
	AttribPosition = "a_position"
	AttribTexCoord = "a_texCoord"
	AttribColor    = "a_color"

	UniformModel      = "u_model"
	UniformView       = "u_view"
	UniformProjection = "u_projection"
	UniformUseTexture = "u_useTexture"
	UniformSampler    = "u_texture"
)

// Fixed attribute slots, for backends that bind locations before linking.
const (
	PositionLocation = 0
	TexCoordLocation = 1
	ColorLocation    = 2
)

// ReadTextFile loads a shader source file.
func ReadTextFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read shader: %w", err)
	}
	return string(data), nil
}

// The shader bodies are shared by both GLSL dialects; the #version line
// and precision qualifiers are prepended per dialect.
const vertexShaderBody = `
in vec3 a_position;
in vec2 a_texCoord;
in vec4 a_color;

out vec2 v_texCoord;
out vec4 v_color;

uniform mat4 u_model;
uniform mat4 u_view;
uniform mat4 u_projection;

void main() {
    gl_Position = u_projection * u_view * u_model * vec4(a_position, 1.0);
    v_texCoord = a_texCoord;
    v_color = a_color;
}
`

const fragmentShaderBody = `
in vec2 v_texCoord;
in vec4 v_color;

out vec4 fragColor;

uniform sampler2D u_texture;
uniform bool u_useTexture;

void main() {
    if (u_useTexture) {
        fragColor = texture(u_texture, v_texCoord) * v_color;
    } else {
        fragColor = v_color;
    }
}
`

// DesktopShaders is the default program in GLSL 4.10 core.
var DesktopShaders = ShaderSources{
	Vertex:   "#version 410 core\n" + vertexShaderBody,
	Fragment: "#version 410 core\n" + fragmentShaderBody,
}

// EmbeddedShaders is the default program in GLSL ES 3.00.
var EmbeddedShaders = ShaderSources{
	Vertex:   "#version 300 es\nprecision highp float;\n" + vertexShaderBody,
	Fragment: "#version 300 es\nprecision mediump float;\n" + fragmentShaderBody,
}
