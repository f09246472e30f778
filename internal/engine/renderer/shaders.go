package renderer

const solidVertexSource = `
	#version 410 core

	layout (location = 0) in vec2 aPos;
	layout (location = 1) in vec4 aColor;

	uniform mat4 uProjection;

	out vec4 vColor;

	void main() {
		gl_Position = uProjection * vec4(aPos, 0.0, 1.0);
		vColor = aColor;
	}
` + "\x00"

const solidFragmentSource = `
	#version 410 core

	in vec4 vColor;
	out vec4 FragColor;

	void main() {
		FragColor = vColor;
	}
` + "\x00"

const backgroundVertexSource = `
	#version 410 core

	layout (location = 0) in vec2 aPos;
	layout (location = 1) in vec2 aTexCoord;

	uniform mat4 uProjection;

	out vec2 vTexCoord;

	void main() {
		gl_Position = uProjection * vec4(aPos, 0.0, 1.0);
		vTexCoord = aTexCoord;
	}
` + "\x00"

const backgroundFragmentSource = `
	#version 410 core

	uniform sampler2D uTexture;

	in vec2 vTexCoord;
	out vec4 FragColor;

	void main() {
		FragColor = texture(uTexture, vTexCoord);
	}
` + "\x00"
