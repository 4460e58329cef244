package preview

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"scenegen/internal/primitives"
	"scenegen/internal/scene"
)

// cached holds the mesh and material for a mesh kind. Created lazily on first draw.
type cached struct {
	mesh rl.Mesh
	mtl  rl.Material
}

// meshes maps mesh kinds to mesh+material. Meshes are created on first use
// so that GPU resources are allocated after the window/OpenGL context exists.
type meshes struct {
	cache    map[string]cached
	viewPos  [3]float32 // camera position, set each frame for lighting
	lightDir [3]float32 // direction to light (normalized), set each frame
}

// newMeshes returns a registry with no meshes loaded.
func newMeshes() *meshes {
	return &meshes{
		cache:    make(map[string]cached),
		lightDir: [3]float32{0.5, 1, 0.5}, // from above-right
	}
}

// setView sets camera position and direction-to-light for this frame. Call once per frame
// before drawing so lit meshes get correct shading.
func (r *meshes) setView(viewPos, lightDir [3]float32) {
	r.viewPos = viewPos
	r.lightDir = lightDir
}

const (
	sphereRings    = 16
	sphereSlices   = 16
	cylinderSlices = 16
)

// genMesh returns the unit mesh for kind, centered on the origin except for the cylinder,
// whose base sits at Y=0.
func genMesh(kind string) rl.Mesh {
	switch kind {
	case primitives.Sphere:
		return rl.GenMeshSphere(0.5, sphereRings, sphereSlices)
	case primitives.Cylinder:
		return rl.GenMeshCylinder(0.5, 1, cylinderSlices)
	case primitives.Plane:
		return rl.GenMeshPlane(1, 1, 1, 1)
	default:
		return rl.GenMeshCube(1, 1, 1)
	}
}

func (r *meshes) ensure(kind string) cached {
	if c, ok := r.cache[kind]; ok {
		return c
	}
	mtl := rl.LoadMaterialDefault()
	if shader := rl.LoadShaderFromMemory(litVS, litFS); rl.IsShaderValid(shader) {
		mtl.Shader = shader
	}
	c := cached{mesh: genMesh(kind), mtl: mtl}
	r.cache[kind] = c
	return c
}

const (
	litVS = `#version 330
in vec3 vertexPosition;
in vec2 vertexTexCoord;
in vec3 vertexNormal;
uniform mat4 matProjection;
uniform mat4 matView;
uniform mat4 matModel;
out vec3 fragPosition;
out vec2 fragTexCoord;
out vec3 fragNormal;
void main() {
  vec4 worldPos = matModel * vec4(vertexPosition, 1.0);
  fragPosition = worldPos.xyz;
  fragTexCoord = vertexTexCoord;
  fragNormal = mat3(matModel) * vertexNormal;
  gl_Position = matProjection * matView * worldPos;
}
`
	litFS = `#version 330
in vec3 fragPosition;
in vec2 fragTexCoord;
in vec3 fragNormal;
uniform vec4 colDiffuse;
uniform vec3 viewPos;
uniform vec3 lightDir;
uniform vec4 ambient;
uniform vec3 lightColor;
uniform float lightIntensity;
uniform float specularPower;
uniform float specularStrength;
out vec4 finalColor;
void main() {
  vec4 tint = colDiffuse;
  vec3 N = normalize(fragNormal);
  vec3 L = normalize(lightDir);
  vec3 V = normalize(viewPos - fragPosition);
  float NdotL = max(dot(N, L), 0.0);
  vec3 diffuse = tint.rgb * NdotL * lightColor * lightIntensity;
  vec3 amb = ambient.rgb * tint.rgb;
  vec3 H = normalize(L + V);
  float NdotH = max(dot(N, H), 0.0);
  float spec = pow(NdotH, specularPower) * specularStrength;
  vec3 specular = lightColor * spec * (NdotL > 0.0 ? 1.0 : 0.0);
  finalColor = vec4(amb + diffuse + specular, tint.a);
}
`
)

// light is the fixed lighting of the viewer: a warm directional light over a dim ambient.
var light = struct {
	ambient          [4]float32
	color            [3]float32
	intensity        float32
	specularPower    float32
	specularStrength float32
}{
	ambient:          [4]float32{0.2, 0.22, 0.26, 1.0},
	color:            [3]float32{1.0, 0.98, 0.95},
	intensity:        0.75,
	specularPower:    48,
	specularStrength: 0.35,
}

// setLitShaderUniforms uploads the view and light uniforms. Values are copied into local
// arrays before being passed to cgo.
func (r *meshes) setLitShaderUniforms(shader rl.Shader) {
	if !rl.IsShaderValid(shader) {
		return
	}
	vecs := []struct {
		name string
		v    []float32
		typ  rl.ShaderUniformDataType
	}{
		{"viewPos", []float32{r.viewPos[0], r.viewPos[1], r.viewPos[2]}, rl.ShaderUniformVec3},
		{"lightDir", []float32{r.lightDir[0], r.lightDir[1], r.lightDir[2]}, rl.ShaderUniformVec3},
		{"ambient", light.ambient[:], rl.ShaderUniformVec4},
		{"lightColor", light.color[:], rl.ShaderUniformVec3},
		{"lightIntensity", []float32{light.intensity}, rl.ShaderUniformFloat},
		{"specularPower", []float32{light.specularPower}, rl.ShaderUniformFloat},
		{"specularStrength", []float32{light.specularStrength}, rl.ShaderUniformFloat},
	}
	for _, u := range vecs {
		if loc := rl.GetShaderLocation(shader, u.name); loc >= 0 {
			rl.SetShaderValueV(shader, loc, u.v, u.typ, 1)
		}
	}
}

// draw draws one instance of def centered at position with the given size.
// Must be called between BeginMode3D and EndMode3D, after setView.
func (r *meshes) draw(def primitives.Def, position, size scene.Vector3) {
	kind := def.Type
	c := r.ensure(kind)
	col := def.RGBA()
	if albedo := c.mtl.GetMap(rl.MapAlbedo); albedo != nil {
		albedo.Color = rl.NewColor(col[0], col[1], col[2], col[3])
	}
	r.setLitShaderUniforms(c.mtl.Shader)

	s := def.Scale(size)
	scaleM := rl.MatrixScale(float32(s[0]), float32(s[1]), float32(s[2]))
	transM := rl.MatrixTranslate(float32(position[0]), float32(position[1]), float32(position[2]))
	var transform rl.Matrix
	if kind == primitives.Cylinder {
		// offset first so position is the center, then scale, then translate
		offsetM := rl.MatrixTranslate(0, -0.5, 0)
		transform = rl.MatrixMultiply(rl.MatrixMultiply(offsetM, scaleM), transM)
	} else {
		transform = rl.MatrixMultiply(scaleM, transM)
	}
	rl.DrawMesh(c.mesh, c.mtl, transform)
}

// unload releases the GPU resources of every loaded mesh.
func (r *meshes) unload() {
	for kind, c := range r.cache {
		rl.UnloadMesh(&c.mesh)
		rl.UnloadMaterial(c.mtl)
		delete(r.cache, kind)
	}
}
