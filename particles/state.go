package particles

// State is the engine state. Exactly one is active per Field.
type State uint8

const (
	Hidden State = iota
	Showing
	Idle
	Exploding
	Reforming
	SpatialActive
)

var stateNames = [...]string{"hidden", "showing", "idle", "exploding", "reforming", "spatial"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Visible reports whether the state shows a built point cloud.
func (s State) Visible() bool { return s != Hidden }

// Params are the caller-owned baseline values every "return to baseline"
// transition animates toward.
type Params struct {
	Spread float64 `yaml:"spread"` // Lateral jitter magnitude
	Depth  float64 `yaml:"depth"`  // Z scatter magnitude
	Size   float64 `yaml:"size"`   // Point render size
}

// Transition tags stored on interpolation records so completions can be attributed.
const (
	tagNone = iota
	tagShow
	tagHide
	tagExplode
	tagReform
	tagSpatial
)

// Uniforms is the per-frame snapshot the renderer feeds to the point shader.
type Uniforms struct {
	Time        float32
	Spread      float32
	Depth       float32
	Size        float32
	TextureSize [2]float32
	SpatialMode float32
	Pointer     [2]float32
	Strength    float32
	Scale       float32
	OffsetX     float32
}
