package director

// Scenario is a storyboard baked into per-frame keyframes
type Scenario struct {
	Version string  `yaml:"version"`
	Name    string  `yaml:"name"`
	FPS     float64 `yaml:"fps"`
	Tracks  []Track `yaml:"tracks"`
}

// Track holds the sampled states of one storyboard object
type Track struct {
	Object    int        `yaml:"object"` // Index in the [Events] section
	Line      int        `yaml:"line"`
	Type      string     `yaml:"type"`
	Layer     string     `yaml:"layer"`
	Origin    string     `yaml:"origin"`
	Image     string     `yaml:"image"`
	Start     int        `yaml:"start"` // Milliseconds
	End       int        `yaml:"end"`
	Keyframes []Keyframe `yaml:"keyframes"`
}

// Keyframe is the object state at one sampled moment
type Keyframe struct {
	Time     float64 `yaml:"time"` // Milliseconds
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	ScaleX   float64 `yaml:"scale_x"`
	ScaleY   float64 `yaml:"scale_y"`
	Rotation float64 `yaml:"rotation"`
	Opacity  float64 `yaml:"opacity"`
	Colour   Colour  `yaml:"colour"`
	Frame    int     `yaml:"frame,omitempty"`
	Image    string  `yaml:"image,omitempty"` // Animation frame file
	FlipH    bool    `yaml:"flip_h,omitempty"`
	FlipV    bool    `yaml:"flip_v,omitempty"`
	Additive bool    `yaml:"additive,omitempty"`
	Visible  bool    `yaml:"visible"`
}

// Colour is an RGB tint on a 0-255 scale
type Colour struct {
	R float64 `yaml:"r"`
	G float64 `yaml:"g"`
	B float64 `yaml:"b"`
}
