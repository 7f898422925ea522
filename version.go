package glfx

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a native API version, encoded as major*10+minor.
type Version uint8

// Supported context versions, in chain order.
const (
	GL33 Version = 33
	GL40 Version = 40
	GL41 Version = 41
	GL42 Version = 42
	GL43 Version = 43
	GL44 Version = 44
	GL45 Version = 45
	GL46 Version = 46
)

// Major returns the major version number.
func (v Version) Major() int { return int(v) / 10 }

// Minor returns the minor version number.
func (v Version) Minor() int { return int(v) % 10 }

// String returns the version in "major.minor" form.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major(), v.Minor())
}

// Valid reports whether v is one of the supported versions.
func (v Version) Valid() bool {
	for _, ext := range extensions {
		if ext.version == v {
			return true
		}
	}
	return false
}

// Versions returns every supported version in chain order.
func Versions() []Version {
	out := make([]Version, len(extensions))
	for i, ext := range extensions {
		out[i] = ext.version
	}
	return out
}

// ParseVersion parses "4.3" (or "43") into a supported Version.
func ParseVersion(s string) (Version, error) {
	s = strings.TrimSpace(s)
	digits := strings.ReplaceAll(s, ".", "")
	if len(digits) != 2 {
		return 0, fmt.Errorf("glfx: parse version %q: want major.minor", s)
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, fmt.Errorf("glfx: parse version %q: %w", s, err)
	}
	v := Version(n)
	if !v.Valid() {
		return 0, fmt.Errorf("glfx: version %s is not supported", v)
	}
	return v, nil
}

// Feature is a set of operation groups a version enables.
type Feature uint32

// Operation groups.
const (
	FeatureCore Feature = 1 << iota
	FeatureTessellation
	FeatureIndexedQuery
	FeatureProgramBinary
	FeatureViewportArray
	FeatureImageLoadStore
	FeatureDebugOutput
	FeatureComputeShader
	FeatureBufferStorage
	FeatureDirectStateAccess
	FeatureAnisotropicFiltering
)

var featureNames = []string{
	"core", "tessellation", "indexed-query", "program-binary",
	"viewport-array", "image-load-store", "debug-output", "compute-shader",
	"buffer-storage", "direct-state-access", "anisotropic-filtering",
}

// String lists the feature names joined by '|'.
func (f Feature) String() string {
	if f == 0 {
		return "none"
	}
	var names []string
	for i, name := range featureNames {
		if f&(1<<i) != 0 {
			names = append(names, name)
		}
	}
	return strings.Join(names, "|")
}

// extension is one link of the version chain: the capability keys and
// operation groups a version adds on top of every version before it.
type extension struct {
	version  Version
	caps     []Capability
	features Feature
}

// extensions is applied in order by NewContext. Each record only adds;
// validateExtensions enforces that at init.
var extensions = []extension{
	{
		version:  GL33,
		features: FeatureCore,
		caps: []Capability{
			{Name: "MAX_TEXTURE_SIZE", Param: MaxTextureSize},
			{Name: "MAX_3D_TEXTURE_SIZE", Param: Max3DTextureSize},
			{Name: "MAX_ARRAY_TEXTURE_LAYERS", Param: MaxArrayTextureLayers},
			{Name: "MAX_TEXTURE_IMAGE_UNITS", Param: MaxTextureImageUnits},
			{Name: "MAX_COMBINED_TEXTURE_IMAGE_UNITS", Param: MaxCombinedTextureImageUnits},
			{Name: "MAX_VERTEX_ATTRIBS", Param: MaxVertexAttribs},
			{Name: "MAX_UNIFORM_BUFFER_BINDINGS", Param: MaxUniformBufferBindings},
			{Name: "MAX_DRAW_BUFFERS", Param: MaxDrawBuffers},
			{Name: "MAX_COLOR_ATTACHMENTS", Param: MaxColorAttachments},
			{Name: "MAX_SAMPLES", Param: MaxSamples},
			{Name: "MAX_TEXTURE_LOD_BIAS", Param: MaxTextureLODBias, Float: true},
		},
	},
	{
		version:  GL40,
		features: FeatureTessellation | FeatureIndexedQuery,
		caps: []Capability{
			{Name: "MAX_PATCH_VERTICES", Param: MaxPatchVertices},
			{Name: "MAX_TESS_GEN_LEVEL", Param: MaxTessGenLevel},
			{Name: "MAX_VERTEX_STREAMS", Param: MaxVertexStreams},
			{Name: "MAX_TRANSFORM_FEEDBACK_BUFFERS", Param: MaxTransformFeedbackBuffers},
			{Name: "MIN_FRAGMENT_INTERPOLATION_OFFSET", Param: MinFragmentInterpolationOffset, Float: true},
			{Name: "MAX_FRAGMENT_INTERPOLATION_OFFSET", Param: MaxFragmentInterpolationOffset, Float: true},
		},
	},
	{
		version:  GL41,
		features: FeatureProgramBinary | FeatureViewportArray,
		caps: []Capability{
			{Name: "MAX_VIEWPORTS", Param: MaxViewports},
			{Name: "VIEWPORT_SUBPIXEL_BITS", Param: ViewportSubpixelBits},
			{Name: "NUM_PROGRAM_BINARY_FORMATS", Param: NumProgramBinaryFormats},
		},
	},
	{
		version:  GL42,
		features: FeatureImageLoadStore,
		caps: []Capability{
			{Name: "MAX_ATOMIC_COUNTER_BUFFER_BINDINGS", Param: MaxAtomicCounterBufferBindings},
			{Name: "MAX_IMAGE_UNITS", Param: MaxImageUnits},
		},
	},
	{
		version:  GL43,
		features: FeatureDebugOutput | FeatureComputeShader,
		caps: []Capability{
			{Name: "MAX_SHADER_STORAGE_BUFFER_BINDINGS", Param: MaxShaderStorageBufferBindings},
			{Name: "MAX_COMPUTE_WORK_GROUP_INVOCATIONS", Param: MaxComputeWorkGroupInvocations},
			{Name: "MAX_COMPUTE_SHARED_MEMORY_SIZE", Param: MaxComputeSharedMemorySize},
			{Name: "MAX_DEBUG_MESSAGE_LENGTH", Param: MaxDebugMessageLength},
			{Name: "MAX_DEBUG_LOGGED_MESSAGES", Param: MaxDebugLoggedMessages},
			{Name: "MAX_DEBUG_GROUP_STACK_DEPTH", Param: MaxDebugGroupStackDepth},
			{Name: "MAX_LABEL_LENGTH", Param: MaxLabelLength},
		},
	},
	{
		version:  GL44,
		features: FeatureBufferStorage,
		caps: []Capability{
			{Name: "MAX_VERTEX_ATTRIB_STRIDE", Param: MaxVertexAttribStride},
		},
	},
	{
		version:  GL45,
		features: FeatureDirectStateAccess,
		caps: []Capability{
			{Name: "MAX_CULL_DISTANCES", Param: MaxCullDistances},
			{Name: "MAX_COMBINED_CLIP_AND_CULL_DISTANCES", Param: MaxCombinedClipAndCullDistances},
		},
	},
	{
		version:  GL46,
		features: FeatureAnisotropicFiltering,
		caps: []Capability{
			{Name: "MAX_TEXTURE_MAX_ANISOTROPY", Param: MaxTextureMaxAnisotropy, Float: true},
		},
	},
}

func init() {
	if err := validateExtensions(extensions); err != nil {
		panic(err)
	}
}

// validateExtensions checks the additive-superset rules of the chain:
// versions strictly increase, every record adds at least one capability,
// and no capability name or parameter is defined twice.
func validateExtensions(exts []extension) error {
	names := make(map[string]Version)
	params := make(map[Enum]string)
	var prev Version
	for i, ext := range exts {
		if i > 0 && ext.version <= prev {
			return fmt.Errorf("glfx: extension %s out of order after %s", ext.version, prev)
		}
		if len(ext.caps) == 0 {
			return fmt.Errorf("glfx: extension %s adds no capabilities", ext.version)
		}
		for _, c := range ext.caps {
			if v, dup := names[c.Name]; dup {
				return fmt.Errorf("glfx: capability %s redefined by %s (introduced by %s)", c.Name, ext.version, v)
			}
			if other, dup := params[c.Param]; dup {
				return fmt.Errorf("glfx: capability %s reuses the query of %s", c.Name, other)
			}
			names[c.Name] = ext.version
			params[c.Param] = c.Name
		}
		prev = ext.version
	}
	return nil
}
