package dto

type MotifPluginInfo struct {
	Name    string
	Version string
	Enabled bool
	Binary  string
	Motifs  []string
}

type DoctorResult struct {
	Name            string
	ChecksumValid   bool
	BinaryReachable bool
	LifecycleOK     bool
	Error           string
}

type RenderInput struct {
	Motif  string
	Width  int
	Height int
	Seed   uint64
}

type RenderOutput struct {
	Motif  string
	Plugin string
	Lines  []string
	Cached bool
}
