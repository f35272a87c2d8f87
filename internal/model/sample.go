package model

const bytesPerMiB = 1024 * 1024

// Sample is one row across the four rolling windows.
type Sample struct {
	Elapsed float64 // seconds since the buffer was created
	CPU     float64 // percent 0-100
	RAM     float64 // percent 0-100
	GPU     float64 // percent 0-100, last known GPU reading
}

// GPUReading is the last known state of the GPU as reported by nvidia-smi.
// VRAM figures are kept in MiB, the unit the tool reports.
type GPUReading struct {
	Usage        float32 `json:"usage"`   // percent
	MemPct       float32 `json:"mem_pct"` // VRAM used / total, percent
	TempC        int32   `json:"temp_c"`
	VRAMUsedMiB  uint64  `json:"vram_used_mib"`
	VRAMTotalMiB uint64  `json:"vram_total_mib"`
}

func (g GPUReading) VRAMUsedBytes() uint64  { return g.VRAMUsedMiB * bytesPerMiB }
func (g GPUReading) VRAMTotalBytes() uint64 { return g.VRAMTotalMiB * bytesPerMiB }

// Sensor is a single temperature sensor; Valid is false when the sensor
// is listed but reports no reading.
type Sensor struct {
	Label   string
	Celsius float64
	Valid   bool
}

// Snapshot holds copies of the rolling windows, oldest first. All four
// slices always have the same length.
type Snapshot struct {
	Times []float64 `json:"times"`
	CPU   []float64 `json:"cpu"`
	RAM   []float64 `json:"ram"`
	GPU   []float64 `json:"gpu"`
}

// Len reports the shared length of the series.
func (s Snapshot) Len() int { return len(s.Times) }

// Gauges flattens the latest values the HUD shows next to the graph.
type Gauges struct {
	CPU            float64 `json:"cpu"`
	RAM            float64 `json:"ram"`
	GPU            float32 `json:"gpu"`
	CPUTempC       float32 `json:"cpu_temp_c"`
	GPUTempC       int32   `json:"gpu_temp_c"`
	RAMUsedBytes   uint64  `json:"ram_used_bytes"`
	VRAMUsedBytes  uint64  `json:"vram_used_bytes"`
	VRAMTotalBytes uint64  `json:"vram_total_bytes"`
}
